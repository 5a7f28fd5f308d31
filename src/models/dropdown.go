package models

// DropdownOption หนึ่งตัวเลือกจาก remote lookup service
type DropdownOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// DropdownPage หนึ่งหน้าของผลลัพธ์ พร้อม token สำหรับหน้าถัดไป
type DropdownPage struct {
	Options       []DropdownOption `json:"options"`
	HasMore       bool             `json:"hasMore"`
	NextPageToken string           `json:"nextPageToken,omitempty"`
}
