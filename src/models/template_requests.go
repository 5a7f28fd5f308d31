package models

// CreateTemplateRequest — สร้าง template เปล่า (ทั้งสาม levels เป็น array ว่าง)
type CreateTemplateRequest struct {
	TemplateName string `json:"templateName" validate:"required"`
}

// TabRequest — เพิ่ม tab ใหม่ใน level
type TabRequest struct {
	Name string `json:"name" validate:"required"`
}

// FieldRequest คือ payload จาก FieldModal ฝั่ง UI
// field_type ต้องอยู่ใน enumeration ปิด และเปลี่ยนไม่ได้หลังสร้าง
type FieldRequest struct {
	FieldName        string   `json:"field_name" validate:"required"`
	FieldType        string   `json:"field_type" validate:"required,oneof=text number email password tel url date time datetime-local textarea select checkbox radio file api-dropdown table"`
	FieldPlaceholder string   `json:"field_placeholder"`
	IsRequired       bool     `json:"is_required"`
	FieldOptions     []Option `json:"field_options"`
	Endpoint         string   `json:"endpoint"`
	RowCount         int      `json:"rowCount"`
}

// ColumnRequest คือ payload หนึ่งรายการจาก TableColumnModal
type ColumnRequest struct {
	Name               string `json:"name" validate:"required"`
	Type               string `json:"type" validate:"required,oneof=text number date boolean api-dropdown"`
	IsCalculated       bool   `json:"isCalculated"`
	CalculationFormula string `json:"calculationFormula"`
	Endpoint           string `json:"endpoint"`
}

// ColumnsRequest — TableColumnModal ส่งหลาย columns ได้ในครั้งเดียว
type ColumnsRequest struct {
	Columns []ColumnRequest `json:"columns" validate:"required,min=1,dive"`
}
