package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Record ---
// Record (table entry) คือ snapshot ของ template ที่ถูกกรอกค่าแล้ว
// เก็บแยกจาก template โดยสมบูรณ์ — แก้ template ภายหลังไม่มีผลกับ record เดิม
type Record struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Header      SectionForest      `bson:"header" json:"header"`
	Lines       SectionForest      `bson:"lines" json:"lines"`
	LineDetails SectionForest      `bson:"lineDetails" json:"lineDetails"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// Forest คืน forest ของ level ที่ขอ (nil ถ้า level ไม่รู้จัก)
func (r *Record) Forest(level string) SectionForest {
	switch level {
	case LevelHeader:
		return r.Header
	case LevelLines:
		return r.Lines
	case LevelLineDetails:
		return r.LineDetails
	}
	return nil
}

// SetForest เขียน forest กลับเข้า level ที่ขอ
func (r *Record) SetForest(level string, forest SectionForest) {
	switch level {
	case LevelHeader:
		r.Header = forest
	case LevelLines:
		r.Lines = forest
	case LevelLineDetails:
		r.LineDetails = forest
	}
}

// RecordUpdateRequest ใช้ตอน save ทับ record ทั้งสาม levels (whole-record overwrite)
type RecordUpdateRequest struct {
	Header      SectionForest `json:"header"`
	Lines       SectionForest `json:"lines"`
	LineDetails SectionForest `json:"lineDetails"`
}

// FieldEditRequest — แก้ค่า field หนึ่งตัวใน record ผ่าน binding engine
type FieldEditRequest struct {
	Level   string      `json:"level" validate:"required"`
	TabID   string      `json:"tabId" validate:"required"`
	FieldID string      `json:"fieldId" validate:"required"`
	Value   interface{} `json:"value"`
}

// CellEditRequest — แก้ค่า cell หนึ่งช่องใน table field
type CellEditRequest struct {
	Level      string      `json:"level" validate:"required"`
	TabID      string      `json:"tabId" validate:"required"`
	FieldID    string      `json:"fieldId" validate:"required"`
	RowIndex   int         `json:"rowIndex" validate:"min=0"`
	ColumnName string      `json:"columnName" validate:"required"`
	Value      interface{} `json:"value"`
}

// InsertRowRequest — เพิ่มแถวว่างหนึ่งแถวใน table field
type InsertRowRequest struct {
	Level   string `json:"level" validate:"required"`
	TabID   string `json:"tabId" validate:"required"`
	FieldID string `json:"fieldId" validate:"required"`
}
