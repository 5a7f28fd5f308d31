package models

import (
	"encoding/json"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field types ที่รองรับในระบบ
const (
	FieldTypeText        = "text"
	FieldTypeNumber      = "number"
	FieldTypeEmail       = "email"
	FieldTypePassword    = "password"
	FieldTypeTel         = "tel"
	FieldTypeURL         = "url"
	FieldTypeDate        = "date"
	FieldTypeTime        = "time"
	FieldTypeDatetime    = "datetime-local"
	FieldTypeTextarea    = "textarea"
	FieldTypeSelect      = "select"
	FieldTypeCheckbox    = "checkbox"
	FieldTypeRadio       = "radio"
	FieldTypeFile        = "file"
	FieldTypeAPIDropdown = "api-dropdown"
	FieldTypeTable       = "table"
)

// Column types สำหรับ table field
const (
	ColumnTypeText        = "text"
	ColumnTypeNumber      = "number"
	ColumnTypeDate        = "date"
	ColumnTypeBoolean     = "boolean"
	ColumnTypeAPIDropdown = "api-dropdown"
)

// Levels ของ Template: header, lines, lineDetails
const (
	LevelHeader      = "header"
	LevelLines       = "lines"
	LevelLineDetails = "lineDetails"
)

var fieldTypes = map[string]bool{
	FieldTypeText: true, FieldTypeNumber: true, FieldTypeEmail: true,
	FieldTypePassword: true, FieldTypeTel: true, FieldTypeURL: true,
	FieldTypeDate: true, FieldTypeTime: true, FieldTypeDatetime: true,
	FieldTypeTextarea: true, FieldTypeSelect: true, FieldTypeCheckbox: true,
	FieldTypeRadio: true, FieldTypeFile: true, FieldTypeAPIDropdown: true,
	FieldTypeTable: true,
}

var columnTypes = map[string]bool{
	ColumnTypeText: true, ColumnTypeNumber: true, ColumnTypeDate: true,
	ColumnTypeBoolean: true, ColumnTypeAPIDropdown: true,
}

// IsValidFieldType ตรวจสอบว่า field_type อยู่ในรายการที่รองรับ
func IsValidFieldType(t string) bool { return fieldTypes[t] }

// IsValidColumnType ตรวจสอบว่า column type อยู่ในรายการที่รองรับ
func IsValidColumnType(t string) bool { return columnTypes[t] }

// IsValidLevel ตรวจสอบ level ของ section forest
func IsValidLevel(level string) bool {
	return level == LevelHeader || level == LevelLines || level == LevelLineDetails
}

// --- Template ---
type Template struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TemplateName string             `bson:"templateName" json:"templateName"`
	Header       SectionForest      `bson:"header" json:"header"`
	Lines        SectionForest      `bson:"lines" json:"lines"`
	LineDetails  SectionForest      `bson:"lineDetails" json:"lineDetails"`
}

// --- Tab (Section) ---
type Tab struct {
	ID     string  `bson:"id" json:"id"`
	Name   string  `bson:"name" json:"name"`
	Fields []Field `bson:"fields" json:"fields"`
}

// --- Field ---
// Field ที่มี field_type = "table" จะถือ Columns / TableData / RowCount ของตัวเองด้วย
type Field struct {
	ID               string      `bson:"id" json:"id"`
	FieldName        string      `bson:"field_name" json:"field_name"`
	FieldType        string      `bson:"field_type" json:"field_type"`
	FieldValue       interface{} `bson:"field_value,omitempty" json:"field_value,omitempty"`
	FieldPlaceholder string      `bson:"field_placeholder,omitempty" json:"field_placeholder,omitempty"`
	IsRequired       bool        `bson:"is_required" json:"is_required"`
	FieldOptions     []Option    `bson:"field_options,omitempty" json:"field_options,omitempty"`
	IsCalculated     bool        `bson:"isCalculated,omitempty" json:"isCalculated,omitempty"`
	Endpoint         string      `bson:"endpoint,omitempty" json:"endpoint,omitempty"`

	Columns   []Column `bson:"columns,omitempty" json:"columns,omitempty"`
	TableData Rows     `bson:"tableData,omitempty" json:"tableData,omitempty"`
	RowCount  int      `bson:"rowCount,omitempty" json:"rowCount,omitempty"`
}

// --- Column ---
type Column struct {
	ID                 string `bson:"id" json:"id"`
	Name               string `bson:"name" json:"name"`
	Type               string `bson:"type" json:"type"`
	IsCalculated       bool   `bson:"isCalculated,omitempty" json:"isCalculated,omitempty"`
	CalculationFormula string `bson:"calculationFormula,omitempty" json:"calculationFormula,omitempty"`
	Endpoint           string `bson:"endpoint,omitempty" json:"endpoint,omitempty"`
}

// --- Row ---
// Row คือ map จากชื่อ column ไปยังค่าใน cell (string / number / boolean)
type Row map[string]interface{}

// Clone คืนสำเนาของ row เพื่อไม่ให้แก้ไข state ที่ใช้ร่วมกัน
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// EmptyRow สร้าง row ใหม่ที่ทุก cell เป็น empty string ตามรายชื่อ columns
func EmptyRow(columns []Column) Row {
	row := make(Row, len(columns))
	for _, col := range columns {
		row[col.Name] = ""
	}
	return row
}

// SectionForest คือ array ของ tabs ของหนึ่ง level
//
// Store เก่าบางแถวเก็บ forest เป็น JSON text และบางแถวเสียหายเป็น
// "[object Object]" จากการ encode ซ้ำ ดังนั้น decode ต้องรับได้ทั้ง
// native array, JSON text และค่าที่ parse ไม่ได้ (ตีความเป็น array ว่าง)
type SectionForest []Tab

// Rows ของ table field ก็เจอปัญหาเดียวกัน: บาง field เก็บ tableData
// เป็น JSON text ซ้อนอยู่ข้างใน field
type Rows []Row

func decodeForestText(s string) SectionForest {
	if s == "" || s == "[object Object]" {
		return SectionForest{}
	}
	var tabs []Tab
	if err := json.Unmarshal([]byte(s), &tabs); err != nil {
		log.Printf("⚠️ Warning: malformed section forest %q: %v", s, err)
		return SectionForest{}
	}
	return tabs
}

func (f *SectionForest) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.(type) {
	case nil:
		*f = SectionForest{}
		return nil
	case string:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = decodeForestText(s)
		return nil
	}
	var tabs []Tab
	if err := json.Unmarshal(data, &tabs); err != nil {
		log.Printf("⚠️ Warning: malformed section forest: %v", err)
		*f = SectionForest{}
		return nil
	}
	*f = tabs
	return nil
}

func (f *SectionForest) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.String:
		var s string
		if err := bson.UnmarshalValue(t, data, &s); err != nil {
			return err
		}
		*f = decodeForestText(s)
		return nil
	case bsontype.Array:
		var tabs []Tab
		if err := bson.UnmarshalValue(t, data, &tabs); err != nil {
			log.Printf("⚠️ Warning: malformed section forest: %v", err)
			*f = SectionForest{}
			return nil
		}
		*f = tabs
		return nil
	case bsontype.Null, bsontype.Undefined:
		*f = SectionForest{}
		return nil
	default:
		log.Printf("⚠️ Warning: unexpected bson type %s for section forest", t)
		*f = SectionForest{}
		return nil
	}
}

func (r *Rows) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.(type) {
	case nil:
		*r = Rows{}
		return nil
	case string:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" || s == "[object Object]" {
			*r = Rows{}
			return nil
		}
		var rows []Row
		if err := json.Unmarshal([]byte(s), &rows); err != nil {
			log.Printf("⚠️ Warning: malformed tableData %q: %v", s, err)
			*r = Rows{}
			return nil
		}
		*r = rows
		return nil
	}
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		log.Printf("⚠️ Warning: malformed tableData: %v", err)
		*r = Rows{}
		return nil
	}
	*r = rows
	return nil
}

func (r *Rows) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.String:
		var s string
		if err := bson.UnmarshalValue(t, data, &s); err != nil {
			return err
		}
		if s == "" || s == "[object Object]" {
			*r = Rows{}
			return nil
		}
		var rows []Row
		if err := json.Unmarshal([]byte(s), &rows); err != nil {
			log.Printf("⚠️ Warning: malformed tableData %q: %v", s, err)
			*r = Rows{}
			return nil
		}
		*r = rows
		return nil
	case bsontype.Array:
		var rows []Row
		if err := bson.UnmarshalValue(t, data, &rows); err != nil {
			log.Printf("⚠️ Warning: malformed tableData: %v", err)
			*r = Rows{}
			return nil
		}
		*r = rows
		return nil
	case bsontype.Null, bsontype.Undefined:
		*r = Rows{}
		return nil
	default:
		log.Printf("⚠️ Warning: unexpected bson type %s for tableData", t)
		*r = Rows{}
		return nil
	}
}

// Option ของ select / radio / api-dropdown field
// Client รุ่นเก่าส่ง options มาเป็น string ธรรมดา รุ่นใหม่ส่งเป็น {value, label}
type Option struct {
	Value string `bson:"value" json:"value"`
	Label string `bson:"label" json:"label"`
}

func (o *Option) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		o.Value = s
		o.Label = s
		return nil
	}
	type alias Option
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*o = Option(a)
	return nil
}

func (o *Option) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bsontype.String {
		var s string
		if err := bson.UnmarshalValue(t, data, &s); err != nil {
			return err
		}
		o.Value = s
		o.Label = s
		return nil
	}
	type alias Option
	var a alias
	if err := bson.UnmarshalValue(t, data, &a); err != nil {
		return err
	}
	*o = Option(a)
	return nil
}

// NormalizeForest เติม default ที่จำเป็นหลัง decode:
// fields/columns ต้องไม่เป็น nil และ table ที่ไม่มีแถวเลยได้หนึ่งแถวว่าง
// เพื่อให้ grid ฝั่ง UI มีอะไรให้วาดเสมอ
func NormalizeForest(tabs SectionForest) SectionForest {
	if tabs == nil {
		return SectionForest{}
	}
	out := make(SectionForest, len(tabs))
	for i, tab := range tabs {
		if tab.Fields == nil {
			tab.Fields = []Field{}
		} else {
			fields := make([]Field, len(tab.Fields))
			copy(fields, tab.Fields)
			for j, field := range fields {
				if field.FieldType == FieldTypeTable {
					if field.Columns == nil {
						field.Columns = []Column{}
					}
					if len(field.TableData) == 0 {
						field.TableData = Rows{EmptyRow(field.Columns)}
					}
					fields[j] = field
				}
			}
			tab.Fields = fields
		}
		out[i] = tab
	}
	return out
}

// Normalize เติม default ให้ครบทั้งสาม levels ของ template
func (t *Template) Normalize() {
	t.Header = NormalizeForest(t.Header)
	t.Lines = NormalizeForest(t.Lines)
	t.LineDetails = NormalizeForest(t.LineDetails)
}
