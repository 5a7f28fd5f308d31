// Package schema holds the structural (Tree Editor) operations over a
// template's section forests. ทุก operation เป็น pure transform:
// รับ forest เดิม คืน forest ใหม่ ไม่แตะ store — ฝั่ง service เป็นคนเขียน
// forest ทั้งก้อนกลับลง store ในหนึ่ง write
package schema

import (
	"errors"

	"Backend-FormForge/src/models"

	"github.com/google/uuid"
)

var (
	ErrTabNotFound    = errors.New("tab not found")
	ErrFieldNotFound  = errors.New("field not found")
	ErrColumnNotFound = errors.New("column not found")
	ErrDuplicateName  = errors.New("duplicate field or column name")
)

// DefaultTableRowCount จำนวนแถวตั้งต้นของ table field ที่เพิ่งถูกสร้าง
const DefaultTableRowCount = 5

// DefaultTableName ชื่อตั้งต้นของ table field ที่สร้างอัตโนมัติตอน add column แรก
const DefaultTableName = "New Table"

// AddTab ต่อ tab ใหม่ (fields ว่าง) ท้าย forest แล้วคืน forest ใหม่กับ tab ที่สร้าง
func AddTab(forest models.SectionForest, name string) (models.SectionForest, models.Tab) {
	tab := models.Tab{
		ID:     uuid.NewString(),
		Name:   name,
		Fields: []models.Field{},
	}
	out := make(models.SectionForest, len(forest), len(forest)+1)
	copy(out, forest)
	return append(out, tab), tab
}

// DeleteTab ถอด tab ออกพร้อมทุกอย่างที่ tab ถือ (fields, columns, rows)
func DeleteTab(forest models.SectionForest, tabID string) (models.SectionForest, error) {
	for i, tab := range forest {
		if tab.ID == tabID {
			out := make(models.SectionForest, 0, len(forest)-1)
			out = append(out, forest[:i]...)
			return append(out, forest[i+1:]...), nil
		}
	}
	return forest, ErrTabNotFound
}

// AddField ต่อ field ใหม่ท้าย tab ที่ระบุ
// การตรวจชื่อซ้ำเป็นหน้าที่ของ service (ต้องเห็นทั้ง header และ lines)
func AddField(forest models.SectionForest, tabID string, req models.FieldRequest) (models.SectionForest, models.Field, error) {
	ti := tabIndex(forest, tabID)
	if ti < 0 {
		return forest, models.Field{}, ErrTabNotFound
	}

	field := models.Field{
		ID:               uuid.NewString(),
		FieldName:        req.FieldName,
		FieldType:        req.FieldType,
		FieldPlaceholder: req.FieldPlaceholder,
		IsRequired:       req.IsRequired,
		FieldOptions:     req.FieldOptions,
		Endpoint:         req.Endpoint,
	}
	if req.FieldType == models.FieldTypeTable {
		field.Columns = []models.Column{}
		field.TableData = models.Rows{}
		field.RowCount = req.RowCount
		if field.RowCount <= 0 {
			field.RowCount = DefaultTableRowCount
		}
	}

	out := copyFields(forest, ti)
	out[ti].Fields = append(out[ti].Fields, field)
	return out, field, nil
}

// EditField แทนที่ attributes ของ field (ยกเว้น id และ field_type —
// type เปลี่ยนไม่ได้หลังสร้าง)
func EditField(forest models.SectionForest, tabID, fieldID string, req models.FieldRequest) (models.SectionForest, error) {
	ti := tabIndex(forest, tabID)
	if ti < 0 {
		return forest, ErrTabNotFound
	}
	fi := fieldIndex(forest[ti].Fields, fieldID)
	if fi < 0 {
		return forest, ErrFieldNotFound
	}

	out := copyFields(forest, ti)
	field := &out[ti].Fields[fi]
	field.FieldName = req.FieldName
	field.FieldPlaceholder = req.FieldPlaceholder
	field.IsRequired = req.IsRequired
	field.FieldOptions = req.FieldOptions
	field.Endpoint = req.Endpoint
	if field.FieldType == models.FieldTypeTable && req.RowCount > 0 {
		field.RowCount = req.RowCount
	}
	return out, nil
}

// DeleteField ถอด field ออกจาก tab
func DeleteField(forest models.SectionForest, tabID, fieldID string) (models.SectionForest, error) {
	ti := tabIndex(forest, tabID)
	if ti < 0 {
		return forest, ErrTabNotFound
	}
	fi := fieldIndex(forest[ti].Fields, fieldID)
	if fi < 0 {
		return forest, ErrFieldNotFound
	}

	out := copyFields(forest, ti)
	fields := out[ti].Fields
	out[ti].Fields = append(fields[:fi:fi], fields[fi+1:]...)
	return out, nil
}

// AddColumns ต่อ columns เข้า table field ของ tab
// ถ้า tab ยังไม่มี table field จะสร้างให้หนึ่งตัวก่อน (rowCount 5, tableData ว่าง)
func AddColumns(forest models.SectionForest, tabID string, reqs []models.ColumnRequest) (models.SectionForest, error) {
	ti := tabIndex(forest, tabID)
	if ti < 0 {
		return forest, ErrTabNotFound
	}

	out := copyFields(forest, ti)
	fi := -1
	for i, f := range out[ti].Fields {
		if f.FieldType == models.FieldTypeTable {
			fi = i
			break
		}
	}
	if fi < 0 {
		out[ti].Fields = append(out[ti].Fields, models.Field{
			ID:        uuid.NewString(),
			FieldName: DefaultTableName,
			FieldType: models.FieldTypeTable,
			Columns:   []models.Column{},
			TableData: models.Rows{},
			RowCount:  DefaultTableRowCount,
		})
		fi = len(out[ti].Fields) - 1
	}

	field := &out[ti].Fields[fi]
	columns := make([]models.Column, len(field.Columns), len(field.Columns)+len(reqs))
	copy(columns, field.Columns)
	for _, req := range reqs {
		columns = append(columns, models.Column{
			ID:                 uuid.NewString(),
			Name:               req.Name,
			Type:               req.Type,
			IsCalculated:       req.IsCalculated,
			CalculationFormula: req.CalculationFormula,
			Endpoint:           req.Endpoint,
		})
	}
	field.Columns = columns
	return out, nil
}

// EditColumn แทนที่ attributes ของ column (ยกเว้น id และ type — เช่นเดียวกับ field)
func EditColumn(forest models.SectionForest, tabID, columnID string, req models.ColumnRequest) (models.SectionForest, error) {
	ti := tabIndex(forest, tabID)
	if ti < 0 {
		return forest, ErrTabNotFound
	}

	out := copyFields(forest, ti)
	for fi, field := range out[ti].Fields {
		if field.FieldType != models.FieldTypeTable {
			continue
		}
		for ci, col := range field.Columns {
			if col.ID != columnID {
				continue
			}
			columns := make([]models.Column, len(field.Columns))
			copy(columns, field.Columns)
			columns[ci].Name = req.Name
			columns[ci].IsCalculated = req.IsCalculated
			columns[ci].CalculationFormula = req.CalculationFormula
			columns[ci].Endpoint = req.Endpoint
			out[ti].Fields[fi].Columns = columns
			return out, nil
		}
	}
	return forest, ErrColumnNotFound
}

// DeleteColumn ถอด column ออกจาก table field
func DeleteColumn(forest models.SectionForest, tabID, fieldID, columnID string) (models.SectionForest, error) {
	ti := tabIndex(forest, tabID)
	if ti < 0 {
		return forest, ErrTabNotFound
	}
	fi := fieldIndex(forest[ti].Fields, fieldID)
	if fi < 0 {
		return forest, ErrFieldNotFound
	}

	out := copyFields(forest, ti)
	field := &out[ti].Fields[fi]
	for ci, col := range field.Columns {
		if col.ID == columnID {
			columns := make([]models.Column, len(field.Columns))
			copy(columns, field.Columns)
			field.Columns = append(columns[:ci:ci], columns[ci+1:]...)
			return out, nil
		}
	}
	return forest, ErrColumnNotFound
}

func tabIndex(forest models.SectionForest, tabID string) int {
	for i, tab := range forest {
		if tab.ID == tabID {
			return i
		}
	}
	return -1
}

func fieldIndex(fields []models.Field, fieldID string) int {
	for i, f := range fields {
		if f.ID == fieldID {
			return i
		}
	}
	return -1
}

func copyFields(forest models.SectionForest, ti int) models.SectionForest {
	out := make(models.SectionForest, len(forest))
	copy(out, forest)
	fields := make([]models.Field, len(forest[ti].Fields))
	copy(fields, forest[ti].Fields)
	out[ti].Fields = fields
	return out
}
