// Package binding applies single edits to a section forest and keeps
// calculated columns and aggregate fields consistent.
//
// ทุก operation คืน forest ใหม่แบบ copy-on-write เฉพาะ path ที่ถูกแก้
// tab/field ที่ไม่เกี่ยวข้องใช้ slice เดิมร่วมกัน เพื่อให้ฝั่ง UI
// ตรวจการเปลี่ยนแปลงด้วย reference ได้
package binding

import (
	"fmt"

	"Backend-FormForge/src/formula"
	"Backend-FormForge/src/models"

	"github.com/google/uuid"
)

// ชื่อ column ใน lines ที่ถูกรวมยอดเข้า lineDetails (จับคู่ชื่อตรงตัว)
const (
	ColumnTotal    = "Total"
	ColumnDiscount = "Discount"
	ColumnVAT      = "VAT"
)

// ชื่อ derived fields ที่เขียนลง tab แรกของ lineDetails
const (
	FieldTotalSum           = "Total Sum"
	FieldDiscountSum        = "Discount Sum"
	FieldVATSum             = "VAT Sum"
	FieldTotalAfterDiscount = "Total After Discount"
)

// SummaryTabName ใช้ตอน lineDetails ยังไม่มี tab เลย
const SummaryTabName = "Summary"

// SetFieldValue แทนที่ field_value ของ field เดียวใน forest
// หา tab/field ไม่เจอ = no-op คืน forest เดิม (UI อาจแข่งกับ structural edit)
func SetFieldValue(forest models.SectionForest, tabID, fieldID string, value interface{}) models.SectionForest {
	ti, fi := locateField(forest, tabID, fieldID)
	if ti < 0 {
		return forest
	}
	out := copyTabPath(forest, ti)
	out[ti].Fields[fi].FieldValue = value
	return out
}

// SetCellValue แก้ cell หนึ่งช่องของ table field แล้วคำนวณ calculated
// columns ทุกตัวของแถวนั้นใหม่ด้วยค่าหลังแก้
func SetCellValue(forest models.SectionForest, tabID, fieldID string, rowIndex int, columnName string, value interface{}) models.SectionForest {
	if rowIndex < 0 {
		return forest
	}
	ti, fi := locateField(forest, tabID, fieldID)
	if ti < 0 || forest[ti].Fields[fi].FieldType != models.FieldTypeTable {
		return forest
	}

	out := copyTabPath(forest, ti)
	field := &out[ti].Fields[fi]

	rows := make(models.Rows, len(field.TableData))
	copy(rows, field.TableData)
	if len(rows) == 0 && field.RowCount > 0 {
		// grid ที่ยังไม่เคยถูกแตะมี rowCount แถวว่างรออยู่
		rows = make(models.Rows, field.RowCount)
		for i := range rows {
			rows[i] = models.EmptyRow(field.Columns)
		}
	}
	for len(rows) <= rowIndex {
		rows = append(rows, models.EmptyRow(field.Columns))
	}

	row := rows[rowIndex].Clone()
	row[columnName] = value
	for _, col := range field.Columns {
		if col.IsCalculated {
			row[col.Name] = formula.EvaluateCell(col.CalculationFormula, row)
		}
	}
	rows[rowIndex] = row
	field.TableData = rows
	return out
}

// InsertRow ต่อแถวใหม่ท้าย table โดยทุก cell เป็น empty string
// ไม่คำนวณสูตรให้แถวใหม่ — แถวว่างยังไม่มี input ให้คิด
func InsertRow(forest models.SectionForest, tabID, fieldID string, columns []models.Column) models.SectionForest {
	ti, fi := locateField(forest, tabID, fieldID)
	if ti < 0 || forest[ti].Fields[fi].FieldType != models.FieldTypeTable {
		return forest
	}

	out := copyTabPath(forest, ti)
	field := &out[ti].Fields[fi]
	if columns == nil {
		columns = field.Columns
	}
	rows := make(models.Rows, len(field.TableData), len(field.TableData)+1)
	copy(rows, field.TableData)
	field.TableData = append(rows, models.EmptyRow(columns))
	return out
}

// RecomputeAggregates รวมยอด Total / Discount / VAT จากทุก table ใน lines
// แล้วเขียน derived fields ลง tab แรกของ lineDetails
//
// ยอดที่เป็น 0 พอดีจะไม่ถูกเขียน (และ derived field เก่าของยอดนั้นถูกถอดออก)
// เพื่อให้ sum ศูนย์แสดงผลเป็น "ไม่มี" แทน "0.00"
func RecomputeAggregates(lines, lineDetails models.SectionForest) models.SectionForest {
	totals := sumColumn(lines, ColumnTotal)
	discount := sumColumn(lines, ColumnDiscount)
	vat := sumColumn(lines, ColumnVAT)

	derived := []struct {
		name string
		sum  float64
	}{
		{FieldTotalSum, totals},
		{FieldDiscountSum, discount},
		{FieldVATSum, vat},
		{FieldTotalAfterDiscount, totals - discount},
	}

	out := make(models.SectionForest, len(lineDetails))
	copy(out, lineDetails)

	var tab models.Tab
	if len(out) == 0 {
		tab = models.Tab{ID: uuid.NewString(), Name: SummaryTabName, Fields: []models.Field{}}
	} else {
		tab = out[0]
	}
	fields := make([]models.Field, len(tab.Fields))
	copy(fields, tab.Fields)

	for _, d := range derived {
		if d.sum == 0 {
			fields = removeDerivedField(fields, d.name)
			continue
		}
		fields = upsertDerivedField(fields, d.name, fmt.Sprintf("%.2f", d.sum))
	}

	tab.Fields = fields
	if len(out) == 0 {
		out = models.SectionForest{tab}
	} else {
		out[0] = tab
	}
	return out
}

func sumColumn(lines models.SectionForest, columnName string) float64 {
	var sum float64
	for _, tab := range lines {
		for _, field := range tab.Fields {
			if field.FieldType != models.FieldTypeTable {
				continue
			}
			for _, row := range field.TableData {
				if v, ok := row[columnName]; ok {
					sum += formula.NumberValue(v)
				}
			}
		}
	}
	return sum
}

func upsertDerivedField(fields []models.Field, name, value string) []models.Field {
	for i, f := range fields {
		if f.FieldName == name {
			fields[i].FieldValue = value
			fields[i].IsCalculated = true
			return fields
		}
	}
	return append(fields, models.Field{
		ID:           uuid.NewString(),
		FieldName:    name,
		FieldType:    models.FieldTypeText,
		FieldValue:   value,
		IsCalculated: true,
	})
}

func removeDerivedField(fields []models.Field, name string) []models.Field {
	for i, f := range fields {
		if f.FieldName == name && f.IsCalculated {
			return append(fields[:i:i], fields[i+1:]...)
		}
	}
	return fields
}

// locateField คืน index ของ tab และ field (-1, -1 ถ้าไม่เจอ)
func locateField(forest models.SectionForest, tabID, fieldID string) (int, int) {
	for ti, tab := range forest {
		if tab.ID != tabID {
			continue
		}
		for fi, field := range tab.Fields {
			if field.ID == fieldID {
				return ti, fi
			}
		}
		return -1, -1
	}
	return -1, -1
}

// copyTabPath copy slice ของ forest และ fields ของ tab ที่จะถูกแก้เท่านั้น
func copyTabPath(forest models.SectionForest, ti int) models.SectionForest {
	out := make(models.SectionForest, len(forest))
	copy(out, forest)
	fields := make([]models.Field, len(out[ti].Fields))
	copy(fields, out[ti].Fields)
	out[ti].Fields = fields
	return out
}
