package schema

import (
	"testing"

	"Backend-FormForge/src/models"

	"github.com/stretchr/testify/assert"
)

func forestWithTab() models.SectionForest {
	return models.SectionForest{
		{ID: "tab-1", Name: "General", Fields: []models.Field{
			{ID: "f1", FieldName: "Customer", FieldType: models.FieldTypeText},
		}},
	}
}

func TestAddTab(t *testing.T) {
	forest := forestWithTab()
	out, tab := AddTab(forest, "Details")

	assert.Len(t, out, 2)
	assert.Equal(t, "Details", tab.Name)
	assert.NotEmpty(t, tab.ID)
	assert.NotNil(t, tab.Fields)
	assert.Empty(t, tab.Fields)
	// forest เดิมยาวเท่าเดิม
	assert.Len(t, forest, 1)
}

func TestDeleteTab(t *testing.T) {
	t.Run("TestDeleteExisting", func(t *testing.T) {
		forest := forestWithTab()
		out, err := DeleteTab(forest, "tab-1")
		assert.NoError(t, err)
		assert.Empty(t, out)
		assert.Len(t, forest, 1)
	})

	t.Run("TestDeleteMissing", func(t *testing.T) {
		forest := forestWithTab()
		_, err := DeleteTab(forest, "missing")
		assert.ErrorIs(t, err, ErrTabNotFound)
	})
}

func TestAddField(t *testing.T) {
	t.Run("TestAddSimpleField", func(t *testing.T) {
		forest := forestWithTab()
		out, field, err := AddField(forest, "tab-1", models.FieldRequest{
			FieldName: "Email", FieldType: models.FieldTypeEmail, IsRequired: true,
		})
		assert.NoError(t, err)
		assert.Len(t, out[0].Fields, 2)
		assert.Equal(t, "Email", field.FieldName)
		assert.NotEmpty(t, field.ID)
		assert.True(t, field.IsRequired)
		assert.Len(t, forest[0].Fields, 1)
	})

	// table field เกิดมาพร้อม columns ว่าง tableData ว่าง และ rowCount ตั้งต้น
	t.Run("TestAddTableFieldDefaults", func(t *testing.T) {
		forest := forestWithTab()
		_, field, err := AddField(forest, "tab-1", models.FieldRequest{
			FieldName: "Items", FieldType: models.FieldTypeTable,
		})
		assert.NoError(t, err)
		assert.NotNil(t, field.Columns)
		assert.NotNil(t, field.TableData)
		assert.Equal(t, DefaultTableRowCount, field.RowCount)
	})

	t.Run("TestAddTableFieldExplicitRowCount", func(t *testing.T) {
		forest := forestWithTab()
		_, field, err := AddField(forest, "tab-1", models.FieldRequest{
			FieldName: "Items", FieldType: models.FieldTypeTable, RowCount: 8,
		})
		assert.NoError(t, err)
		assert.Equal(t, 8, field.RowCount)
	})

	t.Run("TestAddToMissingTab", func(t *testing.T) {
		_, _, err := AddField(forestWithTab(), "missing", models.FieldRequest{FieldName: "X", FieldType: models.FieldTypeText})
		assert.ErrorIs(t, err, ErrTabNotFound)
	})
}

func TestEditField(t *testing.T) {
	t.Run("TestEditKeepsIDAndType", func(t *testing.T) {
		forest := forestWithTab()
		out, err := EditField(forest, "tab-1", "f1", models.FieldRequest{
			FieldName: "Client", FieldType: models.FieldTypeNumber, IsRequired: true,
		})
		assert.NoError(t, err)

		field := out[0].Fields[0]
		assert.Equal(t, "f1", field.ID)
		assert.Equal(t, "Client", field.FieldName)
		// type เปลี่ยนไม่ได้หลังสร้าง
		assert.Equal(t, models.FieldTypeText, field.FieldType)
		assert.True(t, field.IsRequired)
	})

	t.Run("TestEditMissingField", func(t *testing.T) {
		_, err := EditField(forestWithTab(), "tab-1", "missing", models.FieldRequest{FieldName: "X", FieldType: models.FieldTypeText})
		assert.ErrorIs(t, err, ErrFieldNotFound)
	})
}

func TestDeleteField(t *testing.T) {
	forest := forestWithTab()
	out, err := DeleteField(forest, "tab-1", "f1")
	assert.NoError(t, err)
	assert.Empty(t, out[0].Fields)
	assert.Len(t, forest[0].Fields, 1)

	_, err = DeleteField(forest, "tab-1", "missing")
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestAddColumns(t *testing.T) {
	// tab ยังไม่มี table field → สร้างให้อัตโนมัติ
	t.Run("TestCreatesTableFieldWhenMissing", func(t *testing.T) {
		forest := forestWithTab()
		out, err := AddColumns(forest, "tab-1", []models.ColumnRequest{
			{Name: "Quantity", Type: models.ColumnTypeNumber},
			{Name: "Price", Type: models.ColumnTypeNumber},
		})
		assert.NoError(t, err)
		assert.Len(t, out[0].Fields, 2)

		table := out[0].Fields[1]
		assert.Equal(t, DefaultTableName, table.FieldName)
		assert.Equal(t, models.FieldTypeTable, table.FieldType)
		assert.Equal(t, DefaultTableRowCount, table.RowCount)
		assert.Len(t, table.Columns, 2)
		assert.NotEmpty(t, table.Columns[0].ID)
	})

	t.Run("TestAppendsToExistingTable", func(t *testing.T) {
		forest := models.SectionForest{
			{ID: "tab-1", Fields: []models.Field{
				{ID: "tf", FieldName: "Items", FieldType: models.FieldTypeTable,
					Columns: []models.Column{{ID: "c1", Name: "Quantity", Type: models.ColumnTypeNumber}}},
			}},
		}
		out, err := AddColumns(forest, "tab-1", []models.ColumnRequest{
			{Name: "Total", Type: models.ColumnTypeNumber, IsCalculated: true, CalculationFormula: "Quantity * 2"},
		})
		assert.NoError(t, err)
		assert.Len(t, out[0].Fields[0].Columns, 2)
		assert.Equal(t, "Quantity * 2", out[0].Fields[0].Columns[1].CalculationFormula)
		assert.Len(t, forest[0].Fields[0].Columns, 1)
	})
}

func TestEditColumn(t *testing.T) {
	forest := models.SectionForest{
		{ID: "tab-1", Fields: []models.Field{
			{ID: "tf", FieldName: "Items", FieldType: models.FieldTypeTable,
				Columns: []models.Column{{ID: "c1", Name: "Quantity", Type: models.ColumnTypeNumber}}},
		}},
	}

	t.Run("TestEditKeepsIDAndType", func(t *testing.T) {
		out, err := EditColumn(forest, "tab-1", "c1", models.ColumnRequest{
			Name: "Qty", Type: models.ColumnTypeText,
		})
		assert.NoError(t, err)

		col := out[0].Fields[0].Columns[0]
		assert.Equal(t, "c1", col.ID)
		assert.Equal(t, "Qty", col.Name)
		assert.Equal(t, models.ColumnTypeNumber, col.Type)
		assert.Equal(t, "Quantity", forest[0].Fields[0].Columns[0].Name)
	})

	t.Run("TestEditMissingColumn", func(t *testing.T) {
		_, err := EditColumn(forest, "tab-1", "missing", models.ColumnRequest{Name: "X", Type: models.ColumnTypeText})
		assert.ErrorIs(t, err, ErrColumnNotFound)
	})
}

func TestDeleteColumn(t *testing.T) {
	forest := models.SectionForest{
		{ID: "tab-1", Fields: []models.Field{
			{ID: "tf", FieldName: "Items", FieldType: models.FieldTypeTable,
				Columns: []models.Column{
					{ID: "c1", Name: "Quantity"},
					{ID: "c2", Name: "Price"},
				}},
		}},
	}

	out, err := DeleteColumn(forest, "tab-1", "tf", "c1")
	assert.NoError(t, err)
	assert.Len(t, out[0].Fields[0].Columns, 1)
	assert.Equal(t, "Price", out[0].Fields[0].Columns[0].Name)
	assert.Len(t, forest[0].Fields[0].Columns, 2)

	_, err = DeleteColumn(forest, "tab-1", "tf", "missing")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}
