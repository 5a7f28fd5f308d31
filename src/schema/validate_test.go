package schema

import (
	"testing"

	"Backend-FormForge/src/models"

	"github.com/stretchr/testify/assert"
)

func templateWithNames() *models.Template {
	return &models.Template{
		TemplateName: "Invoice",
		Header: models.SectionForest{
			{ID: "h1", Fields: []models.Field{
				{ID: "f1", FieldName: "Customer", FieldType: models.FieldTypeText},
			}},
		},
		Lines: models.SectionForest{
			{ID: "l1", Fields: []models.Field{
				{ID: "tf", FieldName: "Items", FieldType: models.FieldTypeTable,
					Columns: []models.Column{{ID: "c1", Name: "Quantity"}}},
			}},
		},
		LineDetails: models.SectionForest{
			{ID: "d1", Fields: []models.Field{
				{ID: "s1", FieldName: "Customer", FieldType: models.FieldTypeText},
			}},
		},
	}
}

func TestCheckNameUnique(t *testing.T) {
	tmpl := templateWithNames()

	t.Run("TestFreshNameIsAllowed", func(t *testing.T) {
		assert.NoError(t, CheckNameUnique(tmpl, "Email", ""))
	})

	t.Run("TestFieldNameCollision", func(t *testing.T) {
		assert.ErrorIs(t, CheckNameUnique(tmpl, "Customer", ""), ErrDuplicateName)
	})

	// ชื่อชนกันข้ามชนิด: field ใหม่ชนกับ column เดิมก็ไม่ได้
	t.Run("TestColumnNameCollision", func(t *testing.T) {
		assert.ErrorIs(t, CheckNameUnique(tmpl, "Quantity", ""), ErrDuplicateName)
	})

	t.Run("TestCaseInsensitive", func(t *testing.T) {
		assert.ErrorIs(t, CheckNameUnique(tmpl, "CUSTOMER", ""), ErrDuplicateName)
		assert.ErrorIs(t, CheckNameUnique(tmpl, "  quantity  ", ""), ErrDuplicateName)
	})

	// ตอน rename ชื่อเดิมของตัวเองไม่นับเป็นชื่อซ้ำ
	t.Run("TestExcludeOwnID", func(t *testing.T) {
		assert.NoError(t, CheckNameUnique(tmpl, "Customer", "f1"))
		assert.NoError(t, CheckNameUnique(tmpl, "Quantity", "c1"))
	})

	// lineDetails อยู่นอก scope ของการตรวจชื่อซ้ำ
	t.Run("TestLineDetailsNotChecked", func(t *testing.T) {
		clean := templateWithNames()
		clean.Header = models.SectionForest{}
		assert.NoError(t, CheckNameUnique(clean, "Customer", ""))
	})
}

func TestCheckNamesUnique(t *testing.T) {
	tmpl := templateWithNames()

	t.Run("TestBatchOfFreshNames", func(t *testing.T) {
		assert.NoError(t, CheckNamesUnique(tmpl, []string{"Price", "Total"}))
	})

	t.Run("TestBatchCollidesWithExisting", func(t *testing.T) {
		assert.ErrorIs(t, CheckNamesUnique(tmpl, []string{"Price", "Quantity"}), ErrDuplicateName)
	})

	t.Run("TestIntraBatchDuplicate", func(t *testing.T) {
		assert.ErrorIs(t, CheckNamesUnique(tmpl, []string{"Price", "price"}), ErrDuplicateName)
	})
}
