package seeder

import (
	"context"
	"log"
	"time"

	"Backend-FormForge/src/models"
	"Backend-FormForge/src/services/templates"

	"github.com/google/uuid"
)

// SeedSampleTemplate สร้าง template ตัวอย่างหนึ่งใบสำหรับลองระบบ
// มีอยู่แล้ว (ชื่อซ้ำ) = ข้าม ไม่สร้างซ้ำ
func SeedSampleTemplate() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	const name = "Sample Invoice"

	existing, err := templates.GetForms(ctx, models.PaginationParams{
		Page: 1, Limit: 1, Search: name, SortBy: "templateName", Order: "asc",
	})
	if err != nil {
		return err
	}
	if existing.Total > 0 {
		log.Printf("⏭️  Template %q already exists, skipping seed...", name)
		return nil
	}

	form, err := templates.CreateForm(ctx, name)
	if err != nil {
		return err
	}

	header := models.SectionForest{
		{
			ID:   uuid.NewString(),
			Name: "General",
			Fields: []models.Field{
				{
					ID:               uuid.NewString(),
					FieldName:        "Invoice Number",
					FieldType:        models.FieldTypeText,
					FieldPlaceholder: "INV-0001",
					IsRequired:       true,
				},
				{
					ID:         uuid.NewString(),
					FieldName:  "Invoice Date",
					FieldType:  models.FieldTypeDate,
					IsRequired: true,
				},
				{
					ID:        uuid.NewString(),
					FieldName: "Customer",
					FieldType: models.FieldTypeText,
				},
			},
		},
	}

	lines := models.SectionForest{
		{
			ID:   uuid.NewString(),
			Name: "Items",
			Fields: []models.Field{
				{
					ID:        uuid.NewString(),
					FieldName: "Item Table",
					FieldType: models.FieldTypeTable,
					RowCount:  5,
					TableData: models.Rows{},
					Columns: []models.Column{
						{ID: uuid.NewString(), Name: "Description", Type: models.ColumnTypeText},
						{ID: uuid.NewString(), Name: "Quantity", Type: models.ColumnTypeNumber},
						{ID: uuid.NewString(), Name: "Price", Type: models.ColumnTypeNumber},
						{
							ID:                 uuid.NewString(),
							Name:               "Total",
							Type:               models.ColumnTypeNumber,
							IsCalculated:       true,
							CalculationFormula: "Quantity * Price",
						},
					},
				},
			},
		},
	}

	if _, err := templates.OverwriteForest(ctx, form.ID, models.LevelHeader, header); err != nil {
		return err
	}
	if _, err := templates.OverwriteForest(ctx, form.ID, models.LevelLines, lines); err != nil {
		return err
	}

	log.Printf("✅ Seeded template: %s (ID: %s)", name, form.ID.Hex())
	return nil
}
