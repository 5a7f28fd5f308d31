package schema

import (
	"strings"

	"Backend-FormForge/src/models"
)

// CheckNameUnique ตรวจว่าชื่อ field หรือ column ใหม่ไม่ชนกับชื่อที่มีอยู่
// ใน header ∪ lines ของ template (เทียบแบบ case-insensitive)
//
// excludeID คือ id ของ field/column ที่กำลังถูกแก้ เพื่อไม่ให้ชื่อเดิม
// ของตัวเองนับเป็นชื่อซ้ำ
func CheckNameUnique(t *models.Template, name, excludeID string) error {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, forest := range []models.SectionForest{t.Header, t.Lines} {
		for _, tab := range forest {
			for _, field := range tab.Fields {
				if field.ID != excludeID && strings.ToLower(field.FieldName) == want {
					return ErrDuplicateName
				}
				for _, col := range field.Columns {
					if col.ID != excludeID && strings.ToLower(col.Name) == want {
						return ErrDuplicateName
					}
				}
			}
		}
	}
	return nil
}

// CheckNamesUnique ตรวจชื่อหลายตัวพร้อมกัน (ตอน add columns เป็นชุด)
// รวมถึงชื่อที่ซ้ำกันเองภายในชุดเดียวกัน
func CheckNamesUnique(t *models.Template, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if seen[key] {
			return ErrDuplicateName
		}
		seen[key] = true
		if err := CheckNameUnique(t, name, ""); err != nil {
			return err
		}
	}
	return nil
}
