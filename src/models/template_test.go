package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestSectionForestDecode(t *testing.T) {
	t.Run("TestNativeArray", func(t *testing.T) {
		var f SectionForest
		err := json.Unmarshal([]byte(`[{"id":"t1","name":"General","fields":[]}]`), &f)
		assert.NoError(t, err)
		assert.Len(t, f, 1)
		assert.Equal(t, "General", f[0].Name)
	})

	// store เก่าเก็บ forest เป็น JSON text ซ้อนใน string
	t.Run("TestStringifiedArray", func(t *testing.T) {
		var f SectionForest
		err := json.Unmarshal([]byte(`"[{\"id\":\"t1\",\"name\":\"General\",\"fields\":[]}]"`), &f)
		assert.NoError(t, err)
		assert.Len(t, f, 1)
		assert.Equal(t, "t1", f[0].ID)
	})

	// แถวที่โดน encode ซ้ำจนพังเหลือ "[object Object]" ต้องอ่านได้เป็น array ว่าง
	t.Run("TestObjectObjectSentinel", func(t *testing.T) {
		var f SectionForest
		err := json.Unmarshal([]byte(`"[object Object]"`), &f)
		assert.NoError(t, err)
		assert.NotNil(t, f)
		assert.Empty(t, f)
	})

	t.Run("TestMalformedText", func(t *testing.T) {
		var f SectionForest
		err := json.Unmarshal([]byte(`"{not json"`), &f)
		assert.NoError(t, err)
		assert.Empty(t, f)
	})

	t.Run("TestNull", func(t *testing.T) {
		var f SectionForest
		err := json.Unmarshal([]byte(`null`), &f)
		assert.NoError(t, err)
		assert.Empty(t, f)
	})

	t.Run("TestBSONStringForest", func(t *testing.T) {
		raw, err := bson.Marshal(bson.M{
			"templateName": "Invoice",
			"header":       `[{"id":"t1","name":"General","fields":[]}]`,
			"lines":        "[object Object]",
			"lineDetails":  bson.A{},
		})
		assert.NoError(t, err)

		var tmpl Template
		assert.NoError(t, bson.Unmarshal(raw, &tmpl))
		assert.Len(t, tmpl.Header, 1)
		assert.Empty(t, tmpl.Lines)
		assert.Empty(t, tmpl.LineDetails)
	})
}

func TestRowsDecode(t *testing.T) {
	// tableData ที่ถูก JSON.stringify ไว้ข้างใน field
	t.Run("TestStringifiedRows", func(t *testing.T) {
		var r Rows
		err := json.Unmarshal([]byte(`"[{\"Quantity\":\"3\"}]"`), &r)
		assert.NoError(t, err)
		assert.Len(t, r, 1)
		assert.Equal(t, "3", r[0]["Quantity"])
	})

	t.Run("TestEmptyString", func(t *testing.T) {
		var r Rows
		err := json.Unmarshal([]byte(`""`), &r)
		assert.NoError(t, err)
		assert.Empty(t, r)
	})

	t.Run("TestNativeRows", func(t *testing.T) {
		var r Rows
		err := json.Unmarshal([]byte(`[{"Price":10}]`), &r)
		assert.NoError(t, err)
		assert.Equal(t, float64(10), r[0]["Price"])
	})
}

func TestOptionDecode(t *testing.T) {
	// client รุ่นเก่าส่ง options เป็น string ธรรมดา
	t.Run("TestBareString", func(t *testing.T) {
		var o Option
		assert.NoError(t, json.Unmarshal([]byte(`"red"`), &o))
		assert.Equal(t, "red", o.Value)
		assert.Equal(t, "red", o.Label)
	})

	t.Run("TestValueLabelObject", func(t *testing.T) {
		var o Option
		assert.NoError(t, json.Unmarshal([]byte(`{"value":"r","label":"Red"}`), &o))
		assert.Equal(t, "r", o.Value)
		assert.Equal(t, "Red", o.Label)
	})
}

func TestNormalizeForest(t *testing.T) {
	t.Run("TestNilForest", func(t *testing.T) {
		out := NormalizeForest(nil)
		assert.NotNil(t, out)
		assert.Empty(t, out)
	})

	t.Run("TestNilFieldsBecomeEmpty", func(t *testing.T) {
		out := NormalizeForest(SectionForest{{ID: "t1", Name: "General"}})
		assert.NotNil(t, out[0].Fields)
	})

	// table ที่ไม่มีแถวเลยได้หนึ่งแถวว่างให้ grid วาด
	t.Run("TestEmptyTableGetsOneEmptyRow", func(t *testing.T) {
		forest := SectionForest{{ID: "t1", Fields: []Field{
			{ID: "f1", FieldName: "Items", FieldType: FieldTypeTable,
				Columns: []Column{{ID: "c1", Name: "Quantity"}}},
		}}}
		out := NormalizeForest(forest)

		rows := out[0].Fields[0].TableData
		assert.Len(t, rows, 1)
		assert.Equal(t, Row{"Quantity": ""}, rows[0])
		// forest เดิมไม่ถูกแตะ
		assert.Empty(t, forest[0].Fields[0].TableData)
	})

	t.Run("TestExistingRowsUntouched", func(t *testing.T) {
		forest := SectionForest{{ID: "t1", Fields: []Field{
			{ID: "f1", FieldType: FieldTypeTable,
				Columns:   []Column{{Name: "Quantity"}},
				TableData: Rows{{"Quantity": "3"}}},
		}}}
		out := NormalizeForest(forest)
		assert.Equal(t, "3", out[0].Fields[0].TableData[0]["Quantity"])
	})
}

func TestValidators(t *testing.T) {
	assert.True(t, IsValidFieldType(FieldTypeTable))
	assert.True(t, IsValidFieldType(FieldTypeAPIDropdown))
	assert.False(t, IsValidFieldType("spreadsheet"))

	assert.True(t, IsValidColumnType(ColumnTypeBoolean))
	assert.False(t, IsValidColumnType("tel"))

	assert.True(t, IsValidLevel(LevelHeader))
	assert.True(t, IsValidLevel(LevelLineDetails))
	assert.False(t, IsValidLevel("footer"))
}
