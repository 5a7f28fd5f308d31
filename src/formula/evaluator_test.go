package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	row := map[string]interface{}{
		"Quantity": float64(3),
		"Price":    float64(10),
		"Name":     "Widget",
	}

	t.Run("TestBasicArithmetic", func(t *testing.T) {
		v, err := Evaluate("1 + 2 * 3", nil)
		assert.NoError(t, err)
		assert.Equal(t, 7.0, v)

		v, err = Evaluate("(1 + 2) * 3", nil)
		assert.NoError(t, err)
		assert.Equal(t, 9.0, v)

		v, err = Evaluate("10 - 4 / 2", nil)
		assert.NoError(t, err)
		assert.Equal(t, 8.0, v)
	})

	t.Run("TestColumnReferences", func(t *testing.T) {
		v, err := Evaluate("Quantity * Price", row)
		assert.NoError(t, err)
		assert.Equal(t, 30.0, v)
	})

	t.Run("TestUnknownIdentifierIsZero", func(t *testing.T) {
		v, err := Evaluate("Quantity * Missing", row)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, v)
	})

	// การจับคู่ชื่อ column เป็น case-sensitive ตรงตัวอักษร
	t.Run("TestExactCaseMatching", func(t *testing.T) {
		v, err := Evaluate("quantity * Price", row)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, v)
	})

	t.Run("TestNonNumericCellIsZero", func(t *testing.T) {
		v, err := Evaluate("Name + 5", row)
		assert.NoError(t, err)
		assert.Equal(t, 5.0, v)
	})

	t.Run("TestUnaryOperators", func(t *testing.T) {
		v, err := Evaluate("-Quantity + +Price", row)
		assert.NoError(t, err)
		assert.Equal(t, 7.0, v)
	})

	t.Run("TestDivisionByZero", func(t *testing.T) {
		_, err := Evaluate("1 / 0", nil)
		assert.Error(t, err)

		_, err = Evaluate("Price / Missing", row)
		assert.Error(t, err)
	})

	t.Run("TestMalformedFormulas", func(t *testing.T) {
		for _, f := range []string{"1 +", "(1 + 2", "1 2", "foo(1)", "1 $ 2", ""} {
			_, err := Evaluate(f, nil)
			assert.Error(t, err, "formula %q should not parse", f)
		}
	})
}

func TestEvaluateCell(t *testing.T) {
	row := map[string]interface{}{"Quantity": "3", "Price": "10"}

	t.Run("TestReturnsNumber", func(t *testing.T) {
		assert.Equal(t, 30.0, EvaluateCell("Quantity * Price", row))
	})

	// สูตรพัง = sentinel ไม่ใช่ panic
	t.Run("TestReturnsErrorSentinel", func(t *testing.T) {
		assert.Equal(t, ErrorSentinel, EvaluateCell("Quantity *", row))
		assert.Equal(t, ErrorSentinel, EvaluateCell("1 / 0", row))
	})
}

func TestNumberValue(t *testing.T) {
	assert.Equal(t, 1.5, NumberValue(1.5))
	assert.Equal(t, 3.0, NumberValue(3))
	assert.Equal(t, 7.0, NumberValue(int64(7)))
	assert.Equal(t, 2.5, NumberValue(" 2.5 "))
	assert.Equal(t, 1.0, NumberValue(true))
	assert.Equal(t, 0.0, NumberValue(false))
	assert.Equal(t, 0.0, NumberValue("abc"))
	assert.Equal(t, 0.0, NumberValue(nil))
	assert.Equal(t, 0.0, NumberValue([]string{"x"}))
}
