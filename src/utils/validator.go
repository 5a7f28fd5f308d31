package utils

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct ตรวจ payload ตาม validate tags ก่อนแตะ state หรือยิง network
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
