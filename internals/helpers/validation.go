package helper

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationErrorMap mengubah error dari validator/v10 jadi map per field
// untuk dipakai bersama JsonValidationError.
func ValidationErrorMap(err error) map[string][]string {
	out := map[string][]string{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = []string{err.Error()}
		return out
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		msg := "tidak valid (" + fe.Tag() + ")"
		switch fe.Tag() {
		case "required":
			msg = "wajib diisi"
		case "email":
			msg = "format email tidak valid"
		case "min":
			msg = "terlalu pendek/kecil (min " + fe.Param() + ")"
		case "max":
			msg = "terlalu panjang/besar (max " + fe.Param() + ")"
		case "gte":
			msg = "harus >= " + fe.Param()
		case "oneof":
			msg = "harus salah satu dari: " + fe.Param()
		}
		out[field] = append(out[field], msg)
	}
	return out
}
