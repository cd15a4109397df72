package utils

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var nationalIDRegex = regexp.MustCompile(`^[A-Za-z0-9]{6,20}$`)
var monthRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// IsValidNationalID reports whether id is 6 to 20 ASCII letters or digits.
func IsValidNationalID(id string) bool {
	return nationalIDRegex.MatchString(id)
}

// IsValidMonth reports whether s has the YYYY-MM shape.
func IsValidMonth(s string) bool {
	return monthRegex.MatchString(s)
}

// RegisterValidators adds the custom binding tags to gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("nationalid", func(fl validator.FieldLevel) bool {
		return IsValidNationalID(fl.Field().String())
	})
}
