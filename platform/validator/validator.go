// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// PhoneTags are the tags a phone entry may carry.
var PhoneTags = []string{"office", "mobile", "whatsapp", "fax", "home"}

// Validator wraps the go-playground validator for structured validation.
// Using a struct allows for dependency injection and easier testing.
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator instance with the application's custom tags
// registered:
//
//	phonetag  empty or one of PhoneTags
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("phonetag", validatePhoneTag)
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

func validatePhoneTag(fl validator.FieldLevel) bool {
	tag := strings.TrimSpace(fl.Field().String())
	if tag == "" {
		return true
	}
	for _, allowed := range PhoneTags {
		if tag == allowed {
			return true
		}
	}
	return false
}
