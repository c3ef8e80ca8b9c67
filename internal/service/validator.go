package service

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/campus-nav-api/internal/models"
)

// NewValidator returns a validator reporting json field names and knowing the
// campus specific tags.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("weekdays", validWeekdays)
	return v
}

// validWeekdays accepts a comma separated list of day abbreviations such as "Mon,Wed,Fri".
func validWeekdays(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if strings.TrimSpace(raw) == "" {
		return false
	}
	for _, day := range strings.Split(raw, ",") {
		if !isWeekday(strings.TrimSpace(day)) {
			return false
		}
	}
	return true
}

func isWeekday(day string) bool {
	for _, d := range models.Weekdays {
		if strings.EqualFold(d, day) {
			return true
		}
	}
	return false
}
