package utils

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	calendarDateLayout = "2006-01-02"
	slotTimeLayout     = "15:04"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("calendar_date", validateCalendarDate)
	validate.RegisterValidation("slot_time", validateSlotTime)
	validate.RegisterValidation("not_blank", validateNotBlank)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateCalendarDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(calendarDateLayout, fl.Field().String())
	return err == nil
}

func validateSlotTime(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if len(value) != len(slotTimeLayout) {
		return false
	}
	_, err := time.Parse(slotTimeLayout, value)
	return err == nil
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
