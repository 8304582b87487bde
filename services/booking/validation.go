package booking

import (
	"regexp"
	"strings"

	"tablebook/models"

	"github.com/go-playground/validator/v10"
)

// Russian mobile: +7 or 8, then ten digits with optional spaces, dashes and parentheses.
var ruPhonePattern = regexp.MustCompile(`^(\+7|8)[\s-]?\(?\d{3}\)?[\s-]?\d{3}[\s-]?\d{2}[\s-]?\d{2}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("ru_phone", func(fl validator.FieldLevel) bool {
		return IsRussianPhone(fl.Field().String())
	})
	return v
}

// IsRussianPhone reports whether s is a Russian mobile number.
func IsRussianPhone(s string) bool {
	return ruPhonePattern.MatchString(strings.TrimSpace(s))
}

// ValidateForm checks the fields required to submit. DateValid is reported but does not gate FormValid.
func ValidateForm(form models.BookingForm) models.ValidationResult {
	res := models.ValidationResult{
		NameValid:     validate.Var(strings.TrimSpace(form.UserName), "required") == nil,
		PhoneValid:    validate.Var(form.UserPhone, "required,ru_phone") == nil,
		DateValid:     form.Date != nil && form.Date.Value != "",
		TimeSlotValid: form.SelectedTimeSlot != nil,
		GuestsValid:   validate.Var(form.GuestCount, "gt=0") == nil,
	}
	res.FormValid = res.NameValid && res.PhoneValid && res.TimeSlotValid && res.GuestsValid
	return res
}
