package forms

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"

	"school-dashboard-go/models"
)

var (
	emailPattern = regexp.MustCompile(`^[\w-]+(\.[\w-]+)*@([\w-]+\.)+[a-zA-Z]{2,7}$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)

	validate = newValidator()
)

const (
	tagEmail = "school_email"
	tagPhone = "phone10"
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation(tagEmail, func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation(tagPhone, func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// Result is the outcome of validating a draft.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors ErrorMap `json:"errors"`
}

// Validate checks every field of the draft: required values, and the email
// and phone formats. It is pure and performs no I/O.
func Validate(fields []Field, d models.Draft) Result {
	errs := ErrorMap{}
	for _, f := range fields {
		if msg := check(f, valueOf(d, f.Name)); msg != "" {
			errs[f.Name] = msg
		}
	}
	return Result{Valid: len(errs) == 0, Errors: errs}
}

func check(f Field, v any) string {
	required := f.Label + " is required."
	switch x := v.(type) {
	case nil:
		return required
	case bool:
		// a checkbox is always answered
		return ""
	case []string:
		if len(x) == 0 {
			return required
		}
		return ""
	case string:
		return checkString(f, x)
	}
	return ""
}

func checkString(f Field, s string) string {
	tags := "required"
	switch f.Name {
	case "email":
		tags += "," + tagEmail
	case "phone":
		tags += "," + tagPhone
	}

	err := validate.Var(s, tags)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return f.Label + " is invalid."
	}
	switch verrs[0].Tag() {
	case tagEmail:
		return "Please enter a valid email."
	case tagPhone:
		return "Please enter a valid phone number."
	}
	return f.Label + " is required."
}

// ValidEmail reports whether s is an acceptable email address.
func ValidEmail(s string) bool {
	return validate.Var(s, "required,"+tagEmail) == nil
}

// ValidPhone reports whether s is a ten digit phone number.
func ValidPhone(s string) bool {
	return validate.Var(s, "required,"+tagPhone) == nil
}
