package validator

import (
	ierr "github.com/flexprice/connectcheckout/internal/errors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func NewValidator() *validator.Validate {
	return validate
}

func GetValidator() *validator.Validate {
	return validate
}

// ValidateRequest validates a request struct and marks failures as validation errors
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, err := range validateErrs {
				details[err.Field()] = err.Error()
			}
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}
