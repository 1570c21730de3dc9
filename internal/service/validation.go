package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/study-tracker-api/internal/models"
	appErrors "github.com/noah-isme/study-tracker-api/pkg/errors"
)

// NewValidator returns a validator with the study tracker's custom tags
// registered: civildate accepts YYYY-MM-DD strings.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("civildate", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDate(fl.Field().String())
		return err == nil
	})
	return v
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func internalError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
