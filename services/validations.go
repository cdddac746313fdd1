package services

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/hexpertify/moodlift/models"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// InitValidator builds the shared validator and registers custom rules. Safe to call more than once.
func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("activity_type", func(fl validator.FieldLevel) bool {
			return isActivityType(fl.Field().String())
		})
	})
}

func isActivityType(s string) bool {
	switch s {
	case models.ActivityDailyLogin, models.ActivityGame:
		return true
	}
	return false
}

// validateStruct runs struct validation and wraps failures in ErrInvalidInput.
func validateStruct(v interface{}) error {
	InitValidator()
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	return nil
}
