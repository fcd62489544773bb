// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"expensetracker/internal/dates"
	"expensetracker/internal/report"
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notblank", validateNotBlank)
		_ = v.RegisterValidation("username", validateUsername)
		_ = v.RegisterValidation("expense_date", validateExpenseDate)
		_ = v.RegisterValidation("window_kind", validateWindowKind)
	}
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateUsername(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}

// expense_date accepts any date layout the normalizer understands.
func validateExpenseDate(fl validator.FieldLevel) bool {
	_, err := dates.Normalize(fl.Field().String())
	return err == nil
}

func validateWindowKind(fl validator.FieldLevel) bool {
	return report.ValidWindowKind(fl.Field().String())
}
