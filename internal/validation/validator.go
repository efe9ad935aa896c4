package validation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// GetValidator returns the shared go-playground validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

func isEmail(s string) bool {
	return GetValidator().Var(s, "email") == nil
}

func isOneOf(s string, values []string) bool {
	return GetValidator().Var(s, "oneof="+strings.Join(values, " ")) == nil
}

func maxLength(s string, n int) bool {
	return GetValidator().Var(s, fmt.Sprintf("max=%d", n)) == nil
}

func minLength(s string, n int) bool {
	return GetValidator().Var(s, fmt.Sprintf("min=%d", n)) == nil
}
