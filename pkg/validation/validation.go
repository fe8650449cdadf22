// Package validation collects field-level problems for service inputs and
// turns them into a VALIDATION_ERROR carrying per-field details.
package validation

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Errors maps a JSON field name to the first problem found for it.
type Errors map[string]string

// Add records msg for field unless the field already has a problem.
func (e Errors) Add(field, msg string) {
	if _, exists := e[field]; exists {
		return
	}
	e[field] = msg
}

// Check records msg for field when ok is false.
func (e Errors) Check(ok bool, field, msg string) {
	if !ok {
		e.Add(field, msg)
	}
}

// Err returns nil when no problems were recorded.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(map[string]string(e))
}

func IsEmail(value string) bool {
	return instance().Var(value, "required,email") == nil
}

func IsURL(value string) bool {
	return instance().Var(value, "required,url") == nil
}

// MinLen reports whether the trimmed value has at least n characters.
func MinLen(value string, n int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(value)) >= n
}

// NormalizeEmail trims and lower-cases an address for storage and lookup.
func NormalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
