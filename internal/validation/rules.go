// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/adminsuite/vault/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// Tag validates a single secret record tag: non-blank, no surrounding
// whitespace and no embedded commas (commas are the tag separator in exports).
var Tag = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_tag_type", "must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_tag_blank", "must not be blank")
	}
	if s != strings.TrimSpace(s) {
		return validation.NewError("validation_tag_whitespace", "must not contain leading or trailing whitespace")
	}
	if strings.Contains(s, ",") {
		return validation.NewError("validation_tag_comma", "must not contain commas")
	}
	return nil
})
