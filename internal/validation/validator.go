// Package validation validates CLI-facing argument structs with
// go-playground/validator tags.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError holds one message per failed field.
type ValidationError struct {
	Errors []string
}

// Error returns a single string concatenating all validation error messages.
func (v *ValidationError) Error() string {
	return strings.Join(v.Errors, ", ")
}

// ValidateStruct performs validation on a given struct based on its validation tags.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	messages := make([]string, 0, len(fieldErrors))

	for _, fieldErr := range fieldErrors {
		var message string

		switch fieldErr.Tag() {
		case "required":
			message = fmt.Sprintf("field '%s' is required", fieldErr.Field())
		case "gte", "lte":
			message = fmt.Sprintf("field '%s' must be %s %s, got %v",
				fieldErr.Field(), boundWord(fieldErr.Tag()), fieldErr.Param(), fieldErr.Value())
		default:
			message = fmt.Sprintf("field '%s' failed on the '%s' tag", fieldErr.Field(), fieldErr.Tag())
		}

		messages = append(messages, message)
	}

	return &ValidationError{Errors: messages}
}

func boundWord(tag string) string {
	if tag == "gte" {
		return "at least"
	}

	return "at most"
}
