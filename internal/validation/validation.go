// Package validation wraps go-playground/validator with the rules used by
// the request DTOs in internal/types.
//
// A single *validator.Validate is built lazily and shared: it caches struct
// metadata and is safe for concurrent use, so there is no reason to call
// validator.New() on every request.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New()

		// Report fields by their JSON name ("fullName") rather than the Go
		// field name ("FullName") so messages match what the client sent.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})

		// notblank: the string must contain at least one non-space character.
		err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		if err != nil {
			panic(fmt.Sprintf("validation: register notblank: %v", err))
		}

		validate = v
	})
	return validate
}

// Error is returned when a request fails validation. Messages holds one
// human-readable sentence per failing field, in struct order.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, ", ")
}

// Validate checks every validate:"..." tag on v and returns nil or *Error.
func Validate(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// *validator.InvalidValidationError: v was nil or not a struct.
		return &Error{Messages: []string{err.Error()}}
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		switch e.ActualTag() {
		case "required":
			messages = append(messages, fmt.Sprintf("field %s is required", e.Field()))
		case "notblank":
			messages = append(messages, fmt.Sprintf("field %s must not be blank", e.Field()))
		default:
			messages = append(messages, fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}
	return &Error{Messages: messages}
}

// IsValidationError reports whether err is (or wraps) a *Error.
func IsValidationError(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}
