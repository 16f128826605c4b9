package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// String length limits
const (
	MaxIDLength   = 128
	MaxPathLength = 2048
)

// ErrInvalid marks every validation failure
var ErrInvalid = errors.New("validation failed")

var (
	// SafeIDPattern allows alphanumeric, hyphens, underscores
	SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared struct validator
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct checks struct tags and flattens field errors into one error
func ValidateStruct(v interface{}) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// ValidateID validates an identifier used in URLs and stores
func ValidateID(id, fieldName string, required bool) error {
	if id == "" {
		if required {
			return fmt.Errorf("%w: %s is required", ErrInvalid, fieldName)
		}
		return nil
	}

	if len(id) > MaxIDLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrInvalid, fieldName, MaxIDLength)
	}

	if !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %s contains invalid characters (only alphanumeric, hyphens, and underscores allowed)", ErrInvalid, fieldName)
	}

	return nil
}

// ValidatePath validates a navigation path
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalid, fieldName)
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("%w: %s must start with /", ErrInvalid, fieldName)
	}
	if len(path) > MaxPathLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrInvalid, fieldName, MaxPathLength)
	}
	if !utf8.ValidString(path) {
		return fmt.Errorf("%w: %s contains invalid UTF-8", ErrInvalid, fieldName)
	}
	return nil
}
