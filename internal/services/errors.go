package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Category names the marker class of err. It is used as a metrics label and to
// pick the CLI exit code.
type Category string

const (
	CategoryNone          Category = ""
	CategoryValidation    Category = "validation"
	CategoryConfiguration Category = "configuration"
	CategoryExternalTool  Category = "external_tool"
	CategoryTimeout       Category = "timeout"
	CategoryNotFound      Category = "not_found"
	CategoryUnknown       Category = "unknown"
)

// Classify maps an error to its marker category.
func Classify(err error) Category {
	switch {
	case err == nil:
		return CategoryNone
	case errors.Is(err, ErrValidation):
		return CategoryValidation
	case errors.Is(err, ErrConfiguration):
		return CategoryConfiguration
	case errors.Is(err, ErrTimeout):
		return CategoryTimeout
	case errors.Is(err, ErrExternalTool):
		return CategoryExternalTool
	case errors.Is(err, ErrNotFound):
		return CategoryNotFound
	default:
		return CategoryUnknown
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
