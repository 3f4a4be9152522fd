package model

import (
	"fmt"
	"strings"
)

// ErrorType categorizes a validation failure.
type ErrorType string

const (
	ErrorTypeParse         ErrorType = "parse"
	ErrorTypeConstraint    ErrorType = "constraint"
	ErrorTypeCrossField    ErrorType = "cross_field"
	ErrorTypeConsistency   ErrorType = "consistency"
	ErrorTypeCompatibility ErrorType = "compatibility"
)

// ValidationError is a single field-level or document-level defect.
type ValidationError struct {
	Field   string    `yaml:"field"`
	Message string    `yaml:"message"`
	Type    ErrorType `yaml:"type"`
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("[%s] %s", e.Type, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Field, e.Message)
}

// ErrorList accumulates every defect found during a validation pass.
// Validation never stops at the first failure.
type ErrorList []ValidationError

func (l ErrorList) Error() string {
	if len(l) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d validation error(s): %s", len(l), strings.Join(msgs, "; "))
}

func (l *ErrorList) Add(field, message string, errType ErrorType) {
	*l = append(*l, ValidationError{Field: field, Message: message, Type: errType})
}

func (l *ErrorList) Merge(other ErrorList) {
	*l = append(*l, other...)
}

// Err returns the list as an error, or nil when empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
