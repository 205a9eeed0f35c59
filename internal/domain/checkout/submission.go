package checkout

import (
	"strings"

	"github.com/google/uuid"
)

// Submission holds the field values of one in-flight checkout request.
// It is externally owned and never persisted by extensions.
type Submission struct {
	OrderID uuid.UUID
	// Values maps field identifier to the raw submitted value.
	Values map[string]string
	// PaymentMethod is the payment-method indicator from the request, if any.
	// Its presence signals a final order-submission attempt as opposed to an
	// incremental field edit.
	PaymentMethod string
	// RawBody is the unparsed request payload, available for hosts whose
	// final-submission signal lives outside the structured fields.
	RawBody []byte
}

// Value returns the submitted value for a field identifier, or "" when the
// field was not submitted.
func (s *Submission) Value(fieldID string) string {
	if s == nil || s.Values == nil {
		return ""
	}
	return s.Values[fieldID]
}

// Bool interprets the submitted value for a field as a checkbox state.
func (s *Submission) Bool(fieldID string) bool {
	switch strings.ToLower(strings.TrimSpace(s.Value(fieldID))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// FinalSubmissionFunc reports whether a submission is an actual
// order-submission attempt rather than a live field edit. The host adapter
// supplies the predicate; the default adapter inspects the payment-method
// indicator in the payload.
type FinalSubmissionFunc func(s *Submission) bool

// ErrorCollector accumulates field-tagged validation errors for one
// submission. Implementations are supplied by the host's validation hook.
type ErrorCollector interface {
	Add(fieldID, code, message string)
}

// FieldError is a single validation error tagged to a checkout field.
type FieldError struct {
	FieldID string `json:"fieldId"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FieldErrors is the reference ErrorCollector implementation.
type FieldErrors struct {
	errs []FieldError
}

// NewFieldErrors creates an empty collector
func NewFieldErrors() *FieldErrors {
	return &FieldErrors{errs: make([]FieldError, 0)}
}

// Add records a validation error for a field
func (c *FieldErrors) Add(fieldID, code, message string) {
	c.errs = append(c.errs, FieldError{FieldID: fieldID, Code: code, Message: message})
}

// Errors returns the collected errors in insertion order
func (c *FieldErrors) Errors() []FieldError {
	return c.errs
}

// HasErrors reports whether any error was collected
func (c *FieldErrors) HasErrors() bool {
	return len(c.errs) > 0
}

// ForField returns the collected errors tagged to the given field
func (c *FieldErrors) ForField(fieldID string) []FieldError {
	matched := make([]FieldError, 0)
	for _, e := range c.errs {
		if e.FieldID == fieldID {
			matched = append(matched, e)
		}
	}
	return matched
}
