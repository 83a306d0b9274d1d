package buildconfig

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports a malformed or missing field in the build document
type ValidationError struct {
	// Field is the dot-delimited document path, empty for document-level errors
	Field string
	// Constraint describes what the field must satisfy
	Constraint string
	// Line is the 1-based line in the source document, 0 when unknown
	Line int
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Constraint)
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	return b.String()
}

// ValidationErrors is every violation found in one document
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 1 {
		return "invalid build config: " + v[0].Error()
	}
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = "  - " + e.Error()
	}
	return fmt.Sprintf("invalid build config (%d errors):\n%s", len(v), strings.Join(msgs, "\n"))
}

// Unwrap exposes each violation to errors.Is/errors.As
func (v ValidationErrors) Unwrap() []error {
	out := make([]error, len(v))
	for i, e := range v {
		out[i] = e
	}
	return out
}

// FieldErrors flattens err into the validation errors it carries
func FieldErrors(err error) []*ValidationError {
	var many ValidationErrors
	if errors.As(err, &many) {
		return many
	}
	var one *ValidationError
	if errors.As(err, &one) {
		return []*ValidationError{one}
	}
	return nil
}

// HasFieldError reports whether err carries a violation for field
func HasFieldError(err error, field string) bool {
	for _, e := range FieldErrors(err) {
		if e.Field == field {
			return true
		}
	}
	return false
}

// collector accumulates violations while walking a document
type collector struct {
	errs  ValidationErrors
	lines map[string]int
}

// add records a violation; only the first one per field is kept
func (c *collector) add(field string, line int, format string, args ...any) {
	for _, e := range c.errs {
		if e.Field == field {
			return
		}
	}
	if line == 0 && c.lines != nil {
		line = c.lines[field]
	}
	c.errs = append(c.errs, &ValidationError{
		Field:      field,
		Constraint: fmt.Sprintf(format, args...),
		Line:       line,
	})
}

func (c *collector) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return c.errs
}
