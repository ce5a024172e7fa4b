package validation

import (
	"strconv"
	"strings"
)

// Violations maps a form field to a translation code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Has reports whether field has a violation.
func (v Violations) Has(field string) bool {
	_, ok := v[field]
	return ok
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// Int parses a whole number. Empty input is reported as "required",
// anything else that does not parse as "invalid_number".
func Int(field, raw string, v Violations) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		v[field] = "required"
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		v[field] = "invalid_number"
		return 0, false
	}
	return n, true
}

// OptionalID parses a select value; empty means "no reference".
func OptionalID(field, raw string, v Violations) *uint {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		v[field] = "invalid_choice"
		return nil
	}
	id := uint(n)
	return &id
}

func NonNegative(field string, val int, v Violations) {
	if val < 0 {
		v[field] = "must_not_be_negative"
	}
}

func Positive(field string, val int, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}
