// Package validation implements field-level validation for intake payloads.
// Validators append to a Collector instead of failing fast so callers always
// receive the complete list of violations, which the form UI depends on to
// highlight every invalid field at once.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	dErrors "intake/pkg/domain-errors"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	zipPattern   = regexp.MustCompile(`^[0-9]{5}(-[0-9]{4})?$`)
	statePattern = regexp.MustCompile(`^[A-Za-z]{2}$`)
)

// dateLayout is the wire format for dates (date of birth, lock dates).
const dateLayout = "2006-01-02"

// Collector accumulates violations across one validation pass.
type Collector struct {
	violations []dErrors.Violation
}

// Add records a violation verbatim.
func (c *Collector) Add(field, message string) {
	c.violations = append(c.violations, dErrors.Violation{Field: field, Message: message})
}

// Merge appends violations produced elsewhere (nested objects, list items).
func (c *Collector) Merge(violations []dErrors.Violation) {
	c.violations = append(c.violations, violations...)
}

// Violations returns everything collected, in insertion order.
func (c *Collector) Violations() []dErrors.Violation {
	return c.violations
}

// OK reports whether the pass found no violations.
func (c *Collector) OK() bool {
	return len(c.violations) == 0
}

// Require records a violation when a required string is empty.
func (c *Collector) Require(field, value string) {
	if strings.TrimSpace(value) == "" {
		c.Add(field, "is required")
	}
}

// Email checks address syntax when a value is present.
func (c *Collector) Email(field, value string) {
	if value != "" && !emailPattern.MatchString(value) {
		c.Add(field, "must be a valid email address")
	}
}

// RequireEmail enforces presence and syntax.
func (c *Collector) RequireEmail(field, value string) {
	if strings.TrimSpace(value) == "" {
		c.Add(field, "is required")
		return
	}
	c.Email(field, value)
}

// ZipCode accepts NNNNN or NNNNN-NNNN when a value is present.
func (c *Collector) ZipCode(field, value string) {
	if value != "" && !zipPattern.MatchString(value) {
		c.Add(field, "must be a ZIP code (NNNNN or NNNNN-NNNN)")
	}
}

// State accepts two-letter state abbreviations when a value is present.
func (c *Collector) State(field, value string) {
	if value != "" && !statePattern.MatchString(value) {
		c.Add(field, "must be a 2-letter state abbreviation")
	}
}

// Date accepts YYYY-MM-DD when a value is present.
func (c *Collector) Date(field, value string) {
	if value == "" {
		return
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		c.Add(field, "must be a date in YYYY-MM-DD format")
	}
}

// NonNegative rejects negative monetary amounts.
func (c *Collector) NonNegative(field string, value float64) {
	if value < 0 {
		c.Add(field, "must not be negative")
	}
}

// Range bounds an optional numeric field inclusively.
func (c *Collector) Range(field string, value *float64, min, max float64) {
	if value != nil && (*value < min || *value > max) {
		c.Add(field, fmt.Sprintf("must be between %g and %g", min, max))
	}
}

// IntRange bounds an optional integer field inclusively.
func (c *Collector) IntRange(field string, value *int, min, max int) {
	if value != nil && (*value < min || *value > max) {
		c.Add(field, fmt.Sprintf("must be between %d and %d", min, max))
	}
}

// NonNegativeInt rejects negative optional counts.
func (c *Collector) NonNegativeInt(field string, value *int) {
	if value != nil && *value < 0 {
		c.Add(field, "must not be negative")
	}
}

// OneOf restricts a field to a closed vocabulary when a value is present.
// Values outside the vocabulary are violations, never silently coerced.
func (c *Collector) OneOf(field, value string, allowed ...string) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	c.Add(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
}

// RequireContact enforces the required-basic-info contact rule: at least one
// phone number present, and email present and syntactically valid. Reused by
// applicant and co-applicant flows when required behavior is requested.
func (c *Collector) RequireContact(prefix, homePhone, mobilePhone, otherPhone, email string) {
	if strings.TrimSpace(homePhone) == "" &&
		strings.TrimSpace(mobilePhone) == "" &&
		strings.TrimSpace(otherPhone) == "" {
		c.Add(prefix, "at least one of homePhone, mobilePhone or otherPhone is required")
	}
	c.RequireEmail(prefix+".email", email)
}
