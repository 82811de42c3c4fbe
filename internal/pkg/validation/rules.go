package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Validation rule patterns
var (
	// Numeric grade such as 95, 89.5 or 1.25
	GradePattern = `^\d+(\.\d+)?$`

	// Calendar date as sent by the dashboards
	DatePattern = `^\d{4}-\d{2}-\d{2}$`

	// DateLayout is the time layout matching DatePattern
	DateLayout = "2006-01-02"

	// GradeMaxLength matches the width of the term grade columns
	GradeMaxLength = 10

	// IncompleteGrade marks a term the student did not complete
	IncompleteGrade = "INC"
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Grade *regexp.Regexp
	Date  *regexp.Regexp
}{
	Grade: regexp.MustCompile(GradePattern),
	Date:  regexp.MustCompile(DatePattern),
}

// StringValidation is a chainable set of checks for one string value
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return !v.Required
	}

	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}

	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}

	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}

	return true
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(value string) (time.Time, error) {
	if !NewStringValidation(value).WithPattern(CompiledPatterns.Date).Validate() {
		return time.Time{}, fmt.Errorf("date must be formatted as YYYY-MM-DD")
	}
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return d, nil
}

// NormalizeGrade validates a term grade. Blank input clears the grade and
// returns nil; "inc" in any case is stored as INC.
func NormalizeGrade(raw string) (*string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	if strings.EqualFold(value, IncompleteGrade) {
		inc := IncompleteGrade
		return &inc, nil
	}

	if !NewStringValidation(value).
		WithMaxLength(GradeMaxLength).
		WithPattern(CompiledPatterns.Grade).
		Validate() {
		return nil, fmt.Errorf("grade must be numeric or INC and at most %d characters", GradeMaxLength)
	}
	return &value, nil
}
