package errors

import (
	"fmt"
	"strings"
)

// Violation is a single failed constraint on an input property.
type Violation struct {
	Message  string `json:"message"`
	Property string `json:"property"`
	Value    string `json:"value,omitempty"`
}

// ValidationErrors collects violations found while validating one object.
type ValidationErrors struct {
	Violations []Violation `json:"details"`
}

// NewValidationErrors creates an empty collection
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{Violations: make([]Violation, 0)}
}

// Add records a violation without a value.
func (v *ValidationErrors) Add(message, property string) {
	v.Violations = append(v.Violations, Violation{Message: message, Property: property})
}

// AddWithValue records a violation and the offending value.
func (v *ValidationErrors) AddWithValue(message, property, value string) {
	v.Violations = append(v.Violations, Violation{Message: message, Property: property, Value: value})
}

// HasErrors reports whether any violation was recorded.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Violations) > 0
}

// Has reports whether property has a violation with message.
func (v *ValidationErrors) Has(message, property string) bool {
	for _, violation := range v.Violations {
		if violation.Message == message && violation.Property == property {
			return true
		}
	}
	return false
}

// Error implements the error interface
func (v *ValidationErrors) Error() string {
	parts := make([]string, 0, len(v.Violations))
	for _, violation := range v.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", violation.Property, violation.Message))
	}
	return "Object validation failed: " + strings.Join(parts, ", ")
}
