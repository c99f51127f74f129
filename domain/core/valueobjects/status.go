package valueobjects

import (
	"fmt"
	"strings"

	pkgerrors "yti-common/pkg/errors"
)

// Status is the publication lifecycle state of a graph or resource.
type Status string

const (
	StatusIncomplete Status = "INCOMPLETE"
	StatusDraft      Status = "DRAFT"
	StatusSuggested  Status = "SUGGESTED"
	StatusValid      Status = "VALID"
	StatusSuperseded Status = "SUPERSEDED"
	StatusRetired    Status = "RETIRED"
	StatusInvalid    Status = "INVALID"
)

var allStatuses = []Status{
	StatusIncomplete, StatusDraft, StatusSuggested, StatusValid,
	StatusSuperseded, StatusRetired, StatusInvalid,
}

// Statuses returns every known status in lifecycle order.
func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus parses a status name case-insensitively.
func ParseStatus(s string) (Status, error) {
	candidate := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, status := range allStatuses {
		if status == candidate {
			return status, nil
		}
	}
	return "", pkgerrors.NewValidationError(fmt.Sprintf("unknown status %q", s))
}

// String returns the status name
func (s Status) String() string {
	return string(s)
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// UnmarshalText accepts any known status name.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s), nil
}
