package valueobjects

import (
	"fmt"
	"strings"

	pkgerrors "yti-common/pkg/errors"
)

// GraphType classifies a stored graph.
type GraphType string

const (
	// GraphTypeProfile is an application profile.
	GraphTypeProfile GraphType = "PROFILE"
	// GraphTypeLibrary is a core vocabulary.
	GraphTypeLibrary                  GraphType = "LIBRARY"
	GraphTypeTerminologicalVocabulary GraphType = "TERMINOLOGICAL_VOCABULARY"
	GraphTypeOtherVocabulary          GraphType = "OTHER_VOCABULARY"
)

// ParseGraphType parses a graph type name case-insensitively.
func ParseGraphType(s string) (GraphType, error) {
	switch t := GraphType(strings.ToUpper(strings.TrimSpace(s))); t {
	case GraphTypeProfile, GraphTypeLibrary, GraphTypeTerminologicalVocabulary, GraphTypeOtherVocabulary:
		return t, nil
	}
	return "", pkgerrors.NewValidationError(fmt.Sprintf("unknown graph type %q", s))
}

// IsDataModel reports whether the graph is a profile or a library.
func (t GraphType) IsDataModel() bool {
	return t == GraphTypeProfile || t == GraphTypeLibrary
}

// UnmarshalText accepts any known graph type name.
func (t *GraphType) UnmarshalText(text []byte) error {
	parsed, err := ParseGraphType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (t GraphType) MarshalText() ([]byte, error) {
	return []byte(t), nil
}
