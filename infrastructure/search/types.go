package search

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"

	"yti-common/domain/core/valueobjects"
)

// Document is anything that can be stored in an index.
type Document interface {
	DocumentID() string
}

// Highlighter receives the highlight fragments of a search hit.
type Highlighter interface {
	SetHighlights(map[string][]string)
}

// IndexBase holds the fields shared by every indexed document.
type IndexBase struct {
	ID         string              `json:"id"`
	URI        string              `json:"uri"`
	Status     valueobjects.Status `json:"status,omitempty"`
	Label      map[string]string   `json:"label,omitempty"`
	Created    string              `json:"created,omitempty"`
	Modified   string              `json:"modified,omitempty"`
	Highlights map[string][]string `json:"highlights,omitempty"`
}

func (b *IndexBase) DocumentID() string { return b.ID }

func (b *IndexBase) SetHighlights(h map[string][]string) { b.Highlights = h }

// IndexMetaData is the indexed form of a data model or terminology.
type IndexMetaData struct {
	IndexBase
	ContentModified string                 `json:"contentModified,omitempty"`
	Type            valueobjects.GraphType `json:"type,omitempty"`
	Prefix          string                 `json:"prefix,omitempty"`
	Description     map[string]string      `json:"description,omitempty"`
	Organizations   OneOrMany[uuid.UUID]   `json:"organizations,omitempty"`
	Groups          OneOrMany[string]      `json:"groups,omitempty"`
	Languages       []string               `json:"languages,omitempty"`
}

// OneOrMany decodes from either a JSON array or a single value.
type OneOrMany[T any] []T

func (o *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*o = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var values []T
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return err
		}
		*o = values
		return nil
	}
	var value T
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return err
	}
	*o = OneOrMany[T]{value}
	return nil
}

// BaseSearchRequest holds the paging and sorting parameters common to all
// searches. Zero values mean defaults.
type BaseSearchRequest struct {
	Query    string                `json:"query,omitempty"`
	SortLang string                `json:"sortLang,omitempty"`
	Status   []valueobjects.Status `json:"status,omitempty"`
	PageSize int                   `json:"pageSize,omitempty"`
	PageFrom int                   `json:"pageFrom,omitempty"`
}

// SearchResponse is one page of typed search results.
type SearchResponse[T any] struct {
	TotalHitCount   int64 `json:"totalHitCount"`
	PageSize        int   `json:"pageSize"`
	PageFrom        int   `json:"pageFrom"`
	ResponseObjects []T   `json:"responseObjects"`
}
