package search

import (
	"fmt"
	"strings"

	"yti-common/domain/core/valueobjects"
)

// Paging and sorting defaults.
const (
	DefaultPageFrom        = 0
	DefaultPageSize        = 10
	InternalSearchPageSize = 10000
	DefaultSortLang        = "fi"
)

// Query is a node of the OpenSearch query DSL.
type Query map[string]any

// PageFrom returns pageFrom, or DefaultPageFrom when not positive.
func PageFrom(pageFrom int) int {
	if pageFrom <= 0 {
		return DefaultPageFrom
	}
	return pageFrom
}

// PageFromRequest converts the 1-based page number of request to a hit offset.
func PageFromRequest(request BaseSearchRequest) int {
	if request.PageFrom <= 0 {
		return DefaultPageFrom
	}
	return (request.PageFrom - 1) * PageSize(request.PageSize)
}

// PageSize returns pageSize, or DefaultPageSize when not positive.
func PageSize(pageSize int) int {
	if pageSize <= 0 {
		return DefaultPageSize
	}
	return pageSize
}

// SortLang returns sortLang, or DefaultSortLang when blank.
func SortLang(sortLang string) string {
	if strings.TrimSpace(sortLang) == "" {
		return DefaultSortLang
	}
	return sortLang
}

// LangSortOptions sorts ascending by the label sort key of sortLang.
func LangSortOptions(sortLang string) map[string]any {
	return map[string]any{
		fmt.Sprintf("label.%s.sortKey", SortLang(sortLang)): map[string]any{
			"order":         "asc",
			"unmapped_type": "keyword",
		},
	}
}

// HideDraftStatusQuery excludes documents in DRAFT status.
func HideDraftStatusQuery() Query {
	return NewBoolQuery().MustNot(TermQuery("status", string(valueobjects.StatusDraft))).Query()
}

// TermsQuery matches any of values exactly.
func TermsQuery(field string, values []string) Query {
	return Query{"terms": map[string]any{field: values}}
}

// TermQuery matches value exactly. It returns nil for a blank value.
func TermQuery(field, value string) Query {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return Query{"term": map[string]any{field: map[string]any{"value": value}}}
}

// ExistsQuery matches documents having field, or lacking it when notExists.
func ExistsQuery(field string, notExists bool) Query {
	exists := Query{"exists": map[string]any{"field": field}}
	if notExists {
		return NewBoolQuery().MustNot(exists).Query()
	}
	return exists
}

// LabelQuery is a query_string search over label fields. Several words must
// all match as substrings; a single word matches fuzzily or as a substring.
func LabelQuery(query string, fields ...string) Query {
	if len(fields) == 0 {
		fields = []string{"label.*"}
	}

	trimmed := strings.TrimSpace(query)
	words := strings.Fields(trimmed)
	var qs, operator string
	if len(words) > 1 {
		for i, w := range words {
			words[i] = "*" + w + "*"
		}
		qs = strings.Join(words, " ")
		operator = "and"
	} else {
		qs = fmt.Sprintf("%s~1 *%s*", trimmed, trimmed)
		operator = "or"
	}

	return Query{"query_string": map[string]any{
		"query":            qs,
		"default_operator": operator,
		"fields":           fields,
	}}
}

// BoolQuery builds a bool query. Nil clauses are skipped.
type BoolQuery struct {
	must               []Query
	should             []Query
	filter             []Query
	mustNot            []Query
	minimumShouldMatch string
}

// NewBoolQuery creates an empty bool query.
func NewBoolQuery() *BoolQuery {
	return &BoolQuery{}
}

func (b *BoolQuery) Must(queries ...Query) *BoolQuery {
	b.must = appendQueries(b.must, queries)
	return b
}

func (b *BoolQuery) Should(queries ...Query) *BoolQuery {
	b.should = appendQueries(b.should, queries)
	return b
}

func (b *BoolQuery) Filter(queries ...Query) *BoolQuery {
	b.filter = appendQueries(b.filter, queries)
	return b
}

func (b *BoolQuery) MustNot(queries ...Query) *BoolQuery {
	b.mustNot = appendQueries(b.mustNot, queries)
	return b
}

func (b *BoolQuery) MinimumShouldMatch(value string) *BoolQuery {
	b.minimumShouldMatch = value
	return b
}

// Query renders the bool query.
func (b *BoolQuery) Query() Query {
	body := map[string]any{}
	if len(b.must) > 0 {
		body["must"] = b.must
	}
	if len(b.should) > 0 {
		body["should"] = b.should
	}
	if len(b.filter) > 0 {
		body["filter"] = b.filter
	}
	if len(b.mustNot) > 0 {
		body["must_not"] = b.mustNot
	}
	if b.minimumShouldMatch != "" {
		body["minimum_should_match"] = b.minimumShouldMatch
	}
	return Query{"bool": body}
}

func appendQueries(dst, queries []Query) []Query {
	for _, q := range queries {
		if q != nil {
			dst = append(dst, q)
		}
	}
	return dst
}
