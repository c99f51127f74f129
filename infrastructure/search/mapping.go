package search

import (
	"encoding/json"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultAnalyzer is the analyzer of text fields unless one is given.
const DefaultAnalyzer = "yti"

// Property is a field mapping.
type Property map[string]any

// DynamicTemplate maps fields matching PathMatch.
type DynamicTemplate struct {
	PathMatch string   `json:"path_match"`
	Mapping   Property `json:"mapping"`
}

// TypeMapping is the mappings section of an index.
type TypeMapping struct {
	Properties       map[string]Property          `json:"properties,omitempty"`
	DynamicTemplates []map[string]DynamicTemplate `json:"dynamic_templates,omitempty"`
}

func KeywordProperty() Property {
	return Property{"type": "keyword"}
}

// TextProperty is a text field analyzed with analyzer, or DefaultAnalyzer.
func TextProperty(analyzer ...string) Property {
	return Property{"type": "text", "analyzer": analyzerOrDefault(analyzer)}
}

// SortedKeywordProperty is a text field with a normalized sortKey keyword
// subfield.
func SortedKeywordProperty(analyzer ...string) Property {
	return Property{
		"type":     "text",
		"analyzer": analyzerOrDefault(analyzer),
		"fields": map[string]any{
			"sortKey": map[string]any{
				"type":         "keyword",
				"normalizer":   "sortKeyNormalizer",
				"ignore_above": 256,
			},
		},
	}
}

func DateProperty() Property {
	return Property{"type": "date"}
}

// DynamicTemplateFor maps fields under pathMatch as text.
func DynamicTemplateFor(name, pathMatch string, analyzer ...string) map[string]DynamicTemplate {
	return map[string]DynamicTemplate{name: {PathMatch: pathMatch, Mapping: TextProperty(analyzer...)}}
}

// DynamicTemplateWithSortKey maps fields under pathMatch as sortable text.
func DynamicTemplateWithSortKey(name, pathMatch string) map[string]DynamicTemplate {
	return map[string]DynamicTemplate{name: {PathMatch: pathMatch, Mapping: SortedKeywordProperty()}}
}

// MetaDataProperties are the field mappings of IndexMetaData.
func MetaDataProperties() map[string]Property {
	return map[string]Property{
		"id":              KeywordProperty(),
		"uri":             KeywordProperty(),
		"status":          KeywordProperty(),
		"type":            KeywordProperty(),
		"prefix":          KeywordProperty(),
		"organizations":   KeywordProperty(),
		"languages":       KeywordProperty(),
		"groups":          KeywordProperty(),
		"created":         DateProperty(),
		"contentModified": DateProperty(),
	}
}

// MetaDataDynamicTemplates map the localized label and description fields.
func MetaDataDynamicTemplates() []map[string]DynamicTemplate {
	return []map[string]DynamicTemplate{
		DynamicTemplateWithSortKey("label", "label.*"),
		DynamicTemplateFor("description", "description.*"),
	}
}

// MetaDataMapping combines MetaDataProperties and MetaDataDynamicTemplates.
func MetaDataMapping() TypeMapping {
	return TypeMapping{
		Properties:       MetaDataProperties(),
		DynamicTemplates: MetaDataDynamicTemplates(),
	}
}

// Payload serializes a request body.
func Payload(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func logPayload(logger *zap.Logger, kind, index string, v any) {
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		return
	}
	payload, err := Payload(v)
	if err != nil {
		logger.Debug("Payload not serializable", zap.String("index", index), zap.Error(err))
		return
	}
	logger.Debug("Payload for "+kind,
		zap.String("index", index),
		zap.String("payload", payload))
}

func analyzerOrDefault(analyzer []string) string {
	if len(analyzer) > 0 && analyzer[0] != "" {
		return analyzer[0]
	}
	return DefaultAnalyzer
}

// indexSettings are the analysis settings of every created index.
func indexSettings() map[string]any {
	tokenChars := []string{"letter", "digit"}
	return map[string]any{
		"analysis": map[string]any{
			"tokenizer": map[string]any{
				"ngram": map[string]any{
					"type": "ngram", "min_gram": 3, "max_gram": 3, "token_chars": tokenChars,
				},
				"edgeNgram": map[string]any{
					"type": "edge_ngram", "min_gram": 3, "max_gram": 20, "token_chars": tokenChars,
				},
			},
			"analyzer": map[string]any{
				"ngramAnalyzer": map[string]any{
					"type": "custom", "tokenizer": "ngram", "filter": []string{"lowercase"},
				},
				"edgeNgramAnalyzer": map[string]any{
					"type": "custom", "tokenizer": "edgeNgram", "filter": []string{"lowercase"},
				},
				DefaultAnalyzer: map[string]any{
					"type": "custom", "tokenizer": "standard", "filter": []string{"lowercase", "asciifolding"},
				},
			},
			"normalizer": map[string]any{
				"sortKeyNormalizer": map[string]any{
					"type": "custom", "filter": []string{"lowercase", "asciifolding"},
				},
			},
		},
	}
}
