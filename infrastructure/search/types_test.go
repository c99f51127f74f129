package search

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOneOrMany(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  OneOrMany[string]
	}{
		{"single value", `"P11"`, OneOrMany[string]{"P11"}},
		{"array", `["P11","P1"]`, OneOrMany[string]{"P11", "P1"}},
		{"null", `null`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got OneOrMany[string]
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	var bad OneOrMany[int]
	assert.Error(t, json.Unmarshal([]byte(`"x"`), &bad))
}

func TestIndexMetaDataEncodesAsArrays(t *testing.T) {
	doc := IndexMetaData{IndexBase: IndexBase{ID: "a"}, Groups: OneOrMany[string]{"P11"}}
	b, err := json.Marshal(&doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a","uri":"","groups":["P11"]}`, string(b))
	assert.Equal(t, "a", doc.DocumentID())
}
