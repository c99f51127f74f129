package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("  \t"))
	assert.False(t, IsBlank(" a "))
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Unique([]string{"a", "b", "a"}))
	assert.True(t, Contains([]int{1, 2}, 2))
	assert.False(t, Contains([]int{1, 2}, 3))
}

func TestLocalizedValue(t *testing.T) {
	labels := map[string]string{"fi": "Kissa", "en": "Cat"}
	assert.Equal(t, "Cat", LocalizedValue(labels, "en", "fi"))
	assert.Equal(t, "Kissa", LocalizedValue(labels, "sv", "fi"))
	assert.Equal(t, "", LocalizedValue(map[string]string{}, "sv", "fi"))
}
