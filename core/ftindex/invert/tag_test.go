package invert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagIndexIndexCreatesPerValuePostings(t *testing.T) {
	tag := NewTagIndex()
	tag.Index([]string{"go", "search"}, 1, 100)
	tag.Index([]string{"go"}, 2, 100)

	goIdx, ok := tag.Get("go")
	require.True(t, ok)
	assert.Equal(t, 2, goIdx.NumDocs)

	searchIdx, ok := tag.Get("search")
	require.True(t, ok)
	assert.Equal(t, 1, searchIdx.NumDocs)
}

func TestTagIndexRandomKeyEmptyReturnsFalse(t *testing.T) {
	tag := NewTagIndex()
	_, ok := tag.RandomKey()
	assert.False(t, ok)
}

func TestTagIndexRandomKeyReturnsKnownValue(t *testing.T) {
	tag := NewTagIndex()
	tag.Index([]string{"alpha", "beta"}, 1, 100)

	key, ok := tag.RandomKey()
	require.True(t, ok)
	assert.Contains(t, []string{"alpha", "beta"}, key)
}

func TestTagForestGetOrCreate(t *testing.T) {
	forest := NewTagForest()
	a := forest.GetOrCreate("labels")
	b := forest.GetOrCreate("labels")
	assert.Same(t, a, b)
}
