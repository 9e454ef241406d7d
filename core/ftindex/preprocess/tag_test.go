package preprocess

import (
	"testing"

	"github.com/kvsearch/ftidx/core/ftindex"
	"github.com/stretchr/testify/assert"
)

func TestTagSplitsOnSeparatorAndNormalizes(t *testing.T) {
	fs := &ftindex.FieldSpec{Name: "tags", TagSep: ','}
	tags := Tag(fs, "Red, Blue ,GREEN", nil)
	assert.Equal(t, []string{"red", "blue", "green"}, tags)
}

func TestTagSortableWritesRawText(t *testing.T) {
	fs := &ftindex.FieldSpec{Name: "tags", TagSep: ',', Options: ftindex.OptSortable, SortIdx: 0}
	sv := ftindex.NewSortingVector(1)

	Tag(fs, "Red,Blue", sv)

	got, ok := sv.Get(0)
	assert.True(t, ok)
	assert.Equal(t, "Red,Blue", string(got.Str))
}

func TestTagDropsEmptyEntries(t *testing.T) {
	fs := &ftindex.FieldSpec{Name: "tags", TagSep: ','}
	tags := Tag(fs, "red,,blue,", nil)
	assert.Equal(t, []string{"red", "blue"}, tags)
}
