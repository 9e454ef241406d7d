package preprocess

import (
	"testing"

	"github.com/kvsearch/ftidx/core/ftindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFulltextTokenizesIntoForwardIndex(t *testing.T) {
	fs := &ftindex.FieldSpec{Name: "title", FtID: 0, FtWeight: 1.0, Options: ftindex.OptSortable, SortIdx: 0}
	fwd := ftindex.NewForwardIndex()
	sv := ftindex.NewSortingVector(1)

	next, err := Fulltext(fs, "Hello World", fwd, sv, 0)
	require.NoError(t, err)
	assert.Greater(t, next, 0)
	assert.False(t, fwd.Empty())

	got, ok := sv.Get(0)
	require.True(t, ok)
	assert.Equal(t, "Hello World", string(got.Str))
}

func TestFulltextAdvancesOffsetAcrossFields(t *testing.T) {
	title := &ftindex.FieldSpec{Name: "title", FtID: 0}
	body := &ftindex.FieldSpec{Name: "body", FtID: 1}
	fwd := ftindex.NewForwardIndex()

	afterTitle, err := Fulltext(title, "quick brown fox", fwd, nil, 0)
	require.NoError(t, err)
	require.Greater(t, afterTitle, 0)

	afterBody, err := Fulltext(body, "lazy dog", fwd, nil, afterTitle)
	require.NoError(t, err)
	assert.Greater(t, afterBody, afterTitle)
}
