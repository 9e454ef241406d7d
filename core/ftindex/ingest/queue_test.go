package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/kvsearch/ftidx/core/ftindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexerQueueAssignsMonotonicDocIDs(t *testing.T) {
	spec := newTestSpec(t)
	cfg := ftindex.DefaultConfig()
	queue := NewIndexerQueue(spec, cfg, nil, 16)
	defer queue.Close()

	var prev uint64
	for i := 0; i < 5; i++ {
		ctx := NewAddDocumentContext()
		doc := ftindex.Document{Key: "doc", Fields: []ftindex.Field{{Name: "title", Text: "hello world"}}}
		require.NoError(t, SetDocument(ctx, spec, doc, Options{}))
		require.NoError(t, ctx.runPreprocessors())

		err := queue.SubmitSync(context.Background(), ctx)
		require.NoError(t, err)
		assert.Greater(t, ctx.Doc.ID, prev)
		prev = ctx.Doc.ID
	}

	stats := queue.Stats()
	assert.EqualValues(t, 5, stats.Merged)
}

func TestIndexerQueueMergesForwardIndexIntoTerms(t *testing.T) {
	spec := newTestSpec(t)
	cfg := ftindex.DefaultConfig()
	queue := NewIndexerQueue(spec, cfg, nil, 16)
	defer queue.Close()

	ctx := NewAddDocumentContext()
	doc := ftindex.Document{Key: "doc1", Fields: []ftindex.Field{{Name: "title", Text: "widget gadget"}}}
	require.NoError(t, SetDocument(ctx, spec, doc, Options{}))
	require.NoError(t, ctx.runPreprocessors())
	require.NoError(t, queue.SubmitSync(context.Background(), ctx))

	idx, ok := spec.Terms.Get("widget")
	require.True(t, ok)
	assert.Equal(t, 1, idx.NumDocs)
}

func TestIndexerQueueRejectsAfterClose(t *testing.T) {
	spec := newTestSpec(t)
	cfg := ftindex.DefaultConfig()
	queue := NewIndexerQueue(spec, cfg, nil, 16)
	queue.Close()

	ctx := NewAddDocumentContext()
	err := queue.SubmitSync(context.Background(), ctx)
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestIndexerQueueSubmitSyncRespectsContextCancel(t *testing.T) {
	spec := newTestSpec(t)
	cfg := ftindex.DefaultConfig()
	queue := NewIndexerQueue(spec, cfg, nil, 16)
	defer queue.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	time.Sleep(time.Millisecond)

	actx := NewAddDocumentContext()
	err := queue.SubmitSync(ctx, actx)
	assert.Error(t, err)
}
