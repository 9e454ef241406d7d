package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/kvsearch/ftidx/core/ftindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineSubmitInlineForSmallDocument(t *testing.T) {
	spec := newTestSpec(t)
	cfg := ftindex.DefaultConfig()
	host := &fakeHost{}
	p := NewPipeline(spec, cfg, host)
	defer p.Close()

	doc := ftindex.Document{
		Key:    "d1",
		Fields: []ftindex.Field{{Name: "title", Text: "widget"}},
	}
	err := p.Submit(context.Background(), doc, Options{})
	require.NoError(t, err)

	idx, ok := spec.Terms.Get("widget")
	require.True(t, ok)
	assert.Equal(t, 1, idx.NumDocs)

	submitted, completed, _ := p.Pool.Stats()
	assert.Zero(t, submitted)
	assert.Zero(t, completed)
}

func TestPipelineSubmitOffloadsLargeDocument(t *testing.T) {
	spec := newTestSpec(t)
	cfg := ftindex.DefaultConfig()
	cfg.SelfExecThreshold = 8
	host := &fakeHost{}
	p := NewPipeline(spec, cfg, host)
	defer p.Close()

	doc := ftindex.Document{
		Key:    "d1",
		Fields: []ftindex.Field{{Name: "title", Text: strings.Repeat("widget ", 10)}},
	}
	err := p.Submit(context.Background(), doc, Options{})
	require.NoError(t, err)

	submitted, completed, failed := p.Pool.Stats()
	assert.EqualValues(t, 1, submitted)
	assert.EqualValues(t, 1, completed)
	assert.Zero(t, failed)

	idx, ok := spec.Terms.Get("widget")
	require.True(t, ok)
	assert.Equal(t, 1, idx.NumDocs)
}

func TestPipelineSubmitIgnoresNonTextFieldSizeForOffloadDecision(t *testing.T) {
	spec := newTestSpec(t)
	cfg := ftindex.DefaultConfig()
	// The NUMERIC field's 20-byte text is well over this threshold, but it
	// must not count toward totalSize at all: a prior bug counted any
	// field with an unresolved IndexAs (the common case) regardless of its
	// actual declared type, which would have offloaded this document.
	cfg.SelfExecThreshold = 8
	host := &fakeHost{}
	p := NewPipeline(spec, cfg, host)
	defer p.Close()

	doc := ftindex.Document{
		Key:    "d1",
		Fields: []ftindex.Field{{Name: "price", Text: strings.Repeat("9", 20)}},
	}
	err := p.Submit(context.Background(), doc, Options{})
	require.NoError(t, err)

	submitted, completed, _ := p.Pool.Stats()
	assert.Zero(t, submitted)
	assert.Zero(t, completed)
}

func TestPipelineSubmitSkipsEmptyDocument(t *testing.T) {
	spec := newTestSpec(t)
	cfg := ftindex.DefaultConfig()
	host := &fakeHost{}
	p := NewPipeline(spec, cfg, host)
	defer p.Close()

	err := p.Submit(context.Background(), ftindex.Document{Key: "d1"}, Options{})
	require.NoError(t, err)

	_, ok := spec.Meta.ResolveKey("d1")
	assert.False(t, ok)
}

func TestPipelineSubmitPartialUpdatesMetadataOnly(t *testing.T) {
	spec := newTestSpec(t)
	cfg := ftindex.DefaultConfig()
	host := &fakeHost{}
	p := NewPipeline(spec, cfg, host)
	defer p.Close()

	doc := ftindex.Document{
		Key:    "d1",
		Fields: []ftindex.Field{{Name: "title", Text: "widget"}, {Name: "price", Text: "9.99"}},
	}
	require.NoError(t, p.Submit(context.Background(), doc, Options{}))

	id, ok := spec.Meta.ResolveKey("d1")
	require.True(t, ok)

	// No fields at all: a PARTIAL naming any schema field (even a
	// NUMERIC one) is indexable and degrades to a full reindex instead.
	partial := ftindex.Document{
		Key:   "d1",
		Score: 0.5,
	}
	require.NoError(t, p.Submit(context.Background(), partial, Options{Partial: true}))

	sameID, ok := spec.Meta.ResolveKey("d1")
	require.True(t, ok)
	assert.Equal(t, id, sameID, "metadata-only PARTIAL must not reassign a docId")

	md := spec.Meta.GetByID(sameID)
	require.NotNil(t, md)
	assert.Equal(t, 0.5, md.Score)
}

func TestPipelineSubmitPartialWithIndexableFieldDegradesToReindex(t *testing.T) {
	spec := newTestSpec(t)
	cfg := ftindex.DefaultConfig()
	host := &fakeHost{}
	p := NewPipeline(spec, cfg, host)
	defer p.Close()

	doc := ftindex.Document{
		Key:    "d1",
		Fields: []ftindex.Field{{Name: "title", Text: "widget"}},
	}
	require.NoError(t, p.Submit(context.Background(), doc, Options{}))
	oldID, ok := spec.Meta.ResolveKey("d1")
	require.True(t, ok)

	reindex := ftindex.Document{
		Key:    "d1",
		Fields: []ftindex.Field{{Name: "title", Text: "gadget"}},
	}
	require.NoError(t, p.Submit(context.Background(), reindex, Options{Partial: true}))

	newID, ok := spec.Meta.ResolveKey("d1")
	require.True(t, ok)
	assert.NotEqual(t, oldID, newID, "PARTIAL with an indexable field must reindex under a fresh docId")

	idx, ok := spec.Terms.Get("gadget")
	require.True(t, ok)
	assert.Equal(t, 1, idx.NumDocs)
}

func TestPipelineDeleteRemovesMetadata(t *testing.T) {
	spec := newTestSpec(t)
	cfg := ftindex.DefaultConfig()
	host := &fakeHost{}
	p := NewPipeline(spec, cfg, host)
	defer p.Close()

	doc := ftindex.Document{Key: "d1", Fields: []ftindex.Field{{Name: "title", Text: "widget"}}}
	require.NoError(t, p.Submit(context.Background(), doc, Options{}))

	require.NoError(t, p.Delete("d1"))
	_, ok := spec.Meta.ResolveKey("d1")
	assert.False(t, ok)
}

func TestPipelineDeleteFailsForUnknownKey(t *testing.T) {
	spec := newTestSpec(t)
	cfg := ftindex.DefaultConfig()
	host := &fakeHost{}
	p := NewPipeline(spec, cfg, host)
	defer p.Close()

	err := p.Delete("missing")
	require.Error(t, err)
}
