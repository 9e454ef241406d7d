package gc

import (
	"context"
	"fmt"
	"testing"

	"github.com/kvsearch/ftidx/core/ftindex"
	"github.com/kvsearch/ftidx/core/ftindex/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct{}

func (h *fakeHost) BlockClient(ctx context.Context) (any, bool)          { return "token", true }
func (h *fakeHost) UnblockClient(token any, err error)                  {}
func (h *fakeHost) OpenKey(ctx context.Context, name string) (any, error) { return name, nil }
func (h *fakeHost) CloseKey(key any)                                    {}
func (h *fakeHost) Log(level, msg string, kv ...any)                    {}
func (h *fakeHost) IsLoadingSnapshot() bool                             { return false }
func (h *fakeHost) LockCtx()                                            {}
func (h *fakeHost) UnlockCtx()                                          {}
func (h *fakeHost) RefreshCtx()                                         {}

func newTermSpec(t *testing.T) *ftindex.IndexSpec {
	t.Helper()
	spec := ftindex.NewIndexSpec("idx")
	require.NoError(t, spec.AddField(&ftindex.FieldSpec{Name: "title", Types: ftindex.FieldFullText}))
	return spec
}

func ingestTermDocs(t *testing.T, p *ingest.Pipeline, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		doc := ftindex.Document{
			Key:    fmt.Sprintf("d%d", i),
			Fields: []ftindex.Field{{Name: "title", Text: "widget"}},
		}
		require.NoError(t, p.Submit(context.Background(), doc, ingest.Options{}))
	}
}

func TestCollectRandomTermRepairsDeadPostings(t *testing.T) {
	spec := newTermSpec(t)
	cfg := ftindex.DefaultConfig()
	host := &fakeHost{}
	p := ingest.NewPipeline(spec, cfg, host)
	defer p.Close()

	ingestTermDocs(t, p, 10)
	for i := 1; i <= 5; i++ {
		require.NoError(t, p.Delete(fmt.Sprintf("d%d", i)))
	}

	idx, ok := spec.Terms.Get("widget")
	require.True(t, ok)
	assert.Equal(t, 10, idx.NumDocs)

	resolve := func(name string) (*ftindex.IndexSpec, bool) { return spec, true }
	g := NewGarbageCollector(host, resolve, "idx", spec.UniqueID, cfg)

	removed, err := g.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, removed)

	idx, ok = spec.Terms.Get("widget")
	require.True(t, ok)
	assert.Equal(t, 5, idx.NumDocs)

	assert.InDelta(t, 1.2, g.Hz(), 1e-9)
	assert.Greater(t, spec.Stats.TotalCollected(), int64(0))
}

func TestRunOnceDecaysHzWhenNothingRemoved(t *testing.T) {
	spec := newTermSpec(t)
	cfg := ftindex.DefaultConfig()
	host := &fakeHost{}
	p := ingest.NewPipeline(spec, cfg, host)
	defer p.Close()

	ingestTermDocs(t, p, 3)

	resolve := func(name string) (*ftindex.IndexSpec, bool) { return spec, true }
	g := NewGarbageCollector(host, resolve, "idx", spec.UniqueID, cfg)

	removed, err := g.RunOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, removed)
	assert.InDelta(t, 0.99, g.Hz(), 1e-9)
}

func TestRunOnceDetectsSpecGone(t *testing.T) {
	spec := newTermSpec(t)
	cfg := ftindex.DefaultConfig()
	host := &fakeHost{}

	resolve := func(name string) (*ftindex.IndexSpec, bool) { return spec, true }
	g := NewGarbageCollector(host, resolve, "idx", spec.UniqueID+1, cfg)

	removed, err := g.RunOnce(context.Background())
	assert.ErrorIs(t, err, ErrSpecGone)
	assert.False(t, removed)
	assert.Equal(t, StatusInvalid, g.Status())
}

func TestCollectNumericIndexCursorCapturesSplitTreeRevision(t *testing.T) {
	spec := ftindex.NewIndexSpec("idx")
	require.NoError(t, spec.AddField(&ftindex.FieldSpec{Name: "price", Types: ftindex.FieldNumeric}))
	cfg := ftindex.DefaultConfig()
	host := &fakeHost{}
	p := ingest.NewPipeline(spec, cfg, host)
	defer p.Close()

	for i := 1; i <= 200; i++ {
		doc := ftindex.Document{
			Key:    fmt.Sprintf("d%d", i),
			Fields: []ftindex.Field{{Name: "price", Text: fmt.Sprintf("%d.0", i)}},
		}
		require.NoError(t, p.Submit(context.Background(), doc, ingest.Options{}))
	}

	tree, ok := spec.Numeric.Get("price")
	require.True(t, ok)
	require.Greater(t, tree.RevisionID, uint64(0), "200 distinct values must have forced at least one split")

	resolve := func(name string) (*ftindex.IndexSpec, bool) { return spec, true }
	g := NewGarbageCollector(host, resolve, "idx", spec.UniqueID, cfg)

	docs, aborted := g.collectNumericIndex(context.Background(), spec)
	assert.False(t, aborted)
	assert.GreaterOrEqual(t, docs, 0)

	state, ok := g.numericGCs["price"]
	require.True(t, ok)
	assert.Equal(t, tree.RevisionID, state.revisionID)
	assert.Same(t, tree, state.tree)

	docs2, aborted2 := g.collectNumericIndex(context.Background(), spec)
	assert.False(t, aborted2)
	assert.GreaterOrEqual(t, docs2, 0)
}

func TestCollectTagIndexRepairsDeadPostings(t *testing.T) {
	spec := ftindex.NewIndexSpec("idx")
	require.NoError(t, spec.AddField(&ftindex.FieldSpec{Name: "tags", Types: ftindex.FieldTag, TagSep: ','}))
	cfg := ftindex.DefaultConfig()
	host := &fakeHost{}
	p := ingest.NewPipeline(spec, cfg, host)
	defer p.Close()

	for i := 1; i <= 6; i++ {
		doc := ftindex.Document{
			Key:    fmt.Sprintf("d%d", i),
			Fields: []ftindex.Field{{Name: "tags", Text: "red"}},
		}
		require.NoError(t, p.Submit(context.Background(), doc, ingest.Options{}))
	}
	for i := 1; i <= 3; i++ {
		require.NoError(t, p.Delete(fmt.Sprintf("d%d", i)))
	}

	resolve := func(name string) (*ftindex.IndexSpec, bool) { return spec, true }
	g := NewGarbageCollector(host, resolve, "idx", spec.UniqueID, cfg)

	docs, aborted := g.collectTagIndex(context.Background(), spec)
	assert.False(t, aborted)
	assert.Equal(t, 3, docs)

	tagIdx, ok := spec.Tags.Get("tags")
	require.True(t, ok)
	idx, ok := tagIdx.Get("red")
	require.True(t, ok)
	assert.Equal(t, 3, idx.NumDocs)
}

func TestNotifyDeleteBumpsHzImmediately(t *testing.T) {
	spec := newTermSpec(t)
	cfg := ftindex.DefaultConfig()
	host := &fakeHost{}
	resolve := func(name string) (*ftindex.IndexSpec, bool) { return spec, true }
	g := NewGarbageCollector(host, resolve, "idx", spec.UniqueID, cfg)

	g.NotifyDelete()
	assert.InDelta(t, 1.5, g.Hz(), 1e-9)
}
