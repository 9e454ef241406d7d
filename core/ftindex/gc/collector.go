// Package gc implements the background collector that repairs posting
// lists once their documents have been deleted: term, numeric-leaf, and
// tag-value inverted indexes are compacted in place by dropping entries
// whose docId is no longer present in the metadata store, on a schedule
// that speeds up while it keeps finding garbage and decays back down
// when it doesn't.
package gc

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/kvsearch/ftidx/core/ftindex"
	"github.com/kvsearch/ftidx/core/ftindex/ingest"
	"github.com/kvsearch/ftidx/core/ftindex/invert"
)

// ErrSpecGone is returned by a pass that discovers its target spec has
// been dropped and recreated (or never existed) under its key name.
var ErrSpecGone = errors.New("gc: index spec is gone or was recreated")

// Status mirrors the collector's view of its own target spec.
type Status int

const (
	StatusOK Status = iota
	StatusInvalid
)

// SpecResolver re-resolves a spec by its host key name on every pass,
// rather than the collector holding a direct pointer, so a dropped and
// recreated spec is detected instead of silently reused: the collector
// holds a stable specKeyName + uniqueId and re-resolves through the host
// on every pass.
type SpecResolver func(name string) (*ftindex.IndexSpec, bool)

// repairable is satisfied by both *invert.InvertedIndex and
// *invert.NumericRange, letting the shared block-repair loop drive
// either one without caring which: the same repair pass is shared across
// the term, numeric, and tag paths.
type repairable interface {
	Repair(fromBlock, limit int, live *roaring.Bitmap) invert.RepairResult
}

// GarbageCollector runs one target spec's periodic repair pass. Create
// one per spec; Run drives it on its own goroutine until ctx is
// cancelled or the spec is found to be gone.
type GarbageCollector struct {
	host        ingest.Host
	resolve     SpecResolver
	specKeyName string
	specUniqueID uint64
	cfg         ftindex.Config

	hz                 float64
	rdbPossiblyLoading bool
	status             Status

	rng *rand.Rand

	numericGCs        map[string]*NumericFieldGC
	numericFieldCount int
}

// NewGarbageCollector returns a collector bound to one spec, identified
// by its host key name and the uniqueId captured at construction time.
func NewGarbageCollector(host ingest.Host, resolve SpecResolver, specKeyName string, specUniqueID uint64, cfg ftindex.Config) *GarbageCollector {
	return &GarbageCollector{
		host:               host,
		resolve:            resolve,
		specKeyName:        specKeyName,
		specUniqueID:       specUniqueID,
		cfg:                cfg,
		hz:                 cfg.GCInitialHz,
		rdbPossiblyLoading: true,
		rng:                rand.New(rand.NewSource(time.Now().UnixNano())),
		numericGCs:         make(map[string]*NumericFieldGC),
	}
}

// Hz returns the collector's current scan frequency.
func (gc *GarbageCollector) Hz() float64 { return gc.hz }

// Status reports whether the last pass found its target spec intact.
func (gc *GarbageCollector) Status() Status { return gc.status }

// NotifyDelete is an external-delete hint: it bumps hz toward GCMaxHz
// immediately, instead of waiting for the next pass's adaptive-rate
// update to notice.
func (gc *GarbageCollector) NotifyDelete() {
	gc.hz = math.Min(gc.hz*1.5, gc.cfg.GCMaxHz)
}

// Snapshot resolves the target spec and returns its GC stats surface, or
// false if the spec is gone.
func (gc *GarbageCollector) Snapshot() (ftindex.GCSnapshot, bool) {
	spec, ok := gc.resolve(gc.specKeyName)
	if !ok || spec.UniqueID != gc.specUniqueID {
		return ftindex.GCSnapshot{}, false
	}
	return spec.Stats.Snapshot(gc.hz), true
}

// Run sleeps for 1/hz between passes until ctx is cancelled or a pass
// reports the spec is gone, at which point it stops rather than spin
// forever against a target that no longer exists.
func (gc *GarbageCollector) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(gc.sleepDuration()):
		}

		if _, err := gc.RunOnce(ctx); err != nil {
			gc.host.Log("warn", "gc pass stopped", "specKeyName", gc.specKeyName, "err", err.Error())
			return
		}
	}
}

func (gc *GarbageCollector) sleepDuration() time.Duration {
	hz := gc.hz
	if hz <= 0 {
		hz = gc.cfg.GCMinHz
	}
	return time.Duration(float64(time.Second) / hz)
}

// RunOnce executes a single periodic collection pass: the RDB-loading
// guard, the host lock, term/numeric/tag collection in sequence, and the
// adaptive-rate update. It returns whether the pass removed any record,
// and a non-nil error only when the spec has gone away under it.
func (gc *GarbageCollector) RunOnce(ctx context.Context) (bool, error) {
	if gc.rdbPossiblyLoading {
		if gc.host.IsLoadingSnapshot() {
			return false, nil
		}
		gc.rdbPossiblyLoading = false
	}

	gc.host.LockCtx()
	defer gc.host.UnlockCtx()

	spec, ok := gc.resolve(gc.specKeyName)
	if !ok || spec.UniqueID != gc.specUniqueID {
		gc.status = StatusInvalid
		return false, ErrSpecGone
	}
	gc.status = StatusOK

	totalRemoved := 0

	docs, aborted := gc.collectRandomTerm(ctx, spec)
	totalRemoved += docs
	if aborted {
		gc.status = StatusInvalid
		return false, ErrSpecGone
	}

	docs, aborted = gc.collectNumericIndex(ctx, spec)
	totalRemoved += docs
	if aborted {
		gc.status = StatusInvalid
		return false, ErrSpecGone
	}

	docs, aborted = gc.collectTagIndex(ctx, spec)
	totalRemoved += docs
	if aborted {
		gc.status = StatusInvalid
		return false, ErrSpecGone
	}

	effective := totalRemoved > 0
	spec.Stats.RecordCycle(effective)
	gc.adjustHz(effective)
	return effective, nil
}

func (gc *GarbageCollector) adjustHz(effective bool) {
	if effective {
		gc.hz = math.Min(gc.hz*1.2, gc.cfg.GCMaxHz)
	} else {
		gc.hz = math.Max(gc.hz*0.99, gc.cfg.GCMinHz)
	}
}

// collectRandomTerm implements collectRandomTerm: pick a weighted random
// term, then run the shared block-repair loop over its posting list.
func (gc *GarbageCollector) collectRandomTerm(ctx context.Context, spec *ftindex.IndexSpec) (int, bool) {
	term, ok := spec.Terms.RandomTerm(gc.cfg.WeightedTermTrials, gc.rng)
	if !ok {
		return 0, false
	}

	get := func() (repairable, bool) {
		return spec.Terms.Get(term)
	}
	docs, _, aborted := gc.blockRepair(ctx, spec, "term:"+term, get)
	return docs, aborted
}

// collectTagIndex implements the tag GC path: pick a random tag field,
// then a random value within it, then repair that value's posting list.
// Between yields the value is re-resolved by key; if it is gone, the
// repair loop simply finds no index and stops.
func (gc *GarbageCollector) collectTagIndex(ctx context.Context, spec *ftindex.IndexSpec) (int, bool) {
	fields := spec.TagFields()
	if len(fields) == 0 {
		return 0, false
	}
	fs := fields[gc.rng.Intn(len(fields))]

	tagIdx, ok := spec.Tags.Get(fs.Name)
	if !ok {
		return 0, false
	}
	value, ok := tagIdx.RandomKey()
	if !ok {
		return 0, false
	}

	get := func() (repairable, bool) {
		ti, ok := spec.Tags.Get(fs.Name)
		if !ok {
			return nil, false
		}
		return ti.Get(value)
	}
	docs, _, aborted := gc.blockRepair(ctx, spec, "tag:"+fs.Name+":"+value, get)
	return docs, aborted
}

// blockRepair drives the loop shared by every GC path: open the target
// key, repair up to GCScanSize blocks against the
// metadata store's current live-id set, update stats, yield by closing
// the key and refreshing the host context, and stop once the repair
// reports it reached the end or the target spec's uniqueId no longer
// matches what this collector captured at construction.
func (gc *GarbageCollector) blockRepair(ctx context.Context, spec *ftindex.IndexSpec, keyName string, get func() (repairable, bool)) (docsCollected, bytesCollected int, aborted bool) {
	fromBlock := 0
	for {
		select {
		case <-ctx.Done():
			return docsCollected, bytesCollected, false
		default:
		}

		idx, ok := get()
		if !ok {
			return docsCollected, bytesCollected, false
		}

		key, err := gc.host.OpenKey(ctx, keyName)
		if err != nil {
			gc.host.Log("warn", "gc: could not open index key", "key", keyName, "err", err.Error())
			return docsCollected, bytesCollected, false
		}

		live := spec.Meta.LiveBitmap()
		res := idx.Repair(fromBlock, gc.cfg.GCScanSize, live)
		gc.host.CloseKey(key)

		docsCollected += res.DocsCollected
		bytesCollected += res.BytesCollected
		if res.DocsCollected > 0 || res.BytesCollected > 0 {
			spec.Stats.AddRecords(-int64(res.DocsCollected))
			spec.Stats.AddInvertedSize(-int64(res.BytesCollected))
			spec.Stats.AddCollected(int64(res.BytesCollected))
		}

		if res.NextBlock < 0 {
			return docsCollected, bytesCollected, false
		}
		fromBlock = res.NextBlock

		gc.host.RefreshCtx()
		if spec.UniqueID != gc.specUniqueID {
			return docsCollected, bytesCollected, true
		}

		if gc.cfg.GCYieldPause > 0 {
			time.Sleep(gc.cfg.GCYieldPause)
		}
	}
}
