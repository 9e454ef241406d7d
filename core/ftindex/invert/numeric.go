package invert

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

const numericSplitThreshold = 64

// NumericRange is one leaf of a NumericRangeTree: it owns the postings for
// every document whose value falls in [Min, Max).
type NumericRange struct {
	Min, Max float64
	Entries  *InvertedIndex
	values   map[uint64]float64
}

func newNumericRange(min, max float64, capacity int) *NumericRange {
	return &NumericRange{
		Min:     min,
		Max:     max,
		Entries: NewInvertedIndex(capacity),
		values:  make(map[uint64]float64),
	}
}

// NumericRangeTree partitions the real line into disjoint ranges, each
// holding the postings for documents whose numeric value falls inside it.
// It is represented as a sorted slice of leaves rather than a literal
// binary tree: lookups binary-search the leaf boundaries, which gives the
// same logarithmic split behavior without a separate node type. RevisionID
// is bumped every time a leaf splits; a NumericFieldGC caches a RevisionID
// alongside its captured tree and rebuilds rather than reuse it once the
// ids diverge.
type NumericRangeTree struct {
	leaves     []*NumericRange
	capacity   int
	RevisionID uint64
}

// NewNumericRangeTree returns a tree with a single leaf spanning the
// entire range, ready to accept Add calls.
func NewNumericRangeTree(blockCapacity int) *NumericRangeTree {
	return &NumericRangeTree{
		leaves:   []*NumericRange{newNumericRange(negInf, posInf, blockCapacity)},
		capacity: blockCapacity,
	}
}

const (
	negInf = -1e308
	posInf = 1e308
)

func (t *NumericRangeTree) leafFor(value float64) int {
	return sort.Search(len(t.leaves), func(i int) bool {
		return value < t.leaves[i].Max
	})
}

// Add inserts (docId, value), splitting the owning leaf and bumping
// RevisionID when it grows past the split threshold.
func (t *NumericRangeTree) Add(docID uint64, value float64) {
	i := t.leafFor(value)
	if i >= len(t.leaves) {
		i = len(t.leaves) - 1
	}
	leaf := t.leaves[i]
	leaf.Entries.Add(docID, nil)
	leaf.values[docID] = value

	if leaf.Entries.NumDocs > numericSplitThreshold {
		t.split(i)
	}
}

func (t *NumericRangeTree) split(i int) {
	leaf := t.leaves[i]
	vals := make([]float64, 0, len(leaf.values))
	for _, v := range leaf.values {
		vals = append(vals, v)
	}
	sort.Float64s(vals)
	mid := vals[len(vals)/2]
	if mid == leaf.Min || mid == leaf.Max {
		return
	}

	lo := newNumericRange(leaf.Min, mid, t.capacity)
	hi := newNumericRange(mid, leaf.Max, t.capacity)
	ids := make([]uint64, 0, len(leaf.values))
	for id := range leaf.values {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	for _, id := range ids {
		v := leaf.values[id]
		if v < mid {
			lo.Entries.Add(id, nil)
			lo.values[id] = v
		} else {
			hi.Entries.Add(id, nil)
			hi.values[id] = v
		}
	}

	t.leaves = append(t.leaves[:i], append([]*NumericRange{lo, hi}, t.leaves[i+1:]...)...)
	t.RevisionID++
}

// Repair delegates to the leaf's InvertedIndex and prunes the parallel
// value map for any docId the repair dropped, keeping value lookups and
// entries in sync.
func (r *NumericRange) Repair(fromBlock, limit int, live *roaring.Bitmap) RepairResult {
	res := r.Entries.Repair(fromBlock, limit, live)
	for id := range r.values {
		if !live.Contains(uint32(id)) {
			delete(r.values, id)
		}
	}
	return res
}

// Leaves returns the current leaf partition, used by the numeric GC to
// walk the ranges one leaf per collection pass.
func (t *NumericRangeTree) Leaves() []*NumericRange { return t.leaves }

// RangeAt returns the leaf covering value, for query-path lookups.
func (t *NumericRangeTree) RangeAt(value float64) *NumericRange {
	i := t.leafFor(value)
	if i >= len(t.leaves) {
		i = len(t.leaves) - 1
	}
	return t.leaves[i]
}

// NumericForest is the per-field table of NumericRangeTrees for a spec's
// declared NUMERIC fields.
type NumericForest struct {
	trees map[string]*NumericRangeTree
}

// NewNumericForest returns an empty forest.
func NewNumericForest() *NumericForest {
	return &NumericForest{trees: make(map[string]*NumericRangeTree)}
}

// GetOrCreate returns the tree for field, creating one with the given
// block capacity on first use.
func (f *NumericForest) GetOrCreate(field string, capacity int) *NumericRangeTree {
	t, ok := f.trees[field]
	if !ok {
		t = NewNumericRangeTree(capacity)
		f.trees[field] = t
	}
	return t
}

// Get returns the tree for field without creating it.
func (f *NumericForest) Get(field string) (*NumericRangeTree, bool) {
	t, ok := f.trees[field]
	return t, ok
}

// Fields returns the names of every field with a tree.
func (f *NumericForest) Fields() []string {
	out := make([]string, 0, len(f.trees))
	for k := range f.trees {
		out = append(out, k)
	}
	return out
}
