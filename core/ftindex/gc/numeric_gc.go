package gc

import (
	"context"
	"strconv"

	"github.com/kvsearch/ftidx/core/ftindex"
	"github.com/kvsearch/ftidx/core/ftindex/invert"
)

// NumericFieldGC is the per-field cursor state the numeric GC path keeps
// across passes: the tree pointer and revisionId captured when the cursor
// was last built, plus a leaf-walk position. A mismatch
// on either the pointer or the revisionId means the tree was replaced or
// restructured since the last pass, so the cursor is rebuilt from leaf 0
// rather than dereferencing stale leaf indices into the new tree.
type NumericFieldGC struct {
	field      string
	tree       *invert.NumericRangeTree
	revisionID uint64
	leafIdx    int
}

// collectNumericIndex implements the numeric GC path: a random numeric
// field is picked each pass, its per-field cursor is rebuilt if the tree
// underneath it changed, and the cursor's current leaf is run through
// the shared block-repair loop.
//
// Removing a numeric field is enforced as a hard assertion, not a
// recoverable error: a spec that has fewer numeric fields than this
// collector last observed
// indicates a caller violated the no-shrink invariant the collector
// relies on to keep its cursor map valid, which this codebase treats the
// same way it treats any other broken invariant.
func (gc *GarbageCollector) collectNumericIndex(ctx context.Context, spec *ftindex.IndexSpec) (int, bool) {
	fields := spec.NumericFields()
	if len(fields) == 0 {
		return 0, false
	}
	if gc.numericFieldCount > 0 && len(fields) < gc.numericFieldCount {
		panic("gc: numeric field count decreased; field removal is not supported")
	}
	gc.numericFieldCount = len(fields)

	fs := fields[gc.rng.Intn(len(fields))]
	tree, ok := spec.Numeric.Get(fs.Name)
	if !ok {
		return 0, false
	}

	state, exists := gc.numericGCs[fs.Name]
	if !exists || state.tree != tree || state.revisionID != tree.RevisionID {
		state = &NumericFieldGC{field: fs.Name, tree: tree, revisionID: tree.RevisionID, leafIdx: 0}
		gc.numericGCs[fs.Name] = state
	}

	leaves := tree.Leaves()
	leaf, idx, ok := nextLeaf(state, leaves)
	if !ok {
		return 0, false
	}

	get := func() (repairable, bool) { return leaf, true }
	docs, _, aborted := gc.blockRepair(ctx, spec, "numeric:"+fs.Name+":leaf"+strconv.Itoa(idx), get)
	state.leafIdx = idx + 1
	return docs, aborted
}

// nextLeaf advances a numeric cursor to the leaf it should repair this
// pass, wrapping back to the root exactly once if the previous position
// ran off the end of the (possibly shrunk, possibly grown) leaf slice. If
// the wrapped attempt also finds nothing - only possible when the tree
// has no leaves at all - it reports failure rather than looping forever.
func nextLeaf(state *NumericFieldGC, leaves []*invert.NumericRange) (*invert.NumericRange, int, bool) {
	if len(leaves) == 0 {
		return nil, 0, false
	}
	if state.leafIdx >= len(leaves) {
		state.leafIdx = 0
	}
	if state.leafIdx >= len(leaves) {
		return nil, 0, false
	}
	return leaves[state.leafIdx], state.leafIdx, true
}
