package ftindex

import "time"

// Config is the immutable tunable set threaded through every constructor
// in this module, replacing the source engine's global RSGlobalConfig
// with an explicit value built once by the host/CLI.
type Config struct {
	// GCScanSize is the number of blocks repaired per GC batch.
	GCScanSize int

	// GCMinHz / GCMaxHz bound the GC's adaptive scan frequency.
	GCMinHz float64
	GCMaxHz float64

	// GCInitialHz is the frequency a new GarbageCollector starts at.
	GCInitialHz float64

	// SelfExecThreshold is the total fulltext/tag byte size above which
	// an offloadable ingest dispatches to the worker pool instead of
	// running inline.
	SelfExecThreshold int

	// NumericGCInitialArraySize sizes a fresh NumericFieldGC array.
	NumericGCInitialArraySize int

	// WeightedTermTrials is passed by collectRandomTerm to
	// InvertedText.RandomTerm, which makes a single weighted draw and
	// does not use it as a sample count.
	WeightedTermTrials int

	// WorkerPoolSize bounds concurrent ingest-preprocessing goroutines.
	WorkerPoolSize int

	// BlockCapacity bounds the number of postings a single inverted
	// index block holds before a new block is allocated.
	BlockCapacity int

	// GCYieldPause is an optional sleep between repair batches, giving
	// writers a scheduling window beyond the lock release itself.
	GCYieldPause time.Duration
}

// DefaultConfig returns a reasonable set of ingest and GC tunables.
func DefaultConfig() Config {
	return Config{
		GCScanSize:                100,
		GCMinHz:                   1.0 / 500,
		GCMaxHz:                   100,
		GCInitialHz:               1,
		SelfExecThreshold:         1024,
		NumericGCInitialArraySize: 4,
		WeightedTermTrials:        20,
		WorkerPoolSize:            4,
		BlockCapacity:             100,
	}
}

// Trie encoding versions for the autocomplete/spell-check structure this
// core does not own but whose stable version numbers are part of its save
// contract.
const (
	TrieEncVerNoPayloads = 0
	TrieEncVerCurrent    = 1
)
