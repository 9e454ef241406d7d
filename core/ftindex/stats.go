package ftindex

import "sync/atomic"

// Stats holds the mutable counters a spec tracks across ingest and GC.
// All fields are accessed through atomics so ingest workers and the GC's
// own goroutine can update them without the spec-level writer lock.
type Stats struct {
	numRecords     atomic.Int64
	invertedSize   atomic.Int64
	totalCollected atomic.Int64

	numCycles       atomic.Int64
	effectiveCycles atomic.Int64
}

// NewStats returns a zeroed Stats block.
func NewStats() *Stats { return &Stats{} }

func (s *Stats) AddRecords(delta int64)   { s.numRecords.Add(delta) }
func (s *Stats) AddInvertedSize(delta int64) { s.invertedSize.Add(delta) }
func (s *Stats) AddCollected(delta int64) { s.totalCollected.Add(delta) }

func (s *Stats) NumRecords() int64     { return s.numRecords.Load() }
func (s *Stats) InvertedSize() int64   { return s.invertedSize.Load() }
func (s *Stats) TotalCollected() int64 { return s.totalCollected.Load() }

// GCSnapshot is the info-command surface: current_hz, bytes_collected,
// effective_cycles_rate.
type GCSnapshot struct {
	CurrentHz           float64 `json:"current_hz"`
	BytesCollected      int64   `json:"bytes_collected"`
	EffectiveCyclesRate float64 `json:"effective_cycles_rate"`
}

// RecordCycle increments the cycle counter, and the effective-cycle
// counter when the pass actually removed records (effective_cycles_rate
// is effectiveCycles / max(numCycles,1)).
func (s *Stats) RecordCycle(effective bool) {
	s.numCycles.Add(1)
	if effective {
		s.effectiveCycles.Add(1)
	}
}

// Snapshot reads the GC-facing stats surface at a point in time.
func (s *Stats) Snapshot(currentHz float64) GCSnapshot {
	cycles := s.numCycles.Load()
	if cycles == 0 {
		cycles = 1
	}
	return GCSnapshot{
		CurrentHz:           currentHz,
		BytesCollected:      s.totalCollected.Load(),
		EffectiveCyclesRate: float64(s.effectiveCycles.Load()) / float64(cycles),
	}
}
