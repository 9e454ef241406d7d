package ingest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kvsearch/ftidx/core/ftindex"
)

var (
	// ErrQueueClosed is returned by Submit/SubmitSync once Close has run.
	ErrQueueClosed = errors.New("indexer queue is closed")
)

// MergeJob is one prepared document waiting for the single merge
// goroutine to fold its forward index into the spec's posting lists.
type MergeJob struct {
	Ctx  *AddDocumentContext
	done chan error
}

// QueueStats mirrors the counters an operator would want to observe.
type QueueStats struct {
	Enqueued int64
	Merged   int64
	Failed   int64
}

// IndexerQueue is the single-consumer merge point for this core:
// multiple worker goroutines may run preprocessors concurrently (see
// WorkerPool), but only this queue's own goroutine ever assigns docIds or
// appends to inverted-index blocks, so posting-list growth is totally
// ordered. Grounded on this codebase's async batching queue pattern
// (single processor goroutine draining a buffered channel with a
// close/drain handshake), simplified to a non-batched per-document merge
// since the inverted-index append itself is already O(1) amortized.
type IndexerQueue struct {
	jobs chan *MergeJob
	bulk *BulkIndexer

	closeMu sync.RWMutex
	closed  atomic.Bool
	wg      sync.WaitGroup

	enqueued atomic.Int64
	merged   atomic.Int64
	failed   atomic.Int64
}

// NewIndexerQueue starts the merge goroutine for spec, with a channel
// buffer of queueSize pending jobs. bulk commits each document's
// NUMERIC/GEO/TAG fields against the same docId the merge assigns, on the
// same consumer goroutine, so the commits of two documents never
// interleave. Within one document, metadata is published before the bulk
// commit runs, and no lock is held across the two.
func NewIndexerQueue(spec *ftindex.IndexSpec, cfg ftindex.Config, bulk *BulkIndexer, queueSize int) *IndexerQueue {
	if queueSize <= 0 {
		queueSize = 1024
	}
	q := &IndexerQueue{jobs: make(chan *MergeJob, queueSize), bulk: bulk}
	q.wg.Add(1)
	go q.consumer(spec, cfg)
	return q
}

// Submit enqueues ctx for merge and returns a channel that receives the
// merge outcome exactly once.
func (q *IndexerQueue) Submit(ctx *AddDocumentContext) <-chan error {
	job := &MergeJob{Ctx: ctx, done: make(chan error, 1)}

	q.closeMu.RLock()
	defer q.closeMu.RUnlock()
	if q.closed.Load() {
		job.done <- ErrQueueClosed
		return job.done
	}

	q.jobs <- job
	q.enqueued.Add(1)
	return job.done
}

// SubmitSync enqueues ctx and blocks for the merge result or ctx.Done.
func (q *IndexerQueue) SubmitSync(parent context.Context, ctx *AddDocumentContext) error {
	done := q.Submit(ctx)
	select {
	case err := <-done:
		return err
	case <-parent.Done():
		return parent.Err()
	}
}

// Close stops accepting new jobs and waits for the merge goroutine to
// drain every job already enqueued.
func (q *IndexerQueue) Close() {
	q.closeMu.Lock()
	if q.closed.Swap(true) {
		q.closeMu.Unlock()
		return
	}
	close(q.jobs)
	q.closeMu.Unlock()
	q.wg.Wait()
}

// Stats returns a snapshot of the queue's counters.
func (q *IndexerQueue) Stats() QueueStats {
	return QueueStats{
		Enqueued: q.enqueued.Load(),
		Merged:   q.merged.Load(),
		Failed:   q.failed.Load(),
	}
}

func (q *IndexerQueue) consumer(spec *ftindex.IndexSpec, cfg ftindex.Config) {
	defer q.wg.Done()
	for job := range q.jobs {
		err := q.merge(spec, cfg, job.Ctx)
		if err != nil {
			q.failed.Add(1)
		} else {
			q.merged.Add(1)
		}
		job.done <- err
	}
}

// merge assigns a monotonic docId, folds the forward index into the term
// table, publishes metadata, and then has the bulk indexer commit the
// document's numeric/geo/tag fields. It runs exclusively on the consumer goroutine,
// so it never takes the spec's writer lock itself — callers that also
// touch the spec from other goroutines (the GC) take it instead.
func (q *IndexerQueue) merge(spec *ftindex.IndexSpec, cfg ftindex.Config, ctx *AddDocumentContext) error {
	docID := spec.Meta.NextID()
	ctx.Doc.ID = docID

	var invertedGrowth int64
	for term, entry := range ctx.Forward.Terms() {
		idx := spec.Terms.GetOrCreate(term, cfg.BlockCapacity)
		idx.Add(docID, encodeForwardEntry(entry))
		invertedGrowth += int64(8 + len(entry.Positions)*4)
	}

	md := &ftindex.DocumentMetadata{
		ID:         docID,
		Score:      ctx.Doc.Score,
		Payload:    ctx.Doc.Payload,
		HasPayload: ctx.Doc.HasPayload,
		SortVector: ctx.SortVector,
		Flags:      ctx.DocFlags,
		IndexedAt:  time.Now(),
	}
	spec.Meta.Put(ctx.Doc.Key, md)

	spec.Stats.AddRecords(1)
	spec.Stats.AddInvertedSize(invertedGrowth)

	if q.bulk != nil && len(ctx.fieldData) > 0 {
		if err := q.bulk.Commit(context.Background(), spec, cfg, ctx); err != nil {
			return err
		}
	}
	return nil
}

// encodeForwardEntry packs a forward-index entry's frequency and field
// mask into a posting payload; positions are not retained past the merge
// since no component of this core performs phrase/proximity scoring.
func encodeForwardEntry(e *ftindex.ForwardEntry) []byte {
	return []byte{byte(e.FieldMask), byte(e.Frequency)}
}
