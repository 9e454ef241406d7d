package ingest

import (
	"context"

	"github.com/kvsearch/ftidx/core/ftindex"
	"github.com/kvsearch/ftidx/core/ftindex/errs"
)

// Pipeline wires document ingestion end to end: SetDocument classifies a
// submitted Document, then either addToIndexes runs inline or the document
// is offloaded to a WorkerPool, depending on its size and whether the host
// can block the submitting client.
type Pipeline struct {
	Spec  *ftindex.IndexSpec
	Cfg   ftindex.Config
	Queue *IndexerQueue
	Pool  *WorkerPool
	Host  Host
	Pools *ContextPool
}

// NewPipeline wires a queue, worker pool, and bulk indexer for spec.
func NewPipeline(spec *ftindex.IndexSpec, cfg ftindex.Config, host Host) *Pipeline {
	bulk := NewBulkIndexer(host)
	queue := NewIndexerQueue(spec, cfg, bulk, cfg.WorkerPoolSize*4)
	pool := NewWorkerPool(cfg.WorkerPoolSize, cfg.WorkerPoolSize*4)
	return &Pipeline{
		Spec:  spec,
		Cfg:   cfg,
		Queue: queue,
		Pool:  pool,
		Host:  host,
		Pools: NewContextPool(),
	}
}

// Close shuts down the queue and worker pool, draining in-flight work.
func (p *Pipeline) Close() {
	p.Pool.Close()
	p.Queue.Close()
}

// Submit classifies the document, then runs it inline or offloads it to
// the worker pool. It offloads only when totalSize reaches
// Config.SelfExecThreshold, opts.NoBlock is unset, and Host.BlockClient
// reports the client can be blocked; the offloaded outcome is passed to
// Host.UnblockClient. Returns once the document
// has been merged (or rejected), regardless of whether it ran inline or
// was offloaded — the offload decision only affects which goroutine does
// the preprocessing work, not whether the caller waits.
func (p *Pipeline) Submit(ctx context.Context, doc ftindex.Document, opts Options) error {
	if opts.Partial {
		indexable, err := AnyIndexableField(p.Spec, doc)
		if err != nil {
			return err
		}
		if indexable {
			return p.replaceMerge(ctx, doc, opts)
		}
		return UpdateNoIndex(p.Spec, doc)
	}

	actx := p.Pools.Get()
	if err := SetDocument(actx, p.Spec, doc, opts); err != nil {
		p.Pools.Put(actx)
		return err
	}

	if actx.Flags.has(FlagEmpty) {
		p.Pools.Put(actx)
		return nil
	}

	totalSize := 0
	for _, fd := range actx.fieldData {
		if fd.indexAs.Any(ftindex.FieldFullText) || fd.indexAs.Any(ftindex.FieldTag) {
			totalSize += len(doc.Fields[fd.docField].Text)
		}
	}

	blockable := !opts.NoBlock
	run := func(runCtx context.Context) error {
		defer p.Pools.Put(actx)
		if err := actx.runPreprocessors(); err != nil {
			return err
		}
		return p.Queue.SubmitSync(runCtx, actx)
	}

	if totalSize >= p.Cfg.SelfExecThreshold && blockable {
		if token, ok := p.Host.BlockClient(ctx); ok {
			var err error
			select {
			case err = <-p.Pool.Dispatch(run):
			case <-ctx.Done():
				err = ctx.Err()
			}
			p.Host.UnblockClient(token, err)
			return err
		}
	}

	return run(ctx)
}

// replaceMerge implements the PARTIAL-degrades-to-reindex path: loading the
// document's full stored field set back from the host is out of this
// core's scope (it owns indexing, not document storage),
// so the caller is expected to have supplied the complete field set it
// wants re-indexed under doc.Key; replaceMerge retires the old metadata
// binding for that key and reindexes doc as a normal (non-partial)
// submit, which assigns it a fresh docId.
func (p *Pipeline) replaceMerge(ctx context.Context, doc ftindex.Document, opts Options) error {
	if id, ok := p.Spec.Meta.ResolveKey(doc.Key); ok {
		p.Spec.Meta.Delete(doc.Key, id)
	}
	opts.Partial = false
	opts.Replace = true
	return p.Submit(ctx, doc, opts)
}

// Delete removes a document's metadata. Posting-list cleanup for its
// entries is left to the garbage collector's block-repair pass rather
// than an eager per-delete scan, matching the repair-driven reclamation
// model this core implements.
func (p *Pipeline) Delete(key string) error {
	id, ok := p.Spec.Meta.ResolveKey(key)
	if !ok {
		return errs.New(errs.CodeNoDoc, "no such document: "+key)
	}
	p.Spec.Meta.Delete(key, id)
	return nil
}
