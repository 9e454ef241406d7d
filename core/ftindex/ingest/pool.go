package ingest

import "sync"

// ContextPool recycles AddDocumentContext values across ingests, mirroring
// the source engine's practice of reusing one context's allocations (forward
// index, dedupe set, field-data slice) rather than allocating fresh ones per
// document. Every destructor-observable field is already brought to a
// well-defined empty state by reset(), so a value taken from the pool is
// indistinguishable from a freshly constructed one.
type ContextPool struct {
	pool sync.Pool
}

// NewContextPool returns an empty pool.
func NewContextPool() *ContextPool {
	return &ContextPool{
		pool: sync.Pool{New: func() any { return NewAddDocumentContext() }},
	}
}

// Get returns a ready-to-fill context, either freshly allocated or reused.
func (p *ContextPool) Get() *AddDocumentContext {
	return p.pool.Get().(*AddDocumentContext)
}

// Put returns ctx to the pool after a completed ingest. Callers must not
// touch ctx again after calling Put.
func (p *ContextPool) Put(ctx *AddDocumentContext) {
	ctx.reset()
	p.pool.Put(ctx)
}
