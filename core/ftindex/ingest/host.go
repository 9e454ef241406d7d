package ingest

import "context"

// Host is the narrow collaborator interface the ingestion pipeline and the
// garbage collector depend on instead of a host-engine plugin API. An
// embedding key-value store implements it to provide client-blocking,
// key-scoped locking, and logging; the indexing core never reaches for
// anything beyond this surface.
type Host interface {
	// BlockClient suspends the caller that submitted a document so its
	// reply can be sent later from a worker goroutine. Returns a token
	// UnblockClient needs; ok is false when the caller cannot be blocked
	// (e.g. a synchronous/NOBLOCK path), in which case the ingest runs
	// inline instead of offloading.
	BlockClient(ctx context.Context) (token any, ok bool)

	// UnblockClient resumes the client associated with token, delivering
	// err as the submit's outcome.
	UnblockClient(token any, err error)

	// OpenKey opens a host-side key for the duration of one bulk-indexer
	// commit or one GC repair batch. Close releases it.
	OpenKey(ctx context.Context, name string) (key any, err error)
	CloseKey(key any)

	// Log emits a structured message at the given level ("debug", "info",
	// "warn", "error"), mirroring the host's own logging surface.
	Log(level, msg string, kv ...any)

	// IsLoadingSnapshot reports whether the host is still replaying a
	// persisted snapshot; the GC skips scanning while this is true.
	IsLoadingSnapshot() bool

	// LockCtx/UnlockCtx guard the host's global lock, which the GC holds
	// for one pass. The IndexerQueue merge step does not take it; merges
	// are serialized on the queue's single consumer goroutine instead.
	LockCtx()
	UnlockCtx()

	// RefreshCtx is called by the GC between repair batches, after
	// closing its keys and before reopening them, giving the host a
	// chance to let other threads make progress.
	RefreshCtx()
}
