package ftindex

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/dgraph-io/ristretto"
)

// MetadataStore holds DocumentMetadata keyed by id, with a reverse key ->
// id lookup for resolving a Document.Key back to its assigned id (needed
// by partial updates and by deletion). The canonical reverse mapping lives
// in a plain map; a ristretto cache sits in front of it purely as a
// lookup accelerator for hot keys, mirroring the DomainCache pattern this
// codebase uses elsewhere for classification lookups — it is never the
// only copy of a mapping that must survive eviction.
type MetadataStore struct {
	mu       sync.RWMutex
	byID     map[uint64]*DocumentMetadata
	keyToID  map[string]uint64
	hotCache *ristretto.Cache
	nextID   uint64
}

// NewMetadataStore constructs an empty store.
func NewMetadataStore() *MetadataStore {
	hot, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e6,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		// ristretto.NewCache only fails on invalid config constants
		// above, which are compile-time fixed; treat as unreachable.
		panic(err)
	}

	return &MetadataStore{
		byID:     make(map[uint64]*DocumentMetadata),
		keyToID:  make(map[string]uint64),
		hotCache: hot,
	}
}

// NextID allocates the next monotonic document id. The IndexerQueue is the
// sole caller; docId assignment is totally ordered because it only ever
// runs on the single merge goroutine.
func (m *MetadataStore) NextID() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	return m.nextID
}

// Put publishes metadata for a newly merged (or replaced) document.
func (m *MetadataStore) Put(key string, md *DocumentMetadata) {
	m.mu.Lock()
	m.byID[md.ID] = md
	m.keyToID[key] = md.ID
	m.mu.Unlock()

	m.hotCache.Set(key, md.ID, 1)
}

// GetByID returns the metadata for id, or nil if unknown/deleted.
func (m *MetadataStore) GetByID(id uint64) *DocumentMetadata {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byID[id]
}

// ResolveKey returns the id currently bound to key.
func (m *MetadataStore) ResolveKey(key string) (uint64, bool) {
	if v, ok := m.hotCache.Get(key); ok {
		id := v.(uint64)
		// A cache hit can be stale across a delete; confirm against the
		// canonical map before trusting it.
		m.mu.RLock()
		_, live := m.byID[id]
		m.mu.RUnlock()
		if live {
			return id, true
		}
	}

	m.mu.RLock()
	id, ok := m.keyToID[key]
	m.mu.RUnlock()
	return id, ok
}

// Delete removes a document's metadata, e.g. on a replaceMerge or explicit
// delete. Returns the removed metadata, or nil if it was already gone.
func (m *MetadataStore) Delete(key string, id uint64) *DocumentMetadata {
	m.mu.Lock()
	defer m.mu.Unlock()
	md := m.byID[id]
	delete(m.byID, id)
	if cur, ok := m.keyToID[key]; ok && cur == id {
		delete(m.keyToID, key)
	}
	m.hotCache.Del(key)
	return md
}

// IsLive reports whether id currently has metadata, i.e. is in the live
// document set the GC repairs blocks against.
func (m *MetadataStore) IsLive(id uint64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byID[id]
	return ok
}

// Count returns the number of live documents.
func (m *MetadataStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

// LiveBitmap snapshots the set of currently live document ids. The GC's
// block-repair loop captures one of these at the start of each batch and
// drops any posting whose docId is absent from it.
func (m *MetadataStore) LiveBitmap() *roaring.Bitmap {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bm := roaring.New()
	for id := range m.byID {
		bm.Add(uint32(id))
	}
	return bm
}
