// Package invert implements the posting-list data structures the ingestion
// and garbage-collection core merges documents into and repairs: a
// block-structured InvertedIndex shared by text terms and tag values, a
// NumericRangeTree for range queries over numeric fields, and a GeoIndex
// for point lookups over geo fields.
package invert

import "github.com/RoaringBitmap/roaring/v2"

// Posting is one (docId, payload) entry in an inverted-index block. Payload
// is opaque to this package; for text terms it is the field-mask and
// frequency pair the IndexerQueue merge encodes, for numeric/tag entries
// it is unused.
type Posting struct {
	DocID   uint64
	Payload []byte
}

// Block is a fixed-capacity, contiguous run of postings. Ids strictly
// increase within a block; blocks within an index are sorted by FirstID.
type Block struct {
	Postings []Posting
	FirstID  uint64
	LastID   uint64
}

func newBlock(capacity int) *Block {
	return &Block{Postings: make([]Posting, 0, capacity)}
}

func (b *Block) full(capacity int) bool { return len(b.Postings) >= capacity }

func (b *Block) append(p Posting) {
	if len(b.Postings) == 0 {
		b.FirstID = p.DocID
	}
	b.Postings = append(b.Postings, p)
	b.LastID = p.DocID
}

// RepairResult reports what one repair() batch accomplished.
type RepairResult struct {
	NextBlock      int
	DocsCollected  int
	BytesCollected int
}

// InvertedIndex is a per-term (or per-tag-value) ordered list of blocks.
// Capacity bounds how many postings a single block holds before Add
// allocates a new one.
type InvertedIndex struct {
	Blocks   []*Block
	Capacity int
	NumDocs  int
}

// NewInvertedIndex returns an empty index with the given block capacity.
func NewInvertedIndex(capacity int) *InvertedIndex {
	if capacity <= 0 {
		capacity = 100
	}
	return &InvertedIndex{Capacity: capacity}
}

// Add appends a posting, allocating a new block when the last one is full.
// docId must be strictly greater than every previously added id; merge is
// serialized by the caller (the IndexerQueue), so this is never checked.
func (idx *InvertedIndex) Add(docID uint64, payload []byte) {
	if len(idx.Blocks) == 0 || idx.Blocks[len(idx.Blocks)-1].full(idx.Capacity) {
		idx.Blocks = append(idx.Blocks, newBlock(idx.Capacity))
	}
	idx.Blocks[len(idx.Blocks)-1].append(Posting{DocID: docID, Payload: payload})
	idx.NumDocs++
}

// Empty reports whether the index holds no postings at all.
func (idx *InvertedIndex) Empty() bool { return idx.NumDocs == 0 }

// Repair walks up to limit blocks starting at fromBlock, dropping postings
// whose docId is absent from live (the metadata store's live-id set
// captured at batch start), and compacting each visited block in place.
// A block left with zero postings is removed from the block list. Returns
// the index of the next block to resume from; a result with NextBlock < 0
// means the scan reached the end of the index.
func (idx *InvertedIndex) Repair(fromBlock, limit int, live *roaring.Bitmap) RepairResult {
	var res RepairResult
	if fromBlock >= len(idx.Blocks) {
		res.NextBlock = -1
		return res
	}

	visited := 0
	i := fromBlock
	for i < len(idx.Blocks) && visited < limit {
		b := idx.Blocks[i]
		kept := b.Postings[:0]
		for _, p := range b.Postings {
			if live.Contains(uint32(p.DocID)) {
				kept = append(kept, p)
			} else {
				res.DocsCollected++
				res.BytesCollected += postingSize(p)
			}
		}
		b.Postings = kept
		if len(kept) == 0 {
			idx.Blocks = append(idx.Blocks[:i], idx.Blocks[i+1:]...)
			visited++
			continue
		}
		b.FirstID = kept[0].DocID
		b.LastID = kept[len(kept)-1].DocID
		i++
		visited++
	}

	idx.NumDocs -= res.DocsCollected
	if i >= len(idx.Blocks) {
		res.NextBlock = -1
	} else {
		res.NextBlock = i
	}
	return res
}

func postingSize(p Posting) int { return 8 + len(p.Payload) }
