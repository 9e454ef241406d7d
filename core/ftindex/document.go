// Package ftindex implements the document-ingestion and garbage-collection
// core of a full-text search engine that attaches to a key-value data
// store. It tokenizes and inverts document fields into per-term posting
// lists and maintains auxiliary numeric, geospatial, and tag indexes, with
// a background collector that reclaims space from deleted documents.
package ftindex

import "time"

// FieldTypeMask is a bitmask of the field types a FieldSpec or a document
// Field's indexAs can carry.
type FieldTypeMask uint8

const (
	FieldFullText FieldTypeMask = 1 << iota
	FieldNumeric
	FieldGeo
	FieldTag
)

// Has reports whether mask contains every bit set in other.
func (mask FieldTypeMask) Has(other FieldTypeMask) bool {
	return mask&other == other
}

// Any reports whether mask shares any bit with other.
func (mask FieldTypeMask) Any(other FieldTypeMask) bool {
	return mask&other != 0
}

// FieldOptionMask is a bitmask of per-field indexing options.
type FieldOptionMask uint8

const (
	OptSortable FieldOptionMask = 1 << iota
	OptNoStem
	OptPhonetics
	OptDynamic
	OptNoSave
)

// Field is one named value submitted as part of a Document. IndexAs is the
// caller-requested subset of the FieldSpec's types to index this value as;
// zero means "use the FieldSpec's declared types".
type Field struct {
	Name    string
	Text    string
	IndexAs FieldTypeMask
}

// Document is the unit of ingest. ID is assigned by the IndexerQueue during
// the merge step; zero means unassigned.
type Document struct {
	Key     string
	ID      uint64
	Score   float64
	Payload []byte
	HasPayload bool
	Language string
	Fields   []Field
}

// IsIDAssigned reports whether the document has been merged into the
// inverted index and given a real id.
func (d *Document) IsIDAssigned() bool { return d.ID != 0 }

// DocFlags records document-level state derived during ingest that later
// stages (deletion, GC) need without re-deriving it from the field list.
type DocFlags uint8

const (
	// FlagHasOnDemandDeletable is set when the document carries any GEO
	// field: deleting the document must additionally clean up the geo
	// index, which isn't implied by any other index's deletion path.
	FlagHasOnDemandDeletable DocFlags = 1 << iota
)

// DocumentMetadata is the persisted, per-id record backing sort-by-id
// retrieval, score lookups, and partial updates. It lives in the
// metastore for the lifetime of the spec or until the document is deleted.
type DocumentMetadata struct {
	ID          uint64
	Score       float64
	Payload     []byte
	HasPayload  bool
	SortVector  *SortingVector
	Flags       DocFlags
	IndexedAt   time.Time
}
