package ftindex

import (
	"fmt"
	"sync"

	"github.com/kvsearch/ftidx/core/ftindex/invert"
)

// FieldSpec is the schema declaration for one named field. Index is a
// stable, dense slot in [0, fieldCount) reused across ingests; SortIdx is
// the slot into a document's SortingVector when Options has OptSortable.
type FieldSpec struct {
	Name    string
	Index   int
	Types   FieldTypeMask
	Options FieldOptionMask

	FtID     int
	FtWeight float64

	TagSep   byte
	TagFlags uint8

	SortIdx int
}

// Sortable reports whether this field has OptSortable set.
func (fs *FieldSpec) Sortable() bool { return fs.Options&OptSortable != 0 }

// NoStem reports whether this field has OptNoStem set.
func (fs *FieldSpec) NoStem() bool { return fs.Options&OptNoStem != 0 }

// Phonetics reports whether this field has OptPhonetics set.
func (fs *FieldSpec) Phonetics() bool { return fs.Options&OptPhonetics != 0 }

// Dynamic reports whether this field has OptDynamic set.
func (fs *FieldSpec) Dynamic() bool { return fs.Options&OptDynamic != 0 }

// IndexSpec is the schema plus runtime state for one logical index: the
// ordered FieldSpec list, the sortable-field table, document metadata, and
// bookkeeping the GC and ingest paths need. UniqueID is advanced every time
// the spec is recreated (dropped and redefined); the GC captures it at scan
// start and treats a mismatch as "the spec I was scanning is gone".
type IndexSpec struct {
	mu sync.RWMutex

	Name     string
	UniqueID uint64

	fields    []*FieldSpec
	byName    map[string]*FieldSpec
	sortables []*FieldSpec // indexed by SortIdx

	Meta  *MetadataStore
	Stats *Stats

	Terms   *invert.InvertedText
	Numeric *invert.NumericForest
	Tags    *invert.TagForest
	Geo     *invert.GeoForest
}

// NewIndexSpec constructs an empty spec ready to accept AddField calls.
func NewIndexSpec(name string) *IndexSpec {
	return &IndexSpec{
		Name:    name,
		byName:  make(map[string]*FieldSpec),
		Meta:    NewMetadataStore(),
		Stats:   NewStats(),
		Terms:   invert.NewInvertedText(),
		Numeric: invert.NewNumericForest(),
		Tags:    invert.NewTagForest(),
		Geo:     invert.NewGeoForest(),
	}
}

// AddField appends a FieldSpec, assigning it the next dense Index slot (and
// the next SortIdx slot if sortable). Returns an error if name is already
// declared.
func (s *IndexSpec) AddField(fs *FieldSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[fs.Name]; exists {
		return fmt.Errorf("field %q already declared", fs.Name)
	}

	fs.Index = len(s.fields)
	if fs.Sortable() {
		fs.SortIdx = len(s.sortables)
		s.sortables = append(s.sortables, fs)
	}

	s.fields = append(s.fields, fs)
	s.byName[fs.Name] = fs
	return nil
}

// FieldByName resolves a FieldSpec by name. ok is false for unknown fields,
// which SetDocument treats as "skip this field" rather than an error.
func (s *IndexSpec) FieldByName(name string) (*FieldSpec, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fs, ok := s.byName[name]
	return fs, ok
}

// FieldByIndex returns the FieldSpec at a dense Index slot.
func (s *IndexSpec) FieldByIndex(i int) (*FieldSpec, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.fields) {
		return nil, false
	}
	return s.fields[i], true
}

// FieldCount returns the number of declared fields.
func (s *IndexSpec) FieldCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fields)
}

// SortableCount returns the number of declared sortable fields, i.e. the
// required length of a SortingVector for this spec.
func (s *IndexSpec) SortableCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sortables)
}

// NumericFields returns a snapshot of the declared NUMERIC fields, used by
// the numeric GC to build/refresh its per-field array.
func (s *IndexSpec) NumericFields() []*FieldSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*FieldSpec, 0)
	for _, fs := range s.fields {
		if fs.Types.Has(FieldNumeric) {
			out = append(out, fs)
		}
	}
	return out
}

// TagFields returns a snapshot of the declared TAG fields.
func (s *IndexSpec) TagFields() []*FieldSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*FieldSpec, 0)
	for _, fs := range s.fields {
		if fs.Types.Has(FieldTag) {
			out = append(out, fs)
		}
	}
	return out
}

// Recreate bumps UniqueID, modeling the host dropping and redefining this
// spec under the same name. Any in-flight GC pass holding the old UniqueID
// will detect the mismatch on its next yield and abort.
func (s *IndexSpec) Recreate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UniqueID++
}
