package invert

import "math/rand"

// TagIndex is a map from tag-string -> InvertedIndex for one TAG field.
// Unlike InvertedText, tag values are exact strings (lower-cased,
// separator-split) rather than tokenized terms.
type TagIndex struct {
	values map[string]*InvertedIndex
	rng    *rand.Rand
}

// NewTagIndex returns an empty tag index.
func NewTagIndex() *TagIndex {
	return &TagIndex{values: make(map[string]*InvertedIndex), rng: rand.New(rand.NewSource(1))}
}

// Index adds docID to the posting list of every tag in tags, creating
// per-value indexes as needed.
func (t *TagIndex) Index(tags []string, docID uint64, capacity int) {
	for _, tag := range tags {
		idx, ok := t.values[tag]
		if !ok {
			idx = NewInvertedIndex(capacity)
			t.values[tag] = idx
		}
		idx.Add(docID, nil)
	}
}

// Get returns the InvertedIndex for a specific tag value.
func (t *TagIndex) Get(tag string) (*InvertedIndex, bool) {
	idx, ok := t.values[tag]
	return idx, ok
}

// RandomKey returns a uniformly random tag value, used by the tag GC to
// pick a value to repair each pass. Returns "", false if the index is
// empty.
func (t *TagIndex) RandomKey() (string, bool) {
	if len(t.values) == 0 {
		return "", false
	}
	keys := make([]string, 0, len(t.values))
	for k := range t.values {
		keys = append(keys, k)
	}
	return keys[t.rng.Intn(len(keys))], true
}

// TagForest is the per-field table of TagIndexes for a spec's declared
// TAG fields.
type TagForest struct {
	indexes map[string]*TagIndex
}

// NewTagForest returns an empty forest.
func NewTagForest() *TagForest {
	return &TagForest{indexes: make(map[string]*TagIndex)}
}

// GetOrCreate returns the TagIndex for field, creating it on first use.
func (f *TagForest) GetOrCreate(field string) *TagIndex {
	idx, ok := f.indexes[field]
	if !ok {
		idx = NewTagIndex()
		f.indexes[field] = idx
	}
	return idx
}

// Get returns the TagIndex for field without creating it.
func (f *TagForest) Get(field string) (*TagIndex, bool) {
	idx, ok := f.indexes[field]
	return idx, ok
}

// Fields returns the names of every field with a tag index.
func (f *TagForest) Fields() []string {
	out := make([]string, 0, len(f.indexes))
	for k := range f.indexes {
		out = append(out, k)
	}
	return out
}
