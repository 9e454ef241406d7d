package invert

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// InvertedText is the term -> InvertedIndex table backing a spec's
// fulltext fields. One table is shared across every TEXT field; a term's
// InvertedIndex mixes postings contributed by every field it appears in.
type InvertedText struct {
	terms map[string]*InvertedIndex
}

// NewInvertedText returns an empty term table.
func NewInvertedText() *InvertedText {
	return &InvertedText{terms: make(map[string]*InvertedIndex)}
}

// GetOrCreate returns the InvertedIndex for term, creating it with the
// given block capacity on first use.
func (t *InvertedText) GetOrCreate(term string, capacity int) *InvertedIndex {
	idx, ok := t.terms[term]
	if !ok {
		idx = NewInvertedIndex(capacity)
		t.terms[term] = idx
	}
	return idx
}

// Get returns the InvertedIndex for term, or nil if the term is unknown.
func (t *InvertedText) Get(term string) (*InvertedIndex, bool) {
	idx, ok := t.terms[term]
	return idx, ok
}

// Len returns the number of distinct terms.
func (t *InvertedText) Len() int { return len(t.terms) }

// RandomTerm draws a term with probability proportional to its
// posting-list size, the same bias GC_RandomTerm's repeated-sampling
// approximation was chasing, computed directly with gonum's categorical
// distribution over the vocabulary's per-term NumDocs weights. An empty
// table returns "", false. trials is accepted for call-site parity with
// the collector's configured WeightedTermTrials knob; a single
// distuv.Categorical draw already samples in exact weighted proportion,
// so it no longer bounds a sampling loop.
func (t *InvertedText) RandomTerm(trials int, rng *rand.Rand) (string, bool) {
	if len(t.terms) == 0 {
		return "", false
	}

	keys := make([]string, 0, len(t.terms))
	weights := make([]float64, 0, len(t.terms))
	for k, idx := range t.terms {
		keys = append(keys, k)
		w := float64(idx.NumDocs)
		if w <= 0 {
			w = 1
		}
		weights = append(weights, w)
	}

	dist := distuv.NewCategorical(weights, rng)
	return keys[int(dist.Rand())], true
}
