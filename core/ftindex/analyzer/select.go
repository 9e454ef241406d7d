package analyzer

import (
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/registry"
)

// FieldOptions mirrors the NOSTEM/PHONETICS bits a fulltext FieldSpec may
// carry; it decides which registered analyzer chain tokenizes the field.
type FieldOptions struct {
	NoStem    bool
	Phonetics bool
}

// cache is a process-wide registry cache; the bundled analyzers have no
// per-index configuration so a single shared cache is safe.
var cache = registry.NewCache()

// Select returns the analyzer chain for a fulltext field given its options.
// NoStem selects the exact chain (lowercased, no stemming); otherwise the
// stemmed chain (lowercased, porter-stemmed) is used. Phonetics is accepted
// for interface symmetry with the FieldSpec bitmask; phonetic matching is a
// retrieval-time concern and the indexing core only needs to tokenize
// consistently regardless of it.
func Select(opts FieldOptions) (*analysis.DefaultAnalyzer, error) {
	if opts.NoStem {
		return newExactAnalyzer(cache)
	}
	return newStemmedAnalyzer(cache)
}
