// Package analyzer provides the Bleve-compatible analyzer chains the
// fulltext field preprocessor selects between to turn field text into a
// token stream for the forward index.
package analyzer

import (
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/registry"

	// Pull in the stock unicode tokenizer and the filters both chains below
	// build on.
	_ "github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	_ "github.com/blevesearch/bleve/v2/analysis/token/porter"
	_ "github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
)

// Analyzer names for registry.
const (
	// StemmedAnalyzerName is the default fulltext chain: unicode tokenizer,
	// lowercased, porter-stemmed.
	StemmedAnalyzerName = "ftidx_stemmed"
	// ExactAnalyzerName is the NOSTEM chain: unicode tokenizer, lowercased,
	// no stemming, for fields where a caller wants the literal word form to
	// match rather than its stem.
	ExactAnalyzerName = "ftidx_exact"
)

// Built-in Bleve component names.
const (
	unicodeTokenizerName = "unicode"
	lowercaseFilterName  = "to_lower"
	porterStemmerName    = "stemmer_porter"
)

func init() {
	registry.RegisterAnalyzer(StemmedAnalyzerName, newStemmedAnalyzerConstructor)
	registry.RegisterAnalyzer(ExactAnalyzerName, newExactAnalyzerConstructor)
}

func newStemmedAnalyzerConstructor(config map[string]interface{}, cache *registry.Cache) (analysis.Analyzer, error) {
	return newStemmedAnalyzer(cache)
}

// newStemmedAnalyzer builds the chain: unicode tokenizer -> lowercase ->
// porter stemmer. This is the default chain for a fulltext field: case
// folded and stemmed so "Running" and "run" index under the same term.
func newStemmedAnalyzer(cache *registry.Cache) (*analysis.DefaultAnalyzer, error) {
	tokenizer, err := cache.TokenizerNamed(unicodeTokenizerName)
	if err != nil {
		return nil, err
	}

	lowercaseFilter, err := cache.TokenFilterNamed(lowercaseFilterName)
	if err != nil {
		return nil, err
	}

	stemmerFilter, err := cache.TokenFilterNamed(porterStemmerName)
	if err != nil {
		return nil, err
	}

	return &analysis.DefaultAnalyzer{
		Tokenizer:    tokenizer,
		TokenFilters: []analysis.TokenFilter{lowercaseFilter, stemmerFilter},
	}, nil
}

func newExactAnalyzerConstructor(config map[string]interface{}, cache *registry.Cache) (analysis.Analyzer, error) {
	return newExactAnalyzer(cache)
}

// newExactAnalyzer builds the chain: unicode tokenizer -> lowercase, with no
// stemming step. Used for NOSTEM fulltext fields, where the indexed term
// must match the word as written.
func newExactAnalyzer(cache *registry.Cache) (*analysis.DefaultAnalyzer, error) {
	tokenizer, err := cache.TokenizerNamed(unicodeTokenizerName)
	if err != nil {
		return nil, err
	}

	lowercaseFilter, err := cache.TokenFilterNamed(lowercaseFilterName)
	if err != nil {
		return nil, err
	}

	return &analysis.DefaultAnalyzer{
		Tokenizer:    tokenizer,
		TokenFilters: []analysis.TokenFilter{lowercaseFilter},
	}, nil
}
