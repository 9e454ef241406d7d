// Package preprocess implements the four field-type handlers SetDocument
// dispatches to in fixed order (FULLTEXT, NUMERIC, GEO, TAG): each
// validates and parses one field's text, optionally records a sort-vector
// entry, and hands indexable content to the forward index or the bulk
// indexer's field data.
package preprocess

import (
	"github.com/kvsearch/ftidx/core/ftindex"
	"github.com/kvsearch/ftidx/core/ftindex/analyzer"
	"github.com/kvsearch/ftidx/core/ftindex/errs"
)

// Fulltext tokenizes text for a fulltext field into fwd, recording per-term
// frequency and positions plus the field's (first, last) token-position
// span under fs.FtID, and writes the raw text into the sort vector when
// the field is sortable. lastOffset is the running token-position
// watermark across every fulltext field processed so far for this
// document; Fulltext returns the advanced watermark (and stores it in
// fwd.TotalTokens) so the
// caller can pass it into the next field, preserving per-field position
// contiguity.
func Fulltext(fs *ftindex.FieldSpec, text string, fwd *ftindex.ForwardIndex, sv *ftindex.SortingVector, lastOffset int) (int, error) {
	if fs.Sortable() && sv != nil {
		sv.Set(fs.SortIdx, ftindex.STR(text))
	}

	a, err := analyzer.Select(analyzer.FieldOptions{NoStem: fs.NoStem(), Phonetics: fs.Phonetics()})
	if err != nil {
		return lastOffset, errs.Wrap(errs.CodeGeneric, err)
	}

	tokens := a.Analyze([]byte(text))
	start := lastOffset
	pos := lastOffset
	for _, tok := range tokens {
		pos++
		fwd.AddToken(string(tok.Term), pos, ftindex.FieldFullText)
	}

	fwd.RecordFieldOffsets(fs.FtID, start+1, pos)
	fwd.TotalTokens = pos
	return pos, nil
}
