package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/kvsearch/ftidx/core/ftindex"
	"github.com/kvsearch/ftidx/core/ftindex/errs"
)

// AnyIndexableField reports whether doc names any field whose resolved
// indexAs carries a non-zero type mask, i.e. whether INDEXABLES would be
// set by SetDocument. A PARTIAL submit on such a document degrades to a
// full reindex instead of the metadata-only path.
func AnyIndexableField(spec *ftindex.IndexSpec, doc ftindex.Document) (bool, error) {
	for _, f := range doc.Fields {
		fs, ok := spec.FieldByName(f.Name)
		if !ok || f.Text == "" {
			continue
		}
		indexAs := f.IndexAs
		if indexAs == 0 {
			indexAs = fs.Types
		} else if !fs.Types.Has(indexAs) {
			return false, errs.New(errs.CodeUnsuppType, "Unsupported index type for field \""+f.Name+"\"")
		}
		if indexAs != 0 {
			return true, nil
		}
	}
	return false, nil
}

// UpdateNoIndex implements the metadata-only PARTIAL path: it updates the
// score unconditionally and the payload when doc carries one, and writes any declared sortable
// field's new value into the document's sort vector without touching any
// posting list.
func UpdateNoIndex(spec *ftindex.IndexSpec, doc ftindex.Document) error {
	id, ok := spec.Meta.ResolveKey(doc.Key)
	if !ok {
		return errs.New(errs.CodeGeneric, "document not found for partial update: "+doc.Key)
	}
	md := spec.Meta.GetByID(id)
	if md == nil {
		return errs.New(errs.CodeGeneric, "document metadata missing for partial update: "+doc.Key)
	}

	md.Score = doc.Score
	if doc.HasPayload {
		md.Payload = doc.Payload
		md.HasPayload = true
	}

	dedupe := make(map[int]bool, len(doc.Fields))
	for _, f := range doc.Fields {
		fs, ok := spec.FieldByName(f.Name)
		if !ok || !fs.Sortable() {
			continue
		}
		if fs.Dynamic() {
			return errs.New(errs.CodeGeneric, "PARTIAL cannot update dynamic field \""+f.Name+"\"")
		}
		if dedupe[fs.Index] {
			return errs.New(errs.CodeDupField, "Tried to insert `"+f.Name+"` twice")
		}
		dedupe[fs.Index] = true

		if md.SortVector == nil {
			md.SortVector = ftindex.NewSortingVector(spec.SortableCount())
		}

		switch {
		case fs.Types.Has(ftindex.FieldFullText), fs.Types.Has(ftindex.FieldTag):
			md.SortVector.Set(fs.SortIdx, ftindex.STR(f.Text))
		case fs.Types.Has(ftindex.FieldNumeric):
			v, err := strconv.ParseFloat(strings.TrimSpace(f.Text), 64)
			if err != nil {
				return errs.New(errs.CodeNotNumeric, "value is not numeric: "+f.Text)
			}
			md.SortVector.Set(fs.SortIdx, ftindex.NUM(v))
		default:
			return errs.New(errs.CodeGeneric, "field type not sortable via PARTIAL: \""+f.Name+"\"")
		}
	}

	md.IndexedAt = time.Now()
	return nil
}
