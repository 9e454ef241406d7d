package ingest

import (
	"github.com/kvsearch/ftidx/core/ftindex"
	"github.com/kvsearch/ftidx/core/ftindex/errs"
	"github.com/kvsearch/ftidx/core/ftindex/preprocess"
)

// StateFlags tracks the derived, never-mutated-after-SetDocument state of
// one ingest.
type StateFlags uint8

const (
	FlagIndexables StateFlags = 1 << iota
	FlagTextIndexed
	FlagOtherIndexed
	FlagSortables
	FlagEmpty
	FlagNoBlock
)

func (f StateFlags) has(bit StateFlags) bool { return f&bit != 0 }

// Options mirrors the submit-time option flags a caller can set.
type Options struct {
	NoSave  bool
	Partial bool
	Replace bool
	NoBlock bool
}

// FieldIndexerData is the non-text, per-field scratch state the bulk
// indexer commits: parsed numeric value, geo lon/lat views, or the parsed
// tag collection. tags is always a well-defined (possibly nil) slice even
// on a recycled context, so cleanup never inspects a stale handle left
// over from a prior document.
type FieldIndexerData struct {
	fs       *ftindex.FieldSpec
	indexAs  ftindex.FieldTypeMask
	docField int

	hasNumeric bool
	numeric    float64

	hasGeo bool
	geoLon string
	geoLat string

	tags []string
}

// AddDocumentContext is the unit of work SetDocument fills in and the
// worker pool (or an inline call) drains through AddToIndexes. It is built
// once per submit and, on the ingest path this codebase recycles contexts
// on (see Pool in pool.go), reset rather than reallocated between uses.
type AddDocumentContext struct {
	Spec *ftindex.IndexSpec
	Doc  ftindex.Document

	Options Options
	Flags   StateFlags

	dedupe    map[int]bool
	fieldData []*FieldIndexerData

	Forward    *ftindex.ForwardIndex
	SortVector *ftindex.SortingVector
	DocFlags   ftindex.DocFlags

	hasTextFields    bool
	hasOtherFields   bool
	numTextIndexable int

	Err error

	done chan error
}

// NewAddDocumentContext constructs an empty, ready-to-fill context.
func NewAddDocumentContext() *AddDocumentContext {
	ctx := &AddDocumentContext{}
	ctx.reset()
	return ctx
}

// reset clears all per-document state in place. Every destructor-observable
// field (dedupe, fieldData, tags) ends up in a well-defined empty state
// rather than nil-by-accident, matching the recycled-context invariant.
func (ctx *AddDocumentContext) reset() {
	ctx.Spec = nil
	ctx.Doc = ftindex.Document{}
	ctx.Options = Options{}
	ctx.Flags = 0
	ctx.Err = nil
	ctx.done = nil

	if ctx.dedupe == nil {
		ctx.dedupe = make(map[int]bool)
	} else {
		for k := range ctx.dedupe {
			delete(ctx.dedupe, k)
		}
	}

	ctx.fieldData = ctx.fieldData[:0]

	if ctx.Forward == nil {
		ctx.Forward = ftindex.NewForwardIndex()
	} else {
		ctx.Forward.Reset()
	}

	ctx.SortVector = nil
	ctx.DocFlags = 0
	ctx.hasTextFields = false
	ctx.hasOtherFields = false
	ctx.numTextIndexable = 0
}

// SetDocument validates and classifies doc's fields against spec, deriving
// the StateFlags and allocating a sort vector when any sortable field is
// present. It takes no oldFieldCount: the dedupe map and fieldData slice
// grow on demand, so every call behaves as a first call with no old
// fields. No byte-offset container is allocated here; the context's
// ForwardIndex always carries its ByteOffsets map.
func SetDocument(ctx *AddDocumentContext, spec *ftindex.IndexSpec, doc ftindex.Document, opts Options) error {
	ctx.reset()
	ctx.Spec = spec
	ctx.Options = opts

	for docFieldIdx, f := range doc.Fields {
		fs, ok := spec.FieldByName(f.Name)
		if !ok || f.Text == "" {
			continue
		}

		if ctx.dedupe[fs.Index] {
			return errs.New(errs.CodeDupField, "Tried to insert `"+f.Name+"` twice")
		}
		ctx.dedupe[fs.Index] = true

		indexAs := f.IndexAs
		if indexAs == 0 {
			indexAs = fs.Types
		} else if !fs.Types.Has(indexAs) {
			return errs.New(errs.CodeUnsuppType, "Unsupported index type for field \""+f.Name+"\"")
		}

		if indexAs.Has(ftindex.FieldFullText) {
			ctx.hasTextFields = true
			ctx.numTextIndexable++
		}
		if indexAs != ftindex.FieldFullText {
			ctx.hasOtherFields = true
		}
		if indexAs.Any(ftindex.FieldGeo) {
			ctx.DocFlags |= ftindex.FlagHasOnDemandDeletable
		}
		if fs.Sortable() {
			ctx.Flags |= FlagSortables
		}

		ctx.fieldData = append(ctx.fieldData, &FieldIndexerData{fs: fs, indexAs: indexAs, docField: docFieldIdx, tags: nil})
	}

	if ctx.hasTextFields || ctx.hasOtherFields {
		ctx.Flags |= FlagIndexables
	}
	if !ctx.hasTextFields {
		ctx.Flags |= FlagTextIndexed
	}
	if !ctx.hasOtherFields {
		ctx.Flags |= FlagOtherIndexed
	}
	if ctx.Flags.has(FlagSortables) {
		ctx.SortVector = ftindex.NewSortingVector(spec.SortableCount())
	}
	if ctx.SortVector == nil && !ctx.hasTextFields && !ctx.hasOtherFields {
		ctx.Flags |= FlagEmpty
	}
	if opts.NoBlock {
		ctx.Flags |= FlagNoBlock
	}

	ctx.Doc = doc
	return nil
}

// runPreprocessors drives every field through its type handler in the
// fixed FULLTEXT -> NUMERIC -> GEO -> TAG order, writing
// into the forward index / sort vector / per-field FieldIndexerData.
func (ctx *AddDocumentContext) runPreprocessors() error {
	lastOffset := 0
	for _, fd := range ctx.fieldData {
		f := ctx.Doc.Fields[fd.docField]
		fs := fd.fs
		indexAs := fd.indexAs

		if indexAs.Any(ftindex.FieldFullText) {
			next, err := preprocess.Fulltext(fs, f.Text, ctx.Forward, ctx.SortVector, lastOffset)
			if err != nil {
				return ensureCode(err)
			}
			lastOffset = next
		} else if fs.Sortable() {
			ctx.SortVector.Set(fs.SortIdx, ftindex.STR(f.Text))
		}

		if indexAs.Any(ftindex.FieldNumeric) {
			v, err := preprocess.Numeric(fs, f.Text, ctx.SortVector)
			if err != nil {
				return ensureCode(err)
			}
			fd.hasNumeric = true
			fd.numeric = v
		}

		if indexAs.Any(ftindex.FieldGeo) {
			lon, lat, err := preprocess.Geo(f.Text)
			if err != nil {
				return ensureCode(err)
			}
			fd.hasGeo = true
			fd.geoLon = lon
			fd.geoLat = lat
		}

		if indexAs.Any(ftindex.FieldTag) {
			fd.tags = preprocess.Tag(fs, f.Text, ctx.SortVector)
		}
	}
	return nil
}

// ensureCode preserves a preprocessor's specific error code, falling back
// to GENERIC only when none was set.
func ensureCode(err error) error {
	if errs.HasCode(err) {
		return err
	}
	return errs.Wrap(errs.CodeGeneric, err)
}
