package ingest

import (
	"context"

	"github.com/kvsearch/ftidx/core/ftindex"
	"github.com/kvsearch/ftidx/core/ftindex/errs"
)

// BulkIndexer commits one document's non-text field data (NUMERIC, GEO,
// TAG) against a spec's auxiliary indexes. It lazily
// opens the host-side key backing each (index type, field) pair and caches
// the handle for the lifetime of the commit, so each field's key is opened
// at most once per commit; three tag fields open three tag keys.
type BulkIndexer struct {
	host Host

	openKeys map[string]any
}

// NewBulkIndexer returns a BulkIndexer bound to one host, ready to Commit
// documents against any spec.
func NewBulkIndexer(host Host) *BulkIndexer {
	return &BulkIndexer{host: host, openKeys: make(map[string]any)}
}

// openKeyFor lazily opens and caches the host key named "kind:field", so a
// second request for the same kind and field within one commit reuses it.
func (b *BulkIndexer) openKeyFor(ctx context.Context, kind, field string) (any, error) {
	name := kind + ":" + field
	if k, ok := b.openKeys[name]; ok {
		return k, nil
	}
	k, err := b.host.OpenKey(ctx, name)
	if err != nil {
		return nil, errs.Wrap(errs.CodeGeneric, err)
	}
	b.openKeys[name] = k
	return k, nil
}

// Commit dispatches every non-text field in ctx to its type handler,
// incrementing spec.Stats on each success. The caller is expected to have
// already run preprocessors (ctx.fieldData populated); Commit only
// performs the structural insert and host-key bookkeeping.
func (b *BulkIndexer) Commit(hctx context.Context, spec *ftindex.IndexSpec, cfg ftindex.Config, ctx *AddDocumentContext) error {
	defer b.cleanup()

	docID := ctx.Doc.ID
	for _, fd := range ctx.fieldData {
		fs := fd.fs
		bits := fd.indexAs &^ ftindex.FieldFullText

		if bits.Any(ftindex.FieldNumeric) {
			if !fd.hasNumeric {
				return errs.New(errs.CodeInval, "numeric type bit set without a parsed value for field \""+fs.Name+"\"")
			}
			if _, err := b.openKeyFor(hctx, "numeric", fs.Name); err != nil {
				return err
			}
			tree := spec.Numeric.GetOrCreate(fs.Name, cfg.BlockCapacity)
			tree.Add(docID, fd.numeric)
			spec.Stats.AddRecords(1)
			spec.Stats.AddInvertedSize(16)
			bits &^= ftindex.FieldNumeric
		}

		if bits.Any(ftindex.FieldGeo) {
			if !fd.hasGeo {
				return errs.New(errs.CodeInval, "geo type bit set without parsed lon/lat for field \""+fs.Name+"\"")
			}
			if _, err := b.openKeyFor(hctx, "geo", fs.Name); err != nil {
				return err
			}
			idx := spec.Geo.GetOrCreate(fs.Name, cfg.BlockCapacity)
			if err := idx.AddStrings(docID, fd.geoLon, fd.geoLat); err != nil {
				return errs.New(errs.CodeGeoFormat, err.Error())
			}
			spec.Stats.AddRecords(1)
			spec.Stats.AddInvertedSize(16)
			bits &^= ftindex.FieldGeo
		}

		if bits.Any(ftindex.FieldTag) {
			if _, err := b.openKeyFor(hctx, "tag", fs.Name); err != nil {
				return err
			}
			idx := spec.Tags.GetOrCreate(fs.Name)
			idx.Index(fd.tags, docID, cfg.BlockCapacity)
			spec.Stats.AddRecords(1)
			spec.Stats.AddInvertedSize(int64(8 * len(fd.tags)))
			bits &^= ftindex.FieldTag
		}

		if bits != 0 {
			// Every recognized non-text bit was cleared above; anything
			// left over is a type bit this core does not know how to
			// commit, which SetDocument's indexAs⊆fs.types check should
			// have made unreachable.
			return errs.New(errs.CodeInval, "unknown field type bit in commit dispatch")
		}
	}
	return nil
}

// cleanup closes every host key opened during this commit.
func (b *BulkIndexer) cleanup() {
	for name, k := range b.openKeys {
		b.host.CloseKey(k)
		delete(b.openKeys, name)
	}
}
