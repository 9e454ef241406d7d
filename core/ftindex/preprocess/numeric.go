package preprocess

import (
	"strconv"
	"strings"

	"github.com/kvsearch/ftidx/core/ftindex"
	"github.com/kvsearch/ftidx/core/ftindex/errs"
)

// Numeric parses text as a float64 for a numeric field, returning
// errs.CodeNotNumeric on failure and leaving sv untouched. On success, a
// sortable field records the parsed value.
func Numeric(fs *ftindex.FieldSpec, text string, sv *ftindex.SortingVector) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, errs.New(errs.CodeNotNumeric, "value is not numeric: "+text)
	}
	if fs.Sortable() && sv != nil {
		sv.Set(fs.SortIdx, ftindex.NUM(v))
	}
	return v, nil
}
