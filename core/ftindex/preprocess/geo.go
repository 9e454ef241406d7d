package preprocess

import (
	"strings"

	"github.com/kvsearch/ftidx/core/ftindex/errs"
)

// Geo splits text on the first space or comma into lon/lat substrings,
// both views into text itself. Text with no delimiter fails with
// errs.CodeGeoFormat. Parsing to float64 happens later, in the bulk
// indexer's commit against the GeoIndex.
func Geo(text string) (lon, lat string, err error) {
	idx := strings.IndexAny(text, " ,")
	if idx < 0 {
		return "", "", errs.New(errs.CodeGeoFormat, "geo value has no lon/lat separator: "+text)
	}
	return text[:idx], text[idx+1:], nil
}
