package preprocess

import (
	"strings"

	"github.com/kvsearch/ftidx/core/ftindex"
)

// Tag splits text into a tag collection using the field's separator,
// trimming whitespace and lower-casing each value so index-time and
// query-time tag comparison agree. A sortable field also records the raw
// text.
func Tag(fs *ftindex.FieldSpec, text string, sv *ftindex.SortingVector) []string {
	if fs.Sortable() && sv != nil {
		sv.Set(fs.SortIdx, ftindex.STR(text))
	}

	sep := fs.TagSep
	if sep == 0 {
		sep = ','
	}

	parts := strings.Split(text, string(sep))
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
