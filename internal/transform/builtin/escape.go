// Package builtin provides the stock transforms used by the dataset catalog.
package builtin

import (
	"strings"

	"imdbload/internal/tsv"
)

// EscapeBackslash doubles backslash bytes in every field. The bulk-copy text
// protocol treats '\' as an escape introducer, so datasets whose fields can
// carry literal backslashes (e.g. quoted character names) must escape them
// before serialization or the ingest channel will misread the row.
type EscapeBackslash struct{}

// Apply rewrites fields in place; fields without a backslash are untouched.
func (EscapeBackslash) Apply(rec tsv.Record) (tsv.Record, error) {
	for i, f := range rec.Fields {
		if strings.IndexByte(f, '\\') < 0 {
			continue
		}
		// The \N null marker must survive escaping unchanged.
		if f == `\N` {
			continue
		}
		rec.Fields[i] = strings.ReplaceAll(f, `\`, `\\`)
	}
	return rec, nil
}
