package builtin

import (
	"golang.org/x/text/unicode/norm"

	"imdbload/internal/tsv"
)

// NormalizeNFC canonicalizes every field to Unicode NFC. Title dumps mix
// composed and decomposed forms across regions; normalizing keeps equality
// comparisons and indexes on text columns stable.
type NormalizeNFC struct{}

// Apply rewrites only fields that are not already in NFC.
func (NormalizeNFC) Apply(rec tsv.Record) (tsv.Record, error) {
	for i, f := range rec.Fields {
		if norm.NFC.IsNormalString(f) {
			continue
		}
		rec.Fields[i] = norm.NFC.String(f)
	}
	return rec, nil
}
