// Package transform defines the row-transform strategy applied between
// decoding and loading. A Transform is a pure mapping from one record to
// another; datasets without cleanup needs use the explicit Identity variant
// rather than a nil function, so callers never need nil checks.
//
// Transforms run row-by-row inside the streaming decode pipeline. An error
// from any row aborts the whole file; there is no partial-row skipping.
package transform

import (
	"fmt"

	"imdbload/internal/tsv"
)

// Transform maps one record to another. Implementations must be pure: no
// retained references to the input, no side effects. Returning an error
// aborts the file being processed.
type Transform interface {
	Apply(rec tsv.Record) (tsv.Record, error)
}

// Identity passes records through unchanged. It is the canonical "no
// transform" value for catalog entries.
type Identity struct{}

// Apply returns rec unchanged.
func (Identity) Apply(rec tsv.Record) (tsv.Record, error) { return rec, nil }

// Func adapts a plain function to the Transform interface.
type Func func(rec tsv.Record) (tsv.Record, error)

// Apply invokes the underlying function.
func (f Func) Apply(rec tsv.Record) (tsv.Record, error) { return f(rec) }

// Chain applies a sequence of transforms left to right, stopping at the
// first error.
type Chain []Transform

// Apply runs each transform in order on the (possibly rewritten) record.
func (c Chain) Apply(rec tsv.Record) (tsv.Record, error) {
	var err error
	for i, t := range c {
		rec, err = t.Apply(rec)
		if err != nil {
			return rec, fmt.Errorf("transform[%d]: %w", i, err)
		}
	}
	return rec, nil
}
