// Package catalog defines the static dataset descriptors that drive the
// import run: target table shape, index columns, remote file name, and the
// per-dataset row transform. Descriptors are constructed once at startup and
// are read-only for the process lifetime.
//
// The catalog is data plus the transform strategy it selects: all other
// behavior lives in the fetch/decode/storage packages that consume it.
package catalog

import (
	"fmt"
	"strings"

	"imdbload/internal/transform"
)

// Column is one target table column in declaration order. Type is a raw SQL
// type expression (descriptor content is trusted, not user input).
type Column struct {
	Name string
	Type string
}

// Def renders the column as it appears inside CREATE TABLE.
func (c Column) Def() string { return c.Name + " " + c.Type }

// Dataset describes one remote dataset file and its destination table.
type Dataset struct {
	// Name is the unique dataset identifier, used as the table name and as
	// the staging-file identifier.
	Name string

	// RemoteFile is the path segment appended to the archive base URL, e.g.
	// "title.basics.tsv.gz". Staging file names derive from it.
	RemoteFile string

	// Columns is the ordered list of target columns; it defines the table
	// DDL and the expected field order of the transformed stream.
	Columns []Column

	// Indexes lists column names to index (order irrelevant). Each becomes
	// idx_<name>_<col>.
	Indexes []string

	// Transform is the per-row transform applied during decode. It is never
	// nil in a valid catalog; datasets without cleanup use the identity.
	Transform transform.Transform
}

// ColumnNames returns the declared column names in order.
func (d Dataset) ColumnNames() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Name
	}
	return out
}

// Validate checks a catalog for structural problems: duplicate or empty
// dataset names, empty column lists, index columns that do not exist, and
// missing transforms. It returns the first problem found.
func Validate(datasets []Dataset) error {
	seen := make(map[string]struct{}, len(datasets))
	for i, d := range datasets {
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("catalog[%d]: dataset name must not be empty", i)
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("catalog[%d]: duplicate dataset name %q", i, d.Name)
		}
		seen[d.Name] = struct{}{}

		if strings.TrimSpace(d.RemoteFile) == "" {
			return fmt.Errorf("catalog[%d] %s: remote file must not be empty", i, d.Name)
		}
		if len(d.Columns) == 0 {
			return fmt.Errorf("catalog[%d] %s: at least one column is required", i, d.Name)
		}
		cols := make(map[string]struct{}, len(d.Columns))
		for _, c := range d.Columns {
			if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Type) == "" {
				return fmt.Errorf("catalog[%d] %s: column with empty name or type", i, d.Name)
			}
			if _, dup := cols[c.Name]; dup {
				return fmt.Errorf("catalog[%d] %s: duplicate column %q", i, d.Name, c.Name)
			}
			cols[c.Name] = struct{}{}
		}
		for _, ix := range d.Indexes {
			if _, ok := cols[ix]; !ok {
				return fmt.Errorf("catalog[%d] %s: index column %q not in columns", i, d.Name, ix)
			}
		}
		if d.Transform == nil {
			return fmt.Errorf("catalog[%d] %s: transform must not be nil (use the identity)", i, d.Name)
		}
	}
	return nil
}
