package postgres

import (
	"fmt"
	"strings"

	"imdbload/internal/catalog"
)

// DDL rendering for dataset descriptors. Statements are composed from
// trusted descriptor strings; identifiers are quoted, types and the rest of
// the column definition are emitted verbatim.

// BuildCreateTableSQL renders CREATE TABLE IF NOT EXISTS for the dataset.
// It is a no-op server-side when the table already exists, whatever its
// shape (no migration).
func BuildCreateTableSQL(ds catalog.Dataset) string {
	defs := make([]string, len(ds.Columns))
	for i, c := range ds.Columns {
		defs[i] = pgIdent(c.Name) + " " + c.Type
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		pgIdent(ds.Name), strings.Join(defs, ", "))
}

// BuildTruncateSQL renders the unconditional per-run TRUNCATE.
func BuildTruncateSQL(ds catalog.Dataset) string {
	return "TRUNCATE " + pgIdent(ds.Name)
}

// BuildCreateIndexSQL renders one CREATE INDEX IF NOT EXISTS statement per
// declared index column, named idx_<table>_<col>. Each statement runs
// independently; callers stop at the first failure.
func BuildCreateIndexSQL(ds catalog.Dataset) []string {
	out := make([]string, len(ds.Indexes))
	for i, col := range ds.Indexes {
		out[i] = fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
			pgIdent("idx_"+ds.Name+"_"+col), pgIdent(ds.Name), pgIdent(col))
	}
	return out
}

// BuildCopySQL renders the COPY ... FROM STDIN statement for the dataset.
// The text format's defaults match the transformed stream exactly: tab
// delimiter, \N nulls, no header.
func BuildCopySQL(ds catalog.Dataset) string {
	cols := make([]string, len(ds.Columns))
	for i, c := range ds.Columns {
		cols[i] = pgIdent(c.Name)
	}
	return fmt.Sprintf("COPY %s (%s) FROM STDIN",
		pgIdent(ds.Name), strings.Join(cols, ", "))
}

// pgIdent safely quotes a single identifier segment for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }
