package postgres

import (
	"errors"
	"testing"

	"imdbload/internal/catalog"
	"imdbload/internal/transform"
)

func sampleDataset() catalog.Dataset {
	return catalog.Dataset{
		Name:       "title_ratings",
		RemoteFile: "title.ratings.tsv.gz",
		Columns: []catalog.Column{
			{Name: "tconst", Type: "TEXT"},
			{Name: "averagerating", Type: "NUMERIC(3,1)"},
			{Name: "numvotes", Type: "INTEGER"},
		},
		Indexes:   []string{"tconst"},
		Transform: transform.Identity{},
	}
}

func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	got := BuildCreateTableSQL(sampleDataset())
	want := `CREATE TABLE IF NOT EXISTS "title_ratings" ("tconst" TEXT, "averagerating" NUMERIC(3,1), "numvotes" INTEGER)`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestBuildTruncateSQL(t *testing.T) {
	t.Parallel()

	if got := BuildTruncateSQL(sampleDataset()); got != `TRUNCATE "title_ratings"` {
		t.Errorf("got %s", got)
	}
}

func TestBuildCreateIndexSQL(t *testing.T) {
	t.Parallel()

	ds := sampleDataset()
	ds.Indexes = []string{"tconst", "numvotes"}
	got := BuildCreateIndexSQL(ds)
	want := []string{
		`CREATE INDEX IF NOT EXISTS "idx_title_ratings_tconst" ON "title_ratings" ("tconst")`,
		`CREATE INDEX IF NOT EXISTS "idx_title_ratings_numvotes" ON "title_ratings" ("numvotes")`,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d statements, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] got  %s\n    want %s", i, got[i], want[i])
		}
	}
}

func TestBuildCreateIndexSQL_NoIndexes(t *testing.T) {
	t.Parallel()

	ds := sampleDataset()
	ds.Indexes = nil
	if got := BuildCreateIndexSQL(ds); len(got) != 0 {
		t.Errorf("expected no statements, got %v", got)
	}
}

func TestBuildCopySQL(t *testing.T) {
	t.Parallel()

	got := BuildCopySQL(sampleDataset())
	want := `COPY "title_ratings" ("tconst", "averagerating", "numvotes") FROM STDIN`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestPgIdent(t *testing.T) {
	t.Parallel()

	if got := pgIdent(`we"ird`); got != `"we""ird"` {
		t.Errorf("pgIdent = %s", got)
	}
}

func TestLoadError(t *testing.T) {
	t.Parallel()

	cause := errors.New("relation busy")
	err := &LoadError{Table: "title_crew", Op: "truncate", Err: cause}
	if err.Error() != "load title_crew: truncate: relation busy" {
		t.Errorf("Error() = %s", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Errorf("cause not unwrapped")
	}
}
