package catalog

import (
	"strings"
	"testing"

	"imdbload/internal/transform"
)

func valid() []Dataset {
	return []Dataset{
		{
			Name:       "things",
			RemoteFile: "things.tsv.gz",
			Columns:    []Column{{Name: "id", Type: "TEXT"}, {Name: "n", Type: "INTEGER"}},
			Indexes:    []string{"id"},
			Transform:  transform.Identity{},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()

	if err := Validate(valid()); err != nil {
		t.Fatalf("valid catalog rejected: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(ds []Dataset) []Dataset
		wantSub string
	}{
		{
			name:    "empty dataset name",
			mutate:  func(ds []Dataset) []Dataset { ds[0].Name = " "; return ds },
			wantSub: "name must not be empty",
		},
		{
			name:    "duplicate dataset name",
			mutate:  func(ds []Dataset) []Dataset { return append(ds, ds[0]) },
			wantSub: "duplicate dataset name",
		},
		{
			name:    "empty remote file",
			mutate:  func(ds []Dataset) []Dataset { ds[0].RemoteFile = ""; return ds },
			wantSub: "remote file must not be empty",
		},
		{
			name:    "no columns",
			mutate:  func(ds []Dataset) []Dataset { ds[0].Columns = nil; return ds },
			wantSub: "at least one column",
		},
		{
			name: "duplicate column",
			mutate: func(ds []Dataset) []Dataset {
				ds[0].Columns = append(ds[0].Columns, Column{Name: "id", Type: "TEXT"})
				return ds
			},
			wantSub: "duplicate column",
		},
		{
			name:    "index column missing",
			mutate:  func(ds []Dataset) []Dataset { ds[0].Indexes = []string{"nope"}; return ds },
			wantSub: "not in columns",
		},
		{
			name:    "nil transform",
			mutate:  func(ds []Dataset) []Dataset { ds[0].Transform = nil; return ds },
			wantSub: "transform must not be nil",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.mutate(valid()))
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantSub)
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("error %q does not contain %q", err, tc.wantSub)
			}
		})
	}
}

func TestIMDb_PassesValidation(t *testing.T) {
	t.Parallel()

	ds := IMDb()
	if err := Validate(ds); err != nil {
		t.Fatalf("built-in catalog invalid: %v", err)
	}
	if len(ds) != 7 {
		t.Errorf("expected 7 datasets, got %d", len(ds))
	}
}

func TestIMDb_Order(t *testing.T) {
	t.Parallel()

	want := []string{
		"name_basics", "title_akas", "title_basics", "title_crew",
		"title_episode", "title_principals", "title_ratings",
	}
	ds := IMDb()
	for i, d := range ds {
		if d.Name != want[i] {
			t.Errorf("dataset[%d] = %s, want %s", i, d.Name, want[i])
		}
	}
}

func TestColumnNames(t *testing.T) {
	t.Parallel()

	d := valid()[0]
	names := d.ColumnNames()
	if len(names) != 2 || names[0] != "id" || names[1] != "n" {
		t.Errorf("ColumnNames = %v", names)
	}
}
