package catalog

import (
	"imdbload/internal/transform"
	"imdbload/internal/transform/builtin"
)

// DefaultBaseURL is the public archive origin the built-in catalog is
// published under.
const DefaultBaseURL = "https://datasets.imdbws.com/"

// IMDb returns the fixed set of IMDb dataset descriptors, in load order.
//
// Column types mirror the published dataset documentation: TEXT everywhere
// except numeric flags/years/counts. Fields use the \N marker for nulls,
// which the bulk-copy text protocol accepts natively, so no null rewriting
// happens in transforms.
//
// Transforms:
//   - Datasets whose free-text fields are known to carry literal backslashes
//     (people names, aka titles, principal character lists) escape them so
//     the copy protocol reads them verbatim.
//   - title_akas additionally normalizes its many-script titles to NFC.
func IMDb() []Dataset {
	return []Dataset{
		{
			Name:       "name_basics",
			RemoteFile: "name.basics.tsv.gz",
			Columns: []Column{
				{Name: "nconst", Type: "TEXT"},
				{Name: "primaryname", Type: "TEXT"},
				{Name: "birthyear", Type: "INTEGER"},
				{Name: "deathyear", Type: "INTEGER"},
				{Name: "primaryprofession", Type: "TEXT"},
				{Name: "knownfortitles", Type: "TEXT"},
			},
			Indexes:   []string{"nconst"},
			Transform: builtin.EscapeBackslash{},
		},
		{
			Name:       "title_akas",
			RemoteFile: "title.akas.tsv.gz",
			Columns: []Column{
				{Name: "titleid", Type: "TEXT"},
				{Name: "ordering", Type: "INTEGER"},
				{Name: "title", Type: "TEXT"},
				{Name: "region", Type: "TEXT"},
				{Name: "language", Type: "TEXT"},
				{Name: "types", Type: "TEXT"},
				{Name: "attributes", Type: "TEXT"},
				{Name: "isoriginaltitle", Type: "INTEGER"},
			},
			Indexes: []string{"titleid"},
			Transform: transform.Chain{
				builtin.NormalizeNFC{},
				builtin.EscapeBackslash{},
			},
		},
		{
			Name:       "title_basics",
			RemoteFile: "title.basics.tsv.gz",
			Columns: []Column{
				{Name: "tconst", Type: "TEXT"},
				{Name: "titletype", Type: "TEXT"},
				{Name: "primarytitle", Type: "TEXT"},
				{Name: "originaltitle", Type: "TEXT"},
				{Name: "isadult", Type: "INTEGER"},
				{Name: "startyear", Type: "INTEGER"},
				{Name: "endyear", Type: "INTEGER"},
				{Name: "runtimeminutes", Type: "INTEGER"},
				{Name: "genres", Type: "TEXT"},
			},
			Indexes:   []string{"tconst"},
			Transform: transform.Identity{},
		},
		{
			Name:       "title_crew",
			RemoteFile: "title.crew.tsv.gz",
			Columns: []Column{
				{Name: "tconst", Type: "TEXT"},
				{Name: "directors", Type: "TEXT"},
				{Name: "writers", Type: "TEXT"},
			},
			Indexes:   []string{"tconst"},
			Transform: transform.Identity{},
		},
		{
			Name:       "title_episode",
			RemoteFile: "title.episode.tsv.gz",
			Columns: []Column{
				{Name: "tconst", Type: "TEXT"},
				{Name: "parenttconst", Type: "TEXT"},
				{Name: "seasonnumber", Type: "INTEGER"},
				{Name: "episodenumber", Type: "INTEGER"},
			},
			Indexes:   []string{"tconst", "parenttconst"},
			Transform: transform.Identity{},
		},
		{
			Name:       "title_principals",
			RemoteFile: "title.principals.tsv.gz",
			Columns: []Column{
				{Name: "tconst", Type: "TEXT"},
				{Name: "ordering", Type: "INTEGER"},
				{Name: "nconst", Type: "TEXT"},
				{Name: "category", Type: "TEXT"},
				{Name: "job", Type: "TEXT"},
				{Name: "characters", Type: "TEXT"},
			},
			Indexes:   []string{"tconst", "nconst"},
			Transform: builtin.EscapeBackslash{},
		},
		{
			Name:       "title_ratings",
			RemoteFile: "title.ratings.tsv.gz",
			Columns: []Column{
				{Name: "tconst", Type: "TEXT"},
				{Name: "averagerating", Type: "NUMERIC(3,1)"},
				{Name: "numvotes", Type: "INTEGER"},
			},
			Indexes:   []string{"tconst"},
			Transform: transform.Identity{},
		},
	}
}
