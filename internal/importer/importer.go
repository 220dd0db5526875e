// Package importer orchestrates the full run: it iterates the dataset
// catalog in order and drives fetch → decode → load per dataset, managing
// staging-file lifecycle and the overall failure policy.
//
// Failure policy is fail-fast: the first stage error aborts the run, is
// logged once here, and is propagated to the caller unchanged (the stage
// packages' typed errors stay visible through errors.As). No further
// datasets are attempted. Staging files are removed unconditionally after a
// successful import; on failure cleanup is best-effort only — except that a
// destination file left behind by a failed decode is always removed, since
// its content is undefined and must never reach the loader.
//
// The caller owns the repository teardown: close the pool via defer so it
// happens exactly once whether the run succeeds or fails.
package importer

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"imdbload/internal/catalog"
	"imdbload/internal/decode"
	"imdbload/internal/fetch"
	"imdbload/internal/metrics"
	"imdbload/internal/storage/postgres"
	"imdbload/internal/transform"
)

// Runner drives one full import run over a catalog.
type Runner struct {
	// Job names the run for logs and metrics.
	Job string

	// Catalog is the ordered list of datasets to import.
	Catalog []catalog.Dataset

	// BaseURL is the remote archive origin; dataset RemoteFile values are
	// resolved against it.
	BaseURL string

	// StagingDir holds the per-dataset compressed and transformed files.
	// Created if absent.
	StagingDir string

	// Fetcher performs downloads.
	Fetcher *fetch.Client

	// Repo performs table provisioning and bulk copy.
	Repo *postgres.Repository

	// ChannelBuffer bounds the decode pipeline's in-flight rows; 0 picks
	// the decode default.
	ChannelBuffer int

	// Function seams for tests; nil values use the real implementations.
	fetchFn  func(ctx context.Context, url, dst string) (int64, error)
	decodeFn func(ctx context.Context, src, dst string, tr transform.Transform, buffer int) (int64, error)
	importFn func(ctx context.Context, ds catalog.Dataset, path string) (int64, error)
}

// stagePaths returns the compressed and transformed staging paths for a
// dataset, both derived deterministically from its remote file name.
func (r *Runner) stagePaths(ds catalog.Dataset) (gzPath, plainPath string) {
	gzPath = filepath.Join(r.StagingDir, ds.RemoteFile)
	plainPath = strings.TrimSuffix(gzPath, ".gz")
	if plainPath == gzPath {
		plainPath = gzPath + ".plain"
	}
	return gzPath, plainPath
}

// remoteURL resolves a dataset's file against the base URL.
func (r *Runner) remoteURL(ds catalog.Dataset) (string, error) {
	base, err := url.Parse(r.BaseURL)
	if err != nil {
		return "", fmt.Errorf("base url: %w", err)
	}
	ref, err := url.Parse(ds.RemoteFile)
	if err != nil {
		return "", fmt.Errorf("remote file: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}

// Run processes every catalog dataset strictly in order. It returns the
// first stage error, unchanged, after logging it; nil when all datasets
// imported successfully.
func (r *Runner) Run(ctx context.Context) error {
	if err := catalog.Validate(r.Catalog); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if err := os.MkdirAll(r.StagingDir, 0o755); err != nil {
		return fmt.Errorf("staging dir: %w", err)
	}

	fetchFn := r.fetchFn
	if fetchFn == nil {
		fetchFn = r.Fetcher.Fetch
	}
	decodeFn := r.decodeFn
	if decodeFn == nil {
		decodeFn = decode.File
	}
	importFn := r.importFn
	if importFn == nil {
		importFn = r.Repo.ImportFile
	}

	start := time.Now()
	for i, ds := range r.Catalog {
		if err := r.runDataset(ctx, ds, fetchFn, decodeFn, importFn); err != nil {
			log.Printf("run failed: dataset=%s state=%s err=%v", ds.Name, StateFailed, err)
			return err
		}
		log.Printf("dataset %d/%d %s: state=%s", i+1, len(r.Catalog), ds.Name, StateDone)
	}

	log.Printf("run complete: datasets=%d elapsed=%s",
		len(r.Catalog), time.Since(start).Truncate(time.Millisecond))
	return nil
}

// runDataset drives one dataset through the state machine. Both staging
// files are deleted unconditionally after a successful import; on failure
// only a decode-damaged destination file is removed.
func (r *Runner) runDataset(
	ctx context.Context,
	ds catalog.Dataset,
	fetchFn func(ctx context.Context, url, dst string) (int64, error),
	decodeFn func(ctx context.Context, src, dst string, tr transform.Transform, buffer int) (int64, error),
	importFn func(ctx context.Context, ds catalog.Dataset, path string) (int64, error),
) error {
	gzPath, plainPath := r.stagePaths(ds)

	src, err := r.remoteURL(ds)
	if err != nil {
		return err
	}

	log.Printf("dataset %s: state=%s", ds.Name, StateDownloading)
	stageStart := time.Now()
	bytes, err := fetchFn(ctx, src, gzPath)
	metrics.RecordStage(r.Job, ds.Name, "fetch", err, time.Since(stageStart))
	if err != nil {
		return err
	}
	metrics.RecordBytes(r.Job, ds.Name, bytes)

	log.Printf("dataset %s: state=%s", ds.Name, StateExtracting)
	stageStart = time.Now()
	decoded, err := decodeFn(ctx, gzPath, plainPath, ds.Transform, r.ChannelBuffer)
	metrics.RecordStage(r.Job, ds.Name, "decode", err, time.Since(stageStart))
	if err != nil {
		// The destination's content is undefined after a decode failure;
		// never leave it around to be mistaken for valid loader input.
		if rmErr := os.Remove(plainPath); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Printf("dataset %s: remove %s: %v", ds.Name, plainPath, rmErr)
		}
		return err
	}
	metrics.RecordRows(r.Job, ds.Name, "decoded", decoded)

	log.Printf("dataset %s: state=%s rows=%d", ds.Name, StateImporting, decoded)
	stageStart = time.Now()
	loaded, err := importFn(ctx, ds, plainPath)
	metrics.RecordStage(r.Job, ds.Name, "import", err, time.Since(stageStart))
	if err != nil {
		return err
	}
	metrics.RecordRows(r.Job, ds.Name, "loaded", loaded)

	for _, p := range []string{gzPath, plainPath} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			log.Printf("dataset %s: remove %s: %v", ds.Name, p, err)
		}
	}
	log.Printf("dataset %s: state=%s", ds.Name, StateCleaned)

	return nil
}
