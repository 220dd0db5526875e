// Package fetch streams one remote resource to a local staging file.
//
// Design goals:
//
//   - Keep a tiny, explicit API (Fetch).
//   - Move bytes from the socket to disk incrementally; never buffer the
//     whole payload in memory.
//   - No retries: a single failed attempt aborts the dataset. Partial
//     destination files are left in place for the orchestrator to clean up.
//   - Be easy to test by injecting a custom RoundTripper.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/zeebo/xxh3"
)

// TransferError reports a failed transfer: a non-success HTTP status, a
// transport error, a dropped connection mid-stream, or a destination that
// cannot be opened for writing.
type TransferError struct {
	URL    string
	Status int // HTTP status code, 0 when the failure was not status-related
	Err    error
}

func (e *TransferError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// Config configures the fetch client. Zero values are given sensible
// defaults: Timeout 0 (no per-request timeout; dataset files are large and
// the contract defines no cancellation mechanism), default transport.
type Config struct {
	// Timeout is the per-request timeout applied at the http.Client level.
	// Zero means no timeout.
	Timeout time.Duration

	// Transport is an optional custom RoundTripper, injectable for tests.
	Transport http.RoundTripper
}

// Client performs single-attempt streaming downloads.
type Client struct {
	httpClient *http.Client
}

// NewClient constructs a Client from Config.
func NewClient(cfg Config) *Client {
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
	}
}

// Fetch retrieves url and writes the response body verbatim to dst,
// overwriting any existing file. It returns the number of bytes written.
//
// On any failure a *TransferError is returned and whatever was written to
// dst so far is left in place; Fetch never deletes the destination.
func (c *Client) Fetch(ctx context.Context, url, dst string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, &TransferError{URL: url, Err: fmt.Errorf("build request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &TransferError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &TransferError{URL: url, Status: resp.StatusCode}
	}

	f, err := os.Create(dst)
	if err != nil {
		return 0, &TransferError{URL: url, Err: fmt.Errorf("open destination: %w", err)}
	}

	// Hash while copying so large files are read exactly once.
	h := xxh3.New()
	n, copyErr := io.Copy(io.MultiWriter(f, h), resp.Body)
	closeErr := f.Close()

	if copyErr != nil {
		return n, &TransferError{URL: url, Err: fmt.Errorf("copy body: %w", copyErr)}
	}
	if closeErr != nil {
		return n, &TransferError{URL: url, Err: fmt.Errorf("close destination: %w", closeErr)}
	}

	log.Printf("fetch: url=%s size=%s xxh3=%016x dst=%s",
		url, humanize.IBytes(uint64(n)), h.Sum64(), dst)

	return n, nil
}
