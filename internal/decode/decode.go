// Package decode turns a gzipped staging file into a transformed,
// header-free, tab-delimited plain file ready for bulk copy.
//
// The whole conversion runs as one streaming pipeline:
//
//	gzip reader → tsv parser → row transform → tsv serializer → plain file
//
// The parse/transform side and the serialize/write side run as two
// goroutines joined by one bounded channel, so a slow disk applies
// backpressure up through decompression and peak memory stays around
// O(channel buffer), independent of file size.
//
// Any structural failure (corrupt gzip, malformed record, transform error)
// aborts the whole file with a *DecodeError. The destination file's content
// is undefined after a failure and must not be consumed.
package decode

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/errgroup"

	"imdbload/internal/transform"
	"imdbload/internal/tsv"
)

// DecodeError reports a failed decode: decompression, parsing, or a row
// transform. Line is the 1-based source line when known, 0 otherwise.
type DecodeError struct {
	Path string
	Line int
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("decode %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// defaultBuffer is the bounded channel capacity between the parse and write
// stages when the caller passes 0.
const defaultBuffer = 1024

// progressEveryN rows emit a reader heartbeat log line.
const progressEveryN = 5_000_000

// File decompresses src, parses it as tab-delimited records with a header
// row (quoting disabled, empty lines skipped), applies tr to every record,
// and writes the records back tab-delimited without the header to dst,
// truncating prior content. It returns the number of data rows written.
//
// bufferSize bounds the in-flight rows between the pipeline stages; 0 picks
// a default.
func File(ctx context.Context, src, dst string, tr transform.Transform, bufferSize int) (int64, error) {
	if tr == nil {
		return 0, &DecodeError{Path: src, Err: fmt.Errorf("nil transform (use the identity)")}
	}
	if bufferSize <= 0 {
		bufferSize = defaultBuffer
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, &DecodeError{Path: src, Err: err}
	}
	defer in.Close()

	gz, err := gzip.NewReader(in)
	if err != nil {
		return 0, &DecodeError{Path: src, Err: fmt.Errorf("gzip: %w", err)}
	}
	defer gz.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, &DecodeError{Path: dst, Err: err}
	}
	defer out.Close()

	rows := make(chan []string, bufferSize)
	g, ctx := errgroup.WithContext(ctx)

	// Parse + transform stage.
	g.Go(func() error {
		defer close(rows)

		r := tsv.NewReader(gz)
		if _, err := r.Header(); err != nil {
			return &DecodeError{Path: src, Line: r.Line(), Err: err}
		}
		for {
			rec, err := r.Read()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return &DecodeError{Path: src, Line: r.Line(), Err: err}
			}
			rec, err = tr.Apply(rec)
			if err != nil {
				return &DecodeError{Path: src, Line: r.Line(), Err: fmt.Errorf("transform: %w", err)}
			}
			select {
			case rows <- rec.Fields:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	// Serialize + write stage.
	var written int64
	g.Go(func() error {
		w := tsv.NewWriter(out)
		for fields := range rows {
			if err := w.Write(fields); err != nil {
				return &DecodeError{Path: dst, Err: fmt.Errorf("write: %w", err)}
			}
			written++
			if written%progressEveryN == 0 {
				log.Printf("decode: %s rows=%d", src, written)
			}
		}
		if err := w.Flush(); err != nil {
			return &DecodeError{Path: dst, Err: fmt.Errorf("flush: %w", err)}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return written, err
	}
	if err := out.Sync(); err != nil {
		return written, &DecodeError{Path: dst, Err: fmt.Errorf("sync: %w", err)}
	}
	return written, nil
}
