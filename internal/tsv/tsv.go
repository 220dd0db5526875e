// Package tsv implements streaming readers and writers for the tab-separated
// dataset dumps this project ingests. The format is deliberately simpler than
// RFC-4180 CSV: fields never carry quote escaping, so a `"` byte is an
// ordinary character and tabs are the only structural bytes on a line.
//
// Design goals:
//
//   - Read line-by-line with bounded memory; no whole-file buffering.
//   - Take field bytes literally (quoting disabled); encoding/csv cannot be
//     configured this way, so splitting is done directly on '\t'.
//   - Enforce the header's field count on every data record and surface a
//     structural error instead of silently dropping or padding rows.
package tsv

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Header describes the column names read from the first record of a file.
// It is shared by every Record the reader emits.
type Header struct {
	Names []string

	index map[string]int
}

// NewHeader builds a Header from column names. Duplicate names keep the
// first occurrence for lookups.
func NewHeader(names []string) *Header {
	h := &Header{
		Names: names,
		index: make(map[string]int, len(names)),
	}
	for i, n := range names {
		if _, ok := h.index[n]; !ok {
			h.index[n] = i
		}
	}
	return h
}

// Index returns the position of the named column, or -1 when absent.
func (h *Header) Index(name string) int {
	if i, ok := h.index[name]; ok {
		return i
	}
	return -1
}

// Record is one data row: ordered field values keyed by header name.
type Record struct {
	Header *Header
	Fields []string
}

// Get returns the value of the named field, or "" when the header does not
// contain the name.
func (r Record) Get(name string) string {
	i := r.Header.Index(name)
	if i < 0 || i >= len(r.Fields) {
		return ""
	}
	return r.Fields[i]
}

// Set overwrites the named field in place. Unknown names are ignored.
func (r Record) Set(name, value string) {
	i := r.Header.Index(name)
	if i >= 0 && i < len(r.Fields) {
		r.Fields[i] = value
	}
}

// Reader reads tab-separated records from an underlying stream.
//
// The first non-empty line is the header. Empty lines anywhere in the input
// are skipped. Every data record must have exactly as many fields as the
// header; a mismatch is a structural error that aborts the stream.
type Reader struct {
	br     *bufio.Reader
	header *Header
	line   int
}

// NewReader wraps r. The header is read lazily on the first call to Header
// or Read.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 64*1024)}
}

// Line reports the 1-based line number of the most recently read line.
func (r *Reader) Line() int { return r.line }

// readLine returns the next non-empty line without its trailing newline.
// A final line without a newline is returned as-is. io.EOF signals the end
// of the stream.
func (r *Reader) readLine() (string, error) {
	for {
		s, err := r.br.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		if s == "" && err == io.EOF {
			return "", io.EOF
		}
		r.line++
		s = strings.TrimSuffix(s, "\n")
		s = strings.TrimSuffix(s, "\r")
		if s == "" {
			if err == io.EOF {
				return "", io.EOF
			}
			continue // skip empty line
		}
		return s, nil
	}
}

// Header returns the file's header, reading it from the stream if needed.
func (r *Reader) Header() (*Header, error) {
	if r.header != nil {
		return r.header, nil
	}
	s, err := r.readLine()
	if err == io.EOF {
		return nil, fmt.Errorf("tsv: missing header: %w", io.ErrUnexpectedEOF)
	}
	if err != nil {
		return nil, fmt.Errorf("tsv: read header: %w", err)
	}
	names := strings.Split(s, "\t")
	if len(names) == 1 && names[0] == "" {
		return nil, fmt.Errorf("tsv: empty header at line %d", r.line)
	}
	r.header = NewHeader(names)
	return r.header, nil
}

// Read returns the next data record. It returns io.EOF at the end of the
// stream and a structural error when a record's field count differs from
// the header's.
func (r *Reader) Read() (Record, error) {
	if r.header == nil {
		if _, err := r.Header(); err != nil {
			return Record{}, err
		}
	}
	s, err := r.readLine()
	if err == io.EOF {
		return Record{}, io.EOF
	}
	if err != nil {
		return Record{}, fmt.Errorf("tsv: read line %d: %w", r.line+1, err)
	}
	fields := strings.Split(s, "\t")
	if len(fields) != len(r.header.Names) {
		return Record{}, fmt.Errorf(
			"tsv: line %d: field count mismatch: expected %d, got %d",
			r.line, len(r.header.Names), len(fields),
		)
	}
	return Record{Header: r.header, Fields: fields}, nil
}

// Writer re-serializes records as tab-delimited lines without a header row.
// Field values are written byte-for-byte; callers are responsible for
// ensuring fields contain no tab or newline bytes.
type Writer struct {
	bw *bufio.Writer
}

// NewWriter wraps w with an internal buffer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriterSize(w, 64*1024)}
}

// Write emits one record's fields joined by tabs, terminated by '\n'.
func (w *Writer) Write(fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.bw.WriteByte('\t'); err != nil {
				return err
			}
		}
		if _, err := w.bw.WriteString(f); err != nil {
			return err
		}
	}
	return w.bw.WriteByte('\n')
}

// Flush writes any buffered bytes to the underlying writer.
func (w *Writer) Flush() error { return w.bw.Flush() }
