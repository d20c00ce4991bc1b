// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: report.go — Result rows on stdout
//
// Purpose:
//   - Streams one row per measurement as soon as it exists.
//   - CSV: a header line once, written before the first row or on its own
//     when a run produces no rows, then comma-joined cells, floats with six
//     decimals. JSON: one object per line, keys equal to the CSV columns.
//
// Notes:
//   - Rows are flushed individually so a long sweep shows progress.
//   - Nothing but rows is ever written here; diagnostics go to debug.
// ─────────────────────────────────────────────────────────────────────────────

package report

import (
	"bufio"
	"io"
	"strings"

	"github.com/sugawarayuuta/sonnet"
)

// Format selects the row encoding.
type Format uint8

const (
	CSV Format = iota
	JSON
)

func (f Format) String() string {
	if f == JSON {
		return "json"
	}
	return "csv"
}

// ParseFormat accepts "csv" and "json".
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "csv":
		return CSV, true
	case "json":
		return JSON, true
	}
	return CSV, false
}

// Record is one result row.
type Record interface {
	// Columns is the CSV header, identical for every row of a type.
	Columns() []string
	// Cells renders the row in Columns order.
	Cells() []string
}

// Writer emits Records in one Format.
type Writer struct {
	out    *bufio.Writer
	format Format
	header bool
}

// New wraps w.
func New(w io.Writer, f Format) *Writer {
	return &Writer{out: bufio.NewWriter(w), format: f}
}

// Header writes the CSV header for r's type once, even if no row follows.
// JSON output has no header.
func (w *Writer) Header(r Record) error {
	if w.format == JSON || w.header {
		return nil
	}
	w.writeHeader(r)
	return w.out.Flush()
}

func (w *Writer) writeHeader(r Record) {
	w.out.WriteString(strings.Join(r.Columns(), ","))
	w.out.WriteByte('\n')
	w.header = true
}

// Write emits r (preceded by the header on the first CSV row) and flushes.
func (w *Writer) Write(r Record) error {
	if w.format == JSON {
		b, err := sonnet.Marshal(r)
		if err != nil {
			return err
		}
		w.out.Write(b)
		w.out.WriteByte('\n')
		return w.out.Flush()
	}
	if !w.header {
		w.writeHeader(r)
	}
	w.out.WriteString(strings.Join(r.Cells(), ","))
	w.out.WriteByte('\n')
	return w.out.Flush()
}
