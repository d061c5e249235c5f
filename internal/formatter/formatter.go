package formatter

import (
	"bufio"
	"io"
	"strings"

	"github.com/mcncl/movieids/internal/models"
	"github.com/mcncl/movieids/internal/parser"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Formatter turns decoded JSON values into identifier text
type Formatter struct{}

// NewFormatter creates a new Formatter instance
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Scalar renders an integer or string element. Any other shape is rejected.
func (f *Formatter) Scalar(v models.Value) (models.Identifier, bool) {
	if v.Shape != models.ShapeScalar {
		return models.Identifier{}, false
	}
	if v.Result.Type == gjson.String {
		return models.Identifier{Kind: models.KindString, Text: v.Result.Str}, true
	}
	// Raw keeps integers wider than float64 intact.
	return models.Identifier{Kind: models.KindInteger, Text: integerText(v.Result.Raw)}, true
}

// Field renders the value of an id member. Every JSON type is accepted:
// strings lose their quotes, numbers and literals keep their source text and
// containers are compacted onto a single line.
func (f *Formatter) Field(r gjson.Result) models.Identifier {
	switch r.Type {
	case gjson.String:
		return models.Identifier{Kind: models.KindString, Text: r.Str}
	case gjson.Number:
		raw := strings.TrimSpace(r.Raw)
		if parser.IsInteger(raw) {
			return models.Identifier{Kind: models.KindInteger, Text: integerText(raw)}
		}
		return models.Identifier{Kind: models.KindRaw, Text: raw}
	case gjson.JSON:
		return models.Identifier{Kind: models.KindRaw, Text: string(pretty.Ugly([]byte(r.Raw)))}
	default:
		return models.Identifier{Kind: models.KindRaw, Text: strings.TrimSpace(r.Raw)}
	}
}

// integerText renders a raw JSON integer in plain decimal. JSON forbids
// leading zeros, so negative zero is the only spelling to normalise.
func integerText(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "-0" {
		return "0"
	}
	return raw
}

// Line returns the output line for an identifier, terminator included.
func (f *Formatter) Line(id models.Identifier) string {
	return id.Text + "\n"
}

// Writer streams identifiers to an output, one per line, counting each one
// that was accepted by the underlying buffer.
type Writer struct {
	formatter *Formatter
	buf       *bufio.Writer
	count     int
}

// NewWriter wraps w. Call Flush once all identifiers have been written.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		formatter: NewFormatter(),
		buf:       bufio.NewWriter(w),
	}
}

// Write appends one identifier line.
func (w *Writer) Write(id models.Identifier) error {
	if _, err := w.buf.WriteString(w.formatter.Line(id)); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns the number of identifiers written so far.
func (w *Writer) Count() int {
	return w.count
}

// Flush writes any buffered lines to the underlying writer.
func (w *Writer) Flush() error {
	return w.buf.Flush()
}
