package parser

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	stderrors "errors" // Standard errors package
	"github.com/mcncl/movieids/internal/errors" // Custom errors package
	"github.com/mcncl/movieids/internal/models"
	"github.com/tidwall/gjson"
)

// TryDecodeDocument decodes data as exactly one JSON value. It reports false
// for anything else, including empty input and several concatenated values,
// so the caller can fall back to line-by-line decoding.
func TryDecodeDocument(data []byte) (models.Value, bool) {
	if !gjson.ValidBytes(data) {
		return models.Value{}, false
	}
	return Classify(gjson.ParseBytes(data)), true
}

// DecodeLine decodes a single NDJSON line. Surrounding whitespace is ignored.
func DecodeLine(line []byte) (models.Value, error) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return models.Value{}, errors.NewParsingError("line is empty", errors.ErrEmptyLine)
	}
	if !gjson.ValidBytes(trimmed) {
		return models.Value{}, describeInvalid(trimmed)
	}
	return Classify(gjson.ParseBytes(trimmed)), nil
}

// Classify tags a gjson result with its shape.
func Classify(r gjson.Result) models.Value {
	v := models.Value{Result: r}
	switch {
	case r.IsArray():
		v.Shape = models.ShapeArray
	case r.IsObject():
		v.Shape = models.ShapeObject
	case r.Type == gjson.String:
		v.Shape = models.ShapeScalar
	case r.Type == gjson.Number && IsInteger(r.Raw):
		v.Shape = models.ShapeScalar
	default:
		v.Shape = models.ShapeOther
	}
	return v
}

// IsInteger reports whether a raw JSON number has no fraction or exponent.
func IsInteger(raw string) bool {
	raw = strings.TrimSpace(raw)
	return raw != "" && !strings.ContainsAny(raw, ".eE")
}

// Member looks up key on a JSON object by exact name. Keys are not treated
// as gjson paths, so "a.b" only matches a member literally named "a.b".
// When a key repeats, the last occurrence wins.
func Member(obj gjson.Result, key string) (gjson.Result, bool) {
	var (
		found gjson.Result
		ok    bool
	)
	if !obj.IsObject() {
		return found, false
	}
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.Str == key {
			found, ok = v, true
		}
		return true
	})
	return found, ok
}

// Values returns the member values of obj in the order their keys first
// appear. A repeated key keeps its first position and takes its last value,
// agreeing with Member.
func Values(obj gjson.Result) []gjson.Result {
	var values []gjson.Result
	if !obj.IsObject() {
		return values
	}
	index := make(map[string]int)
	obj.ForEach(func(k, v gjson.Result) bool {
		if i, seen := index[k.Str]; seen {
			values[i] = v
			return true
		}
		index[k.Str] = len(values)
		values = append(values, v)
		return true
	})
	return values
}

// HasElements reports whether r is an array with at least one element.
func HasElements(r gjson.Result) bool {
	if !r.IsArray() {
		return false
	}
	nonEmpty := false
	r.ForEach(func(_, _ gjson.Result) bool {
		nonEmpty = true
		return false
	})
	return nonEmpty
}

// describeInvalid turns a rejected line into a parsing error that carries the
// offset and reason reported by encoding/json.
func describeInvalid(data []byte) error {
	var scratch interface{}
	err := json.Unmarshal(data, &scratch)

	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d: %v", syntaxError.Offset, syntaxError),
			errors.ErrInvalidJSON,
		)
	}
	if err != nil {
		return errors.NewParsingError(fmt.Sprintf("failed to decode JSON: %v", err), errors.ErrInvalidJSON)
	}
	return errors.NewParsingError("failed to decode JSON", errors.ErrInvalidJSON)
}

// LineReader yields the raw lines of an input one at a time, numbering them
// from 1. A line ends at "\n", "\r\n" or a lone "\r". Blank lines are
// returned and counted. Line length is unbounded.
type LineReader struct {
	reader *bufio.Reader
	line   int
	text   []byte
	err    error
}

// NewLineReader wraps r for line-by-line reading.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{reader: bufio.NewReader(r)}
}

// Next advances to the next line. It returns false at end of input or on a
// read error, which Err then reports.
func (lr *LineReader) Next() bool {
	if lr.err != nil {
		return false
	}
	text, err := lr.readLine()
	if err != nil {
		if !stderrors.Is(err, io.EOF) {
			lr.err = err
			return false
		}
		lr.err = io.EOF
		if len(text) == 0 {
			return false
		}
	}
	lr.line++
	lr.text = text
	return true
}

// readLine reads up to and including the next line terminator. A "\r"
// directly followed by "\n" is kept as one terminator.
func (lr *LineReader) readLine() ([]byte, error) {
	var line []byte
	for {
		c, err := lr.reader.ReadByte()
		if err != nil {
			return line, err
		}
		line = append(line, c)
		switch c {
		case '\n':
			return line, nil
		case '\r':
			if next, err := lr.reader.Peek(1); err == nil && next[0] == '\n' {
				_, _ = lr.reader.ReadByte()
				line = append(line, '\n')
			}
			return line, nil
		}
	}
}

// Line returns the 1-based number of the current line.
func (lr *LineReader) Line() int {
	return lr.line
}

// Bytes returns the current line, terminator included.
func (lr *LineReader) Bytes() []byte {
	return lr.text
}

// Err returns the first non-EOF read error.
func (lr *LineReader) Err() error {
	if stderrors.Is(lr.err, io.EOF) {
		return nil
	}
	return lr.err
}
