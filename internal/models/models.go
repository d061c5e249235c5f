package models

import "github.com/tidwall/gjson"

// Shape tags a decoded JSON value so callers can branch on it exhaustively.
type Shape int

const (
	// ShapeOther covers null, booleans and non-integer numbers.
	ShapeOther Shape = iota
	ShapeArray
	ShapeObject
	// ShapeScalar is an integer or a string.
	ShapeScalar
)

// String returns a lower-case name for the shape, used in debug logging.
func (s Shape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeObject:
		return "object"
	case ShapeScalar:
		return "scalar"
	default:
		return "other"
	}
}

// Value is one decoded JSON value together with its shape.
// Object members keep their source order.
type Value struct {
	Shape  Shape
	Result gjson.Result
}

// IdentifierKind records where an identifier's text came from.
type IdentifierKind int

const (
	KindInteger IdentifierKind = iota
	KindString
	// KindRaw is an id field holding something other than an integer or
	// string, kept as its compact JSON text.
	KindRaw
)

// Identifier is a single movie ID.
type Identifier struct {
	Kind IdentifierKind
	Text string
}

// ExtractMode says which decoding path produced the identifiers.
type ExtractMode int

const (
	ModeDocument ExtractMode = iota
	ModeNDJSON
)

func (m ExtractMode) String() string {
	if m == ModeNDJSON {
		return "ndjson"
	}
	return "document"
}

// LineWarning is a non-fatal decode failure for one NDJSON line.
type LineWarning struct {
	Line int
	Err  error
}

// Result summarises one extraction pass.
type Result struct {
	Count      int
	Mode       ExtractMode
	Warnings   []LineWarning
	InputPath  string
	OutputPath string
}
