// Package extractor pulls movie identifiers out of a JSON document or, when
// the input is not a single JSON value, out of newline-delimited JSON.
package extractor

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	stderrors "errors"
	"github.com/mcncl/movieids/internal/config"
	"github.com/mcncl/movieids/internal/errors"
	"github.com/mcncl/movieids/internal/formatter"
	"github.com/mcncl/movieids/internal/models"
	"github.com/mcncl/movieids/internal/parser"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Extractor walks decoded input and writes every identifier it finds.
type Extractor struct {
	cfg       *config.Config
	log       logrus.FieldLogger
	formatter *formatter.Formatter
}

// NewExtractor creates an Extractor. A nil cfg uses the defaults.
func NewExtractor(cfg *config.Config, log logrus.FieldLogger) *Extractor {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Extractor{
		cfg:       cfg,
		log:       log,
		formatter: formatter.NewFormatter(),
	}
}

// ExtractFile truncates outputPath, extracts identifiers from inputPath into
// it and logs a summary. The output file is created before the input is
// opened, so a missing input still leaves an empty output behind.
func (e *Extractor) ExtractFile(inputPath, outputPath string) (res models.Result, err error) {
	res.InputPath, res.OutputPath = inputPath, outputPath

	if strings.TrimSpace(inputPath) == "" {
		return res, errors.NewInputError("input path is empty", errors.ErrInvalidFilePath)
	}
	if strings.TrimSpace(outputPath) == "" {
		return res, errors.NewOutputError("output path is empty", errors.ErrInvalidFilePath)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return res, errors.NewOutputError(fmt.Sprintf("failed to create output file '%s'", outputPath), err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = errors.NewOutputError(fmt.Sprintf("failed to close output file '%s'", outputPath), cerr)
		}
	}()

	in, err := os.Open(inputPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return res, errors.NewFileNotFoundError(inputPath)
		}
		return res, errors.NewInputError(fmt.Sprintf("failed to open file '%s'", inputPath), err)
	}
	defer func() {
		if cerr := in.Close(); cerr != nil {
			e.log.WithError(cerr).Warn("Error closing input file")
		}
	}()

	extracted, err := e.Extract(in, out)
	res.Count, res.Mode, res.Warnings = extracted.Count, extracted.Mode, extracted.Warnings
	if err != nil {
		return res, err
	}

	e.log.Infof("Successfully parsed %d movie IDs from %s", res.Count, inputPath)
	e.log.Infof("Output written to %s", outputPath)
	return res, nil
}

// Extract reads all of r and writes one identifier per line to w. If r does
// not hold exactly one JSON value, it is rewound and decoded line by line.
// Lines already written stay written when a later step fails.
func (e *Extractor) Extract(r io.ReadSeeker, w io.Writer) (models.Result, error) {
	res := models.Result{Mode: models.ModeDocument}
	lw := formatter.NewWriter(w)

	data, err := io.ReadAll(r)
	if err != nil {
		return res, errors.NewInputError("failed to read input", err)
	}
	if !utf8.Valid(data) {
		return res, errors.NewInputError("input is not valid UTF-8", errors.ErrInvalidEncoding)
	}

	if doc, ok := parser.TryDecodeDocument(data); ok {
		e.log.WithField("shape", doc.Shape).Debug("Decoded input as a single JSON document")
		err = e.extractDocument(doc, lw)
	} else {
		e.log.Info("Standard JSON failed, trying NDJSON format...")
		res.Mode = models.ModeNDJSON
		if _, serr := r.Seek(0, io.SeekStart); serr != nil {
			return res, errors.NewInputError("failed to rewind input", serr)
		}
		res.Warnings, err = e.extractLines(r, lw)
	}

	res.Count = lw.Count()
	if err != nil {
		_ = lw.Flush()
		return res, err
	}
	if err := lw.Flush(); err != nil {
		return res, errors.NewOutputError("failed to write output", err)
	}
	return res, nil
}

func (e *Extractor) extractDocument(doc models.Value, lw *formatter.Writer) error {
	switch doc.Shape {
	case models.ShapeArray:
		return e.extractElements(doc.Result.Array(), lw)
	case models.ShapeObject:
		return e.extractElements(e.candidates(doc.Result), lw)
	case models.ShapeScalar, models.ShapeOther:
		e.log.WithField("shape", doc.Shape).Debug("Top-level value holds no identifiers")
		return nil
	default:
		return nil
	}
}

// candidates picks the sequence to read identifiers from: the elements of
// the first list key holding a non-empty array, otherwise the member values of
// the object in key order.
func (e *Extractor) candidates(obj gjson.Result) []gjson.Result {
	for _, key := range e.cfg.ListKeys {
		if v, ok := parser.Member(obj, key); ok && parser.HasElements(v) {
			e.log.WithField("key", key).Debug("Using list key")
			return v.Array()
		}
	}
	e.log.Debug("No list key found, using every object value")
	return parser.Values(obj)
}

// extractElements applies the element rule to each item in order.
func (e *Extractor) extractElements(items []gjson.Result, lw *formatter.Writer) error {
	for _, item := range items {
		if err := e.extractValue(parser.Classify(item), lw); err != nil {
			return err
		}
	}
	return nil
}

// extractValue writes the identifier carried by v, if any: the id member of
// an object, or an integer or string itself. Everything else is skipped.
func (e *Extractor) extractValue(v models.Value, lw *formatter.Writer) error {
	var (
		id models.Identifier
		ok bool
	)
	switch v.Shape {
	case models.ShapeObject:
		var field gjson.Result
		if field, ok = parser.Member(v.Result, e.cfg.IDField); ok {
			id = e.formatter.Field(field)
		}
	case models.ShapeScalar:
		id, ok = e.formatter.Scalar(v)
	case models.ShapeArray, models.ShapeOther:
		// skipped
	}
	if !ok {
		return nil
	}
	if err := lw.Write(id); err != nil {
		return errors.NewOutputError("failed to write identifier", err)
	}
	return nil
}

func (e *Extractor) extractLines(r io.Reader, lw *formatter.Writer) ([]models.LineWarning, error) {
	var warnings []models.LineWarning

	lines := parser.NewLineReader(r)
	for lines.Next() {
		if len(bytes.TrimSpace(lines.Bytes())) == 0 {
			continue
		}
		v, err := parser.DecodeLine(lines.Bytes())
		if err != nil {
			warnings = append(warnings, models.LineWarning{Line: lines.Line(), Err: err})
			e.log.WithFields(logrus.Fields{
				"line":  lines.Line(),
				"error": err,
			}).Warnf("Skipping invalid JSON on line %d", lines.Line())
			continue
		}
		if err := e.extractValue(v, lw); err != nil {
			return warnings, err
		}
	}
	if err := lines.Err(); err != nil {
		return warnings, errors.NewInputError("failed to read input lines", err)
	}
	return warnings, nil
}
