// Package factory builds the statement parser matching a file format.
package factory

import (
	"fmt"

	"fjacquet/fincat/internal/csvparser"
	"fjacquet/fincat/internal/logging"
	"fjacquet/fincat/internal/models"
	"fjacquet/fincat/internal/ofxparser"
	"fjacquet/fincat/internal/parser"
	"fjacquet/fincat/internal/parsererror"
)

// Options tunes the parsers the factory builds. The zero value uses every
// parser default.
type Options struct {
	CSVEncoding   string
	CSVSampleSize int
	Clock         parser.Clock
}

// GetParser returns a parser for format using the default logger.
func GetParser(format models.Format) (parser.Parser, error) {
	return GetParserWithLogger(format, logging.GetLogger())
}

// GetParserWithLogger returns a parser for format with default options.
func GetParserWithLogger(format models.Format, logger logging.Logger) (parser.Parser, error) {
	return ForFormat(format, logger, Options{})
}

// ForFormat returns a new parser for format. An unknown format yields an
// error wrapping parsererror.ErrUnsupportedFormat.
func ForFormat(format models.Format, logger logging.Logger, opts Options) (parser.Parser, error) {
	switch format {
	case models.FormatCSV:
		var csvOpts []csvparser.Option
		if opts.CSVEncoding != "" {
			csvOpts = append(csvOpts, csvparser.WithEncoding(opts.CSVEncoding))
		}
		if opts.CSVSampleSize > 0 {
			csvOpts = append(csvOpts, csvparser.WithSampleSize(opts.CSVSampleSize))
		}
		if opts.Clock != nil {
			csvOpts = append(csvOpts, csvparser.WithClock(opts.Clock))
		}
		return csvparser.NewParser(logger, csvOpts...), nil
	case models.FormatOFX:
		return ofxparser.NewParser(logger, opts.Clock), nil
	default:
		return nil, fmt.Errorf("%w: %s", parsererror.ErrUnsupportedFormat, format)
	}
}

// ForFilename resolves the format from name's extension and builds its parser.
func ForFilename(name string, logger logging.Logger, opts Options) (parser.Parser, models.Format, error) {
	format := parser.FormatFromFilename(name)
	p, err := ForFormat(format, logger, opts)
	if err != nil {
		return nil, format, err
	}
	return p, format, nil
}
