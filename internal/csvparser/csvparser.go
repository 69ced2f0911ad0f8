// Package csvparser reads bank statement CSV exports of unknown layout. It
// sniffs the delimiter, infers column roles from the header and converts each
// data row independently, dropping rows that cannot be used.
package csvparser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"fjacquet/fincat/internal/logging"
	"fjacquet/fincat/internal/models"
	"fjacquet/fincat/internal/parser"
	"fjacquet/fincat/internal/parsererror"
)

const formatName = "CSV"

// Parser parses tabular statements.
type Parser struct {
	parser.BaseParser
	encoding   string
	sampleSize int
}

// Option configures a Parser.
type Option func(*Parser)

// WithEncoding sets the input encoding: auto, utf-8, windows-1252 or
// iso-8859-1.
func WithEncoding(name string) Option {
	return func(p *Parser) {
		if name != "" {
			p.encoding = name
		}
	}
}

// WithSampleSize sets how many bytes are used for delimiter sniffing.
func WithSampleSize(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.sampleSize = n
		}
	}
}

// WithClock sets the clock used for the statement timestamp.
func WithClock(clock parser.Clock) Option {
	return func(p *Parser) {
		p.SetClock(clock)
	}
}

// NewParser creates a CSV parser.
func NewParser(logger logging.Logger, opts ...Option) *Parser {
	p := &Parser{
		BaseParser: parser.NewBaseParser(logger, nil),
		encoding:   EncodingAuto,
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Inspect reads r and returns its detected layout without converting rows.
func (p *Parser) Inspect(r io.Reader) (Layout, error) {
	data, err := p.readAll(r)
	if err != nil {
		return Layout{}, err
	}
	layout, _, err := p.layout(data)
	return layout, err
}

// Parse converts a CSV statement. Rows that fail are logged and skipped; ids
// are dense over the rows kept. GeneratedAt is the parse time.
func (p *Parser) Parse(r io.Reader) (models.Statement, error) {
	logger := p.GetLogger().WithField(logging.FieldParser, "csv")

	data, err := p.readAll(r)
	if err != nil {
		return models.Statement{}, err
	}

	layout, reader, err := p.layout(data)
	if err != nil {
		return models.Statement{}, err
	}

	logger.Info("Detected CSV layout",
		logging.Field{Key: logging.FieldDelimiter, Value: string(layout.Delimiter)},
		logging.Field{Key: "headers", Value: layout.Headers},
		logging.Field{Key: "mapping", Value: layout.Mapping})
	if !layout.Mapping.Has(models.RoleDate) || !layout.Mapping.HasAmount() {
		logger.Warn("Header lacks a date or amount column, rows will be skipped")
	}

	var (
		transactions []models.Transaction
		skipped      int
	)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				logger.WithError(err).Warn("Skipping unreadable CSV record",
					logging.Field{Key: logging.FieldRow, Value: perr.StartLine})
				skipped++
				continue
			}
			return models.Statement{}, &parsererror.DocumentError{Format: formatName, Err: fmt.Errorf("%w: %v", parsererror.ErrUnreadableDocument, err)}
		}

		// Blank lines are skipped by the reader but still count as rows.
		rowNum, _ := reader.FieldPos(0)
		tx, err := convertRow(row, layout.Mapping, rowNum, len(transactions))
		if err != nil {
			logger.WithError(err).Warn("Skipping CSV row",
				logging.Field{Key: logging.FieldRow, Value: rowNum})
			skipped++
			continue
		}
		transactions = append(transactions, tx)
	}

	logger.Info("Parsed CSV statement",
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
		logging.Field{Key: "skipped", Value: skipped})

	return models.Statement{
		Transactions: transactions,
		GeneratedAt:  p.Now(),
		Format:       models.FormatCSV,
	}, nil
}

// convertRow isolates a single row so that a panic while converting it only
// drops that row.
func convertRow(row []string, mapping models.ColumnMapping, rowNum, id int) (tx models.Transaction, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &parsererror.RowError{Row: rowNum, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return NormalizeRow(row, mapping, rowNum, id)
}

func (p *Parser) readAll(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &parsererror.DocumentError{Format: formatName, Err: fmt.Errorf("%w: %v", parsererror.ErrUnreadableDocument, err)}
	}

	data, applied, err := decode(raw, p.encoding)
	if err != nil {
		return nil, &parsererror.DocumentError{Format: formatName, Err: fmt.Errorf("%w: %v", parsererror.ErrUnreadableDocument, err)}
	}
	p.GetLogger().Debug("Decoded CSV input",
		logging.Field{Key: logging.FieldEncoding, Value: applied},
		logging.Field{Key: "bytes", Value: len(raw)})
	return data, nil
}

// layout sniffs the delimiter, reads the header and returns a reader
// positioned on the first data row.
func (p *Parser) layout(data []byte) (Layout, *csv.Reader, error) {
	sample := data
	complete := true
	if len(sample) > p.sampleSize {
		sample = sample[:p.sampleSize]
		complete = false
	}
	delimiter := sniff(sample, complete)

	reader := newCSVReader(bytes.NewReader(data), delimiter)
	headers, err := reader.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return Layout{}, nil, &parsererror.DocumentError{Format: formatName, Err: fmt.Errorf("%w: header: %v", parsererror.ErrMalformedDocument, err)}
	}

	return Layout{
		Delimiter: delimiter,
		Headers:   headers,
		Mapping:   InferColumns(headers),
	}, reader, nil
}
