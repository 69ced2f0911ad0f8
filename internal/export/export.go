// Package export writes annotated statements as a JSON report or a CSV table.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/fincat/internal/logging"
	"fjacquet/fincat/internal/models"

	"github.com/gocarina/gocsv"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// DefaultDelimiter separates CSV output columns.
const DefaultDelimiter = ','

// csvRow is the flat CSV rendering of a transaction.
type csvRow struct {
	ID           int     `csv:"id"`
	Date         string  `csv:"date"`
	Name         string  `csv:"name"`
	Value        string  `csv:"value"`
	Category     string  `csv:"category"`
	Confidence   float64 `csv:"categorization_confidence"`
	Reasoning    string  `csv:"categorization_reasoning"`
	DateInferred bool    `csv:"date_inferred"`
}

// Exporter writes reports in a configured format.
type Exporter struct {
	logger    logging.Logger
	delimiter rune
}

// NewExporter creates an Exporter. A zero delimiter uses DefaultDelimiter.
func NewExporter(logger logging.Logger, delimiter rune) *Exporter {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	return &Exporter{logger: logging.OrDefault(logger), delimiter: delimiter}
}

// WriteJSON encodes report as indented UTF-8 JSON.
func WriteJSON(w io.Writer, report models.Report) error {
	if report.Transactions == nil {
		report.Transactions = []models.ReportTransaction{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("error encoding report: %w", err)
	}
	return nil
}

// WriteCSV writes one row per transaction after a header line.
func WriteCSV(w io.Writer, txs []models.Transaction, delimiter rune) error {
	rows := make([]csvRow, len(txs))
	for i, tx := range txs {
		rows[i] = csvRow{
			ID:           tx.ID,
			Date:         tx.FormattedDate(),
			Name:         tx.Name,
			Value:        tx.FormattedValue(),
			Category:     tx.Category,
			Confidence:   tx.Confidence,
			Reasoning:    tx.Reasoning,
			DateInferred: tx.DateInferred,
		}
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// Write renders stmt in format to w.
func (e *Exporter) Write(w io.Writer, format string, report models.Report, stmt models.Statement) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return WriteJSON(w, report)
	case FormatCSV:
		return WriteCSV(w, stmt.Transactions, e.delimiter)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteFile renders stmt to path, creating parent directories.
func (e *Exporter) WriteFile(path, format string, report models.Report, stmt models.Statement) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		e.logger.WithError(err).Error("Failed to create directory")
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		e.logger.WithError(err).Error("Failed to create output file")
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			e.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := e.Write(file, format, report, stmt); err != nil {
		return err
	}

	e.logger.Info("Wrote categorized statement",
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldFormat, Value: format},
		logging.Field{Key: logging.FieldCount, Value: stmt.Len()})
	return nil
}

// OutputName derives "{stem}_categorized.{ext}" from an input file name.
func OutputName(inputFile, format string) string {
	base := filepath.Base(inputFile)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	ext := strings.ToLower(format)
	if ext == "" {
		ext = FormatJSON
	}
	return stem + "_categorized." + ext
}
