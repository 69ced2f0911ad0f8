// Package pipeline runs one statement file through parsing and
// categorization.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"fjacquet/fincat/internal/categorizer"
	"fjacquet/fincat/internal/factory"
	"fjacquet/fincat/internal/logging"
	"fjacquet/fincat/internal/models"
	"fjacquet/fincat/internal/parser"
	"fjacquet/fincat/internal/parsererror"
)

// Outcome is a parsed and annotated statement.
type Outcome struct {
	Statement    models.Statement
	AIOK         bool
	FileType     models.Format
	OriginalFile string
	ProcessedAt  time.Time
}

// Payload renders the outcome as the JSON report.
func (o Outcome) Payload() models.Report {
	return models.NewReport(o.OriginalFile, o.Statement, o.AIOK, o.ProcessedAt)
}

// Processor dispatches files to the parser matching their extension and
// classifies the result.
type Processor struct {
	classifier *categorizer.Classifier
	options    factory.Options
	logger     logging.Logger
	now        func() time.Time
}

// NewProcessor creates a Processor. A nil classifier applies the fallback
// annotation to every statement.
func NewProcessor(classifier *categorizer.Classifier, options factory.Options, logger logging.Logger) *Processor {
	logger = logging.OrDefault(logger)
	if classifier == nil {
		classifier = categorizer.NewClassifier(nil, models.DefaultVocabulary(), 0, logger)
	}
	now := time.Now
	if options.Clock != nil {
		now = options.Clock
	}
	return &Processor{
		classifier: classifier,
		options:    options,
		logger:     logger,
		now:        now,
	}
}

// ProcessFile opens path and processes it under its base name.
func (p *Processor) ProcessFile(ctx context.Context, path string) (Outcome, error) {
	f, err := os.Open(path)
	if err != nil {
		return Outcome{}, &parsererror.DocumentError{
			Source: filepath.Base(path),
			Format: parser.FormatFromFilename(path).String(),
			Err:    fmt.Errorf("%w: %w", parsererror.ErrUnreadableDocument, err),
		}
	}
	defer func() {
		if err := f.Close(); err != nil {
			p.logger.WithError(err).Warn("Failed to close file")
		}
	}()
	return p.Process(ctx, filepath.Base(path), f)
}

// Process parses r as the format named by name's extension and classifies
// its transactions. Document errors are returned; classification never
// fails.
func (p *Processor) Process(ctx context.Context, name string, r io.Reader) (Outcome, error) {
	log := p.logger.WithField(logging.FieldFile, name)
	start := p.now()

	prs, format, err := factory.ForFilename(name, log, p.options)
	if err != nil {
		log.WithError(err).Warn("Unsupported statement file")
		return Outcome{}, err
	}

	stmt, err := prs.Parse(r)
	if err != nil {
		log.WithError(err).Error("Failed to parse statement",
			logging.Field{Key: logging.FieldFormat, Value: format.String()})
		return Outcome{}, err
	}
	stmt.Source = name

	res := p.classifier.Classify(ctx, stmt.Transactions)
	outcome := Outcome{
		Statement:    stmt.WithTransactions(res.Transactions),
		AIOK:         res.AIOK,
		FileType:     format,
		OriginalFile: name,
		ProcessedAt:  p.now(),
	}

	log.Info("Statement processed",
		logging.Field{Key: logging.FieldFormat, Value: format.String()},
		logging.Field{Key: logging.FieldCount, Value: outcome.Statement.Len()},
		logging.Field{Key: "ai_ok", Value: outcome.AIOK},
		logging.Field{Key: logging.FieldDuration, Value: outcome.ProcessedAt.Sub(start).Milliseconds()})
	return outcome, nil
}
