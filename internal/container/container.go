// Package container provides dependency injection for the fincat application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"fjacquet/fincat/internal/archive"
	"fjacquet/fincat/internal/categorizer"
	"fjacquet/fincat/internal/config"
	"fjacquet/fincat/internal/export"
	"fjacquet/fincat/internal/factory"
	"fjacquet/fincat/internal/logging"
	"fjacquet/fincat/internal/models"
	"fjacquet/fincat/internal/pipeline"
	"fjacquet/fincat/internal/store"
)

// Option adjusts container construction.
type Option func(*options)

type options struct {
	logger      logging.Logger
	modelClient categorizer.ModelClient
	vocabulary  store.VocabularySource
	disableAI   bool
	archiver    archive.Archiver
	clock       func() time.Time
}

// WithLogger replaces the configured logger.
func WithLogger(l logging.Logger) Option { return func(o *options) { o.logger = l } }

// WithModelClient uses c instead of building a client from the configuration.
func WithModelClient(c categorizer.ModelClient) Option {
	return func(o *options) { o.modelClient = c }
}

// WithVocabularySource replaces the YAML category store.
func WithVocabularySource(s store.VocabularySource) Option {
	return func(o *options) { o.vocabulary = s }
}

// WithoutAI disables the model client whatever the configuration says.
func WithoutAI() Option { return func(o *options) { o.disableAI = true } }

// WithArchiver uses a instead of building one from the configuration.
func WithArchiver(a archive.Archiver) Option { return func(o *options) { o.archiver = a } }

// WithClock fixes the time source of parsers and reports.
func WithClock(clock func() time.Time) Option { return func(o *options) { o.clock = clock } }

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	vocabulary  models.Vocabulary
	modelClient categorizer.ModelClient
	classifier  *categorizer.Classifier
	processor   *pipeline.Processor
	exporter    *export.Exporter
	archiver    archive.Archiver
	closers     []io.Closer
}

// NewContainer creates and wires all application dependencies.
//
// A missing API key is not an error: the container is built without a model
// client and every statement gets the fallback annotation.
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	source := o.vocabulary
	if source == nil {
		source = store.NewCategoryStore(cfg.Categories.File, logger)
	}
	vocab, err := source.LoadVocabulary()
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	c := &Container{logger: logger, config: cfg, vocabulary: vocab}

	switch {
	case o.disableAI || !cfg.AI.Enabled:
		logger.Info("AI categorization disabled")
	case o.modelClient != nil:
		c.modelClient = o.modelClient
	default:
		client, err := newModelClient(ctx, cfg, logger)
		if err != nil {
			logger.WithError(err).Warn("AI categorization unavailable, statements will use the fallback category")
		} else {
			c.modelClient = client
			if closer, ok := client.(io.Closer); ok {
				c.closers = append(c.closers, closer)
			}
			logger.Info("AI categorization enabled",
				logging.Field{Key: logging.FieldProvider, Value: client.Name()})
		}
	}

	timeout := time.Duration(cfg.AI.TimeoutSeconds) * time.Second
	c.classifier = categorizer.NewClassifier(c.modelClient, vocab, timeout, logger)

	c.processor = pipeline.NewProcessor(c.classifier, factory.Options{
		CSVEncoding:   cfg.CSV.Encoding,
		CSVSampleSize: cfg.CSV.SampleSize,
		Clock:         o.clock,
	}, logger)

	c.exporter = export.NewExporter(logger, export.DefaultDelimiter)

	c.archiver = o.archiver
	if c.archiver == nil {
		c.archiver, err = archive.New(ctx, archive.Settings{
			Provider:         cfg.Archive.Provider,
			Bucket:           cfg.Archive.Bucket,
			Container:        cfg.Archive.Container,
			ConnectionString: cfg.Archive.ConnectionString,
			AccountURL:       cfg.Archive.AccountURL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create archiver: %w", err)
		}
	}
	if c.archiver != nil {
		c.closers = append(c.closers, c.archiver)
	}

	logger.Info("Container initialized successfully",
		logging.Field{Key: "ai_enabled", Value: c.modelClient != nil},
		logging.Field{Key: "categories", Value: len(vocab.Labels)},
		logging.Field{Key: "archive", Value: cfg.Archive.Provider})

	return c, nil
}

func newModelClient(ctx context.Context, cfg *config.Config, logger logging.Logger) (categorizer.ModelClient, error) {
	switch cfg.AI.Provider {
	case config.ProviderGenAI:
		return categorizer.NewGenAIClient(ctx, categorizer.GenAIConfig{
			APIKey:   cfg.AI.APIKey,
			Project:  cfg.AI.Project,
			Location: cfg.AI.Location,
			Model:    cfg.AI.Model,
		}, logger)
	case config.ProviderGemini, "":
		return categorizer.NewGeminiClient(ctx, cfg.AI.APIKey, cfg.AI.Model, logger)
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", cfg.AI.Provider)
	}
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetVocabulary returns the loaded category vocabulary.
func (c *Container) GetVocabulary() models.Vocabulary {
	return c.vocabulary
}

// GetModelClient returns the model client, or nil when AI is unavailable.
func (c *Container) GetModelClient() categorizer.ModelClient {
	return c.modelClient
}

// GetClassifier returns the container's classifier.
func (c *Container) GetClassifier() *categorizer.Classifier {
	return c.classifier
}

// GetProcessor returns the statement pipeline.
func (c *Container) GetProcessor() *pipeline.Processor {
	return c.processor
}

// GetExporter returns the report writer.
func (c *Container) GetExporter() *export.Exporter {
	return c.exporter
}

// GetArchiver returns the upload archiver, or nil when archiving is off.
func (c *Container) GetArchiver() archive.Archiver {
	return c.archiver
}

// Close releases the model client and archiver.
func (c *Container) Close() error {
	var errs []error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.logger.Info("Container closed")
	return errors.Join(errs...)
}
