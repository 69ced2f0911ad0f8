// Package categorizer assigns spending categories to statement transactions
// with a language model. It builds the request, extracts structured data from
// the free-text reply and maps it back onto the batch by transaction id,
// falling back to the catch-all category whenever anything goes wrong.
package categorizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fjacquet/fincat/internal/logging"
	"fjacquet/fincat/internal/models"
	"fjacquet/fincat/internal/parsererror"
)

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 60 * time.Second

// ErrNoClient is recorded when classification runs without a model client.
var ErrNoClient = errors.New("no model client configured")

// ModelClient sends a prompt to a language model and returns its text reply.
type ModelClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Result is a classified batch. AIOK is false when the global fallback was
// applied.
type Result struct {
	Transactions []models.Transaction
	AIOK         bool
}

// Classifier runs one model request per batch, without retries.
type Classifier struct {
	client  ModelClient
	vocab   models.Vocabulary
	timeout time.Duration
	logger  logging.Logger
}

// NewClassifier creates a Classifier. client may be nil, in which case every
// batch gets the fallback annotation. A non-positive timeout uses
// DefaultTimeout.
func NewClassifier(client ModelClient, vocab models.Vocabulary, timeout time.Duration, logger logging.Logger) *Classifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Classifier{
		client:  client,
		vocab:   vocab,
		timeout: timeout,
		logger:  logging.OrDefault(logger),
	}
}

// Vocabulary returns the classifier's category vocabulary.
func (c *Classifier) Vocabulary() models.Vocabulary {
	return c.vocab
}

// Classify annotates txs with categories. It never fails: any error,
// including a panic, yields the global fallback with AIOK false. An empty
// batch returns immediately without contacting the model.
func (c *Classifier) Classify(ctx context.Context, txs []models.Transaction) (res Result) {
	if len(txs) == 0 {
		return Result{Transactions: []models.Transaction{}, AIOK: true}
	}

	defer func() {
		if r := recover(); r != nil {
			c.fail("panic", fmt.Errorf("%v", r), len(txs))
			res = Result{Transactions: GlobalFallback(txs, c.vocab), AIOK: false}
		}
	}()

	annotated, err := c.classify(ctx, txs)
	if err != nil {
		var ce *parsererror.CategorizationError
		stage := "classify"
		if errors.As(err, &ce) {
			stage = ce.Stage
		}
		c.fail(stage, err, len(txs))
		return Result{Transactions: GlobalFallback(txs, c.vocab), AIOK: false}
	}
	return Result{Transactions: annotated, AIOK: true}
}

func (c *Classifier) classify(ctx context.Context, txs []models.Transaction) ([]models.Transaction, error) {
	if c.client == nil {
		return nil, c.stageError("client", ErrNoClient)
	}

	prompt, ok := BuildPrompt(txs, c.vocab)
	if !ok {
		return []models.Transaction{}, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	raw, err := c.client.Generate(callCtx, prompt)
	if err != nil {
		return nil, c.stageError("generate", err)
	}
	c.logger.Debug("Model replied",
		logging.Field{Key: logging.FieldProvider, Value: c.client.Name()},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()},
		logging.Field{Key: "response_bytes", Value: len(raw)})

	items, err := ParseResponse(raw)
	if err != nil {
		return nil, c.stageError("parse", err)
	}

	annotated := Reconcile(txs, items, c.vocab)
	c.logger.Info("Transactions categorized",
		logging.Field{Key: logging.FieldProvider, Value: c.client.Name()},
		logging.Field{Key: logging.FieldCount, Value: len(annotated)},
		logging.Field{Key: "matched", Value: matched(annotated)})
	return annotated, nil
}

func (c *Classifier) stageError(stage string, err error) error {
	provider := "none"
	if c.client != nil {
		provider = c.client.Name()
	}
	return &parsererror.CategorizationError{Provider: provider, Stage: stage, Err: err}
}

func (c *Classifier) fail(stage string, err error, n int) {
	c.logger.WithError(err).Warn("Categorization failed, applying fallback",
		logging.Field{Key: logging.FieldOperation, Value: stage},
		logging.Field{Key: logging.FieldCount, Value: n})
}

func matched(txs []models.Transaction) int {
	n := 0
	for _, tx := range txs {
		if tx.Reasoning != models.ReasoningNotFound {
			n++
		}
	}
	return n
}
