package categorizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fjacquet/fincat/internal/logging"

	"google.golang.org/genai"
)

// GenAIConfig selects the backend for GenAIClient. With Project set the
// client uses Vertex AI, otherwise the Gemini API with APIKey.
type GenAIConfig struct {
	APIKey   string
	Project  string
	Location string
	Model    string
}

// GenAIClient implements ModelClient with the unified Google Gen AI SDK.
type GenAIClient struct {
	client *genai.Client
	model  string
	log    logging.Logger
}

// NewGenAIClient creates a GenAIClient.
func NewGenAIClient(ctx context.Context, cfg GenAIConfig, logger logging.Logger) (*GenAIClient, error) {
	cc := &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	}
	switch {
	case cfg.Project != "":
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.Project
		cc.Location = cfg.Location
	case strings.TrimSpace(cfg.APIKey) != "":
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = cfg.APIKey
	default:
		return nil, errors.New("genai needs an API key or a Vertex AI project")
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GenAIClient{client: client, model: model, log: logging.OrDefault(logger)}, nil
}

// Name identifies the provider in logs.
func (c *GenAIClient) Name() string {
	return "genai/" + c.model
}

// Generate sends prompt as a single user turn and returns the reply text.
func (c *GenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	c.log.Debug("Sending categorization prompt",
		logging.Field{Key: logging.FieldModel, Value: c.model},
		logging.Field{Key: "prompt_bytes", Value: len(prompt)})

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.1),
		ResponseMIMEType: "application/json",
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("empty response from model")
	}
	return text, nil
}
