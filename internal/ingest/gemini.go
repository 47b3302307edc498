package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bookloop/internal/catalog"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrMissingCredential is returned when no API key is configured.
var ErrMissingCredential = errors.New("GEMINI_API_KEY environment variable not set")

// ModelConfig defines configuration for a Gemini model.
type ModelConfig struct {
	Name        string
	Temperature float32
	TopP        float32
	TopK        int32
}

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.5-flash"

// NewModelConfig returns the sampling settings used for catalog generation.
func NewModelConfig(name string) ModelConfig {
	if name == "" {
		name = DefaultModel
	}
	return ModelConfig{
		Name:        name,
		Temperature: 0.9,
		TopP:        0.95,
		TopK:        40,
	}
}

// GeminiGenerator asks Gemini for a batch of books matching bookSchema.
// The client is created on the first call so a missing key surfaces as a
// load failure rather than a startup error.
type GeminiGenerator struct {
	apiKey string
	config ModelConfig

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiGenerator creates a generator for the given key and model.
func NewGeminiGenerator(apiKey, modelName string) *GeminiGenerator {
	return &GeminiGenerator{
		apiKey: apiKey,
		config: NewModelConfig(modelName),
	}
}

// Model returns the configured model name.
func (g *GeminiGenerator) Model() string {
	return g.config.Name
}

// Generate issues the fixed prompt and decodes the structured response.
func (g *GeminiGenerator) Generate(ctx context.Context) ([]catalog.RawBook, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := g.getModel(client).GenerateContent(ctx, genai.Text(Prompt))
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyBatch
	}

	var payload string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			payload += string(text)
		}
	}
	return decodeBatch(payload)
}

// Close releases the underlying client, if one was created.
func (g *GeminiGenerator) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client == nil {
		return nil
	}
	err := g.client.Close()
	g.client = nil
	return err
}

func (g *GeminiGenerator) getClient(ctx context.Context) (*genai.Client, error) {
	if g.apiKey == "" {
		return nil, ErrMissingCredential
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	g.client = client
	return client, nil
}

// getModel returns a configured GenerativeModel instance.
func (g *GeminiGenerator) getModel(client *genai.Client) *genai.GenerativeModel {
	model := client.GenerativeModel(g.config.Name)
	model.SetTemperature(g.config.Temperature)
	model.SetTopP(g.config.TopP)
	model.SetTopK(g.config.TopK)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = bookSchema()
	return model
}

// bookSchema is an array of objects with five required string fields.
func bookSchema() *genai.Schema {
	fields := []string{"title", "author", "synopsis", "category", "isbn"}
	props := make(map[string]*genai.Schema, len(fields))
	for _, f := range fields {
		props[f] = &genai.Schema{Type: genai.TypeString}
	}
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: props,
			Required:   fields,
		},
	}
}
