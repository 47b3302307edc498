// Package ingest performs the one-shot load of the session catalog.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"bookloop/internal/catalog"
)

// Prompt is the fixed request sent to the generation service.
const Prompt = "Generate a list of 20 books popular in India, including titles by both Indian and international authors. For each book, provide a title, author, a one-paragraph synopsis, a category (e.g., Fiction, Mythology, History), and a valid ISBN-13."

var (
	// ErrEmptyBatch is returned when the service answers without any content.
	ErrEmptyBatch = errors.New("empty book batch")
	// ErrMalformedBatch is returned when the payload does not match the schema.
	ErrMalformedBatch = errors.New("malformed book batch")
)

// Generator produces the raw records the catalog is built from.
type Generator interface {
	Generate(ctx context.Context) ([]catalog.RawBook, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context) ([]catalog.RawBook, error)

func (f GeneratorFunc) Generate(ctx context.Context) ([]catalog.RawBook, error) {
	return f(ctx)
}

// decodeBatch parses a JSON array of book records. Markdown code fences
// around the payload are tolerated. Any array is accepted as is, including
// an empty one; only a payload that is not an array is malformed.
func decodeBatch(payload string) ([]catalog.RawBook, error) {
	payload = cleanJSON(payload)

	var raws []catalog.RawBook
	if err := json.Unmarshal([]byte(payload), &raws); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBatch, err)
	}
	if raws == nil {
		return nil, fmt.Errorf("%w: payload is not an array", ErrMalformedBatch)
	}
	return raws, nil
}

// cleanJSON removes markdown code blocks from a JSON payload.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
