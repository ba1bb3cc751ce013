package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// DefaultWikipediaURL is the page-summary endpoint; the escaped topic is appended.
const DefaultWikipediaURL = "https://en.wikipedia.org/api/rest_v1/page/summary/"

// Wikipedia looks up topic summaries.
type Wikipedia struct {
	client
	field *Field
}

// NewWikipedia creates an encyclopedia client.
func NewWikipedia(opts ...Option) (*Wikipedia, error) {
	cfg := newConfig(DefaultWikipediaURL, ".extract", opts)
	field, err := CompileField(cfg.Query)
	if err != nil {
		return nil, err
	}
	return &Wikipedia{client: newClient("wikipedia", cfg), field: field}, nil
}

// Lookup returns the summary extract for topic.
// An empty topic or a response without an extract yields ErrNotFound.
func (w *Wikipedia) Lookup(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ErrNotFound
	}

	doc, err := w.getJSON(ctx, w.cfg.BaseURL+url.PathEscape(topic))
	if err != nil {
		return "", err
	}

	extract, err := w.field.Extract(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("wikipedia %q: %w", topic, err)
	}
	return extract, nil
}
