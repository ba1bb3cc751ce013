package services

import (
	"context"
	"fmt"
	"net/url"
)

// DefaultTranslateURL is the MyMemory translation endpoint.
const DefaultTranslateURL = "https://api.mymemory.translated.net/get"

// MyMemory translates English text via the MyMemory API.
type MyMemory struct {
	client
	field *Field
}

// NewMyMemory creates a translation client.
func NewMyMemory(opts ...Option) (*MyMemory, error) {
	cfg := newConfig(DefaultTranslateURL, ".responseData.translatedText", opts)
	field, err := CompileField(cfg.Query)
	if err != nil {
		return nil, err
	}
	return &MyMemory{client: newClient("mymemory", cfg), field: field}, nil
}

// Translate translates English text into the language with the given two-letter code.
func (m *MyMemory) Translate(ctx context.Context, text, langCode string) (string, error) {
	q := url.Values{
		"q":        {text},
		"langpair": {"en|" + langCode},
	}

	doc, err := m.getJSON(ctx, m.cfg.BaseURL+"?"+q.Encode())
	if err != nil {
		return "", err
	}

	out, err := m.field.Extract(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("translate to %s: %w", langCode, err)
	}
	return out, nil
}
