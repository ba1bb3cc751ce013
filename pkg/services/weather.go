package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// DefaultWeatherURL is the wttr.in endpoint; the escaped location is appended.
const DefaultWeatherURL = "https://wttr.in/"

// weatherFormat asks for "<condition> <temp> <wind>".
const weatherFormat = "%C %t %w"

// Report is a parsed current-conditions triplet.
type Report struct {
	Condition   string `json:"condition"`
	Temperature string `json:"temperature"`
	Wind        string `json:"wind"`
}

// Wttr fetches plain-text current weather from wttr.in.
type Wttr struct {
	client
}

// NewWttr creates a weather client.
func NewWttr(opts ...Option) *Wttr {
	return &Wttr{client: newClient("wttr", newConfig(DefaultWeatherURL, "", opts))}
}

// Current returns the current conditions at location.
func (w *Wttr) Current(ctx context.Context, location string) (Report, error) {
	q := url.Values{"format": {weatherFormat}}
	body, err := w.get(ctx, w.cfg.BaseURL+url.PathEscape(location)+"?"+q.Encode())
	if err != nil {
		return Report{}, err
	}
	return ParseReport(string(body))
}

// ParseReport splits a wttr.in one-line response. Exactly three whitespace
// separated tokens are required.
func ParseReport(s string) (Report, error) {
	tokens := strings.Fields(s)
	if len(tokens) != 3 {
		return Report{}, fmt.Errorf("%w: want 3 weather tokens, got %d in %q", ErrMalformed, len(tokens), s)
	}
	return Report{
		Condition:   tokens[0],
		Temperature: tokens[1],
		Wind:        tokens[2],
	}, nil
}
