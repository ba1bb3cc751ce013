package services

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// News endpoints.
const (
	DefaultNewsURL     = "https://newsdata.io/api/1/news"
	DefaultRSSURL      = "https://feeds.bbci.co.uk/news/rss.xml"
	DefaultRSSProxyURL = "https://api.allorigins.win/raw?url="
)

// News fetches the top headline from NewsData, falling back to an RSS feed
// fetched through a proxy when the primary source fails.
type News struct {
	client
	field    *Field
	apiKey   string
	rssURL   string
	rssProxy string
}

// NewsOption configures the news client.
type NewsOption func(*News)

// WithAPIKey sets the NewsData API key.
func WithAPIKey(key string) NewsOption {
	return func(n *News) { n.apiKey = key }
}

// WithRSS sets the fallback feed URL and the proxy prefix it is fetched through.
// An empty proxy fetches the feed directly.
func WithRSS(feedURL, proxyPrefix string) NewsOption {
	return func(n *News) {
		n.rssURL = feedURL
		n.rssProxy = proxyPrefix
	}
}

// NewNews creates a news client.
func NewNews(opts []Option, newsOpts ...NewsOption) (*News, error) {
	cfg := newConfig(DefaultNewsURL, ".results[0].title", opts)
	field, err := CompileField(cfg.Query)
	if err != nil {
		return nil, err
	}

	n := &News{
		client:   newClient("news", cfg),
		field:    field,
		rssURL:   DefaultRSSURL,
		rssProxy: DefaultRSSProxyURL,
	}
	for _, opt := range newsOpts {
		opt(n)
	}
	return n, nil
}

// Latest returns the top headline.
//
// If the primary source answers with no results, ErrNotFound is returned
// without consulting the fallback. Any other primary failure falls back to RSS.
func (n *News) Latest(ctx context.Context) (string, error) {
	title, err := n.primary(ctx)
	if err == nil || errors.Is(err, ErrNotFound) {
		return title, err
	}

	n.logger.Warn("primary news source failed, using RSS fallback", "error", err)

	title, ferr := n.fallback(ctx)
	if ferr != nil {
		return "", ferr
	}
	return title, nil
}

func (n *News) primary(ctx context.Context) (string, error) {
	if n.apiKey == "" {
		return "", &ServiceError{Service: n.name, Err: errors.New("no API key configured")}
	}

	q := url.Values{
		"apikey":   {n.apiKey},
		"country":  {"in"},
		"language": {"en"},
		"category": {"top"},
	}
	doc, err := n.getJSON(ctx, n.cfg.BaseURL+"?"+q.Encode())
	if err != nil {
		return "", err
	}

	title, err := n.field.Extract(ctx, doc)
	if errors.Is(err, ErrMalformed) {
		return "", &ServiceError{Service: n.name, Err: err}
	}
	return title, err
}

type rssDocument struct {
	Channel struct {
		Items []struct {
			Title string `xml:"title"`
		} `xml:"item"`
	} `xml:"channel"`
}

func (n *News) fallback(ctx context.Context) (string, error) {
	target := n.rssURL
	if n.rssProxy != "" {
		target = n.rssProxy + url.QueryEscape(n.rssURL)
	}

	body, err := n.get(ctx, target)
	if err != nil {
		return "", err
	}

	var doc rssDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", &ServiceError{Service: "rss", Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	if len(doc.Channel.Items) == 0 {
		return "", ErrNotFound
	}

	title := strings.TrimSpace(doc.Channel.Items[0].Title)
	if title == "" {
		return "", ErrNotFound
	}
	return title, nil
}
