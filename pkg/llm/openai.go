package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const providerOpenAI = "openai"

// OpenAI calls an OpenAI-compatible chat completions API (OpenAI, Groq, ...).
type OpenAI struct {
	client openai.Client
	config *Config
	logger *slog.Logger
}

// NewOpenAI creates a direct provider. URL is the API base URL.
func NewOpenAI(opts ...Option) (*OpenAI, error) {
	cfg := DefaultConfig()
	cfg.URL = "https://api.groq.com/openai/v1"
	cfg.Apply(opts...)

	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(strings.TrimSuffix(cfg.URL, "/") + "/"),
		option.WithMaxRetries(cfg.MaxRetries),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &OpenAI{
		client: openai.NewClient(reqOpts...),
		config: cfg,
		logger: cfg.Logger.With("component", "llm.openai"),
	}, nil
}

// Complete returns the assistant reply for message.
func (o *OpenAI) Complete(ctx context.Context, message string) (string, error) {
	start := time.Now()

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if o.config.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(o.config.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(message))

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    openai.ChatModel(o.config.Model),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &APIError{
				StatusCode: apiErr.StatusCode,
				Message:    apiErr.Message,
				Provider:   providerOpenAI,
			}
		}
		return "", WrapError(providerOpenAI, fmt.Errorf("chat completion: %w", err))
	}

	if len(resp.Choices) == 0 {
		return "", WrapError(providerOpenAI, fmt.Errorf("no choices returned"))
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", WrapError(providerOpenAI, ErrEmptyResponse)
	}

	o.logger.Debug("completion",
		"model", resp.Model,
		"latency_ms", time.Since(start).Milliseconds(),
		"total_tokens", resp.Usage.TotalTokens,
	)
	return content, nil
}

// Close is a no-op; the SDK client holds no resources of its own.
func (o *OpenAI) Close() error {
	return nil
}
