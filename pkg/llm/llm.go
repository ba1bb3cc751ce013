// Package llm delegates free-form queries to a remote language model.
//
// The Provider interface has two implementations: Proxy posts {message} to a
// same-origin proxy endpoint and OpenAI calls an OpenAI-compatible chat API
// directly. Chain tries several providers in order.
package llm

import "context"

// Provider completes a single user message.
type Provider interface {
	// Complete returns the assistant reply for message.
	Complete(ctx context.Context, message string) (string, error)

	// Close releases resources.
	Close() error
}
