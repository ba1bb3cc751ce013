package llm

import (
	"context"
	"sync"
)

// Mock implements Provider for testing.
type Mock struct {
	// CompleteFunc is called when Complete is invoked.
	CompleteFunc func(ctx context.Context, message string) (string, error)

	mu       sync.Mutex
	messages []string
}

// NewMock creates a mock that always answers reply.
func NewMock(reply string) *Mock {
	return &Mock{
		CompleteFunc: func(context.Context, string) (string, error) {
			return reply, nil
		},
	}
}

// WithError returns a mock that always fails with err.
func WithError(err error) *Mock {
	return &Mock{
		CompleteFunc: func(context.Context, string) (string, error) {
			return "", err
		},
	}
}

// Complete records the message and calls CompleteFunc.
func (m *Mock) Complete(ctx context.Context, message string) (string, error) {
	m.mu.Lock()
	m.messages = append(m.messages, message)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, message)
	}
	return "", WrapError("mock", ErrProviderUnavailable)
}

// Close is a no-op.
func (m *Mock) Close() error { return nil }

// Messages returns every message received so far.
func (m *Mock) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.messages))
	copy(out, m.messages)
	return out
}

// CallCount returns the number of Complete calls.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

var (
	_ Provider = (*Mock)(nil)
	_ Provider = (*Proxy)(nil)
	_ Provider = (*OpenAI)(nil)
	_ Provider = (*Chain)(nil)
)
