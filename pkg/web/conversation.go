package web

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Conversation roles.
const (
	RoleUser   = "user"
	RoleMarvin = "marvin"
)

// Entry is one conversation line.
type Entry struct {
	ID   string    `json:"id"`
	Time time.Time `json:"time"`
	Role string    `json:"role"`
	Text string    `json:"text"`
}

// Conversation is an append-only log bounded to the most recent entries.
// Entries appear in the order they were added.
type Conversation struct {
	mu      sync.RWMutex
	entries []Entry
	limit   int
}

// NewConversation creates a log keeping at most limit entries.
func NewConversation(limit int) *Conversation {
	if limit <= 0 {
		limit = DefaultConversationLimit
	}
	return &Conversation{
		entries: make([]Entry, 0, limit),
		limit:   limit,
	}
}

// Add appends an entry and returns it.
func (c *Conversation) Add(role, text string) Entry {
	e := Entry{
		ID:   uuid.NewString(),
		Time: time.Now(),
		Role: role,
		Text: text,
	}

	c.mu.Lock()
	c.entries = append(c.entries, e)
	if over := len(c.entries) - c.limit; over > 0 {
		c.entries = append(c.entries[:0], c.entries[over:]...)
	}
	c.mu.Unlock()
	return e
}

// Entries returns a copy of the log, oldest first.
func (c *Conversation) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Entry(nil), c.entries...)
}

// Len returns the number of entries.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
