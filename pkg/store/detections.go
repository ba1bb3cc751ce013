package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// DetectionLogCapacity is the number of snapshots kept; older ones are evicted first.
const DetectionLogCapacity = 50

// LoggedObject is one detected object inside a log entry.
type LoggedObject struct {
	Label string     `msgpack:"class" json:"class"`
	Score float64    `msgpack:"score" json:"score"`
	BBox  [4]float64 `msgpack:"bbox" json:"bbox"`
}

// LogEntry is a timestamped detection snapshot.
type LogEntry struct {
	Timestamp time.Time      `msgpack:"timestamp" json:"timestamp"`
	Objects   []LoggedObject `msgpack:"objects" json:"objects"`
}

// DetectionLog is a bounded FIFO of detection snapshots persisted under KeyDetections.
type DetectionLog struct {
	store    Store
	capacity int
	mu       sync.Mutex
}

// NewDetectionLog creates a detection log on s with the default capacity.
func NewDetectionLog(s Store) *DetectionLog {
	return &DetectionLog{store: s, capacity: DetectionLogCapacity}
}

// Append adds an entry, evicting the oldest entries beyond capacity.
func (l *DetectionLog) Append(ctx context.Context, entry LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load(ctx)
	if err != nil {
		return err
	}

	entries = append(entries, entry)
	if over := len(entries) - l.capacity; over > 0 {
		entries = entries[over:]
	}

	data, err := msgpack.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode detection log: %w", err)
	}
	return l.store.Set(ctx, KeyDetections, data)
}

// Entries returns the stored snapshots, oldest first.
func (l *DetectionLog) Entries(ctx context.Context) ([]LogEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

// Clear removes every stored snapshot.
func (l *DetectionLog) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Delete(ctx, KeyDetections)
}

func (l *DetectionLog) load(ctx context.Context) ([]LogEntry, error) {
	data, err := l.store.Get(ctx, KeyDetections)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read detection log: %w", err)
	}

	var entries []LogEntry
	if err := msgpack.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode detection log: %w", err)
	}
	return entries, nil
}
