package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStores(t *testing.T) map[string]Store {
	t.Helper()

	b, err := NewBadger(BadgerOptions{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"badger": b,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, KeyProMode, []byte("true")))
			got, err := s.Get(ctx, KeyProMode)
			require.NoError(t, err)
			assert.Equal(t, "true", string(got))

			require.NoError(t, s.Delete(ctx, KeyProMode))
			_, err = s.Get(ctx, KeyProMode)
			assert.ErrorIs(t, err, ErrNotFound)

			assert.NoError(t, s.Delete(ctx, KeyProMode), "deleting a missing key")
		})
	}
}

func TestBadgerRequiresDir(t *testing.T) {
	_, err := NewBadger(BadgerOptions{})
	assert.Error(t, err)
}

func TestBadgerPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	b, err := NewBadger(BadgerOptions{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, b.Set(ctx, KeyProMode, []byte("true")))
	require.NoError(t, b.Close())

	b, err = NewBadger(BadgerOptions{Dir: dir})
	require.NoError(t, err)
	defer b.Close()

	got, err := b.Get(ctx, KeyProMode)
	require.NoError(t, err)
	assert.Equal(t, "true", string(got))
}

func TestDetectionLogEvictsOldest(t *testing.T) {
	ctx := context.Background()

	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			log := NewDetectionLog(s)
			base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

			for i := 0; i < 60; i++ {
				err := log.Append(ctx, LogEntry{
					Timestamp: base.Add(time.Duration(i) * time.Second),
					Objects: []LoggedObject{{
						Label: fmt.Sprintf("obj-%d", i),
						Score: 0.9,
						BBox:  [4]float64{1, 2, 3, 4},
					}},
				})
				require.NoError(t, err)
			}

			entries, err := log.Entries(ctx)
			require.NoError(t, err)
			require.Len(t, entries, DetectionLogCapacity)

			assert.Equal(t, "obj-10", entries[0].Objects[0].Label)
			assert.Equal(t, "obj-59", entries[len(entries)-1].Objects[0].Label)
			assert.True(t, entries[0].Timestamp.Equal(base.Add(10*time.Second)))
			assert.Equal(t, [4]float64{1, 2, 3, 4}, entries[0].Objects[0].BBox)
		})
	}
}

func TestDetectionLogClear(t *testing.T) {
	ctx := context.Background()
	log := NewDetectionLog(NewMemory())

	require.NoError(t, log.Append(ctx, LogEntry{Timestamp: time.Now()}))
	require.NoError(t, log.Clear(ctx))

	entries, err := log.Entries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDetectionLogCorruptValue(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Set(ctx, KeyDetections, []byte{0xc1}))

	_, err := NewDetectionLog(s).Entries(ctx)
	assert.Error(t, err)
}
