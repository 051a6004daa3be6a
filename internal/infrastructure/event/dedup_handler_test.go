package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bottling/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ *cache.InMemoryIdempotencyStore }

func (failingStore) MarkProcessed(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis unavailable")
}

func TestDedupHandler(t *testing.T) {
	item := uuid.New()

	tests := []struct {
		name       string
		key        KeyFunc
		events     []*testEvent
		wantCalls  int
		wantDedups int64
	}{
		{
			name:      "by event id lets distinct events through",
			key:       ByEventID,
			events:    []*testEvent{newTestEvent("A", item), newTestEvent("A", item)},
			wantCalls: 2,
		},
		{
			name:       "by aggregate suppresses repeats for one item",
			key:        ByAggregate,
			events:     []*testEvent{newTestEvent("A", item), newTestEvent("A", item), newTestEvent("A", uuid.New())},
			wantCalls:  2,
			wantDedups: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := cache.NewInMemoryIdempotencyStore()
			defer store.Close()
			inner := newRecordingHandler("A")
			h := NewDedupHandler(inner, store, nil, WithKeyFunc(tt.key), WithWindow(time.Hour))

			for _, e := range tt.events {
				require.NoError(t, h.Handle(context.Background(), e))
			}
			assert.Equal(t, tt.wantCalls, inner.count())
			assert.Equal(t, tt.wantDedups, h.Stats().Suppressed)
			assert.Equal(t, []string{"A"}, h.EventTypes())
		})
	}
}

func TestDedupHandler_RedeliveredEvent(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	inner := newRecordingHandler("A")
	h := NewDedupHandler(inner, store, nil)

	e := newTestEvent("A", uuid.New())
	require.NoError(t, h.Handle(context.Background(), e))
	require.NoError(t, h.Handle(context.Background(), e))

	assert.Equal(t, 1, inner.count())
}

func TestDedupHandler_FailureReleasesKey(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	inner := &recordingHandler{types: []string{"A"}, err: errors.New("sink down")}
	h := NewDedupHandler(inner, store, nil, WithKeyFunc(ByAggregate))

	e := newTestEvent("A", uuid.New())
	require.Error(t, h.Handle(context.Background(), e))

	held, err := store.IsProcessed(context.Background(), ByAggregate(e))
	require.NoError(t, err)
	assert.False(t, held)
	assert.Equal(t, int64(1), h.Stats().Failed)
}

func TestDedupHandler_StoreErrorStillHandles(t *testing.T) {
	store := failingStore{cache.NewInMemoryIdempotencyStore()}
	defer store.Close()
	inner := newRecordingHandler("A")
	h := NewDedupHandler(inner, store, nil)

	require.NoError(t, h.Handle(context.Background(), newTestEvent("A", uuid.New())))
	assert.Equal(t, 1, inner.count())
}
