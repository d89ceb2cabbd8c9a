package bus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type boardQuery struct{ Board string }

func (boardQuery) Validate() error      { return nil }
func (q boardQuery) GetBoardID() string { return q.Board }

type plainQuery struct{}

func (plainQuery) Validate() error { return nil }

type countingCache struct{ items map[string]interface{} }

func (c *countingCache) Get(_ context.Context, key string) (interface{}, bool) {
	v, ok := c.items[key]
	return v, ok
}

func (c *countingCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.items[key] = value
	return nil
}

type recordingMetrics struct{ names []string }

func (m *recordingMetrics) ObserveQuery(name string, _ time.Duration, _ bool) {
	m.names = append(m.names, name)
}

func TestCachingMiddleware(t *testing.T) {
	version := 1
	calls := 0
	handler := QueryHandlerFunc(func(context.Context, Query) (interface{}, error) {
		calls++
		return calls, nil
	})
	cache := NewCachingMiddleware(&countingCache{items: map[string]interface{}{}}, time.Minute,
		func(_ context.Context, board string) (int, bool) { return version, board == "known" })

	metrics := &recordingMetrics{}
	b := NewQueryBus(metrics)
	require.NoError(t, b.Register(boardQuery{}, cache.Wrap(handler)))
	require.NoError(t, b.Register(plainQuery{}, cache.Wrap(handler)))
	assert.Error(t, b.Register(plainQuery{}, handler))

	ask := func(q Query) interface{} {
		out, err := b.Ask(context.Background(), q)
		require.NoError(t, err)
		return out
	}

	assert.Equal(t, 1, ask(boardQuery{Board: "known"}))
	assert.Equal(t, 1, ask(boardQuery{Board: "known"}), "same version is served from cache")
	version = 2
	assert.Equal(t, 2, ask(boardQuery{Board: "known"}))
	assert.Equal(t, 3, ask(boardQuery{Board: "unknown"}), "unknown boards bypass the cache")
	assert.Equal(t, 4, ask(plainQuery{}))
	assert.Equal(t, 5, ask(plainQuery{}))

	assert.Len(t, metrics.names, 6)
	assert.Equal(t, "boardQuery", metrics.names[0])
}
