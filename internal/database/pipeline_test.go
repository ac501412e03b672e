package database

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineRunsInOrder(t *testing.T) {
	s := newSession(t)
	p := s.Pipeline()

	set := p.Enqueue("SET", "k", "v")
	get := p.Enqueue("GET", "k")
	push := p.Enqueue("RPUSH", "l", "a", "b")
	rng := p.Enqueue("LRANGE", "l", "0", "-1")
	assert.Equal(t, 4, p.Len())

	// nothing is applied before Run
	_, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = get.Result()
	assert.ErrorIs(t, err, ErrNotExecuted)

	replies, err := p.Run()
	require.NoError(t, err)
	require.Len(t, replies, 4)

	text, ok, err := set.Reply().Text()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "OK", text)

	text, ok, err = get.Reply().Text()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", text)

	n, err := push.Reply().Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	items, err := rng.Reply().Strings()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, items)

	assert.Equal(t, replies[1], get.Reply())
}

func TestPipelineErrorsAreIsolated(t *testing.T) {
	s := newSession(t)
	p := s.Pipeline()

	p.Enqueue("SET", "k", "text")
	bad := p.Enqueue("INCR", "k")
	unknown := p.Enqueue("NOSUCH")
	after := p.Enqueue("HSET", "h", "f", "v")

	_, err := p.Run()
	require.NoError(t, err)

	val, err := bad.Result()
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Nil(t, val)
	_, err = unknown.Result()
	assert.ErrorIs(t, err, ErrInvalidArgument)

	n, err := after.Reply().Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestPipelineRunsOnce(t *testing.T) {
	s := newSession(t)
	p := s.Pipeline()
	h := p.Enqueue("INCR", "n")

	_, err := p.Run()
	require.NoError(t, err)

	_, err = p.Run()
	assert.ErrorIs(t, err, ErrPipelineSpent)

	late := p.Enqueue("INCR", "n")
	_, err = late.Result()
	assert.ErrorIs(t, err, ErrPipelineSpent)

	n, err := h.Reply().Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "second Run must not apply commands again")

	v, _, _ := s.Get("n")
	assert.Equal(t, "1", v)
}

func TestPipelineDiscard(t *testing.T) {
	s := newSession(t)
	p := s.Multi()
	h := p.Enqueue("SET", "k", "v")

	require.NoError(t, p.Discard())
	assert.ErrorIs(t, p.Discard(), ErrPipelineSpent)

	_, err := p.Run()
	assert.ErrorIs(t, err, ErrPipelineSpent)
	_, err = h.Result()
	assert.ErrorIs(t, err, ErrPipelineSpent)

	exists, _ := s.Exists("k")
	assert.Zero(t, exists)
}

func TestReplyAccessors(t *testing.T) {
	_, err := Reply{Val: "text"}.Int64()
	assert.Error(t, err)

	_, _, err = Reply{Val: int64(1)}.Text()
	assert.Error(t, err)

	text, ok, err := Reply{Val: Status("list")}.Text()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "list", text)

	_, ok, err = Reply{}.Text()
	require.NoError(t, err)
	assert.False(t, ok)

	m, err := Reply{Val: map[string]string{"a": "1"}}.StringMap()
	require.NoError(t, err)
	assert.Equal(t, "1", m["a"])

	_, err = Reply{Err: ErrWrongType}.Strings()
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestMultiHashRoundTrip(t *testing.T) {
	s := newSession(t)
	tx := s.Multi()

	tx.Enqueue("HSET", "hash", "field", "value")
	get := tx.Enqueue("HGET", "hash", "field")

	_, err := tx.Run()
	require.NoError(t, err)

	v, ok, err := get.Reply().Text()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestMultiSelectCarriesOver(t *testing.T) {
	s := newSession(t)
	tx := s.Multi()

	tx.Enqueue("SELECT", "2")
	tx.Enqueue("SET", "k", "in two")
	move := tx.Enqueue("MOVE", "k", "3")

	_, err := tx.Run()
	require.NoError(t, err)
	_, err = move.Result()
	require.NoError(t, err)

	assert.Equal(t, 2, s.Selected())
	require.NoError(t, s.Select(3))
	v, _, _ := s.Get("k")
	assert.Equal(t, "in two", v)
}

func TestMultiIsAtomic(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Set("n", "0"))

	const batches = 20
	const perBatch = 50

	var wg sync.WaitGroup
	observed := make(chan string, batches*perBatch)

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < batches; i++ {
			tx := s.dir.NewSession().Multi()
			for j := 0; j < perBatch; j++ {
				tx.Enqueue("INCR", "n")
			}
			_, err := tx.Run()
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		reader := s.dir.NewSession()
		for i := 0; i < batches*perBatch; i++ {
			v, _, err := reader.Get("n")
			assert.NoError(t, err)
			observed <- v
		}
	}()
	wg.Wait()
	close(observed)

	// a reader only ever sees whole batches applied
	for v := range observed {
		n, err := parseInt(v)
		require.NoError(t, err)
		assert.Zero(t, n%perBatch, "observed partial batch: %d", n)
	}

	v, _, _ := s.Get("n")
	assert.Equal(t, "1000", v)
}
