package handoff_test

import (
	"sync"
	"testing"

	"github.com/katalvlaran/cellauto/handoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Lifecycle(t *testing.T) {
	reg := handoff.NewRegistry()
	buf := []byte{0, 1, 1}
	h := reg.Put(buf)
	assert.NotEqual(t, handoff.Null, h)
	assert.Equal(t, 1, reg.Outstanding())

	got, err := handoff.Get[[]byte](reg, h)
	require.NoError(t, err)
	got[0] = 1
	assert.Equal(t, byte(1), buf[0], "Get borrows without copying")

	require.NoError(t, reg.Release(h))
	assert.Zero(t, reg.Outstanding())

	_, err = handoff.Get[[]byte](reg, h)
	assert.ErrorIs(t, err, handoff.ErrReleased)
	assert.NoError(t, reg.Release(h), "second release is a no-op")
}

func TestRegistry_Errors(t *testing.T) {
	reg := handoff.NewRegistry()
	h := reg.Put("text")

	_, err := handoff.Get[[]byte](reg, h)
	assert.ErrorIs(t, err, handoff.ErrTypeMismatch)

	_, err = handoff.Get[string](reg, handoff.Null)
	assert.ErrorIs(t, err, handoff.ErrUnknownHandle)
	_, err = handoff.Get[string](reg, h+10)
	assert.ErrorIs(t, err, handoff.ErrUnknownHandle)

	assert.NoError(t, reg.Release(handoff.Null))
	assert.ErrorIs(t, reg.Release(h+10), handoff.ErrUnknownHandle)
	assert.Equal(t, 1, reg.Outstanding())
}

func TestRegistry_HandlesAreNeverReused(t *testing.T) {
	reg := handoff.NewRegistry()
	a := reg.Put(1)
	require.NoError(t, reg.Release(a))
	b := reg.Put(2)
	assert.NotEqual(t, a, b)
}

func TestRegistry_Concurrent(t *testing.T) {
	reg := handoff.NewRegistry()
	const workers, each = 8, 200

	var wg sync.WaitGroup
	seen := make([][]handoff.Handle, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < each; i++ {
				h := reg.Put(i)
				v, err := handoff.Get[int](reg, h)
				if err != nil || v != i {
					t.Errorf("worker %d: got %d, %v", w, v, err)
					return
				}
				seen[w] = append(seen[w], h)
				if i%2 == 0 {
					_ = reg.Release(h)
				}
			}
		}(w)
	}
	wg.Wait()

	unique := make(map[handoff.Handle]struct{})
	for _, hs := range seen {
		for _, h := range hs {
			unique[h] = struct{}{}
		}
	}
	assert.Len(t, unique, workers*each)
	assert.Equal(t, workers*each/2, reg.Outstanding())
}
