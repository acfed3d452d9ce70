package nonce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_Next_UsesClock(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	s := NewWithClock(func() time.Time { return now })

	assert.Equal(t, int64(1700000000000), s.Next("key"))

	now = now.Add(5 * time.Millisecond)
	assert.Equal(t, int64(1700000000005), s.Next("key"))
}

func TestSource_Next_FrozenClock(t *testing.T) {
	frozen := time.UnixMilli(1700000000000)
	s := NewWithClock(func() time.Time { return frozen })

	first := s.Next("key")
	second := s.Next("key")
	third := s.Next("key")

	assert.Equal(t, first+1, second)
	assert.Equal(t, second+1, third)
	assert.Equal(t, third, s.Last("key"))
}

func TestSource_Next_ClockGoesBackwards(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	s := NewWithClock(func() time.Time { return now })

	first := s.Next("key")
	now = now.Add(-time.Minute)

	assert.Greater(t, s.Next("key"), first)
}

func TestSource_KeysAreIndependent(t *testing.T) {
	frozen := time.UnixMilli(1700000000000)
	s := NewWithClock(func() time.Time { return frozen })

	s.Next("a")
	s.Next("a")

	assert.Equal(t, int64(1700000000000), s.Next("b"))
	assert.Equal(t, int64(1700000000001), s.Last("a"))
}

func TestSource_Forget(t *testing.T) {
	frozen := time.UnixMilli(1700000000000)
	s := NewWithClock(func() time.Time { return frozen })

	s.Next("key")
	s.Next("key")
	s.Forget("key")

	assert.Equal(t, int64(0), s.Last("key"))
	assert.Equal(t, int64(1700000000000), s.Next("key"))
}

func TestSource_Next_Concurrent(t *testing.T) {
	s := New()

	const workers = 8
	const perWorker = 200

	var mu sync.Mutex
	seen := make(map[int64]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				n := s.Next("shared")
				mu.Lock()
				seen[n] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers*perWorker)
}
