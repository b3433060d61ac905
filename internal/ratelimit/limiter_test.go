package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter(t *testing.T) {
	t.Run("admits up to the ceiling and rejects the next", func(t *testing.T) {
		l := New(5, time.Minute)
		for i := 0; i < 5; i++ {
			assert.True(t, l.Allow("1.2.3.4"), "request %d should pass", i+1)
		}
		assert.False(t, l.Allow("1.2.3.4"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		l := New(1, time.Minute)
		assert.True(t, l.Allow("a"))
		assert.False(t, l.Allow("a"))
		assert.True(t, l.Allow("b"))
	})

	t.Run("entries age out of the window", func(t *testing.T) {
		now := time.Now()
		l := New(2, time.Minute)
		l.now = func() time.Time { return now }

		assert.True(t, l.Allow("c"))
		assert.True(t, l.Allow("c"))
		assert.False(t, l.Allow("c"))

		now = now.Add(61 * time.Second)
		assert.True(t, l.Allow("c"))
		assert.Equal(t, 1, l.Count("c"))
	})

	t.Run("rejected requests are not recorded", func(t *testing.T) {
		now := time.Now()
		l := New(1, time.Minute)
		l.now = func() time.Time { return now }

		assert.True(t, l.Allow("d"))

		now = now.Add(30 * time.Second)
		assert.False(t, l.Allow("d"))

		// Had the rejection at +30s been recorded, it would still block
		// here; only the admitted request at +0s counts, and it has
		// aged out.
		now = now.Add(31 * time.Second)
		assert.True(t, l.Allow("d"))
	})

	t.Run("concurrent requests never exceed the ceiling", func(t *testing.T) {
		const limit = 10
		l := New(limit, time.Minute)

		var wg sync.WaitGroup
		var mu sync.Mutex
		admitted := 0

		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if l.Allow("swarm") {
					mu.Lock()
					admitted++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, limit, admitted)
		assert.Equal(t, limit, l.Count("swarm"))
	})
}
