package ledger

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPairLocksSerializeSamePair(t *testing.T) {
	locks := newPairLocks()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(1, 1)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, counter)
}

func TestPairLocksIndependentAcrossPairs(t *testing.T) {
	locks := newPairLocks()

	unlock := locks.Lock(1, 1)
	defer unlock()

	// A different pair must not block.
	done := make(chan struct{})
	go func() {
		u := locks.Lock(1, 2)
		u()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different pair blocked")
	}
}
