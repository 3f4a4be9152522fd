package lock

import (
	"sync"
	"testing"
)

func TestMutexMap_SerializesSameKey(t *testing.T) {
	m := NewMutexMap()

	// Simulate the store's read-modify-write cycle on one state key: with
	// the key held, every increment must land.
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Lock("billing-service.processing")
			counter++
			m.Unlock("billing-service.processing")
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("counter = %d, want 100", counter)
	}
}

func TestMutexMap_IndependentKeys(t *testing.T) {
	m := NewMutexMap()

	// Holding one plan's key must not block another plan's.
	m.Lock("billing-service")
	done := make(chan struct{})
	go func() {
		m.Lock("search-service")
		m.Unlock("search-service")
		close(done)
	}()
	<-done
	m.Unlock("billing-service")
}

func TestMutexMap_Relock(t *testing.T) {
	m := NewMutexMap()

	m.Lock("billing-service")
	m.Unlock("billing-service")
	m.Lock("billing-service")
	m.Unlock("billing-service")
}
