package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedLockerSerializesSameKey(t *testing.T) {
	locker := NewKeyedLocker()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.Lock("poc-a")
			defer unlock()
			current := counter
			counter = current + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, locker.Len())
}

func TestKeyedLockerIndependentKeys(t *testing.T) {
	locker := NewKeyedLocker()

	unlockA := locker.Lock("poc-a")
	done := make(chan struct{})
	go func() {
		unlockB := locker.Lock("poc-b")
		unlockB()
		close(done)
	}()
	<-done

	assert.Equal(t, 1, locker.Len())
	unlockA()
	assert.Equal(t, 0, locker.Len())
}
