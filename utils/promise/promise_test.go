package promise

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromise(t *testing.T) {
	p := New[int]()

	var wg sync.WaitGroup
	results := make([]int, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		i := i
		go func() {
			defer wg.Done()
			v, err := p.Get()
			require.NoError(t, err)
			results[i] = v
		}()
	}

	p.Done(42, nil)
	wg.Wait()
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestPromiseError(t *testing.T) {
	p := New[string]()
	p.Done("", errors.New("load failed"))

	_, err := p.Get()
	assert.EqualError(t, err, "load failed")
}

// Only the first Done settles the promise.
func TestPromiseDoneOnce(t *testing.T) {
	p := New[int]()
	p.Done(1, nil)
	p.Done(2, nil)

	v, err := p.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestFulfilled(t *testing.T) {
	p := Fulfilled(nil, "ready")
	v, err := p.Get()
	require.NoError(t, err)
	assert.Equal(t, "ready", v)
}
