package random

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeBounds(t *testing.T) {
	src := New(1)

	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		n := src.Range(1, 6)
		require.GreaterOrEqual(t, n, 1)
		require.LessOrEqual(t, n, 6)
		seen[n] = true
	}
	assert.Len(t, seen, 6, "every face should come up in 1000 rolls")

	assert.Equal(t, 4, src.Range(4, 4))
	assert.Equal(t, -3, src.Range(-3, -3))
}

func TestRangeDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Range(1, 100), b.Range(1, 100))
	}
}

func TestRangeInvalid(t *testing.T) {
	assert.Panics(t, func() { New(1).Range(2, 1) })
}

func TestPick(t *testing.T) {
	src := New(7)
	items := []string{"a", "b", "c"}

	seen := map[string]bool{}
	for i := 0; i < 300; i++ {
		seen[Pick(src, items)] = true
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, 9, Pick(src, []int{9}))
}

func TestPickEmpty(t *testing.T) {
	assert.PanicsWithValue(t, ErrEmptyInput, func() { Pick(New(1), []int{}) })
}

func TestConcurrentUse(t *testing.T) {
	src, err := NewSeeded()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				n := src.Range(1, 20)
				if n < 1 || n > 20 {
					t.Errorf("out of range: %d", n)
				}
			}
		}()
	}
	wg.Wait()
}
