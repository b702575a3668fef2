package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageGet(t *testing.T) {
	store := NewStorage(nil)

	ok, err := store.Get("test", nil)

	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestStorageSet(t *testing.T) {
	store := NewStorage(nil)

	expected := "result"
	err := store.Set("key", expected)

	assert.NoError(t, err)

	var result string

	ok, err := store.Get("key", &result)

	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, expected, result)
}

func TestStorageGetMissingKeyLeavesTarget(t *testing.T) {
	store := NewStorage(nil)

	result := "unchanged"
	ok, err := store.Get("missing", &result)

	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "unchanged", result)
}

func TestStorageDeleteAndKeys(t *testing.T) {
	store := NewStorage(nil)

	require.NoError(t, store.Set("b", 2))
	require.NoError(t, store.Set("a", 1))

	keys, err := store.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	ok, err := store.Delete("a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Delete("a")
	require.NoError(t, err)
	assert.False(t, ok)

	keys, err = store.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)
}

type failingMemory struct {
	inMemory
}

func (failingMemory) Get(string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func TestStorageWrapsMemoryErrors(t *testing.T) {
	store := NewStorage(nil)
	store.SetMemory(&failingMemory{inMemory: *newInMemory()})

	_, err := store.Get("key", nil)
	assert.ErrorContains(t, err, "connection refused")
}

func TestStorageStructValues(t *testing.T) {
	type lastRoll struct {
		Dice string
	}

	store := NewStorage(nil)
	require.NoError(t, store.Set("roll:1", lastRoll{Dice: "3d6+2"}))

	var got lastRoll
	ok, err := store.Get("roll:1", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, lastRoll{Dice: "3d6+2"}, got)
}
