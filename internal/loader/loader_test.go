package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchDeduplicatesKeys(t *testing.T) {
	var calls int
	var fetched [][]uint
	b := newBatch(func(ids []uint) (map[uint]string, error) {
		calls++
		fetched = append(fetched, ids)
		out := make(map[uint]string)
		for _, id := range ids {
			out[id] = "v"
		}
		return out, nil
	})

	got, err := b.loadMany([]uint{1, 2, 2, 1, 3})
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Len(t, fetched[0], 3)
	assert.Len(t, got, 3)
}

func TestBatchMemoizesAcrossCalls(t *testing.T) {
	var calls int
	b := newBatch(func(ids []uint) (map[uint]string, error) {
		calls++
		out := make(map[uint]string)
		for _, id := range ids {
			out[id] = "v"
		}
		return out, nil
	})

	_, err := b.loadMany([]uint{1, 2})
	require.NoError(t, err)
	_, err = b.loadMany([]uint{2, 3})
	require.NoError(t, err)

	// Second call should only have fetched the unseen id.
	assert.Equal(t, 2, calls)
}

func TestBatchMissingKeysNotRefetched(t *testing.T) {
	var calls int
	b := newBatch(func(ids []uint) (map[uint]string, error) {
		calls++
		// Nothing found for any key.
		return map[uint]string{}, nil
	})

	got, err := b.loadMany([]uint{9})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = b.loadMany([]uint{9})
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.Equal(t, 1, calls)
}

func TestBatchPropagatesFetchError(t *testing.T) {
	b := newBatch(func(ids []uint) (map[uint]int, error) {
		return nil, assert.AnError
	})

	_, err := b.loadMany([]uint{1})
	assert.ErrorIs(t, err, assert.AnError)
}
