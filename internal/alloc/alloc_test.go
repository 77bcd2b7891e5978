package alloc_test

import (
	"testing"

	"github.com/blockfs-dev/sfscore/errors"
	"github.com/blockfs-dev/sfscore/internal/alloc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInodeBitmapAllocatesLowestFreeIndex(t *testing.T) {
	raw := make([]byte, 100)
	raw[0] = 1
	raw[1] = 1

	bm := alloc.LoadInodeBitmap(raw)
	n, err := bm.Allocate()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	bm.Store(raw)
	assert.Equal(t, byte(1), raw[2])
	assert.Equal(t, 97, bm.CountFree())
}

func TestInodeBitmapFreeRoundTrips(t *testing.T) {
	raw := make([]byte, 100)
	bm := alloc.LoadInodeBitmap(raw)

	n, err := bm.Allocate()
	require.NoError(t, err)
	assert.True(t, bm.IsAllocated(n))

	bm.Free(n)
	assert.False(t, bm.IsAllocated(n))
	assert.Equal(t, 100, bm.CountFree())
}

func TestInodeBitmapExhaustion(t *testing.T) {
	raw := make([]byte, 100)
	for i := range raw {
		raw[i] = 1
	}
	bm := alloc.LoadInodeBitmap(raw)

	_, err := bm.Allocate()
	assert.ErrorIs(t, err, errors.ErrOutOfInodes)
}

func TestInodeBitmapAllowsIndex99(t *testing.T) {
	raw := make([]byte, 100)
	for i := 0; i < 99; i++ {
		raw[i] = 1
	}
	bm := alloc.LoadInodeBitmap(raw)

	n, err := bm.Allocate()
	require.NoError(t, err)
	assert.Equal(t, 99, n)
}

func newEmptyDataBitmapBlocks() [][]byte {
	blocks := make([][]byte, 3)
	for i := range blocks {
		blocks[i] = make([]byte, 512)
	}
	return blocks
}

func TestDataBitmapAllocatesLowestFreeIndex(t *testing.T) {
	blocks := newEmptyDataBitmapBlocks()
	bm := alloc.LoadDataBitmap(blocks, 1100)

	n, err := bm.Allocate()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	bm.Store(blocks)
	assert.Equal(t, byte(1), blocks[0][0])
}

func TestDataBitmapStoreStampsSentinel(t *testing.T) {
	blocks := newEmptyDataBitmapBlocks()
	bm := alloc.LoadDataBitmap(blocks, 1100)
	bm.Store(blocks)

	assert.Equal(t, byte(0xFF), blocks[3-1][366])
}

func TestDataBitmapAllowsLastLogicalIndex(t *testing.T) {
	blocks := newEmptyDataBitmapBlocks()
	bm := alloc.LoadDataBitmap(blocks, 1100)
	for i := 0; i < 1099; i++ {
		_, err := bm.Allocate()
		require.NoError(t, err)
	}

	n, err := bm.Allocate()
	require.NoError(t, err)
	assert.Equal(t, 1099, n)
	assert.Equal(t, 0, bm.CountFree())
}

func TestDataBitmapExhaustion(t *testing.T) {
	blocks := newEmptyDataBitmapBlocks()
	bm := alloc.LoadDataBitmap(blocks, 1100)
	for i := 0; i < 1100; i++ {
		_, err := bm.Allocate()
		require.NoError(t, err)
	}

	_, err := bm.Allocate()
	assert.ErrorIs(t, err, errors.ErrOutOfDataBlocks)
}

func TestDataBitmapRoundTripsThroughStoreAndLoad(t *testing.T) {
	blocks := newEmptyDataBitmapBlocks()
	bm := alloc.LoadDataBitmap(blocks, 1100)
	allocated, err := bm.Allocate()
	require.NoError(t, err)
	bm.Store(blocks)

	reloaded := alloc.LoadDataBitmap(blocks, 1100)
	assert.True(t, reloaded.IsAllocated(allocated))
	assert.Equal(t, 1099, reloaded.CountFree())
}
