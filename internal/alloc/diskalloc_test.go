package alloc_test

import (
	"testing"

	"github.com/blockfs-dev/sfscore/internal/alloc"
	"github.com/blockfs-dev/sfscore/internal/blockdev"
	"github.com/blockfs-dev/sfscore/internal/ondisk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

func newFormattedDevice(t *testing.T) *blockdev.Device {
	t.Helper()
	totalBlocks := ondisk.DataBlocksStart + ondisk.DataBlocksCount
	storage := make([]byte, totalBlocks*blockdev.BlockSize)
	stream := bytesextra.NewReadWriteSeeker(storage)
	dev := blockdev.Wrap(stream, totalBlocks)

	sb := ondisk.NewSuperblock()
	buf, err := sb.MarshalBinary()
	require.NoError(t, err)
	require.NoError(t, dev.WriteBlock(ondisk.SuperblockIndex, buf))

	require.NoError(t, alloc.NewDiskDataAllocator(dev).FormatBitmap())
	return dev
}

func TestDiskInodeAllocatorPersistsAcrossCalls(t *testing.T) {
	dev := newFormattedDevice(t)
	a := alloc.NewDiskInodeAllocator(dev)

	n1, err := a.Allocate()
	require.NoError(t, err)
	n2, err := a.Allocate()
	require.NoError(t, err)
	assert.NotEqual(t, n1, n2)

	require.NoError(t, a.Free(n1))

	n3, err := a.Allocate()
	require.NoError(t, err)
	assert.Equal(t, n1, n3)
}

func TestDiskDataAllocatorUpdatesSuperblockFreeCount(t *testing.T) {
	dev := newFormattedDevice(t)
	a := alloc.NewDiskDataAllocator(dev)

	_, err := a.Allocate()
	require.NoError(t, err)

	block := make([]byte, blockdev.BlockSize)
	require.NoError(t, dev.ReadBlock(ondisk.SuperblockIndex, block))
	var sb ondisk.Superblock
	require.NoError(t, sb.UnmarshalBinary(block))
	assert.Equal(t, int32(ondisk.TotalDataBlocks-1), sb.FreeData)
}

func TestDiskDataAllocatorAllocatesAllLogicalBlocks(t *testing.T) {
	dev := newFormattedDevice(t)
	a := alloc.NewDiskDataAllocator(dev)

	seen := make(map[int]bool)
	for i := 0; i < ondisk.TotalDataBlocks; i++ {
		n, err := a.Allocate()
		require.NoError(t, err)
		assert.False(t, seen[n])
		seen[n] = true
	}

	_, err := a.Allocate()
	assert.Error(t, err)
}
