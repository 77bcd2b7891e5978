package inotab_test

import (
	"testing"

	"github.com/blockfs-dev/sfscore/internal/blockdev"
	"github.com/blockfs-dev/sfscore/internal/inotab"
	"github.com/blockfs-dev/sfscore/internal/ondisk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

func newMemTable(t *testing.T) *inotab.Table {
	t.Helper()
	totalBlocks := ondisk.InodeTableStart + ondisk.InodeTableCount
	storage := make([]byte, totalBlocks*blockdev.BlockSize)
	stream := bytesextra.NewReadWriteSeeker(storage)
	dev := blockdev.Wrap(stream, totalBlocks)
	return inotab.New(dev)
}

func TestWriteThenReadRoundTrips(t *testing.T) {
	table := newMemTable(t)

	want := ondisk.NewUnallocatedInode()
	want.Type = ondisk.InodeTypeRegular
	want.LinkCount = 1
	want.Size = 100
	want.DirectBlks[0] = 5

	require.NoError(t, table.Write(17, want))

	got, err := table.Read(17)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWriteDoesNotDisturbSiblingSlots(t *testing.T) {
	table := newMemTable(t)

	a := ondisk.NewUnallocatedInode()
	a.Type = ondisk.InodeTypeRegular
	a.Size = 1
	b := ondisk.NewUnallocatedInode()
	b.Type = ondisk.InodeTypeRegular
	b.Size = 2

	// Inodes 10 and 11 share a block (InodesPerBlock == 5).
	require.NoError(t, table.Write(10, a))
	require.NoError(t, table.Write(11, b))

	gotA, err := table.Read(10)
	require.NoError(t, err)
	assert.Equal(t, a, gotA)

	gotB, err := table.Read(11)
	require.NoError(t, err)
	assert.Equal(t, b, gotB)
}

func TestFreeResetsInodeToUnallocated(t *testing.T) {
	table := newMemTable(t)

	live := ondisk.NewUnallocatedInode()
	live.Type = ondisk.InodeTypeRegular
	live.Size = 50
	require.NoError(t, table.Write(3, live))

	require.NoError(t, table.Free(3))

	got, err := table.Read(3)
	require.NoError(t, err)
	assert.False(t, got.IsLive())
	assert.Equal(t, ondisk.NewUnallocatedInode(), got)
}

func TestFormatAllClearsEveryInode(t *testing.T) {
	table := newMemTable(t)
	require.NoError(t, table.FormatAll())

	for n := 0; n < ondisk.TotalInodes; n++ {
		got, err := table.Read(n)
		require.NoError(t, err)
		assert.False(t, got.IsLive())
	}
}
