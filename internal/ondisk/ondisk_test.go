package ondisk_test

import (
	"strings"
	"testing"

	"github.com/blockfs-dev/sfscore/internal/ondisk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInodeRoundTripsThroughMarshal(t *testing.T) {
	want := ondisk.NewUnallocatedInode()
	want.Type = ondisk.InodeTypeRegular
	want.LinkCount = 1
	want.Size = 42
	want.DirectBlks[0] = 7

	buf, err := want.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, buf, ondisk.InodeRecordSize)

	var got ondisk.RawInode
	require.NoError(t, got.UnmarshalBinary(buf))
	assert.Equal(t, want, got)
}

func TestUnallocatedInodeHasNoLiveDirectBlocks(t *testing.T) {
	inode := ondisk.NewUnallocatedInode()
	assert.False(t, inode.IsLive())
	for _, db := range inode.DirectBlks {
		assert.Equal(t, ondisk.UnallocatedBlock, db)
	}
}

func TestDirentSetNameTruncatesAndZeroTerminates(t *testing.T) {
	d := ondisk.NewFreeDirent()
	d.SetName("/short")
	assert.Equal(t, "/short", d.NameString())
	assert.False(t, d.IsFree())

	buf, err := d.MarshalBinary()
	require.NoError(t, err)

	var got ondisk.RawDirent
	require.NoError(t, got.UnmarshalBinary(buf))
	assert.Equal(t, "/short", got.NameString())
	assert.Equal(t, ondisk.NoInode, got.InodeNum)

	long := strings.Repeat("x", 200)
	d.SetName(long)
	assert.Equal(t, long[:ondisk.DirentNameSize-1], d.NameString())
	assert.Equal(t, byte(0), d.Name[ondisk.DirentNameSize-1])
}

func TestFreeDirentIsFree(t *testing.T) {
	d := ondisk.NewFreeDirent()
	assert.True(t, d.IsFree())
}

func TestSuperblockRoundTripsThroughMarshal(t *testing.T) {
	want := ondisk.NewSuperblock()
	want.FreeInodes = 99

	buf, err := want.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, buf, ondisk.BlockSize)

	var got ondisk.Superblock
	require.NoError(t, got.UnmarshalBinary(buf))
	assert.Equal(t, want, got)
}

func TestInodeSlotAddressing(t *testing.T) {
	assert.Equal(t, ondisk.InodeTableStart, ondisk.InodeBlockIndex(0))
	assert.Equal(t, ondisk.InodeTableStart+1, ondisk.InodeBlockIndex(5))
	assert.Equal(t, 0, ondisk.InodeSlotOffset(0))
	assert.Equal(t, ondisk.InodeRecordSize, ondisk.InodeSlotOffset(1))
}

func TestDirentSlotAddressing(t *testing.T) {
	assert.Equal(t, ondisk.DirTableStart, ondisk.DirentBlockIndex(0))
	assert.Equal(t, ondisk.DirTableStart+1, ondisk.DirentBlockIndex(4))
	assert.Equal(t, 0, ondisk.DirentSlotOffset(0))
	assert.Equal(t, ondisk.DirentRecordSize, ondisk.DirentSlotOffset(1))
}
