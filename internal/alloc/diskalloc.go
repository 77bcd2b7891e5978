package alloc

import (
	"github.com/blockfs-dev/sfscore/internal/blockdev"
	"github.com/blockfs-dev/sfscore/internal/ondisk"
)

// DiskInodeAllocator persists inode allocation state in the superblock's
// inode bitmap, reading and writing the superblock block on every call per
// the no-cache concurrency model: no allocation decision survives past the
// operation that made it without being on disk.
type DiskInodeAllocator struct {
	dev *blockdev.Device
}

// NewDiskInodeAllocator wraps dev as a persisted inode allocator.
func NewDiskInodeAllocator(dev *blockdev.Device) *DiskInodeAllocator {
	return &DiskInodeAllocator{dev: dev}
}

func (a *DiskInodeAllocator) readSuperblock() (ondisk.Superblock, error) {
	var sb ondisk.Superblock
	block := make([]byte, blockdev.BlockSize)
	if err := a.dev.ReadBlock(ondisk.SuperblockIndex, block); err != nil {
		return sb, err
	}
	if err := sb.UnmarshalBinary(block); err != nil {
		return sb, err
	}
	return sb, nil
}

func (a *DiskInodeAllocator) writeSuperblock(sb ondisk.Superblock) error {
	buf, err := sb.MarshalBinary()
	if err != nil {
		return err
	}
	return a.dev.WriteBlock(ondisk.SuperblockIndex, buf)
}

// Allocate marks the first free inode allocated and returns its number.
func (a *DiskInodeAllocator) Allocate() (int, error) {
	sb, err := a.readSuperblock()
	if err != nil {
		return 0, err
	}

	bm := LoadInodeBitmap(sb.InodeBitmap[:])
	n, err := bm.Allocate()
	if err != nil {
		return 0, err
	}
	bm.Store(sb.InodeBitmap[:])
	sb.FreeInodes--

	if err := a.writeSuperblock(sb); err != nil {
		return 0, err
	}
	return n, nil
}

// Free marks inode n unallocated.
func (a *DiskInodeAllocator) Free(n int) error {
	sb, err := a.readSuperblock()
	if err != nil {
		return err
	}

	bm := LoadInodeBitmap(sb.InodeBitmap[:])
	bm.Free(n)
	bm.Store(sb.InodeBitmap[:])
	sb.FreeInodes++

	return a.writeSuperblock(sb)
}

// DiskDataAllocator persists data-block allocation state across the three
// physical data-bitmap blocks and the superblock's free-data counter.
type DiskDataAllocator struct {
	dev *blockdev.Device
}

// NewDiskDataAllocator wraps dev as a persisted data-block allocator.
func NewDiskDataAllocator(dev *blockdev.Device) *DiskDataAllocator {
	return &DiskDataAllocator{dev: dev}
}

func (a *DiskDataAllocator) readBitmapBlocks() ([][]byte, error) {
	blocks := make([][]byte, ondisk.DataBitmapCount)
	for i := range blocks {
		blocks[i] = make([]byte, blockdev.BlockSize)
		if err := a.dev.ReadBlock(ondisk.DataBitmapStart+i, blocks[i]); err != nil {
			return nil, err
		}
	}
	return blocks, nil
}

func (a *DiskDataAllocator) writeBitmapBlocks(blocks [][]byte) error {
	for i, block := range blocks {
		if err := a.dev.WriteBlock(ondisk.DataBitmapStart+i, block); err != nil {
			return err
		}
	}
	return nil
}

func (a *DiskDataAllocator) readSuperblock() (ondisk.Superblock, error) {
	var sb ondisk.Superblock
	block := make([]byte, blockdev.BlockSize)
	if err := a.dev.ReadBlock(ondisk.SuperblockIndex, block); err != nil {
		return sb, err
	}
	if err := sb.UnmarshalBinary(block); err != nil {
		return sb, err
	}
	return sb, nil
}

func (a *DiskDataAllocator) writeSuperblock(sb ondisk.Superblock) error {
	buf, err := sb.MarshalBinary()
	if err != nil {
		return err
	}
	return a.dev.WriteBlock(ondisk.SuperblockIndex, buf)
}

// Allocate marks the first free logical data block allocated and returns
// it.
func (a *DiskDataAllocator) Allocate() (int, error) {
	blocks, err := a.readBitmapBlocks()
	if err != nil {
		return 0, err
	}
	sb, err := a.readSuperblock()
	if err != nil {
		return 0, err
	}

	bm := LoadDataBitmap(blocks, ondisk.TotalDataBlocks)
	logical, err := bm.Allocate()
	if err != nil {
		return 0, err
	}
	bm.Store(blocks)
	sb.FreeData--

	if err := a.writeBitmapBlocks(blocks); err != nil {
		return 0, err
	}
	if err := a.writeSuperblock(sb); err != nil {
		return 0, err
	}
	return logical, nil
}

// Free marks logical data block n unallocated. It does not zero the
// backing data block; callers that need that (unlink) do it separately.
func (a *DiskDataAllocator) Free(n int) error {
	blocks, err := a.readBitmapBlocks()
	if err != nil {
		return err
	}
	sb, err := a.readSuperblock()
	if err != nil {
		return err
	}

	bm := LoadDataBitmap(blocks, ondisk.TotalDataBlocks)
	bm.Free(n)
	bm.Store(blocks)
	sb.FreeData++

	if err := a.writeBitmapBlocks(blocks); err != nil {
		return err
	}
	return a.writeSuperblock(sb)
}

// FormatBitmap resets the three bitmap blocks to all-free (with the
// sentinel stamped), used by Init to lay down a fresh image.
func (a *DiskDataAllocator) FormatBitmap() error {
	blocks := make([][]byte, ondisk.DataBitmapCount)
	for i := range blocks {
		blocks[i] = make([]byte, blockdev.BlockSize)
	}
	bm := LoadDataBitmap(blocks, ondisk.TotalDataBlocks)
	bm.Store(blocks)
	return a.writeBitmapBlocks(blocks)
}
