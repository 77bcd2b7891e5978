package alloc

import (
	bitmap "github.com/boljen/go-bitmap"

	"github.com/blockfs-dev/sfscore/errors"
)

// dataBitmapBytesPerBlock is the number of real bitmap bytes packed into
// each physical bitmap block. 3 blocks of this size give one scan position
// past TotalDataBlocks real logical indices; that extra position holds the
// sentinel and is never allocated.
const dataBitmapBytesPerBlock = 367

// DataBitmap is the in-memory scan structure for the three-block logical
// data-block allocation map. Logical indices 0..totalBlocks-1 map one to one
// onto physical data blocks DataBlocksStart..DataBlocksStart+totalBlocks-1;
// the map itself spans three physical blocks of dataBitmapBytesPerBlock
// bytes of real data each, plus one trailing sentinel byte that closes off
// the one scan position past the last real logical index.
type DataBitmap struct {
	bits        bitmap.Bitmap
	totalBlocks int
}

// LoadDataBitmap reconstructs a DataBitmap from the three physical bitmap
// blocks exactly as they are stored on disk (blockBytes[i] is physical block
// DataBitmapStart+i, BlockSize bytes each). totalBlocks is the number of
// real logical data blocks (TotalDataBlocks).
func LoadDataBitmap(blockBytes [][]byte, totalBlocks int) DataBitmap {
	db := DataBitmap{bits: bitmap.New(totalBlocks), totalBlocks: totalBlocks}
	for logical := 0; logical < totalBlocks; logical++ {
		blockIdx, byteIdx := scanPosition(logical)
		db.bits.Set(logical, blockBytes[blockIdx][byteIdx] != 0)
	}
	return db
}

// Store writes the bitmap's current state back into the three physical
// bitmap blocks, one byte per logical index, and stamps the sentinel byte at
// the scan position one past the last real logical index.
func (b DataBitmap) Store(blockBytes [][]byte) {
	for logical := 0; logical < b.totalBlocks; logical++ {
		blockIdx, byteIdx := scanPosition(logical)
		if b.bits.Get(logical) {
			blockBytes[blockIdx][byteIdx] = 1
		} else {
			blockBytes[blockIdx][byteIdx] = 0
		}
	}
	sentinelBlock, sentinelByte := scanPosition(b.totalBlocks)
	blockBytes[sentinelBlock][sentinelByte] = 0xFF
}

// scanPosition maps a scan index (0..totalBlocks, inclusive of the sentinel
// position at index totalBlocks) to its (block, byte) coordinate within the
// DataBitmapCount-block region, following the same
// (block_idx-1)*dataBitmapBytesPerBlock+byte_idx addressing spec.md gives
// for the on-disk format.
func scanPosition(scanIndex int) (blockIdx, byteIdx int) {
	return scanIndex / dataBitmapBytesPerBlock, scanIndex % dataBitmapBytesPerBlock
}

// Allocate scans from logical index 0 for the first free data block, marks
// it allocated, and returns it.
func (b DataBitmap) Allocate() (int, error) {
	for i := 0; i < b.totalBlocks; i++ {
		if !b.bits.Get(i) {
			b.bits.Set(i, true)
			return i, nil
		}
	}
	return 0, errors.ErrOutOfDataBlocks
}

// Free marks logical data block n as unallocated.
func (b DataBitmap) Free(n int) {
	b.bits.Set(n, false)
}

// IsAllocated reports whether logical data block n is marked allocated.
func (b DataBitmap) IsAllocated(n int) bool {
	return b.bits.Get(n)
}

// CountFree returns the number of unallocated logical data blocks.
func (b DataBitmap) CountFree() int {
	free := 0
	for i := 0; i < b.totalBlocks; i++ {
		if !b.bits.Get(i) {
			free++
		}
	}
	return free
}
