package alloc

import (
	bitmap "github.com/boljen/go-bitmap"

	"github.com/blockfs-dev/sfscore/errors"
)

// InodeBitmap is the in-memory scan structure for the superblock's
// one-byte-per-inode allocation map.
type InodeBitmap struct {
	bits  bitmap.Bitmap
	count int
}

// LoadInodeBitmap builds an InodeBitmap from the on-disk byte array (one
// byte per inode, nonzero meaning allocated), as stored in the superblock.
func LoadInodeBitmap(raw []byte) InodeBitmap {
	bm := InodeBitmap{bits: bitmap.New(len(raw)), count: len(raw)}
	for i, b := range raw {
		bm.bits.Set(i, b != 0)
	}
	return bm
}

// Store writes the bitmap's current state back into raw, one byte per
// entry, so it can be persisted as part of the superblock.
func (b InodeBitmap) Store(raw []byte) {
	for i := range raw {
		if b.bits.Get(i) {
			raw[i] = 1
		} else {
			raw[i] = 0
		}
	}
}

// Allocate scans from index 0 for the first free inode, marks it allocated,
// and returns it. Ties are broken by lowest index, matching the original
// implementation's linear scan.
func (b InodeBitmap) Allocate() (int, error) {
	for i := 0; i < b.count; i++ {
		if !b.bits.Get(i) {
			b.bits.Set(i, true)
			return i, nil
		}
	}
	return 0, errors.ErrOutOfInodes
}

// Free marks inode n as unallocated.
func (b InodeBitmap) Free(n int) {
	b.bits.Set(n, false)
}

// IsAllocated reports whether inode n is marked allocated.
func (b InodeBitmap) IsAllocated(n int) bool {
	return b.bits.Get(n)
}

// CountFree returns the number of unallocated inodes.
func (b InodeBitmap) CountFree() int {
	free := 0
	for i := 0; i < b.count; i++ {
		if !b.bits.Get(i) {
			free++
		}
	}
	return free
}
