// Package ondisk holds the bit-exact on-disk data structures shared by the
// allocators, the inode table, the directory table, the file I/O engine, and
// the filesystem operations layer: block layout constants, the inode
// record, the directory-entry record, and the superblock.
package ondisk

// BlockSize is the fixed size, in bytes, of every addressable block on the
// disk image.
const BlockSize = 512

// Region boundaries, all in units of BlockSize blocks.
const (
	SuperblockIndex = 0

	DataBitmapStart = 1
	DataBitmapCount = 3

	InodeTableStart = 4
	InodeTableCount = 20

	DirTableStart = 24
	DirTableCount = 25

	DataBlocksStart = 49
	DataBlocksCount = 1100
)

// TotalInodes is the number of inode slots the superblock's bitmap tracks.
const TotalInodes = 100

// TotalDataBlocks is the number of logical data-block slots the data bitmap
// tracks, and the number of physical data blocks starting at DataBlocksStart.
// All TotalDataBlocks logical indices (0..1099) are allocatable; see
// internal/alloc for the sentinel byte that guards the one scan position
// past the last real index.
const TotalDataBlocks = 1100

// DataBitmapBytesPerBlock is the number of bytes of real bitmap data packed
// into each of the DataBitmapCount physical bitmap blocks. 3 blocks of 367
// bytes give 1101 scan positions for 1100 real logical blocks plus one
// sentinel guarding the phantom 1101st position.
const DataBitmapBytesPerBlock = 367

// InodesPerBlock and DirentsPerBlock give the packing density of the inode
// table and directory-entry table respectively.
const (
	InodesPerBlock  = 5
	DirentsPerBlock = 4
)

// MaxDirectBlocks is the number of direct block pointers an inode carries.
const MaxDirectBlocks = 11

// MaxFileSize is the largest file this file system can represent:
// MaxDirectBlocks direct blocks of BlockSize bytes each.
const MaxFileSize = MaxDirectBlocks * BlockSize

// DirentNameSize is the size, in bytes, of the fixed name field of a
// directory entry, including its terminating NUL.
const DirentNameSize = 120

// UnallocatedBlock is the sentinel value for an inode's db[i] slot meaning
// "no block allocated here".
const UnallocatedBlock int32 = -1

// NoInode is the sentinel value for a directory entry's inode_num field
// meaning "this slot is free".
const NoInode int32 = -1
