package ondisk

import (
	"bytes"
	"encoding/binary"

	"github.com/noxer/bytewriter"
)

// Inode types.
const (
	InodeTypeUnused  = int32(0)
	InodeTypeRegular = int32(2)
)

// InodeRecordSize is the on-disk size, in bytes, of a single inode record:
// four int32 header fields plus MaxDirectBlocks int32 direct-block pointers
// (60 bytes), padded to the round number named in the data model.
const InodeRecordSize = 64

// RawInode is the bit-exact on-disk representation of one inode, in the
// field order the format mandates: type, link_count, size, mode, db[0..10].
type RawInode struct {
	Type       int32
	LinkCount  int32
	Size       int32
	Mode       int32
	DirectBlks [MaxDirectBlocks]int32
}

// NewUnallocatedInode returns the zero-value inode an unused slot holds,
// with every direct-block pointer set to UnallocatedBlock.
func NewUnallocatedInode() RawInode {
	inode := RawInode{}
	for i := range inode.DirectBlks {
		inode.DirectBlks[i] = UnallocatedBlock
	}
	return inode
}

// IsLive reports whether this inode record belongs to an allocated file.
func (inode *RawInode) IsLive() bool {
	return inode.Type != InodeTypeUnused
}

// AllocatedDirectBlocks returns the logical data-block indices this inode
// has allocated, in slot order.
func (inode *RawInode) AllocatedDirectBlocks() []int32 {
	var blocks []int32
	for _, db := range inode.DirectBlks {
		if db >= 0 {
			blocks = append(blocks, db)
		}
	}
	return blocks
}

// MarshalBinary encodes the inode into InodeRecordSize bytes, padding with
// zeroes so every record in a block lands on a fixed InodeRecordSize stride.
func (inode *RawInode) MarshalBinary() ([]byte, error) {
	buf := make([]byte, InodeRecordSize)
	w := bytewriter.New(buf)
	if err := binary.Write(w, binary.LittleEndian, inode); err != nil {
		return nil, err
	}
	return buf, nil
}

// UnmarshalBinary decodes an inode from a InodeRecordSize-byte (or larger)
// slice; only the leading 60 bytes of fields are read.
func (inode *RawInode) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	return binary.Read(r, binary.LittleEndian, inode)
}

// InodeSlotOffset returns the byte offset, within the containing block's
// buffer, of inode number n's record.
func InodeSlotOffset(n int) int {
	return (n % InodesPerBlock) * InodeRecordSize
}

// InodeBlockIndex returns the disk block index holding inode number n.
func InodeBlockIndex(n int) int {
	return InodeTableStart + n/InodesPerBlock
}
