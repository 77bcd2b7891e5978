package ondisk

import (
	"bytes"
	"encoding/binary"

	"github.com/noxer/bytewriter"
)

// SuperblockNameTag is the 5-byte ASCII tag stamped into every image this
// package formats. Any constant value works; this one is just memorable.
var SuperblockNameTag = [5]byte{'s', 'f', 's', 'c', 0}

// Superblock is the bit-exact on-disk representation of block 0.
type Superblock struct {
	Name        [5]byte
	FreeInodes  int32
	FreeData    int32
	TotalInodes int32
	TotalData   int32
	InodeBitmap [TotalInodes]byte
}

// NewSuperblock returns the initial state written by Init: every inode and
// data block is free.
func NewSuperblock() Superblock {
	return Superblock{
		Name:        SuperblockNameTag,
		FreeInodes:  TotalInodes,
		FreeData:    TotalDataBlocks,
		TotalInodes: TotalInodes,
		TotalData:   TotalDataBlocks,
	}
}

// MarshalBinary encodes the superblock into a BlockSize-byte buffer, zero
// padded past the last used field.
func (sb *Superblock) MarshalBinary() ([]byte, error) {
	buf := make([]byte, BlockSize)
	w := bytewriter.New(buf)
	if err := binary.Write(w, binary.LittleEndian, sb); err != nil {
		return nil, err
	}
	return buf, nil
}

// UnmarshalBinary decodes the superblock from a BlockSize-byte (or larger)
// buffer.
func (sb *Superblock) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	return binary.Read(r, binary.LittleEndian, sb)
}
