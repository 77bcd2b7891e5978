// Package inotab is the Inode Table component: it reads and writes
// individual inode records by number, hiding the packing of InodesPerBlock
// records into each InodeTableCount block behind a read-modify-write cycle
// through the block device.
package inotab

import (
	"github.com/blockfs-dev/sfscore/errors"
	"github.com/blockfs-dev/sfscore/internal/blockdev"
	"github.com/blockfs-dev/sfscore/internal/ondisk"
)

// Table is the inode table view over a Device.
type Table struct {
	dev *blockdev.Device
}

// New wraps dev as an inode table.
func New(dev *blockdev.Device) *Table {
	return &Table{dev: dev}
}

// Read loads inode number n.
func (t *Table) Read(n int) (ondisk.RawInode, error) {
	var inode ondisk.RawInode

	block := make([]byte, blockdev.BlockSize)
	if err := t.dev.ReadBlock(ondisk.InodeBlockIndex(n), block); err != nil {
		return inode, err
	}

	offset := ondisk.InodeSlotOffset(n)
	if err := inode.UnmarshalBinary(block[offset:]); err != nil {
		return inode, errors.ErrDeviceFailure.WrapError(err)
	}
	return inode, nil
}

// Write stores inode into slot n, read-modify-writing the containing block
// so the other InodesPerBlock-1 records in it are preserved.
func (t *Table) Write(n int, inode ondisk.RawInode) error {
	blockIdx := ondisk.InodeBlockIndex(n)

	block := make([]byte, blockdev.BlockSize)
	if err := t.dev.ReadBlock(blockIdx, block); err != nil {
		return err
	}

	encoded, err := inode.MarshalBinary()
	if err != nil {
		return errors.ErrDeviceFailure.WrapError(err)
	}

	offset := ondisk.InodeSlotOffset(n)
	copy(block[offset:offset+ondisk.InodeRecordSize], encoded)

	return t.dev.WriteBlock(blockIdx, block)
}

// Free rewrites inode number n back to the unallocated zero value.
func (t *Table) Free(n int) error {
	return t.Write(n, ondisk.NewUnallocatedInode())
}

// FormatAll writes the unallocated zero-value inode into every one of the
// TotalInodes slots, used by Init to lay down a fresh image.
func (t *Table) FormatAll() error {
	empty := ondisk.NewUnallocatedInode()
	for n := 0; n < ondisk.TotalInodes; n++ {
		if err := t.Write(n, empty); err != nil {
			return err
		}
	}
	return nil
}
