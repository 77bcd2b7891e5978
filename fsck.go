package sfscore

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	sfserrors "github.com/blockfs-dev/sfscore/errors"
	"github.com/blockfs-dev/sfscore/internal/dirtab"
	"github.com/blockfs-dev/sfscore/internal/ondisk"
)

// Check walks the on-disk metadata and verifies the three statically
// checkable invariants from spec.md §8: bitmap consistency, allocation
// closure, and name/inode pairing. It is not run automatically by Init
// (spec.md §9 calls an at-mount consistency pass optional); callers invoke
// it explicitly, e.g. from the fsck subcommand. Every violation found is
// collected rather than stopping at the first one.
func (fs *FileSystem) Check() error {
	var result *multierror.Error

	sbBlock := make([]byte, ondisk.BlockSize)
	if err := fs.dev.ReadBlock(ondisk.SuperblockIndex, sbBlock); err != nil {
		return err
	}
	var sb ondisk.Superblock
	if err := sb.UnmarshalBinary(sbBlock); err != nil {
		return sfserrors.ErrDeviceFailure.WrapError(err)
	}

	freeInodes := 0
	inodeAllocated := make([]bool, ondisk.TotalInodes)
	for i, b := range sb.InodeBitmap {
		inodeAllocated[i] = b != 0
		if b == 0 {
			freeInodes++
		}
	}
	if int(sb.FreeInodes) != freeInodes {
		result = multierror.Append(result, fmt.Errorf(
			"bitmap consistency: free_inodes=%d but %d inode bitmap bytes are zero",
			sb.FreeInodes, freeInodes))
	}

	dataAllocated := make([]bool, ondisk.TotalDataBlocks)
	freeData := 0
	for blockOffset := 0; blockOffset < ondisk.DataBitmapCount; blockOffset++ {
		block := make([]byte, ondisk.BlockSize)
		if err := fs.dev.ReadBlock(ondisk.DataBitmapStart+blockOffset, block); err != nil {
			return err
		}
		for byteIdx := 0; byteIdx < ondisk.DataBitmapBytesPerBlock; byteIdx++ {
			logical := blockOffset*ondisk.DataBitmapBytesPerBlock + byteIdx
			if logical >= ondisk.TotalDataBlocks {
				continue
			}
			dataAllocated[logical] = block[byteIdx] != 0
			if block[byteIdx] == 0 {
				freeData++
			}
		}
	}
	if int(sb.FreeData) != freeData {
		result = multierror.Append(result, fmt.Errorf(
			"bitmap consistency: free_data=%d but %d data bitmap bytes are zero",
			sb.FreeData, freeData))
	}

	for n := 0; n < ondisk.TotalInodes; n++ {
		if !inodeAllocated[n] {
			continue
		}
		inode, err := fs.inodes.Read(n)
		if err != nil {
			return err
		}
		for _, db := range inode.AllocatedDirectBlocks() {
			if db < 0 || int(db) >= ondisk.TotalDataBlocks || !dataAllocated[db] {
				result = multierror.Append(result, fmt.Errorf(
					"allocation closure: inode %d references data block %d which is not marked allocated",
					n, db))
			}
		}
	}

	for slot := 0; slot < dirtab.SlotCount; slot++ {
		entry, err := fs.dirs.ReadSlot(slot)
		if err != nil {
			return err
		}
		if entry.Free {
			continue
		}
		if entry.InodeNum != slot {
			result = multierror.Append(result, fmt.Errorf(
				"name/inode pairing: directory slot %d holds inode_num %d, want %d",
				slot, entry.InodeNum, slot))
		}
		if !inodeAllocated[slot] {
			result = multierror.Append(result, fmt.Errorf(
				"name/inode pairing: directory slot %d is live but inode bitmap bit %d is not set",
				slot, slot))
		}
	}

	if violations := result.ErrorOrNil(); violations != nil {
		return sfserrors.ErrFileSystemCorrupted.WithMessage(violations.Error())
	}
	return nil
}
