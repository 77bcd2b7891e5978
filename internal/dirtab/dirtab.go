// Package dirtab is the Directory component: a single flat table of
// DirTableCount*DirentsPerBlock fixed slots, each either free or holding a
// name/inode-number pair, with directory slot number equal to inode number
// by construction (Insert pairs them 1:1 at creation time).
package dirtab

import (
	"github.com/blockfs-dev/sfscore/errors"
	"github.com/blockfs-dev/sfscore/internal/blockdev"
	"github.com/blockfs-dev/sfscore/internal/ondisk"
)

// Table is the directory-entry table view over a Device.
type Table struct {
	dev *blockdev.Device
}

// New wraps dev as a directory table.
func New(dev *blockdev.Device) *Table {
	return &Table{dev: dev}
}

func (t *Table) readSlot(slot int) (ondisk.RawDirent, error) {
	var dirent ondisk.RawDirent

	block := make([]byte, blockdev.BlockSize)
	if err := t.dev.ReadBlock(ondisk.DirentBlockIndex(slot), block); err != nil {
		return dirent, err
	}

	offset := ondisk.DirentSlotOffset(slot)
	if err := dirent.UnmarshalBinary(block[offset:]); err != nil {
		return dirent, errors.ErrDeviceFailure.WrapError(err)
	}
	return dirent, nil
}

func (t *Table) writeSlot(slot int, dirent ondisk.RawDirent) error {
	blockIdx := ondisk.DirentBlockIndex(slot)

	block := make([]byte, blockdev.BlockSize)
	if err := t.dev.ReadBlock(blockIdx, block); err != nil {
		return err
	}

	encoded, err := dirent.MarshalBinary()
	if err != nil {
		return errors.ErrDeviceFailure.WrapError(err)
	}

	offset := ondisk.DirentSlotOffset(slot)
	copy(block[offset:offset+ondisk.DirentRecordSize], encoded)

	return t.dev.WriteBlock(blockIdx, block)
}

// totalSlots is the number of directory slots the table holds, equal to the
// inode count since each directory slot is paired 1:1 with an inode number.
const totalSlots = ondisk.TotalInodes

// Lookup scans the table for name and returns its inode number.
func (t *Table) Lookup(name string) (int, error) {
	for slot := 0; slot < totalSlots; slot++ {
		dirent, err := t.readSlot(slot)
		if err != nil {
			return 0, err
		}
		if !dirent.IsFree() && dirent.NameString() == name {
			return int(dirent.InodeNum), nil
		}
	}
	return 0, errors.ErrNoSuchEntry
}

// Insert writes a new directory entry into slot inodeNum (directory slot
// number and inode number are the same value by construction) binding name
// to it. It does not check for a pre-existing entry with the same name;
// callers that need create-if-absent semantics call Lookup first.
func (t *Table) Insert(inodeNum int, name string) error {
	dirent := ondisk.NewFreeDirent()
	dirent.SetName(name)
	dirent.InodeNum = int32(inodeNum)
	return t.writeSlot(inodeNum, dirent)
}

// Remove clears the directory slot for inodeNum back to free.
func (t *Table) Remove(inodeNum int) error {
	return t.writeSlot(inodeNum, ondisk.NewFreeDirent())
}

// DirEntry is one live (name, inode number) pair yielded by Iterate.
type DirEntry struct {
	Name     string
	InodeNum int
}

// Iterate calls emit once for every live directory entry, in slot order.
// Iteration stops at the first error emit returns.
func (t *Table) Iterate(emit func(DirEntry) error) error {
	for slot := 0; slot < totalSlots; slot++ {
		dirent, err := t.readSlot(slot)
		if err != nil {
			return err
		}
		if dirent.IsFree() {
			continue
		}
		if err := emit(DirEntry{Name: dirent.NameString(), InodeNum: int(dirent.InodeNum)}); err != nil {
			return err
		}
	}
	return nil
}

// SlotEntry is a directory slot read by ReadSlot, identified by its slot
// index rather than filtered down to just live entries. Used by the
// consistency checker to verify the slot-equals-inode-number invariant.
type SlotEntry struct {
	Slot     int
	Name     string
	InodeNum int
	Free     bool
}

// SlotCount is the number of directory slots the table holds.
const SlotCount = totalSlots

// ReadSlot reads the raw contents of directory slot.
func (t *Table) ReadSlot(slot int) (SlotEntry, error) {
	dirent, err := t.readSlot(slot)
	if err != nil {
		return SlotEntry{}, err
	}
	return SlotEntry{
		Slot:     slot,
		Name:     dirent.NameString(),
		InodeNum: int(dirent.InodeNum),
		Free:     dirent.IsFree(),
	}, nil
}

// FormatAll clears every directory slot, used by Init to lay down a fresh
// image.
func (t *Table) FormatAll() error {
	empty := ondisk.NewFreeDirent()
	for slot := 0; slot < totalSlots; slot++ {
		if err := t.writeSlot(slot, empty); err != nil {
			return err
		}
	}
	return nil
}
