package ondisk

import (
	"bytes"
	"encoding/binary"

	"github.com/noxer/bytewriter"
)

// DirentRecordSize is the on-disk size, in bytes, of one directory entry:
// a DirentNameSize-byte name field followed by a 4-byte inode number.
const DirentRecordSize = DirentNameSize + 4

// RawDirent is the bit-exact on-disk representation of one directory slot.
type RawDirent struct {
	Name     [DirentNameSize]byte
	InodeNum int32
}

// NewFreeDirent returns the zero-value directory slot: empty name, no inode.
func NewFreeDirent() RawDirent {
	return RawDirent{InodeNum: NoInode}
}

// IsFree reports whether this directory slot is unused.
func (d *RawDirent) IsFree() bool {
	return d.Name[0] == 0
}

// NameString returns the slot's name as a Go string, stopping at the first
// NUL byte (or the end of the field if there isn't one).
func (d *RawDirent) NameString() string {
	end := bytes.IndexByte(d.Name[:], 0)
	if end < 0 {
		end = len(d.Name)
	}
	return string(d.Name[:end])
}

// SetName copies up to DirentNameSize-1 bytes of name into the slot and
// zero-terminates it, matching the C original's strncpy(name, path, 120)
// truncation behavior.
func (d *RawDirent) SetName(name string) {
	for i := range d.Name {
		d.Name[i] = 0
	}
	copy(d.Name[:DirentNameSize-1], name)
}

// MarshalBinary encodes the directory entry into DirentRecordSize bytes.
func (d *RawDirent) MarshalBinary() ([]byte, error) {
	buf := make([]byte, DirentRecordSize)
	w := bytewriter.New(buf)
	if err := binary.Write(w, binary.LittleEndian, d); err != nil {
		return nil, err
	}
	return buf, nil
}

// UnmarshalBinary decodes a directory entry from a DirentRecordSize-byte (or
// larger) slice.
func (d *RawDirent) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	return binary.Read(r, binary.LittleEndian, d)
}

// DirentSlotOffset returns the byte offset, within the containing block's
// buffer, of directory slot s's record.
func DirentSlotOffset(s int) int {
	return (s % DirentsPerBlock) * DirentRecordSize
}

// DirentBlockIndex returns the disk block index holding directory slot s.
func DirentBlockIndex(s int) int {
	return DirTableStart + s/DirentsPerBlock
}
