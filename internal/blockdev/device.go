// Package blockdev is the Block Device Adapter: it wraps a flat disk-image
// file (or, for tests, an in-memory buffer) behind the two primitives every
// other layer is built on, ReadBlock and WriteBlock. There is no caching:
// every call is a round trip to the backing stream, and callers are expected
// to read a whole block, mutate it, and write it back within one call site.
package blockdev

import (
	"fmt"
	"io"
	"os"

	"github.com/blockfs-dev/sfscore/errors"
)

// BlockSize is the fixed size, in bytes, of every block this adapter moves.
const BlockSize = 512

// Device is a block-addressable view over a backing stream of exactly
// TotalBlocks blocks of BlockSize bytes each.
type Device struct {
	stream      io.ReadWriteSeeker
	closer      io.Closer
	TotalBlocks int
}

// Open opens (creating if necessary) the disk-image file at path and wraps
// it as a Device with the given total block count. The file is truncated up
// to TotalBlocks*BlockSize bytes if it is smaller.
func Open(path string, totalBlocks int) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errors.ErrDeviceFailure.WrapError(err)
	}

	size := int64(totalBlocks) * BlockSize
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.ErrDeviceFailure.WrapError(err)
	}
	if info.Size() < size {
		if err := f.Truncate(size); err != nil {
			f.Close()
			return nil, errors.ErrDeviceFailure.WrapError(err)
		}
	}

	return &Device{stream: f, closer: f, TotalBlocks: totalBlocks}, nil
}

// Wrap adapts an already-open stream (typically an in-memory buffer wrapped
// with bytesextra.NewReadWriteSeeker for tests) into a Device. The stream is
// not closed by Close; Wrap is for callers that own the stream's lifetime.
func Wrap(stream io.ReadWriteSeeker, totalBlocks int) *Device {
	return &Device{stream: stream, TotalBlocks: totalBlocks}
}

// Close releases the backing file, if this Device owns one.
func (d *Device) Close() error {
	if d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.closer = nil
	if err != nil {
		return errors.ErrDeviceFailure.WrapError(err)
	}
	return nil
}

func (d *Device) checkBounds(index int) error {
	if index < 0 || index >= d.TotalBlocks {
		return errors.ErrDeviceFailure.WithMessage(
			fmt.Sprintf("block index %d out of range [0, %d)", index, d.TotalBlocks))
	}
	return nil
}

// ReadBlock fills out (which must be exactly BlockSize bytes) with the
// contents of block index.
func (d *Device) ReadBlock(index int, out []byte) error {
	if err := d.checkBounds(index); err != nil {
		return err
	}
	if len(out) != BlockSize {
		return errors.ErrDeviceFailure.WithMessage("read buffer must be exactly one block")
	}

	if _, err := d.stream.Seek(int64(index)*BlockSize, io.SeekStart); err != nil {
		return errors.ErrDeviceFailure.WrapError(err)
	}
	if _, err := io.ReadFull(d.stream, out); err != nil {
		return errors.ErrDeviceFailure.WrapError(err)
	}
	return nil
}

// WriteBlock overwrites block index with the contents of in (which must be
// exactly BlockSize bytes).
func (d *Device) WriteBlock(index int, in []byte) error {
	if err := d.checkBounds(index); err != nil {
		return err
	}
	if len(in) != BlockSize {
		return errors.ErrDeviceFailure.WithMessage("write buffer must be exactly one block")
	}

	if _, err := d.stream.Seek(int64(index)*BlockSize, io.SeekStart); err != nil {
		return errors.ErrDeviceFailure.WrapError(err)
	}
	if _, err := d.stream.Write(in); err != nil {
		return errors.ErrDeviceFailure.WrapError(err)
	}
	return nil
}
