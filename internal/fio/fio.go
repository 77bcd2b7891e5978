// Package fio is the File I/O Engine: it maps a file offset and size onto
// the direct-block slots of an inode, performing the partial-block
// read-modify-write and lazy allocation spec.md describes, and caps every
// file at ondisk.MaxFileSize bytes.
package fio

import (
	"github.com/blockfs-dev/sfscore/internal/blockdev"
	"github.com/blockfs-dev/sfscore/internal/inotab"
	"github.com/blockfs-dev/sfscore/internal/ondisk"
)

// DataAllocator is the subset of alloc.DiskDataAllocator the engine needs
// to lazily grow a file on write.
type DataAllocator interface {
	Allocate() (int, error)
}

// Engine is the read/write path over one inode table and data region.
type Engine struct {
	dev    *blockdev.Device
	inodes *inotab.Table
	data   DataAllocator
}

// New builds a file I/O engine over dev's data region, reading and writing
// inodes through inodes and allocating new data blocks through data.
func New(dev *blockdev.Device, inodes *inotab.Table, data DataAllocator) *Engine {
	return &Engine{dev: dev, inodes: inodes, data: data}
}

func physicalDataBlock(logical int32) int {
	return ondisk.DataBlocksStart + int(logical)
}

// span returns the first and last direct-block slot touched by
// [offset, offset+size), clamped so last never exceeds MaxDirectBlocks-1.
// truncatedSize is the size actually usable after the cap is applied.
func span(offset, size int) (first, last, truncatedSize int) {
	if offset >= ondisk.MaxFileSize {
		return 0, -1, 0
	}
	if offset+size > ondisk.MaxFileSize {
		size = ondisk.MaxFileSize - offset
	}
	first = offset / ondisk.BlockSize
	last = (offset + size + ondisk.BlockSize - 1) / ondisk.BlockSize
	last--
	if last > ondisk.MaxDirectBlocks-1 {
		last = ondisk.MaxDirectBlocks - 1
	}
	return first, last, size
}

// Read fills out with up to len(out) bytes of inode inodeNum's content
// starting at offset, stopping at the first unallocated direct block (a
// hole) or at the file's direct-block cap. It returns the number of bytes
// produced.
func (e *Engine) Read(inodeNum int, offset int, out []byte) (int, error) {
	size := len(out)
	if size == 0 {
		return 0, nil
	}

	inode, err := e.inodes.Read(inodeNum)
	if err != nil {
		return 0, err
	}

	first, last, size := span(offset, size)
	if last < first {
		return 0, nil
	}

	produced := 0
	staging := make([]byte, ondisk.BlockSize)
	for x := first; x <= last; x++ {
		db := inode.DirectBlks[x]
		if db < 0 {
			break
		}

		if err := e.dev.ReadBlock(physicalDataBlock(db), staging); err != nil {
			return produced, err
		}

		var windowStart, windowLen int
		switch {
		case x == first:
			windowStart = offset % ondisk.BlockSize
			windowLen = size
			if remaining := ondisk.BlockSize - windowStart; windowLen > remaining {
				windowLen = remaining
			}
		case x == last:
			windowStart = 0
			windowLen = size - produced
		default:
			windowStart = 0
			windowLen = ondisk.BlockSize
		}

		copy(out[produced:produced+windowLen], staging[windowStart:windowStart+windowLen])
		produced += windowLen
	}

	return produced, nil
}

// Write stores up to len(in) bytes of in into inode inodeNum's content
// starting at offset, lazily allocating data blocks as needed and updating
// the inode's size. A write that would require a 12th direct block is
// truncated to the cap; the truncated byte count is returned with a nil
// error, per spec's CapExceeded handling.
func (e *Engine) Write(inodeNum int, offset int, in []byte) (int, error) {
	size := len(in)
	if size == 0 {
		return 0, nil
	}

	inode, err := e.inodes.Read(inodeNum)
	if err != nil {
		return 0, err
	}

	first, last, size := span(offset, size)
	if last < first {
		return 0, nil
	}

	written := 0
	staging := make([]byte, ondisk.BlockSize)
	for x := first; x <= last; x++ {
		if inode.DirectBlks[x] < 0 {
			logical, err := e.data.Allocate()
			if err != nil {
				return written, err
			}
			inode.DirectBlks[x] = int32(logical)

			for i := range staging {
				staging[i] = 0
			}
			if err := e.dev.WriteBlock(physicalDataBlock(inode.DirectBlks[x]), staging); err != nil {
				return written, err
			}
		}

		if err := e.dev.ReadBlock(physicalDataBlock(inode.DirectBlks[x]), staging); err != nil {
			return written, err
		}

		var windowStart, windowLen int
		switch {
		case x == first:
			windowStart = offset % ondisk.BlockSize
			windowLen = size
			if remaining := ondisk.BlockSize - windowStart; windowLen > remaining {
				windowLen = remaining
			}
		case x == last:
			windowStart = 0
			windowLen = size - written
		default:
			windowStart = 0
			windowLen = ondisk.BlockSize
		}

		copy(staging[windowStart:windowStart+windowLen], in[written:written+windowLen])
		if err := e.dev.WriteBlock(physicalDataBlock(inode.DirectBlks[x]), staging); err != nil {
			return written, err
		}
		written += windowLen
	}

	newSize := offset + written
	if newSize > int(inode.Size) {
		inode.Size = int32(newSize)
	}
	if err := e.inodes.Write(inodeNum, inode); err != nil {
		return written, err
	}

	return written, nil
}
