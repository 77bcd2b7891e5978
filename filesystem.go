package sfscore

import (
	"github.com/sirupsen/logrus"

	sfserrors "github.com/blockfs-dev/sfscore/errors"
	"github.com/blockfs-dev/sfscore/internal/alloc"
	"github.com/blockfs-dev/sfscore/internal/blockdev"
	"github.com/blockfs-dev/sfscore/internal/dirtab"
	"github.com/blockfs-dev/sfscore/internal/fio"
	"github.com/blockfs-dev/sfscore/internal/inotab"
	"github.com/blockfs-dev/sfscore/internal/ondisk"
)

// TotalBlocks is the fixed physical size, in BlockSize blocks, of a
// formatted disk image.
const TotalBlocks = ondisk.DataBlocksStart + ondisk.DataBlocksCount

// FixedFileHandle is the single, non-zero file handle Open hands back on
// success. Per-open state is not tracked (spec.md §4.6), so every
// successful open returns the same token.
const FixedFileHandle = 1

// FileSystem is the opaque handle Init returns: every host operation is a
// method on it. There is no package-level mutable state.
type FileSystem struct {
	dev        *blockdev.Device
	inodes     *inotab.Table
	dirs       *dirtab.Table
	inodeAlloc *alloc.DiskInodeAllocator
	dataAlloc  *alloc.DiskDataAllocator
	io         *fio.Engine
	log        *logrus.Logger
}

// Init opens (creating if necessary) the disk image at path, formats it to
// the initial empty state described in spec.md §3, and returns a FileSystem
// handle ready for use. Every call formats the image from scratch, matching
// the source implementation's mount-time mkfs behavior.
func Init(path string) (*FileSystem, error) {
	dev, err := blockdev.Open(path, TotalBlocks)
	if err != nil {
		return nil, err
	}

	fs, err := InitDevice(dev)
	if err != nil {
		dev.Close()
		return nil, err
	}
	fs.log.WithField("path", path).Debug("init")
	return fs, nil
}

// InitDevice formats dev (which must already be TotalBlocks blocks) and
// returns a ready-to-use FileSystem handle over it. Init is the normal
// entry point; InitDevice exists so callers that already own a Device (the
// in-memory test harness) can skip the file-backed Open step.
func InitDevice(dev *blockdev.Device) (*FileSystem, error) {
	fs := newFileSystem(dev)
	if err := fs.format(); err != nil {
		return nil, err
	}
	return fs, nil
}

// Open attaches to an already-formatted disk image at path without
// reformatting it, for tools that inspect a live image out-of-band from the
// host's mount session (sfsctl's stat/ls/cat/fsck subcommands). The host's
// own mount entry point is Init, which always formats, matching the source
// implementation's mount-time mkfs behavior.
func Open(path string) (*FileSystem, error) {
	dev, err := blockdev.Open(path, TotalBlocks)
	if err != nil {
		return nil, err
	}
	return newFileSystem(dev), nil
}

func newFileSystem(dev *blockdev.Device) *FileSystem {
	inodes := inotab.New(dev)
	fs := &FileSystem{
		dev:        dev,
		inodes:     inodes,
		dirs:       dirtab.New(dev),
		inodeAlloc: alloc.NewDiskInodeAllocator(dev),
		dataAlloc:  alloc.NewDiskDataAllocator(dev),
		log:        logrus.New(),
	}
	fs.io = fio.New(dev, inodes, fs.dataAlloc)
	return fs
}

func (fs *FileSystem) format() error {
	sb := ondisk.NewSuperblock()
	buf, err := sb.MarshalBinary()
	if err != nil {
		return sfserrors.ErrDeviceFailure.WrapError(err)
	}
	if err := fs.dev.WriteBlock(ondisk.SuperblockIndex, buf); err != nil {
		fs.log.WithError(err).Error("device write failed while formatting superblock")
		return err
	}

	if err := fs.dataAlloc.FormatBitmap(); err != nil {
		return err
	}
	if err := fs.inodes.FormatAll(); err != nil {
		return err
	}
	return fs.dirs.FormatAll()
}

// Close releases the underlying device without touching its contents. It is
// for callers that attached with Open to inspect an image out-of-band
// (sfsctl's read-only subcommands); the host's own teardown call is Destroy.
func (fs *FileSystem) Close() error {
	return fs.dev.Close()
}

// Destroy zeroes every allocated data block (so a reformatted image never
// exposes stale content through a hole-free read) and closes the device.
func (fs *FileSystem) Destroy() error {
	fs.log.Debug("destroy")

	zero := make([]byte, ondisk.BlockSize)
	for logical := 0; logical < ondisk.TotalDataBlocks; logical++ {
		allocated, err := fs.isDataBlockAllocated(logical)
		if err != nil {
			fs.log.WithError(err).Error("device read failed during destroy")
			return err
		}
		if !allocated {
			continue
		}
		if err := fs.dev.WriteBlock(ondisk.DataBlocksStart+logical, zero); err != nil {
			fs.log.WithError(err).Error("device write failed during destroy")
			return err
		}
	}
	return fs.dev.Close()
}

func (fs *FileSystem) isDataBlockAllocated(logical int) (bool, error) {
	blockIdx := ondisk.DataBitmapStart + logical/ondisk.DataBitmapBytesPerBlock
	byteIdx := logical % ondisk.DataBitmapBytesPerBlock

	block := make([]byte, ondisk.BlockSize)
	if err := fs.dev.ReadBlock(blockIdx, block); err != nil {
		return false, err
	}
	return block[byteIdx] == 1, nil
}

// GetAttr reports the attributes of path, which is either "/" or a
// top-level file name.
func (fs *FileSystem) GetAttr(path string) (FileStat, error) {
	if path == "/" {
		return FileStat{
			ModeFlags: posixFileMode(ModeDir | DefaultMode),
			Nlinks:    2,
		}, nil
	}

	n, err := fs.dirs.Lookup(path)
	if err != nil {
		return FileStat{}, err
	}

	inode, err := fs.inodes.Read(n)
	if err != nil {
		return FileStat{}, err
	}

	return FileStat{
		InodeNumber: uint64(n),
		ModeFlags:   posixFileMode(ModeRegular | DefaultMode),
		Nlinks:      1,
		Size:        int64(inode.Size),
	}, nil
}

// Create allocates an inode and one initial data block for path, installs
// the directory entry, and returns the new inode number. It rejects a name
// that already has a directory entry, completing the duplicate check the
// original implementation names in a comment but never actually performs.
func (fs *FileSystem) Create(path string, mode uint32) (int, error) {
	fs.log.WithField("path", path).Debug("create")

	if _, err := fs.dirs.Lookup(path); err == nil {
		return 0, sfserrors.ErrAlreadyExists
	} else if !sfserrors.Is(err, sfserrors.ErrNoSuchEntry) {
		return 0, err
	}

	n, err := fs.inodeAlloc.Allocate()
	if err != nil {
		fs.log.WithError(err).Warn("inode allocation failed")
		return 0, err
	}

	logical, err := fs.dataAlloc.Allocate()
	if err != nil {
		fs.log.WithError(err).Warn("data block allocation failed")
		_ = fs.inodeAlloc.Free(n)
		return 0, err
	}

	zero := make([]byte, ondisk.BlockSize)
	if err := fs.dev.WriteBlock(ondisk.DataBlocksStart+logical, zero); err != nil {
		fs.log.WithError(err).Error("device write failed while creating file")
		return 0, err
	}

	inode := ondisk.NewUnallocatedInode()
	inode.Type = ondisk.InodeTypeRegular
	inode.LinkCount = 1
	inode.Mode = int32(mode)
	inode.DirectBlks[0] = int32(logical)
	if err := fs.inodes.Write(n, inode); err != nil {
		return 0, err
	}

	if err := fs.dirs.Insert(n, path); err != nil {
		return 0, err
	}
	return n, nil
}

// Unlink removes path: every allocated data block is zeroed and freed, the
// inode is freed, and the directory slot is cleared. Unlinking a path that
// does not exist is a no-op success, per spec.md §7.
func (fs *FileSystem) Unlink(path string) error {
	fs.log.WithField("path", path).Debug("unlink")

	n, err := fs.dirs.Lookup(path)
	if err != nil {
		if sfserrors.Is(err, sfserrors.ErrNoSuchEntry) {
			return nil
		}
		return err
	}

	inode, err := fs.inodes.Read(n)
	if err != nil {
		return err
	}

	zero := make([]byte, ondisk.BlockSize)
	for _, logical := range inode.AllocatedDirectBlocks() {
		if err := fs.dev.WriteBlock(ondisk.DataBlocksStart+int(logical), zero); err != nil {
			return err
		}
		if err := fs.dataAlloc.Free(int(logical)); err != nil {
			return err
		}
	}

	if err := fs.inodeAlloc.Free(n); err != nil {
		return err
	}
	return fs.dirs.Remove(n)
}

// Open resolves path. If it exists, it returns the fixed file handle. If it
// does not and flags requests a creating open, Open creates it first. Per
// spec.md §4.6, a non-creating open of a missing path is a non-opened,
// zero-status outcome rather than an error.
func (fs *FileSystem) Open(path string, flags OpenFlags, mode uint32) (handle int, opened bool, err error) {
	if _, lookupErr := fs.dirs.Lookup(path); lookupErr == nil {
		return FixedFileHandle, true, nil
	} else if !sfserrors.Is(lookupErr, sfserrors.ErrNoSuchEntry) {
		return 0, false, lookupErr
	}

	if !flags.Creating() {
		return 0, false, nil
	}

	if _, err := fs.Create(path, mode); err != nil {
		return 0, false, err
	}
	return FixedFileHandle, true, nil
}

// Release clears handle. There is no persisted per-open state, and an
// unknown handle is accepted silently per spec.md §7.
func (fs *FileSystem) Release(handle int) error {
	return nil
}

// Read delegates to the file I/O engine after resolving path to an inode.
func (fs *FileSystem) Read(path string, offset int, out []byte) (int, error) {
	n, err := fs.dirs.Lookup(path)
	if err != nil {
		return 0, err
	}
	return fs.io.Read(n, offset, out)
}

// Write delegates to the file I/O engine after resolving path to an inode.
func (fs *FileSystem) Write(path string, offset int, in []byte) (int, error) {
	n, err := fs.dirs.Lookup(path)
	if err != nil {
		return 0, err
	}
	return fs.io.Write(n, offset, in)
}

// DirEntry is one name this file system can list, via Readdir.
type DirEntry struct {
	Name string
}

// Readdir emits "." and ".." followed by every live directory entry.
func (fs *FileSystem) Readdir() ([]DirEntry, error) {
	entries := []DirEntry{{Name: "."}, {Name: ".."}}

	err := fs.dirs.Iterate(func(e dirtab.DirEntry) error {
		entries = append(entries, DirEntry{Name: e.Name})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Mkdir, Rmdir, OpenDir, and ReleaseDir are no-ops per spec.md §4.6: this
// format has no nested-directory representation.
func (fs *FileSystem) Mkdir(path string, mode uint32) error { return nil }
func (fs *FileSystem) Rmdir(path string) error              { return nil }
func (fs *FileSystem) OpenDir(path string) error            { return nil }
func (fs *FileSystem) ReleaseDir(path string) error         { return nil }
