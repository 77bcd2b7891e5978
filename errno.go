package sfscore

import (
	"syscall"

	sfserrors "github.com/blockfs-dev/sfscore/errors"
)

// ToErrno maps one of this package's sentinel errors to the syscall.Errno
// the host ABI expects in a negative-errno return (spec.md §6). nil maps to
// 0, meaning success; an unrecognized error maps to EIO.
func ToErrno(err error) syscall.Errno {
	switch {
	case err == nil:
		return 0
	case sfserrors.Is(err, sfserrors.ErrNoSuchEntry):
		return syscall.ENOENT
	case sfserrors.Is(err, sfserrors.ErrOutOfInodes), sfserrors.Is(err, sfserrors.ErrOutOfDataBlocks):
		return syscall.ENOSPC
	case sfserrors.Is(err, sfserrors.ErrCapExceeded):
		return syscall.EFBIG
	case sfserrors.Is(err, sfserrors.ErrBadHandle):
		return syscall.EBADF
	case sfserrors.Is(err, sfserrors.ErrAlreadyExists):
		return syscall.EEXIST
	case sfserrors.Is(err, sfserrors.ErrDeviceFailure):
		return syscall.EIO
	case sfserrors.Is(err, sfserrors.ErrFileSystemCorrupted):
		return syscall.EUCLEAN
	default:
		return syscall.EIO
	}
}
