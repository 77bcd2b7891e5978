// Package errors defines the sentinel error values returned by sfscore and
// the machinery for attaching context to them without losing their identity.
package errors

import (
	"fmt"
)

// DiskoError is a sentinel error value identifying one of the error kinds
// named in the error-handling design: each one is comparable with
// errors.Is/==. WithMessage decorates it without losing that identity;
// WrapError instead makes the wrapped cause the error reachable through
// Unwrap, so the result no longer matches the sentinel.
type DiskoError string

// NoSuchEntry: the requested path does not have a directory entry.
const ErrNoSuchEntry = DiskoError("no such file or directory")

// OutOfInodes: the inode allocator has no free slot to hand out.
const ErrOutOfInodes = DiskoError("no free inodes")

// OutOfDataBlocks: the data-block allocator has no free logical block.
const ErrOutOfDataBlocks = DiskoError("no free data blocks")

// CapExceeded: a write would require a 12th direct block.
const ErrCapExceeded = DiskoError("file size exceeds the direct-block cap")

// BadHandle: release (or another per-open operation) on an unknown handle.
const ErrBadHandle = DiskoError("bad file handle")

// Device error: the block adapter's underlying I/O failed.
const ErrDeviceFailure = DiskoError("block device I/O failure")

// ErrAlreadyExists is returned by Create when a directory entry with that
// name is already present.
const ErrAlreadyExists = DiskoError("file already exists")

// ErrFileSystemCorrupted is returned by Check when an on-disk invariant does
// not hold.
const ErrFileSystemCorrupted = DiskoError("file system structure needs cleaning")

func (e DiskoError) Error() string {
	return string(e)
}

func (e DiskoError) WithMessage(message string) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", e.Error(), message),
		originalError: e,
	}
}

func (e DiskoError) WrapError(err error) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: err,
	}
}

// DriverError is a DiskoError that has been decorated with extra context (a
// message or a wrapped cause). After WithMessage the original error stays
// reachable through Unwrap/Is; after WrapError the wrapped cause is what
// Unwrap returns.
type DriverError interface {
	error
	WithMessage(message string) DriverError
	WrapError(err error) DriverError
}

type customDriverError struct {
	message       string
	originalError error
}

func (e customDriverError) Error() string {
	return e.message
}

func (e customDriverError) WithMessage(message string) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customDriverError) WrapError(err error) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: err,
	}
}

func (e customDriverError) Unwrap() error {
	return e.originalError
}

// Is reports whether err is, or wraps, target. It lets a DriverError
// decorated with WithMessage still compare equal to the DiskoError sentinel
// it was built from.
func Is(err, target error) bool {
	for err != nil {
		if err == target {
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
