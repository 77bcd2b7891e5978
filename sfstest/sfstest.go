// Package sfstest provides an in-memory disk-image backing for exercising
// sfscore without touching the filesystem, grounded on the teacher's
// testing package's random-image helper and the blockcache package's
// in-memory wiring.
package sfstest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"

	"github.com/blockfs-dev/sfscore"
	"github.com/blockfs-dev/sfscore/internal/blockdev"
)

// NewMemImage allocates a zeroed, correctly sized in-memory backing store
// and wraps it as a block device, bypassing the filesystem entirely.
func NewMemImage(t *testing.T) *blockdev.Device {
	t.Helper()
	storage := make([]byte, sfscore.TotalBlocks*blockdev.BlockSize)
	stream := bytesextra.NewReadWriteSeeker(storage)
	return blockdev.Wrap(stream, sfscore.TotalBlocks)
}

// NewFileSystem formats a fresh in-memory image and returns a ready-to-use
// FileSystem handle, failing the test immediately on any setup error.
func NewFileSystem(t *testing.T) *sfscore.FileSystem {
	t.Helper()

	fs, err := sfscore.InitDevice(NewMemImage(t))
	require.NoError(t, err)
	return fs
}
