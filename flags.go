package sfscore

import "os"

// File type bits for Mode, named the way the host ABI (and the C original)
// spells them.
const (
	ModeTypeMask = 0xf000
	ModeDir      = 0x4000 // S_IFDIR
	ModeRegular  = 0x8000 // S_IFREG
)

// DefaultMode is the permission bits getattr reports for both directories
// and regular files; the format carries no per-file permission bits of its
// own (see spec.md Non-goals: no permission enforcement).
const DefaultMode = 0777

// posixFileMode translates a raw host-ABI mode_t value (built from
// ModeTypeMask/ModeDir/ModeRegular plus permission bits) into the
// os.FileMode GetAttr reports through FileStat.
func posixFileMode(posix uint32) os.FileMode {
	mode := os.FileMode(posix &^ ModeTypeMask)
	if posix&ModeTypeMask == ModeDir {
		mode |= os.ModeDir
	}
	return mode
}

// OpenFlags wraps the host-ABI bitmask passed to Open, mirroring the
// standard os package's O_* constants rather than inventing a parallel set.
type OpenFlags int

// Creating reports whether flags asks Open to create the file if it is
// missing, i.e. os.O_CREATE is set.
func (f OpenFlags) Creating() bool {
	return int(f)&os.O_CREATE != 0
}

// Truncating reports whether flags asks Open to truncate an existing file.
// The file system has no truncate primitive (see spec.md Non-goals); Open
// honoring this bit would require one, so it is observed but not acted on
// and is surfaced here only for callers that want to reject it explicitly.
func (f OpenFlags) Truncating() bool {
	return int(f)&os.O_TRUNC != 0
}
