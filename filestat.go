package sfscore

import "os"

// FileStat is the attribute set GetAttr reports, trimmed to what this
// format actually stores: no timestamps, ownership, or device fields, since
// the on-disk layout carries none (spec.md Non-goals: no permission
// enforcement beyond the fixed mode bits below).
type FileStat struct {
	InodeNumber uint64
	Nlinks      uint64
	ModeFlags   os.FileMode
	Size        int64
}

// IsDir reports whether the entry this FileStat describes is the root
// directory.
func (stat *FileStat) IsDir() bool {
	return stat.ModeFlags.IsDir()
}

// IsFile reports whether the entry this FileStat describes is a regular
// file.
func (stat *FileStat) IsFile() bool {
	return stat.ModeFlags.IsRegular()
}
