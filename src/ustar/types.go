// Package ustar decodes and validates POSIX ustar tar header blocks.
// It only understands the plain ustar layout (magic "ustar", version "00");
// pax and GNU extensions are rejected by validation.
package ustar

import "errors"

const (
	// BlockSize is the unit of a tar stream. Headers and data are
	// block-aligned, the last data block is zero-padded.
	BlockSize int64 = 512

	namePos     = 0
	nameEnd     = 100
	sizePos     = 124
	sizeEnd     = 136
	chksumPos   = 148
	chksumEnd   = 156
	typePos     = 156
	linknamePos = 157
	linknameEnd = 257
	magicPos    = 257
	magicEnd    = 263
	versionPos  = 263
	versionEnd  = 265

	magicWant   = "ustar\x00"
	versionWant = "00"
)

// Type flags of interest. Everything else is TypeOther.
const (
	TypeRegular    byte = '0'
	TypeRegularAlt byte = 0 // pre-POSIX regular file
	TypeSymlink    byte = '2'
	TypeDirectory  byte = '5'
)

var (
	// ErrInvalidMagic is returned when a header's magic field is not "ustar".
	ErrInvalidMagic = errors.New("invalid magic")
	// ErrInvalidVersion is returned when a header's version field is not "00".
	ErrInvalidVersion = errors.New("invalid version")
	// ErrInvalidChecksum is returned when the stored checksum does not match
	// the computed one, or when a numeric field cannot be decoded.
	ErrInvalidChecksum = errors.New("invalid checksum")
)

// Block is one raw 512-byte tar block.
type Block [BlockSize]byte

// IsZero reports whether every byte of the block is zero. Two consecutive
// zero blocks terminate an archive.
func (b *Block) IsZero() bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

// Header is the parsed view of one header block. It only carries the fields
// the query engine needs; everything else in the block is validated through
// the checksum but not decoded.
type Header struct {
	Name     string // entry path, NUL-trimmed
	Size     int64  // data size in bytes, meaningful for regular files only
	Typeflag byte   // raw type flag byte
	Linkname string // symlink target, empty unless Typeflag == TypeSymlink
	Chksum   int64  // stored header checksum
}

// IsRegular reports whether the header describes a regular file, accepting
// both the POSIX flag and its pre-POSIX alias.
func (h *Header) IsRegular() bool {
	return h.Typeflag == TypeRegular || h.Typeflag == TypeRegularAlt
}

// IsDir reports whether the header describes a directory.
func (h *Header) IsDir() bool {
	return h.Typeflag == TypeDirectory
}

// IsSymlink reports whether the header describes a symbolic link.
func (h *Header) IsSymlink() bool {
	return h.Typeflag == TypeSymlink
}

// DataSize returns the size used for block skipping: the declared size for
// regular files, zero for every other type. Directories and symlinks carry
// no data blocks in this format.
func (h *Header) DataSize() int64 {
	if h.IsRegular() {
		return h.Size
	}
	return 0
}
