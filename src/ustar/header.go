package ustar

import (
	"bytes"
	"fmt"
)

// ParseHeader decodes the fields of one header block. It does not check
// magic, version or checksum; see Validate. Malformed numeric fields are
// reported as an error, never a panic.
func ParseHeader(block *Block) (*Header, error) {
	size, err := parseOctal(block[sizePos:sizeEnd])
	if err != nil {
		return nil, fmt.Errorf("size field: %w", err)
	}
	chksum, err := parseOctal(block[chksumPos:chksumEnd])
	if err != nil {
		return nil, fmt.Errorf("chksum field: %w", err)
	}
	return &Header{
		Name:     cstring(block[namePos:nameEnd]),
		Size:     size,
		Typeflag: block[typePos],
		Linkname: cstring(block[linknamePos:linknameEnd]),
		Chksum:   chksum,
	}, nil
}

// Validate checks the block against the ustar format. Checks run in order
// magic, version, checksum; the first failure is returned. It works off the
// raw block, so a header whose numeric fields cannot even be decoded still
// reports a magic or version mismatch first.
func Validate(block *Block) error {
	// Only the five "ustar" bytes and the terminating NUL matter; the
	// version field starts right after.
	if string(block[magicPos:magicPos+5]) != magicWant[:5] {
		return ErrInvalidMagic
	}
	if string(block[versionPos:versionEnd]) != versionWant {
		return ErrInvalidVersion
	}
	stored, err := parseOctal(block[chksumPos:chksumEnd])
	if err != nil {
		return fmt.Errorf("chksum field: %w", err)
	}
	if Checksum(block) != stored {
		return ErrInvalidChecksum
	}
	return nil
}

// Checksum computes the header checksum: the unsigned sum of all 512 bytes
// with the eight checksum bytes counted as ASCII spaces.
func Checksum(block *Block) int64 {
	var sum int64
	for i, c := range block {
		if i >= chksumPos && i < chksumEnd {
			sum += ' '
			continue
		}
		sum += int64(c)
	}
	return sum
}

// cstring returns the field up to the first NUL, as tar strings are
// NUL-padded.
func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// parseOctal decodes an octal ASCII numeric field. Fields may carry leading
// spaces and are terminated by NUL or space. A field with no digits decodes
// to zero; any other byte is a decode failure, surfaced through the checksum
// error channel since a corrupt field cannot checksum correctly either.
func parseOctal(b []byte) (int64, error) {
	var n int64
	i := 0
	for i < len(b) && b[i] == ' ' {
		i++
	}
	for ; i < len(b); i++ {
		c := b[i]
		if c == 0 || c == ' ' {
			break
		}
		if c < '0' || c > '7' {
			return 0, fmt.Errorf("bad octal byte %#x: %w", c, ErrInvalidChecksum)
		}
		n = n<<3 | int64(c-'0')
	}
	return n, nil
}
