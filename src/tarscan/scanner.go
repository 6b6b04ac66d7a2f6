// Package tarscan implements read-only queries over a seekable ustar tar
// stream: structural validation, path lookups, non-recursive directory
// listing and ranged content reads. Every query re-scans from the start of
// the archive; nothing is cached between calls unless an Index is built
// explicitly.
//
// An Archive drives a single caller-owned stream cursor. Callers sharing one
// stream handle across goroutines must serialize access themselves.
package tarscan

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aurora-is-near/tarquery/src/ustar"
)

var (
	// ErrNotFound is returned when no entry matches a path, when the
	// matched entry has the wrong type for the query, or when symlink
	// resolution exceeds its depth bound.
	ErrNotFound = errors.New("entry not found")
	// ErrOffsetOutOfRange is returned when a read offset lies beyond the
	// entry's declared size.
	ErrOffsetOutOfRange = errors.New("offset out of range")
)

// maxSymlinkDepth bounds symlink resolution so that a cyclic archive
// degrades to ErrNotFound instead of unbounded recursion.
const maxSymlinkDepth = 8

// Archive is a query handle over one seekable tar stream. The stream
// position is the only mutable state; each public query rewinds to the start
// of the archive before scanning.
type Archive struct {
	r io.ReadSeeker
}

// New returns an Archive reading from r. The stream must start at byte 0 of
// the tar data. The Archive never writes to r.
func New(r io.ReadSeeker) *Archive {
	return &Archive{r: r}
}

// rewind moves the cursor back to the start of the archive.
func (a *Archive) rewind() error {
	if _, err := a.r.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind: %w", err)
	}
	return nil
}

// readBlock fills b with the next 512 bytes and advances the cursor.
func (a *Archive) readBlock(b *ustar.Block) error {
	if _, err := io.ReadFull(a.r, b[:]); err != nil {
		return fmt.Errorf("read block: %w", err)
	}
	return nil
}

// skipData advances the cursor past hdr's data blocks. Non-regular entries
// carry no data, so their skip is zero blocks.
func (a *Archive) skipData(hdr *ustar.Header) error {
	n := dataBlocks(hdr) * ustar.BlockSize
	if n == 0 {
		return nil
	}
	if _, err := a.r.Seek(n, io.SeekCurrent); err != nil {
		return fmt.Errorf("skip data: %w", err)
	}
	return nil
}

// dataBlocks returns the number of 512-byte data blocks following hdr.
func dataBlocks(hdr *ustar.Header) int64 {
	return (hdr.DataSize() + ustar.BlockSize - 1) / ustar.BlockSize
}

// atEnd peeks the next block and reports whether the end-of-archive marker
// has been reached. The cursor is restored to its pre-peek position exactly;
// subsequent scans depend on it. Running out of stream counts as the end so
// that an archive truncated after its last data block still terminates.
func (a *Archive) atEnd() (bool, error) {
	var b ustar.Block
	n, err := io.ReadFull(a.r, b[:])
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			if n > 0 {
				if _, err := a.r.Seek(int64(-n), io.SeekCurrent); err != nil {
					return false, fmt.Errorf("unpeek: %w", err)
				}
			}
			return true, nil
		}
		return false, fmt.Errorf("peek: %w", err)
	}
	if _, err := a.r.Seek(-ustar.BlockSize, io.SeekCurrent); err != nil {
		return false, fmt.Errorf("unpeek: %w", err)
	}
	return b.IsZero(), nil
}

// next reads and parses the header at the cursor. It does not validate
// magic, version or checksum; Validate does that during a structural check.
func (a *Archive) next() (*ustar.Header, error) {
	var b ustar.Block
	if err := a.readBlock(&b); err != nil {
		return nil, err
	}
	return ustar.ParseHeader(&b)
}

// Validate scans the whole archive from the start and checks every header's
// magic, version and checksum, in that order. It returns the number of
// headers in the archive, or the first structural error encountered. An
// archive consisting only of the terminating zero blocks is valid and counts
// zero entries.
func (a *Archive) Validate() (int, error) {
	if err := a.rewind(); err != nil {
		return 0, err
	}
	count := 0
	for {
		end, err := a.atEnd()
		if err != nil {
			return 0, err
		}
		if end {
			return count, nil
		}
		var b ustar.Block
		if err := a.readBlock(&b); err != nil {
			return 0, err
		}
		// Validate off the raw block first: a corrupt magic must win
		// even when the numeric fields are garbage too.
		if err := ustar.Validate(&b); err != nil {
			return 0, err
		}
		hdr, err := ustar.ParseHeader(&b)
		if err != nil {
			return 0, err
		}
		count++
		if err := a.skipData(hdr); err != nil {
			return 0, err
		}
	}
}

// find scans from the start of the archive and returns the first header
// whose name has path as a byte-wise prefix, or ErrNotFound. Matching is
// case-sensitive; a trailing slash on path disambiguates directories from
// files sharing the prefix.
func (a *Archive) find(path string) (*ustar.Header, error) {
	if err := a.rewind(); err != nil {
		return nil, err
	}
	return a.findNext(path)
}

// findNext is find without the rewind: it continues from the cursor.
func (a *Archive) findNext(path string) (*ustar.Header, error) {
	for {
		end, err := a.atEnd()
		if err != nil {
			return nil, err
		}
		if end {
			return nil, ErrNotFound
		}
		hdr, err := a.next()
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(hdr.Name, path) {
			return hdr, nil
		}
		if err := a.skipData(hdr); err != nil {
			return nil, err
		}
	}
}

// Exists reports whether any entry matches path.
func (a *Archive) Exists(path string) (bool, error) {
	_, err := a.find(path)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IsDir reports whether the first entry matching path is a directory.
func (a *Archive) IsDir(path string) (bool, error) {
	hdr, err := a.find(path)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return hdr.IsDir(), nil
}

// IsFile reports whether the first entry matching path is a regular file.
// Both the POSIX regular flag and its pre-POSIX alias count as a file.
func (a *Archive) IsFile(path string) (bool, error) {
	hdr, err := a.find(path)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return hdr.IsRegular(), nil
}

// IsSymlink reports whether the first entry matching path is a symbolic
// link.
func (a *Archive) IsSymlink(path string) (bool, error) {
	hdr, err := a.find(path)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return hdr.IsSymlink(), nil
}
