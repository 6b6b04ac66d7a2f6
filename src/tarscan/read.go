package tarscan

import (
	"fmt"
	"io"
)

// ReadRange copies up to len(dest) bytes of the entry matching path into
// dest, starting offset bytes into the entry's content. It returns the
// number of bytes copied and how many bytes of the entry remain unread after
// them; a positive remainder means the caller should come back with
// offset+n to page through the rest.
//
// Directories and entries that are neither regular files nor symlinks
// report ErrNotFound. Symlinks are resolved against the archive, at most
// maxSymlinkDepth deep. An offset beyond the entry size reports
// ErrOffsetOutOfRange; offset == size is a valid empty read.
func (a *Archive) ReadRange(path string, offset int64, dest []byte) (n int, remaining int64, err error) {
	return a.readRange(path, offset, dest, 0)
}

func (a *Archive) readRange(path string, offset int64, dest []byte, depth int) (int, int64, error) {
	if depth > maxSymlinkDepth {
		return 0, 0, ErrNotFound
	}
	hdr, err := a.find(path)
	if err != nil {
		return 0, 0, err
	}
	if hdr.IsSymlink() {
		return a.readRange(hdr.Linkname, offset, dest, depth+1)
	}
	if !hdr.IsRegular() {
		return 0, 0, ErrNotFound
	}
	if offset > hdr.Size {
		return 0, 0, ErrOffsetOutOfRange
	}
	want := hdr.Size - offset
	if int64(len(dest)) < want {
		want = int64(len(dest))
	}
	// The cursor sits at the first data block of the matched entry.
	if want > 0 {
		if _, err := a.r.Seek(offset, io.SeekCurrent); err != nil {
			return 0, 0, fmt.Errorf("seek to offset: %w", err)
		}
		if _, err := io.ReadFull(a.r, dest[:want]); err != nil {
			return 0, 0, fmt.Errorf("read content: %w", err)
		}
	}
	return int(want), hdr.Size - offset - want, nil
}
