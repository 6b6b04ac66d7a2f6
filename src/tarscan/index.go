package tarscan

import (
	"strings"

	"github.com/aurora-is-near/tarquery/src/ustar"
)

// EntryType classifies an indexed entry.
type EntryType byte

const (
	EntryTypeFile      EntryType = 0x01
	EntryTypeDirectory EntryType = 0x02
	EntryTypeLink      EntryType = 0x03
	EntryTypeOther     EntryType = 0x00
)

func entryType(hdr *ustar.Header) EntryType {
	switch {
	case hdr.IsRegular():
		return EntryTypeFile
	case hdr.IsDir():
		return EntryTypeDirectory
	case hdr.IsSymlink():
		return EntryTypeLink
	default:
		return EntryTypeOther
	}
}

// Entry is one indexed archive member.
type Entry struct {
	Name     string    // path as stored in the header
	Type     EntryType // file, directory, link or other
	Size     int64     // content size, zero for non-files
	Linkname string    // symlink target, empty otherwise
	Offset   int64     // absolute offset of the first data block
}

// Index is an in-memory name table built from one full scan. It trades the
// per-query O(N) rescans of Archive for direct offset lookups; the query
// contracts are unchanged. The index does not watch the underlying stream:
// it is only valid as long as the archive bytes are.
type Index struct {
	entries []Entry
}

// Index scans the whole archive once and returns its name table. The scan
// validates nothing beyond header decoding; run Validate first when the
// archive is untrusted.
func (a *Archive) Index() (*Index, error) {
	if err := a.rewind(); err != nil {
		return nil, err
	}
	ix := new(Index)
	var pos int64
	for {
		end, err := a.atEnd()
		if err != nil {
			return nil, err
		}
		if end {
			return ix, nil
		}
		hdr, err := a.next()
		if err != nil {
			return nil, err
		}
		pos += ustar.BlockSize
		ix.entries = append(ix.entries, Entry{
			Name:     hdr.Name,
			Type:     entryType(hdr),
			Size:     hdr.DataSize(),
			Linkname: hdr.Linkname,
			Offset:   pos,
		})
		if err := a.skipData(hdr); err != nil {
			return nil, err
		}
		pos += dataBlocks(hdr) * ustar.BlockSize
	}
}

// Entries returns the indexed entries in archive order. The slice is shared;
// callers must not modify it.
func (ix *Index) Entries() []Entry {
	return ix.entries
}

// Find returns the first entry whose name has path as a prefix, matching the
// Archive lookup semantics, or nil.
func (ix *Index) Find(path string) *Entry {
	for i := range ix.entries {
		if strings.HasPrefix(ix.entries[i].Name, path) {
			return &ix.entries[i]
		}
	}
	return nil
}

// Resolve looks up path and follows symlink entries to their targets, at
// most maxSymlinkDepth deep. It returns ErrNotFound when the path is absent
// or a link chain dead-ends or cycles.
func (ix *Index) Resolve(path string) (*Entry, error) {
	for depth := 0; depth <= maxSymlinkDepth; depth++ {
		e := ix.Find(path)
		if e == nil {
			return nil, ErrNotFound
		}
		if e.Type != EntryTypeLink {
			return e, nil
		}
		path = e.Linkname
	}
	return nil, ErrNotFound
}
