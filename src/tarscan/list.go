package tarscan

import "strings"

// List returns the names of the immediate children of the directory matching
// dir, without recursing. A child directory appears with its trailing slash;
// its own contents do not appear. If dir first matches a symlink entry, the
// listing is redirected to the link target (bounded like ReadRange). If
// nothing matches dir, List reports ErrNotFound; a directory that matches
// but has no children yields an empty, non-error result.
//
// max caps how many names are collected; entries beyond it are dropped
// silently. max <= 0 means no cap.
func (a *Archive) List(dir string, max int) ([]string, error) {
	return a.list(dir, max, 0)
}

func (a *Archive) list(dir string, max, depth int) ([]string, error) {
	if depth > maxSymlinkDepth {
		return nil, ErrNotFound
	}
	if err := a.rewind(); err != nil {
		return nil, err
	}

	var entries []string
	// home is the separator depth of the first match, i.e. of the listed
	// directory itself. Root-level names have depth -1, so track "seen"
	// separately.
	home := -1
	matched := false
	for {
		end, err := a.atEnd()
		if err != nil {
			return nil, err
		}
		if end {
			break
		}
		hdr, err := a.next()
		if err != nil {
			return nil, err
		}
		if err := a.skipData(hdr); err != nil {
			return nil, err
		}
		if !strings.HasPrefix(hdr.Name, dir) {
			continue
		}
		if !matched {
			if hdr.IsSymlink() {
				// The path names a symlink: list its target instead.
				return a.list(hdr.Linkname, max, depth+1)
			}
			matched = true
			home = lastSlash(hdr.Name)
			continue // the directory itself is not its own child
		}
		if !isChildOf(hdr.Name, home) {
			continue
		}
		if max <= 0 || len(entries) < max {
			entries = append(entries, hdr.Name)
		}
	}
	if !matched {
		return nil, ErrNotFound
	}
	return entries, nil
}

// isChildOf reports whether name is an immediate child of the directory
// whose last path separator sits at position home. Files directly inside
// the directory keep their separator at home; a direct subdirectory ends in
// a slash exactly one level deeper.
func isChildOf(name string, home int) bool {
	depth := lastSlash(name)
	if depth <= home {
		return true
	}
	if !strings.HasSuffix(name, "/") {
		return false
	}
	return lastSlash(name[:depth]) <= home
}

func lastSlash(name string) int {
	return strings.LastIndexByte(name, '/')
}
