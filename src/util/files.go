// Package util holds small file helpers shared by the commands.
package util

import (
	"fmt"
	"os"
)

// CreateFile creates filename for writing, refusing to overwrite an existing
// file.
func CreateFile(filename string) (*os.File, error) {
	return os.OpenFile(filename, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0640)
}

// OpenArchive opens a tar archive read-only and rejects anything that cannot
// be seeked over, such as directories.
func OpenArchive(filename string) (*os.File, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		_ = f.Close()
		return nil, fmt.Errorf("%s: not a regular file", filename)
	}
	return f, nil
}
