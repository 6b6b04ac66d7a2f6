package tarscan

import (
	"crypto/sha256"
	"fmt"
	"io"
)

// HashSHA256 writes the sha256 sum of every regular file entry to w, one
// "<hex>  <name>" line per entry, in archive order. Symlinks, directories
// and other types are skipped. Content is streamed from the indexed offsets,
// so archives larger than memory are fine.
func (a *Archive) HashSHA256(w io.Writer) error {
	ix, err := a.Index()
	if err != nil {
		return err
	}
	for _, entry := range ix.Entries() {
		if entry.Type != EntryTypeFile {
			continue
		}
		if _, err := a.r.Seek(entry.Offset, io.SeekStart); err != nil {
			return fmt.Errorf("hash %s: %w", entry.Name, err)
		}
		h := sha256.New()
		if _, err := io.CopyN(h, a.r, entry.Size); err != nil {
			return fmt.Errorf("hash %s: %w", entry.Name, err)
		}
		if _, err := fmt.Fprintf(w, "%x  %s\n", h.Sum(nil), entry.Name); err != nil {
			return err
		}
	}
	return nil
}
