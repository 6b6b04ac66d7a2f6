package deliver

import (
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aurora-is-near/tarquery/src/tarscan"
)

// indexCache keeps recently built archive indexes. Building an index costs a
// full scan of the archive, so repeated requests against the same archive
// should not pay it again. Entries are keyed by path, size and modification
// time: a replaced archive file misses the cache and is rescanned.
type indexCache struct {
	lru *lru.Cache[string, *tarscan.Index]
}

func newIndexCache(size int) (*indexCache, error) {
	if size <= 0 {
		size = 16
	}
	c, err := lru.New[string, *tarscan.Index](size)
	if err != nil {
		return nil, fmt.Errorf("index cache: %w", err)
	}
	return &indexCache{lru: c}, nil
}

func cacheKey(path string, fi os.FileInfo) string {
	return fmt.Sprintf("%s|%d|%d", path, fi.Size(), fi.ModTime().UnixNano())
}

// get returns the index for the archive open on f, building and caching it
// on a miss. f's cursor position is clobbered either way.
func (c *indexCache) get(path string, f *os.File) (*tarscan.Index, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	key := cacheKey(path, fi)
	if ix, ok := c.lru.Get(key); ok {
		return ix, nil
	}
	ix, err := tarscan.New(f).Index()
	if err != nil {
		return nil, err
	}
	c.lru.Add(key, ix)
	return ix, nil
}
