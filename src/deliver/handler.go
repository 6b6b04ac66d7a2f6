package deliver

// https://developer.mozilla.org/en-US/docs/Web/HTTP/Range_requests
// https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Range

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aurora-is-near/tarquery/src/tarscan"
)

// EntryHandler serves single entries out of tar archives below ArchiveDir.
// Requests take the form GET /<archive>/<entry path>; byte ranges are
// honored via the standard Range header. Symlink entries are resolved inside
// the archive.
type EntryHandler struct {
	ArchiveDir string
	cache      *indexCache
}

// NewEntryHandler returns a handler for the archives in dir, keeping up to
// cacheSize archive indexes in memory.
func NewEntryHandler(dir string, cacheSize int) (*EntryHandler, error) {
	cache, err := newIndexCache(cacheSize)
	if err != nil {
		return nil, err
	}
	return &EntryHandler{ArchiveDir: dir, cache: cache}, nil
}

func (handler *EntryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler.Handler(w, r)
}

// splitRequest separates the archive name from the entry path inside it.
func splitRequest(requestPath string) (archive, entry string) {
	requestPath = strings.TrimPrefix(requestPath, "/")
	if pos := strings.IndexByte(requestPath, '/'); pos >= 0 {
		return requestPath[:pos], requestPath[pos+1:]
	}
	return requestPath, ""
}

// parseRange parses a bytes=start-end header value. end < 0 means the range
// is open-ended; "bytes=0-0" requests exactly the first byte.
func parseRange(r string) (start, end int64) {
	if pos := strings.Index(r, "="); pos < 0 {
		return 0, -1
	} else {
		r = r[pos+1:]
	}
	if pos := strings.Index(r, "-"); pos < 0 {
		return 0, -1
	} else {
		bs, es := r[:pos], r[pos+1:]
		start, _ = strconv.ParseInt(bs, 10, 64)
		end, err := strconv.ParseInt(es, 10, 64)
		if err != nil {
			return start, -1
		}
		return start, end
	}
}

func (handler *EntryHandler) Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Accept-Ranges", "bytes")
	archive, entryPath := splitRequest(r.URL.Path)
	if archive == "" || entryPath == "" || strings.Contains(archive, "..") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	archivePath := filepath.Join(handler.ArchiveDir, archive)
	f, err := os.Open(archivePath)
	if err != nil {
		log.Printf("ERROR: Archive %s: %s", archive, err)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	defer func() { _ = f.Close() }()
	ix, err := handler.cache.get(archivePath, f)
	if err != nil {
		log.Printf("ERROR: Index %s: %s", archive, err)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	entry, err := ix.Resolve(entryPath)
	if err != nil || entry.Type != tarscan.EntryTypeFile {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	rangeHeader := r.Header.Get("Range")
	ranged := rangeHeader != ""
	startRange, endRange := parseRange(rangeHeader)
	if ranged && startRange >= entry.Size {
		w.Header().Add("Content-Range", fmt.Sprintf("bytes */%d", entry.Size))
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		return
	}
	if endRange < 0 || endRange >= entry.Size {
		endRange = entry.Size - 1
	}
	length := endRange - startRange + 1

	w.Header().Add("Content-Type", "application/octet-stream")
	w.Header().Add("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", path.Base(entry.Name)))
	w.Header().Add("Content-Length", strconv.FormatInt(length, 10))
	if ranged {
		w.Header().Add("Content-Range",
			fmt.Sprintf("bytes %d-%d/%d", startRange, endRange, entry.Size))
		w.WriteHeader(http.StatusPartialContent)
	}
	if _, err := f.Seek(entry.Offset+startRange, io.SeekStart); err != nil {
		log.Printf("ERROR: Seek %s (%s): %s", archive, entryPath, err)
		return
	}
	if _, err := io.CopyN(w, f, length); err != nil {
		log.Printf("ERROR: Write %s (%s, %d-%d): %s",
			archive, entryPath, startRange, endRange, err)
	}
}
