package tarscan

import (
	"bytes"
	"errors"
	"testing"
)

func TestReadRange(t *testing.T) {
	a := archiveOf(t, file("a.txt", "hello"))

	buf := make([]byte, 16)
	n, rem, err := a.ReadRange("a.txt", 0, buf)
	if err != nil {
		t.Fatalf("ReadRange: %s", err)
	}
	if string(buf[:n]) != "hello" || rem != 0 {
		t.Errorf("got %q remaining %d", buf[:n], rem)
	}

	n, rem, err = a.ReadRange("a.txt", 2, buf)
	if err != nil {
		t.Fatalf("ReadRange offset 2: %s", err)
	}
	if string(buf[:n]) != "llo" || rem != 0 {
		t.Errorf("got %q remaining %d", buf[:n], rem)
	}

	if _, _, err = a.ReadRange("a.txt", 10, buf); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("offset 10: %v", err)
	}

	// offset == size is an empty read, not a range error.
	n, rem, err = a.ReadRange("a.txt", 5, buf)
	if err != nil || n != 0 || rem != 0 {
		t.Errorf("offset 5: %d, %d, %v", n, rem, err)
	}

	if _, _, err = a.ReadRange("missing", 0, buf); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing: %v", err)
	}
}

func TestReadRangePaging(t *testing.T) {
	content := "0123456789abcdefghij" // 20 bytes
	a := archiveOf(t, file("big", content))

	buf := make([]byte, 7)
	var got []byte
	var offset int64
	for {
		n, rem, err := a.ReadRange("big", offset, buf)
		if err != nil {
			t.Fatalf("ReadRange at %d: %s", offset, err)
		}
		got = append(got, buf[:n]...)
		if want := int64(len(content)) - offset - int64(n); rem != want {
			t.Errorf("remaining at %d: %d != %d", offset, rem, want)
		}
		offset += int64(n)
		if rem == 0 {
			break
		}
	}
	if string(got) != content {
		t.Errorf("round-trip mismatch: %q", got)
	}
}

func TestReadRangeMultiBlock(t *testing.T) {
	// Content spanning multiple 512-byte blocks, read from inside the
	// second block.
	content := bytes.Repeat([]byte("x"), 700)
	content[600] = 'Y'
	a := archiveOf(t, file("big", string(content)))

	buf := make([]byte, 50)
	n, rem, err := a.ReadRange("big", 600, buf)
	if err != nil {
		t.Fatalf("ReadRange: %s", err)
	}
	if n != 50 || rem != 50 {
		t.Errorf("n=%d rem=%d", n, rem)
	}
	if buf[0] != 'Y' || buf[1] != 'x' {
		t.Errorf("window content: %q", buf[:2])
	}
}

func TestReadRangeTypes(t *testing.T) {
	a := archiveOf(t,
		dir("dir/"),
		file("dir/target.txt", "hello"),
		symlink("link", "dir/target.txt"),
	)

	buf := make([]byte, 16)
	if _, _, err := a.ReadRange("dir/", 0, buf); !errors.Is(err, ErrNotFound) {
		t.Errorf("directory read: %v", err)
	}

	ok, err := a.IsSymlink("link")
	if err != nil || !ok {
		t.Fatalf("IsSymlink: %v, %v", ok, err)
	}
	n, rem, err := a.ReadRange("link", 0, buf)
	if err != nil {
		t.Fatalf("ReadRange via link: %s", err)
	}
	if string(buf[:n]) != "hello" || rem != 0 {
		t.Errorf("via link: %q remaining %d", buf[:n], rem)
	}
}

func TestReadRangeSymlinkCycle(t *testing.T) {
	a := archiveOf(t,
		symlink("ping", "pong"),
		symlink("pong", "ping"),
	)
	buf := make([]byte, 8)
	if _, _, err := a.ReadRange("ping", 0, buf); !errors.Is(err, ErrNotFound) {
		t.Errorf("cycle: %v", err)
	}
}

func TestReadRangeDanglingSymlink(t *testing.T) {
	a := archiveOf(t, symlink("link", "nowhere"))
	buf := make([]byte, 8)
	if _, _, err := a.ReadRange("link", 0, buf); !errors.Is(err, ErrNotFound) {
		t.Errorf("dangling: %v", err)
	}
}
