package ustar

import (
	"archive/tar"
	"bytes"
	"errors"
	"testing"
	"time"
)

func headerBlock(t *testing.T, hdr *tar.Header) *Block {
	t.Helper()
	buf := new(bytes.Buffer)
	w := tar.NewWriter(buf)
	hdr.Format = tar.FormatUSTAR
	if err := w.WriteHeader(hdr); err != nil {
		t.Fatalf("WriteHeader: %s", err)
	}
	_ = w.Flush()
	b := new(Block)
	copy(b[:], buf.Bytes())
	return b
}

func TestParseHeader(t *testing.T) {
	b := headerBlock(t, &tar.Header{
		Name:    "dir/file.txt",
		Size:    1234,
		Mode:    0644,
		ModTime: time.Unix(0, 0),
	})
	hdr, err := ParseHeader(b)
	if err != nil {
		t.Fatalf("ParseHeader: %s", err)
	}
	if hdr.Name != "dir/file.txt" {
		t.Errorf("Name: %q", hdr.Name)
	}
	if hdr.Size != 1234 {
		t.Errorf("Size: %d", hdr.Size)
	}
	if !hdr.IsRegular() || hdr.IsDir() || hdr.IsSymlink() {
		t.Errorf("Typeflag: %#x", hdr.Typeflag)
	}
	if err := Validate(b); err != nil {
		t.Errorf("Validate: %s", err)
	}
}

func TestParseSymlink(t *testing.T) {
	b := headerBlock(t, &tar.Header{
		Name:     "link",
		Linkname: "target.txt",
		Typeflag: tar.TypeSymlink,
		ModTime:  time.Unix(0, 0),
	})
	hdr, err := ParseHeader(b)
	if err != nil {
		t.Fatalf("ParseHeader: %s", err)
	}
	if !hdr.IsSymlink() {
		t.Errorf("Typeflag: %#x", hdr.Typeflag)
	}
	if hdr.Linkname != "target.txt" {
		t.Errorf("Linkname: %q", hdr.Linkname)
	}
	if hdr.DataSize() != 0 {
		t.Errorf("DataSize: %d", hdr.DataSize())
	}
}

func TestValidateOrder(t *testing.T) {
	mk := func() *Block {
		return headerBlock(t, &tar.Header{Name: "a", Size: 1, ModTime: time.Unix(0, 0)})
	}

	b := mk()
	b[magicPos] = 'X'
	if err := Validate(b); !errors.Is(err, ErrInvalidMagic) {
		t.Errorf("magic: %v", err)
	}

	b = mk()
	b[versionPos] = '9'
	if err := Validate(b); !errors.Is(err, ErrInvalidVersion) {
		t.Errorf("version: %v", err)
	}

	b = mk()
	b[namePos] = 'z' // flips the checksum without touching magic/version
	if err := Validate(b); !errors.Is(err, ErrInvalidChecksum) {
		t.Errorf("checksum: %v", err)
	}

	// A block that is both wrong-magic and wrong-checksum reports the
	// magic error: checks run magic, version, checksum.
	b = mk()
	b[magicPos] = 'X'
	b[namePos] = 'z'
	if err := Validate(b); !errors.Is(err, ErrInvalidMagic) {
		t.Errorf("order: %v", err)
	}

	// Magic must win even when the numeric fields cannot be decoded at
	// all, regardless of downstream header content.
	b = mk()
	b[magicPos] = 'X'
	copy(b[sizePos:sizeEnd], "zzzzzzzz")
	if err := Validate(b); !errors.Is(err, ErrInvalidMagic) {
		t.Errorf("magic with garbage size: %v", err)
	}
	b = mk()
	copy(b[sizePos:sizeEnd], "zzzzzzzz") // breaks the checksum, not the layout
	if err := Validate(b); !errors.Is(err, ErrInvalidChecksum) {
		t.Errorf("garbage size alone: %v", err)
	}
}

func TestParseOctal(t *testing.T) {
	n, err := parseOctal([]byte("0000644\x00"))
	if err != nil || n != 0644 {
		t.Errorf("got %d, %v", n, err)
	}
	n, err = parseOctal([]byte("  11 \x00"))
	if err != nil || n != 9 {
		t.Errorf("got %d, %v", n, err)
	}
	n, err = parseOctal([]byte{0, 0, 0})
	if err != nil || n != 0 {
		t.Errorf("empty: got %d, %v", n, err)
	}
	if _, err = parseOctal([]byte("12x4")); !errors.Is(err, ErrInvalidChecksum) {
		t.Errorf("garbage: %v", err)
	}
}

func TestMalformedSizeField(t *testing.T) {
	b := headerBlock(t, &tar.Header{Name: "a", Size: 5, ModTime: time.Unix(0, 0)})
	copy(b[sizePos:sizeEnd], "not-a-number")
	if _, err := ParseHeader(b); !errors.Is(err, ErrInvalidChecksum) {
		t.Errorf("want decode failure, got %v", err)
	}
}

func TestIsZero(t *testing.T) {
	var b Block
	if !b.IsZero() {
		t.Error("zero block not detected")
	}
	b[511] = 1
	if b.IsZero() {
		t.Error("non-zero block reported zero")
	}
}
