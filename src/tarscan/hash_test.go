package tarscan

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"testing"
)

func TestHashSHA256(t *testing.T) {
	a := archiveOf(t,
		dir("dir/"),
		file("dir/a", "hello"),
		symlink("link", "dir/a"),
		file("b", "world"),
	)
	buf := new(bytes.Buffer)
	if err := a.HashSHA256(buf); err != nil {
		t.Fatalf("HashSHA256: %s", err)
	}
	want := fmt.Sprintf("%x  dir/a\n%x  b\n",
		sha256.Sum256([]byte("hello")), sha256.Sum256([]byte("world")))
	if buf.String() != want {
		t.Errorf("got:\n%swant:\n%s", buf.String(), want)
	}
}
