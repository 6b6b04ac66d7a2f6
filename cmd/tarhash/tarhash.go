// Command tarhash prints the sha256 sum of every regular file inside a tar
// archive, without extracting anything to disk.
package main

import (
	"fmt"
	"os"
	"path"

	"github.com/aurora-is-near/tarquery/src/tarscan"
	"github.com/aurora-is-near/tarquery/src/util"
)

func main() {
	out := os.Stdout
	if len(os.Args) != 3 {
		_, _ = fmt.Fprintf(os.Stderr, "%s <input.tar> <output.hashfile>\n", path.Base(os.Args[0]))
		os.Exit(1)
	}
	if os.Args[2] != "-" {
		of, err := util.CreateFile(os.Args[2])
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "%s ERROR: %s\n", path.Base(os.Args[0]), err)
			os.Exit(1)
		}
		defer func() { _ = of.Close() }()
		out = of
	}
	f, err := util.OpenArchive(os.Args[1])
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s ERROR: %s\n", path.Base(os.Args[0]), err)
		os.Exit(1)
	}
	defer func() { _ = f.Close() }()
	if err := tarscan.New(f).HashSHA256(out); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s ERROR: %s\n", path.Base(os.Args[0]), err)
		os.Exit(1)
	}
	os.Exit(0)
}
