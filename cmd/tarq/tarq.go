// Command tarq runs read-only queries against a ustar tar archive: structural
// validation, path lookups, non-recursive listing and ranged content reads.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/aurora-is-near/tarquery/src/tarscan"
	"github.com/aurora-is-near/tarquery/src/util"
)

func usage() {
	prog := path.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  %s check <archive>\n", prog)
	fmt.Fprintf(os.Stderr, "  %s stat <archive> <path>\n", prog)
	fmt.Fprintf(os.Stderr, "  %s list [-n max] <archive> <dir>\n", prog)
	fmt.Fprintf(os.Stderr, "  %s cat [-p offset] [-o output] <archive> <file>\n", prog)
	os.Exit(1)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", path.Base(os.Args[0]), err)
	os.Exit(1)
}

func openArchive(filename string) (*tarscan.Archive, *os.File) {
	f, err := util.OpenArchive(filename)
	if err != nil {
		fatal(err)
	}
	return tarscan.New(f), f
}

func runCheck(args []string) {
	if len(args) != 1 {
		usage()
	}
	a, f := openArchive(args[0])
	defer func() { _ = f.Close() }()
	n, err := a.Validate()
	if err != nil {
		fatal(fmt.Errorf("%s: %w", args[0], err))
	}
	fmt.Printf("%s: valid, %d entries\n", args[0], n)
}

func runStat(args []string) {
	if len(args) != 2 {
		usage()
	}
	a, f := openArchive(args[0])
	defer func() { _ = f.Close() }()
	entry := args[1]
	for _, probe := range []struct {
		kind string
		fn   func(string) (bool, error)
	}{
		{"directory", a.IsDir},
		{"file", a.IsFile},
		{"symlink", a.IsSymlink},
	} {
		ok, err := probe.fn(entry)
		if err != nil {
			fatal(err)
		}
		if ok {
			fmt.Printf("%s: %s\n", entry, probe.kind)
			return
		}
	}
	ok, err := a.Exists(entry)
	if err != nil {
		fatal(err)
	}
	if ok {
		fmt.Printf("%s: other\n", entry)
		return
	}
	fmt.Fprintf(os.Stderr, "%s: not found\n", entry)
	os.Exit(1)
}

func runList(args []string) {
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	max := listCmd.Int("n", 0, "maximum number of entries to list (0: unlimited)")
	_ = listCmd.Parse(args)
	if listCmd.NArg() != 2 {
		usage()
	}
	a, f := openArchive(listCmd.Arg(0))
	defer func() { _ = f.Close() }()
	entries, err := a.List(listCmd.Arg(1), *max)
	if err != nil {
		if errors.Is(err, tarscan.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "%s: not found\n", listCmd.Arg(1))
			os.Exit(1)
		}
		fatal(err)
	}
	for _, name := range entries {
		fmt.Println(name)
	}
}

func runCat(args []string) {
	catCmd := flag.NewFlagSet("cat", flag.ExitOnError)
	offset := catCmd.Int64("p", 0, "byte offset to start reading from")
	output := catCmd.String("o", "-", "output file ('-' for stdout)")
	_ = catCmd.Parse(args)
	if catCmd.NArg() != 2 {
		usage()
	}
	a, f := openArchive(catCmd.Arg(0))
	defer func() { _ = f.Close() }()

	var out io.Writer = os.Stdout
	if *output != "-" {
		of, err := util.CreateFile(*output)
		if err != nil {
			fatal(err)
		}
		defer func() { _ = of.Close() }()
		out = of
	}

	buf := make([]byte, 64*1024)
	pos := *offset
	for {
		n, remaining, err := a.ReadRange(catCmd.Arg(1), pos, buf)
		if err != nil {
			fatal(fmt.Errorf("%s: %w", catCmd.Arg(1), err))
		}
		if _, err := out.Write(buf[:n]); err != nil {
			fatal(err)
		}
		if remaining == 0 {
			return
		}
		pos += int64(n)
	}
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	args := os.Args[2:]
	switch os.Args[1] {
	case "check":
		runCheck(args)
	case "stat":
		runStat(args)
	case "list":
		runList(args)
	case "cat":
		runCat(args)
	default:
		usage()
	}
}
