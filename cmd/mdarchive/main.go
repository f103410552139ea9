// Package main provides the mdarchive CLI.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/mdarchive/internal/binfile"
	"github.com/born-ml/mdarchive/internal/convert"
)

const version = "v0.1.0"

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "mdarchive: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stderr)
		return errUsage
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "mdarchive %s\n", version)
		return nil
	case "inspect":
		return inspect(args[1:], stdout, stderr)
	case "pack":
		return pack(args[1:], stderr)
	case "unpack":
		return unpack(args[1:], stderr)
	case "copy":
		return copyArchive(args[1:], stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return errUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "mdarchive - named float32 array files")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version                    Show version")
	fmt.Fprintln(w, "  inspect [-yaml] [-mmap] F  List arrays and their sizes")
	fmt.Fprintln(w, "  pack IN.yaml OUT           Write a YAML document as an archive")
	fmt.Fprintln(w, "  unpack IN OUT.yaml         Write an archive as a YAML document")
	fmt.Fprintln(w, "  copy IN OUT                Read an archive and write it back out")
}

// positional parses flags and requires exactly n positional arguments.
func positional(fs *flag.FlagSet, args []string, n int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, errUsage
	}
	if fs.NArg() != n {
		fs.Usage()
		return nil, errUsage
	}
	return fs.Args(), nil
}

func inspect(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asYAML := fs.Bool("yaml", false, "print a YAML summary instead of the verbose listing")
	mapped := fs.Bool("mmap", false, "decode through a memory mapping")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: mdarchive inspect [-yaml] [-mmap] FILE")
		fs.PrintDefaults()
	}

	pos, err := positional(fs, args, 1)
	if err != nil {
		return err
	}

	read := binfile.Read
	if *mapped {
		read = binfile.ReadMapped
	}

	var opts []binfile.Option
	if !*asYAML {
		opts = append(opts, binfile.WithVerbose(stdout))
	}

	a, err := read(pos[0], opts...)
	if err != nil {
		return err
	}
	if *asYAML {
		return convert.EncodeSummary(stdout, a)
	}
	fmt.Fprintf(stdout, "%d arrays\n", a.Len())
	return nil
}

func pack(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("pack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprintln(stderr, "usage: mdarchive pack IN.yaml OUT") }

	pos, err := positional(fs, args, 2)
	if err != nil {
		return err
	}

	a, err := convert.LoadYAML(pos[0])
	if err != nil {
		return err
	}
	return binfile.Write(pos[1], a)
}

func unpack(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("unpack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprintln(stderr, "usage: mdarchive unpack IN OUT.yaml") }

	pos, err := positional(fs, args, 2)
	if err != nil {
		return err
	}

	a, err := binfile.Read(pos[0])
	if err != nil {
		return err
	}
	return convert.SaveYAML(pos[1], a)
}

func copyArchive(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("copy", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprintln(stderr, "usage: mdarchive copy IN OUT") }

	pos, err := positional(fs, args, 2)
	if err != nil {
		return err
	}

	a, err := binfile.Read(pos[0])
	if err != nil {
		return err
	}
	return binfile.Write(pos[1], a)
}
