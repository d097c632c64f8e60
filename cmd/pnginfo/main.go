package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"dpi.adpollak.net/internal/inspect"
)

func main() {
	// cl-args: -v lists every chunk, positional args are the png files.
	var verbose bool
	flag.BoolVar(&verbose, "v", false, "list every chunk with its length and CRC")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-v] <file.png> [file.png ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	failed := false
	for _, path := range flag.Args() {
		if err := describe(os.Stdout, path, verbose); err != nil {
			log.Printf("%s: %v", path, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func describe(w io.Writer, path string, verbose bool) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	rep, err := inspect.Inspect(file)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s: %d chunks\n", path, len(rep.Chunks))
	if rep.IHDR != nil {
		fmt.Fprintf(w, "  IHDR: %dx%d, bit depth %d, %s\n",
			rep.IHDR.Width, rep.IHDR.Height, rep.IHDR.BitDepth, rep.IHDR.ColorTypeName())
	}
	if rep.Density == nil {
		fmt.Fprintln(w, "  pHYs: none")
	} else {
		fmt.Fprintf(w, "  pHYs: %s\n", rep.Density)
	}
	if rep.PhysCount > 1 || !rep.PhysBeforeIDAT {
		fmt.Fprintf(w, "  warning: %d pHYs chunks, all before IDAT: %v\n", rep.PhysCount, rep.PhysBeforeIDAT)
	}
	if rep.Trailing > 0 {
		fmt.Fprintf(w, "  warning: %d stray bytes after the last chunk\n", rep.Trailing)
	}
	if verbose {
		for i, e := range rep.Chunks {
			fmt.Fprintf(w, "  %3d %s %8d %08x\n", i, e.Type, e.Length, e.Crc)
		}
	}
	return nil
}
