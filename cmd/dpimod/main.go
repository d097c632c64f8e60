package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"dpi.adpollak.net/internal/batch"
	"dpi.adpollak.net/internal/phys"
)

func main() {
	var (
		dir     string
		dpiText string
		suffix  string
		outDir  string
		lenient bool
	)
	flag.StringVar(&dir, "dir", "", "folder to scan recursively for .png files")
	flag.StringVar(&dpiText, "dpi", "", "target density in dots per inch")
	flag.StringVar(&suffix, "suffix", batch.DefaultSuffix, "suffix appended to the folder name to form the output folder")
	flag.StringVar(&outDir, "out", "", "output folder (overrides -suffix)")
	flag.BoolVar(&lenient, "lenient", false, "accept files whose first 8 bytes are not the PNG signature")
	flag.Parse()

	if dir == "" {
		fmt.Fprintln(os.Stderr, "Folder path is required")
		flag.Usage()
		os.Exit(2)
	}

	dpi, err := phys.ParseDPI(dpiText)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Invalid DPI value")
		os.Exit(2)
	}

	sum, err := batch.Run(batch.Config{
		Root:             dir,
		DPI:              dpi,
		Suffix:           suffix,
		OutDir:           outDir,
		LenientSignature: lenient,
	}, log.Default())
	if err == nil {
		err = sum.Err()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Processing complete: %d files written to %s\n", sum.Processed, sum.OutDir)
}
