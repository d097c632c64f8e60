// Package batch applies the density rewrite to every PNG under a folder,
// mirroring the tree into a sibling output folder.
package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"dpi.adpollak.net/internal/phys"
	"dpi.adpollak.net/internal/rewrite"
)

// DefaultSuffix is appended to the source folder name to form the output folder.
const DefaultSuffix = "_modified"

// Ext is the file extension selected for rewriting. The match is case-sensitive.
const Ext = ".png"

// Config describes one batch run.
type Config struct {
	Root   string
	DPI    uint32
	Suffix string // defaults to DefaultSuffix
	OutDir string // overrides OutputDir(Root, Suffix) when set

	LenientSignature bool
}

// Failure is one file that could not be rewritten.
type Failure struct {
	Path string
	Err  error
}

// Summary counts what a run did.
type Summary struct {
	OutDir    string
	Processed int
	Failed    int
	Failures  []Failure
}

// Err folds the per-file failures into a single error, nil when every file
// was rewritten.
func (s Summary) Err() error {
	if len(s.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(s.Failures))
	for _, f := range s.Failures {
		errs = append(errs, fmt.Errorf("%s: %w", f.Path, f.Err))
	}
	return fmt.Errorf("%d of %d files failed: %w", s.Failed, s.Processed+s.Failed, errors.Join(errs...))
}

// OutputDir is the sibling of root named after it with suffix appended.
func OutputDir(root, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	clean := filepath.Clean(root)
	return filepath.Join(filepath.Dir(clean), filepath.Base(clean)+suffix)
}

// Run rewrites every *.png below cfg.Root. Problems with individual files are
// logged and recorded in the Summary; they never stop the walk. The returned
// error is reserved for problems with the run itself: an invalid DPI, a
// missing root, or an output folder that cannot be created.
func Run(cfg Config, logger *log.Logger) (Summary, error) {
	if logger == nil {
		logger = log.Default()
	}
	var sum Summary

	if _, err := phys.FromDPI(cfg.DPI); err != nil {
		return sum, &rewrite.Error{Kind: rewrite.InvalidDensity, Op: "validate dpi", Err: err}
	}

	info, err := os.Stat(cfg.Root)
	if err != nil {
		return sum, fmt.Errorf("source folder: %w", err)
	}
	if !info.IsDir() {
		return sum, fmt.Errorf("source folder: %s is not a directory", cfg.Root)
	}

	// Root and output folder are compared as absolute paths during the walk.
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return sum, fmt.Errorf("source folder: %w", err)
	}
	outDir := cfg.OutDir
	if outDir == "" {
		outDir = OutputDir(root, cfg.Suffix)
	}
	if outDir, err = filepath.Abs(outDir); err != nil {
		return sum, fmt.Errorf("output folder: %w", err)
	}
	sum.OutDir = outDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return sum, fmt.Errorf("output folder: %w", err)
	}
	outInfo, err := os.Stat(outDir)
	if err != nil {
		return sum, fmt.Errorf("output folder: %w", err)
	}

	rw := &rewrite.Rewriter{LenientSignature: cfg.LenientSignature, Logger: logger}

	fail := func(path string, err error) {
		logger.Printf("Error processing %s: %v", path, err)
		sum.Failed++
		sum.Failures = append(sum.Failures, Failure{Path: path, Err: err})
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			fail(path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && isOutput(path, d, outDir, outInfo) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || filepath.Ext(path) != Ext {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			fail(path, err)
			return nil
		}
		dst := filepath.Join(outDir, rel)
		logger.Printf("Processing file: %s", path)
		if err := processFile(rw, dst, path, cfg.DPI); err != nil {
			fail(path, err)
			return nil
		}
		sum.Processed++
		return nil
	})
	if walkErr != nil {
		return sum, fmt.Errorf("walking %s: %w", root, walkErr)
	}
	return sum, nil
}

// isOutput reports whether the directory at path is the output folder,
// either by name or, through symlinks and bind mounts, by identity.
func isOutput(path string, d fs.DirEntry, outDir string, outInfo fs.FileInfo) bool {
	if path == outDir {
		return true
	}
	info, err := d.Info()
	return err == nil && os.SameFile(info, outInfo)
}

func processFile(rw *rewrite.Rewriter, dst, src string, dpi uint32) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return &rewrite.Error{Kind: rewrite.IoFailure, Op: "create output folder", Err: err}
	}
	res, err := rw.RewriteFile(dst, src, dpi)
	if err != nil {
		// The partial output is not a valid PNG.
		if rmErr := os.Remove(dst); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			rw.Logger.Printf("removing partial output %s: %v", dst, rmErr)
		}
		return err
	}
	rw.Logger.Printf("%s: pHYs %s, %d chunks written", dst, res.Placement, res.Chunks)
	return nil
}
