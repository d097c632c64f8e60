// Package rewrite rewrites the pHYs chunk of a PNG datastream while copying
// every other chunk through unchanged.
package rewrite

import (
	"io"
	"log"

	"dpi.adpollak.net/internal/chunk"
	"dpi.adpollak.net/internal/phys"
)

// Placement records where the density chunk ended up in the output.
type Placement int

const (
	// PlacementReplaced: an existing pHYs chunk was replaced in its slot.
	PlacementReplaced Placement = iota + 1
	// PlacementBeforeIDAT: a new pHYs chunk was inserted before the first IDAT.
	PlacementBeforeIDAT
	// PlacementAppended: the stream had neither pHYs nor IDAT, so the chunk
	// was appended after the last one.
	PlacementAppended
)

func (p Placement) String() string {
	switch p {
	case PlacementReplaced:
		return "replaced"
	case PlacementBeforeIDAT:
		return "inserted before IDAT"
	case PlacementAppended:
		return "appended"
	}
	return "none"
}

// Result describes a completed rewrite.
type Result struct {
	// Chunks is the number of chunks written, the density chunk included.
	Chunks    int
	Placement Placement

	// Original is the density found in the input, nil when the input had no
	// well formed pHYs chunk.
	Original *phys.Density

	// Dropped counts extra pHYs chunks removed from the input.
	Dropped int

	// Trailing is the number of stray bytes, too few for a length field,
	// that followed the last chunk and were not copied.
	Trailing int
}

// Rewriter sets the pixel density of PNG datastreams. The zero value checks
// the signature strictly and logs through log.Default. A Rewriter holds no
// per-stream state and may be shared between goroutines.
type Rewriter struct {
	// LenientSignature accepts any 8 leading bytes as the signature.
	LenientSignature bool
	Logger           *log.Logger
}

func (rw *Rewriter) logger() *log.Logger {
	if rw == nil || rw.Logger == nil {
		return log.Default()
	}
	return rw.Logger
}

// Rewrite copies the PNG datastream in src to dst with exactly one pHYs
// chunk declaring dpi on both axes. An existing pHYs chunk is replaced in
// place; otherwise one is inserted before the first IDAT chunk, or appended
// when there is no IDAT at all. Every other chunk keeps its length, type and
// data; all CRCs are recomputed and input CRCs are not verified.
//
// On error dst may hold a partial stream.
func (rw *Rewriter) Rewrite(dst io.Writer, src io.Reader, dpi uint32) (Result, error) {
	var res Result

	density, err := phys.FromDPI(dpi)
	if err != nil {
		return res, &Error{Kind: InvalidDensity, Op: "validate dpi", Err: err}
	}
	payload := density.Bytes()
	logger := rw.logger()

	strict := rw == nil || !rw.LenientSignature
	sig, err := chunk.ReadSignature(src, strict)
	if err != nil {
		return res, classify("read signature", err)
	}
	cw := chunk.NewWriter(dst)
	if err := cw.WriteSignature(sig); err != nil {
		return res, &Error{Kind: IoFailure, Op: "write signature", Err: err}
	}

	emit := func(typ chunk.ChunkType, data []byte) error {
		if err := cw.WriteChunk(typ, data); err != nil {
			return &Error{Kind: IoFailure, Op: "write " + typ.String(), Err: err}
		}
		res.Chunks++
		return nil
	}

	cr := chunk.NewReader(src)
	densityWritten := false
	for {
		c, err := cr.Next()
		if err == io.EOF {
			if cr.Trailing > 0 {
				logger.Printf("ignoring %d trailing bytes after the last chunk", cr.Trailing)
				res.Trailing = cr.Trailing
			}
			break
		}
		if err != nil {
			return res, classify("read chunk", err)
		}

		switch {
		case c.Type == chunk.ChunkpHYs && densityWritten:
			// Only one pHYs may be emitted; this one is either a duplicate or
			// follows an IDAT we already inserted a density before.
			logger.Printf("dropping extra pHYs chunk")
			res.Dropped++
		case c.Type == chunk.ChunkpHYs:
			if orig, err := phys.Parse(c.Data); err != nil {
				logger.Printf("original pHYs unreadable: %v", err)
			} else {
				logger.Printf("original DPI: %s", orig)
				res.Original = &orig
			}
			if err := emit(chunk.ChunkpHYs, payload); err != nil {
				return res, err
			}
			densityWritten = true
			res.Placement = PlacementReplaced
		case c.Type == chunk.ChunkIDAT && !densityWritten:
			if err := emit(chunk.ChunkpHYs, payload); err != nil {
				return res, err
			}
			densityWritten = true
			res.Placement = PlacementBeforeIDAT
			if err := emit(c.Type, c.Data); err != nil {
				return res, err
			}
		default:
			if err := emit(c.Type, c.Data); err != nil {
				return res, err
			}
		}
	}

	if !densityWritten {
		if err := emit(chunk.ChunkpHYs, payload); err != nil {
			return res, err
		}
		res.Placement = PlacementAppended
	}
	return res, nil
}
