// Package inspect walks a PNG datastream without modifying it and reports
// its chunks, header and pixel density.
package inspect

import (
	"fmt"
	"io"

	"dpi.adpollak.net/internal/chunk"
	"dpi.adpollak.net/internal/phys"
)

// Entry is one chunk as seen in the stream.
type Entry struct {
	Type   chunk.ChunkType
	Length uint32
	Crc    uint32
}

// Report is what Inspect found.
type Report struct {
	Chunks []Entry
	IHDR   *chunk.IHDR

	// Density is the first well formed pHYs chunk, nil if there is none.
	Density   *phys.Density
	PhysCount int

	// PhysBeforeIDAT reports whether every pHYs chunk precedes the first IDAT.
	PhysBeforeIDAT bool

	// Trailing counts stray bytes after the last chunk.
	Trailing int
}

// Index returns the position of the first chunk of type typ, or -1.
func (r *Report) Index(typ chunk.ChunkType) int {
	for i, e := range r.Chunks {
		if e.Type == typ {
			return i
		}
	}
	return -1
}

// Inspect validates the signature and the CRC of every chunk in r.
func Inspect(r io.Reader) (Report, error) {
	rep := Report{PhysBeforeIDAT: true}

	if _, err := chunk.ReadSignature(r, true); err != nil {
		return rep, err
	}

	cr := chunk.NewReader(r)
	cr.VerifyCRC = true
	seenIDAT := false
	for {
		c, err := cr.Next()
		if err == io.EOF {
			rep.Trailing = cr.Trailing
			break
		}
		if err != nil {
			return rep, fmt.Errorf("chunk %d: %w", len(rep.Chunks), err)
		}
		rep.Chunks = append(rep.Chunks, Entry{Type: c.Type, Length: c.Length, Crc: c.Crc})

		switch c.Type {
		case chunk.ChunkIHDR:
			ihdr, err := chunk.HandleIHDR(c)
			if err != nil {
				return rep, err
			}
			rep.IHDR = &ihdr
		case chunk.ChunkIDAT:
			seenIDAT = true
		case chunk.ChunkpHYs:
			rep.PhysCount++
			if seenIDAT {
				rep.PhysBeforeIDAT = false
			}
			if rep.Density == nil {
				if d, err := phys.Parse(c.Data); err == nil {
					rep.Density = &d
				}
			}
		}
	}
	return rep, nil
}
