package chunk

import (
	"encoding/binary"
	"fmt"
)

type IHDR struct {
	Width             uint32
	Height            uint32
	BitDepth          uint8
	ColorType         uint8
	CompressionMethod uint8
	FilterMethod      uint8
	InterlaceMethod   uint8
}

// HandleIHDR decodes the 13 byte image header payload.
func HandleIHDR(c *Chunk) (IHDR, error) {
	if c.Type != ChunkIHDR {
		return IHDR{}, fmt.Errorf("expected IHDR, got %s", c.Type)
	}
	if len(c.Data) != 13 {
		return IHDR{}, fmt.Errorf("invalid length for IHDR: %d", len(c.Data))
	}
	return IHDR{
		Width:             binary.BigEndian.Uint32(c.Data[0:4]),
		Height:            binary.BigEndian.Uint32(c.Data[4:8]),
		BitDepth:          c.Data[8],
		ColorType:         c.Data[9],
		CompressionMethod: c.Data[10],
		FilterMethod:      c.Data[11],
		InterlaceMethod:   c.Data[12],
	}, nil
}

// ColorTypeName names the five color types of the PNG specification.
func (h IHDR) ColorTypeName() string {
	switch h.ColorType {
	case 0:
		return "Greyscale"
	case 2:
		return "Truecolor"
	case 3:
		return "Indexed-color"
	case 4:
		return "Greyscale with alpha"
	case 6:
		return "Truecolor with alpha"
	}
	return fmt.Sprintf("invalid (%d)", h.ColorType)
}
