package chunk

import "fmt"

// Chunk defines the chunk layout as specified by PNG datastream structure.
type Chunk struct {
	Length uint32    // A four-byte unsigned integer giving the number of bytes in the chunk's data field.
	Type   ChunkType // A sequence of four bytes defining the chunk type.
	Data   []byte    // The data bytes of the relevant chunk type; can be zero length.
	Crc    uint32    // A four-byte CRC (Cyclic Redundancy Code) calculated on the preceding bytes in the chunk.
	// Includes chunk type and data, but NOT length.
}

// IsCritical determines if a chunk is a Ancillary or Critical type.
func (c *Chunk) IsCritical() bool {
	return c.Type.IsCritical()
}

// ChunkType is the four byte tag of a chunk. Any tag read from a stream is
// representable, registered or not.
type ChunkType struct {
	slug string
}

func (c ChunkType) String() string {
	return c.slug
}

// Bytes returns the tag as written on the wire.
func (c ChunkType) Bytes() []byte {
	return []byte(c.slug)
}

// IsCritical reports whether the first letter of the tag is uppercase.
func (c ChunkType) IsCritical() bool {
	return len(c.slug) == 4 && c.slug[0] >= 'A' && c.slug[0] <= 'Z'
}

// Known reports whether the tag is one of the registered PNG chunk types.
func (c ChunkType) Known() bool {
	_, err := FromString(c.slug)
	return err == nil
}

// TypeOf wraps a raw 4 byte tag.
func TypeOf(b []byte) ChunkType {
	return ChunkType{string(b)}
}

// FromString looks a tag up in the registry of standard chunk types.
func FromString(s string) (ChunkType, error) {
	if t, ok := registry[s]; ok {
		return t, nil
	}
	return Unknown, fmt.Errorf("unknown chunk type %q", s)
}

var (
	Unknown = ChunkType{""}

	// NOTE: Critical chunks
	ChunkIHDR = ChunkType{"IHDR"}
	ChunkPLTE = ChunkType{"PLTE"}
	ChunkIDAT = ChunkType{"IDAT"}
	ChunkIEND = ChunkType{"IEND"}

	// NOTE:  Ancillary chunks
	ChunkcHRM = ChunkType{"cHRM"}
	ChunkgAMA = ChunkType{"gAMA"}
	ChunkiCCP = ChunkType{"iCCP"}
	ChunksBIT = ChunkType{"sBIT"}
	ChunksRGB = ChunkType{"sRGB"}
	ChunkbKGD = ChunkType{"bKGD"}
	ChunkhIST = ChunkType{"hIST"}
	ChunktRNS = ChunkType{"tRNS"}
	ChunkpHYs = ChunkType{"pHYs"}
	ChunksPLT = ChunkType{"sPLT"}
	ChunktIME = ChunkType{"tIME"}
	ChunkiTXt = ChunkType{"iTXt"}
	ChunktEXt = ChunkType{"tEXt"}
	ChunkzTXt = ChunkType{"zTXt"}
)

var registry = func() map[string]ChunkType {
	m := make(map[string]ChunkType)
	for _, t := range []ChunkType{
		ChunkIHDR, ChunkPLTE, ChunkIDAT, ChunkIEND,
		ChunkcHRM, ChunkgAMA, ChunkiCCP, ChunksBIT, ChunksRGB, ChunkbKGD, ChunkhIST,
		ChunktRNS, ChunkpHYs, ChunksPLT, ChunktIME, ChunkiTXt, ChunktEXt, ChunkzTXt,
	} {
		m[t.slug] = t
	}
	return m
}()
