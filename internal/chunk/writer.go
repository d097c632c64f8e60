package chunk

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Writer encodes chunks. The first write error is sticky: later calls are
// no-ops and Err reports it.
type Writer struct {
	w   io.Writer
	err error
	n   int64
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteSignature writes sig verbatim.
func (cw *Writer) WriteSignature(sig []byte) error {
	cw.write(sig)
	return cw.err
}

// WriteChunk writes length, type, data and a freshly computed CRC.
func (cw *Writer) WriteChunk(typ ChunkType, data []byte) error {
	if len(typ.slug) != 4 {
		if cw.err == nil {
			cw.err = fmt.Errorf("invalid chunk type %q", typ.slug)
		}
		return cw.err
	}
	if uint64(len(data)) > MaxLength {
		if cw.err == nil {
			cw.err = fmt.Errorf("%w: %d", ErrLengthOverflow, len(data))
		}
		return cw.err
	}

	var u32 [4]byte
	binary.BigEndian.PutUint32(u32[:], uint32(len(data)))
	cw.write(u32[:])
	cw.write(typ.Bytes())
	cw.write(data)
	binary.BigEndian.PutUint32(u32[:], Checksum(typ, data))
	cw.write(u32[:])
	return cw.err
}

// Err returns the first error encountered.
func (cw *Writer) Err() error {
	return cw.err
}

// Written returns the number of bytes written so far.
func (cw *Writer) Written() int64 {
	return cw.n
}

func (cw *Writer) write(p []byte) {
	if cw.err != nil {
		return
	}
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	if err == nil && n != len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		cw.err = fmt.Errorf("writing chunk stream: %w", err)
	}
}
