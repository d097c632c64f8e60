package chunk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Signature is the 8 byte PNG file signature: 137 80 78 71 13 10 26 10.
var Signature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// MaxLength is the largest data length a PNG four-byte unsigned integer may hold.
const MaxLength = 1<<31 - 1

var (
	ErrShortSignature = errors.New("png signature: fewer than 8 bytes")
	ErrBadSignature   = errors.New("png signature mismatch")
	ErrTruncated      = errors.New("chunk truncated")
	ErrLengthOverflow = errors.New("chunk length exceeds 2^31-1")
	ErrChecksum       = errors.New("chunk checksum mismatch")
)

// ReadSignature reads the first 8 bytes of a datastream. With strict set the
// bytes must equal Signature; otherwise only their presence is checked.
// The bytes read are returned in either case.
func ReadSignature(r io.Reader, strict bool) ([]byte, error) {
	sig := make([]byte, len(Signature))
	if _, err := io.ReadFull(r, sig); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrShortSignature
		}
		return nil, fmt.Errorf("reading signature: %w", err)
	}
	if strict && !bytes.Equal(sig, Signature) {
		return sig, fmt.Errorf("%w: got %x, expected %x", ErrBadSignature, sig, Signature)
	}
	return sig, nil
}

// Reader decodes chunks one at a time from a datastream positioned just
// after the signature.
//
//	+------------+ +------------+ +------------+ +-------+
//	|   LENGTH   | | CHUNK TYPE | | CHUNK DATA | |  CRC  |
//	+------------+ +------------+ +------------+ +-------+
type Reader struct {
	r io.Reader

	// Trailing is the number of stray bytes, fewer than a length field,
	// found after the last chunk. They are dropped.
	Trailing int

	// VerifyCRC makes Next fail with ErrChecksum when the stored CRC does
	// not match type and data.
	VerifyCRC bool
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next returns the next chunk. It returns io.EOF when the stream ends where
// a length field should start, including when fewer than 4 bytes remain
// there; those are counted in Trailing. The returned Data is owned by the
// caller.
func (cr *Reader) Next() (*Chunk, error) {
	var hdr [8]byte

	// Step 1: the length. A short read here is the end of the stream.
	if n, err := io.ReadFull(cr.r, hdr[0:4]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			cr.Trailing = n
			return nil, io.EOF
		}
		return nil, cr.fail("length", err)
	}
	length := binary.BigEndian.Uint32(hdr[0:4])
	if length > MaxLength {
		return nil, fmt.Errorf("%w: %d", ErrLengthOverflow, length)
	}

	// Step 2: the type tag.
	if _, err := io.ReadFull(cr.r, hdr[4:8]); err != nil {
		return nil, cr.fail("type", err)
	}
	typ := TypeOf(hdr[4:8])

	// Step 3: the data. The buffer grows with what actually arrives, so a
	// bogus length on a short stream does not allocate the declared size.
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, cr.r, int64(length)); err != nil {
		return nil, cr.fail(fmt.Sprintf("%s data", typ), err)
	}
	data := buf.Bytes()

	// Step 4: the stored CRC.
	var crcBuf [4]byte
	if _, err := io.ReadFull(cr.r, crcBuf[:]); err != nil {
		return nil, cr.fail(fmt.Sprintf("%s crc", typ), err)
	}

	c := &Chunk{
		Length: length,
		Type:   typ,
		Data:   data,
		Crc:    binary.BigEndian.Uint32(crcBuf[:]),
	}
	if cr.VerifyCRC && !c.Valid() {
		return c, fmt.Errorf("%w: %s stored %08x, calculated %08x", ErrChecksum, typ, c.Crc, Checksum(typ, data))
	}
	return c, nil
}

// fail maps a short read inside a chunk to ErrTruncated and wraps anything
// else as a read failure.
func (cr *Reader) fail(field string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: reading %s", ErrTruncated, field)
	}
	return fmt.Errorf("reading %s: %w", field, err)
}
