package chunk

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func encode(t *testing.T, chunks ...Chunk) []byte {
	t.Helper()
	var buf bytes.Buffer
	cw := NewWriter(&buf)
	for _, c := range chunks {
		if err := cw.WriteChunk(c.Type, c.Data); err != nil {
			t.Fatalf("WriteChunk: %v", err)
		}
	}
	return buf.Bytes()
}

func TestReadSignature(t *testing.T) {
	sig, err := ReadSignature(bytes.NewReader(append(Signature, 1, 2, 3)), true)
	if err != nil || !bytes.Equal(sig, Signature) {
		t.Fatalf("sig=%x err=%v", sig, err)
	}

	if _, err := ReadSignature(bytes.NewReader(Signature[:7]), true); !errors.Is(err, ErrShortSignature) {
		t.Fatalf("short: err=%v", err)
	}
	if _, err := ReadSignature(bytes.NewReader(nil), false); !errors.Is(err, ErrShortSignature) {
		t.Fatalf("empty: err=%v", err)
	}

	bogus := []byte("GIF89a..")
	if _, err := ReadSignature(bytes.NewReader(bogus), true); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("strict mismatch: err=%v", err)
	}
	sig, err = ReadSignature(bytes.NewReader(bogus), false)
	if err != nil || !bytes.Equal(sig, bogus) {
		t.Fatalf("lenient: sig=%q err=%v", sig, err)
	}
}

func TestReaderNext(t *testing.T) {
	stream := encode(t,
		Chunk{Type: ChunkIHDR, Data: make([]byte, 13)},
		Chunk{Type: TypeOf([]byte("prVt")), Data: []byte("private")},
		Chunk{Type: ChunkIEND},
	)

	cr := NewReader(bytes.NewReader(stream))
	cr.VerifyCRC = true
	var got []string
	for {
		c, err := cr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if int(c.Length) != len(c.Data) {
			t.Fatalf("%s: Length=%d len(Data)=%d", c.Type, c.Length, len(c.Data))
		}
		got = append(got, c.Type.String())
	}
	want := []string{"IHDR", "prVt", "IEND"}
	if len(got) != len(want) {
		t.Fatalf("types=%v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("types=%v want %v", got, want)
		}
	}
}

func TestReaderTruncated(t *testing.T) {
	stream := encode(t, Chunk{Type: ChunktEXt, Data: []byte("Title\x00x")})

	// Once the length field is complete, every cut inside the chunk is a
	// truncation.
	for cut := 4; cut < len(stream); cut++ {
		_, err := NewReader(bytes.NewReader(stream[:cut])).Next()
		if !errors.Is(err, ErrTruncated) {
			t.Fatalf("cut=%d err=%v want ErrTruncated", cut, err)
		}
	}
	if _, err := NewReader(bytes.NewReader(nil)).Next(); err != io.EOF {
		t.Fatalf("empty stream err=%v want io.EOF", err)
	}
}

func TestReaderShortLengthIsEndOfStream(t *testing.T) {
	stream := encode(t, Chunk{Type: ChunkIEND})

	for extra := 0; extra < 4; extra++ {
		b := append(append([]byte(nil), stream...), make([]byte, extra)...)
		cr := NewReader(bytes.NewReader(b))
		if c, err := cr.Next(); err != nil || c.Type != ChunkIEND {
			t.Fatalf("extra=%d: first chunk err=%v", extra, err)
		}
		if _, err := cr.Next(); err != io.EOF {
			t.Fatalf("extra=%d: err=%v want io.EOF", extra, err)
		}
		if cr.Trailing != extra {
			t.Fatalf("extra=%d: Trailing=%d", extra, cr.Trailing)
		}
	}
}

func TestReaderDeclaredLengthBeyondStream(t *testing.T) {
	stream := []byte{0x00, 0x10, 0x00, 0x00, 'I', 'D', 'A', 'T', 1, 2, 3}
	if _, err := NewReader(bytes.NewReader(stream)).Next(); !errors.Is(err, ErrTruncated) {
		t.Fatalf("err=%v want ErrTruncated", err)
	}
}

func TestReaderLengthOverflow(t *testing.T) {
	stream := []byte{0x80, 0x00, 0x00, 0x00, 'I', 'D', 'A', 'T'}
	if _, err := NewReader(bytes.NewReader(stream)).Next(); !errors.Is(err, ErrLengthOverflow) {
		t.Fatalf("err=%v want ErrLengthOverflow", err)
	}
}

func TestReaderVerifyCRC(t *testing.T) {
	stream := encode(t, Chunk{Type: ChunkgAMA, Data: []byte{0, 0, 0xb1, 0x8f}})
	stream[len(stream)-1] ^= 0xff

	if _, err := NewReader(bytes.NewReader(stream)).Next(); err != nil {
		t.Fatalf("unverified read failed: %v", err)
	}
	cr := NewReader(bytes.NewReader(stream))
	cr.VerifyCRC = true
	if _, err := cr.Next(); !errors.Is(err, ErrChecksum) {
		t.Fatalf("err=%v want ErrChecksum", err)
	}
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestReaderPropagatesSourceErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	_, err := NewReader(failingReader{boom}).Next()
	if !errors.Is(err, boom) || errors.Is(err, ErrTruncated) {
		t.Fatalf("err=%v", err)
	}
}

func TestReaderDataNotReused(t *testing.T) {
	stream := encode(t,
		Chunk{Type: ChunktEXt, Data: []byte("first")},
		Chunk{Type: ChunktEXt, Data: []byte("SECOND")},
	)
	cr := NewReader(bytes.NewReader(stream))
	a, err := cr.Next()
	if err != nil {
		t.Fatal(err)
	}
	b, err := cr.Next()
	if err != nil {
		t.Fatal(err)
	}
	if string(a.Data) != "first" || string(b.Data) != "SECOND" {
		t.Fatalf("data=%q,%q", a.Data, b.Data)
	}
	if len(a.Data) != int(a.Length) || len(b.Data) != int(b.Length) {
		t.Fatalf("lengths %d/%d %d/%d", len(a.Data), a.Length, len(b.Data), b.Length)
	}
}
