package chunk

import (
	"hash/crc32"
	"testing"
)

func TestChecksumIEND(t *testing.T) {
	// Every PNG ends with 00 00 00 00 49 45 4E 44 AE 42 60 82.
	if got := Checksum(ChunkIEND, nil); got != 0xAE426082 {
		t.Fatalf("Checksum(IEND)=%08x want ae426082", got)
	}
}

func TestChecksumMatchesIEEE(t *testing.T) {
	cases := []struct {
		typ  ChunkType
		data []byte
	}{
		{ChunkpHYs, []byte{0, 0, 0x2e, 0x23, 0, 0, 0x2e, 0x23, 1}},
		{ChunktEXt, []byte("Comment\x00hello")},
		{ChunkIDAT, make([]byte, 4096)},
		{TypeOf([]byte("abCd")), []byte{0xff}},
	}
	for _, tc := range cases {
		want := crc32.ChecksumIEEE(append([]byte(tc.typ.String()), tc.data...))
		if got := Checksum(tc.typ, tc.data); got != want {
			t.Fatalf("Checksum(%s)=%08x want %08x", tc.typ, got, want)
		}
	}
}

func TestChunkValid(t *testing.T) {
	c := &Chunk{Type: ChunkpHYs, Data: []byte{0, 0, 0x2e, 0x23, 0, 0, 0x2e, 0x23, 1}, Crc: 0x78a53f76}
	if !c.Valid() {
		t.Fatalf("expected valid CRC")
	}
	c.Crc++
	if c.Valid() {
		t.Fatalf("expected invalid CRC")
	}
}
