package chunk

import "github.com/snksoft/crc"

// crcTable is shared by every checksum; crc.Table is read-only after construction.
var crcTable = crc.NewTable(crc.CRC32)

// Checksum computes the CRC stored after a chunk: CRC-32 over the chunk type
// followed by the chunk data. The length field is not included.
func Checksum(typ ChunkType, data []byte) uint32 {
	c := crcTable.InitCrc()
	c = crcTable.UpdateCrc(c, typ.Bytes())
	c = crcTable.UpdateCrc(c, data)
	return crcTable.CRC32(c)
}

// Valid reports whether the stored CRC matches type and data.
func (c *Chunk) Valid() bool {
	return c.Crc == Checksum(c.Type, c.Data)
}
