// Package phys models the physical pixel dimensions carried by a PNG pHYs
// chunk and converts between dots per inch and pixels per meter.
package phys

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	bst "github.com/mixcode/binarystruct"
)

// InchesPerMeter converts a per-inch density to a per-meter one.
const InchesPerMeter = 39.3701

// Unit specifiers of the pHYs payload.
const (
	UnitUnknown uint8 = 0
	UnitMeter   uint8 = 1
)

// PayloadSize is the length of a pHYs data field.
const PayloadSize = 9

var (
	ErrInvalidDPI    = errors.New("invalid DPI value")
	ErrPayloadLength = errors.New("pHYs payload must be 9 bytes")
)

// Density is the pHYs payload: pixels per unit on each axis and the unit.
// The layout is big-endian X, Y, unit.
type Density struct {
	X    uint32 `binary:"uint32"`
	Y    uint32 `binary:"uint32"`
	Unit uint8  `binary:"uint8"`
}

// PPM converts dpi to pixels per meter, rounding to the nearest integer.
func PPM(dpi uint32) (uint32, error) {
	if dpi == 0 {
		return 0, fmt.Errorf("%w: must be positive", ErrInvalidDPI)
	}
	ppm := math.Round(float64(dpi) * InchesPerMeter)
	if ppm > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d dpi overflows pixels per meter", ErrInvalidDPI, dpi)
	}
	return uint32(ppm), nil
}

// FromDPI builds an isotropic density in meters for dpi.
func FromDPI(dpi uint32) (Density, error) {
	ppm, err := PPM(dpi)
	if err != nil {
		return Density{}, err
	}
	return Density{X: ppm, Y: ppm, Unit: UnitMeter}, nil
}

// ParseDPI reads a DPI value typed by a user.
func ParseDPI(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidDPI)
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDPI, s)
	}
	dpi := uint32(v)
	if _, err := PPM(dpi); err != nil {
		return 0, err
	}
	return dpi, nil
}

// Parse decodes a pHYs data field.
func Parse(data []byte) (Density, error) {
	if len(data) != PayloadSize {
		return Density{}, fmt.Errorf("%w: got %d", ErrPayloadLength, len(data))
	}
	var d Density
	if _, err := bst.Unmarshal(data, bst.BigEndian, &d); err != nil {
		return Density{}, fmt.Errorf("decoding pHYs: %w", err)
	}
	return d, nil
}

// Bytes encodes d as a pHYs data field.
func (d Density) Bytes() []byte {
	b, err := bst.Marshal(&d, bst.BigEndian)
	if err != nil {
		// Density has fixed-size fields only.
		panic(err)
	}
	return b
}

// DPI converts the stored values back to dots per inch. Only meaningful
// when Unit is UnitMeter; the result is for display and does not round trip.
func (d Density) DPI() (x, y float64) {
	return float64(d.X) / InchesPerMeter, float64(d.Y) / InchesPerMeter
}

func (d Density) String() string {
	if d.Unit != UnitMeter {
		return fmt.Sprintf("aspect %d:%d (unit %d)", d.X, d.Y, d.Unit)
	}
	x, y := d.DPI()
	return fmt.Sprintf("x = %.2f, y = %.2f dpi", x, y)
}
