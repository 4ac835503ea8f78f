package render

import (
	"fmt"
	"image/color"
)

const (
	RED_OFFSET   uint8 = 0x10
	GREEN_OFFSET uint8 = 0x08
	BLUE_OFFSET  uint8 = 0x0
)

// MaxColor is the largest packed 24-bit value.
const MaxColor uint32 = 0xFFFFFF

// Color is a packed 0xRRGGBB value.
type Color uint32

const (
	Black     Color = 0x000000
	White     Color = 0xFFFFFF
	Cyan      Color = 0x00FFFF
	LightGray Color = 0xAAAAAA
	DarkGray  Color = 0x555555
)

// FromHex validates a raw 24-bit value coming from outside the process.
func FromHex(v int64) (Color, error) {
	if v < 0 || v > int64(MaxColor) {
		return 0, fmt.Errorf("render: color 0x%X outside 24-bit range", v)
	}
	return Color(v), nil
}

func setcolor(c uint32, n uint8, off uint8) uint32 {
	var val uint32 = uint32(n) << off
	var mask uint32 = 0xFF << off
	return (c & (^mask)) | val
}

func getcolor(c uint32, off uint8) uint8 {
	var mask uint32 = 0xFF << off
	return uint8((c & mask) >> off)
}

func (c Color) R() uint8 { return getcolor(uint32(c), RED_OFFSET) }
func (c Color) G() uint8 { return getcolor(uint32(c), GREEN_OFFSET) }
func (c Color) B() uint8 { return getcolor(uint32(c), BLUE_OFFSET) }

func (c Color) WithR(r uint8) Color { return Color(setcolor(uint32(c), r, RED_OFFSET)) }
func (c Color) WithG(g uint8) Color { return Color(setcolor(uint32(c), g, GREEN_OFFSET)) }
func (c Color) WithB(b uint8) Color { return Color(setcolor(uint32(c), b, BLUE_OFFSET)) }

// RGBA converts to an opaque image/color value.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R(), G: c.G(), B: c.B(), A: 0xFF}
}

// Quantize snaps c to the 64-colour display palette (two bits per channel).
func (c Color) Quantize() Color {
	q := func(v uint8) uint8 { return (v >> 6) * 0x55 }
	return Color(0).WithR(q(c.R())).WithG(q(c.G())).WithB(q(c.B()))
}

// Equal compares colours the way the display sees them.
func (c Color) Equal(o Color) bool { return c.Quantize() == o.Quantize() }

// Contrast is the outline colour that stays visible on top of c: black on a
// white background, white on anything else.
func (c Color) Contrast() Color {
	if c.Equal(White) {
		return Black
	}
	return White
}

func (c Color) String() string { return fmt.Sprintf("#%06X", uint32(c)) }
