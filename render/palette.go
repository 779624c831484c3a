package render

import "image/color"

// Palette maps surface attribute ids to colors. Ids wrap at 256.
type Palette [256]color.RGBA

var baseColors = [...]color.RGBA{
	{0x88, 0x88, 0x88, 0xff}, // wall
	{0x44, 0x44, 0x44, 0xff}, // ceiling
	{0x00, 0x00, 0xff, 0xff}, // floor
	{0xaa, 0x00, 0xaa, 0xff}, // portal frame
	{0xb0, 0x6a, 0x3c, 0xff},
	{0x3c, 0x8a, 0x4c, 0xff},
	{0x5a, 0x6e, 0xa8, 0xff},
	{0xc8, 0xb0, 0x50, 0xff},
	{0x8c, 0x3a, 0x3a, 0xff},
	{0x3a, 0x8c, 0x8c, 0xff},
	{0x70, 0x50, 0x90, 0xff},
	{0xa0, 0xa0, 0x60, 0xff},
	{0x60, 0x60, 0x60, 0xff},
	{0xd0, 0xd0, 0xd0, 0xff},
	{0x30, 0x50, 0x30, 0xff},
	{0x50, 0x30, 0x20, 0xff},
}

// DefaultPalette cycles a fixed set of base colors, darkening each pass.
func DefaultPalette() *Palette {
	var p Palette
	for i := range p {
		c := baseColors[i%len(baseColors)]
		shade := 16 - i/len(baseColors) // 16 .. 1
		p[i] = color.RGBA{
			R: uint8(int(c.R) * shade / 16),
			G: uint8(int(c.G) * shade / 16),
			B: uint8(int(c.B) * shade / 16),
			A: 0xff,
		}
	}
	return &p
}

// Color returns the color of attribute id attr.
func (p *Palette) Color(attr int) color.RGBA {
	return p[attr&0xff]
}
