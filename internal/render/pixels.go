package render

import "image/color"

// fillMaskRGBA tints buf by a 0..255 intensity per cell. Zero cells are
// transparent; alpha scales with intensity up to tint.A.
func fillMaskRGBA(buf []byte, mask []uint8, tint color.RGBA) {
	for i, m := range mask {
		base := i * 4
		if m == 0 {
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
			continue
		}
		a := uint16(tint.A) * uint16(m) / 255
		// Premultiplied, as ebiten expects.
		buf[base+0] = uint8(uint16(tint.R) * a / 255)
		buf[base+1] = uint8(uint16(tint.G) * a / 255)
		buf[base+2] = uint8(uint16(tint.B) * a / 255)
		buf[base+3] = uint8(a)
	}
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:len(cells)*4])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
