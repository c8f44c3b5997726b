//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter uploads cell buffers into a grid-sized image and draws it
// scaled onto the screen.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewGridPainter allocates a painter for a w×h grid.
func NewGridPainter(w, h int) *GridPainter {
	return &GridPainter{
		w:   w,
		h:   h,
		img: ebiten.NewImage(w, h),
		buf: make([]byte, 4*w*h),
	}
}

// BlitPalette draws cells through palette.
func (p *GridPainter) BlitPalette(screen *ebiten.Image, cells []uint8, palette []color.RGBA, scale int) {
	if len(cells) != p.w*p.h {
		return
	}
	fillPaletteRGBA(p.buf, cells, palette)
	p.draw(screen, scale)
}

// BlitMask draws mask tinted on top of whatever is already on screen.
func (p *GridPainter) BlitMask(screen *ebiten.Image, mask []uint8, tint color.RGBA, scale int) {
	if len(mask) != p.w*p.h {
		return
	}
	fillMaskRGBA(p.buf, mask, tint)
	p.draw(screen, scale)
}

func (p *GridPainter) draw(screen *ebiten.Image, scale int) {
	if scale <= 0 {
		scale = 1
	}
	p.img.WritePixels(p.buf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(p.img, op)
}
