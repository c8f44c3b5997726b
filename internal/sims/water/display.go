package water

import (
	"image/color"

	"github.com/crazy3lf/colorconv"

	"puddle/internal/flow"
	"puddle/internal/world"
)

// Display codes returned by Cells pack the volume with the stable and terrain
// bits; Palette is indexed by them.
const (
	DisplayVolumeMask  = 0x07
	DisplayStableBit   = 0x08
	DisplayRockBit     = 0x10
	DisplayBuildingBit = 0x20
	DisplayClutterBit  = 0x40
	DisplayPaletteSize = 0x80
)

var waterPalette = buildWaterPalette()

// Palette exposes the color palette used for rendering the water world.
func (w *World) Palette() []color.RGBA {
	return waterPalette
}

// Cells exposes the display buffer, rebuilt when the world changed.
func (w *World) Cells() []uint8 {
	if w.dirty {
		w.refreshDisplay()
	}
	return w.display
}

func (w *World) refreshDisplay() {
	vols := w.cells.Volumes()
	for i := range w.display {
		p := flow.Pos{X: i % w.w, Z: i / w.w}
		v := vols[i] & DisplayVolumeMask
		if v > 0 && w.engine.Stable(p) {
			v |= DisplayStableBit
		}
		f := w.terrain.Feature(p)
		if f&world.FeatureRock != 0 {
			v |= DisplayRockBit
		}
		if f&world.FeatureBuilding != 0 {
			v |= DisplayBuildingBit
		}
		if f&world.FeatureClutter != 0 {
			v |= DisplayClutterBit
		}
		w.display[i] = v
	}
	w.dirty = false
}

func buildWaterPalette() []color.RGBA {
	palette := make([]color.RGBA, DisplayPaletteSize)
	for i := range palette {
		palette[i] = paletteColorFor(uint8(i))
	}
	return palette
}

func paletteColorFor(code uint8) color.RGBA {
	switch {
	case code&DisplayRockBit != 0:
		return color.RGBA{R: 96, G: 92, B: 88, A: 255}
	case code&DisplayBuildingBit != 0:
		return color.RGBA{R: 150, G: 110, B: 60, A: 255}
	}

	vol := int(code & DisplayVolumeMask)
	var base color.RGBA
	if vol == 0 {
		base = color.RGBA{R: 58, G: 48, B: 34, A: 255}
	} else {
		base = volumeColor(vol, code&DisplayStableBit != 0)
	}
	if code&DisplayClutterBit != 0 {
		return blend(base, color.RGBA{R: 70, G: 150, B: 70, A: 255}, 0.35)
	}
	return base
}

// volumeColor walks a blue ramp: deeper water is darker and more saturated.
// Stable water is shifted towards teal.
func volumeColor(vol int, stable bool) color.RGBA {
	t := float64(vol) / flow.MaxVolume
	hue := 205.0
	if stable {
		hue = 180
	}
	r, g, b, err := colorconv.HSVToRGB(hue, 0.35+0.6*t, 1-0.55*t)
	if err != nil {
		return color.RGBA{B: 255, A: 255}
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func blend(base, overlay color.RGBA, weight float64) color.RGBA {
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-weight) + float64(b)*weight)
	}
	return color.RGBA{R: mix(base.R, overlay.R), G: mix(base.G, overlay.G), B: mix(base.B, overlay.B), A: 255}
}
