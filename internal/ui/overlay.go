//go:build ebiten

package ui

import (
	"image/color"

	"puddle/internal/core"
	"puddle/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type stabilityProvider interface {
	StabilityField() []uint8
}

type activeProvider interface {
	ActiveMask() []uint8
}

// Overlay draws optional debugging visuals on top of the base simulation:
// key 1 toggles the stability counters, key 2 the active set.
type Overlay struct {
	sim        core.Sim
	scale      int
	showStable bool
	showActive bool

	painter *render.GridPainter
	mask    []uint8
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	size := sim.Size()
	return &Overlay{
		sim:     sim,
		scale:   scale,
		painter: render.NewGridPainter(size.W, size.H),
	}
}

// Update allows the overlay to update internal state.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showStable = !o.showStable
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showActive = !o.showActive
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if o.showStable {
		if provider, ok := o.sim.(stabilityProvider); ok {
			o.painter.BlitMask(screen, provider.StabilityField(), color.RGBA{R: 255, G: 210, B: 60, A: 170}, o.scale)
		}
	}
	if o.showActive {
		if provider, ok := o.sim.(activeProvider); ok {
			o.drawActive(screen, provider.ActiveMask())
		}
	}
}

func (o *Overlay) drawActive(screen *ebiten.Image, active []uint8) {
	if cap(o.mask) < len(active) {
		o.mask = make([]uint8, len(active))
	}
	o.mask = o.mask[:len(active)]
	for i, a := range active {
		if a != 0 {
			o.mask[i] = 255
		} else {
			o.mask[i] = 0
		}
	}
	o.painter.BlitMask(screen, o.mask, color.RGBA{R: 230, G: 60, B: 90, A: 120}, o.scale)
}
