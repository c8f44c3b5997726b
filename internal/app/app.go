//go:build ebiten

package app

import (
	"time"

	"puddle/internal/core"
	"puddle/internal/flow"
	"puddle/internal/render"
	"puddle/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type pourer interface {
	AddWater(p flow.Pos, amount int) error
	PourVolume() int
}

type stabilityResetter interface {
	ResetStability()
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD

	scale    int
	hudWidth int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, cfg Config) *Game {
	size := sim.Size()
	scale := cfg.Scale
	if scale <= 0 {
		scale = 1
	}
	return &Game{
		sim:      sim,
		painter:  render.NewGridPainter(size.W, size.H),
		overlay:  ui.NewOverlay(sim, scale),
		hud:      ui.NewHUD(sim, cfg.HUDWidth),
		scale:    scale,
		hudWidth: max(cfg.HUDWidth, 0),
		seed:     cfg.Seed,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if r, ok := g.sim.(stabilityResetter); ok {
			r.ResetStability()
		}
	}
	g.handlePour()

	g.overlay.Update()
	g.hud.Update(g.sim.Size().W * g.scale)

	if !g.paused || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	return nil
}

// handlePour adds water under the cursor while the left button is held.
func (g *Game) handlePour() {
	p, ok := g.sim.(pourer)
	if !ok || !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	size := g.sim.Size()
	x, z := mx/g.scale, my/g.scale
	if mx < 0 || my < 0 || x >= size.W || z >= size.H {
		return
	}
	// Blocked cells are expected under a sweeping cursor.
	_ = p.AddWater(flow.Pos{X: x, Z: z}, p.PourVolume())
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	if pp, ok := g.sim.(core.PaletteProvider); ok {
		g.painter.BlitPalette(screen, g.sim.Cells(), pp.Palette(), g.scale)
	}
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.sim.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hudWidth, s.H * g.scale
}
