//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"puddle/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

var (
	panelBG      = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	titleColor   = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	headingColor = color.RGBA{R: 120, G: 170, B: 210, A: 255}
	labelColor   = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	mutedColor   = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	statsColor   = color.RGBA{R: 150, G: 200, B: 235, A: 255}
)

// HUD renders the tunables panel to the right of the simulation view. Controls
// are listed under their group headings, with the sim's status lines below.
type HUD struct {
	sim   core.Sim
	title string
	width int

	panel      *ebiten.Image
	pixel      *ebiten.Image
	lastHeight int

	controls    []hudControlState
	layout      panelLayout
	intSetter   core.IntParameterSetter
	floatSetter core.FloatParameterSetter
	stats       []string

	panelOffsetX int
}

type hudControlState struct {
	control  core.ParameterControl
	value    float64
	hasValue bool
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	h := &HUD{sim: sim, width: max(width, 0), title: buildTitle(sim)}
	if h.width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		controls := provider.ParameterControls()
		h.controls = make([]hudControlState, len(controls))
		for i, ctrl := range controls {
			h.controls[i] = hudControlState{control: ctrl}
		}
		h.layout = layoutPanel(controls, h.width)
	}
	h.intSetter, _ = sim.(core.IntParameterSetter)
	h.floatSetter, _ = sim.(core.FloatParameterSetter)
	return h
}

// Update re-reads parameter values and status lines and handles clicks on
// the -/+ buttons.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	if provider, ok := h.sim.(parameterProvider); ok {
		h.refreshValues(provider.Parameters().Index())
	} else {
		h.refreshValues(nil)
	}
	if sp, ok := h.sim.(core.StatsProvider); ok {
		h.stats = sp.StatsLines()
	}
	h.handleClick()
}

// Draw paints the HUD panel at offsetX, as tall as the scaled grid.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	height := h.sim.Size().H * max(scale, 1)
	if height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(panelBG)

	face := basicfont.Face7x13
	text.Draw(h.panel, h.title, face, panelPadding, panelPadding+headerBaseline, titleColor)
	if len(h.controls) == 0 {
		text.Draw(h.panel, "No adjustable parameters", face, panelPadding, panelPadding+headerBaseline+infoSpacing, mutedColor)
	}
	for _, heading := range h.layout.headings {
		text.Draw(h.panel, heading.title, face, panelPadding, heading.baseline, headingColor)
	}
	for i := range h.controls {
		h.drawControl(&h.controls[i], h.layout.rows[i])
	}
	y := h.layout.bottom + statsGap
	for _, line := range h.stats {
		text.Draw(h.panel, line, face, panelPadding, y, statsColor)
		y += statsLineHeight
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func buildTitle(sim core.Sim) string {
	if sim == nil || sim.Name() == "" {
		return "Controls"
	}
	name := sim.Name()
	return fmt.Sprintf("%s%s controls", strings.ToUpper(name[:1]), name[1:])
}

func (h *HUD) refreshValues(params map[string]core.Parameter) {
	for i := range h.controls {
		state := &h.controls[i]
		state.hasValue = false
		param, ok := params[state.control.Key]
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(param.Value, 64)
		if err != nil {
			continue
		}
		state.value = v
		state.hasValue = true
	}
}

func (h *HUD) handleClick() {
	if len(h.controls) == 0 || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	px := mx - h.panelOffsetX
	if px < 0 {
		return
	}
	for i := range h.controls {
		row := h.layout.rows[i]
		switch {
		case pointInRect(px, my, row.minus):
			h.adjust(&h.controls[i], -1)
			return
		case pointInRect(px, my, row.plus):
			h.adjust(&h.controls[i], 1)
			return
		}
	}
}

func (h *HUD) adjust(state *hudControlState, direction int) {
	if !h.canAdjust(state, direction) {
		return
	}
	target, _ := stepTarget(state.control, state.value, direction)
	applied := false
	switch state.control.Type {
	case core.ParamTypeInt:
		applied = h.intSetter.SetIntParameter(state.control.Key, int(target))
	case core.ParamTypeFloat:
		applied = h.floatSetter.SetFloatParameter(state.control.Key, target)
	}
	if applied {
		state.value = target
	}
}

func (h *HUD) canAdjust(state *hudControlState, direction int) bool {
	if !state.hasValue {
		return false
	}
	switch state.control.Type {
	case core.ParamTypeInt:
		if h.intSetter == nil {
			return false
		}
	case core.ParamTypeFloat:
		if h.floatSetter == nil {
			return false
		}
	default:
		return false
	}
	_, ok := stepTarget(state.control, state.value, direction)
	return ok
}

func (h *HUD) drawControl(state *hudControlState, row controlRow) {
	face := basicfont.Face7x13
	baseline := row.top + labelBaseline
	text.Draw(h.panel, state.control.Label, face, panelPadding, baseline, labelColor)

	value, valueColor := "--", mutedColor
	if state.hasValue {
		value, valueColor = formatValue(state.control, state.value), labelColor
	}
	valueX := row.minus.Min.X - buttonGap - text.BoundString(face, value).Dx()
	text.Draw(h.panel, value, face, valueX, baseline, valueColor)

	h.drawButton(row.minus, "-", h.canAdjust(state, -1))
	h.drawButton(row.plus, "+", h.canAdjust(state, 1))
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	if h.pixel == nil {
		return
	}
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}
