package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"

	"puddle/internal/core"
	"puddle/internal/flow"
	"puddle/internal/sims/water"
)

const statusLines = 4

type viewer struct {
	screen tcell.Screen
	world  *water.World
	clock  *core.FixedStep
	seed   int64

	paused   bool
	tickOnce bool
}

func (v *viewer) run() {
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !v.handleInput(ev) {
				return
			}
		case <-ticker.C:
			steps := v.clock.Steps(4)
			if v.paused {
				steps = 0
			}
			if v.tickOnce {
				steps, v.tickOnce = 1, false
			}
			for i := 0; i < steps; i++ {
				v.world.Step()
			}
			v.draw()
		}
	}
}

func (v *viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			v.paused = !v.paused
		case 'n':
			v.tickOnce = true
		case 'r':
			v.world.Reset(v.seed)
		case 's':
			v.seed = time.Now().UnixNano()
			v.world.Reset(v.seed)
		case 'c':
			v.world.ResetStability()
		case '+', '=':
			v.clock.SetTPS(v.clock.TPS() * 2)
		case '-':
			v.clock.SetTPS(max(v.clock.TPS()/2, 1))
		}
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			size := v.world.Size()
			if x < size.W && y < size.H {
				// Rock and crates refuse water; nothing to report.
				_ = v.world.AddWater(flow.Pos{X: x, Z: y}, v.world.PourVolume())
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *viewer) draw() {
	v.screen.Clear()
	size := v.world.Size()
	cells := v.world.Cells()
	palette := v.world.Palette()
	for z := 0; z < size.H; z++ {
		for x := 0; x < size.W; x++ {
			code := cells[z*size.W+x]
			v.screen.SetContent(x, z, glyphFor(code), nil, styleFor(palette, code))
		}
	}

	y := size.H
	plain := tcell.StyleDefault.Foreground(tcell.ColorSilver)
	for _, line := range v.world.StatsLines() {
		drawText(v.screen, 0, y, plain, line)
		y++
	}
	state := "running"
	if v.paused {
		state = "paused"
	}
	drawText(v.screen, 0, y, plain, fmt.Sprintf("%s  tps %d  [space] pause [n] step [r/s] reset [c] wake [+/-] speed [q] quit", state, v.clock.TPS()))
	v.screen.Show()
}

// glyphFor shows the volume digit on water and a block on obstacles.
func glyphFor(code uint8) rune {
	switch {
	case code&water.DisplayRockBit != 0:
		return '#'
	case code&water.DisplayBuildingBit != 0:
		return '+'
	}
	if vol := code & water.DisplayVolumeMask; vol > 0 {
		return rune('0' + vol)
	}
	if code&water.DisplayClutterBit != 0 {
		return '"'
	}
	return ' '
}

func styleFor(palette []color.RGBA, code uint8) tcell.Style {
	if int(code) >= len(palette) {
		return tcell.StyleDefault
	}
	c := palette[code]
	bg := tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	fg := tcell.ColorWhite
	if int(c.R)+int(c.G)+int(c.B) > 3*150 {
		fg = tcell.ColorBlack
	}
	return tcell.StyleDefault.Background(bg).Foreground(fg)
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
