package flow

import (
	"fmt"
	"sort"
)

type testThing struct {
	fill     float64
	building bool
}

func (t testThing) FillRatio() float64 { return t.fill }
func (t testThing) IsBuilding() bool    { return t.building }

type testGrid struct {
	w, h   int
	walls  map[Pos]bool
	things map[Pos][]Obstacle
}

func newTestGrid(w, h int) *testGrid {
	return &testGrid{w: w, h: h, walls: map[Pos]bool{}, things: map[Pos][]Obstacle{}}
}

func (g *testGrid) InBounds(p Pos) bool       { return p.X >= 0 && p.Z >= 0 && p.X < g.w && p.Z < g.h }
func (g *testGrid) Walkable(p Pos) bool       { return !g.walls[p] }
func (g *testGrid) ThingsAt(p Pos) []Obstacle { return g.things[p] }

type testCells struct {
	vols       map[Pos]int
	present    map[Pos]bool
	noDef      map[Pos]bool
	failCreate map[Pos]error
}

func newTestCells() *testCells {
	return &testCells{
		vols:       map[Pos]int{},
		present:    map[Pos]bool{},
		noDef:      map[Pos]bool{},
		failCreate: map[Pos]error{},
	}
}

func (c *testCells) put(p Pos, v int) {
	c.vols[p] = v
	c.present[p] = true
}

func (c *testCells) VolumeAt(p Pos) int { return c.vols[p] }

func (c *testCells) CreateAt(p Pos) error {
	if c.noDef[p] {
		return ErrNoWaterDef
	}
	if err := c.failCreate[p]; err != nil {
		return err
	}
	c.present[p] = true
	c.vols[p] = 0
	return nil
}

func (c *testCells) SetVolume(p Pos, v int) error {
	if v < 0 || v > MaxVolume {
		return fmt.Errorf("volume %d out of range", v)
	}
	if !c.present[p] {
		return fmt.Errorf("no water at (%d,%d)", p.X, p.Z)
	}
	if v == 0 {
		delete(c.vols, p)
		delete(c.present, p)
		return nil
	}
	c.vols[p] = v
	return nil
}

func (c *testCells) total() int {
	sum := 0
	for _, v := range c.vols {
		sum += v
	}
	return sum
}

type testActive struct {
	set   map[Pos]bool
	grid  *testGrid
	cells *testCells
}

func newTestActive(g *testGrid, c *testCells) *testActive {
	return &testActive{set: map[Pos]bool{}, grid: g, cells: c}
}

func (a *testActive) CandidatesForTick() []Pos {
	out := make([]Pos, 0, len(a.set))
	for p := range a.set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Z != out[j].Z {
			return out[i].Z < out[j].Z
		}
		return out[i].X < out[j].X
	})
	return out
}

func (a *testActive) Register(p Pos)   { a.set[p] = true }
func (a *testActive) Unregister(p Pos) { delete(a.set, p) }

func (a *testActive) ActivateNeighbors(p Pos) {
	for _, nb := range p.Neighbors() {
		if a.grid.InBounds(nb) && a.cells.VolumeAt(nb) > 0 {
			a.set[nb] = true
		}
	}
}

type seqPicker struct {
	picks []int
	calls int
}

func (s *seqPicker) IntN(n int) int {
	if len(s.picks) == 0 {
		return 0
	}
	i := s.picks[s.calls%len(s.picks)]
	s.calls++
	if i >= n {
		return n - 1
	}
	return i
}

type fixture struct {
	grid   *testGrid
	cells  *testCells
	active *testActive
	picker *seqPicker
	eng    *Engine
}

func newFixture(w, h int, s Settings) *fixture {
	g := newTestGrid(w, h)
	c := newTestCells()
	a := newTestActive(g, c)
	p := &seqPicker{}
	return &fixture{
		grid:   g,
		cells:  c,
		active: a,
		picker: p,
		eng:    New(Options{Grid: g, Cells: c, Active: a, Tunables: s, Picker: p}),
	}
}

// water places v units at (x, z) and registers the cell.
func (f *fixture) water(x, z, v int) Pos {
	p := Pos{X: x, Z: z}
	f.cells.put(p, v)
	f.active.Register(p)
	return p
}

func (f *fixture) wall(x, z int) {
	f.grid.walls[Pos{X: x, Z: z}] = true
}

func settingsWith(delta, limit int) Settings {
	s := DefaultSettings()
	s.MinVolumeDifference = delta
	s.StabilityCap = limit
	return s
}
