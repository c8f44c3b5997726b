// Package water runs the flow engine over a seeded terrain and exposes it as
// a core.Sim for the viewers and the headless runner.
package water

import (
	"errors"
	"fmt"
	"io"
	"log"

	"puddle/internal/core"
	"puddle/internal/flow"
	"puddle/internal/persistence/store"
	"puddle/internal/world"
)

// ErrBlocked is returned when water is poured onto a cell flow cannot enter.
var ErrBlocked = errors.New("water: cell is blocked")

// Stats summarizes the world after the last tick.
type Stats struct {
	Tick    int64
	Active  int
	Wet     int
	Volume  int
	Stable  int
	Last    flow.TickResult
	LastErr error
}

// World couples the terrain, the water layer and the active set with one
// flow engine.
type World struct {
	cfg Config

	w, h int

	terrain *world.Terrain
	cells   *world.WaterCells
	active  *world.ActiveSet
	engine  *flow.Engine

	rng    *core.RNG
	picker *core.RNG
	logger *log.Logger

	tick    int64
	last    flow.TickResult
	lastErr error

	display []uint8
	dirty   bool
}

// New returns a water world with the provided dimensions using defaults.
func New(w, h int) *World {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg, nil)
}

// NewWithConfig returns a world configured from cfg. A nil logger discards
// engine diagnostics.
func NewWithConfig(cfg Config, logger *log.Logger) *World {
	cfg = cfg.sanitized()
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	w := &World{
		cfg:     cfg,
		w:       cfg.Width,
		h:       cfg.Height,
		terrain: world.NewTerrain(cfg.Width, cfg.Height),
		cells:   world.NewWaterCells(cfg.Width, cfg.Height),
		rng:     core.NewRNG(cfg.Seed),
		picker:  core.NewRNG(cfg.Seed),
		logger:  logger,
		display: make([]uint8, cfg.Width*cfg.Height),
		dirty:   true,
	}
	w.active = world.NewActiveSet(w.terrain, w.cells)
	w.engine = flow.New(flow.Options{
		Grid:     w.terrain,
		Cells:    w.cells,
		Active:   w.active,
		Tunables: w,
		Picker:   w.picker,
		Logger:   logger,
	})
	return w
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "water" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.w, H: w.h} }

// Config returns the current configuration.
func (w *World) Config() Config { return w.cfg }

// FlowSettings feeds the live parameters to the engine each tick so HUD
// edits apply on the next tick.
func (w *World) FlowSettings() flow.Settings { return w.cfg.Params.FlowSettings() }

// Terrain exposes the static terrain.
func (w *World) Terrain() *world.Terrain { return w.terrain }

// Engine exposes the flow engine.
func (w *World) Engine() *flow.Engine { return w.engine }

// Reset regenerates terrain and sources from seed. A zero seed reuses the
// configured one.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.cfg.Seed = effective
	w.rng.Reseed(effective)
	w.picker.Reseed(effective ^ 0x5eed)

	w.terrain.Clear()
	w.cells.Clear()
	w.active.Clear()
	w.engine.ResetAll()
	w.tick = 0
	w.last = flow.TickResult{}
	w.lastErr = nil

	w.seedTerrain()
	w.seedSources()
	w.dirty = true
}

func (w *World) seedTerrain() {
	p := w.cfg.Params
	for z := 0; z < w.h; z++ {
		for x := 0; x < w.w; x++ {
			pos := flow.Pos{X: x, Z: z}
			r := w.rng.Float64()
			switch {
			case r < p.RockChance:
				w.terrain.SetRock(pos, true)
			case r < p.RockChance+p.CrateChance:
				w.terrain.AddThing(pos, world.Thing{Kind: world.ThingCrate, Fill: 1, Building: true})
			case r < p.RockChance+p.CrateChance+p.PlantChance:
				w.terrain.AddThing(pos, world.Thing{Kind: world.ThingPlant, Fill: 0.05})
			}
		}
	}
}

func (w *World) seedSources() {
	eval := w.engine.Evaluator()
	placed := 0
	for attempt := 0; placed < w.cfg.Params.SourceCount && attempt < w.cfg.Params.SourceCount*32; attempt++ {
		pos := flow.Pos{X: w.rng.IntN(w.w), Z: w.rng.IntN(w.h)}
		if !eval.Open(pos) || w.cells.Has(pos) {
			continue
		}
		if err := w.AddWater(pos, w.cfg.Params.SourceVolume); err != nil {
			w.logger.Printf("seed source at (%d,%d): %v", pos.X, pos.Z, err)
			continue
		}
		placed++
	}
}

// AddWater pours amount units onto p, saturating at flow.MaxVolume, and
// wakes p and its wet neighbors.
func (w *World) AddWater(p flow.Pos, amount int) error {
	_, err := w.Pour(p, amount)
	return err
}

// PourVolume is the amount a viewer pours per click.
func (w *World) PourVolume() int { return w.cfg.Params.PourVolume }

// Pour is AddWater reporting how much fit.
func (w *World) Pour(p flow.Pos, amount int) (int, error) {
	if amount <= 0 {
		return 0, nil
	}
	if !w.engine.Evaluator().Open(p) {
		return 0, fmt.Errorf("pour at (%d,%d): %w", p.X, p.Z, ErrBlocked)
	}
	cur := w.cells.VolumeAt(p)
	next := min(cur+amount, flow.MaxVolume)
	if next == cur {
		return 0, nil
	}
	if err := w.cells.Put(p, next); err != nil {
		return 0, err
	}
	w.engine.Disturb(p)
	w.dirty = true
	return next - cur, nil
}

// Step advances the simulation by the configured number of flow ticks.
func (w *World) Step() {
	for i := 0; i < w.cfg.Params.TicksPerStep; i++ {
		if _, err := w.Tick(); err != nil {
			return
		}
	}
}

// Tick runs exactly one flow tick. An invariant error leaves the grid as it
// was before the commit step and is also logged.
func (w *World) Tick() (flow.TickResult, error) {
	res, err := w.engine.Tick()
	w.tick++
	w.last = res
	w.lastErr = err
	w.dirty = true
	if err != nil {
		w.logger.Printf("tick %d: %v", w.tick, err)
	}
	return res, err
}

// Settled reports whether no cell is left in the active set.
func (w *World) Settled() bool { return w.active.Len() == 0 }

// TickCount returns the number of flow ticks run since the last reset.
func (w *World) TickCount() int64 { return w.tick }

// TotalVolume returns the summed water volume.
func (w *World) TotalVolume() int { return w.cells.Total() }

// ResetStability clears every stability counter and wakes every wet cell,
// as after a change of simulation mode.
func (w *World) ResetStability() {
	w.engine.ResetAll()
	w.cells.Each(func(p flow.Pos, _ int) { w.active.Register(p) })
	w.dirty = true
}

// Stats returns the summary of the last tick.
func (w *World) Stats() Stats {
	stable := 0
	w.cells.Each(func(p flow.Pos, _ int) {
		if w.engine.Stable(p) {
			stable++
		}
	})
	return Stats{
		Tick:    w.tick,
		Active:  w.active.Len(),
		Wet:     w.cells.Count(),
		Volume:  w.cells.Total(),
		Stable:  stable,
		Last:    w.last,
		LastErr: w.lastErr,
	}
}

// StatsLines renders Stats for HUDs and terminal viewers.
func (w *World) StatsLines() []string {
	s := w.Stats()
	lines := []string{
		fmt.Sprintf("tick %d  active %d  settled %t", s.Tick, s.Active, w.Settled()),
		fmt.Sprintf("wet %d  stable %d  volume %d", s.Wet, s.Stable, s.Volume),
		fmt.Sprintf("transfers %d  changed %d  +%d/-%d", s.Last.Transfers, s.Last.Changed, s.Last.Created, s.Last.Drained),
	}
	if s.Last.Boosted {
		lines = append(lines, "boosted")
	}
	if s.LastErr != nil {
		lines = append(lines, "error: "+s.LastErr.Error())
	}
	return lines
}

// Volumes exposes the raw volume layer in row-major order.
func (w *World) Volumes() []uint8 { return w.cells.Volumes() }

// StabilityField returns each cell's counter scaled to 0..255 of the
// current cap. Dry cells are 0.
func (w *World) StabilityField() []uint8 {
	out := make([]uint8, w.w*w.h)
	limit := w.engine.Settings().StabilityCap
	for p, n := range w.engine.Counters() {
		if !w.terrain.InBounds(p) {
			continue
		}
		n = min(n, limit)
		out[p.Z*w.w+p.X] = uint8(n * 255 / limit)
	}
	return out
}

// ActiveMask returns 1 for cells in the active set.
func (w *World) ActiveMask() []uint8 {
	out := make([]uint8, w.w*w.h)
	for z := 0; z < w.h; z++ {
		for x := 0; x < w.w; x++ {
			if w.active.Contains(flow.Pos{X: x, Z: z}) {
				out[z*w.w+x] = 1
			}
		}
	}
	return out
}

// Export captures the volumes and counters for persistence.
func (w *World) Export(worldID string) store.State {
	st := store.State{
		WorldID: worldID,
		Tick:    w.tick,
		Width:   w.w,
		Height:  w.h,
		Seed:    w.cfg.Seed,
	}
	w.cells.Each(func(p flow.Pos, v int) {
		st.Cells = append(st.Cells, store.CellRow{X: p.X, Z: p.Z, Volume: v})
		if n, ok := w.engine.Stability(p); ok {
			st.Counters = append(st.Counters, store.CounterRow{X: p.X, Z: p.Z, Count: n})
		}
	})
	return st
}

// Import regenerates terrain from the saved seed and restores water and
// counters. Uncapped wet cells rejoin the active set.
func (w *World) Import(st store.State) error {
	if st.Width != w.w || st.Height != w.h {
		return fmt.Errorf("import %q: size %dx%d does not match %dx%d", st.WorldID, st.Width, st.Height, w.w, w.h)
	}
	w.Reset(st.Seed)
	w.cells.Clear()
	w.active.Clear()
	w.engine.ResetAll()

	var errs []error
	for _, c := range st.Cells {
		if err := w.cells.Put(flow.Pos{X: c.X, Z: c.Z}, c.Volume); err != nil {
			errs = append(errs, err)
		}
	}
	for _, c := range st.Counters {
		w.engine.RestoreCounter(flow.Pos{X: c.X, Z: c.Z}, c.Count)
	}
	w.cells.Each(func(p flow.Pos, _ int) {
		if !w.engine.Stable(p) {
			w.active.Register(p)
		}
	})
	w.tick = st.Tick
	w.dirty = true
	if len(errs) > 0 {
		return fmt.Errorf("import %q: %w", st.WorldID, errors.Join(errs...))
	}
	return nil
}

func init() {
	core.Register("water", func(cfg map[string]string) core.Sim {
		c := FromMap(cfg)
		return NewWithConfig(c, nil)
	})
}
