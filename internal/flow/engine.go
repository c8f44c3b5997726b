package flow

import (
	"io"
	"log"
	"math/rand/v2"
)

// Options wires an Engine to its collaborators. Grid, Cells and Active are
// required.
type Options struct {
	Grid     Grid
	Cells    Cells
	Active   ActiveSet
	Tunables Tunables
	Picker   Picker
	Logger   *log.Logger
}

// TickResult summarizes one tick.
type TickResult struct {
	Candidates int  `json:"candidates"`
	Transfers  int  `json:"transfers"`
	Changed    int  `json:"changed"`
	Created    int  `json:"created"`
	Drained    int  `json:"drained"`
	Stabilized int  `json:"stabilized"`
	Reset      int  `json:"reset"`
	Skipped    int  `json:"skipped"`
	Boosted    bool `json:"boosted"`
	Halted     bool `json:"halted"`
}

// Engine runs ticks over one grid. It is not safe for concurrent use; a
// tick must finish before anything else reads the grid.
type Engine struct {
	grid     Grid
	cells    Cells
	active   ActiveSet
	tunables Tunables
	picker   Picker
	logger   *log.Logger

	settings Settings
	eval     Evaluator
	stab     *stability

	ledger        *Ledger
	transfers     []Transfer
	seen          map[Pos]struct{}
	visitOrder    []Pos
	affected      map[Pos]struct{}
	affectedOrder []Pos
	skipped       map[Pos]struct{}
	stale         []Pos
	pending       []Pos
	result        TickResult
}

type globalPicker struct{}

func (globalPicker) IntN(n int) int { return rand.IntN(n) }

// New returns an engine bound to the given collaborators.
func New(opts Options) *Engine {
	e := &Engine{
		grid:     opts.Grid,
		cells:    opts.Cells,
		active:   opts.Active,
		tunables: opts.Tunables,
		picker:   opts.Picker,
		logger:   opts.Logger,
		stab:     newStability(),
		seen:     map[Pos]struct{}{},
		affected: map[Pos]struct{}{},
		skipped:  map[Pos]struct{}{},
	}
	if e.tunables == nil {
		e.tunables = DefaultSettings()
	}
	if e.picker == nil {
		e.picker = globalPicker{}
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard, "", 0)
	}
	e.ledger = newLedger(e.cells.VolumeAt)
	e.ResetTick()
	return e
}

// Tick runs one collect/validate/apply cycle over the active set.
func (e *Engine) Tick() (TickResult, error) {
	e.ResetTick()
	candidates := e.active.CandidatesForTick()
	e.result.Candidates = len(candidates)
	e.Collect(candidates)
	_, err := e.Apply()
	return e.result, err
}

// ResetTick discards per-tick state and reloads settings from the tunables.
// Stability counters are kept.
func (e *Engine) ResetTick() {
	e.settings = e.tunables.FlowSettings().Normalize()
	e.eval = NewEvaluator(e.grid, e.settings.MinVolumeDifference)
	e.ledger.reset()
	e.transfers = e.transfers[:0]
	clear(e.seen)
	e.visitOrder = e.visitOrder[:0]
	clear(e.affected)
	e.affectedOrder = e.affectedOrder[:0]
	clear(e.skipped)
	e.stale = e.stale[:0]
	e.result = TickResult{}
}

// ResetAll clears per-tick state and every stability counter, as when the
// simulation mode changes.
func (e *Engine) ResetAll() {
	e.stab.clear()
	e.ResetTick()
}

// Settings returns the normalized settings of the current tick.
func (e *Engine) Settings() Settings { return e.settings }

// Evaluator returns the equilibrium evaluator of the current tick.
func (e *Engine) Evaluator() Evaluator { return e.eval }

// Ledger exposes the projection built by the last Collect.
func (e *Engine) Ledger() *Ledger { return e.ledger }

// Transfers returns a copy of the transfers recorded this tick.
func (e *Engine) Transfers() []Transfer {
	return append([]Transfer(nil), e.transfers...)
}

// Result returns the running summary of the current tick.
func (e *Engine) Result() TickResult { return e.result }

// Stability returns the counter for p and whether p has one.
func (e *Engine) Stability(p Pos) (int, bool) { return e.stab.get(p) }

// Stable reports whether p has reached the current stability cap.
func (e *Engine) Stable(p Pos) bool {
	_, ok := e.stab.get(p)
	return ok && e.stab.capped(p, e.settings.StabilityCap)
}

// Counters returns a copy of every stability counter.
func (e *Engine) Counters() map[Pos]int {
	out := make(map[Pos]int, len(e.stab.counters))
	for p, n := range e.stab.counters {
		out[p] = n
	}
	return out
}

// RestoreCounter sets the counter for p, used when loading saved state.
func (e *Engine) RestoreCounter(p Pos, n int) { e.stab.restore(p, n) }

// Disturb marks p as changed outside a tick: its counter restarts at zero and
// p and its wet neighbors join the active set.
func (e *Engine) Disturb(p Pos) {
	e.stab.reset(p)
	e.active.Register(p)
	e.active.ActivateNeighbors(p)
}
