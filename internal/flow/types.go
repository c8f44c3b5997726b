// Package flow moves discrete water volume between neighboring grid cells.
//
// A tick runs in three phases. The collector picks at most one outgoing
// transfer per active cell and records it in a volume ledger without
// touching live state. The ledger is validated as a whole. The applier then
// commits every projected volume and updates the per-cell stability counters
// that decide whether a cell stays in the active set.
package flow

import "errors"

const (
	// MaxVolume is the largest volume a single cell can hold.
	MaxVolume = 7

	// HardStabilityCeiling bounds stability counters regardless of the
	// configured cap.
	HardStabilityCeiling = 1000

	// solidFillThreshold is the fill ratio above which a building blocks flow.
	solidFillThreshold = 0.1
)

var (
	// ErrInvariant reports a volume outside [0, MaxVolume].
	ErrInvariant = errors.New("flow: volume invariant violated")

	// ErrNoWaterDef is returned by Cells.CreateAt when no water entity can be
	// materialized. The engine skips the cell and keeps going.
	ErrNoWaterDef = errors.New("flow: no water definition")
)

// Pos is a cell coordinate on the x/z plane.
type Pos struct {
	X, Z int
}

// Neighbors returns the four cardinal neighbors in north, east, south, west
// order.
func (p Pos) Neighbors() [4]Pos {
	return [4]Pos{
		{X: p.X, Z: p.Z - 1},
		{X: p.X + 1, Z: p.Z},
		{X: p.X, Z: p.Z + 1},
		{X: p.X - 1, Z: p.Z},
	}
}

// Transfer is the intent to move Amount units from Src to Dst this tick.
type Transfer struct {
	Src    Pos
	Dst    Pos
	Amount int
}

// Obstacle is anything standing on a cell.
type Obstacle interface {
	FillRatio() float64
	IsBuilding() bool
}

// Grid answers static terrain questions.
type Grid interface {
	InBounds(p Pos) bool
	Walkable(p Pos) bool
	ThingsAt(p Pos) []Obstacle
}

// Cells holds the live water volume per cell. SetVolume with 0 must destroy
// the entity; out-of-range volumes must be rejected rather than clamped.
type Cells interface {
	VolumeAt(p Pos) int
	CreateAt(p Pos) error
	SetVolume(p Pos, v int) error
}

// ActiveSet tracks which cells are simulated next tick.
type ActiveSet interface {
	CandidatesForTick() []Pos
	Register(p Pos)
	Unregister(p Pos)
	ActivateNeighbors(p Pos)
}

// Tunables supplies the settings for one tick.
type Tunables interface {
	FlowSettings() Settings
}

// Picker chooses uniformly among n tied candidates.
type Picker interface {
	IntN(n int) int
}
