package world

import (
	"cmp"
	"slices"

	"puddle/internal/flow"
)

// ActiveSet is the registry of cells simulated next tick. Candidates come
// out in row-major order so runs with a seeded picker are reproducible.
type ActiveSet struct {
	set     map[flow.Pos]struct{}
	terrain *Terrain
	cells   *WaterCells
	buf     []flow.Pos
}

// NewActiveSet returns an empty registry over the given terrain and water.
func NewActiveSet(terrain *Terrain, cells *WaterCells) *ActiveSet {
	return &ActiveSet{set: map[flow.Pos]struct{}{}, terrain: terrain, cells: cells}
}

// CandidatesForTick returns the registered cells sorted by z, then x. The
// slice is reused by the next call.
func (a *ActiveSet) CandidatesForTick() []flow.Pos {
	a.buf = a.buf[:0]
	for p := range a.set {
		a.buf = append(a.buf, p)
	}
	slices.SortFunc(a.buf, func(p, q flow.Pos) int {
		if c := cmp.Compare(p.Z, q.Z); c != 0 {
			return c
		}
		return cmp.Compare(p.X, q.X)
	})
	return a.buf
}

// Register adds p.
func (a *ActiveSet) Register(p flow.Pos) { a.set[p] = struct{}{} }

// Unregister removes p.
func (a *ActiveSet) Unregister(p flow.Pos) { delete(a.set, p) }

// ActivateNeighbors registers every in-bounds neighbor of p holding water.
func (a *ActiveSet) ActivateNeighbors(p flow.Pos) {
	for _, nb := range p.Neighbors() {
		if a.terrain.InBounds(nb) && a.cells.VolumeAt(nb) > 0 {
			a.set[nb] = struct{}{}
		}
	}
}

// Contains reports whether p is registered.
func (a *ActiveSet) Contains(p flow.Pos) bool {
	_, ok := a.set[p]
	return ok
}

// Len returns the number of registered cells.
func (a *ActiveSet) Len() int { return len(a.set) }

// Clear empties the registry.
func (a *ActiveSet) Clear() { clear(a.set) }
