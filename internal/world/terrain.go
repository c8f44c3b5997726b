// Package world provides in-memory implementations of the grid, water and
// active-set collaborators used by the flow engine.
package world

import "puddle/internal/flow"

// ThingKind names what stands on a cell.
type ThingKind string

const (
	ThingCrate ThingKind = "crate"
	ThingPlant ThingKind = "plant"
)

// Thing is an object occupying part of a cell.
type Thing struct {
	Kind     ThingKind
	Fill     float64
	Building bool
}

// FillRatio reports how much of the cell the thing occupies.
func (t Thing) FillRatio() float64 { return t.Fill }

// IsBuilding reports whether the thing counts as a building.
func (t Thing) IsBuilding() bool { return t.Building }

// Terrain is a bounded grid of walkable cells with optional things on them.
type Terrain struct {
	w, h     int
	blocked  []bool
	things   map[flow.Pos][]flow.Obstacle
	features []uint8
}

// Feature bits describe what a cell shows besides water.
const (
	FeatureRock uint8 = 1 << iota
	FeatureBuilding
	FeatureClutter
)

// NewTerrain returns an open terrain of the given size.
func NewTerrain(w, h int) *Terrain {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Terrain{
		w:        w,
		h:        h,
		blocked:  make([]bool, w*h),
		things:   map[flow.Pos][]flow.Obstacle{},
		features: make([]uint8, w*h),
	}
}

// Size returns the terrain dimensions.
func (t *Terrain) Size() (int, int) { return t.w, t.h }

// InBounds reports whether p lies on the terrain.
func (t *Terrain) InBounds(p flow.Pos) bool {
	return p.X >= 0 && p.Z >= 0 && p.X < t.w && p.Z < t.h
}

// Walkable reports whether p is in bounds and not rock.
func (t *Terrain) Walkable(p flow.Pos) bool {
	if !t.InBounds(p) {
		return false
	}
	return !t.blocked[t.index(p)]
}

// ThingsAt lists the things standing on p.
func (t *Terrain) ThingsAt(p flow.Pos) []flow.Obstacle {
	return t.things[p]
}

// SetRock marks p as impassable rock.
func (t *Terrain) SetRock(p flow.Pos, rock bool) {
	if !t.InBounds(p) {
		return
	}
	i := t.index(p)
	t.blocked[i] = rock
	if rock {
		t.features[i] |= FeatureRock
	} else {
		t.features[i] &^= FeatureRock
	}
}

// AddThing places a thing on p.
func (t *Terrain) AddThing(p flow.Pos, thing Thing) {
	if !t.InBounds(p) {
		return
	}
	t.things[p] = append(t.things[p], thing)
	if thing.Building {
		t.features[t.index(p)] |= FeatureBuilding
	} else {
		t.features[t.index(p)] |= FeatureClutter
	}
}

// Feature returns the feature bits of p.
func (t *Terrain) Feature(p flow.Pos) uint8 {
	if !t.InBounds(p) {
		return FeatureRock
	}
	return t.features[t.index(p)]
}

// Clear removes all rock and things.
func (t *Terrain) Clear() {
	for i := range t.blocked {
		t.blocked[i] = false
		t.features[i] = 0
	}
	clear(t.things)
}

func (t *Terrain) index(p flow.Pos) int { return p.Z*t.w + p.X }
