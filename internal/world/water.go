package world

import (
	"fmt"

	"puddle/internal/core"
	"puddle/internal/flow"
)

// WaterDef describes the water entity materialized on a cell.
type WaterDef struct {
	Name string
}

// DefaultWaterDef is the definition used unless one is configured.
var DefaultWaterDef = &WaterDef{Name: "water"}

// WaterCells stores one water entity per wet cell with its volume.
type WaterCells struct {
	vols    *core.ByteGrid
	present []bool
	count   int

	// Def is the entity definition; nil makes CreateAt fail.
	Def *WaterDef
	// OnCreate runs after an entity is materialized, before its volume is set.
	OnCreate func(p flow.Pos)
}

// NewWaterCells returns an empty water layer of the given size.
func NewWaterCells(w, h int) *WaterCells {
	g := core.NewByteGrid(w, h)
	return &WaterCells{vols: g, present: make([]bool, len(g.Cells())), Def: DefaultWaterDef}
}

// VolumeAt returns the volume at p, 0 when no water is there.
func (c *WaterCells) VolumeAt(p flow.Pos) int {
	return int(c.vols.At(p.X, p.Z))
}

// Has reports whether a water entity exists at p.
func (c *WaterCells) Has(p flow.Pos) bool {
	if !c.vols.InBounds(p.X, p.Z) {
		return false
	}
	return c.present[c.vols.Index(p.X, p.Z)]
}

// CreateAt materializes an empty water entity at p.
func (c *WaterCells) CreateAt(p flow.Pos) error {
	if c.Def == nil {
		return fmt.Errorf("create at (%d,%d): %w", p.X, p.Z, flow.ErrNoWaterDef)
	}
	if !c.vols.InBounds(p.X, p.Z) {
		return fmt.Errorf("create at (%d,%d): out of bounds", p.X, p.Z)
	}
	i := c.vols.Index(p.X, p.Z)
	if c.present[i] {
		return nil
	}
	c.present[i] = true
	c.count++
	c.vols.Cells()[i] = 0
	if c.OnCreate != nil {
		c.OnCreate(p)
	}
	return nil
}

// SetVolume stores v at p. Zero destroys the entity. Volumes outside
// [0, flow.MaxVolume] are rejected, not clamped.
func (c *WaterCells) SetVolume(p flow.Pos, v int) error {
	if v < 0 || v > flow.MaxVolume {
		return fmt.Errorf("set volume %d at (%d,%d): %w", v, p.X, p.Z, flow.ErrInvariant)
	}
	if !c.vols.InBounds(p.X, p.Z) {
		return fmt.Errorf("set volume at (%d,%d): out of bounds", p.X, p.Z)
	}
	i := c.vols.Index(p.X, p.Z)
	if !c.present[i] {
		if v == 0 {
			return nil
		}
		return fmt.Errorf("set volume at (%d,%d): no water entity", p.X, p.Z)
	}
	if v == 0 {
		c.present[i] = false
		c.count--
	}
	c.vols.Cells()[i] = uint8(v)
	return nil
}

// Put creates water at p if needed and sets its volume.
func (c *WaterCells) Put(p flow.Pos, v int) error {
	if v > 0 && !c.Has(p) {
		if err := c.CreateAt(p); err != nil {
			return err
		}
	}
	return c.SetVolume(p, v)
}

// Count returns the number of water entities.
func (c *WaterCells) Count() int { return c.count }

// Total returns the summed volume of all cells.
func (c *WaterCells) Total() int { return c.vols.Sum() }

// Each visits every wet cell in row-major order.
func (c *WaterCells) Each(fn func(p flow.Pos, v int)) {
	cells := c.vols.Cells()
	for i, ok := range c.present {
		if !ok {
			continue
		}
		fn(flow.Pos{X: i % c.vols.W, Z: i / c.vols.W}, int(cells[i]))
	}
}

// Volumes exposes the raw row-major volume buffer.
func (c *WaterCells) Volumes() []uint8 { return c.vols.Cells() }

// Clear removes all water.
func (c *WaterCells) Clear() {
	c.vols.Clear()
	for i := range c.present {
		c.present[i] = false
	}
	c.count = 0
}
