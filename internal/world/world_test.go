package world

import (
	"errors"
	"testing"

	"puddle/internal/flow"
)

func TestWaterCellsLifecycle(t *testing.T) {
	c := NewWaterCells(4, 4)
	p := flow.Pos{X: 1, Z: 2}
	created := 0
	c.OnCreate = func(flow.Pos) { created++ }

	if err := c.SetVolume(p, 3); err == nil {
		t.Fatal("setting a volume without an entity must fail")
	}
	if err := c.CreateAt(p); err != nil {
		t.Fatalf("CreateAt: %v", err)
	}
	if created != 1 || !c.Has(p) || c.VolumeAt(p) != 0 {
		t.Fatal("CreateAt should materialize an empty entity and run the hook")
	}
	if err := c.SetVolume(p, 5); err != nil {
		t.Fatalf("SetVolume: %v", err)
	}
	if c.Total() != 5 || c.Count() != 1 {
		t.Fatalf("Total=%d Count=%d", c.Total(), c.Count())
	}
	if err := c.SetVolume(p, flow.MaxVolume+1); !errors.Is(err, flow.ErrInvariant) {
		t.Fatalf("over-full volume must be rejected, got %v", err)
	}
	if c.VolumeAt(p) != 5 {
		t.Fatal("a rejected volume must not be clamped in")
	}
	if err := c.SetVolume(p, 0); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if c.Has(p) || c.Count() != 0 {
		t.Fatal("volume 0 must destroy the entity")
	}
}

func TestWaterCellsMissingDefinition(t *testing.T) {
	c := NewWaterCells(2, 2)
	c.Def = nil
	if err := c.CreateAt(flow.Pos{}); !errors.Is(err, flow.ErrNoWaterDef) {
		t.Fatalf("expected ErrNoWaterDef, got %v", err)
	}
}

func TestTerrainBlocksRockAndBounds(t *testing.T) {
	tr := NewTerrain(3, 3)
	rock := flow.Pos{X: 1, Z: 1}
	tr.SetRock(rock, true)
	if tr.Walkable(rock) {
		t.Fatal("rock must not be walkable")
	}
	if tr.Walkable(flow.Pos{X: -1}) || tr.InBounds(flow.Pos{X: 3}) {
		t.Fatal("out-of-bounds cells are neither in bounds nor walkable")
	}
	crate := flow.Pos{X: 2, Z: 0}
	tr.AddThing(crate, Thing{Kind: ThingCrate, Fill: 1, Building: true})
	if got := len(tr.ThingsAt(crate)); got != 1 {
		t.Fatalf("ThingsAt=%d", got)
	}
	if tr.Feature(crate)&FeatureBuilding == 0 || tr.Feature(rock)&FeatureRock == 0 {
		t.Fatal("feature bits not recorded")
	}
	tr.Clear()
	if !tr.Walkable(rock) || len(tr.ThingsAt(crate)) != 0 {
		t.Fatal("Clear should reset terrain")
	}
}

func TestActiveSetOrderAndNeighbors(t *testing.T) {
	tr := NewTerrain(3, 3)
	c := NewWaterCells(3, 3)
	a := NewActiveSet(tr, c)
	a.Register(flow.Pos{X: 2, Z: 1})
	a.Register(flow.Pos{X: 0, Z: 2})
	a.Register(flow.Pos{X: 1, Z: 1})
	a.Register(flow.Pos{X: 0, Z: 0})

	got := a.CandidatesForTick()
	want := []flow.Pos{{X: 0, Z: 0}, {X: 1, Z: 1}, {X: 2, Z: 1}, {X: 0, Z: 2}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("candidate %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	a.Clear()
	_ = c.Put(flow.Pos{X: 1, Z: 0}, 2)
	a.ActivateNeighbors(flow.Pos{X: 1, Z: 1})
	if a.Len() != 1 || !a.Contains(flow.Pos{X: 1, Z: 0}) {
		t.Fatal("only wet neighbors should be activated")
	}
}

func TestEngineOverWorldCollaborators(t *testing.T) {
	tr := NewTerrain(5, 1)
	c := NewWaterCells(5, 1)
	a := NewActiveSet(tr, c)
	tr.AddThing(flow.Pos{X: 2}, Thing{Kind: ThingCrate, Fill: 1, Building: true})
	src := flow.Pos{X: 0}
	_ = c.Put(src, 5)
	a.Register(src)

	eng := flow.New(flow.Options{Grid: tr, Cells: c, Active: a, Tunables: flow.DefaultSettings()})
	for i := 0; i < 20; i++ {
		if _, err := eng.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	if c.VolumeAt(flow.Pos{X: 2}) != 0 || c.VolumeAt(flow.Pos{X: 3}) != 0 {
		t.Fatal("water must not pass the crate")
	}
	if c.Total() != 5 {
		t.Fatalf("total=%d, want 5", c.Total())
	}
}
