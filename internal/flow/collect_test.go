package flow

import "testing"

func TestCollectRowExampleFirstTick(t *testing.T) {
	f := newFixture(3, 1, settingsWith(0, 10))
	a := f.water(0, 0, 4)
	b, c := Pos{X: 1}, Pos{X: 2}

	if got := f.eng.Collect(f.active.CandidatesForTick()); got != 1 {
		t.Fatalf("Collect recorded %d transfers, want 1", got)
	}
	tr := f.eng.Transfers()
	if tr[0] != (Transfer{Src: a, Dst: b, Amount: 1}) {
		t.Fatalf("transfer = %+v, want A->B", tr[0])
	}
	if v, _ := f.eng.Ledger().Projected(a); v != 3 {
		t.Fatalf("ledger A = %d, want 3", v)
	}
	if v, _ := f.eng.Ledger().Projected(b); v != 1 {
		t.Fatalf("ledger B = %d, want 1", v)
	}
	if _, ok := f.eng.Ledger().Projected(c); ok {
		t.Fatal("C must not be touched")
	}
	if f.cells.VolumeAt(a) != 4 || f.cells.VolumeAt(b) != 0 {
		t.Fatal("Collect must not mutate live state")
	}
}

func TestCollectPicksAmongEmptyNeighbors(t *testing.T) {
	f := newFixture(5, 5, settingsWith(0, 10))
	src := f.water(2, 2, 3)
	f.picker.picks = []int{2}

	f.eng.Collect(f.active.CandidatesForTick())
	tr := f.eng.Transfers()
	if len(tr) != 1 {
		t.Fatalf("got %d transfers, want 1", len(tr))
	}
	if want := (Pos{X: 2, Z: 3}); tr[0].Dst != want {
		t.Fatalf("picked %+v, want south neighbor %+v", tr[0].Dst, want)
	}
	if tr[0].Src != src || tr[0].Amount != 1 {
		t.Fatalf("unexpected transfer %+v", tr[0])
	}
}

func TestCollectPrefersLowestWaterNeighbor(t *testing.T) {
	f := newFixture(3, 3, settingsWith(0, 10))
	f.water(1, 0, 4)
	f.water(2, 1, 2)
	f.water(1, 2, 2)
	f.wall(0, 1)
	src := Pos{X: 1, Z: 1}
	f.cells.put(src, 5)
	f.picker.picks = []int{1}

	f.eng.Collect([]Pos{src})
	tr := f.eng.Transfers()
	if len(tr) != 1 {
		t.Fatalf("got %d transfers, want 1", len(tr))
	}
	if want := (Pos{X: 1, Z: 2}); tr[0].Dst != want {
		t.Fatalf("picked %+v, want second tied minimum %+v", tr[0].Dst, want)
	}
}

func TestCollectRequiresGapOfTolerance(t *testing.T) {
	f := newFixture(3, 3, settingsWith(2, 10))
	f.water(1, 0, 4)
	f.water(2, 1, 4)
	f.water(1, 2, 4)
	f.water(0, 1, 2)
	src := Pos{X: 1, Z: 1}
	f.cells.put(src, 5)

	f.eng.Collect([]Pos{src})
	tr := f.eng.Transfers()
	if len(tr) != 1 || tr[0].Dst != (Pos{X: 0, Z: 1}) {
		t.Fatalf("expected a single transfer into the only neighbor closing the gap, got %+v", tr)
	}
}

func TestCollectNoTransfersAtEquilibrium(t *testing.T) {
	f := newFixture(4, 4, settingsWith(0, 10))
	for z := 0; z < 4; z++ {
		for x := 0; x < 4; x++ {
			f.water(x, z, 4)
		}
	}
	if got := f.eng.Collect(f.active.CandidatesForTick()); got != 0 {
		t.Fatalf("flat plateau recorded %d transfers", got)
	}
	if f.eng.Ledger().Len() != 16 {
		t.Fatalf("every processed cell should be seeded, got %d", f.eng.Ledger().Len())
	}
}

func TestCollectFloorCellOnlySeeds(t *testing.T) {
	f := newFixture(3, 3, settingsWith(0, 10))
	p := f.water(1, 1, 1)
	if got := f.eng.Collect(f.active.CandidatesForTick()); got != 0 {
		t.Fatalf("volume 1 recorded %d transfers", got)
	}
	if v, ok := f.eng.Ledger().Projected(p); !ok || v != 1 {
		t.Fatalf("ledger seed = %d,%v", v, ok)
	}
}

func TestCollectHaltsAtMaxTransfers(t *testing.T) {
	s := settingsWith(0, 10)
	s.MaxTransfersPerTick = 2
	f := newFixture(9, 1, s)
	f.water(0, 0, 3)
	f.water(4, 0, 3)
	f.water(8, 0, 3)

	if got := f.eng.Collect(f.active.CandidatesForTick()); got != 2 {
		t.Fatalf("recorded %d transfers, want 2", got)
	}
	if !f.eng.Result().Halted {
		t.Fatal("collection should report it halted")
	}
	if _, ok := f.eng.Ledger().Projected(Pos{X: 8}); ok {
		t.Fatal("the third source must not be processed after the limit")
	}
}

func TestCollectDestinationIsNotASourceSameTick(t *testing.T) {
	f := newFixture(4, 1, settingsWith(0, 10))
	f.water(0, 0, 5)
	f.water(1, 0, 3)

	if got := f.eng.Collect(f.active.CandidatesForTick()); got != 1 {
		t.Fatalf("recorded %d transfers, want 1", got)
	}
	if tr := f.eng.Transfers()[0]; tr.Dst != (Pos{X: 1}) {
		t.Fatalf("unexpected transfer %+v", tr)
	}
}

func TestCollectVetoesOverfullDestination(t *testing.T) {
	f := newFixture(3, 3, settingsWith(0, 10))
	f.wall(0, 0)
	f.wall(2, 0)
	f.wall(0, 2)
	f.wall(2, 2)
	center := f.water(1, 1, 6)
	f.water(1, 0, 7)
	f.water(0, 1, 7)
	f.water(2, 1, 7)
	f.water(1, 2, 7)

	if got := f.eng.Collect(f.active.CandidatesForTick()); got != 1 {
		t.Fatalf("recorded %d transfers, want 1", got)
	}
	if v, _ := f.eng.Ledger().Projected(center); v != MaxVolume {
		t.Fatalf("center projected %d, want %d", v, MaxVolume)
	}
	if err := f.eng.Ledger().Validate(); err != nil {
		t.Fatalf("projection must stay valid: %v", err)
	}
}

func TestCollectZeroToleranceUsesUnitGap(t *testing.T) {
	f := newFixture(2, 1, settingsWith(0, 10))
	a := f.water(0, 0, 3)
	b := f.water(1, 0, 3)

	if got := f.eng.Collect(f.active.CandidatesForTick()); got != 0 {
		t.Fatalf("equal neighbors exchanged %d units at zero tolerance", got)
	}

	f.cells.put(b, 2)
	f.eng.ResetTick()
	if got := f.eng.Collect(f.active.CandidatesForTick()); got != 1 {
		t.Fatalf("a one-unit gap should still move water, got %d transfers", got)
	}
	if tr := f.eng.Transfers()[0]; tr != (Transfer{Src: a, Dst: b, Amount: 1}) {
		t.Fatalf("transfer = %+v, want A->B", tr)
	}
	if v, _ := f.eng.Ledger().Projected(b); v != 3 {
		t.Fatalf("ledger B = %d, want 3", v)
	}
}
