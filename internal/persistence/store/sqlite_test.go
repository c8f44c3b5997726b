package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worlds.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	st := State{
		WorldID: "pond",
		Tick:    42,
		Width:   8,
		Height:  4,
		Seed:    7,
		Cells: []CellRow{
			{X: 3, Z: 1, Volume: 2},
			{X: 0, Z: 0, Volume: 7},
		},
		Counters: []CounterRow{{X: 0, Z: 0, Count: 30}},
	}
	if err := s.SaveState(ctx, st); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	got, err := s.LoadState(ctx, "pond")
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if got.Tick != 42 || got.Width != 8 || got.Height != 4 || got.Seed != 7 {
		t.Fatalf("header mismatch: %+v", got)
	}
	if len(got.Cells) != 2 || got.Cells[0] != (CellRow{X: 0, Z: 0, Volume: 7}) {
		t.Fatalf("cells not ordered by z then x: %+v", got.Cells)
	}
	if len(got.Counters) != 1 || got.Counters[0].Count != 30 {
		t.Fatalf("counters mismatch: %+v", got.Counters)
	}
}

func TestSQLiteStoreOverwriteAndMissing(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "worlds.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	if _, err := s.LoadState(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	first := State{WorldID: "a", Tick: 1, Width: 2, Height: 2, Cells: []CellRow{{X: 1, Z: 1, Volume: 3}}}
	if err := s.SaveState(ctx, first); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	second := State{WorldID: "a", Tick: 9, Width: 2, Height: 2}
	if err := s.SaveState(ctx, second); err != nil {
		t.Fatalf("SaveState overwrite: %v", err)
	}
	got, err := s.LoadState(ctx, "a")
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if got.Tick != 9 || len(got.Cells) != 0 {
		t.Fatalf("overwrite kept stale rows: %+v", got)
	}

	ids, err := s.Worlds(ctx)
	if err != nil || len(ids) != 1 || ids[0] != "a" {
		t.Fatalf("Worlds = %v, %v", ids, err)
	}
}

func TestSQLiteStoreRejectsBadVolume(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "worlds.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	bad := State{WorldID: "b", Width: 1, Height: 1, Cells: []CellRow{{Volume: 8}}}
	if err := s.SaveState(ctx, bad); err == nil {
		t.Fatal("expected volume check to reject 8")
	}
	if _, err := s.LoadState(ctx, "b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("failed save should roll back, got %v", err)
	}
}
