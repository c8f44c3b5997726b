package main

import (
	"testing"

	"puddle/internal/sims/water"
)

func TestBuildSetsCrossProduct(t *testing.T) {
	sets := buildSets([]int{10, 30}, []int{0, 1, 2}, []float64{0.9}, []int{1, 3})
	if len(sets) != 12 {
		t.Fatalf("got %d sets, want 12", len(sets))
	}
	if sets[0] != (paramSet{StabilityCap: 10, MinVolumeDiff: 0, BoostThreshold: 0.9, BoostStep: 1}) {
		t.Fatalf("unexpected first set %+v", sets[0])
	}
}

func TestRunScenarioConservesVolume(t *testing.T) {
	cfg := water.DefaultConfig()
	cfg.Width = 16
	cfg.Height = 12
	cfg.Params.SourceCount = 2
	res := runScenario(cfg, paramSet{StabilityCap: 10, MinVolumeDiff: 1, BoostThreshold: 0.95, BoostStep: 3}, 5, 3000)
	if res.VolumeDrift != 0 || res.Errors != 0 {
		t.Fatalf("drift=%d errors=%d", res.VolumeDrift, res.Errors)
	}
	if !res.Settled {
		t.Fatalf("scenario did not settle after %d ticks", res.SettleTick)
	}
}

func TestSummarizeOrdersBySettled(t *testing.T) {
	a := paramSet{StabilityCap: 10}
	b := paramSet{StabilityCap: 20}
	out := summarize([]scenarioResult{
		{Params: a, Settled: false, SettleTick: 50},
		{Params: b, Settled: true, SettleTick: 400},
		{Params: b, Settled: true, SettleTick: 200},
	})
	if len(out) != 2 || out[0].params != b {
		t.Fatalf("unexpected order %+v", out)
	}
	if out[0].meanTick != 300 || out[0].settled != 2 {
		t.Fatalf("summary %+v", out[0])
	}
}
