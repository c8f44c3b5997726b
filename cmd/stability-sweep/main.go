package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"puddle/internal/persistence/ticklog"
	"puddle/internal/sims/water"
)

type paramSet struct {
	StabilityCap   int     `json:"stability_cap"`
	MinVolumeDiff  int     `json:"min_volume_difference"`
	BoostThreshold float64 `json:"boost_threshold"`
	BoostStep      int     `json:"boost_step"`
}

func (p paramSet) String() string {
	return fmt.Sprintf("cap=%d delta=%d boost=%.2f step=%d",
		p.StabilityCap, p.MinVolumeDiff, p.BoostThreshold, p.BoostStep)
}

type scenarioResult struct {
	Params      paramSet `json:"params"`
	Seed        int64    `json:"seed"`
	Settled     bool     `json:"settled"`
	SettleTick  int64    `json:"settle_tick"`
	Transfers   int      `json:"transfers"`
	Boosted     int      `json:"boosted_ticks"`
	VolumeDrift int      `json:"volume_drift"`
	Errors      int      `json:"errors"`
}

func main() {
	maxTicks := flag.Int("ticks", 4000, "tick budget per scenario")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	seeds := flag.Int("seeds", 3, "seeds per parameter set")
	configPath := flag.String("config", "", "YAML base config")
	out := flag.String("out", "", "directory for zstd JSONL results")
	flag.Parse()

	logger := log.New(os.Stderr, "[stability-sweep] ", log.LstdFlags|log.Lmicroseconds)

	baseCfg := water.DefaultConfig()
	baseCfg.Width = 64
	baseCfg.Height = 48
	if *configPath != "" {
		cfg, err := water.LoadFile(*configPath)
		if err != nil {
			logger.Fatalf("load config: %v", err)
		}
		baseCfg = cfg
	}

	sets := buildSets(
		[]int{10, 30, 60},
		[]int{0, 1, 2},
		[]float64{0.8, 0.95, 1.0},
		[]int{1, 3, 5},
	)

	var sink *ticklog.JSONLZstdWriter
	if *out != "" {
		sink = ticklog.NewJSONLZstdWriter(*out, "sweep")
		defer func() {
			if err := sink.Close(); err != nil {
				logger.Printf("close results: %v", err)
			}
		}()
	}

	fmt.Printf("Sweeping %d parameter sets x %d seeds (%d workers, %d ticks)\n", len(sets), *seeds, *workers, *maxTicks)

	type job struct {
		params paramSet
		seed   int64
	}
	jobs := make(chan job)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- runScenario(baseCfg, j.params, j.seed, *maxTicks)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, params := range sets {
			for s := 0; s < *seeds; s++ {
				jobs <- job{params: params, seed: baseCfg.Seed + int64(s)}
			}
		}
		close(jobs)
	}()

	start := time.Now()
	var all []scenarioResult
	for res := range results {
		all = append(all, res)
		if sink != nil {
			if err := sink.Write(res); err != nil {
				logger.Printf("write result: %v", err)
			}
		}
		if res.VolumeDrift != 0 || res.Errors > 0 {
			logger.Printf("%s seed=%d: drift=%d errors=%d", res.Params, res.Seed, res.VolumeDrift, res.Errors)
		}
	}

	summaries := summarize(all)
	elapsed := time.Since(start)

	fmt.Printf("\nFastest settling parameter sets (elapsed %s):\n", elapsed.Round(time.Millisecond))
	for i := 0; i < len(summaries) && i < 10; i++ {
		s := summaries[i]
		fmt.Printf("%2d) settled=%d/%d meanTick=%.1f transfers=%.0f boosted=%.1f %s\n",
			i+1, s.settled, s.runs, s.meanTick, s.meanTransfers, s.meanBoosted, s.params)
	}
}

func buildSets(caps, deltas []int, thresholds []float64, steps []int) []paramSet {
	var sets []paramSet
	for _, c := range caps {
		for _, d := range deltas {
			for _, th := range thresholds {
				for _, st := range steps {
					sets = append(sets, paramSet{
						StabilityCap:   c,
						MinVolumeDiff:  d,
						BoostThreshold: th,
						BoostStep:      st,
					})
				}
			}
		}
	}
	return sets
}

func runScenario(base water.Config, params paramSet, seed int64, maxTicks int) scenarioResult {
	cfg := base
	cfg.Params.StabilityCap = params.StabilityCap
	cfg.Params.MinVolumeDifference = params.MinVolumeDiff
	cfg.Params.BoostThreshold = params.BoostThreshold
	cfg.Params.BoostStep = params.BoostStep

	world := water.NewWithConfig(cfg, nil)
	world.Reset(seed)
	initial := world.TotalVolume()

	res := scenarioResult{Params: params, Seed: seed}
	for tick := 0; tick < maxTicks && !world.Settled(); tick++ {
		r, err := world.Tick()
		if err != nil {
			res.Errors++
		}
		res.Transfers += r.Transfers
		if r.Boosted {
			res.Boosted++
		}
	}
	res.Settled = world.Settled()
	res.SettleTick = world.TickCount()
	res.VolumeDrift = world.TotalVolume() - initial
	return res
}

type summary struct {
	params        paramSet
	runs          int
	settled       int
	meanTick      float64
	meanTransfers float64
	meanBoosted   float64
}

// summarize groups results per parameter set, most settled runs first, then
// by mean settle tick.
func summarize(all []scenarioResult) []summary {
	byParams := map[paramSet]*summary{}
	var order []paramSet
	for _, r := range all {
		s, ok := byParams[r.Params]
		if !ok {
			s = &summary{params: r.Params}
			byParams[r.Params] = s
			order = append(order, r.Params)
		}
		s.runs++
		if r.Settled {
			s.settled++
		}
		s.meanTick += float64(r.SettleTick)
		s.meanTransfers += float64(r.Transfers)
		s.meanBoosted += float64(r.Boosted)
	}
	out := make([]summary, 0, len(order))
	for _, p := range order {
		s := *byParams[p]
		n := float64(s.runs)
		s.meanTick /= n
		s.meanTransfers /= n
		s.meanBoosted /= n
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].settled != out[j].settled {
			return out[i].settled > out[j].settled
		}
		return out[i].meanTick < out[j].meanTick
	})
	return out
}
