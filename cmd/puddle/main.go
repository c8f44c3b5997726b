package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"puddle/internal/persistence/store"
	"puddle/internal/persistence/ticklog"
	"puddle/internal/sims/water"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML world config (defaults when empty)")
		worldID    = flag.String("world", "puddle_1", "world id")
		seed       = flag.Int64("seed", 0, "world seed, 0 uses the config seed (fresh worlds only)")
		ticks      = flag.Int("ticks", 0, "ticks to run, 0 runs until settled")
		maxTicks   = flag.Int("max_ticks", 100000, "safety limit when running until settled")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		resume     = flag.Bool("resume", true, "resume from the saved state when present")
		disableDB  = flag.Bool("disable_db", false, "do not load or save state")
		disableLog = flag.Bool("disable_ticklog", false, "do not write the tick log")
		every      = flag.Int("report_every", 100, "log a status line every N ticks, 0 disables")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "[puddle] ", log.LstdFlags|log.Lmicroseconds)

	cfg := water.DefaultConfig()
	if *configPath != "" {
		loaded, err := water.LoadFile(*configPath)
		if err != nil {
			logger.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worldDir := filepath.Join(*dataDir, "worlds", *worldID)
	if err := os.MkdirAll(worldDir, 0o755); err != nil {
		logger.Fatalf("data dir: %v", err)
	}

	world := water.NewWithConfig(cfg, logger)
	world.Reset(*seed)

	var db *store.SQLiteStore
	if !*disableDB {
		var err error
		db, err = store.OpenSQLite(filepath.Join(*dataDir, "puddle.db"))
		if err != nil {
			logger.Fatalf("open db: %v", err)
		}
		defer db.Close()
		if *resume {
			st, err := db.LoadState(ctx, *worldID)
			switch {
			case errors.Is(err, store.ErrNotFound):
				logger.Printf("no saved state for %s, starting fresh (seed %d)", *worldID, world.Config().Seed)
			case err != nil:
				logger.Fatalf("load state: %v", err)
			default:
				if err := world.Import(st); err != nil {
					logger.Fatalf("import state: %v", err)
				}
				logger.Printf("resumed %s at tick %d (%d wet cells)", *worldID, st.Tick, len(st.Cells))
			}
		}
	}

	r := runner{world: world, worldID: *worldID, logger: logger, every: *every}
	if !*disableLog {
		tl := ticklog.NewTickLogger(worldDir)
		defer func() {
			if err := tl.Close(); err != nil {
				logger.Printf("close tick log: %v", err)
			}
		}()
		r.tl = tl
	}
	limit, untilSettled := *ticks, false
	if limit <= 0 {
		limit, untilSettled = *maxTicks, true
	}
	ran, runErr := r.run(ctx, limit, untilSettled)

	stats := world.Stats()
	logger.Printf("ran %d ticks: tick=%d settled=%t wet=%d volume=%d", ran, stats.Tick, world.Settled(), stats.Wet, stats.Volume)
	if untilSettled && !world.Settled() && runErr == nil {
		logger.Printf("not settled after %d ticks", limit)
	}

	if db != nil {
		// Save even when interrupted; use a fresh context.
		if err := db.SaveState(context.Background(), world.Export(*worldID)); err != nil {
			logger.Fatalf("save state: %v", err)
		}
		logger.Printf("saved %s", *worldID)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Fatalf("run: %v", runErr)
	}
}
