package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"puddle/internal/core"
	"puddle/internal/sims/water"
)

func main() {
	configPath := flag.String("config", "", "YAML world config")
	seed := flag.Int64("seed", time.Now().UnixNano(), "world seed")
	tps := flag.Int("tps", 20, "simulation steps per second")
	logPath := flag.String("log", "", "append diagnostics to this file instead of discarding them")
	flag.Parse()

	var logger *log.Logger
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("open log: %v", err)
		}
		defer f.Close()
		logger = log.New(f, "[puddle-term] ", log.LstdFlags|log.Lmicroseconds)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("screen init: %v", err)
	}
	screen.EnableMouse()

	cfg := water.DefaultConfig()
	if *configPath != "" {
		if cfg, err = water.LoadFile(*configPath); err != nil {
			screen.Fini()
			log.Fatalf("load config: %v", err)
		}
	} else {
		// One terminal cell per grid cell, leaving room for the status lines.
		w, h := screen.Size()
		cfg.Width, cfg.Height = max(w, 8), max(h-statusLines, 4)
	}

	world := water.NewWithConfig(cfg, logger)
	world.Reset(*seed)

	v := &viewer{
		screen: screen,
		world:  world,
		clock:  core.NewFixedStep(*tps),
		seed:   *seed,
	}
	v.run()
	screen.Fini()
}
