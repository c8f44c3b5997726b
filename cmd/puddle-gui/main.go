//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"puddle/internal/app"
	"puddle/internal/core"
	"puddle/internal/sims/water"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := log.New(os.Stderr, "[puddle-gui] ", log.LstdFlags|log.Lmicroseconds)

	var sim core.Sim
	if cfg.ConfigPath != "" {
		wc, err := water.LoadFile(cfg.ConfigPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		if cfg.Width > 0 {
			wc.Width = cfg.Width
		}
		if cfg.Height > 0 {
			wc.Height = cfg.Height
		}
		sim = water.NewWithConfig(wc, logger)
	} else {
		factory, err := core.Lookup(cfg.Sim)
		if err != nil {
			log.Fatal(err)
		}
		sim = factory(cfg.SimOptions())
	}
	sim.Reset(cfg.Seed)

	game := app.New(sim, cfg)
	size := sim.Size()

	ebiten.SetWindowTitle("puddle - " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+max(cfg.HUDWidth, 0), size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
