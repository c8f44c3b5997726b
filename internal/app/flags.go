package app

import (
	"flag"
	"strconv"
	"time"
)

// Config holds the command line options shared by the viewers.
type Config struct {
	Sim        string
	ConfigPath string
	Scale      int
	TPS        int
	Seed       int64
	HUDWidth   int
	Width      int
	Height     int
}

// NewConfig returns the viewer defaults.
func NewConfig() Config {
	return Config{
		Sim:      "water",
		Scale:    6,
		TPS:      30,
		Seed:     time.Now().UnixNano(),
		HUDWidth: 280,
	}
}

// Bind registers the options on fs.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "YAML config file")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixels per cell")
	fs.IntVar(&c.TPS, "tps", c.TPS, "simulation steps per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "world seed")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "HUD panel width in pixels, 0 hides it")
	fs.IntVar(&c.Width, "w", c.Width, "grid width, 0 keeps the config value")
	fs.IntVar(&c.Height, "h", c.Height, "grid height, 0 keeps the config value")
}

// SimOptions returns the factory map for the selected sim.
func (c Config) SimOptions() map[string]string {
	opts := map[string]string{}
	if c.Width > 0 {
		opts["w"] = strconv.Itoa(c.Width)
	}
	if c.Height > 0 {
		opts["h"] = strconv.Itoa(c.Height)
	}
	return opts
}
