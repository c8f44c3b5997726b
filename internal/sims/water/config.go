package water

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"puddle/internal/flow"
)

// Params holds the flow tunables and the terrain seeding knobs.
type Params struct {
	StabilityCap        int     `yaml:"stability_cap"`
	MinVolumeDifference int     `yaml:"min_volume_difference"`
	MaxTransfersPerTick int     `yaml:"max_transfers_per_tick"`
	BoostThreshold      float64 `yaml:"boost_threshold"`
	BoostStep           int     `yaml:"boost_step"`

	RockChance   float64 `yaml:"rock_chance"`
	CrateChance  float64 `yaml:"crate_chance"`
	PlantChance  float64 `yaml:"plant_chance"`
	SourceCount  int     `yaml:"source_count"`
	SourceVolume int     `yaml:"source_volume"`
	PourVolume   int     `yaml:"pour_volume"`
	TicksPerStep int     `yaml:"ticks_per_step"`
}

// Config controls the water simulation dimensions.
type Config struct {
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Seed   int64 `yaml:"seed"`

	Params Params `yaml:"params"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	fs := flow.DefaultSettings()
	return Config{
		Width:  128,
		Height: 96,
		Seed:   1337,
		Params: Params{
			StabilityCap:        fs.StabilityCap,
			MinVolumeDifference: fs.MinVolumeDifference,
			MaxTransfersPerTick: 4096,
			BoostThreshold:      fs.BoostThreshold,
			BoostStep:           fs.BoostStep,
			RockChance:          0.04,
			CrateChance:         0.01,
			PlantChance:         0.02,
			SourceCount:         6,
			SourceVolume:        flow.MaxVolume,
			PourVolume:          flow.MaxVolume,
			TicksPerStep:        1,
		},
	}
}

// FlowSettings exposes the flow tunables to the engine.
func (p Params) FlowSettings() flow.Settings {
	return flow.Settings{
		StabilityCap:        p.StabilityCap,
		MinVolumeDifference: p.MinVolumeDifference,
		MaxTransfersPerTick: p.MaxTransfersPerTick,
		BoostThreshold:      p.BoostThreshold,
		BoostStep:           p.BoostStep,
	}
}

// LoadFile reads a YAML config on top of the defaults.
func LoadFile(path string) (Config, error) {
	c := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c.sanitized(), nil
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	intKeys := map[string]*int{
		"w":                      &c.Width,
		"h":                      &c.Height,
		"stability_cap":          &c.Params.StabilityCap,
		"min_volume_difference":  &c.Params.MinVolumeDifference,
		"max_transfers_per_tick": &c.Params.MaxTransfersPerTick,
		"boost_step":             &c.Params.BoostStep,
		"source_count":           &c.Params.SourceCount,
		"source_volume":          &c.Params.SourceVolume,
		"pour_volume":            &c.Params.PourVolume,
		"ticks_per_step":         &c.Params.TicksPerStep,
	}
	for key, dst := range intKeys {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.Atoi(v); err == nil {
				*dst = parsed
			}
		}
	}
	floatKeys := map[string]*float64{
		"boost_threshold": &c.Params.BoostThreshold,
		"rock_chance":     &c.Params.RockChance,
		"crate_chance":    &c.Params.CrateChance,
		"plant_chance":    &c.Params.PlantChance,
	}
	for key, dst := range floatKeys {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = parsed
			}
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	return c.sanitized()
}

// sanitized clamps values that would make the world unusable. Flow tunables
// are clamped again by the engine every tick.
func (c Config) sanitized() Config {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	s := c.Params.FlowSettings().Normalize()
	c.Params.StabilityCap = s.StabilityCap
	c.Params.MinVolumeDifference = s.MinVolumeDifference
	c.Params.MaxTransfersPerTick = s.MaxTransfersPerTick
	c.Params.BoostThreshold = s.BoostThreshold
	c.Params.BoostStep = s.BoostStep
	c.Params.RockChance = clamp01(c.Params.RockChance)
	c.Params.CrateChance = clamp01(c.Params.CrateChance)
	c.Params.PlantChance = clamp01(c.Params.PlantChance)
	if c.Params.SourceCount < 0 {
		c.Params.SourceCount = 0
	}
	c.Params.SourceVolume = clampVolume(c.Params.SourceVolume)
	c.Params.PourVolume = clampVolume(c.Params.PourVolume)
	if c.Params.TicksPerStep < 1 {
		c.Params.TicksPerStep = 1
	}
	return c
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampVolume(v int) int {
	if v < 1 {
		return 1
	}
	if v > flow.MaxVolume {
		return flow.MaxVolume
	}
	return v
}
