package water

import (
	"strconv"

	"puddle/internal/core"
	"puddle/internal/flow"
)

func (w *World) Parameters() core.ParameterSnapshot {
	params := w.cfg.Params
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.cfg.Width),
				intParam("h", "Height", w.cfg.Height),
				int64Param("seed", "Seed", w.cfg.Seed),
			},
		},
		{
			Name: "Flow",
			Params: []core.Parameter{
				intParam("stability_cap", "Stability cap", params.StabilityCap),
				intParam("min_volume_difference", "Min volume difference", params.MinVolumeDifference),
				intParam("max_transfers_per_tick", "Max transfers per tick", params.MaxTransfersPerTick),
				floatParam("boost_threshold", "Boost threshold", params.BoostThreshold),
				intParam("boost_step", "Boost step", params.BoostStep),
				intParam("ticks_per_step", "Ticks per step", params.TicksPerStep),
			},
		},
		{
			Name: "Terrain Seeding",
			Params: []core.Parameter{
				floatParam("rock_chance", "Rock chance", params.RockChance),
				floatParam("crate_chance", "Crate chance", params.CrateChance),
				floatParam("plant_chance", "Plant chance", params.PlantChance),
				intParam("source_count", "Source count", params.SourceCount),
				intParam("source_volume", "Source volume", params.SourceVolume),
				intParam("pour_volume", "Pour volume", params.PourVolume),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the tunables the HUD may edit. Flow and pouring
// controls apply on the next tick; seeding controls apply on the next reset.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Group: groupFlow, Key: "stability_cap", Label: "Stability cap", Type: core.ParamTypeInt, Step: 5, Min: 1, Max: flow.HardStabilityCeiling, HasMin: true, HasMax: true},
		{Group: groupFlow, Key: "min_volume_difference", Label: "Min vol diff", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: flow.MaxVolume, HasMin: true, HasMax: true},
		{Group: groupFlow, Key: "max_transfers_per_tick", Label: "Max transfers", Type: core.ParamTypeInt, Step: 256, Min: 0, HasMin: true},
		{Group: groupFlow, Key: "boost_threshold", Label: "Boost threshold", Type: core.ParamTypeFloat, Step: 0.01, Min: 0.01, Max: 1, HasMin: true, HasMax: true},
		{Group: groupFlow, Key: "boost_step", Label: "Boost step", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 50, HasMin: true, HasMax: true},
		{Group: groupRun, Key: "ticks_per_step", Label: "Ticks per frame", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 32, HasMin: true, HasMax: true},
		{Group: groupRun, Key: "pour_volume", Label: "Pour volume", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: flow.MaxVolume, HasMin: true, HasMax: true},
		{Group: groupSeeding, Key: "source_count", Label: "Sources", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 256, HasMin: true, HasMax: true},
		{Group: groupSeeding, Key: "source_volume", Label: "Source volume", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: flow.MaxVolume, HasMin: true, HasMax: true},
		{Group: groupSeeding, Key: "rock_chance", Label: "Rock chance", Type: core.ParamTypeFloat, Step: 0.01, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Group: groupSeeding, Key: "crate_chance", Label: "Crate chance", Type: core.ParamTypeFloat, Step: 0.005, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Group: groupSeeding, Key: "plant_chance", Label: "Plant chance", Type: core.ParamTypeFloat, Step: 0.01, Min: 0, Max: 1, HasMin: true, HasMax: true},
	}
}

const (
	groupFlow    = "Flow"
	groupRun     = "Run"
	groupSeeding = "Seeding (on reset)"
)

// SetIntParameter updates an integer tunable. Values are clamped the same
// way a loaded config is.
func (w *World) SetIntParameter(key string, value int) bool {
	p := &w.cfg.Params
	switch key {
	case "stability_cap":
		p.StabilityCap = value
	case "min_volume_difference":
		p.MinVolumeDifference = value
	case "max_transfers_per_tick":
		p.MaxTransfersPerTick = value
	case "boost_step":
		p.BoostStep = value
	case "ticks_per_step":
		p.TicksPerStep = value
	case "source_count":
		p.SourceCount = value
	case "source_volume":
		p.SourceVolume = value
	case "pour_volume":
		p.PourVolume = value
	default:
		return false
	}
	w.cfg = w.cfg.sanitized()
	w.dirty = true
	return true
}

// SetFloatParameter updates a floating point tunable.
func (w *World) SetFloatParameter(key string, value float64) bool {
	p := &w.cfg.Params
	switch key {
	case "boost_threshold":
		p.BoostThreshold = value
	case "rock_chance":
		p.RockChance = value
	case "crate_chance":
		p.CrateChance = value
	case "plant_chance":
		p.PlantChance = value
	default:
		return false
	}
	w.cfg = w.cfg.sanitized()
	w.dirty = true
	return true
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
