package flow

const (
	defaultStabilityCap   = 30
	defaultBoostThreshold = 0.95
	defaultBoostStep      = 3
)

// Settings are the per-tick tunables. The zero value is usable after
// Normalize.
type Settings struct {
	// StabilityCap is the counter value at which a cell is retired.
	StabilityCap int
	// MinVolumeDifference is the tolerance δ used by the equilibrium test
	// and the transfer filter.
	MinVolumeDifference int
	// MaxTransfersPerTick halts collection once reached. Zero or less means
	// unlimited.
	MaxTransfersPerTick int
	// BoostThreshold is the share of processed cells that must be unchanged
	// and at equilibrium before counters advance by BoostStep.
	BoostThreshold float64
	// BoostStep is the boosted counter increment.
	BoostStep int
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		StabilityCap:        defaultStabilityCap,
		MinVolumeDifference: 1,
		MaxTransfersPerTick: 0,
		BoostThreshold:      defaultBoostThreshold,
		BoostStep:           defaultBoostStep,
	}
}

// FlowSettings lets a fixed Settings value act as Tunables.
func (s Settings) FlowSettings() Settings { return s }

// Normalize clamps every field into its valid range.
func (s Settings) Normalize() Settings {
	if s.StabilityCap < 1 {
		s.StabilityCap = 1
	}
	if s.StabilityCap > HardStabilityCeiling {
		s.StabilityCap = HardStabilityCeiling
	}
	if s.MinVolumeDifference < 0 {
		s.MinVolumeDifference = 0
	}
	if s.MinVolumeDifference > MaxVolume {
		s.MinVolumeDifference = MaxVolume
	}
	if s.MaxTransfersPerTick < 0 {
		s.MaxTransfersPerTick = 0
	}
	if s.BoostThreshold <= 0 || s.BoostThreshold > 1 {
		s.BoostThreshold = defaultBoostThreshold
	}
	if s.BoostStep < 1 {
		s.BoostStep = 1
	}
	return s
}

// transferGap is the minimum volume gap a transfer to an existing water
// neighbor must close. A gap of zero would only swap volumes.
func (s Settings) transferGap() int {
	if s.MinVolumeDifference < 1 {
		return 1
	}
	return s.MinVolumeDifference
}
