package store

// CellRow is one wet cell.
type CellRow struct {
	X      int `json:"x"`
	Z      int `json:"z"`
	Volume int `json:"volume"`
}

// CounterRow is one stability counter.
type CounterRow struct {
	X     int `json:"x"`
	Z     int `json:"z"`
	Count int `json:"count"`
}

// State is everything needed to resume a water world: the seed regenerates
// terrain, the rows restore water and stability.
type State struct {
	WorldID string `json:"world_id"`
	Tick    int64  `json:"tick"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Seed    int64  `json:"seed"`

	Cells    []CellRow    `json:"cells"`
	Counters []CounterRow `json:"counters"`
}
