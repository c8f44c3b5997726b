package flow

// VolumeFunc reads a cell volume from one consistent source, either live
// cell state or the projected ledger.
type VolumeFunc func(Pos) int

// Evaluator decides whether a cell has settled relative to its neighbors.
type Evaluator struct {
	grid      Grid
	tolerance int
}

// NewEvaluator returns an evaluator using tolerance δ.
func NewEvaluator(grid Grid, tolerance int) Evaluator {
	if tolerance < 0 {
		tolerance = 0
	}
	return Evaluator{grid: grid, tolerance: tolerance}
}

// Open reports whether water may flow into p: in bounds, walkable, and not
// occupied by a solid building.
func (e Evaluator) Open(p Pos) bool {
	if !e.grid.InBounds(p) || !e.grid.Walkable(p) {
		return false
	}
	for _, thing := range e.grid.ThingsAt(p) {
		if thing.IsBuilding() && thing.FillRatio() > solidFillThreshold {
			return false
		}
	}
	return true
}

// OpenNeighbors fills buf with the open cardinal neighbors of p and returns
// how many were written.
func (e Evaluator) OpenNeighbors(p Pos, buf *[4]Pos) int {
	n := 0
	for _, nb := range p.Neighbors() {
		if e.Open(nb) {
			buf[n] = nb
			n++
		}
	}
	return n
}

// AtEquilibrium reports whether p is settled. Isolated cells always are.
// A cell next to an empty open cell is settled only at volume 1 or less.
// Otherwise the cell is settled when it and all its neighbors form a plateau
// within the tolerance; any other configuration counts as unsettled.
func (e Evaluator) AtEquilibrium(p Pos, volumeOf VolumeFunc) bool {
	var buf [4]Pos
	n := e.OpenNeighbors(p, &buf)
	if n == 0 {
		return true
	}
	v := volumeOf(p)
	if v <= 0 {
		return false
	}

	var vols [4]int
	for i := 0; i < n; i++ {
		vols[i] = volumeOf(buf[i])
		if vols[i] <= 0 {
			return v <= 1
		}
	}

	d := e.tolerance
	hasLower, hasHigher := false, false
	minN, maxN := vols[0], vols[0]
	for i := 0; i < n; i++ {
		nv := vols[i]
		if nv < v-d {
			hasLower = true
		}
		if nv > v+d {
			hasHigher = true
		}
		if nv < minN {
			minN = nv
		}
		if nv > maxN {
			maxN = nv
		}
	}

	switch {
	case hasLower && hasHigher:
		return false
	case hasLower && v > 1:
		return false
	case hasHigher && v < MaxVolume:
		return false
	}
	return maxN-minN <= d && abs(v-vols[0]) <= d
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
