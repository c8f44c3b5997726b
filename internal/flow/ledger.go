package flow

import "fmt"

// Ledger is the projected volume of every cell touched this tick. Entries
// are seeded lazily from live state and then adjusted by each transfer.
type Ledger struct {
	live  VolumeFunc
	vols  map[Pos]int
	order []Pos
}

func newLedger(live VolumeFunc) *Ledger {
	return &Ledger{live: live, vols: map[Pos]int{}}
}

// Seed records the live volume for p unless p is already present, and
// returns the projected volume.
func (l *Ledger) Seed(p Pos) int {
	if v, ok := l.vols[p]; ok {
		return v
	}
	v := l.live(p)
	l.vols[p] = v
	l.order = append(l.order, p)
	return v
}

// Record applies t to the projection: the source loses the amount and the
// destination gains it. No other entry changes.
func (l *Ledger) Record(t Transfer) {
	l.Seed(t.Src)
	l.Seed(t.Dst)
	l.vols[t.Src] -= t.Amount
	l.vols[t.Dst] += t.Amount
}

// Projected returns the projected volume of p and whether p was touched.
func (l *Ledger) Projected(p Pos) (int, bool) {
	v, ok := l.vols[p]
	return v, ok
}

// Volume returns the projected volume of p, falling back to live state for
// untouched cells.
func (l *Ledger) Volume(p Pos) int {
	if v, ok := l.vols[p]; ok {
		return v
	}
	return l.live(p)
}

// Len returns the number of touched cells.
func (l *Ledger) Len() int { return len(l.order) }

// Each visits entries in the order they were first touched.
func (l *Ledger) Each(fn func(p Pos, projected int)) {
	for _, p := range l.order {
		fn(p, l.vols[p])
	}
}

// Validate checks every projected volume against [0, MaxVolume].
func (l *Ledger) Validate() error {
	for _, p := range l.order {
		v := l.vols[p]
		if v < 0 || v > MaxVolume {
			return fmt.Errorf("projected volume %d at (%d,%d): %w", v, p.X, p.Z, ErrInvariant)
		}
	}
	return nil
}

func (l *Ledger) reset() {
	clear(l.vols)
	l.order = l.order[:0]
}
