package flow

// stability holds the per-cell counters that survive between ticks. Within a
// tick only the applier mutates it; between ticks Engine.Disturb and
// Engine.RestoreCounter do.
type stability struct {
	counters map[Pos]int
}

func newStability() *stability {
	return &stability{counters: map[Pos]int{}}
}

func (s *stability) get(p Pos) (int, bool) {
	n, ok := s.counters[p]
	return n, ok
}

// capped reports whether p already sits at the cap or the hard ceiling.
func (s *stability) capped(p Pos, limit int) bool {
	n := s.counters[p]
	return n >= limit || n >= HardStabilityCeiling
}

// reset zeroes p and reports whether it had accumulated anything.
func (s *stability) reset(p Pos) bool {
	prev := s.counters[p]
	s.counters[p] = 0
	return prev > 0
}

// advance adds step to p, clamped to limit, and reports whether p just
// reached the limit.
func (s *stability) advance(p Pos, step, limit int) bool {
	if limit > HardStabilityCeiling {
		limit = HardStabilityCeiling
	}
	n := s.counters[p] + step
	if n > limit {
		n = limit
	}
	if n < 0 {
		n = 0
	}
	s.counters[p] = n
	return n >= limit
}

func (s *stability) restore(p Pos, n int) {
	if n < 0 {
		n = 0
	}
	if n > HardStabilityCeiling {
		n = HardStabilityCeiling
	}
	s.counters[p] = n
}

func (s *stability) drop(p Pos) { delete(s.counters, p) }

func (s *stability) clear() { clear(s.counters) }
