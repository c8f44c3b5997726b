package flow

import (
	"errors"
	"fmt"
)

// Apply commits the ledger to live state and runs stability bookkeeping. It
// returns the number of cells whose live volume changed. A ledger that fails
// validation is rejected before anything is written.
func (e *Engine) Apply() (int, error) {
	if err := e.ledger.Validate(); err != nil {
		e.logger.Printf("tick abandoned before commit: %v", err)
		return 0, err
	}

	var errs []error
	e.ledger.Each(func(p Pos, projected int) {
		if err := e.commit(p, projected); err != nil {
			errs = append(errs, err)
		}
		if got := e.cells.VolumeAt(p); got < 0 || got > MaxVolume {
			err := fmt.Errorf("live volume %d at (%d,%d) after commit: %w", got, p.X, p.Z, ErrInvariant)
			e.logger.Printf("INVARIANT: %v", err)
			errs = append(errs, err)
		}
	})

	e.settle()

	for _, p := range e.stale {
		if e.cells.VolumeAt(p) <= 0 && !e.isAffected(p) {
			e.active.Unregister(p)
			e.stab.drop(p)
		}
	}

	e.result.Changed = len(e.affectedOrder)
	return e.result.Changed, errors.Join(errs...)
}

func (e *Engine) commit(p Pos, projected int) error {
	live := e.cells.VolumeAt(p)
	switch {
	case live <= 0 && projected > 0:
		if err := e.cells.CreateAt(p); err != nil {
			e.logger.Printf("skip (%d,%d): create water: %v", p.X, p.Z, err)
			e.skipped[p] = struct{}{}
			e.active.Unregister(p)
			e.result.Skipped++
			if errors.Is(err, ErrNoWaterDef) {
				return nil
			}
			return fmt.Errorf("create water at (%d,%d): %w", p.X, p.Z, err)
		}
		if err := e.cells.SetVolume(p, projected); err != nil {
			return fmt.Errorf("set volume %d at (%d,%d): %w", projected, p.X, p.Z, err)
		}
		e.active.Register(p)
		e.markAffected(p)
		e.result.Created++
	case live > 0 && live != projected:
		if err := e.cells.SetVolume(p, projected); err != nil {
			return fmt.Errorf("set volume %d at (%d,%d): %w", projected, p.X, p.Z, err)
		}
		e.markAffected(p)
	}
	return nil
}

// settle runs the stability state machine. Changed cells restart at zero and
// wake their neighbors. Unchanged processed cells advance toward the cap
// while they stay at equilibrium against live state, and are retired from
// the active set on reaching it.
func (e *Engine) settle() {
	limit := e.settings.StabilityCap

	for _, p := range e.affectedOrder {
		if e.cells.VolumeAt(p) <= 0 {
			e.stab.drop(p)
			e.active.Unregister(p)
			e.active.ActivateNeighbors(p)
			e.result.Drained++
			continue
		}
		if e.stab.reset(p) {
			e.result.Reset++
		}
		e.active.Register(p)
		e.active.ActivateNeighbors(p)
	}

	e.pending = e.pending[:0]
	settled := 0
	for _, p := range e.visitOrder {
		if e.isAffected(p) {
			continue
		}
		if _, ok := e.skipped[p]; ok {
			continue
		}
		if e.cells.VolumeAt(p) <= 0 {
			e.stab.drop(p)
			e.active.Unregister(p)
			continue
		}
		if e.stab.capped(p, limit) {
			settled++
			e.active.Unregister(p)
			continue
		}
		if !e.eval.AtEquilibrium(p, e.cells.VolumeAt) {
			if e.stab.reset(p) {
				e.result.Reset++
			}
			continue
		}
		settled++
		e.pending = append(e.pending, p)
	}

	step := 1
	if total := len(e.visitOrder); total > 0 && float64(settled)/float64(total) > e.settings.BoostThreshold {
		step = e.settings.BoostStep
		e.result.Boosted = true
	}
	for _, p := range e.pending {
		if e.stab.advance(p, step, limit) {
			e.active.Unregister(p)
			e.result.Stabilized++
		}
	}
}

func (e *Engine) markAffected(p Pos) {
	if _, ok := e.affected[p]; ok {
		return
	}
	e.affected[p] = struct{}{}
	e.affectedOrder = append(e.affectedOrder, p)
}

func (e *Engine) isAffected(p Pos) bool {
	_, ok := e.affected[p]
	return ok
}
