package main

import (
	"context"
	"log"

	"puddle/internal/persistence/ticklog"
	"puddle/internal/sims/water"
)

type tickWriter interface {
	WriteTick(ticklog.Record) error
}

type runner struct {
	world   *water.World
	worldID string
	tl      tickWriter
	logger  *log.Logger
	every   int
}

// run ticks the world up to limit times, stopping early on cancellation, on
// an invariant error, or once settled when untilSettled is set.
func (r *runner) run(ctx context.Context, limit int, untilSettled bool) (int, error) {
	for i := 0; i < limit; i++ {
		if untilSettled && r.world.Settled() {
			return i, nil
		}
		if err := ctx.Err(); err != nil {
			return i, err
		}
		res, tickErr := r.world.Tick()
		stats := r.world.Stats()
		if r.tl != nil {
			rec := ticklog.Record{
				World:      r.worldID,
				Tick:       stats.Tick,
				Candidates: res.Candidates,
				Transfers:  res.Transfers,
				Changed:    res.Changed,
				Created:    res.Created,
				Drained:    res.Drained,
				Stabilized: res.Stabilized,
				Reset:      res.Reset,
				Skipped:    res.Skipped,
				Boosted:    res.Boosted,
				Halted:     res.Halted,
				Active:     stats.Active,
				Wet:        stats.Wet,
				Volume:     stats.Volume,
			}
			if tickErr != nil {
				rec.Error = tickErr.Error()
			}
			if err := r.tl.WriteTick(rec); err != nil {
				r.logger.Printf("tick log: %v", err)
			}
		}
		if tickErr != nil {
			return i + 1, tickErr
		}
		if r.every > 0 && stats.Tick%int64(r.every) == 0 {
			r.logger.Printf("tick %d active=%d wet=%d transfers=%d", stats.Tick, stats.Active, stats.Wet, res.Transfers)
		}
	}
	return limit, nil
}
