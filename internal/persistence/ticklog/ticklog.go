package ticklog

import "path/filepath"

// Record is one tick of a water world.
type Record struct {
	World      string `json:"world"`
	Tick       int64  `json:"tick"`
	Candidates int    `json:"candidates"`
	Transfers  int    `json:"transfers"`
	Changed    int    `json:"changed"`
	Created    int    `json:"created"`
	Drained    int    `json:"drained"`
	Stabilized int    `json:"stabilized"`
	Reset      int    `json:"reset"`
	Skipped    int    `json:"skipped"`
	Boosted    bool   `json:"boosted,omitempty"`
	Halted     bool   `json:"halted,omitempty"`
	Active     int    `json:"active"`
	Wet        int    `json:"wet"`
	Volume     int    `json:"volume"`
	Error      string `json:"error,omitempty"`
}

// TickLogger writes one JSONL entry per tick (compressed).
type TickLogger struct{ w *JSONLZstdWriter }

// NewTickLogger writes hourly ticks-*.jsonl.zst files under dir/ticks.
func NewTickLogger(dir string) *TickLogger {
	return &TickLogger{w: NewJSONLZstdWriter(filepath.Join(dir, "ticks"), "ticks")}
}

// WriteTick appends r to the current hour's file.
func (l *TickLogger) WriteTick(r Record) error { return l.w.Write(r) }

// Flush pushes buffered records into the compressor.
func (l *TickLogger) Flush() error { return l.w.Flush() }

// Close flushes and closes the open file.
func (l *TickLogger) Close() error { return l.w.Close() }
