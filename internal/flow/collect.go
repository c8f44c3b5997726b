package flow

// Collect scans candidates and records at most one outgoing transfer per
// source into the ledger. Live state is only read. It returns the number of
// transfers recorded by this call.
func (e *Engine) Collect(candidates []Pos) int {
	recorded := 0
	limit := e.settings.MaxTransfersPerTick
	for _, p := range candidates {
		if limit > 0 && len(e.transfers) >= limit {
			e.result.Halted = true
			break
		}
		if e.visited(p) {
			continue
		}
		v := e.cells.VolumeAt(p)
		if v <= 0 {
			e.stale = append(e.stale, p)
			continue
		}
		e.visit(p)
		e.ledger.Seed(p)
		if v <= 1 {
			continue
		}
		if e.eval.AtEquilibrium(p, e.cells.VolumeAt) {
			continue
		}
		t, ok := e.chooseTransfer(p, v)
		if !ok {
			continue
		}
		e.record(t)
		recorded++
	}
	return recorded
}

func (e *Engine) chooseTransfer(src Pos, v int) (Transfer, bool) {
	var open [4]Pos
	n := e.eval.OpenNeighbors(src, &open)
	if n == 0 {
		return Transfer{}, false
	}

	var picks [4]Pos
	k := 0
	for i := 0; i < n; i++ {
		if e.cells.VolumeAt(open[i]) <= 0 && e.hasRoom(open[i]) {
			picks[k] = open[i]
			k++
		}
	}
	if k > 0 {
		return Transfer{Src: src, Dst: picks[e.pick(k)], Amount: 1}, true
	}

	gap := e.settings.transferGap()
	best := MaxVolume + 1
	k = 0
	for i := 0; i < n; i++ {
		nv := e.cells.VolumeAt(open[i])
		if nv <= 0 || nv >= MaxVolume || nv+gap > v {
			continue
		}
		if !e.hasRoom(open[i]) {
			continue
		}
		if nv < best {
			best = nv
			k = 0
		}
		if nv == best {
			picks[k] = open[i]
			k++
		}
	}
	if k == 0 {
		return Transfer{}, false
	}
	return Transfer{Src: src, Dst: picks[e.pick(k)], Amount: 1}, true
}

// hasRoom vetoes a destination whose projection is already full, so fan-in
// from several sources never pushes a cell past MaxVolume.
func (e *Engine) hasRoom(dst Pos) bool {
	return e.ledger.Volume(dst)+1 <= MaxVolume
}

func (e *Engine) pick(n int) int {
	if n <= 1 {
		return 0
	}
	i := e.picker.IntN(n)
	if i < 0 || i >= n {
		return 0
	}
	return i
}

func (e *Engine) record(t Transfer) {
	e.ledger.Record(t)
	e.transfers = append(e.transfers, t)
	e.visit(t.Src)
	e.visit(t.Dst)
	e.result.Transfers++
}

func (e *Engine) visited(p Pos) bool {
	_, ok := e.seen[p]
	return ok
}

func (e *Engine) visit(p Pos) {
	if _, ok := e.seen[p]; ok {
		return
	}
	e.seen[p] = struct{}{}
	e.visitOrder = append(e.visitOrder, p)
}
