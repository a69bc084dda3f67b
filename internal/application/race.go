package application

// Gate guards one asynchronous concern against stale results with a
// monotonically increasing request counter. Issue a request with Next and
// capture the returned id; when the result arrives, apply it only if Stale
// reports false. Discarding a stale result is not an error — a newer
// request has superseded it.
//
// Gates are owned by the TUI model and touched only inside its update
// loop, which the runtime serializes, so no locking is needed.
type Gate struct {
	seq uint64
}

// Next registers a new request and returns its id.
func (g *Gate) Next() uint64 {
	g.seq++
	return g.seq
}

// Current returns the most recently issued id.
func (g *Gate) Current() uint64 {
	return g.seq
}

// Stale reports whether the given request id has been superseded.
func (g *Gate) Stale(id uint64) bool {
	return id != g.seq
}

// Gates bundles the independent per-concern gates. Superseding one concern
// never cancels another: a new search does not invalidate an in-flight
// warm-up tied to the previous search's results.
type Gates struct {
	Search         Gate
	Warmup         Gate
	HeadingPreview Gate
	TargetList     Gate
	TargetPreview  Gate
}
