package cookie

import "sync/atomic"

// streamGuard is a one-way latch flipped once the response has started.
// After that no layer of the jar may record new cookies.
type streamGuard struct {
	closed atomic.Bool
}

// close flips the latch and reports whether this call did it.
func (g *streamGuard) close() bool {
	return g.closed.CompareAndSwap(false, true)
}

func (g *streamGuard) isClosed() bool {
	return g.closed.Load()
}

func (g *streamGuard) check() error {
	if g.closed.Load() {
		return ErrClosedStream
	}
	return nil
}
