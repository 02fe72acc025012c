package live

import "sync"

// Group tracks the goroutines behind live queries so their owner can wait
// for every pending load to return before closing the store. A nil *Group
// tracks nothing.
type Group struct {
	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

// Go runs fn in a new goroutine. Goroutines started after Wait has begun
// run untracked; their context is already done by then.
func (g *Group) Go(fn func()) {
	if g == nil {
		go fn()
		return
	}
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		go fn()
		return
	}
	g.wg.Add(1)
	g.mu.Unlock()

	go func() {
		defer g.wg.Done()
		fn()
	}()
}

// Wait blocks until every tracked goroutine has returned.
func (g *Group) Wait() {
	if g == nil {
		return
	}
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
	g.wg.Wait()
}
