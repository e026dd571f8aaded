package cache

import (
	"sync"

	"ytresolve/internal/resolve"
)

type call struct {
	done    chan struct{}
	result  resolve.Result
	waiters int
}

// Group collapses concurrent resolves of the same key into a single call.
type Group struct {
	mu    sync.Mutex
	calls map[string]*call
}

// NewGroup returns an empty Group.
func NewGroup() *Group {
	return &Group{calls: make(map[string]*call)}
}

// Do runs fn once per key at a time. Callers that arrive while fn is running
// wait for it and get the same result with shared set to true.
func (g *Group) Do(key string, fn func() resolve.Result) (r resolve.Result, shared bool) {
	g.mu.Lock()
	if c, ok := g.calls[key]; ok {
		c.waiters++
		g.mu.Unlock()
		<-c.done
		return c.result, true
	}
	c := &call{done: make(chan struct{})}
	g.calls[key] = c
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.calls, key)
		g.mu.Unlock()
		close(c.done)
	}()

	c.result = fn()
	return c.result, false
}

// InFlight counts keys currently being resolved.
func (g *Group) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}
