package workflow

import (
	"sort"
	"sync"
)

// Checkpoints holds one-shot resolvers keyed by checkpoint id.
type Checkpoints struct {
	mu      sync.Mutex
	pending map[string]func()
}

func NewCheckpoints() *Checkpoints {
	return &Checkpoints{pending: make(map[string]func())}
}

// Register stores resolve under id, replacing any earlier resolver.
func (c *Checkpoints) Register(id string, resolve func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[id] = resolve
}

// Resolve runs and removes the resolver for id. It reports false when no
// checkpoint with that id is pending.
func (c *Checkpoints) Resolve(id string) bool {
	c.mu.Lock()
	fn, ok := c.pending[id]
	delete(c.pending, id)
	c.mu.Unlock()
	if !ok {
		return false
	}
	fn()
	return true
}

// Pending lists waiting checkpoint ids.
func (c *Checkpoints) Pending() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.pending))
	for id := range c.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
