// Package frame coalesces high-frequency pointer moves onto display frames.
package frame

import "time"

// DefaultInterval is one frame at roughly 60Hz.
const DefaultInterval = 16 * time.Millisecond

// Coalescer holds at most one pending value per frame. Scheduling a new
// value replaces the pending one and invalidates earlier tokens, which
// behaves like cancelling and re-requesting the frame.
type Coalescer[T any] struct {
	token   uint64
	pending bool
	value   T
}

// Schedule stores v as the pending value. The returned token identifies the
// frame request; request is true when no frame was pending before.
func (c *Coalescer[T]) Schedule(v T) (token uint64, request bool) {
	request = !c.pending
	c.token++
	c.pending = true
	c.value = v
	return c.token, request
}

// Fire returns the pending value if token is the latest one.
func (c *Coalescer[T]) Fire(token uint64) (T, bool) {
	var zero T
	if !c.pending || token != c.token {
		return zero, false
	}
	v := c.value
	c.pending = false
	c.value = zero
	return v, true
}

// Flush drains the pending value regardless of token.
func (c *Coalescer[T]) Flush() (T, bool) {
	var zero T
	if !c.pending {
		return zero, false
	}
	return c.Fire(c.token)
}

func (c *Coalescer[T]) Token() uint64 { return c.token }

func (c *Coalescer[T]) Pending() bool { return c.pending }
