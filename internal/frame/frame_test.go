package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatestValueWins(t *testing.T) {
	var c Coalescer[int]

	t1, req := c.Schedule(1)
	assert.True(t, req)
	t2, req := c.Schedule(2)
	assert.False(t, req)
	t3, req := c.Schedule(3)
	assert.False(t, req)

	_, ok := c.Fire(t1)
	assert.False(t, ok)
	_, ok = c.Fire(t2)
	assert.False(t, ok)

	v, ok := c.Fire(t3)
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.False(t, c.Pending())

	_, ok = c.Fire(t3)
	assert.False(t, ok)
}

func TestFlush(t *testing.T) {
	var c Coalescer[string]
	_, ok := c.Flush()
	assert.False(t, ok)

	tok, _ := c.Schedule("move")
	v, ok := c.Flush()
	assert.True(t, ok)
	assert.Equal(t, "move", v)

	_, ok = c.Fire(tok)
	assert.False(t, ok)

	_, req := c.Schedule("again")
	assert.True(t, req)
}
