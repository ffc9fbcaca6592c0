package binding

import (
	"github.com/randalmurphal/enginecore/pkg/enginecore/channel"
	"github.com/randalmurphal/enginecore/pkg/enginecore/variant"
)

// Channel exposes a channel with host values.
type Channel struct {
	ch   *channel.Channel
	objs *variant.ObjectTable
}

// NewChannel wraps ch. Objects popped from it are wrapped through objs.
func NewChannel(ch *channel.Channel, objs *variant.ObjectTable) *Channel {
	return &Channel{ch: ch, objs: objs}
}

// Name returns the channel name.
func (c *Channel) Name() string { return c.ch.Name() }

// Push converts value, sends it and waits up to timeout for it to be read.
func (c *Channel) Push(value any, timeout any) (uint64, bool, error) {
	t, err := ParseTimeout(timeout)
	if err != nil {
		return 0, false, err
	}
	v, err := variant.FromValue(value)
	if err != nil {
		return 0, false, err
	}
	id, read := c.ch.Push(v, t)
	return id, read, nil
}

// Pop waits up to timeout for a message. It returns nil when none arrived.
func (c *Channel) Pop(timeout any) (any, error) {
	t, err := ParseTimeout(timeout)
	if err != nil {
		return nil, err
	}
	v, ok := c.ch.Pop(t)
	if !ok {
		return nil, nil
	}
	return v.Take(c.objs), nil
}

// Peek returns a copy of the oldest message without consuming it.
func (c *Channel) Peek() (any, bool) {
	v, ok := c.ch.Peek()
	if !ok {
		return nil, false
	}
	return v.Take(c.objs), true
}

// Clear drops every pending message.
func (c *Channel) Clear() {
	c.ch.Clear()
}

// Count returns the number of pending messages.
func (c *Channel) Count() int {
	return c.ch.Count()
}

// HasRead reports whether the message with the given id has been consumed.
func (c *Channel) HasRead(id uint64) bool {
	return c.ch.HasRead(id)
}
