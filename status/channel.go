package status

import (
	"context"
	"errors"
	"sync"

	"github.com/creativeprojects/imapstatus/mailbox"
)

var ErrClosed = errors.New("status channel closed")

// Channel is an unbounded FIFO of events, with many senders and a single receiver.
// Send never blocks.
type Channel struct {
	mu     sync.Mutex
	queue  []mailbox.Event
	ready  chan struct{}
	closed bool
}

func NewChannel() *Channel {
	return &Channel{
		queue: make([]mailbox.Event, 0, 16),
		ready: make(chan struct{}, 1),
	}
}

// Send queues the event. It is dropped if the channel is closed.
func (c *Channel) Send(event mailbox.Event) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.queue = append(c.queue, event)
	c.mu.Unlock()
	c.notify()
}

// Receive blocks until an event is available, the channel is closed and drained, or the context is done.
func (c *Channel) Receive(ctx context.Context) (mailbox.Event, error) {
	for {
		c.mu.Lock()
		if len(c.queue) > 0 {
			event := c.queue[0]
			c.queue[0] = mailbox.Event{}
			c.queue = c.queue[1:]
			c.mu.Unlock()
			return event, nil
		}
		closed := c.closed
		c.mu.Unlock()

		if closed {
			return mailbox.Event{}, ErrClosed
		}

		select {
		case <-ctx.Done():
			return mailbox.Event{}, ctx.Err()
		case <-c.ready:
		}
	}
}

// Close wakes up the receiver. Events already queued are still delivered.
func (c *Channel) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.notify()
}

// Len returns the number of events waiting to be received
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

func (c *Channel) notify() {
	select {
	case c.ready <- struct{}{}:
	default:
	}
}
