package progress

import (
	"context"
	"sync"
	"time"
)

// Consumer observes the units of a context in announce order. It should
// range units until the channel is closed or ctx is done.
type Consumer func(ctx context.Context, units <-chan *Unit)

// Context multiplexes the stages of an operation into a single ordered stream
// for one consumer. Only the creator closes it.
type Context struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []*Unit
	closed bool

	units        chan *Unit
	cancel       context.CancelFunc
	pumpDone     chan struct{}
	consumerDone chan struct{}
}

// NewContext starts consumer right away so observation overlaps the first
// stage. A nil consumer drains the units.
func NewContext(ctx context.Context, consumer Consumer) *Context {
	if consumer == nil {
		consumer = Drain
	}

	cctx, cancel := context.WithCancel(ctx)
	c := &Context{
		units:        make(chan *Unit),
		cancel:       cancel,
		pumpDone:     make(chan struct{}),
		consumerDone: make(chan struct{}),
	}
	c.cond = sync.NewCond(&c.mu)

	go func() {
		defer close(c.consumerDone)
		consumer(cctx, c.units)
	}()
	go c.pump()

	return c
}

// pump moves units from the unbounded queue to the consumer channel so
// producers never wait on the consumer.
func (c *Context) pump() {
	defer close(c.pumpDone)
	for {
		c.mu.Lock()
		for len(c.queue) == 0 && !c.closed {
			c.cond.Wait()
		}
		if len(c.queue) == 0 {
			c.mu.Unlock()
			close(c.units)
			return
		}
		u := c.queue[0]
		c.queue[0] = nil
		c.queue = c.queue[1:]
		c.mu.Unlock()

		select {
		case c.units <- u:
		case <-c.consumerDone:
			return
		}
	}
}

// Next announces a new stage and returns its unit. It never blocks.
func (c *Context) Next(kind Kind, total int64) *Unit {
	u := NewUnit(kind, total)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		panic("progress: next on a closed context")
	}
	c.queue = append(c.queue, u)
	c.cond.Signal()

	return u
}

// Close ends the stream and waits for the consumer to return. A non nil err
// cancels the consumer, units announced before the failure may never finish.
// Closing twice panics.
func (c *Context) Close(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		panic("progress: context closed twice")
	}
	c.closed = true
	c.cond.Broadcast()
	c.mu.Unlock()

	if err != nil {
		c.cancel()
	}
	<-c.consumerDone
	<-c.pumpDone
	c.cancel()
}

// Attach returns parent when set, with a release that does nothing. Otherwise
// it creates a context owned by the caller and release closes it.
func Attach(ctx context.Context, parent *Context, consumer Consumer) (*Context, func(error)) {
	if parent != nil {
		return parent, func(error) {}
	}
	c := NewContext(ctx, consumer)
	return c, c.Close
}

// Drain is a Consumer that discards every unit.
func Drain(ctx context.Context, units <-chan *Unit) {
	for range units {
	}
}

// Poll returns a Consumer that calls fn for the unit being observed on every
// tick until it finishes. The last call for a unit always sees it finished.
func Poll(interval time.Duration, fn func(*Unit)) Consumer {
	return func(ctx context.Context, units <-chan *Unit) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			var (
				u  *Unit
				ok bool
			)
			select {
			case <-ctx.Done():
				return
			case u, ok = <-units:
				if !ok {
					return
				}
			}

			for {
				finished := u.Finished()
				fn(u)
				if finished {
					break
				}
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
			}
		}
	}
}
