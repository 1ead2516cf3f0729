package session

import "sync"

// Update is one state change destined for the presentation layer. Nil fields
// carry no change.
type Update struct {
	Running *bool
	Output  *string
	Status  *string
}

// RunningUpdate reports a session starting or ending.
func RunningUpdate(v bool) Update { return Update{Running: &v} }

// OutputUpdate replaces the displayed output text.
func OutputUpdate(s string) Update { return Update{Output: &s} }

// StatusUpdate replaces the displayed status line.
func StatusUpdate(s string) Update { return Update{Status: &s} }

// Sink receives controller updates. Publish must not block the caller and
// must not panic.
type Sink interface {
	Publish(Update)
}

// Dispatcher marshals updates onto a single consumer goroutine in publish
// order. The apply callback is the only code allowed to touch the
// presentation layer; the queue is unbounded so producers never block.
type Dispatcher struct {
	apply func(Update)
	wake  chan struct{}
	done  chan struct{}

	mu     sync.Mutex
	queue  []Update
	closed bool
}

// NewDispatcher starts the consumer goroutine applying updates in order.
func NewDispatcher(apply func(Update)) *Dispatcher {
	d := &Dispatcher{
		apply: apply,
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	go d.loop()
	return d
}

// Publish enqueues an update. It never blocks; after Close it is a no-op.
func (d *Dispatcher) Publish(u Update) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.queue = append(d.queue, u)
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Close drains pending updates, stops the consumer, and waits for it.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return
	}
	d.closed = true
	close(d.wake)
	d.mu.Unlock()
	<-d.done
}

func (d *Dispatcher) loop() {
	defer close(d.done)
	for range d.wake {
		d.drain()
	}
	d.drain()
}

func (d *Dispatcher) drain() {
	for {
		d.mu.Lock()
		batch := d.queue
		d.queue = nil
		d.mu.Unlock()
		if len(batch) == 0 {
			return
		}
		for _, u := range batch {
			d.apply(u)
		}
	}
}
