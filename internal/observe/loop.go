package observe

import "sync"

// Dispatcher delivers results onto the goroutine that owns presentation state.
// Post reports whether fn was accepted; a rejected fn never runs.
type Dispatcher interface {
	Post(fn func()) bool
}

// Immediate runs every posted func inline on the caller's goroutine.
type Immediate struct{}

// Post runs fn.
func (Immediate) Post(fn func()) bool {
	fn()
	return true
}

// Loop is a serial delivery loop: posted funcs run one at a time, in post
// order, on a single goroutine. The queue is unbounded so Post never blocks,
// including when called from a delivery running on the loop itself.
type Loop struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	done   chan struct{}
}

// NewLoop starts a delivery loop.
func NewLoop() *Loop {
	l := &Loop{done: make(chan struct{})}
	l.cond = sync.NewCond(&l.mu)
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.closed {
			l.cond.Wait()
		}
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		fn()
	}
}

// Post enqueues fn. It returns false, and drops fn, once Close has been
// called.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	l.queue = append(l.queue, fn)
	l.cond.Signal()
	return true
}

// Close stops accepting funcs and waits for queued ones to finish. Close
// must not be called from a delivery running on the loop.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.cond.Broadcast()
	l.mu.Unlock()
	<-l.done
}
