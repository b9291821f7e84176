package game

import (
	"sync"
	"time"
)

// mailbox serializes every operation and timer fire of one coordinator onto a
// single goroutine. Ordering, not just exclusion, is the contract: an event is
// handled to completion before the next is dequeued.
type mailbox struct {
	calls chan func()
	done  chan struct{}
	once  sync.Once
}

func newMailbox() *mailbox {
	m := &mailbox{
		calls: make(chan func(), 64),
		done:  make(chan struct{}),
	}
	go m.run()
	return m
}

func (m *mailbox) run() {
	for {
		select {
		case fn := <-m.calls:
			fn()
		case <-m.done:
			return
		}
	}
}

// post queues fn for asynchronous execution. Posts against a stopped
// coordinator are dropped.
func (m *mailbox) post(fn func()) {
	select {
	case m.calls <- fn:
	case <-m.done:
	}
}

// call runs fn on the coordinator goroutine and blocks until it returns.
// It reports false when the coordinator stopped before fn ran.
func (m *mailbox) call(fn func()) bool {
	ran := make(chan struct{})
	select {
	case m.calls <- func() { fn(); close(ran) }:
	case <-m.done:
		return false
	}
	select {
	case <-ran:
		return true
	case <-m.done:
		// fn may still have been dequeued right before the stop
		select {
		case <-ran:
			return true
		default:
			return false
		}
	}
}

// after schedules fn to run on the coordinator goroutine once d elapses.
// Stopping the returned timer is not atomic with the fire: callers guard
// handlers with a sequence check so a superseded fire is a no-op.
func (m *mailbox) after(d time.Duration, fn func()) *time.Timer {
	return time.AfterFunc(d, func() { m.post(fn) })
}

func (m *mailbox) stop() {
	m.once.Do(func() { close(m.done) })
}
