package tracker

import (
	"sync"

	"toolup/pkg/notify"
)

type request struct {
	n     notify.Notification
	reply chan bool
}

// Queue serialises notifications from any number of goroutines onto a
// single goroutine that owns the wrapped handler.
// Mutable
type Queue struct {
	reqs chan request
	done chan struct{}
	once sync.Once
}

var _ notify.Handler = (*Queue)(nil)

// NewQueue starts a goroutine delivering notifications to h.
func NewQueue(h notify.Handler) *Queue {
	q := &Queue{
		reqs: make(chan request),
		done: make(chan struct{}),
	}
	go func() {
		defer close(q.done)
		for r := range q.reqs {
			r.reply <- h.HandleNotification(r.n)
		}
	}()
	return q
}

// HandleNotification delivers n and waits until it has been handled.
// It must not be called after Close.
func (q *Queue) HandleNotification(n notify.Notification) bool {
	reply := make(chan bool, 1)
	q.reqs <- request{n: n, reply: reply}
	return <-reply
}

// Close stops the queue after pending notifications have been handled.
func (q *Queue) Close() {
	q.once.Do(func() { close(q.reqs) })
	<-q.done
}
