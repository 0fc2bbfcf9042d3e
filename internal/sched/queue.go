// Package sched provides the deferred-work queue the host event loop
// drains once per processing tick. Deferring is the engine's reentrancy
// defense: a dismissal scheduled from inside a capture or menu handler
// runs only after the current dispatch completes.
package sched

// Queue is a FIFO of callbacks for the next processing turn. There is no
// cancellation; deferred work re-checks state when it runs, so a task that
// became moot is a natural no-op.
type Queue struct {
	tasks []func()
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Defer appends fn to run on the next Drain. Nil callbacks are dropped.
func (q *Queue) Defer(fn func()) {
	if fn == nil {
		return
	}
	q.tasks = append(q.tasks, fn)
}

// Drain runs the tasks queued so far, in order. Tasks deferred while
// draining belong to the next turn and are not run now.
func (q *Queue) Drain() {
	pending := q.tasks
	q.tasks = nil
	for _, fn := range pending {
		fn()
	}
}

// Len returns the number of tasks waiting for the next turn.
func (q *Queue) Len() int {
	return len(q.tasks)
}
