package queue

import (
	"go.uber.org/zap"
)

// FreshnessProbe reports whether the game state a task would observe is current.
type FreshnessProbe func() bool

// Poster schedules fn to run on the next tick of the logic thread.
type Poster func(fn func())

// queue is the implementation of the Queue interface.
type queue struct {
	log *zap.Logger

	tasks []Task
	busy  bool

	draining bool
	again    bool

	fresh          FreshnessProbe
	retry          Poster
	staleWarnAfter int
	staleTicks     int

	completed uint64
}

// Queue defines a single-consumer FIFO of commands. One task runs at a time; the next one starts
// only after the current task calls its done function, even when that happens ticks later.
//
// With a FreshnessProbe configured, the queue refuses to start a task while the probe reports
// stale state. It stays busy and retries through the Poster on the next tick.
//
// A Queue is not safe for concurrent use; the owning session serializes access.
type Queue interface {
	// Enqueue appends a task. It does not start it; call RunIfIdle.
	//
	// Parameters:
	//   - task: the task to append
	Enqueue(task Task)

	// RunIfIdle starts draining the queue unless a task is in flight or a stale retry is pending.
	RunIfIdle()

	// WhenFresh runs fn now if the probe reports fresh state, otherwise retries it every tick
	// until it does. Without a probe fn runs immediately.
	//
	// Parameters:
	//   - fn: the continuation to run against fresh state
	WhenFresh(fn func())

	// Busy reports whether a task is in flight or a stale retry is pending.
	//
	// Returns:
	//   - bool: true while the queue is not idle
	Busy() bool

	// Len returns the number of tasks waiting to start.
	//
	// Returns:
	//   - int: the number of queued tasks
	Len() int

	// Completed returns the number of tasks that have signalled completion.
	//
	// Returns:
	//   - uint64: the completion count
	Completed() uint64
}

var _ Queue = &queue{}

// NewQueue creates a new Queue with the provided options applied.
//
// Parameters:
//   - options: a variadic list of QueueBuilderOption functions to configure the Queue
//
// Returns:
//   - Queue: the new queue
func NewQueue(options ...QueueBuilderOption) Queue {
	q := &queue{
		log:            zap.NewNop(),
		staleWarnAfter: 120,
	}
	for _, opt := range options {
		opt(q)
	}
	return q
}

func (q *queue) Enqueue(task Task) {
	if task == nil {
		return
	}
	q.tasks = append(q.tasks, task)
}

func (q *queue) RunIfIdle() {
	if q.busy {
		return
	}
	q.drain()
}

func (q *queue) WhenFresh(fn func()) {
	if q.isFresh() || q.retry == nil {
		fn()
		return
	}
	q.retry(func() { q.WhenFresh(fn) })
}

func (q *queue) Busy() bool {
	return q.busy
}

func (q *queue) Len() int {
	return len(q.tasks)
}

func (q *queue) Completed() uint64 {
	return q.completed
}

// drain starts tasks until one goes asynchronous, the queue empties or the state is stale.
// A done call arriving while drain is already on the stack only flags another pass, so
// long runs of synchronous tasks do not grow the stack.
func (q *queue) drain() {
	if q.draining {
		q.again = true
		return
	}
	q.draining = true
	defer func() { q.draining = false }()

	for {
		q.again = false

		if len(q.tasks) == 0 {
			q.busy = false
			return
		}

		if !q.isFresh() {
			q.deferDrain()
			return
		}
		q.staleTicks = 0

		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.busy = true

		task.Run(q.completion())

		if !q.again {
			// still in flight; its done call resumes draining
			return
		}
	}
}

// completion returns the done function for one task run.
func (q *queue) completion() func() {
	called := false
	return func() {
		if called {
			q.log.Warn("queued task signalled completion twice")
			return
		}
		called = true
		q.completed++
		q.drain()
	}
}

// deferDrain keeps the queue busy and schedules another drain attempt on the next tick.
func (q *queue) deferDrain() {
	q.staleTicks++
	if q.staleTicks == q.staleWarnAfter {
		q.log.Warn("command queue waiting on stale map session", zap.Int("ticks", q.staleTicks), zap.Int("pending", len(q.tasks)))
	}
	if q.retry == nil {
		q.busy = false
		return
	}
	q.busy = true
	q.retry(q.resume)
}

// resume is the retry entry point; it drains regardless of the busy flag the stale path set.
func (q *queue) resume() {
	if q.draining {
		return
	}
	q.drain()
}

func (q *queue) isFresh() bool {
	return q.fresh == nil || q.fresh()
}
