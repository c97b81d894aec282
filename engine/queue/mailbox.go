package queue

import "sync"

// Mailbox collects continuations posted from any goroutine and runs them on the logic thread
// when Drain is called. Continuations posted while a Drain is running wait for the next Drain.
type Mailbox struct {
	mu      sync.Mutex
	pending []func()
}

// NewMailbox creates an empty Mailbox.
//
// Returns:
//   - *Mailbox: the mailbox
func NewMailbox() *Mailbox {
	return &Mailbox{}
}

// Post schedules fn for the next Drain. Safe for concurrent use.
//
// Parameters:
//   - fn: the continuation
func (m *Mailbox) Post(fn func()) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.pending = append(m.pending, fn)
	m.mu.Unlock()
}

// Drain runs every continuation posted before the call, in posting order.
//
// Returns:
//   - int: the number of continuations run
func (m *Mailbox) Drain() int {
	m.mu.Lock()
	batch := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Len returns the number of continuations waiting.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
