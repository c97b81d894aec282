package queue

import "go.uber.org/zap"

// QueueBuilderOption is a functional option for configuring a Queue during construction.
type QueueBuilderOption func(*queue)

// WithFreshness is an option builder that gates task starts on a freshness probe.
//
// Parameters:
//   - probe: reports whether the live state matches the state the queue last observed
//
// Returns:
//   - QueueBuilderOption: a function that applies the probe to a queue
func WithFreshness(probe FreshnessProbe) QueueBuilderOption {
	return func(q *queue) {
		q.fresh = probe
	}
}

// WithRetry is an option builder that sets how a stale drain is rescheduled for the next tick.
// Without it a stale queue goes idle and resumes on the next RunIfIdle.
//
// Parameters:
//   - post: schedules a function on the next tick
//
// Returns:
//   - QueueBuilderOption: a function that applies the poster to a queue
func WithRetry(post Poster) QueueBuilderOption {
	return func(q *queue) {
		q.retry = post
	}
}

// WithStaleWarnAfter is an option builder that sets how many consecutive stale drain attempts are
// tolerated before a warning is logged.
//
// Parameters:
//   - ticks: the number of attempts; non-positive disables the warning
//
// Returns:
//   - QueueBuilderOption: a function that applies the threshold to a queue
func WithStaleWarnAfter(ticks int) QueueBuilderOption {
	return func(q *queue) {
		q.staleWarnAfter = ticks
	}
}

// WithLogger is an option builder that sets the queue's logger.
//
// Parameters:
//   - log: the logger; nil keeps the no-op default
//
// Returns:
//   - QueueBuilderOption: a function that applies the logger to a queue
func WithLogger(log *zap.Logger) QueueBuilderOption {
	return func(q *queue) {
		if log != nil {
			q.log = log
		}
	}
}
