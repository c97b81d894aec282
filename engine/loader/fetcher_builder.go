package loader

import "go.uber.org/zap"

// FetcherBuilderOption is a functional option for configuring a Fetcher via NewFetcher.
type FetcherBuilderOption func(*fetcher)

// WithWorkers is an option builder that sets the number of parse workers.
// Zero parses on the calling goroutine, which keeps tests deterministic; results are still posted.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - FetcherBuilderOption: a function that applies the worker count to a fetcher
func WithWorkers(n int) FetcherBuilderOption {
	return func(f *fetcher) {
		f.workers = max(n, 0)
	}
}

// WithQueueSize is an option builder that sets the capacity of the pending parse queue.
//
// Parameters:
//   - n: the queue capacity
//
// Returns:
//   - FetcherBuilderOption: a function that applies the queue size to a fetcher
func WithQueueSize(n int) FetcherBuilderOption {
	return func(f *fetcher) {
		if n > 0 {
			f.queueSize = n
		}
	}
}

// WithFetcherLogger is an option builder that sets the logger used by the Fetcher.
//
// Parameters:
//   - log: the logger; nil keeps the no-op default
//
// Returns:
//   - FetcherBuilderOption: a function that applies the logger to a fetcher
func WithFetcherLogger(log *zap.Logger) FetcherBuilderOption {
	return func(f *fetcher) {
		if log != nil {
			f.log = log
		}
	}
}
