package loader

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"go.uber.org/zap"
)

// FetchCallback receives the result of a Fetch on the logic thread.
type FetchCallback func(m model.Model, err error)

// Poster hands a continuation to the logic thread. The Fetcher never runs callbacks itself;
// it always posts them so they execute in the same order as other game-state mutations.
type Poster func(fn func())

// fetcher is the implementation of the Fetcher interface.
type fetcher struct {
	loader Loader
	post   Poster
	log    *zap.Logger

	workers   int
	queueSize int
	pool      worker.DynamicWorkerPool

	// pending holds tasks for the submitter, the only goroutine that touches pool.
	mu      sync.Mutex
	pending []worker.Task
	wake    chan struct{}
	done    chan struct{}

	nextID    atomic.Int64
	closeOnce sync.Once
}

// Fetcher defines the interface for asynchronous model loading.
// Parsing runs on a worker pool off the logic thread; the result is posted back through the
// configured Poster, so callbacks observe a consistent game state.
type Fetcher interface {
	// Fetch loads and instantiates the model at name and posts callback with the result.
	// Fetch never blocks on I/O.
	//
	// Parameters:
	//   - name: the model path relative to the loader's root
	//   - callback: receives the new model instance, or the load error
	Fetch(name string, callback FetchCallback)

	// Close stops the worker pool. Fetches already parsing still post their results.
	Close()
}

var _ Fetcher = &fetcher{}

// NewFetcher creates a new Fetcher that loads through l and delivers results through post.
//
// Parameters:
//   - l: the loader templates are read and cached by
//   - post: the function that schedules callbacks on the logic thread
//   - options: a variadic list of FetcherBuilderOption functions to configure the Fetcher
//
// Returns:
//   - Fetcher: the new fetcher
func NewFetcher(l Loader, post Poster, options ...FetcherBuilderOption) Fetcher {
	if l == nil {
		panic("loader: NewFetcher requires a non-nil Loader")
	}
	if post == nil {
		panic("loader: NewFetcher requires a non-nil Poster")
	}

	f := &fetcher{
		loader:    l,
		post:      post,
		log:       zap.NewNop(),
		workers:   2,
		queueSize: 64,
	}
	for _, opt := range options {
		opt(f)
	}

	if f.workers > 0 {
		f.pool = worker.NewDynamicWorkerPool(f.workers, f.queueSize, 1*time.Second)
		f.wake = make(chan struct{}, 1)
		f.done = make(chan struct{})
		go f.submit()
	}
	return f
}

func (f *fetcher) Fetch(name string, callback FetchCallback) {
	id := int(f.nextID.Add(1))
	job := func() (any, error) {
		started := time.Now()
		m, err := f.loader.Instantiate(name)
		if err != nil {
			f.log.Debug("model fetch failed", zap.Int("fetch", id), zap.String("path", name), zap.Error(err))
		} else {
			f.log.Debug("model fetched", zap.Int("fetch", id), zap.String("path", name), zap.Duration("took", time.Since(started)))
		}
		f.post(func() { callback(m, err) })
		return m, err
	}

	if f.pool == nil {
		job()
		return
	}

	f.mu.Lock()
	f.pending = append(f.pending, worker.Task{ID: id, Payload: name, Do: job})
	f.mu.Unlock()
	select {
	case f.wake <- struct{}{}:
	default:
	}
}

func (f *fetcher) Close() {
	f.closeOnce.Do(func() {
		if f.pool != nil {
			close(f.done)
			f.pool.Stop()
		}
	})
}

// submit hands pending tasks to the pool in Fetch order. SubmitTask blocks while the pool
// queue is full, so it runs here and never on the logic thread.
func (f *fetcher) submit() {
	for {
		select {
		case <-f.done:
			return
		case <-f.wake:
		}

		f.mu.Lock()
		tasks := f.pending
		f.pending = nil
		f.mu.Unlock()

		for _, t := range tasks {
			select {
			case <-f.done:
				return
			default:
			}
			f.pool.SubmitTask(t)
		}
	}
}
