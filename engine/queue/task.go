package queue

// Task is one queued command. Run must call done exactly once, either before returning or later
// after its asynchronous work resolves; the queue does not start the next task until it does.
type Task interface {
	Run(done func())
}

// SyncTask adapts a function that finishes before returning into a Task.
type SyncTask func()

// Run calls the function and then done.
func (t SyncTask) Run(done func()) {
	defer done()
	t()
}

// AsyncTask adapts a function that signals completion itself into a Task.
type AsyncTask func(done func())

// Run passes done to the function.
func (t AsyncTask) Run(done func()) {
	t(done)
}
