// Package engine is the plugin session: it owns the command queue, the animation mixer registry,
// the entity mutator and the model fetcher, and exposes the script command table and the tick
// driver that advances animation.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-gltf/engine/animator"
	"github.com/Carmen-Shannon/oxy-gltf/engine/host"
	"github.com/Carmen-Shannon/oxy-gltf/engine/loader"
	"github.com/Carmen-Shannon/oxy-gltf/engine/material"
	"github.com/Carmen-Shannon/oxy-gltf/engine/mutator"
	"github.com/Carmen-Shannon/oxy-gltf/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gltf/engine/queue"
	"github.com/Carmen-Shannon/oxy-gltf/engine/registry"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrEntityNotFound is returned when a command names an entity that cannot be resolved.
var ErrEntityNotFound = mutator.ErrEntityNotFound

// plugin implements the Plugin interface.
// A single mutex serializes commands, posted continuations and ticks.
type plugin struct {
	mu  sync.Mutex
	log *zap.Logger

	stage    host.Stage
	entities host.EntityRegistry
	errs     host.ErrorSink
	events   host.EventSink
	dialog   host.Dialog
	factory  material.Factory
	grid     mutator.GridPolicy

	modelsDir   string
	cache       bool
	watch       bool
	loader      loader.Loader
	watcher     *loader.Watcher
	fetcher     loader.Fetcher
	fetcherOpts []loader.FetcherBuilderOption
	mixerOpts   []animator.MixerBuilderOption

	mailbox  *queue.Mailbox
	queue    queue.Queue
	registry registry.Registry
	mutator  mutator.Mutator

	staleWarnAfter int
	printer        *message.Printer

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickInterval    time.Duration
	tickRateChannel chan time.Duration
	lastTick        time.Time

	running     bool
	quitChannel chan struct{}
	quitOnce    sync.Once
}

// Plugin is the glTF model plugin session for one game.
//
// Commands mirror the script command table. Entity identifiers may be host.Self; it is resolved
// against the invocation when the command is issued, not when it runs. Queued commands run one at
// a time in issue order; a model load holds the queue until its model is attached.
//
// All methods are safe for concurrent use.
type Plugin interface {
	// LoadModel queues loading the model at path and attaching it to the entity.
	//
	// Parameters:
	//   - inv: the invocation context
	//   - id: the entity identifier or host.Self
	//   - path: the model path relative to the models directory
	//
	// Returns:
	//   - error: ErrEntityNotFound if id is host.Self and inv has no subject
	LoadModel(inv host.Invocation, id int, path string) error

	// ResetBoundingBox queues recomputing the entity's bounding box from its model size.
	ResetBoundingBox(inv host.Invocation, id int) error

	// SetBoundingBox queues setting explicit bounding box dimensions in grid units.
	SetBoundingBox(inv host.Invocation, id int, x, y, z float32) error

	// SetScale queues a uniform scale of the entity's model.
	SetScale(inv host.Invocation, id int, scale float32) error

	// SetVisibility queues showing or hiding the entity's model.
	SetVisibility(inv host.Invocation, id int, visible bool) error

	// SetOpacity queues setting the opacity of the entity's model.
	SetOpacity(inv host.Invocation, id int, opacity float32) error

	// SetOffset queues moving the entity's model by a grid-unit offset.
	SetOffset(inv host.Invocation, id int, x, y, z float32) error

	// SetRotation queues replacing the model rotation with Euler angles in degrees.
	SetRotation(inv host.Invocation, id int, x, y, z float32) error

	// AddRotation queues rotating the model about its local X, Y and Z axes, in degrees.
	AddRotation(inv host.Invocation, id int, x, y, z float32) error

	// RetrieveYRotation queues writing the model yaw in degrees into a property of inv's subject.
	RetrieveYRotation(inv host.Invocation, id int, property string) error

	// LookAt queues turning the subject's model toward the target on the ground plane.
	//
	// Parameters:
	//   - inv: the invocation context
	//   - subject: the entity to turn, or host.Self
	//   - target: the entity to face, or host.Self
	//
	// Returns:
	//   - error: ErrEntityNotFound if an identifier is host.Self and inv has no subject
	LookAt(inv host.Invocation, subject, target int) error

	// PlayAnimation queues starting a clip on the entity's mixer, replacing the current one.
	//
	// Parameters:
	//   - inv: the invocation context
	//   - id: the entity identifier or host.Self
	//   - clip: the clip name
	//   - loop: true to repeat
	//   - speed: the clip's time scale
	//
	// Returns:
	//   - error: ErrEntityNotFound if id is host.Self and inv has no subject
	PlayAnimation(inv host.Invocation, id int, clip string, loop bool, speed float32) error

	// QueueAnimation queues appending a clip that plays after the current one finishes.
	QueueAnimation(inv host.Invocation, id int, clip string, loop bool, speed float32) error

	// StopAnimation queues stopping every action of the entity's mixer.
	StopAnimation(inv host.Invocation, id int) error

	// SetAnimationSpeed queues setting the entity's animation time multiplier.
	SetAnimationSpeed(inv host.Invocation, id int, speed float32) error

	// TriggerEvent queues dispatching an event detection.
	//
	// Parameters:
	//   - eventID: the event identifier
	TriggerEvent(eventID int)

	// ModelInfo loads the model at path outside the queue and shows its size and clip names in
	// the dialog once loaded.
	//
	// Parameters:
	//   - path: the model path relative to the models directory
	ModelInfo(path string)

	// Tick drains posted continuations and advances animation by the time elapsed since the
	// previous counted tick. Animation only advances while a map is on top of the stage and
	// not loading.
	//
	// Parameters:
	//   - now: the tick timestamp
	Tick(now time.Time)

	// SetTickInterval changes the period Run ticks at.
	// If Run is active, the change takes effect immediately.
	//
	// Parameters:
	//   - d: the tick period; values <= 0 select the default of 16ms
	SetTickInterval(d time.Duration)

	// EnableProfiler enables tick profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables tick profiling output.
	DisableProfiler()

	// Registry returns the animation mixer registry.
	//
	// Returns:
	//   - registry.Registry: the registry
	Registry() registry.Registry

	// Pending returns the number of queued commands not yet started, and whether one is running.
	//
	// Returns:
	//   - int: queued commands
	//   - bool: true while a command is in flight
	Pending() (int, bool)

	// Run ticks at the configured interval until Quit is called. It blocks.
	Run()

	// Quit stops Run. Safe to call multiple times.
	Quit()

	// Close stops Run, the fetcher's worker pool and the file watcher.
	Close()
}

var _ Plugin = &plugin{}

// NewPlugin creates a plugin session for the host's stage and entity registry.
//
// Parameters:
//   - st: the host stage (must not be nil)
//   - es: the host entity registry (must not be nil)
//   - options: functional options for plugin configuration
//
// Returns:
//   - Plugin: the newly created plugin
func NewPlugin(st host.Stage, es host.EntityRegistry, options ...PluginBuilderOption) Plugin {
	if st == nil {
		panic("engine: NewPlugin requires a non-nil Stage")
	}
	if es == nil {
		panic("engine: NewPlugin requires a non-nil EntityRegistry")
	}

	p := &plugin{
		log:             zap.NewNop(),
		stage:           st,
		entities:        es,
		grid:            mutator.DefaultGridPolicy(),
		modelsDir:       "Models",
		cache:           true,
		mailbox:         queue.NewMailbox(),
		staleWarnAfter:  120,
		printer:         message.NewPrinter(language.English),
		tickInterval:    defaultTickInterval,
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
	}
	for _, opt := range options {
		opt(p)
	}

	if p.errs == nil {
		p.errs = host.ErrorSinkFunc(func(msg string) { p.log.Error(msg) })
	}
	if p.events == nil {
		p.events = host.EventSinkFunc(func(eventID int) {
			p.log.Debug("event detection dropped, no event sink", zap.Int("event", eventID))
		})
	}
	if p.dialog == nil {
		p.dialog = host.DialogFunc(func(msg string) { p.log.Info(msg) })
	}

	if p.loader == nil {
		p.loader = loader.NewLoader(loader.BackendTypeGLTF,
			loader.WithBaseDir(p.modelsDir),
			loader.WithCache(p.cache),
			loader.WithLogger(p.log),
		)
	}
	if p.watch {
		w, err := loader.NewWatcher(p.loader, p.modelsDir, p.log)
		if err != nil {
			p.log.Warn("model directory not watched", zap.String("dir", p.modelsDir), zap.Error(err))
		} else {
			p.watcher = w
		}
	}
	p.fetcher = loader.NewFetcher(p.loader, p.mailbox.Post,
		append([]loader.FetcherBuilderOption{loader.WithFetcherLogger(p.log)}, p.fetcherOpts...)...)

	p.registry = registry.NewRegistry(registry.WithLogger(p.log), registry.WithMixerOptions(p.mixerOpts...))
	p.queue = queue.NewQueue(
		queue.WithFreshness(p.fresh),
		queue.WithRetry(p.mailbox.Post),
		queue.WithStaleWarnAfter(p.staleWarnAfter),
		queue.WithLogger(p.log),
	)

	mutatorOpts := []mutator.MutatorBuilderOption{
		mutator.WithErrorSink(p.errs),
		mutator.WithGridPolicy(p.grid),
		mutator.WithLogger(p.log),
	}
	if p.factory != nil {
		mutatorOpts = append(mutatorOpts, mutator.WithMaterialFactory(p.factory))
	}
	p.mutator = mutator.NewMutator(es, st, p.registry, mutatorOpts...)

	if p.profiler == nil {
		p.profiler = profiler.NewProfiler(p.log)
	}
	return p
}

// fresh reports whether the current map is the one the registry was last observed against.
func (p *plugin) fresh() bool {
	cur := p.stage.CurrentMap()
	return cur != nil && any(cur) == p.registry.MapID()
}

// resolve replaces host.Self with the invoking entity's identifier.
func (p *plugin) resolve(inv host.Invocation, id int) (int, error) {
	resolved, ok := inv.Resolve(id)
	if !ok {
		p.log.Warn("command issued for the invoking entity without one")
		return 0, fmt.Errorf("resolve invoking entity: %w", ErrEntityNotFound)
	}
	return resolved, nil
}

// enqueue appends task and starts the queue if it is idle. Caller must hold p.mu.
func (p *plugin) enqueue(task queue.Task) {
	p.queue.Enqueue(task)
	p.queue.RunIfIdle()
}

func (p *plugin) Registry() registry.Registry {
	return p.registry
}

func (p *plugin) Pending() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Len(), p.queue.Busy()
}

// EnableProfiler enables tick profiling output to the log.
func (p *plugin) EnableProfiler() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profilingEnabled = true
}

// DisableProfiler disables tick profiling output.
func (p *plugin) DisableProfiler() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profilingEnabled = false
}

func (p *plugin) Close() {
	p.Quit()
	p.fetcher.Close()
	if p.watcher != nil {
		if err := p.watcher.Close(); err != nil {
			p.log.Warn("model watcher close failed", zap.Error(err))
		}
	}
}
