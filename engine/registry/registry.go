package registry

import (
	"github.com/Carmen-Shannon/oxy-gltf/engine/animator"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"go.uber.org/zap"
)

// HeroSlot is the index aliased to the entry of the entity the player controls.
const HeroSlot = 0

// registry is the implementation of the Registry interface.
type registry struct {
	log       *zap.Logger
	mixerOpts []animator.MixerBuilderOption

	entries []*Entry
	alias   bool

	mapID any
}

// Registry defines the animation mixer registry of one map session.
//
// Entries are kept in a sparse slice indexed by entity identifier. Slot 0 is reserved for the
// hero: Alias makes it point at another entity's entry so both identifiers resolve to the same
// mixer. The whole registry is dropped when the active map changes.
//
// A Registry is not safe for concurrent use; the owning session serializes access.
type Registry interface {
	// Bind creates the entry for id, replacing any previous one together with its pending queue.
	// The mixer's finished listener that advances the queue is attached here, once per entry.
	//
	// Parameters:
	//   - id: the entity identifier
	//   - m: the model instance to animate
	//
	// Returns:
	//   - *Entry: the new entry, or nil if id is negative
	Bind(id int, m model.Model) *Entry

	// Get returns the model root bound for id.
	//
	// Parameters:
	//   - id: the entity identifier or HeroSlot
	//
	// Returns:
	//   - *model.Node: the root, or nil when nothing is bound
	Get(id int) *model.Node

	// Entry returns the entry bound for id, or nil.
	//
	// Parameters:
	//   - id: the entity identifier or HeroSlot
	//
	// Returns:
	//   - *Entry: the entry or nil
	Entry(id int) *Entry

	// Alias points HeroSlot at the entry bound for id.
	//
	// Parameters:
	//   - id: the hero's entity identifier
	Alias(id int)

	// Clear drops every entry.
	Clear()

	// MapID returns the map identity the registry was last observed against.
	MapID() any

	// Observe records the identity of the active map. When it differs from the stored one the
	// registry is cleared first.
	//
	// Parameters:
	//   - mapID: the identity of the active map; must be comparable
	//
	// Returns:
	//   - bool: true if the identity changed and the registry was cleared
	Observe(mapID any) bool

	// Each calls fn for every bound entry in slot order. HeroSlot is skipped while it aliases
	// another slot, so each mixer is visited once.
	//
	// Parameters:
	//   - fn: the visitor
	Each(fn func(slot int, e *Entry))

	// Len returns the number of distinct bound entries.
	Len() int

	// Play starts the named clip on id's mixer, replacing the current action.
	//
	// Parameters:
	//   - id: the entity identifier or HeroSlot
	//   - clip: the clip name
	//   - loop: true to repeat, false to play once and hold the last frame
	//   - speed: the action's time scale
	//
	// Returns:
	//   - bool: false if nothing is bound for id or the clip does not exist
	Play(id int, clip string, loop bool, speed float32) bool

	// Queue appends the named clip to id's pending actions; it starts when the current one finishes.
	//
	// Parameters:
	//   - id: the entity identifier or HeroSlot
	//   - clip: the clip name
	//   - loop: true to repeat, false to play once and hold the last frame
	//   - speed: the action's time scale
	//
	// Returns:
	//   - bool: false if nothing is bound for id or the clip does not exist
	Queue(id int, clip string, loop bool, speed float32) bool

	// Stop stops every action of id's mixer.
	//
	// Parameters:
	//   - id: the entity identifier or HeroSlot
	//
	// Returns:
	//   - bool: false if nothing is bound for id
	Stop(id int) bool

	// SetSpeed sets the time multiplier of id's entry.
	//
	// Parameters:
	//   - id: the entity identifier or HeroSlot
	//   - speed: the multiplier
	//
	// Returns:
	//   - bool: false if nothing is bound for id
	SetSpeed(id int, speed float32) bool
}

var _ Registry = &registry{}

// NewRegistry creates an empty Registry.
//
// Parameters:
//   - options: a variadic list of RegistryBuilderOption functions to configure the Registry
//
// Returns:
//   - Registry: the new registry
func NewRegistry(options ...RegistryBuilderOption) Registry {
	r := &registry{log: zap.NewNop()}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *registry) Bind(id int, m model.Model) *Entry {
	if id < 0 || m == nil {
		return nil
	}

	if old := r.Entry(id); old != nil && (id != HeroSlot || !r.alias) {
		r.release(old)
		if r.alias && r.slot(HeroSlot) == old {
			r.entries[HeroSlot] = nil
			r.alias = false
		}
	}

	e := &Entry{
		id:    id,
		model: m,
		mixer: animator.NewMixer(m, r.mixerOpts...),
		speed: 1,
	}
	e.listener = e.mixer.AddEventListener(animator.EventFinished, func(ev animator.Event) {
		if r.slot(id) != e {
			r.log.Warn("finished event from a replaced mixer", zap.Int("entity", id))
			return
		}
		if e.current != nil && ev.Action != e.current {
			return
		}
		e.playNext()
	})

	for len(r.entries) <= id {
		r.entries = append(r.entries, nil)
	}
	if id == HeroSlot {
		r.alias = false
	}
	r.entries[id] = e
	r.log.Debug("mixer bound", zap.Int("entity", id), zap.Int("clips", len(m.Animations())))
	return e
}

func (r *registry) Get(id int) *model.Node {
	if e := r.Entry(id); e != nil {
		return e.Root()
	}
	return nil
}

func (r *registry) Entry(id int) *Entry {
	return r.slot(id)
}

func (r *registry) Alias(id int) {
	if id == HeroSlot {
		return
	}
	e := r.slot(id)
	if e == nil {
		return
	}
	if len(r.entries) == 0 {
		r.entries = append(r.entries, nil)
	}
	if !r.alias {
		if own := r.entries[HeroSlot]; own != nil {
			r.release(own)
		}
	}
	r.entries[HeroSlot] = e
	r.alias = true
}

func (r *registry) Clear() {
	for slot, e := range r.entries {
		if e != nil && !(slot == HeroSlot && r.alias) {
			r.release(e)
		}
	}
	r.entries = nil
	r.alias = false
}

func (r *registry) MapID() any {
	return r.mapID
}

func (r *registry) Observe(mapID any) bool {
	if mapID == r.mapID {
		return false
	}
	r.log.Debug("map changed, animation registry cleared", zap.Int("entries", r.Len()))
	r.Clear()
	r.mapID = mapID
	return true
}

func (r *registry) Each(fn func(slot int, e *Entry)) {
	for slot, e := range r.entries {
		if e == nil || (slot == HeroSlot && r.alias) {
			continue
		}
		fn(slot, e)
	}
}

func (r *registry) Len() int {
	n := 0
	r.Each(func(int, *Entry) { n++ })
	return n
}

func (r *registry) Play(id int, clip string, loop bool, speed float32) bool {
	e := r.Entry(id)
	if e == nil {
		return false
	}
	c := e.clip(clip)
	if c == nil {
		return false
	}

	a := e.mixer.ClipAction(c)
	prepare(a, loop, speed)
	a.Reset()
	a.Play()
	if e.current != nil && e.current != a {
		e.current.CrossFadeTo(a, 0)
		e.current.Stop()
	}
	e.current = a
	return true
}

func (r *registry) Queue(id int, clip string, loop bool, speed float32) bool {
	e := r.Entry(id)
	if e == nil {
		return false
	}
	c := e.clip(clip)
	if c == nil {
		return false
	}

	a := e.mixer.ClipAction(c)
	prepare(a, loop, speed)
	e.pending = append(e.pending, a)
	return true
}

func (r *registry) Stop(id int) bool {
	e := r.Entry(id)
	if e == nil {
		return false
	}
	e.mixer.StopAllAction()
	return true
}

func (r *registry) SetSpeed(id int, speed float32) bool {
	e := r.Entry(id)
	if e == nil {
		return false
	}
	e.speed = speed
	return true
}

func (r *registry) slot(id int) *Entry {
	if id < 0 || id >= len(r.entries) {
		return nil
	}
	return r.entries[id]
}

// release detaches the entry's listener and drops its pending actions.
func (r *registry) release(e *Entry) {
	e.mixer.RemoveEventListener(e.listener)
	e.pending = nil
}
