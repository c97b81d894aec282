package animator

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"go.uber.org/zap"
)

// EventType identifies a mixer event.
type EventType int

const (
	// EventFinished fires when a LoopOnce action reaches the end of its clip.
	EventFinished EventType = iota
	// EventLoop fires each time a LoopRepeat action wraps around.
	EventLoop
)

// Event is delivered to mixer listeners.
type Event struct {
	Type   EventType
	Action Action

	// Direction is 1 when the action was playing forwards, -1 when backwards.
	Direction int
}

// Listener receives mixer events.
type Listener func(e Event)

type listenerEntry struct {
	id    int
	event EventType
	fn    Listener
}

// mixer is the implementation of the Mixer interface.
type mixer struct {
	log *zap.Logger

	root  *model.Node
	nodes []*model.Node
	clips []*model.AnimationClip

	actions map[*model.AnimationClip]*action
	active  []*action

	listeners    []listenerEntry
	nextListener int

	time float32
}

// Mixer defines the CPU-side animation player for one model instance.
//
// A Mixer owns one Action per clip, advances the active ones on Update, samples their channels and
// writes the blended pose into the model's nodes. Channels address nodes by their index in
// model.Model.Nodes.
//
// A Mixer is not safe for concurrent use; the owning session serializes access.
type Mixer interface {
	// Root returns the scene graph root the mixer animates.
	//
	// Returns:
	//   - *model.Node: the model root
	Root() *model.Node

	// Clips returns the clips available to this mixer.
	//
	// Returns:
	//   - []*model.AnimationClip: the clips of the bound model
	Clips() []*model.AnimationClip

	// ClipAction returns the action for clip, creating it on first use.
	//
	// Parameters:
	//   - clip: the clip to play
	//
	// Returns:
	//   - Action: the action, or nil if clip is nil
	ClipAction(clip *model.AnimationClip) Action

	// ExistingAction returns the action already created for the clip with the given name, or nil.
	//
	// Parameters:
	//   - name: the clip name
	//
	// Returns:
	//   - Action: the action or nil
	ExistingAction(name string) Action

	// StopAllAction stops every active action.
	StopAllAction()

	// Update advances all active actions by dt seconds, dispatches events and applies the pose.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)

	// AddEventListener registers fn for events of type event.
	//
	// Parameters:
	//   - event: the event type to listen for
	//   - fn: the listener
	//
	// Returns:
	//   - int: a handle for RemoveEventListener
	AddEventListener(event EventType, fn Listener) int

	// RemoveEventListener unregisters a listener.
	//
	// Parameters:
	//   - id: the handle returned by AddEventListener
	RemoveEventListener(id int)

	// ListenerCount returns the number of registered listeners for event.
	ListenerCount(event EventType) int

	// ActiveActions returns the number of actions currently active.
	ActiveActions() int

	// Time returns the total time the mixer has been advanced by.
	Time() float32
}

var _ Mixer = &mixer{}

// NewMixer creates a Mixer bound to a model instance.
//
// Parameters:
//   - m: the model whose nodes are animated
//   - options: a variadic list of MixerBuilderOption functions to configure the Mixer
//
// Returns:
//   - Mixer: the new mixer
func NewMixer(m model.Model, options ...MixerBuilderOption) Mixer {
	if m == nil {
		panic("animator: NewMixer requires a non-nil Model")
	}
	mx := &mixer{
		log:     zap.NewNop(),
		root:    m.Root(),
		nodes:   m.Nodes(),
		clips:   m.Animations(),
		actions: make(map[*model.AnimationClip]*action),
	}
	for _, opt := range options {
		opt(mx)
	}
	return mx
}

func (m *mixer) Root() *model.Node {
	return m.root
}

func (m *mixer) Clips() []*model.AnimationClip {
	return m.clips
}

func (m *mixer) ClipAction(clip *model.AnimationClip) Action {
	if clip == nil {
		return nil
	}
	if a, ok := m.actions[clip]; ok {
		return a
	}
	a := newAction(m, clip)
	m.actions[clip] = a
	return a
}

func (m *mixer) ExistingAction(name string) Action {
	for clip, a := range m.actions {
		if clip.Name == name {
			return a
		}
	}
	return nil
}

func (m *mixer) StopAllAction() {
	for _, a := range slices.Clone(m.active) {
		a.Stop()
	}
}

func (m *mixer) Update(dt float32) {
	m.time += dt

	var events []Event
	for _, a := range slices.Clone(m.active) {
		direction := 1
		if a.timeScale < 0 {
			direction = -1
		}
		finished, looped := a.advance(dt)
		if finished {
			m.log.Debug("animation finished", zap.String("clip", a.clip.Name), zap.Bool("clamped", a.paused))
			events = append(events, Event{Type: EventFinished, Action: a, Direction: direction})
		}
		if looped {
			events = append(events, Event{Type: EventLoop, Action: a, Direction: direction})
		}
	}

	for _, e := range events {
		m.dispatch(e)
	}

	m.apply()
}

func (m *mixer) AddEventListener(event EventType, fn Listener) int {
	m.nextListener++
	m.listeners = append(m.listeners, listenerEntry{id: m.nextListener, event: event, fn: fn})
	return m.nextListener
}

func (m *mixer) RemoveEventListener(id int) {
	m.listeners = slices.DeleteFunc(m.listeners, func(l listenerEntry) bool { return l.id == id })
}

func (m *mixer) ListenerCount(event EventType) int {
	n := 0
	for _, l := range m.listeners {
		if l.event == event {
			n++
		}
	}
	return n
}

func (m *mixer) ActiveActions() int {
	return len(m.active)
}

func (m *mixer) Time() float32 {
	return m.time
}

func (m *mixer) activate(a *action) {
	if !m.isActive(a) {
		m.active = append(m.active, a)
	}
}

func (m *mixer) deactivate(a *action) {
	m.active = slices.DeleteFunc(m.active, func(x *action) bool { return x == a })
}

func (m *mixer) isActive(a *action) bool {
	return slices.Contains(m.active, a)
}

func (m *mixer) dispatch(e Event) {
	for _, l := range slices.Clone(m.listeners) {
		if l.event == e.Type {
			l.fn(e)
		}
	}
}

// pose accumulates the weighted contributions of every action to one node.
type pose struct {
	position, scale      [3]float32
	rotation             [4]float32
	posWeight, rotWeight float32
	scaleWeight          float32
}

// apply samples every enabled action at its current time and writes the blended result into the nodes.
// Nodes not targeted by any contributing action keep their current transform.
func (m *mixer) apply() {
	poses := make(map[int32]*pose)

	for _, a := range m.active {
		if !a.enabled || a.weight <= 0 {
			continue
		}
		w := a.weight
		for i := range a.clip.Channels {
			ch := &a.clip.Channels[i]
			if ch.TargetNode < 0 || int(ch.TargetNode) >= len(m.nodes) {
				continue
			}
			p, ok := poses[ch.TargetNode]
			if !ok {
				p = &pose{}
				poses[ch.TargetNode] = p
			}

			if v, ok := sampleVector(ch.PositionKeys, a.time, ch.Interpolation); ok {
				p.posWeight += w
				p.position = common.Lerp3(p.position, v, w/p.posWeight)
			}
			if v, ok := sampleVector(ch.ScaleKeys, a.time, ch.Interpolation); ok {
				p.scaleWeight += w
				p.scale = common.Lerp3(p.scale, v, w/p.scaleWeight)
			}
			if q, ok := sampleQuaternion(ch.RotationKeys, a.time, ch.Interpolation); ok {
				if p.rotWeight == 0 {
					p.rotation = q
				} else {
					p.rotation = common.QuatSlerp(p.rotation, q, w/(p.rotWeight+w))
				}
				p.rotWeight += w
			}
		}
	}

	for idx, p := range poses {
		n := m.nodes[idx]
		if p.posWeight > 0 {
			n.Position = p.position
		}
		if p.scaleWeight > 0 {
			n.Scale = p.scale
		}
		if p.rotWeight > 0 {
			n.SetQuaternion(p.rotation)
		}
	}
}
