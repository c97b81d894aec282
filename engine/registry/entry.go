package registry

import (
	"github.com/Carmen-Shannon/oxy-gltf/engine/animator"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

// Entry is the animation state bound to one entity: the mixer driving its model, the playback
// rate multiplier applied on every tick, the action currently playing and the actions waiting
// for it to finish.
type Entry struct {
	id       int
	model    model.Model
	mixer    animator.Mixer
	speed    float32
	current  animator.Action
	pending  []animator.Action
	listener int
}

// ID returns the entity identifier the entry was bound for.
func (e *Entry) ID() int {
	return e.id
}

// Root returns the model root the entry animates.
func (e *Entry) Root() *model.Node {
	return e.mixer.Root()
}

// Model returns the model instance the entry was bound with.
func (e *Entry) Model() model.Model {
	return e.model
}

// Mixer returns the entry's mixer.
func (e *Entry) Mixer() animator.Mixer {
	return e.mixer
}

// Speed returns the time multiplier applied when the entry is advanced.
func (e *Entry) Speed() float32 {
	return e.speed
}

// Current returns the action most recently started by Play or by the queue, or nil.
func (e *Entry) Current() animator.Action {
	return e.current
}

// Pending returns the number of queued actions.
func (e *Entry) Pending() int {
	return len(e.pending)
}

// Advance updates the mixer by dt scaled by the entry's speed.
//
// Parameters:
//   - dt: elapsed time in seconds
func (e *Entry) Advance(dt float32) {
	e.mixer.Update(dt * e.speed)
}

// clip finds a clip of the bound model by name.
func (e *Entry) clip(name string) *model.AnimationClip {
	for _, c := range e.mixer.Clips() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// playNext starts the first pending action, cross-fading from the current one and stopping it.
func (e *Entry) playNext() bool {
	if len(e.pending) == 0 {
		return false
	}
	next := e.pending[0]
	e.pending[0] = nil
	e.pending = e.pending[1:]

	next.Reset()
	next.Play()
	if e.current != nil && e.current != next {
		e.current.CrossFadeTo(next, 0)
		e.current.Stop()
	}
	e.current = next
	return true
}

// prepare configures an action the way every play and queue request does.
func prepare(a animator.Action, loop bool, speed float32) {
	a.SetClampWhenFinished(true)
	if loop {
		a.SetLoop(animator.LoopRepeat)
	} else {
		a.SetLoop(animator.LoopOnce)
	}
	a.SetTimeScale(speed)
}
