package animator

import (
	"math"

	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

// LoopMode selects what an action does when its time reaches the end of the clip.
type LoopMode int

const (
	// LoopRepeat wraps time back to the start and keeps playing.
	LoopRepeat LoopMode = iota
	// LoopOnce plays the clip a single time and then fires EventFinished.
	LoopOnce
)

// action is the implementation of the Action interface.
type action struct {
	mixer *mixer
	clip  *model.AnimationClip

	time, timeScale float32
	loop            LoopMode
	clamp           bool
	enabled, paused bool

	weight                    float32
	fading                    bool
	fadeFrom, fadeTo          float32
	fadeElapsed, fadeDuration float32
}

// Action defines the playback state of one clip on one Mixer.
// An Action is created once per clip by Mixer.ClipAction and reused for every play of that clip.
// Actions only advance while they are active on their mixer, which Play arranges.
type Action interface {
	// Clip returns the animation clip this action plays.
	//
	// Returns:
	//   - *model.AnimationClip: the clip
	Clip() *model.AnimationClip

	// Play activates the action on its mixer. Playback resumes from the current time.
	Play()

	// Stop deactivates the action and resets its time to zero.
	Stop()

	// Reset rewinds the action to time zero, enables it and clears any pause or fade.
	// Loop mode, clamping and time scale are kept.
	Reset()

	// IsRunning reports whether the action is active, enabled, not paused and has a non-zero time scale.
	//
	// Returns:
	//   - bool: true if the action currently advances on Update
	IsRunning() bool

	// IsScheduled reports whether the action is active on its mixer.
	//
	// Returns:
	//   - bool: true if the action is active
	IsScheduled() bool

	// SetLoop sets the loop mode.
	//
	// Parameters:
	//   - mode: LoopRepeat or LoopOnce
	SetLoop(mode LoopMode)

	// Loop returns the loop mode.
	Loop() LoopMode

	// SetClampWhenFinished controls whether a LoopOnce action holds its last frame when it finishes.
	// Without clamping a finished action is disabled and stops contributing to the pose.
	//
	// Parameters:
	//   - clamp: true to hold the last frame
	SetClampWhenFinished(clamp bool)

	// ClampWhenFinished reports the clamp setting.
	ClampWhenFinished() bool

	// SetTimeScale sets the playback rate multiplier of this action.
	//
	// Parameters:
	//   - scale: the multiplier; negative values play backwards
	SetTimeScale(scale float32)

	// TimeScale returns the playback rate multiplier.
	TimeScale() float32

	// SetTime moves the playhead.
	//
	// Parameters:
	//   - t: the time in seconds
	SetTime(t float32)

	// Time returns the playhead in seconds.
	Time() float32

	// Weight returns the current blend weight in [0, 1].
	Weight() float32

	// IsEnabled reports whether the action contributes to the pose.
	IsEnabled() bool

	// IsPaused reports whether the action is paused, which is the state of a clamped finished action.
	IsPaused() bool

	// CrossFadeTo fades this action out and target in over duration seconds.
	// A zero duration switches the weights immediately.
	//
	// Parameters:
	//   - target: the action to fade in
	//   - duration: the fade duration in seconds
	CrossFadeTo(target Action, duration float32)

	// FadeIn ramps the weight from 0 to 1 over duration seconds.
	FadeIn(duration float32)

	// FadeOut ramps the weight to 0 over duration seconds; the action is disabled when the fade completes.
	FadeOut(duration float32)
}

var _ Action = &action{}

func newAction(m *mixer, clip *model.AnimationClip) *action {
	return &action{
		mixer:     m,
		clip:      clip,
		timeScale: 1,
		loop:      LoopRepeat,
		enabled:   true,
		weight:    1,
	}
}

func (a *action) Clip() *model.AnimationClip {
	return a.clip
}

func (a *action) Play() {
	a.mixer.activate(a)
}

func (a *action) Stop() {
	a.mixer.deactivate(a)
	a.Reset()
}

func (a *action) Reset() {
	a.time = 0
	a.enabled = true
	a.paused = false
	a.fading = false
	a.weight = 1
}

func (a *action) IsRunning() bool {
	return a.enabled && !a.paused && a.timeScale != 0 && a.mixer.isActive(a)
}

func (a *action) IsScheduled() bool {
	return a.mixer.isActive(a)
}

func (a *action) SetLoop(mode LoopMode) {
	a.loop = mode
}

func (a *action) Loop() LoopMode {
	return a.loop
}

func (a *action) SetClampWhenFinished(clamp bool) {
	a.clamp = clamp
}

func (a *action) ClampWhenFinished() bool {
	return a.clamp
}

func (a *action) SetTimeScale(scale float32) {
	a.timeScale = scale
}

func (a *action) TimeScale() float32 {
	return a.timeScale
}

func (a *action) SetTime(t float32) {
	a.time = t
}

func (a *action) Time() float32 {
	return a.time
}

func (a *action) Weight() float32 {
	return a.weight
}

func (a *action) IsEnabled() bool {
	return a.enabled
}

func (a *action) IsPaused() bool {
	return a.paused
}

func (a *action) CrossFadeTo(target Action, duration float32) {
	a.FadeOut(duration)
	target.FadeIn(duration)
}

func (a *action) FadeIn(duration float32) {
	a.scheduleFade(duration, 0, 1)
}

func (a *action) FadeOut(duration float32) {
	a.scheduleFade(duration, a.weight, 0)
}

func (a *action) scheduleFade(duration, from, to float32) {
	if duration <= 0 {
		a.fading = false
		a.setWeight(to)
		return
	}
	a.fading = true
	a.fadeFrom, a.fadeTo = from, to
	a.fadeElapsed, a.fadeDuration = 0, duration
	a.weight = from
}

func (a *action) setWeight(w float32) {
	a.weight = w
	a.enabled = w != 0
}

// advance moves the playhead by dt scaled by the action's time scale and reports whether the
// action finished during this step, and whether it wrapped around.
func (a *action) advance(dt float32) (finished, looped bool) {
	if a.fading {
		a.fadeElapsed += dt
		progress := min(a.fadeElapsed/a.fadeDuration, 1)
		if progress >= 1 {
			a.fading = false
			a.setWeight(a.fadeTo)
		} else {
			a.weight = a.fadeFrom + (a.fadeTo-a.fadeFrom)*progress
		}
	}

	if !a.enabled || a.paused || a.timeScale == 0 {
		return false, false
	}

	duration := a.clip.Duration
	a.time += dt * a.timeScale

	switch a.loop {
	case LoopOnce:
		if a.time >= duration && a.timeScale > 0 || a.time <= 0 && a.timeScale < 0 {
			a.time = max(0, min(a.time, duration))
			if a.clamp {
				a.paused = true
			} else {
				a.enabled = false
			}
			return true, false
		}
	default:
		if duration <= 0 {
			a.time = 0
			return false, false
		}
		if a.time >= duration || a.time < 0 {
			a.time = float32(math.Mod(float64(a.time), float64(duration)))
			if a.time < 0 {
				a.time += duration
			}
			return false, true
		}
	}
	return false, false
}
