package registry

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-gltf/engine/animator"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func clip(name string, duration float32) *model.AnimationClip {
	return &model.AnimationClip{
		Name:     name,
		Duration: duration,
		Channels: []model.AnimationChannel{{
			TargetNode: 0,
			PositionKeys: []model.VectorKeyframe{
				{Time: 0, Value: [3]float32{}},
				{Time: duration, Value: [3]float32{1, 0, 0}},
			},
		}},
	}
}

func newModel(clips ...*model.AnimationClip) model.Model {
	root := model.NewNode("root")
	body := model.NewNode("body")
	root.Add(body)
	return model.NewModel(model.WithRoot(root), model.WithNodes([]*model.Node{body}), model.WithAnimations(clips))
}

func TestBindGrowsSparseSlots(t *testing.T) {
	r := NewRegistry()
	m := newModel()
	e := r.Bind(5, m)

	if e == nil || r.Entry(5) != e || r.Get(5) != m.Root() {
		t.Fatalf("Bind(5): entry not retrievable")
	}
	for _, id := range []int{0, 1, 4, 6, -1} {
		if r.Get(id) != nil {
			t.Errorf("Get(%d): got root, want nil", id)
		}
	}
	if r.Len() != 1 {
		t.Errorf("Len: got %d, want 1", r.Len())
	}
	if r.Bind(-1, m) != nil {
		t.Errorf("Bind(-1): got entry, want nil")
	}
}

func TestBindReplacesEntryAndSilencesOldListener(t *testing.T) {
	r := NewRegistry()
	first := r.Bind(3, newModel(clip("wave", 0.5), clip("idle", 1)))
	r.Play(3, "wave", false, 1)
	r.Queue(3, "idle", true, 1)
	oldMixer := first.Mixer()

	second := r.Bind(3, newModel(clip("wave", 0.5)))
	if second == first || r.Entry(3) != second {
		t.Fatalf("Bind: entry not replaced")
	}
	if first.Pending() != 0 {
		t.Errorf("old pending: got %d, want 0", first.Pending())
	}
	if oldMixer.ListenerCount(animator.EventFinished) != 0 {
		t.Errorf("old mixer listeners: got %d, want 0", oldMixer.ListenerCount(animator.EventFinished))
	}

	oldMixer.Update(1)
	if first.Current().Clip().Name != "wave" {
		t.Errorf("old entry advanced its queue after replacement: current %q", first.Current().Clip().Name)
	}
}

func TestHeroAliasSharesEntryAndAdvancesOnce(t *testing.T) {
	r := NewRegistry()
	e := r.Bind(7, newModel(clip("walk", 10)))
	r.Alias(7)

	if r.Entry(HeroSlot) != e || r.Get(HeroSlot) != r.Get(7) {
		t.Fatalf("Alias: slot 0 does not resolve to entity 7's entry")
	}
	r.Play(HeroSlot, "walk", true, 1)

	visits := 0
	r.Each(func(slot int, entry *Entry) {
		visits++
		entry.Advance(0.1)
	})
	if visits != 1 {
		t.Errorf("Each visits: got %d, want 1", visits)
	}
	if got := e.Current().Time(); !near(got, 0.1) {
		t.Errorf("walk time: got %v, want 0.1", got)
	}
}

func TestRebindDropsStaleHeroAlias(t *testing.T) {
	r := NewRegistry()
	r.Bind(2, newModel())
	r.Alias(2)
	r.Bind(2, newModel())

	if r.Entry(HeroSlot) != nil {
		t.Errorf("slot 0 still aliases the replaced entry")
	}
	r.Alias(2)
	if r.Entry(HeroSlot) != r.Entry(2) {
		t.Errorf("re-alias failed")
	}
}

func TestObserveClearsOnMapChange(t *testing.T) {
	r := NewRegistry()
	mapA, mapB := &struct{ n int }{1}, &struct{ n int }{2}

	if !r.Observe(mapA) {
		t.Errorf("Observe(first map): got false, want true")
	}
	r.Bind(1, newModel())
	if r.Observe(mapA) {
		t.Errorf("Observe(same map): got true, want false")
	}
	if r.Get(1) == nil {
		t.Fatalf("entry dropped without a map change")
	}
	if !r.Observe(mapB) || r.Get(1) != nil || r.MapID() != mapB {
		t.Errorf("Observe(new map): registry not cleared or identity not adopted")
	}
}

func TestPlayReplacesCurrentAction(t *testing.T) {
	r := NewRegistry()
	e := r.Bind(1, newModel(clip("walk", 1), clip("run", 1)))

	if !r.Play(1, "walk", true, 1) {
		t.Fatalf("Play(walk): got false")
	}
	walk := e.Current()
	e.Advance(0.3)

	r.Play(1, "run", false, 2)
	run := e.Current()
	if run == walk || run.Clip().Name != "run" {
		t.Fatalf("current: got %v, want run", run.Clip().Name)
	}
	if walk.IsScheduled() {
		t.Errorf("previous action still active")
	}
	if run.Loop() != animator.LoopOnce || !run.ClampWhenFinished() || run.TimeScale() != 2 {
		t.Errorf("run config: got loop=%v clamp=%v scale=%v", run.Loop(), run.ClampWhenFinished(), run.TimeScale())
	}
}

func TestPlaySameClipRestarts(t *testing.T) {
	r := NewRegistry()
	e := r.Bind(1, newModel(clip("walk", 1)))
	r.Play(1, "walk", true, 1)
	e.Advance(0.4)
	r.Play(1, "walk", true, 1)

	if e.Current().Time() != 0 || !e.Current().IsRunning() {
		t.Errorf("restart: got time %v running %v, want 0 and running", e.Current().Time(), e.Current().IsRunning())
	}
}

func TestPlayUnknownClipLeavesCurrent(t *testing.T) {
	r := NewRegistry()
	e := r.Bind(1, newModel(clip("walk", 1)))
	r.Play(1, "walk", true, 1)
	e.Advance(0.2)
	before := e.Current()

	if r.Play(1, "dance", true, 1) {
		t.Errorf("Play(unknown): got true, want false")
	}
	if e.Current() != before || !near(before.Time(), 0.2) || !before.IsRunning() {
		t.Errorf("current action disturbed by unknown clip")
	}
	if r.Play(9, "walk", true, 1) {
		t.Errorf("Play(unbound id): got true, want false")
	}
}

func TestQueuePlaysAfterCurrentFinishes(t *testing.T) {
	r := NewRegistry()
	e := r.Bind(1, newModel(clip("wave", 0.5), clip("idle", 2)))

	r.Play(1, "wave", false, 1)
	if !r.Queue(1, "idle", true, 1) {
		t.Fatalf("Queue: got false")
	}
	if e.Pending() != 1 || e.Current().Clip().Name != "wave" {
		t.Fatalf("queue state: pending %d current %q", e.Pending(), e.Current().Clip().Name)
	}
	if e.Mixer().ExistingAction("idle").IsScheduled() {
		t.Errorf("queued action playing before its turn")
	}

	e.Advance(0.6)
	if e.Current().Clip().Name != "idle" || e.Pending() != 0 {
		t.Fatalf("after finish: current %q pending %d, want idle and 0", e.Current().Clip().Name, e.Pending())
	}
	e.Advance(0.25)
	if !near(e.Current().Time(), 0.25) {
		t.Errorf("idle time: got %v, want 0.25", e.Current().Time())
	}
}

func TestStopAndSetSpeed(t *testing.T) {
	r := NewRegistry()
	e := r.Bind(1, newModel(clip("walk", 10)))
	r.Play(1, "walk", true, 1)

	if !r.SetSpeed(1, 3) || e.Speed() != 3 {
		t.Fatalf("SetSpeed: speed %v, want 3", e.Speed())
	}
	e.Advance(0.1)
	if !near(e.Current().Time(), 0.3) {
		t.Errorf("time with speed 3: got %v, want 0.3", e.Current().Time())
	}

	if !r.Stop(1) || e.Mixer().ActiveActions() != 0 {
		t.Errorf("Stop: active actions remain")
	}
	if r.Stop(4) || r.SetSpeed(4, 1) {
		t.Errorf("Stop/SetSpeed on unbound id: got true")
	}
}

func TestMixerOptionsReachEveryMixer(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := NewRegistry(WithLogger(zap.NewNop()), WithMixerOptions(animator.WithLogger(zap.New(core))))
	e := r.Bind(2, newModel(clip("wave", 0.5)))

	r.Play(2, "wave", false, 1)
	e.Advance(1)

	if logs.FilterMessage("animation finished").Len() != 1 {
		t.Errorf("mixer log: got %v, want one 'animation finished'", logs.All())
	}
}
