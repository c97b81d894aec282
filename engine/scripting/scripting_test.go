package scripting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/Carmen-Shannon/oxy-gltf/engine"
	"github.com/Carmen-Shannon/oxy-gltf/engine/game_object"
	"github.com/Carmen-Shannon/oxy-gltf/engine/host"
	"github.com/Carmen-Shannon/oxy-gltf/engine/loader"
	"github.com/Carmen-Shannon/oxy-gltf/engine/loader/loadertest"
	"github.com/Carmen-Shannon/oxy-gltf/engine/scene"
	"github.com/d5/tengo/v2"
)

// recorder records each command as a call string.
type recorder struct {
	calls []string
	err   error
}

func (r *recorder) add(inv host.Invocation, format string, args ...any) error {
	subject := 0
	if inv.Subject != nil {
		subject = inv.Subject.ID()
	}
	r.calls = append(r.calls, fmt.Sprintf("@%d ", subject)+fmt.Sprintf(format, args...))
	return r.err
}

func (r *recorder) LoadModel(inv host.Invocation, id int, path string) error {
	return r.add(inv, "load %d %s", id, path)
}
func (r *recorder) ResetBoundingBox(inv host.Invocation, id int) error {
	return r.add(inv, "reset %d", id)
}
func (r *recorder) SetBoundingBox(inv host.Invocation, id int, x, y, z float32) error {
	return r.add(inv, "bbox %d %v %v %v", id, x, y, z)
}
func (r *recorder) SetScale(inv host.Invocation, id int, scale float32) error {
	return r.add(inv, "scale %d %v", id, scale)
}
func (r *recorder) SetVisibility(inv host.Invocation, id int, visible bool) error {
	return r.add(inv, "visible %d %v", id, visible)
}
func (r *recorder) SetOpacity(inv host.Invocation, id int, opacity float32) error {
	return r.add(inv, "opacity %d %v", id, opacity)
}
func (r *recorder) SetOffset(inv host.Invocation, id int, x, y, z float32) error {
	return r.add(inv, "offset %d %v %v %v", id, x, y, z)
}
func (r *recorder) SetRotation(inv host.Invocation, id int, x, y, z float32) error {
	return r.add(inv, "rotation %d %v %v %v", id, x, y, z)
}
func (r *recorder) AddRotation(inv host.Invocation, id int, x, y, z float32) error {
	return r.add(inv, "rotate %d %v %v %v", id, x, y, z)
}
func (r *recorder) RetrieveYRotation(inv host.Invocation, id int, property string) error {
	return r.add(inv, "yaw %d %s", id, property)
}
func (r *recorder) LookAt(inv host.Invocation, subject, target int) error {
	return r.add(inv, "look %d %d", subject, target)
}
func (r *recorder) PlayAnimation(inv host.Invocation, id int, clip string, loop bool, speed float32) error {
	return r.add(inv, "play %d %s %v %v", id, clip, loop, speed)
}
func (r *recorder) QueueAnimation(inv host.Invocation, id int, clip string, loop bool, speed float32) error {
	return r.add(inv, "queue %d %s %v %v", id, clip, loop, speed)
}
func (r *recorder) StopAnimation(inv host.Invocation, id int) error {
	return r.add(inv, "stop %d", id)
}
func (r *recorder) SetAnimationSpeed(inv host.Invocation, id int, speed float32) error {
	return r.add(inv, "speed %d %v", id, speed)
}
func (r *recorder) TriggerEvent(eventID int) {
	r.add(host.Invocation{}, "event %d", eventID)
}
func (r *recorder) ModelInfo(path string) {
	r.add(host.Invocation{}, "info %s", path)
}

const luaScript = `
local g = require("gltf")
g.load_model(g.SELF, "hero.gltf")
g.reset_bounding_box(2)
g.set_bounding_box(2, 1, 2, 3)
g.set_scale(2, 1.5)
g.set_visibility(2, false)
g.set_opacity(2, 0.5)
g.set_offset(2, 0, 1, 0)
g.set_rotation(2, 10, 20, 30)
g.add_rotation(2, 0, 45, 0)
g.retrieve_y_rotation(2, "yaw")
g.look_at(g.SELF, 2)
g.play_animation(2, "walk", true)
g.queue_animation(2, "wave", false, 2)
gltf.stop_animation(2)
gltf.set_animation_speed(2, 0.5)
gltf.trigger_event(7)
gltf.model_info("hero.gltf")
`

const tengoScript = `
g := import("gltf")
g.load_model(g.SELF, "hero.gltf")
g.reset_bounding_box(2)
g.set_bounding_box(2, 1, 2, 3)
g.set_scale(2, 1.5)
g.set_visibility(2, false)
g.set_opacity(2, 0.5)
g.set_offset(2, 0, 1, 0)
g.set_rotation(2, 10, 20, 30)
g.add_rotation(2, 0, 45, 0)
g.retrieve_y_rotation(2, "yaw")
g.look_at(g.SELF, 2)
g.play_animation(2, "walk", true)
g.queue_animation(2, "wave", false, 2)
g.stop_animation(2)
g.set_animation_speed(2, 0.5)
g.trigger_event(7)
g.model_info("hero.gltf")
`

var wantCalls = []string{
	"@5 load -1 hero.gltf",
	"@5 reset 2",
	"@5 bbox 2 1 2 3",
	"@5 scale 2 1.5",
	"@5 visible 2 false",
	"@5 opacity 2 0.5",
	"@5 offset 2 0 1 0",
	"@5 rotation 2 10 20 30",
	"@5 rotate 2 0 45 0",
	"@5 yaw 2 yaw",
	"@5 look -1 2",
	"@5 play 2 walk true 1",
	"@5 queue 2 wave false 2",
	"@5 stop 2",
	"@5 speed 2 0.5",
	"@0 event 7",
	"@0 info hero.gltf",
}

func checkCalls(t *testing.T, got []string) {
	t.Helper()
	if len(got) != len(wantCalls) {
		t.Fatalf("calls: got %d, want %d\n%s", len(got), len(wantCalls), strings.Join(got, "\n"))
	}
	for i := range wantCalls {
		if got[i] != wantCalls[i] {
			t.Errorf("call %d: got %q, want %q", i, got[i], wantCalls[i])
		}
	}
}

func TestLuaHostCallsEveryCommand(t *testing.T) {
	rec := &recorder{}
	self := game_object.NewGameObject(game_object.WithID(5))
	h := NewLuaHost(rec, WithInvocation(host.Invocation{Subject: self}))
	defer h.Close()

	if err := h.DoString(luaScript); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	checkCalls(t, rec.calls)
}

func TestTengoHostCallsEveryCommand(t *testing.T) {
	rec := &recorder{}
	self := game_object.NewGameObject(game_object.WithID(5))
	h := NewTengoHost(rec, WithInvocation(host.Invocation{Subject: self}))

	if err := h.Run(context.Background(), []byte(tengoScript)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	checkCalls(t, rec.calls)
}

func TestCommandsCoverTable(t *testing.T) {
	if got := len(Commands()); got != len(wantCalls) {
		t.Errorf("Commands: got %d, want %d", got, len(wantCalls))
	}
	if _, ok := Lookup("play_animation"); !ok {
		t.Errorf("Lookup(play_animation): not found")
	}
	if _, ok := Lookup("fly"); ok {
		t.Errorf("Lookup(fly): found")
	}
}

func TestCallRejectsBadArguments(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		args tengoArgs
		want error
	}{
		{"unknown", "fly", nil, ErrUnknownCommand},
		{"too few", "set_scale", tengoArgs{&tengo.Int{Value: 1}}, ErrArguments},
		{"wrong type", "load_model", tengoArgs{&tengo.Int{Value: 1}, &tengo.Int{Value: 2}}, ErrArguments},
	}
	for _, tt := range tests {
		rec := &recorder{}
		err := Call(rec, host.Invocation{}, tt.cmd, tt.args)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
		if len(rec.calls) != 0 {
			t.Errorf("%s: plugin called %v", tt.name, rec.calls)
		}
	}
}

func TestLuaCommandErrorStopsScript(t *testing.T) {
	rec := &recorder{err: engine.ErrEntityNotFound}
	h := NewLuaHost(rec)
	defer h.Close()

	err := h.DoString(`gltf.set_scale(gltf.SELF, 2); gltf.trigger_event(1)`)
	if err == nil || !strings.Contains(err.Error(), "set_scale") {
		t.Fatalf("DoString: got %v, want a set_scale error", err)
	}
	if len(rec.calls) != 1 {
		t.Errorf("calls: got %v, want the script to stop at the failed command", rec.calls)
	}

	rec.err = nil
	if err := h.DoString(`gltf.set_visibility(1, "yes")`); err == nil || !strings.Contains(err.Error(), "want boolean") {
		t.Errorf("DoString: got %v, want a type error", err)
	}
}

func TestTengoCommandErrorStopsScript(t *testing.T) {
	rec := &recorder{}
	h := NewTengoHost(rec)

	err := h.Run(context.Background(), []byte(`g := import("gltf"); g.set_scale("x", 2)`))
	if err == nil || !strings.Contains(err.Error(), "want int") {
		t.Errorf("Run: got %v, want a type error", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("calls: got %v", rec.calls)
	}
}

func TestLuaScriptDrivesPlugin(t *testing.T) {
	hero := loadertest.Box("hero", 1, 2, 1)
	hero.Clips = []loadertest.Clip{{Name: "walk", Duration: 1, To: [3]float32{0, 0, 1}}}
	fsys := fstest.MapFS{"hero.gltf": &fstest.MapFile{Data: loadertest.GLTF(hero)}}

	self := game_object.NewGameObject(game_object.WithID(1))
	st := scene.NewStage(scene.NewScene("town", scene.WithObjects(self)))
	p := engine.NewPlugin(st, st,
		engine.WithLoader(loader.NewLoader(loader.BackendTypeGLTF, loader.WithFS(fsys))),
		engine.WithFetcherOptions(loader.WithWorkers(0)),
	)
	defer p.Close()

	now := time.Unix(0, 0)
	p.Tick(now)

	h := NewLuaHost(p, WithInvocation(host.Invocation{Subject: self}))
	defer h.Close()
	err := h.DoString(`
		gltf.load_model(gltf.SELF, "hero.gltf")
		gltf.set_scale(gltf.SELF, 2)
		gltf.play_animation(gltf.SELF, "walk", true)
	`)
	if err != nil {
		t.Fatalf("DoString: %v", err)
	}

	p.Tick(now.Add(16 * time.Millisecond))
	p.Tick(now.Add(116 * time.Millisecond))

	e := p.Registry().Entry(1)
	if e == nil {
		t.Fatalf("entry: model not loaded")
	}
	if e.Root().Scale != [3]float32{2, 2, 2} {
		t.Errorf("scale: got %v, want 2", e.Root().Scale)
	}
	// walk started in the tick that attached the model, so it has seen both ticks
	if cur := e.Current(); cur == nil || cur.Time() < 0.115 || cur.Time() > 0.117 {
		t.Errorf("walk: got %v, want time 0.116", cur)
	}
}
