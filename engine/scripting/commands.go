// Package scripting exposes the plugin's command table to embedded script interpreters.
//
// Both hosts share the same table: every command takes its arguments positionally, in the order
// listed by Commands, and entity identifiers accept SELF (-1) for the entity running the script.
package scripting

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gltf/engine/host"
)

var (
	// ErrArguments is returned when a command is called with too few or mistyped arguments.
	ErrArguments = errors.New("bad arguments")

	// ErrUnknownCommand is returned by Call for a name that is not in the table.
	ErrUnknownCommand = errors.New("unknown command")
)

// Plugin is the command surface scripts drive. engine.Plugin satisfies it.
type Plugin interface {
	LoadModel(inv host.Invocation, id int, path string) error
	ResetBoundingBox(inv host.Invocation, id int) error
	SetBoundingBox(inv host.Invocation, id int, x, y, z float32) error
	SetScale(inv host.Invocation, id int, scale float32) error
	SetVisibility(inv host.Invocation, id int, visible bool) error
	SetOpacity(inv host.Invocation, id int, opacity float32) error
	SetOffset(inv host.Invocation, id int, x, y, z float32) error
	SetRotation(inv host.Invocation, id int, x, y, z float32) error
	AddRotation(inv host.Invocation, id int, x, y, z float32) error
	RetrieveYRotation(inv host.Invocation, id int, property string) error
	LookAt(inv host.Invocation, subject, target int) error
	PlayAnimation(inv host.Invocation, id int, clip string, loop bool, speed float32) error
	QueueAnimation(inv host.Invocation, id int, clip string, loop bool, speed float32) error
	StopAnimation(inv host.Invocation, id int) error
	SetAnimationSpeed(inv host.Invocation, id int, speed float32) error
	TriggerEvent(eventID int)
	ModelInfo(path string)
}

// Args gives a command positional access to the interpreter's call arguments.
type Args interface {
	// Len returns the number of arguments passed.
	Len() int

	// Int returns argument i as an integer.
	Int(i int) (int, error)

	// Float returns argument i as a float.
	Float(i int) (float32, error)

	// Bool returns argument i as a boolean.
	Bool(i int) (bool, error)

	// String returns argument i as a string.
	String(i int) (string, error)
}

// Command is one entry of the script command table.
type Command struct {
	// Name is the function name scripts call.
	Name string

	// MinArgs is the number of required arguments.
	MinArgs int

	run func(p Plugin, inv host.Invocation, r *reader)
}

// Call checks the argument count and runs the command against p.
//
// Parameters:
//   - p: the plugin
//   - inv: the invocation the script runs under
//   - a: the call arguments
//
// Returns:
//   - error: ErrArguments for a bad call, or the plugin's error
func (c Command) Call(p Plugin, inv host.Invocation, a Args) error {
	if a.Len() < c.MinArgs {
		return fmt.Errorf("%s: %w: got %d, want at least %d", c.Name, ErrArguments, a.Len(), c.MinArgs)
	}
	r := &reader{args: a}
	c.run(p, inv, r)
	if r.err != nil {
		return fmt.Errorf("%s: %w", c.Name, r.err)
	}
	return nil
}

var table = []Command{
	{Name: "load_model", MinArgs: 2, run: func(p Plugin, inv host.Invocation, r *reader) {
		id, path := r.int(0), r.string(1)
		r.do(func() error { return p.LoadModel(inv, id, path) })
	}},
	{Name: "reset_bounding_box", MinArgs: 1, run: func(p Plugin, inv host.Invocation, r *reader) {
		id := r.int(0)
		r.do(func() error { return p.ResetBoundingBox(inv, id) })
	}},
	{Name: "set_bounding_box", MinArgs: 4, run: func(p Plugin, inv host.Invocation, r *reader) {
		id, x, y, z := r.int(0), r.float(1), r.float(2), r.float(3)
		r.do(func() error { return p.SetBoundingBox(inv, id, x, y, z) })
	}},
	{Name: "set_scale", MinArgs: 2, run: func(p Plugin, inv host.Invocation, r *reader) {
		id, s := r.int(0), r.float(1)
		r.do(func() error { return p.SetScale(inv, id, s) })
	}},
	{Name: "set_visibility", MinArgs: 2, run: func(p Plugin, inv host.Invocation, r *reader) {
		id, visible := r.int(0), r.bool(1)
		r.do(func() error { return p.SetVisibility(inv, id, visible) })
	}},
	{Name: "set_opacity", MinArgs: 2, run: func(p Plugin, inv host.Invocation, r *reader) {
		id, v := r.int(0), r.float(1)
		r.do(func() error { return p.SetOpacity(inv, id, v) })
	}},
	{Name: "set_offset", MinArgs: 4, run: func(p Plugin, inv host.Invocation, r *reader) {
		id, x, y, z := r.int(0), r.float(1), r.float(2), r.float(3)
		r.do(func() error { return p.SetOffset(inv, id, x, y, z) })
	}},
	{Name: "set_rotation", MinArgs: 4, run: func(p Plugin, inv host.Invocation, r *reader) {
		id, x, y, z := r.int(0), r.float(1), r.float(2), r.float(3)
		r.do(func() error { return p.SetRotation(inv, id, x, y, z) })
	}},
	{Name: "add_rotation", MinArgs: 4, run: func(p Plugin, inv host.Invocation, r *reader) {
		id, x, y, z := r.int(0), r.float(1), r.float(2), r.float(3)
		r.do(func() error { return p.AddRotation(inv, id, x, y, z) })
	}},
	{Name: "retrieve_y_rotation", MinArgs: 2, run: func(p Plugin, inv host.Invocation, r *reader) {
		id, prop := r.int(0), r.string(1)
		r.do(func() error { return p.RetrieveYRotation(inv, id, prop) })
	}},
	{Name: "look_at", MinArgs: 2, run: func(p Plugin, inv host.Invocation, r *reader) {
		subject, target := r.int(0), r.int(1)
		r.do(func() error { return p.LookAt(inv, subject, target) })
	}},
	{Name: "play_animation", MinArgs: 3, run: func(p Plugin, inv host.Invocation, r *reader) {
		id, clip, loop := r.int(0), r.string(1), r.bool(2)
		speed := float32(1)
		if r.args.Len() > 3 {
			speed = r.float(3)
		}
		r.do(func() error { return p.PlayAnimation(inv, id, clip, loop, speed) })
	}},
	{Name: "queue_animation", MinArgs: 4, run: func(p Plugin, inv host.Invocation, r *reader) {
		id, clip, loop, speed := r.int(0), r.string(1), r.bool(2), r.float(3)
		r.do(func() error { return p.QueueAnimation(inv, id, clip, loop, speed) })
	}},
	{Name: "stop_animation", MinArgs: 1, run: func(p Plugin, inv host.Invocation, r *reader) {
		id := r.int(0)
		r.do(func() error { return p.StopAnimation(inv, id) })
	}},
	{Name: "set_animation_speed", MinArgs: 2, run: func(p Plugin, inv host.Invocation, r *reader) {
		id, speed := r.int(0), r.float(1)
		r.do(func() error { return p.SetAnimationSpeed(inv, id, speed) })
	}},
	{Name: "trigger_event", MinArgs: 1, run: func(p Plugin, inv host.Invocation, r *reader) {
		eventID := r.int(0)
		r.do(func() error { p.TriggerEvent(eventID); return nil })
	}},
	{Name: "model_info", MinArgs: 1, run: func(p Plugin, inv host.Invocation, r *reader) {
		path := r.string(0)
		r.do(func() error { p.ModelInfo(path); return nil })
	}},
}

// Commands returns the command table in declaration order.
//
// Returns:
//   - []Command: a copy of the table
func Commands() []Command {
	return append([]Command(nil), table...)
}

// Lookup finds a command by script name.
//
// Parameters:
//   - name: the command name
//
// Returns:
//   - Command: the command
//   - bool: false if no command has that name
func Lookup(name string) (Command, bool) {
	for _, c := range table {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// Call runs the named command.
//
// Parameters:
//   - p: the plugin
//   - inv: the invocation the script runs under
//   - name: the command name
//   - a: the call arguments
//
// Returns:
//   - error: ErrUnknownCommand, ErrArguments, or the plugin's error
func Call(p Plugin, inv host.Invocation, name string, a Args) error {
	c, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownCommand)
	}
	return c.Call(p, inv, a)
}

// reader reads arguments and keeps the first conversion error; later reads return zero values.
type reader struct {
	args Args
	err  error
}

func (r *reader) int(i int) int {
	if r.err != nil {
		return 0
	}
	v, err := r.args.Int(i)
	r.err = err
	return v
}

func (r *reader) float(i int) float32 {
	if r.err != nil {
		return 0
	}
	v, err := r.args.Float(i)
	r.err = err
	return v
}

func (r *reader) bool(i int) bool {
	if r.err != nil {
		return false
	}
	v, err := r.args.Bool(i)
	r.err = err
	return v
}

func (r *reader) string(i int) string {
	if r.err != nil {
		return ""
	}
	v, err := r.args.String(i)
	r.err = err
	return v
}

// do runs fn if every argument converted.
func (r *reader) do(fn func() error) {
	if r.err != nil {
		return
	}
	r.err = fn()
}

// argError reports argument i as having the wrong type.
func argError(i int, want, got string) error {
	return fmt.Errorf("%w: argument %d: want %s, got %s", ErrArguments, i+1, want, got)
}
