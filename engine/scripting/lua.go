package scripting

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gltf/engine/host"
	lua "github.com/yuin/gopher-lua"
)

// LuaHost runs Lua scripts with the command table available as the gltf module and global.
// A LuaHost wraps one gopher-lua VM and must be used from a single goroutine.
type LuaHost struct {
	base
	vm *lua.LState
}

// NewLuaHost creates a Lua VM bound to p.
//
// Parameters:
//   - p: the plugin commands are issued to (must not be nil)
//   - options: functional options for host configuration
//
// Returns:
//   - *LuaHost: the new host
func NewLuaHost(p Plugin, options ...HostBuilderOption) *LuaHost {
	if p == nil {
		panic("scripting: NewLuaHost requires a non-nil Plugin")
	}
	h := &LuaHost{base: newBase(p, options), vm: lua.NewState()}
	h.vm.PreloadModule(ModuleName, func(L *lua.LState) int {
		L.Push(h.module(L))
		return 1
	})
	h.vm.SetGlobal(ModuleName, h.module(h.vm))
	return h
}

// module builds the gltf table.
func (h *LuaHost) module(L *lua.LState) *lua.LTable {
	funcs := make(map[string]lua.LGFunction, len(table))
	for _, c := range table {
		funcs[c.Name] = h.bind(c)
	}
	mod := L.SetFuncs(L.NewTable(), funcs)
	mod.RawSetString("SELF", lua.LNumber(host.Self))
	return mod
}

func (h *LuaHost) bind(c Command) lua.LGFunction {
	return func(L *lua.LState) int {
		if err := h.call(c, luaArgs{L}); err != nil {
			L.RaiseError("%s", err.Error())
		}
		return 0
	}
}

// DoString runs a Lua chunk.
//
// Parameters:
//   - src: the source
//
// Returns:
//   - error: a compile or runtime error, including failed commands
func (h *LuaHost) DoString(src string) error {
	if err := h.vm.DoString(src); err != nil {
		return fmt.Errorf("run lua chunk: %w", err)
	}
	return nil
}

// DoFile runs a Lua file.
//
// Parameters:
//   - path: the script path
//
// Returns:
//   - error: a load, compile or runtime error
func (h *LuaHost) DoFile(path string) error {
	if err := h.vm.DoFile(path); err != nil {
		return fmt.Errorf("run %s: %w", path, err)
	}
	return nil
}

// Close releases the VM.
func (h *LuaHost) Close() {
	h.vm.Close()
}

// luaArgs reads the arguments of the running Go function from the Lua stack.
type luaArgs struct {
	L *lua.LState
}

func (a luaArgs) Len() int {
	return a.L.GetTop()
}

func (a luaArgs) Int(i int) (int, error) {
	v := a.L.Get(i + 1)
	n, ok := v.(lua.LNumber)
	if !ok {
		return 0, argError(i, "number", v.Type().String())
	}
	return int(n), nil
}

func (a luaArgs) Float(i int) (float32, error) {
	v := a.L.Get(i + 1)
	n, ok := v.(lua.LNumber)
	if !ok {
		return 0, argError(i, "number", v.Type().String())
	}
	return float32(n), nil
}

func (a luaArgs) Bool(i int) (bool, error) {
	v := a.L.Get(i + 1)
	b, ok := v.(lua.LBool)
	if !ok {
		return false, argError(i, "boolean", v.Type().String())
	}
	return bool(b), nil
}

func (a luaArgs) String(i int) (string, error) {
	v := a.L.Get(i + 1)
	s, ok := v.(lua.LString)
	if !ok {
		return "", argError(i, "string", v.Type().String())
	}
	return string(s), nil
}
