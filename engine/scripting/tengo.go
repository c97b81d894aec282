package scripting

import (
	"context"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gltf/engine/host"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// TengoHost runs tengo scripts that import the command table as the gltf module.
type TengoHost struct {
	base
}

// NewTengoHost creates a tengo host bound to p.
//
// Parameters:
//   - p: the plugin commands are issued to (must not be nil)
//   - options: functional options for host configuration
//
// Returns:
//   - *TengoHost: the new host
func NewTengoHost(p Plugin, options ...HostBuilderOption) *TengoHost {
	if p == nil {
		panic("scripting: NewTengoHost requires a non-nil Plugin")
	}
	return &TengoHost{base: newBase(p, options)}
}

// Module returns the gltf module attributes.
//
// Returns:
//   - map[string]tengo.Object: one user function per command plus SELF
func (h *TengoHost) Module() map[string]tengo.Object {
	attrs := make(map[string]tengo.Object, len(table)+1)
	for _, c := range table {
		c := c
		attrs[c.Name] = &tengo.UserFunction{Name: c.Name, Value: func(args ...tengo.Object) (tengo.Object, error) {
			if err := h.call(c, tengoArgs(args)); err != nil {
				return nil, err
			}
			return tengo.UndefinedValue, nil
		}}
	}
	attrs["SELF"] = &tengo.Int{Value: host.Self}
	return attrs
}

// Modules returns the importable modules: the tengo standard library and gltf.
//
// Returns:
//   - *tengo.ModuleMap: the module map
func (h *TengoHost) Modules() *tengo.ModuleMap {
	mm := stdlib.GetModuleMap(stdlib.AllModuleNames()...)
	mm.AddBuiltinModule(ModuleName, h.Module())
	return mm
}

// Run compiles and runs a tengo script.
//
// Parameters:
//   - ctx: cancels a long-running script
//   - src: the source
//
// Returns:
//   - error: a compile or runtime error, including failed commands
func (h *TengoHost) Run(ctx context.Context, src []byte) error {
	script := tengo.NewScript(src)
	script.SetImports(h.Modules())
	if _, err := script.RunContext(ctx); err != nil {
		return fmt.Errorf("run tengo script: %w", err)
	}
	return nil
}

// tengoArgs adapts a user function's arguments.
type tengoArgs []tengo.Object

func (a tengoArgs) Len() int {
	return len(a)
}

func (a tengoArgs) Int(i int) (int, error) {
	if v, ok := a[i].(*tengo.Int); ok {
		return int(v.Value), nil
	}
	return 0, argError(i, "int", a[i].TypeName())
}

func (a tengoArgs) Float(i int) (float32, error) {
	switch v := a[i].(type) {
	case *tengo.Float:
		return float32(v.Value), nil
	case *tengo.Int:
		return float32(v.Value), nil
	}
	return 0, argError(i, "float", a[i].TypeName())
}

func (a tengoArgs) Bool(i int) (bool, error) {
	if v, ok := a[i].(*tengo.Bool); ok {
		return !v.IsFalsy(), nil
	}
	return false, argError(i, "bool", a[i].TypeName())
}

func (a tengoArgs) String(i int) (string, error) {
	if v, ok := a[i].(*tengo.String); ok {
		return v.Value, nil
	}
	return "", argError(i, "string", a[i].TypeName())
}
