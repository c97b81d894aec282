package scripting

import (
	"github.com/Carmen-Shannon/oxy-gltf/engine/host"
	"go.uber.org/zap"
)

// ModuleName is the name scripts import the command table under.
const ModuleName = "gltf"

// base holds what both interpreter hosts share.
type base struct {
	plugin Plugin
	inv    host.Invocation
	log    *zap.Logger
}

func newBase(p Plugin, options []HostBuilderOption) base {
	b := base{plugin: p, log: zap.NewNop()}
	for _, opt := range options {
		opt(&b)
	}
	return b
}

// SetInvocation changes the invocation later script calls run under.
//
// Parameters:
//   - inv: the invocation
func (b *base) SetInvocation(inv host.Invocation) {
	b.inv = inv
}

// call runs a command and logs its failure.
func (b *base) call(c Command, a Args) error {
	if err := c.Call(b.plugin, b.inv, a); err != nil {
		b.log.Debug("script command failed", zap.String("command", c.Name), zap.Error(err))
		return err
	}
	return nil
}
