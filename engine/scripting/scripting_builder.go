package scripting

import (
	"github.com/Carmen-Shannon/oxy-gltf/engine/host"
	"go.uber.org/zap"
)

// HostBuilderOption is a functional option for configuring a script host.
type HostBuilderOption func(*base)

// WithLogger sets the logger command failures are reported to.
//
// Parameters:
//   - log: the logger; nil keeps the no-op default
//
// Returns:
//   - HostBuilderOption: option function to apply
func WithLogger(log *zap.Logger) HostBuilderOption {
	return func(b *base) {
		if log != nil {
			b.log = log
		}
	}
}

// WithInvocation sets the invocation scripts run under, which SELF resolves against.
//
// Parameters:
//   - inv: the invocation
//
// Returns:
//   - HostBuilderOption: option function to apply
func WithInvocation(inv host.Invocation) HostBuilderOption {
	return func(b *base) {
		b.inv = inv
	}
}
