package registry

import (
	"github.com/Carmen-Shannon/oxy-gltf/engine/animator"
	"go.uber.org/zap"
)

// RegistryBuilderOption is a functional option for configuring a Registry during construction.
type RegistryBuilderOption func(*registry)

// WithLogger is an option builder that sets the registry's logger. The logger is also handed to
// every mixer the registry creates.
//
// Parameters:
//   - log: the logger; nil keeps the no-op default
//
// Returns:
//   - RegistryBuilderOption: a function that applies the logger to a registry
func WithLogger(log *zap.Logger) RegistryBuilderOption {
	return func(r *registry) {
		if log != nil {
			r.log = log
			r.mixerOpts = append(r.mixerOpts, animator.WithLogger(log))
		}
	}
}

// WithMixerOptions is an option builder that appends options applied to every new mixer.
//
// Parameters:
//   - options: the mixer options
//
// Returns:
//   - RegistryBuilderOption: a function that applies the mixer options to a registry
func WithMixerOptions(options ...animator.MixerBuilderOption) RegistryBuilderOption {
	return func(r *registry) {
		r.mixerOpts = append(r.mixerOpts, options...)
	}
}
