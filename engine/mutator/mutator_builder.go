package mutator

import (
	"github.com/Carmen-Shannon/oxy-gltf/engine/host"
	"github.com/Carmen-Shannon/oxy-gltf/engine/material"
	"go.uber.org/zap"
)

// MutatorBuilderOption is a functional option for configuring a Mutator.
type MutatorBuilderOption func(*mutator)

// WithMaterialFactory sets the factory replacement materials are created with.
// Defaults to material.NewDefaultFactory.
//
// Parameters:
//   - f: the factory
//
// Returns:
//   - MutatorBuilderOption: option function to apply
func WithMaterialFactory(f material.Factory) MutatorBuilderOption {
	return func(m *mutator) {
		m.factory = f
	}
}

// WithErrorSink sets where user-visible failures are reported. Defaults to logging them.
//
// Parameters:
//   - sink: the error sink
//
// Returns:
//   - MutatorBuilderOption: option function to apply
func WithErrorSink(sink host.ErrorSink) MutatorBuilderOption {
	return func(m *mutator) {
		m.errs = sink
	}
}

// WithGridPolicy sets how grid-unit arguments are scaled.
//
// Parameters:
//   - g: the policy
//
// Returns:
//   - MutatorBuilderOption: option function to apply
func WithGridPolicy(g GridPolicy) MutatorBuilderOption {
	return func(m *mutator) {
		m.grid = g
	}
}

// WithLogger sets the logger.
//
// Parameters:
//   - log: the logger; nil keeps the no-op default
//
// Returns:
//   - MutatorBuilderOption: option function to apply
func WithLogger(log *zap.Logger) MutatorBuilderOption {
	return func(m *mutator) {
		if log != nil {
			m.log = log
		}
	}
}
