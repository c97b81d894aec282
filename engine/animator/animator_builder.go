package animator

import "go.uber.org/zap"

// MixerBuilderOption is a functional option for configuring a Mixer during construction.
type MixerBuilderOption func(*mixer)

// WithLogger is an option builder that sets the logger used for playback diagnostics.
//
// Parameters:
//   - log: the logger; nil keeps the no-op default
//
// Returns:
//   - MixerBuilderOption: a function that applies the logger option to a mixer
func WithLogger(log *zap.Logger) MixerBuilderOption {
	return func(m *mixer) {
		if log != nil {
			m.log = log
		}
	}
}
