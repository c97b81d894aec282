package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-gltf/engine/animator"
	"github.com/Carmen-Shannon/oxy-gltf/engine/host"
	"github.com/Carmen-Shannon/oxy-gltf/engine/loader"
	"github.com/Carmen-Shannon/oxy-gltf/engine/material"
	"github.com/Carmen-Shannon/oxy-gltf/engine/mutator"
	"github.com/Carmen-Shannon/oxy-gltf/engine/profiler"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PluginBuilderOption is a functional option for configuring a Plugin.
// Use the With* functions to create options that are applied directly to the plugin instance.
type PluginBuilderOption func(*plugin)

// WithLogger sets the logger shared by every component of the plugin.
//
// Parameters:
//   - log: the logger; nil keeps the no-op default
//
// Returns:
//   - PluginBuilderOption: option function to apply
func WithLogger(log *zap.Logger) PluginBuilderOption {
	return func(p *plugin) {
		if log != nil {
			p.log = log
		}
	}
}

// WithErrorSink sets where load failures are shown to the player. Defaults to logging them.
//
// Parameters:
//   - sink: the error sink
//
// Returns:
//   - PluginBuilderOption: option function to apply
func WithErrorSink(sink host.ErrorSink) PluginBuilderOption {
	return func(p *plugin) {
		p.errs = sink
	}
}

// WithEventSink sets the dispatcher used by the trigger event command.
//
// Parameters:
//   - sink: the event sink
//
// Returns:
//   - PluginBuilderOption: option function to apply
func WithEventSink(sink host.EventSink) PluginBuilderOption {
	return func(p *plugin) {
		p.events = sink
	}
}

// WithDialog sets where model info reports are shown. Defaults to logging them.
//
// Parameters:
//   - d: the dialog
//
// Returns:
//   - PluginBuilderOption: option function to apply
func WithDialog(d host.Dialog) PluginBuilderOption {
	return func(p *plugin) {
		p.dialog = d
	}
}

// WithMaterialFactory sets the factory that builds materials for attached models.
//
// Parameters:
//   - f: the factory
//
// Returns:
//   - PluginBuilderOption: option function to apply
func WithMaterialFactory(f material.Factory) PluginBuilderOption {
	return func(p *plugin) {
		p.factory = f
	}
}

// WithGridPolicy sets how grid-unit command arguments map to world units.
//
// Parameters:
//   - g: the policy
//
// Returns:
//   - PluginBuilderOption: option function to apply
func WithGridPolicy(g mutator.GridPolicy) PluginBuilderOption {
	return func(p *plugin) {
		p.grid = g
	}
}

// WithModelsDir sets the directory model paths are resolved against. Defaults to "Models".
// Ignored when WithLoader supplies a loader.
//
// Parameters:
//   - dir: the models directory
//
// Returns:
//   - PluginBuilderOption: option function to apply
func WithModelsDir(dir string) PluginBuilderOption {
	return func(p *plugin) {
		p.modelsDir = dir
	}
}

// WithCache enables or disables caching of parsed model templates.
//
// Parameters:
//   - enabled: false to parse the file on every load
//
// Returns:
//   - PluginBuilderOption: option function to apply
func WithCache(enabled bool) PluginBuilderOption {
	return func(p *plugin) {
		p.cache = enabled
	}
}

// WithWatch enables invalidating cached templates when files in the models directory change.
//
// Parameters:
//   - enabled: true to watch the models directory
//
// Returns:
//   - PluginBuilderOption: option function to apply
func WithWatch(enabled bool) PluginBuilderOption {
	return func(p *plugin) {
		p.watch = enabled
	}
}

// WithLoader sets the loader models are read through, replacing the default one rooted at the
// models directory.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - PluginBuilderOption: option function to apply
func WithLoader(l loader.Loader) PluginBuilderOption {
	return func(p *plugin) {
		p.loader = l
	}
}

// WithFetcherOptions passes options to the model fetcher, such as its worker count.
//
// Parameters:
//   - options: the fetcher options
//
// Returns:
//   - PluginBuilderOption: option function to apply
func WithFetcherOptions(options ...loader.FetcherBuilderOption) PluginBuilderOption {
	return func(p *plugin) {
		p.fetcherOpts = append(p.fetcherOpts, options...)
	}
}

// WithMixerOptions appends options applied to every animation mixer the plugin creates. They run
// after the plugin logger is applied, so a mixer logger set here wins.
//
// Parameters:
//   - options: the mixer options
//
// Returns:
//   - PluginBuilderOption: option function to apply
func WithMixerOptions(options ...animator.MixerBuilderOption) PluginBuilderOption {
	return func(p *plugin) {
		p.mixerOpts = append(p.mixerOpts, options...)
	}
}

// WithStaleWarnAfter sets after how many ticks of waiting on a stale map the command queue warns.
//
// Parameters:
//   - ticks: the tick count
//
// Returns:
//   - PluginBuilderOption: option function to apply
func WithStaleWarnAfter(ticks int) PluginBuilderOption {
	return func(p *plugin) {
		p.staleWarnAfter = ticks
	}
}

// WithLocale sets the language model info reports format numbers in.
//
// Parameters:
//   - tag: the language
//
// Returns:
//   - PluginBuilderOption: option function to apply
func WithLocale(tag language.Tag) PluginBuilderOption {
	return func(p *plugin) {
		p.printer = message.NewPrinter(tag)
	}
}

// WithProfiling enables or disables tick profiling output.
//
// Parameters:
//   - enabled: if true, enables tick profiling
//
// Returns:
//   - PluginBuilderOption: option function to apply
func WithProfiling(enabled bool) PluginBuilderOption {
	return func(p *plugin) {
		p.profilingEnabled = enabled
	}
}

// WithProfiler sets the profiler tick statistics are reported to.
//
// Parameters:
//   - pr: the profiler
//
// Returns:
//   - PluginBuilderOption: option function to apply
func WithProfiler(pr *profiler.Profiler) PluginBuilderOption {
	return func(p *plugin) {
		p.profiler = pr
	}
}

// WithTickInterval sets the period Run ticks at.
// Values <= 0 will be treated as the default (16ms).
//
// Parameters:
//   - d: the tick period
//
// Returns:
//   - PluginBuilderOption: option function to apply
func WithTickInterval(d time.Duration) PluginBuilderOption {
	return func(p *plugin) {
		if d <= 0 {
			d = defaultTickInterval
		}
		p.tickInterval = d
	}
}
