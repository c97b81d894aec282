package loader

import (
	"io/fs"
	"os"

	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"go.uber.org/zap"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithFS is an option builder that sets the filesystem model paths are resolved in.
//
// Parameters:
//   - fsys: the root filesystem
//
// Returns:
//   - LoaderBuilderOption: a function that applies the filesystem option to a loader
func WithFS(fsys fs.FS) LoaderBuilderOption {
	return func(l *loader) {
		l.fsys = fsys
	}
}

// WithBaseDir is an option builder that roots the loader at a directory on disk.
//
// Parameters:
//   - dir: the base directory relative model paths resolve against
//
// Returns:
//   - LoaderBuilderOption: a function that applies the base directory option to a loader
func WithBaseDir(dir string) LoaderBuilderOption {
	return func(l *loader) {
		l.fsys = os.DirFS(dir)
	}
}

// WithLogger is an option builder that sets the logger used by the Loader.
//
// Parameters:
//   - log: the logger; nil keeps the no-op default
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(log *zap.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if log != nil {
			l.log = log
		}
	}
}

// WithCache is an option builder that enables or disables template caching.
//
// Parameters:
//   - enabled: false to re-parse the file on every Load
//
// Returns:
//   - LoaderBuilderOption: a function that applies the cache option to a loader
func WithCache(enabled bool) LoaderBuilderOption {
	return func(l *loader) {
		l.caching = enabled
	}
}

// WithModel is an option builder that pre-populates the template cache.
//
// Parameters:
//   - key: the cache key for the model
//   - imported: the template to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, imported *model.ImportedModel) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = imported
	}
}
