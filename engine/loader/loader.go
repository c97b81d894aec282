package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

var (
	// ErrUnsupportedFormat is returned for paths whose extension no backend reads.
	ErrUnsupportedFormat = errors.New("unsupported model format")

	// ErrNotFound is returned when a model file does not exist under the loader's root.
	ErrNotFound = errors.New("model not found")

	errInvalidPath = errors.New("invalid model path")
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	fsys    fs.FS
	log     *zap.Logger
	caching bool

	modelCache map[string]*model.ImportedModel
	inflight   singleflight.Group

	backend loaderBackend
}

// Loader defines the public-facing interface for loading and caching 3D models.
// It abstracts the file format (glTF, GLB, etc.) behind a generic backend and keeps a cache
// of parsed templates keyed by cleaned path. Templates are immutable; Instantiate turns one
// into a fresh scene graph for every caller.
//
// Paths are slash-separated and relative to the loader's root filesystem (see WithBaseDir).
// Safe for concurrent use.
type Loader interface {
	// Load imports a model file and caches the parsed template.
	// If the template is already cached, the cached version is returned. Concurrent loads of
	// the same path share one parse.
	//
	// Parameters:
	//   - name: the model path relative to the loader's root
	//
	// Returns:
	//   - *model.ImportedModel: the parsed template; callers must not modify it
	//   - error: ErrUnsupportedFormat, ErrNotFound, or a wrapped parse error
	Load(name string) (*model.ImportedModel, error)

	// Instantiate loads the template for name and builds a new scene graph from it.
	//
	// Parameters:
	//   - name: the model path relative to the loader's root
	//
	// Returns:
	//   - model.Model: a model instance owning fresh nodes
	//   - error: error if loading or instantiation fails
	Instantiate(name string) (model.Model, error)

	// LoadReader imports a model from a reader stream and caches it under the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - *model.ImportedModel: the parsed template
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, isGLB bool) (*model.ImportedModel, error)

	// Get retrieves a cached template by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *model.ImportedModel: the cached template or nil
	Get(name string) *model.ImportedModel

	// Models returns a copy of the template cache.
	//
	// Returns:
	//   - map[string]*model.ImportedModel: all cached templates keyed by name
	Models() map[string]*model.ImportedModel

	// Invalidate drops one cached template so the next Load re-reads the file.
	//
	// Parameters:
	//   - name: the cache key to drop
	Invalidate(name string)

	// Clear drops every cached template.
	Clear()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
// Without WithFS or WithBaseDir the loader reads from the process working directory.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		log:        zap.NewNop(),
		caching:    true,
		modelCache: make(map[string]*model.ImportedModel),
	}

	for _, option := range options {
		option(l)
	}
	if l.fsys == nil {
		l.fsys = os.DirFS(".")
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend(l.fsys)
	}
	return l
}

func (l *loader) Load(name string) (*model.ImportedModel, error) {
	key, err := CleanPath(name)
	if err != nil {
		return nil, err
	}

	if cached := l.Get(key); cached != nil {
		return cached, nil
	}

	backend, err := l.resolveBackend(key)
	if err != nil {
		return nil, err
	}

	v, err, shared := l.inflight.Do(key, func() (any, error) {
		imported, err := backend.Load(key)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
			}
			return nil, fmt.Errorf("failed to load %s: %w", key, err)
		}
		l.store(key, imported)
		return imported, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		l.log.Debug("model parse shared", zap.String("path", key))
	}
	return v.(*model.ImportedModel), nil
}

func (l *loader) Instantiate(name string) (model.Model, error) {
	imported, err := l.Load(name)
	if err != nil {
		return nil, err
	}
	return model.Instantiate(imported)
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (*model.ImportedModel, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}

	imported, err := l.backend.LoadReader(name, r, isGLB)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	l.store(name, imported)
	return imported, nil
}

func (l *loader) Get(name string) *model.ImportedModel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]*model.ImportedModel {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*model.ImportedModel, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

func (l *loader) Invalidate(name string) {
	if key, err := CleanPath(name); err == nil {
		name = key
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.modelCache[name]; ok {
		delete(l.modelCache, name)
		l.log.Debug("model cache entry invalidated", zap.String("path", name))
	}
}

func (l *loader) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.modelCache)
}

// store caches a template when caching is enabled.
func (l *loader) store(key string, imported *model.ImportedModel) {
	if !l.caching {
		return
	}
	l.mu.Lock()
	l.modelCache[key] = imported
	l.mu.Unlock()
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only glTF/GLB is supported.
func (l *loader) resolveBackend(name string) (loaderBackend, error) {
	ext := strings.ToLower(path.Ext(name))
	switch ext {
	case ".gltf", ".glb":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// CleanPath normalizes a model path into the slash-separated, root-relative form used as
// the cache key. Backslashes are accepted as separators; a leading slash is ignored.
//
// Parameters:
//   - name: the path as written by a script or host
//
// Returns:
//   - string: the cleaned path
//   - error: error if the path is empty or escapes the root
func CleanPath(name string) (string, error) {
	p := strings.ReplaceAll(filepath.ToSlash(name), `\`, "/")
	p = strings.TrimLeft(path.Clean("/"+p), "/")
	if p == "" || !fs.ValidPath(p) {
		return "", fmt.Errorf("%w: %q", errInvalidPath, name)
	}
	return p, nil
}
