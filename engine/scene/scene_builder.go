package scene

import (
	"github.com/Carmen-Shannon/oxy-gltf/engine/game_object"
	"go.uber.org/zap"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithLoading sets whether the map starts in the loading state.
//
// Parameters:
//   - loading: whether the map is loading
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLoading(loading bool) SceneBuilderOption {
	return func(s *scene) {
		s.loading = loading
	}
}

// WithObjects adds initial objects to the scene.
// Objects without IDs will be assigned new IDs.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		for _, obj := range objects {
			s.addObject(obj)
		}
	}
}

// WithLogger sets the logger used for registry anomalies.
//
// Parameters:
//   - log: the logger; nil keeps the no-op default
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(log *zap.Logger) SceneBuilderOption {
	return func(s *scene) {
		if log != nil {
			s.log = log
		}
	}
}
