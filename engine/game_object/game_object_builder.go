package game_object

import (
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id int) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithEnabled sets whether the GameObject is enabled for rendering.
//
// Parameters:
//   - enabled: true to render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithHero marks the GameObject as the player-controlled hero.
//
// Parameters:
//   - hero: true for the hero
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the hero flag
func WithHero(hero bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.hero = hero
	}
}

// WithPosition sets the initial position of the GameObject.
//
// Parameters:
//   - x: the x position
//   - y: the y position
//   - z: the z position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = [3]float32{x, y, z}
	}
}

// WithWrapper sets the scene object initially drawn for the GameObject, such as a sprite quad.
//
// Parameters:
//   - n: the wrapper node
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the wrapper
func WithWrapper(n *model.Node) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.wrapper = n
	}
}

// WithProperty sets an initial script-visible property.
//
// Parameters:
//   - name: the property name
//   - value: the property value
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the property
func WithProperty(name string, value float64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.properties[name] = value
	}
}
