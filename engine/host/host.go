// Package host declares what the plugin needs from the game engine it extends: the entity
// registry, the stage holding the current map, and the sinks for user-visible messages.
// engine/scene and engine/game_object provide an in-memory implementation.
package host

import (
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

// Self is the entity identifier that resolves to the entity running the current script.
const Self = -1

// Entity is a live object on the current map.
type Entity interface {
	// ID returns the entity's identifier.
	ID() int

	// IsHero reports whether this entity is the player-controlled hero.
	IsHero() bool

	// Position returns the entity's logical position in world units.
	Position() [3]float32

	// Wrapper returns the scene object drawn for this entity, or nil before one is attached.
	// A loaded model is the first child of its wrapper; the host may attach more children.
	Wrapper() *model.Node

	// SetWrapper replaces the scene object drawn for this entity.
	SetWrapper(n *model.Node)

	// MarkCustomModel switches the entity's graphic to the custom model kind, resetting its
	// graphic id and re-evaluating its state.
	MarkCustomModel()

	// BoundingBoxSettings returns the entity's collision and selection boxes, or nil.
	BoundingBoxSettings() *BoundingBoxSettings

	// SetBoundingBoxSettings replaces the entity's collision and selection boxes.
	SetBoundingBoxSettings(s *BoundingBoxSettings)

	// UpdateBoundingBoxes rebuilds the entity's boxes from its settings at its current position.
	UpdateBoundingBoxes()

	// LookAt turns the entity's logical orientation toward target.
	LookAt(target Entity)

	// SetProperty writes a script-visible property.
	SetProperty(name string, value float64)

	// Property reads a script-visible property.
	Property(name string) (float64, bool)
}

// EntityRegistry finds entities on the current map.
type EntityRegistry interface {
	// Search looks up the entity with the given identifier in the context of inv.
	//
	// Parameters:
	//   - id: the entity identifier; Self resolves to the invoking entity
	//   - inv: the invocation context of the calling script
	//
	// Returns:
	//   - Entity: the entity
	//   - bool: false if no such entity exists
	Search(id int, inv Invocation) (Entity, bool)
}

// MapScene is a map currently held by the stage.
type MapScene interface {
	// Loading reports whether the map is still loading.
	Loading() bool

	// Add attaches a node to the map's scene graph.
	Add(n *model.Node)

	// Remove detaches a node from the map's scene graph.
	Remove(n *model.Node)
}

// Stage exposes the host's scene stack.
type Stage interface {
	// CurrentMap returns the current map session even while another scene (a menu, a battle) is
	// on top of the stack, or nil when no map exists.
	CurrentMap() MapScene

	// ActiveMap returns the map when it is the top of the scene stack, or nil otherwise.
	ActiveMap() MapScene
}

// ErrorSink shows a failure to the player.
type ErrorSink interface {
	ShowError(msg string)
}

// EventSink dispatches a script event to every listening entity.
type EventSink interface {
	SendEventDetection(eventID int)
}

// Dialog shows an informational message box.
type Dialog interface {
	Alert(msg string)
}

// ErrorSinkFunc adapts a function to ErrorSink.
type ErrorSinkFunc func(msg string)

// ShowError calls f(msg).
func (f ErrorSinkFunc) ShowError(msg string) { f(msg) }

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(eventID int)

// SendEventDetection calls f(eventID).
func (f EventSinkFunc) SendEventDetection(eventID int) { f(eventID) }

// DialogFunc adapts a function to Dialog.
type DialogFunc func(msg string)

// Alert calls f(msg).
func (f DialogFunc) Alert(msg string) { f(msg) }

// Invocation is the context a script command runs in.
type Invocation struct {
	// Subject is the entity whose script issued the command. It may be nil for commands issued
	// outside any entity, in which case Self cannot be resolved.
	Subject Entity
}

// Resolve replaces Self with the subject's identifier.
//
// Parameters:
//   - id: an entity identifier or Self
//
// Returns:
//   - int: the resolved identifier
//   - bool: false if id is Self and the invocation has no subject
func (inv Invocation) Resolve(id int) (int, bool) {
	if id != Self {
		return id, true
	}
	if inv.Subject == nil {
		return 0, false
	}
	return inv.Subject.ID(), true
}
