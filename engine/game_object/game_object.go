package game_object

import (
	"math"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/host"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

// GraphicKind identifies how an entity is drawn.
type GraphicKind int

const (
	// GraphicKindNone draws nothing.
	GraphicKindNone GraphicKind = 0
	// GraphicKindSprite draws a billboard sprite.
	GraphicKindSprite GraphicKind = 1
	// GraphicKindCustomModel draws a model attached by a script.
	GraphicKindCustomModel GraphicKind = 10
)

type gameObject struct {
	id      int
	enabled atomic.Bool
	hero    bool

	position [3]float32
	facing   float32

	wrapper *model.Node

	graphicKind  GraphicKind
	graphicID    int
	stateChanges int

	bbSettings *host.BoundingBoxSettings
	boxes      []common.Box3
	bbUpdates  int

	properties map[string]float64
}

// GameObject defines the reference map entity used by tests and the demo CLI.
// It implements host.Entity and exposes the state a real engine would keep internally so the
// effects of plugin commands can be inspected.
type GameObject interface {
	host.Entity

	// SetID assigns the object's identifier. The owning scene calls it when the object is added
	// without one.
	//
	// Parameters:
	//   - id: the identifier
	SetID(id int)

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetPosition moves the object.
	//
	// Parameters:
	//   - x, y, z: new position components
	SetPosition(x, y, z float32)

	// Facing returns the logical yaw in radians set by LookAt, snapped to the four grid directions.
	//
	// Returns:
	//   - float32: the yaw
	Facing() float32

	// GraphicKind returns how the object is drawn.
	//
	// Returns:
	//   - GraphicKind: the graphic kind
	GraphicKind() GraphicKind

	// GraphicID returns the id of the graphic in the object's current state.
	//
	// Returns:
	//   - int: the graphic id
	GraphicID() int

	// StateChanges returns how many times the object's state has been re-evaluated.
	//
	// Returns:
	//   - int: the number of state changes
	StateChanges() int

	// Boxes returns the world-space boxes computed by the last UpdateBoundingBoxes.
	//
	// Returns:
	//   - []common.Box3: the boxes
	Boxes() []common.Box3

	// BoundingBoxUpdates returns how many times UpdateBoundingBoxes was called.
	//
	// Returns:
	//   - int: the update count
	BoundingBoxUpdates() int
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		graphicKind: GraphicKindSprite,
		graphicID:   1,
		properties:  make(map[string]float64),
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() int {
	return g.id
}

func (g *gameObject) SetID(id int) {
	g.id = id
}

func (g *gameObject) IsHero() bool {
	return g.hero
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Position() [3]float32 {
	return g.position
}

func (g *gameObject) SetPosition(x, y, z float32) {
	g.position = [3]float32{x, y, z}
	if g.wrapper != nil {
		g.wrapper.Position = g.position
	}
}

func (g *gameObject) Facing() float32 {
	return g.facing
}

func (g *gameObject) Wrapper() *model.Node {
	return g.wrapper
}

func (g *gameObject) SetWrapper(n *model.Node) {
	g.wrapper = n
	if n != nil {
		n.Position = g.position
		n.SetRotation(0, g.facing, 0)
	}
}

func (g *gameObject) MarkCustomModel() {
	g.graphicID = 0
	g.stateChanges++
	g.graphicKind = GraphicKindCustomModel
}

func (g *gameObject) GraphicKind() GraphicKind {
	return g.graphicKind
}

func (g *gameObject) GraphicID() int {
	return g.graphicID
}

func (g *gameObject) StateChanges() int {
	return g.stateChanges
}

func (g *gameObject) BoundingBoxSettings() *host.BoundingBoxSettings {
	return g.bbSettings
}

func (g *gameObject) SetBoundingBoxSettings(s *host.BoundingBoxSettings) {
	g.bbSettings = s
}

func (g *gameObject) UpdateBoundingBoxes() {
	g.bbUpdates++
	g.boxes = g.boxes[:0]
	if g.bbSettings == nil {
		return
	}
	g.bbSettings.Position = g.position
	for _, row := range g.bbSettings.Boxes {
		center := [3]float32{g.position[0] + row[0], g.position[1] + row[1], g.position[2] + row[2]}
		half := [3]float32{
			max(row[3], g.bbSettings.Footprint[0]) / 2,
			max(row[4], g.bbSettings.Footprint[1]) / 2,
			max(row[5], g.bbSettings.Footprint[2]) / 2,
		}
		g.boxes = append(g.boxes, common.Box3{
			Min: [3]float32{center[0] - half[0], center[1] - half[1], center[2] - half[2]},
			Max: [3]float32{center[0] + half[0], center[1] + half[1], center[2] + half[2]},
		})
	}
}

func (g *gameObject) Boxes() []common.Box3 {
	return g.boxes
}

func (g *gameObject) BoundingBoxUpdates() int {
	return g.bbUpdates
}

func (g *gameObject) LookAt(target host.Entity) {
	if target == nil {
		return
	}
	to := target.Position()
	dx, dz := to[0]-g.position[0], to[2]-g.position[2]
	if dx == 0 && dz == 0 {
		return
	}
	const quarter = math.Pi / 2
	angle := math.Atan2(float64(dx), float64(dz))
	g.facing = float32(math.Round(angle/quarter) * quarter)
	if g.wrapper != nil {
		g.wrapper.SetRotation(0, g.facing, 0)
	}
}

func (g *gameObject) SetProperty(name string, value float64) {
	g.properties[name] = value
}

func (g *gameObject) Property(name string) (float64, bool) {
	v, ok := g.properties[name]
	return v, ok
}
