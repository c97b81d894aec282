// Package mutator applies loaded models and transform commands to live map entities.
package mutator

import (
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/host"
	"github.com/Carmen-Shannon/oxy-gltf/engine/material"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"github.com/Carmen-Shannon/oxy-gltf/engine/registry"
	"go.uber.org/zap"
)

// ErrEntityNotFound is returned by Attach when the target entity is not on the current map.
var ErrEntityNotFound = errors.New("entity not found")

// mutator is the implementation of the Mutator interface.
type mutator struct {
	entities host.EntityRegistry
	stage    host.Stage
	mixers   registry.Registry
	factory  material.Factory
	errs     host.ErrorSink
	grid     GridPolicy
	log      *zap.Logger
}

// Mutator defines the operations that change entities on the current map.
//
// Every method takes an already resolved entity identifier (or HeroSlot) and runs on the logic
// thread. Transform methods return false without side effects when no model is bound for the
// entity.
type Mutator interface {
	// Attach puts m on the entity with the given identifier, replacing any model loaded before,
	// and binds a fresh animation mixer entry for it.
	//
	// Parameters:
	//   - id: the entity identifier
	//   - inv: the invocation context used to search the entity
	//   - m: the freshly instantiated model
	//
	// Returns:
	//   - error: ErrEntityNotFound if the entity is not on the map; the failure has already
	//     been shown through the error sink
	Attach(id int, inv host.Invocation, m model.Model) error

	// ResetBoundingBox recomputes the entity's box from the current size of its model.
	//
	// Parameters:
	//   - id: the entity identifier
	//   - inv: the invocation context used to search the entity
	//
	// Returns:
	//   - bool: true if the box was updated
	ResetBoundingBox(id int, inv host.Invocation) bool

	// SetBoundingBox sets explicit box dimensions given in grid units.
	//
	// Parameters:
	//   - id: the entity identifier
	//   - inv: the invocation context used to search the entity
	//   - x, y, z: the box dimensions
	//
	// Returns:
	//   - bool: true if the box was updated
	SetBoundingBox(id int, inv host.Invocation, x, y, z float32) bool

	// SetScale applies a uniform scale to the model root.
	//
	// Parameters:
	//   - id: the entity identifier
	//   - scale: the scale factor
	//
	// Returns:
	//   - bool: true if a model is bound
	SetScale(id int, scale float32) bool

	// SetVisible shows or hides the model root.
	//
	// Parameters:
	//   - id: the entity identifier
	//   - visible: true to show
	//
	// Returns:
	//   - bool: true if a model is bound
	SetVisible(id int, visible bool) bool

	// SetOpacity sets the opacity of every material in the model and makes them transparent.
	//
	// Parameters:
	//   - id: the entity identifier
	//   - opacity: the opacity in [0, 1]
	//
	// Returns:
	//   - bool: true if a model is bound
	SetOpacity(id int, opacity float32) bool

	// SetOffset moves the model root relative to its entity; x, y and z are grid units and the
	// model stays resting on its base.
	//
	// Parameters:
	//   - id: the entity identifier
	//   - x, y, z: the offset
	//
	// Returns:
	//   - bool: true if a model is bound
	SetOffset(id int, x, y, z float32) bool

	// SetRotation replaces the model root rotation.
	//
	// Parameters:
	//   - id: the entity identifier
	//   - x, y, z: Euler angles in degrees
	//
	// Returns:
	//   - bool: true if a model is bound
	SetRotation(id int, x, y, z float32) bool

	// AddRotation rotates the model root about its local X, then Y, then Z axis.
	//
	// Parameters:
	//   - id: the entity identifier
	//   - x, y, z: angles in degrees
	//
	// Returns:
	//   - bool: true if a model is bound
	AddRotation(id int, x, y, z float32) bool

	// RetrieveYRotation writes the model root's yaw in degrees into a property of the invoking
	// entity.
	//
	// Parameters:
	//   - id: the entity identifier
	//   - inv: the invocation context; its subject receives the property
	//   - property: the property name
	//
	// Returns:
	//   - bool: true if the property was written
	RetrieveYRotation(id int, inv host.Invocation, property string) bool

	// LookAt turns subject toward target on the ground plane. The entity's logical facing is
	// updated and the model's yaw is set so it faces the target exactly.
	//
	// Parameters:
	//   - subject: the identifier of the entity to turn
	//   - target: the identifier of the entity to face
	//   - inv: the invocation context used to search both entities
	//
	// Returns:
	//   - bool: true if the model was turned
	LookAt(subject, target int, inv host.Invocation) bool
}

var _ Mutator = &mutator{}

// NewMutator creates a Mutator operating on the entities of es, attaching wrappers to the current
// map of st and binding mixers in r.
//
// Parameters:
//   - es: the host entity registry (must not be nil)
//   - st: the host stage (must not be nil)
//   - r: the animation mixer registry (must not be nil)
//   - options: a variadic list of MutatorBuilderOption functions to configure the Mutator
//
// Returns:
//   - Mutator: the new mutator
func NewMutator(es host.EntityRegistry, st host.Stage, r registry.Registry, options ...MutatorBuilderOption) Mutator {
	if es == nil {
		panic("mutator: NewMutator requires a non-nil EntityRegistry")
	}
	if st == nil {
		panic("mutator: NewMutator requires a non-nil Stage")
	}
	if r == nil {
		panic("mutator: NewMutator requires a non-nil Registry")
	}

	m := &mutator{
		entities: es,
		stage:    st,
		mixers:   r,
		grid:     DefaultGridPolicy(),
		log:      zap.NewNop(),
	}
	for _, opt := range options {
		opt(m)
	}
	if m.factory == nil {
		m.factory = material.NewDefaultFactory(m.log)
	}
	if m.errs == nil {
		m.errs = host.ErrorSinkFunc(func(msg string) {
			m.log.Error(msg)
		})
	}
	return m
}

func (m *mutator) Attach(id int, inv host.Invocation, mdl model.Model) error {
	ent, ok := m.entities.Search(id, inv)
	if !ok {
		m.errs.ShowError(fmt.Sprintf("Error: couldn't find entity %d", id))
		return fmt.Errorf("attach %s to entity %d: %w", mdl.Name(), id, ErrEntityNotFound)
	}
	id = ent.ID()

	root := mdl.Root()
	size := Measure(root)
	root.Position = [3]float32{0, size[1] / 2, 0}
	FixShading(root, m.factory)

	wrapper := model.NewNode(fmt.Sprintf("entity-%d", id))
	wrapper.Add(root)

	old := ent.Wrapper()
	oldRoot := m.mixers.Get(id)
	replacing := false
	if old != nil {
		if oldRoot != nil && oldRoot.Parent() == old {
			old.Remove(oldRoot)
			replacing = true
		}
		for _, child := range old.Children() {
			wrapper.Add(child)
		}
	}
	if !replacing {
		ent.MarkCustomModel()
	}

	if sc := m.stage.CurrentMap(); sc != nil {
		if old != nil {
			sc.Remove(old)
		}
		sc.Add(wrapper)
	}
	ent.SetWrapper(wrapper)
	ent.SetBoundingBoxSettings(host.NewBoundingBoxSettings(size, ent.Position()))
	ent.UpdateBoundingBoxes()

	m.mixers.Bind(id, mdl)
	if ent.IsHero() {
		m.mixers.Alias(id)
	}

	m.log.Debug("model attached",
		zap.Int("entity", id),
		zap.String("model", mdl.Name()),
		zap.Bool("replaced", replacing),
		zap.Int("clips", len(mdl.Animations())),
	)
	return nil
}

func (m *mutator) ResetBoundingBox(id int, inv host.Invocation) bool {
	root := m.mixers.Get(id)
	if root == nil {
		return false
	}
	ent, ok := m.entities.Search(id, inv)
	if !ok {
		return false
	}
	size := Measure(root)
	m.setBox(ent, host.BoxRow(size[0], size[1], size[2]))
	return true
}

func (m *mutator) SetBoundingBox(id int, inv host.Invocation, x, y, z float32) bool {
	if m.mixers.Get(id) == nil {
		return false
	}
	ent, ok := m.entities.Search(id, inv)
	if !ok {
		return false
	}
	s := m.grid.boxScale()
	m.setBox(ent, host.BoxRow(abs(x*s), abs(y*s), abs(z*s)))
	return true
}

// setBox replaces the entity's first box row and refreshes its boxes.
func (m *mutator) setBox(ent host.Entity, row [9]float32) {
	settings := ent.BoundingBoxSettings()
	if settings == nil {
		settings = host.NewBoundingBoxSettings([3]float32{row[3], row[4], row[5]}, ent.Position())
		ent.SetBoundingBoxSettings(settings)
	}
	settings.SetBox(row)
	ent.UpdateBoundingBoxes()
}

func (m *mutator) SetScale(id int, scale float32) bool {
	root := m.mixers.Get(id)
	if root == nil {
		return false
	}
	root.Scale = [3]float32{scale, scale, scale}
	return true
}

func (m *mutator) SetVisible(id int, visible bool) bool {
	root := m.mixers.Get(id)
	if root == nil {
		return false
	}
	root.Visible = visible
	return true
}

func (m *mutator) SetOpacity(id int, opacity float32) bool {
	root := m.mixers.Get(id)
	if root == nil {
		return false
	}
	root.Traverse(func(n *model.Node) {
		if n.Material == nil {
			return
		}
		n.RenderOrder = 0
		n.Material.SetOpacity(opacity)
		n.Material.SetTransparent(true)
	})
	return true
}

func (m *mutator) SetOffset(id int, x, y, z float32) bool {
	root := m.mixers.Get(id)
	if root == nil {
		return false
	}
	s := m.grid.offsetScale()
	size := Measure(root)
	root.Position = [3]float32{x * s, y*s + size[1]/2, z * s}
	return true
}

func (m *mutator) SetRotation(id int, x, y, z float32) bool {
	root := m.mixers.Get(id)
	if root == nil {
		return false
	}
	root.SetRotation(common.DegToRad(x), common.DegToRad(y), common.DegToRad(z))
	return true
}

func (m *mutator) AddRotation(id int, x, y, z float32) bool {
	root := m.mixers.Get(id)
	if root == nil {
		return false
	}
	root.RotateX(common.DegToRad(x))
	root.RotateY(common.DegToRad(y))
	root.RotateZ(common.DegToRad(z))
	return true
}

func (m *mutator) RetrieveYRotation(id int, inv host.Invocation, property string) bool {
	root := m.mixers.Get(id)
	if root == nil || inv.Subject == nil {
		return false
	}
	inv.Subject.SetProperty(property, float64(common.RadToDeg(root.Rotation()[1])))
	return true
}

func (m *mutator) LookAt(subject, target int, inv host.Invocation) bool {
	if subject == target {
		return false
	}
	obj, ok := m.entities.Search(subject, inv)
	if !ok {
		return false
	}
	tgt, ok := m.entities.Search(target, inv)
	if !ok {
		return false
	}
	// SELF and slot 0 can both resolve to the hero
	if obj.ID() == tgt.ID() {
		return false
	}
	root := m.mixers.Get(subject)
	if root == nil {
		return false
	}

	obj.LookAt(tgt)
	var meshYaw float32
	if w := obj.Wrapper(); w != nil {
		meshYaw = w.Rotation()[1]
	}

	from, to := obj.Position(), tgt.Position()
	rot := root.Rotation()
	root.SetRotation(rot[0], 0, rot[2])
	heading := float32(math.Atan2(float64(to[0]-from[0]), float64(to[2]-from[2])))
	root.RotateY(heading - meshYaw)
	return true
}

// Measure returns the size of the axis-aligned box around every geometry under root, including
// root's own transform and those of its ancestors.
//
// Parameters:
//   - root: the model root
//
// Returns:
//   - [3]float32: the size on each axis
func Measure(root *model.Node) [3]float32 {
	return model.BoxFromObject(root).Size()
}

// FixShading prepares an imported model for the host's renderer. Nodes with a material cast and
// receive shadows and get a replacement material from f keeping the old texture; untextured
// replacements use vertex colors. Geometry gets recomputed normals and cull bounds enlarged to
// cover the whole model so animated parts are never culled. Model lights are hidden.
//
// Parameters:
//   - root: the model root
//   - f: the material factory
func FixShading(root *model.Node, f material.Factory) {
	box := model.BoxFromObject(root)
	size := box.Size()
	radius := 1.5 * max(size[0], size[1], size[2])

	root.Traverse(func(n *model.Node) {
		if n.Material != nil {
			n.CastShadow = true
			n.ReceiveShadow = true
			tex := n.Material.Texture()
			mat := f.CreateMaterial(tex)
			mat.SetVertexColors(tex == nil)
			n.Material = mat
		}
		if n.Geometry != nil {
			n.Geometry.ComputeVertexNormals()
			n.Geometry.CullBox = n.Geometry.CullBox.Union(box)
			n.Geometry.CullRadius = radius
		}
		if n.Light != nil {
			n.Visible = false
		}
	})
}

func abs(v float32) float32 {
	return float32(math.Abs(float64(v)))
}
