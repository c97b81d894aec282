package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/material"
)

// model is the implementation of the Model interface.
type model struct {
	name       string
	root       *Node
	nodes      []*Node
	animations []*AnimationClip
}

// Model defines the interface for one loaded instance of a 3D model.
// A Model owns a scene graph rooted at Root and the animation clips that target its nodes.
// Every fetch produces a new Model, so instances never share nodes.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Root retrieves the top node of the model's scene graph.
	//
	// Returns:
	//   - *Node: the root node
	Root() *Node

	// Nodes retrieves the nodes addressed by animation channels, in file order.
	//
	// Returns:
	//   - []*Node: the indexed nodes
	Nodes() []*Node

	// Animations retrieves all animation clips bundled with this model.
	//
	// Returns:
	//   - []*AnimationClip: the animation clips
	Animations() []*AnimationClip

	// AnimationNames returns the names of all animation clips.
	//
	// Returns:
	//   - []string: the animation clip names
	AnimationNames() []string

	// GetAnimationIndex returns the index of an animation by name, or -1 if not found.
	//
	// Parameters:
	//   - name: the animation clip name to search for
	//
	// Returns:
	//   - int: the animation index, or -1 if not found
	GetAnimationIndex(name string) int

	// FindAnimation returns the clip with the given name, or nil.
	//
	// Parameters:
	//   - name: the animation clip name to search for
	//
	// Returns:
	//   - *AnimationClip: the clip, or nil if not found
	FindAnimation(name string) *AnimationClip
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
// A model without a root gets an empty one.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	if m.root == nil {
		m.root = NewNode(m.name)
	}
	return m
}

// Instantiate builds a fresh scene graph from an imported model. Each call allocates new nodes,
// geometries and materials so the result can be mutated freely.
//
// Parameters:
//   - imported: the imported model template
//
// Returns:
//   - Model: the new instance
//   - error: error if the template references missing meshes, lights or nodes
func Instantiate(imported *ImportedModel) (Model, error) {
	if imported == nil {
		return nil, fmt.Errorf("model: nil template")
	}

	nodes := make([]*Node, len(imported.Nodes))
	for i := range imported.Nodes {
		src := &imported.Nodes[i]
		n := NewNode(src.Name)
		n.Position = src.Transform.Translation
		n.SetQuaternion(src.Transform.Rotation)
		n.Scale = src.Transform.Scale

		if src.Mesh >= 0 {
			if src.Mesh >= len(imported.Meshes) {
				return nil, fmt.Errorf("model: node %d references mesh %d out of range", i, src.Mesh)
			}
			attachMesh(n, &imported.Meshes[src.Mesh], imported.Materials)
		}
		if src.Light >= 0 {
			if src.Light >= len(imported.Lights) {
				return nil, fmt.Errorf("model: node %d references light %d out of range", i, src.Light)
			}
			light := imported.Lights[src.Light]
			n.Light = &light
		}
		nodes[i] = n
	}

	for i := range imported.Nodes {
		for _, c := range imported.Nodes[i].Children {
			if c < 0 || c >= len(nodes) {
				return nil, fmt.Errorf("model: node %d has child %d out of range", i, c)
			}
			nodes[i].Add(nodes[c])
		}
	}

	root := NewNode(imported.Name)
	for _, r := range imported.Roots {
		if r < 0 || r >= len(nodes) {
			return nil, fmt.Errorf("model: root %d out of range", r)
		}
		root.Add(nodes[r])
	}

	return NewModel(
		WithName(imported.Name),
		WithRoot(root),
		WithNodes(nodes),
		WithAnimations(imported.Animations),
	), nil
}

// attachMesh places a mesh's primitives on n: a single primitive is drawn by n itself,
// several primitives become one child node each.
func attachMesh(n *Node, mesh *ImportedMesh, materials []common.ImportedMaterial) {
	if len(mesh.Primitives) == 1 {
		n.Geometry, n.Material = buildPrimitive(&mesh.Primitives[0], materials)
		return
	}
	for i := range mesh.Primitives {
		child := NewNode(fmt.Sprintf("%s_prim%d", mesh.Name, i))
		child.Geometry, child.Material = buildPrimitive(&mesh.Primitives[i], materials)
		n.Add(child)
	}
}

// buildPrimitive converts an imported primitive into geometry plus the material it was authored with.
func buildPrimitive(prim *ImportedPrimitive, materials []common.ImportedMaterial) (*Geometry, material.Material) {
	geo := NewGeometry(prim.Positions, prim.Indices)
	geo.Normals = prim.Normals
	geo.TexCoords = prim.TexCoords
	geo.Colors = prim.Colors
	if len(geo.Normals) != len(geo.Positions) {
		geo.ComputeVertexNormals()
	}

	opts := []material.MaterialBuilderOption{material.WithVertexColors(geo.HasVertexColors())}
	if prim.MaterialIndex >= 0 && prim.MaterialIndex < len(materials) {
		src := &materials[prim.MaterialIndex]
		opts = append(opts,
			material.WithName(src.Name),
			material.WithBaseColor(src.BaseColor),
			material.WithTexture(src.DiffuseTexture),
		)
	}
	return geo, material.NewMaterial(opts...)
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Root() *Node {
	return m.root
}

func (m *model) Nodes() []*Node {
	return m.nodes
}

func (m *model) Animations() []*AnimationClip {
	return m.animations
}

func (m *model) AnimationNames() []string {
	names := make([]string, len(m.animations))
	for i, anim := range m.animations {
		names[i] = anim.Name
	}
	return names
}

func (m *model) GetAnimationIndex(name string) int {
	for i, anim := range m.animations {
		if anim.Name == name {
			return i
		}
	}
	return -1
}

func (m *model) FindAnimation(name string) *AnimationClip {
	if i := m.GetAnimationIndex(name); i >= 0 {
		return m.animations[i]
	}
	return nil
}
