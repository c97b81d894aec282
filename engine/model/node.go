package model

import (
	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/material"
)

// Node is one element of a model's scene graph. A node carries a local transform and any
// combination of geometry, material and light payloads, and owns its children.
//
// Rotation is stored as a quaternion; Rotation and SetRotation convert to and from
// intrinsic XYZ Euler angles.
type Node struct {
	// Name is the node identifier from the model file.
	Name string

	// Position is the local translation relative to the parent.
	Position [3]float32

	// Scale is the local scale relative to the parent.
	Scale [3]float32

	// Visible controls whether the node and its subtree are drawn.
	Visible bool

	// CastShadow and ReceiveShadow are shadow participation flags read by the renderer.
	CastShadow, ReceiveShadow bool

	// RenderOrder overrides draw ordering within the transparent pass.
	RenderOrder int

	// Geometry is the mesh data drawn at this node, or nil.
	Geometry *Geometry

	// Material is the surface used to draw Geometry, or nil.
	Material material.Material

	// Light is the punctual light carried by this node, or nil.
	Light *Light

	quaternion [4]float32
	parent     *Node
	children   []*Node
}

// NewNode creates an empty, visible node with an identity transform.
//
// Parameters:
//   - name: the node identifier
//
// Returns:
//   - *Node: the new node
func NewNode(name string) *Node {
	return &Node{
		Name:       name,
		Scale:      [3]float32{1, 1, 1},
		Visible:    true,
		quaternion: common.QuatIdentity(),
	}
}

// Parent returns the node this node is attached to, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the node's child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Add attaches child to n, detaching it from any previous parent first.
// Adding a node to itself is ignored.
//
// Parameters:
//   - child: the node to attach
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child from n.
//
// Parameters:
//   - child: the node to detach
//
// Returns:
//   - bool: true if child was a direct child of n
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Traverse calls fn for n and every descendant, depth first, parents before children.
//
// Parameters:
//   - fn: the visitor
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// Quaternion returns the local rotation as a quaternion (x, y, z, w).
func (n *Node) Quaternion() [4]float32 {
	return n.quaternion
}

// SetQuaternion replaces the local rotation.
//
// Parameters:
//   - q: the rotation quaternion (x, y, z, w); it is normalized before use
func (n *Node) SetQuaternion(q [4]float32) {
	n.quaternion = common.QuatNormalize(q)
}

// Rotation returns the local rotation as intrinsic XYZ Euler angles in radians.
func (n *Node) Rotation() [3]float32 {
	return common.EulerFromQuat(n.quaternion)
}

// SetRotation replaces the local rotation with intrinsic XYZ Euler angles in radians.
//
// Parameters:
//   - x, y, z: rotation angles in radians
func (n *Node) SetRotation(x, y, z float32) {
	n.quaternion = common.QuatFromEuler(x, y, z)
}

// RotateOnAxis rotates the node about an axis expressed in its own local space.
//
// Parameters:
//   - axis: the unit axis in local space
//   - angle: the angle in radians
func (n *Node) RotateOnAxis(axis [3]float32, angle float32) {
	n.quaternion = common.QuatNormalize(common.QuatMul(n.quaternion, common.QuatFromAxisAngle(axis, angle)))
}

// RotateX rotates the node about its local X axis.
func (n *Node) RotateX(angle float32) {
	n.RotateOnAxis([3]float32{1, 0, 0}, angle)
}

// RotateY rotates the node about its local Y axis.
func (n *Node) RotateY(angle float32) {
	n.RotateOnAxis([3]float32{0, 1, 0}, angle)
}

// RotateZ rotates the node about its local Z axis.
func (n *Node) RotateZ(angle float32) {
	n.RotateOnAxis([3]float32{0, 0, 1}, angle)
}

// LocalMatrix returns the column-major local transform T * R * S.
func (n *Node) LocalMatrix() [16]float32 {
	var m [16]float32
	common.ComposeMatrix(m[:], n.Position, n.quaternion, n.Scale)
	return m
}

// WorldMatrix returns the column-major transform from this node's space to the space of the
// topmost ancestor's parent.
func (n *Node) WorldMatrix() [16]float32 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		pm := p.LocalMatrix()
		common.Mul4(m[:], pm[:], m[:])
	}
	return m
}

// Clone deep-copies the subtree rooted at n. Geometry is copied so each clone can recompute its
// normals and bounds independently; materials and lights are shared until replaced.
//
// Returns:
//   - *Node: the detached copy
func (n *Node) Clone() *Node {
	c, _ := n.cloneMapped(nil)
	return c
}

// cloneMapped deep-copies the subtree and records original -> copy pairs in mapping when non-nil.
func (n *Node) cloneMapped(mapping map[*Node]*Node) (*Node, map[*Node]*Node) {
	c := &Node{
		Name:          n.Name,
		Position:      n.Position,
		Scale:         n.Scale,
		Visible:       n.Visible,
		CastShadow:    n.CastShadow,
		ReceiveShadow: n.ReceiveShadow,
		RenderOrder:   n.RenderOrder,
		Material:      n.Material,
		Light:         n.Light,
		quaternion:    n.quaternion,
	}
	if n.Geometry != nil {
		c.Geometry = n.Geometry.Clone()
	}
	if mapping != nil {
		mapping[n] = c
	}
	for _, child := range n.children {
		cc, _ := child.cloneMapped(mapping)
		c.Add(cc)
	}
	return c, mapping
}

// BoxFromObject computes the axis-aligned bounds of every geometry in the subtree rooted at n,
// expressed in the space of n's topmost ancestor's parent, so n's own transform is included.
//
// Parameters:
//   - n: the subtree root
//
// Returns:
//   - common.Box3: the bounds, empty when the subtree has no geometry
func BoxFromObject(n *Node) common.Box3 {
	box := common.EmptyBox()
	if n == nil {
		return box
	}
	n.Traverse(func(node *Node) {
		if node.Geometry == nil {
			return
		}
		world := node.WorldMatrix()
		box = box.Union(node.Geometry.BoundingBox.Transform(world[:]))
	})
	return box
}
