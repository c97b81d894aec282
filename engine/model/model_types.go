package model

import (
	"github.com/Carmen-Shannon/oxy-gltf/common"
)

// --- Transform Types ---

// Transform represents a decomposed local transform.
type Transform struct {
	// Translation is the position offset.
	Translation [3]float32

	// Rotation is the orientation as a quaternion (x, y, z, w).
	Rotation [4]float32

	// Scale is the scale factor along each axis.
	Scale [3]float32
}

// IdentityTransform returns a transform with no translation, no rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{
		Rotation: common.QuatIdentity(),
		Scale:    [3]float32{1, 1, 1},
	}
}

// --- Animation Types ---

// Interpolation selects how values between two keyframes are computed.
type Interpolation int

const (
	// InterpolationLinear blends linearly (spherically for rotations).
	InterpolationLinear Interpolation = iota
	// InterpolationStep holds the previous keyframe value until the next keyframe.
	InterpolationStep
)

// AnimationClip represents a single named animation (walk, run, attack, etc.).
type AnimationClip struct {
	// Name is the animation identifier.
	Name string

	// Duration is the total length of the animation in seconds.
	Duration float32

	// Channels contains animation data for each animated node.
	Channels []AnimationChannel
}

// AnimationChannel contains keyframe data for a single node.
type AnimationChannel struct {
	// TargetNode is the index of the animated node in Model.Nodes.
	TargetNode int32

	// Interpolation is the keyframe interpolation mode shared by all tracks of this channel.
	Interpolation Interpolation

	// PositionKeys are keyframes for translation.
	PositionKeys []VectorKeyframe

	// RotationKeys are keyframes for rotation (quaternion).
	RotationKeys []QuaternionKeyframe

	// ScaleKeys are keyframes for scale.
	ScaleKeys []VectorKeyframe
}

// VectorKeyframe stores a 3D vector value at a specific time.
type VectorKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the 3D vector value at this keyframe.
	Value [3]float32
}

// QuaternionKeyframe stores a quaternion rotation at a specific time.
type QuaternionKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the quaternion value at this keyframe (x, y, z, w).
	Value [4]float32
}

// --- Import Types ---

// ImportedModel represents a 3D model loaded from an external format.
// This is the universal format that importers produce; it is immutable once built and is
// instantiated into fresh node graphs by Instantiate.
type ImportedModel struct {
	// Name is the model identifier.
	Name string

	// Nodes is the flattened node hierarchy in file order.
	Nodes []ImportedNode

	// Roots are indices into Nodes of the scene's top-level nodes.
	Roots []int

	// Meshes contains all mesh data referenced by nodes.
	Meshes []ImportedMesh

	// Lights are punctual lights referenced by nodes.
	Lights []Light

	// Animations are all animation clips bundled with the model.
	Animations []*AnimationClip

	// Materials are referenced by primitive material indices.
	Materials []common.ImportedMaterial
}

// ImportedNode is one node of an imported hierarchy.
type ImportedNode struct {
	// Name is the node identifier.
	Name string

	// Transform is the node's local transform.
	Transform Transform

	// Children are indices into ImportedModel.Nodes.
	Children []int

	// Mesh is the index into ImportedModel.Meshes, or -1.
	Mesh int

	// Light is the index into ImportedModel.Lights, or -1.
	Light int
}

// ImportedMesh is a named set of primitives.
type ImportedMesh struct {
	// Name is the mesh identifier.
	Name string

	// Primitives are the drawable parts of the mesh.
	Primitives []ImportedPrimitive
}

// ImportedPrimitive is one triangle list with a single material.
type ImportedPrimitive struct {
	// Positions are the vertex positions.
	Positions [][3]float32

	// Normals are the vertex normals, or nil when the file omits them.
	Normals [][3]float32

	// TexCoords are the first UV set, or nil.
	TexCoords [][2]float32

	// Colors are per-vertex RGBA colors, or nil.
	Colors [][4]float32

	// Indices are the triangle indices.
	Indices []uint32

	// MaterialIndex references ImportedModel.Materials, or -1 for the default material.
	MaterialIndex int

	// Bounds is the local axis-aligned bounding box of Positions.
	Bounds common.Box3
}
