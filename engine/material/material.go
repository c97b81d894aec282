package material

import (
	"github.com/Carmen-Shannon/oxy-gltf/common"
)

// material is the implementation of the Material interface.
type material struct {
	name         string
	baseColor    [4]float32
	texture      *common.ImportedTexture
	vertexColors bool
	opacity      float32
	transparent  bool
}

// Material defines the interface for the surface description attached to a model node.
// It is CPU-side only: the host renderer reads it when it draws the node.
//
// Name, base color and texture are fixed at creation time. Vertex colors, opacity and
// transparency are mutable so shading fix-ups and script commands can adjust a live model.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseColor retrieves the albedo/diffuse RGBA color of the material.
	//
	// Returns:
	//   - [4]float32: the base color as RGBA values
	BaseColor() [4]float32

	// Texture retrieves the diffuse texture reference, or nil if the material is untextured.
	//
	// Returns:
	//   - *common.ImportedTexture: the diffuse texture, or nil
	Texture() *common.ImportedTexture

	// VertexColors reports whether per-vertex colors modulate the surface.
	//
	// Returns:
	//   - bool: true if vertex colors are enabled
	VertexColors() bool

	// SetVertexColors enables or disables per-vertex colors.
	//
	// Parameters:
	//   - enabled: true to enable vertex colors
	SetVertexColors(enabled bool)

	// Opacity retrieves the surface opacity in [0, 1].
	//
	// Returns:
	//   - float32: the opacity
	Opacity() float32

	// SetOpacity sets the surface opacity.
	//
	// Parameters:
	//   - opacity: the new opacity in [0, 1]
	SetOpacity(opacity float32)

	// Transparent reports whether the material is drawn in the transparent pass.
	//
	// Returns:
	//   - bool: true if transparent
	Transparent() bool

	// SetTransparent sets whether the material is drawn in the transparent pass.
	//
	// Parameters:
	//   - transparent: true to draw as transparent
	SetTransparent(transparent bool)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		baseColor: [4]float32{1, 1, 1, 1},
		opacity:   1,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() [4]float32 {
	return m.baseColor
}

func (m *material) Texture() *common.ImportedTexture {
	return m.texture
}

func (m *material) VertexColors() bool {
	return m.vertexColors
}

func (m *material) SetVertexColors(enabled bool) {
	m.vertexColors = enabled
}

func (m *material) Opacity() float32 {
	return m.opacity
}

func (m *material) SetOpacity(opacity float32) {
	m.opacity = min(max(opacity, 0), 1)
}

func (m *material) Transparent() bool {
	return m.transparent
}

func (m *material) SetTransparent(transparent bool) {
	m.transparent = transparent
}
