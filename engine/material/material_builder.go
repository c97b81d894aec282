package material

import (
	"github.com/Carmen-Shannon/oxy-gltf/common"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithBaseColor is an option builder that sets the albedo/diffuse RGBA color of the material.
//
// Parameters:
//   - color: the base color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColor(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = color
	}
}

// WithTexture is an option builder that sets the diffuse texture reference of the material.
//
// Parameters:
//   - tex: the texture reference, or nil for an untextured material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option to a material
func WithTexture(tex *common.ImportedTexture) MaterialBuilderOption {
	return func(m *material) {
		m.texture = tex
	}
}

// WithVertexColors is an option builder that enables per-vertex colors.
//
// Parameters:
//   - enabled: true to enable vertex colors
//
// Returns:
//   - MaterialBuilderOption: a function that applies the vertex color option to a material
func WithVertexColors(enabled bool) MaterialBuilderOption {
	return func(m *material) {
		m.vertexColors = enabled
	}
}

// WithOpacity is an option builder that sets the initial opacity of the material.
//
// Parameters:
//   - opacity: the opacity in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the opacity option to a material
func WithOpacity(opacity float32) MaterialBuilderOption {
	return func(m *material) {
		m.opacity = min(max(opacity, 0), 1)
	}
}
