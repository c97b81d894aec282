// package common contains common types that are used throughout this plugin. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// SamplerStagingData holds the sampling configuration a model file requests for a texture.
// Hosts forward it to their renderer when they build the GPU sampler for a material.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// DefaultSamplerStagingData returns the glTF default sampling: linear filtering with repeat wrapping.
//
// Returns:
//   - SamplerStagingData: the default sampler configuration
func DefaultSamplerStagingData() SamplerStagingData {
	return SamplerStagingData{
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
}

// ImportedMaterial represents material properties from an imported model file.
type ImportedMaterial struct {
	// Name is the material identifier.
	Name string

	// BaseColor is the albedo/diffuse color (RGBA).
	BaseColor [4]float32

	// Metallic factor (0.0 = dielectric, 1.0 = metal).
	Metallic float32

	// Roughness factor (0.0 = smooth, 1.0 = rough).
	Roughness float32

	// DoubleSided reports whether back faces should be drawn.
	DoubleSided bool

	// DiffuseTexture is the base color texture, or nil when the material is untextured.
	DiffuseTexture *ImportedTexture

	// NormalTexture is the normal map, or nil.
	NormalTexture *ImportedTexture
}

// ImportedTexture represents texture data extracted from a model file.
// For embedded textures (GLB, data URIs), the Data field contains raw image bytes.
// For external textures, the Path field contains the file path.
type ImportedTexture struct {
	// Name is an identifier for this texture.
	Name string

	// Path is the file path for external textures (empty for embedded).
	Path string

	// Data contains raw image bytes (PNG/JPEG/BMP/WebP).
	Data []byte

	// MimeType indicates the image format (e.g., "image/png").
	MimeType string

	// Width is the texture width in pixels (populated by DecodeConfig).
	Width int

	// Height is the texture height in pixels (populated by DecodeConfig).
	Height int

	// SamplerData holds sampler parameters extracted from the model file, or nil for defaults.
	SamplerData *SamplerStagingData
}

// DecodeConfig reads the image header to populate Width and Height without decoding pixels.
// Embedded Data takes precedence over Path.
//
// Returns:
//   - string: the detected image format name (e.g. "png", "webp")
//   - error: error if the header cannot be read
func (t *ImportedTexture) DecodeConfig() (string, error) {
	if t == nil {
		return "", fmt.Errorf("texture is nil")
	}

	var data []byte
	switch {
	case len(t.Data) > 0:
		data = t.Data
	case t.Path != "":
		raw, err := os.ReadFile(t.Path)
		if err != nil {
			return "", fmt.Errorf("failed to open texture file %s: %w", t.Path, err)
		}
		data = raw
	default:
		return "", fmt.Errorf("texture has neither data nor path")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode texture header: %w", err)
	}
	t.Width = cfg.Width
	t.Height = cfg.Height
	return format, nil
}
