package material

import (
	"github.com/Carmen-Shannon/oxy-gltf/common"
	"go.uber.org/zap"
)

// Factory creates the materials that replace imported ones when a model is attached to an entity.
// Hosts that own a renderer supply their own Factory so the material matches their pipeline.
type Factory interface {
	// CreateMaterial builds a material for the given diffuse texture.
	//
	// Parameters:
	//   - texture: the diffuse texture reference, or nil for an untextured surface
	//
	// Returns:
	//   - Material: the new material
	CreateMaterial(texture *common.ImportedTexture) Material
}

// FactoryFunc adapts an ordinary function to the Factory interface.
type FactoryFunc func(texture *common.ImportedTexture) Material

// CreateMaterial calls f(texture).
func (f FactoryFunc) CreateMaterial(texture *common.ImportedTexture) Material {
	return f(texture)
}

// NewDefaultFactory returns a Factory producing CPU-side materials. Textured materials get their
// own copy of the texture record with the image header read, so hosts can size GPU textures
// before decoding pixels. The texture passed in is never modified.
//
// Parameters:
//   - log: logger for unreadable texture headers; nil disables logging
//
// Returns:
//   - Factory: the default factory
func NewDefaultFactory(log *zap.Logger) Factory {
	if log == nil {
		log = zap.NewNop()
	}
	return FactoryFunc(func(texture *common.ImportedTexture) Material {
		if texture != nil && texture.Width == 0 {
			// the record belongs to a cached template; size a copy
			own := *texture
			if _, err := own.DecodeConfig(); err != nil {
				log.Debug("texture header unreadable", zap.String("texture", texture.Name), zap.Error(err))
			}
			texture = &own
		}
		return NewMaterial(
			WithTexture(texture),
			WithVertexColors(texture == nil),
		)
	})
}
