package model

// LightType identifies the kind of punctual light a node carries.
type LightType int

const (
	// LightTypeDirectional is an infinitely distant light shining along the node's -Z axis.
	LightTypeDirectional LightType = iota
	// LightTypePoint emits in all directions from the node's origin.
	LightTypePoint
	// LightTypeSpot emits a cone along the node's -Z axis.
	LightTypeSpot
)

// Light is punctual light metadata imported with a model. Model lights are not rendered by the
// plugin; they are kept so hosts can inspect them and are hidden when a model is attached.
type Light struct {
	// Name is the light identifier from the model file.
	Name string

	// Type is the light kind.
	Type LightType

	// Color is the linear RGB color.
	Color [3]float32

	// Intensity is the luminous intensity (candela for point/spot, lux for directional).
	Intensity float32

	// Range is the attenuation cutoff distance; zero means infinite.
	Range float32

	// InnerConeAngle and OuterConeAngle bound a spot light's cone in radians.
	InnerConeAngle, OuterConeAngle float32
}
