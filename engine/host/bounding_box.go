package host

// BoundingBoxSettings describes the collision and selection volume of an entity.
type BoundingBoxSettings struct {
	// Boxes are rows of (offset x, offset y, offset z, size x, size y, size z, rot x, rot y, rot z).
	Boxes [][9]float32

	// Width, Height and Depth are the entity's footprint in grid squares.
	Width, Height, Depth int

	// Custom marks the boxes as explicit rather than derived from the graphic.
	Custom bool

	// Footprint is the minimum collision extent.
	Footprint [3]float32

	// Mode selects the host's collision mode.
	Mode int

	// Position is the entity position the boxes were computed at.
	Position [3]float32
}

// BoxRow returns a box row of the given size resting on the entity's origin.
//
// Parameters:
//   - x, y, z: the box size
//
// Returns:
//   - [9]float32: the row
func BoxRow(x, y, z float32) [9]float32 {
	return [9]float32{0, y / 2, 0, x, y, z, 0, 0, 0}
}

// NewBoundingBoxSettings builds the settings for a model of the given size attached to an entity
// at position.
//
// Parameters:
//   - size: the model's axis-aligned size
//   - position: the entity position
//
// Returns:
//   - *BoundingBoxSettings: the settings
func NewBoundingBoxSettings(size, position [3]float32) *BoundingBoxSettings {
	return &BoundingBoxSettings{
		Boxes:     [][9]float32{BoxRow(size[0], size[1], size[2])},
		Width:     1,
		Height:    1,
		Depth:     1,
		Custom:    true,
		Footprint: [3]float32{0.01, 0.01, 0.01},
		Mode:      1,
		Position:  position,
	}
}

// SetBox replaces the first box row, adding one if the settings have none.
//
// Parameters:
//   - row: the new row
func (s *BoundingBoxSettings) SetBox(row [9]float32) {
	if len(s.Boxes) == 0 {
		s.Boxes = append(s.Boxes, row)
		return
	}
	s.Boxes[0] = row
}
