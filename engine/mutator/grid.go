package mutator

// GridPolicy controls how grid-unit arguments of transform commands map to world units.
type GridPolicy struct {
	// SquareSize is the world size of one grid square.
	SquareSize float32

	// ScaleBoundingBox multiplies explicit bounding box dimensions by SquareSize.
	ScaleBoundingBox bool

	// ScaleOffset multiplies model offsets by SquareSize.
	ScaleOffset bool
}

// DefaultGridPolicy returns the policy of a map with 16-unit squares where every grid argument
// is scaled.
//
// Returns:
//   - GridPolicy: the default policy
func DefaultGridPolicy() GridPolicy {
	return GridPolicy{
		SquareSize:       16,
		ScaleBoundingBox: true,
		ScaleOffset:      true,
	}
}

func (g GridPolicy) boxScale() float32 {
	if g.ScaleBoundingBox {
		return g.SquareSize
	}
	return 1
}

func (g GridPolicy) offsetScale() float32 {
	if g.ScaleOffset {
		return g.SquareSize
	}
	return 1
}
