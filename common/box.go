package common

import "math"

// Box3 is an axis-aligned bounding box. An empty box has Min greater than Max on every axis.
type Box3 struct {
	// Min is the minimum corner.
	Min [3]float32

	// Max is the maximum corner.
	Max [3]float32
}

// EmptyBox returns a box that contains nothing; expanding it by any point yields that point.
//
// Returns:
//   - Box3: the empty box
func EmptyBox() Box3 {
	inf := float32(math.Inf(1))
	return Box3{
		Min: [3]float32{inf, inf, inf},
		Max: [3]float32{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (b Box3) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// ExpandByPoint grows the box so it contains p.
//
// Parameters:
//   - p: the point to include
//
// Returns:
//   - Box3: the expanded box
func (b Box3) ExpandByPoint(p [3]float32) Box3 {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
	return b
}

// Union returns the smallest box containing both boxes.
//
// Parameters:
//   - o: the other box
//
// Returns:
//   - Box3: the union
func (b Box3) Union(o Box3) Box3 {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return b.ExpandByPoint(o.Min).ExpandByPoint(o.Max)
}

// Size returns the extent of the box on each axis, or zero for an empty box.
func (b Box3) Size() [3]float32 {
	if b.IsEmpty() {
		return [3]float32{}
	}
	return [3]float32{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

// Center returns the midpoint of the box, or the origin for an empty box.
func (b Box3) Center() [3]float32 {
	if b.IsEmpty() {
		return [3]float32{}
	}
	return [3]float32{(b.Min[0] + b.Max[0]) / 2, (b.Min[1] + b.Max[1]) / 2, (b.Min[2] + b.Max[2]) / 2}
}

// Transform returns the axis-aligned box enclosing the eight corners of b after applying m.
//
// Parameters:
//   - m: a column-major 4x4 affine transform
//
// Returns:
//   - Box3: the transformed bounds
func (b Box3) Transform(m []float32) Box3 {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBox()
	for i := 0; i < 8; i++ {
		corner := [3]float32{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			corner[0] = b.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.Max[1]
		}
		if i&4 != 0 {
			corner[2] = b.Max[2]
		}
		out = out.ExpandByPoint(TransformPoint(m, corner))
	}
	return out
}
