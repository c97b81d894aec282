package common

import (
	"math"
)

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in column-major order.
// Result: out = a * b
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for i := 0; i < 4; i++ { // column of B
		for j := 0; j < 4; j++ { // row of A
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += a[k*4+j] * b[i*4+k]
			}
			buf[i*4+j] = sum
		}
	}
	copy(out, buf[:])
}

// ComposeMatrix builds a column-major 4x4 transform from a translation, a unit quaternion
// rotation and a scale. The result is T * R * S.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - t: translation (x, y, z)
//   - q: rotation quaternion (x, y, z, w)
//   - s: scale (x, y, z)
func ComposeMatrix(out []float32, t [3]float32, q [4]float32, s [3]float32) {
	r := QuatToRotation(q)

	out[0], out[1], out[2], out[3] = r[0]*s[0], r[3]*s[0], r[6]*s[0], 0
	out[4], out[5], out[6], out[7] = r[1]*s[1], r[4]*s[1], r[7]*s[1], 0
	out[8], out[9], out[10], out[11] = r[2]*s[2], r[5]*s[2], r[8]*s[2], 0
	out[12], out[13], out[14], out[15] = t[0], t[1], t[2], 1
}

// TransformPoint applies a column-major 4x4 affine transform to a point.
//
// Parameters:
//   - m: the transform (16 elements)
//   - p: the point to transform
//
// Returns:
//   - [3]float32: the transformed point
func TransformPoint(m []float32, p [3]float32) [3]float32 {
	return [3]float32{
		m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12],
		m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13],
		m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14],
	}
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() [4]float32 {
	return [4]float32{0, 0, 0, 1}
}

// QuatMul returns the Hamilton product a * b, i.e. the rotation b followed by a
// when applied to a vector.
//
// Parameters:
//   - a: left-hand quaternion (x, y, z, w)
//   - b: right-hand quaternion (x, y, z, w)
//
// Returns:
//   - [4]float32: the product quaternion
func QuatMul(a, b [4]float32) [4]float32 {
	return [4]float32{
		a[0]*b[3] + a[3]*b[0] + a[1]*b[2] - a[2]*b[1],
		a[1]*b[3] + a[3]*b[1] + a[2]*b[0] - a[0]*b[2],
		a[2]*b[3] + a[3]*b[2] + a[0]*b[1] - a[1]*b[0],
		a[3]*b[3] - a[0]*b[0] - a[1]*b[1] - a[2]*b[2],
	}
}

// QuatFromAxisAngle builds a rotation of angle radians about a unit axis.
//
// Parameters:
//   - axis: the unit rotation axis
//   - angle: the rotation angle in radians
//
// Returns:
//   - [4]float32: the rotation quaternion
func QuatFromAxisAngle(axis [3]float32, angle float32) [4]float32 {
	half := float64(angle) / 2
	s := float32(math.Sin(half))
	return [4]float32{axis[0] * s, axis[1] * s, axis[2] * s, float32(math.Cos(half))}
}

// QuatFromEuler converts intrinsic XYZ Euler angles (radians) into a quaternion.
//
// Parameters:
//   - x, y, z: rotation angles in radians about each axis
//
// Returns:
//   - [4]float32: the rotation quaternion
func QuatFromEuler(x, y, z float32) [4]float32 {
	c1, s1 := math.Cos(float64(x)/2), math.Sin(float64(x)/2)
	c2, s2 := math.Cos(float64(y)/2), math.Sin(float64(y)/2)
	c3, s3 := math.Cos(float64(z)/2), math.Sin(float64(z)/2)

	return [4]float32{
		float32(s1*c2*c3 + c1*s2*s3),
		float32(c1*s2*c3 - s1*c2*s3),
		float32(c1*c2*s3 + s1*s2*c3),
		float32(c1*c2*c3 - s1*s2*s3),
	}
}

// EulerFromQuat converts a unit quaternion into intrinsic XYZ Euler angles (radians).
// Near gimbal lock the Z angle is reported as zero.
//
// Parameters:
//   - q: the rotation quaternion (x, y, z, w)
//
// Returns:
//   - [3]float32: rotation angles in radians about X, Y and Z
func EulerFromQuat(q [4]float32) [3]float32 {
	r := QuatToRotation(q)
	m11, m12, m13 := float64(r[0]), float64(r[1]), float64(r[2])
	m22, m23 := float64(r[4]), float64(r[5])
	m32, m33 := float64(r[7]), float64(r[8])

	y := math.Asin(math.Max(-1, math.Min(1, m13)))
	var x, z float64
	if math.Abs(m13) < 0.9999999 {
		x = math.Atan2(-m23, m33)
		z = math.Atan2(-m12, m11)
	} else {
		x = math.Atan2(m32, m22)
	}
	return [3]float32{float32(x), float32(y), float32(z)}
}

// QuatToRotation expands a unit quaternion into a row-major 3x3 rotation matrix.
//
// Parameters:
//   - q: the rotation quaternion (x, y, z, w)
//
// Returns:
//   - [9]float32: the rotation matrix, row-major
func QuatToRotation(q [4]float32) [9]float32 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return [9]float32{
		1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy),
		2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx),
		2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy),
	}
}

// QuatNormalize returns q scaled to unit length, or the identity for a zero quaternion.
func QuatNormalize(q [4]float32) [4]float32 {
	l := float32(math.Sqrt(float64(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])))
	if l == 0 {
		return QuatIdentity()
	}
	return [4]float32{q[0] / l, q[1] / l, q[2] / l, q[3] / l}
}

// QuatSlerp spherically interpolates between two unit quaternions along the shortest arc.
//
// Parameters:
//   - a: the start rotation
//   - b: the end rotation
//   - t: the interpolation factor in [0, 1]
//
// Returns:
//   - [4]float32: the interpolated rotation
func QuatSlerp(a, b [4]float32, t float32) [4]float32 {
	cosHalf := a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
	if cosHalf < 0 {
		b = [4]float32{-b[0], -b[1], -b[2], -b[3]}
		cosHalf = -cosHalf
	}
	if cosHalf > 0.9995 {
		return QuatNormalize([4]float32{
			a[0] + (b[0]-a[0])*t,
			a[1] + (b[1]-a[1])*t,
			a[2] + (b[2]-a[2])*t,
			a[3] + (b[3]-a[3])*t,
		})
	}

	half := math.Acos(float64(cosHalf))
	sinHalf := math.Sin(half)
	ra := float32(math.Sin((1-float64(t))*half) / sinHalf)
	rb := float32(math.Sin(float64(t)*half) / sinHalf)
	return [4]float32{
		a[0]*ra + b[0]*rb,
		a[1]*ra + b[1]*rb,
		a[2]*ra + b[2]*rb,
		a[3]*ra + b[3]*rb,
	}
}

// Lerp3 linearly interpolates between two vectors.
func Lerp3(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float32) float32 {
	return rad * 180 / math.Pi
}

// QuatFromRotation converts a row-major 3x3 rotation matrix into a unit quaternion.
//
// Parameters:
//   - r: the rotation matrix, row-major, with orthonormal columns
//
// Returns:
//   - [4]float32: the rotation quaternion (x, y, z, w)
func QuatFromRotation(r [9]float32) [4]float32 {
	m00, m01, m02 := float64(r[0]), float64(r[1]), float64(r[2])
	m10, m11, m12 := float64(r[3]), float64(r[4]), float64(r[5])
	m20, m21, m22 := float64(r[6]), float64(r[7]), float64(r[8])

	var x, y, z, w float64
	switch trace := m00 + m11 + m22; {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		w = 0.25 / s
		x = (m21 - m12) * s
		y = (m02 - m20) * s
		z = (m10 - m01) * s
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		w = (m21 - m12) / s
		x = 0.25 * s
		y = (m01 + m10) / s
		z = (m02 + m20) / s
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		w = (m02 - m20) / s
		x = (m01 + m10) / s
		y = 0.25 * s
		z = (m12 + m21) / s
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		w = (m10 - m01) / s
		x = (m02 + m20) / s
		y = (m12 + m21) / s
		z = 0.25 * s
	}
	return QuatNormalize([4]float32{float32(x), float32(y), float32(z), float32(w)})
}

// DecomposeMatrix splits a column-major affine 4x4 transform without shear into translation,
// rotation and scale. A negative determinant is folded into the X scale.
//
// Parameters:
//   - m: the transform (16 elements)
//
// Returns:
//   - [3]float32: the translation
//   - [4]float32: the rotation quaternion
//   - [3]float32: the scale
func DecomposeMatrix(m []float32) ([3]float32, [4]float32, [3]float32) {
	t := [3]float32{m[12], m[13], m[14]}
	col := func(i int) [3]float32 { return [3]float32{m[i*4], m[i*4+1], m[i*4+2]} }
	length := func(v [3]float32) float32 {
		return float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
	}

	c0, c1, c2 := col(0), col(1), col(2)
	s := [3]float32{length(c0), length(c1), length(c2)}

	det := c0[0]*(c1[1]*c2[2]-c2[1]*c1[2]) - c1[0]*(c0[1]*c2[2]-c2[1]*c0[2]) + c2[0]*(c0[1]*c1[2]-c1[1]*c0[2])
	if det < 0 {
		s[0] = -s[0]
	}
	if s[0] == 0 || s[1] == 0 || s[2] == 0 {
		return t, QuatIdentity(), s
	}

	r := [9]float32{
		c0[0] / s[0], c1[0] / s[1], c2[0] / s[2],
		c0[1] / s[0], c1[1] / s[1], c2[1] / s[2],
		c0[2] / s[0], c1[2] / s[1], c2[2] / s[2],
	}
	return t, QuatFromRotation(r), s
}
