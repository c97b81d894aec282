package common

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestEulerRoundTrip(t *testing.T) {
	tests := [][3]float32{
		{0, 0, 0},
		{0.3, -0.7, 1.1},
		{-1.2, 0.4, -2.5},
		{0, DegToRad(45), 0},
	}
	for _, e := range tests {
		got := EulerFromQuat(QuatFromEuler(e[0], e[1], e[2]))
		for i := range e {
			if !near(got[i], e[i]) {
				t.Errorf("EulerFromQuat(QuatFromEuler(%v)): got %v", e, got)
				break
			}
		}
	}
}

func TestQuatMulComposesYaw(t *testing.T) {
	a := QuatFromAxisAngle([3]float32{0, 1, 0}, DegToRad(30))
	b := QuatFromAxisAngle([3]float32{0, 1, 0}, DegToRad(15))
	if got := RadToDeg(EulerFromQuat(QuatMul(a, b))[1]); !near(got, 45) {
		t.Errorf("yaw: got %v, want 45", got)
	}
}

func TestComposeDecompose(t *testing.T) {
	q := QuatNormalize(QuatFromEuler(0.2, 0.5, -0.1))
	m := make([]float32, 16)
	ComposeMatrix(m, [3]float32{1, 2, 3}, q, [3]float32{2, 2, 2})

	tr, rq, s := DecomposeMatrix(m)
	if tr != [3]float32{1, 2, 3} {
		t.Errorf("translation: got %v", tr)
	}
	for i := range s {
		if !near(s[i], 2) {
			t.Errorf("scale: got %v, want 2", s)
			break
		}
	}
	// q and -q are the same rotation
	dot := rq[0]*q[0] + rq[1]*q[1] + rq[2]*q[2] + rq[3]*q[3]
	if !near(float32(math.Abs(float64(dot))), 1) {
		t.Errorf("rotation: got %v, want %v", rq, q)
	}
}

func TestBoxTransformAndSize(t *testing.T) {
	b := EmptyBox()
	if !b.IsEmpty() {
		t.Fatalf("EmptyBox: not empty")
	}
	b = b.ExpandByPoint([3]float32{-1, 0, -3}).ExpandByPoint([3]float32{1, 4, 3})
	if b.Size() != [3]float32{2, 4, 6} {
		t.Errorf("Size: got %v, want [2 4 6]", b.Size())
	}
	if b.Center() != [3]float32{0, 2, 0} {
		t.Errorf("Center: got %v, want [0 2 0]", b.Center())
	}

	m := make([]float32, 16)
	ComposeMatrix(m, [3]float32{0, 1, 0}, QuatFromAxisAngle([3]float32{0, 1, 0}, math.Pi/2), [3]float32{1, 1, 1})
	size := b.Transform(m).Size()
	if !near(size[0], 6) || !near(size[1], 4) || !near(size[2], 2) {
		t.Errorf("rotated size: got %v, want [6 4 2]", size)
	}
	if u := b.Union(EmptyBox()); u != b {
		t.Errorf("Union with empty: got %v, want %v", u, b)
	}
}
