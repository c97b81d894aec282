package host

import "testing"

type stubEntity struct {
	Entity
	id int
}

func (s stubEntity) ID() int { return s.id }

func TestInvocationResolve(t *testing.T) {
	inv := Invocation{Subject: stubEntity{id: 12}}
	tests := []struct {
		in     int
		want   int
		wantOK bool
	}{
		{Self, 12, true},
		{3, 3, true},
		{0, 0, true},
	}
	for _, tt := range tests {
		got, ok := inv.Resolve(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Resolve(%d): got %d/%v, want %d/%v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}

	if _, ok := (Invocation{}).Resolve(Self); ok {
		t.Errorf("Resolve(Self) without subject: got ok, want false")
	}
}

func TestNewBoundingBoxSettings(t *testing.T) {
	s := NewBoundingBoxSettings([3]float32{2, 4, 6}, [3]float32{1, 0, 1})

	if len(s.Boxes) != 1 || s.Boxes[0] != [9]float32{0, 2, 0, 2, 4, 6, 0, 0, 0} {
		t.Errorf("Boxes: got %v, want [[0 2 0 2 4 6 0 0 0]]", s.Boxes)
	}
	if s.Width != 1 || s.Height != 1 || s.Depth != 1 || !s.Custom || s.Mode != 1 {
		t.Errorf("flags: got %+v", s)
	}
	if s.Footprint != [3]float32{0.01, 0.01, 0.01} || s.Position != [3]float32{1, 0, 1} {
		t.Errorf("Footprint/Position: got %v/%v", s.Footprint, s.Position)
	}

	s.SetBox(BoxRow(1, 1, 1))
	if len(s.Boxes) != 1 || s.Boxes[0][1] != 0.5 {
		t.Errorf("SetBox: got %v", s.Boxes)
	}
	empty := &BoundingBoxSettings{}
	empty.SetBox(BoxRow(1, 2, 3))
	if len(empty.Boxes) != 1 {
		t.Errorf("SetBox on empty: got %d rows, want 1", len(empty.Boxes))
	}
}
