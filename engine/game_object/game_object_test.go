package game_object

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-gltf/engine/host"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

func TestLookAtSnapsToQuarterTurns(t *testing.T) {
	tests := []struct {
		name   string
		target [3]float32
		want   float32
	}{
		{"ahead", [3]float32{0, 0, 10}, 0},
		{"right", [3]float32{10, 0, 1}, math.Pi / 2},
		{"behind", [3]float32{-1, 0, -10}, -math.Pi},
		{"left", [3]float32{-10, 0, 3}, -math.Pi / 2},
	}
	for _, tt := range tests {
		g := NewGameObject()
		g.LookAt(NewGameObject(WithPosition(tt.target[0], tt.target[1], tt.target[2])))
		if math.Abs(math.Abs(float64(g.Facing()))-math.Abs(float64(tt.want))) > 1e-6 {
			t.Errorf("%s: got facing %v, want %v", tt.name, g.Facing(), tt.want)
		}
	}

	g := NewGameObject(WithPosition(1, 0, 1))
	g.LookAt(NewGameObject(WithPosition(1, 5, 1)))
	if g.Facing() != 0 {
		t.Errorf("same ground position: got facing %v, want 0", g.Facing())
	}
}

func TestSetWrapperFollowsPositionAndFacing(t *testing.T) {
	g := NewGameObject(WithPosition(32, 0, -16))
	g.LookAt(NewGameObject(WithPosition(64, 0, -16)))

	w := model.NewNode("entity-1")
	g.SetWrapper(w)
	if w.Position != [3]float32{32, 0, -16} {
		t.Errorf("wrapper position: got %v", w.Position)
	}
	if r := w.Rotation(); math.Abs(float64(r[1]-math.Pi/2)) > 1e-3 {
		t.Errorf("wrapper yaw: got %v, want pi/2", r[1])
	}

	g.SetPosition(0, 0, 0)
	if w.Position != [3]float32{0, 0, 0} {
		t.Errorf("SetPosition: wrapper at %v", w.Position)
	}
}

func TestMarkCustomModel(t *testing.T) {
	g := NewGameObject()
	if g.GraphicKind() != GraphicKindSprite || g.GraphicID() != 1 {
		t.Fatalf("new object: got kind %v id %d", g.GraphicKind(), g.GraphicID())
	}
	g.MarkCustomModel()
	if g.GraphicKind() != GraphicKindCustomModel || g.GraphicID() != 0 || g.StateChanges() != 1 {
		t.Errorf("MarkCustomModel: got kind %v id %d changes %d", g.GraphicKind(), g.GraphicID(), g.StateChanges())
	}
}

func TestUpdateBoundingBoxes(t *testing.T) {
	g := NewGameObject(WithPosition(10, 0, 0))
	g.UpdateBoundingBoxes()
	if len(g.Boxes()) != 0 || g.BoundingBoxUpdates() != 1 {
		t.Errorf("no settings: got %d boxes, %d updates", len(g.Boxes()), g.BoundingBoxUpdates())
	}

	g.SetBoundingBoxSettings(host.NewBoundingBoxSettings([3]float32{2, 4, 0}, g.Position()))
	g.UpdateBoundingBoxes()
	boxes := g.Boxes()
	if len(boxes) != 1 {
		t.Fatalf("boxes: got %d, want 1", len(boxes))
	}
	want := [2][3]float32{{9, 0, -0.005}, {11, 4, 0.005}}
	if boxes[0].Min != want[0] || boxes[0].Max != want[1] {
		t.Errorf("box: got %v..%v, want %v..%v", boxes[0].Min, boxes[0].Max, want[0], want[1])
	}
}

func TestProperties(t *testing.T) {
	g := NewGameObject(WithProperty("hp", 3))
	if v, ok := g.Property("hp"); !ok || v != 3 {
		t.Errorf("hp: got %v/%v, want 3", v, ok)
	}
	g.SetProperty("yaw", 90)
	if v, _ := g.Property("yaw"); v != 90 {
		t.Errorf("yaw: got %v, want 90", v)
	}
	if _, ok := g.Property("mp"); ok {
		t.Errorf("mp: unexpectedly set")
	}
}
