package mutator

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/game_object"
	"github.com/Carmen-Shannon/oxy-gltf/engine/host"
	"github.com/Carmen-Shannon/oxy-gltf/engine/material"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"github.com/Carmen-Shannon/oxy-gltf/engine/registry"
	"github.com/Carmen-Shannon/oxy-gltf/engine/scene"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}

// crate builds a 2x4x6 model with one mesh node, one light node and a "walk" clip.
func crate(name string) model.Model {
	root := model.NewNode(name)
	body := model.NewNode("body")
	body.Geometry = model.NewGeometry([][3]float32{{-1, -2, -3}, {1, 2, 3}, {1, -2, 3}}, nil)
	body.Material = material.NewMaterial(material.WithName("paint"))
	lamp := model.NewNode("lamp")
	lamp.Light = &model.Light{Name: "lamp", Type: model.LightTypePoint}
	root.Add(body)
	root.Add(lamp)
	return model.NewModel(
		model.WithName(name),
		model.WithRoot(root),
		model.WithNodes([]*model.Node{body}),
		model.WithAnimations([]*model.AnimationClip{{Name: "walk", Duration: 1}}),
	)
}

type fixture struct {
	scene scene.Scene
	reg   registry.Registry
	mut   Mutator
	errs  []string
}

func newFixture(objs ...game_object.GameObject) *fixture {
	f := &fixture{
		scene: scene.NewScene("town", scene.WithObjects(objs...)),
		reg:   registry.NewRegistry(),
	}
	sink := host.ErrorSinkFunc(func(msg string) { f.errs = append(f.errs, msg) })
	f.mut = NewMutator(f.scene, scene.NewStage(f.scene), f.reg, WithErrorSink(sink))
	return f
}

func TestAttachFirstLoad(t *testing.T) {
	sprite := model.NewNode("sprite")
	badge := model.NewNode("badge")
	sprite.Add(badge)
	obj := game_object.NewGameObject(game_object.WithID(4), game_object.WithPosition(32, 0, 16), game_object.WithWrapper(sprite))
	f := newFixture(obj)

	m := crate("crate")
	if err := f.mut.Attach(4, host.Invocation{}, m); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	root := m.Root()
	w := obj.Wrapper()
	if w == sprite || root.Parent() != w {
		t.Fatalf("wrapper: model root not attached to a new wrapper")
	}
	if kids := w.Children(); len(kids) != 2 || kids[0] != root || kids[1] != badge {
		t.Errorf("wrapper children: got %d, want [root badge]", len(kids))
	}
	if sprite.Parent() != nil || w.Parent() != f.scene.Root() {
		t.Errorf("scene: old wrapper not removed or new wrapper not added")
	}
	if root.Position != [3]float32{0, 2, 0} {
		t.Errorf("root position: got %v, want [0 2 0]", root.Position)
	}
	if obj.GraphicKind() != game_object.GraphicKindCustomModel || obj.GraphicID() != 0 || obj.StateChanges() != 1 {
		t.Errorf("graphic: got kind %d id %d changes %d", obj.GraphicKind(), obj.GraphicID(), obj.StateChanges())
	}

	bb := obj.BoundingBoxSettings()
	if bb == nil || bb.Boxes[0] != [9]float32{0, 2, 0, 2, 4, 6, 0, 0, 0} || bb.Position != [3]float32{32, 0, 16} {
		t.Errorf("bounding box: got %+v", bb)
	}
	if obj.BoundingBoxUpdates() != 1 {
		t.Errorf("BoundingBoxUpdates: got %d, want 1", obj.BoundingBoxUpdates())
	}
	if f.reg.Get(4) != root || f.reg.Get(registry.HeroSlot) != nil {
		t.Errorf("registry: entry not bound to entity 4 only")
	}
}

func TestAttachFixesShading(t *testing.T) {
	obj := game_object.NewGameObject(game_object.WithID(1))
	f := newFixture(obj)
	m := crate("crate")
	old := m.Nodes()[0].Material

	if err := f.mut.Attach(1, host.Invocation{}, m); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	var body, lamp *model.Node
	m.Root().Traverse(func(n *model.Node) {
		switch n.Name {
		case "body":
			body = n
		case "lamp":
			lamp = n
		}
	})
	if body.Material == old || !body.Material.VertexColors() {
		t.Errorf("material: not replaced with a vertex-colored one")
	}
	if !body.CastShadow || !body.ReceiveShadow {
		t.Errorf("shadows: got cast %v receive %v, want both", body.CastShadow, body.ReceiveShadow)
	}
	if len(body.Geometry.Normals) != len(body.Geometry.Positions) {
		t.Errorf("normals: got %d, want %d", len(body.Geometry.Normals), len(body.Geometry.Positions))
	}
	if !approx(body.Geometry.CullRadius, 9) {
		t.Errorf("CullRadius: got %v, want 9", body.Geometry.CullRadius)
	}
	if lamp.Visible {
		t.Errorf("light node: still visible")
	}
}

func TestFixShadingKeepsTexture(t *testing.T) {
	tex := &common.ImportedTexture{Name: "wood", Width: 4, Height: 4}
	n := model.NewNode("plank")
	n.Material = material.NewMaterial(material.WithTexture(tex), material.WithVertexColors(true))

	var got *common.ImportedTexture
	f := material.FactoryFunc(func(texture *common.ImportedTexture) material.Material {
		got = texture
		return material.NewMaterial(material.WithTexture(texture), material.WithVertexColors(true))
	})
	FixShading(n, f)

	if got != tex || n.Material.Texture() != tex {
		t.Errorf("texture: not passed through the factory")
	}
	if n.Material.VertexColors() {
		t.Errorf("VertexColors: got true for a textured material, want false")
	}
}

func TestAttachReplacesPreviousModel(t *testing.T) {
	obj := game_object.NewGameObject(game_object.WithID(2), game_object.WithWrapper(model.NewNode("sprite")))
	f := newFixture(obj)

	first := crate("first")
	if err := f.mut.Attach(2, host.Invocation{}, first); err != nil {
		t.Fatalf("Attach first: %v", err)
	}
	extra := model.NewNode("nameplate")
	obj.Wrapper().Add(extra)
	firstEntry := f.reg.Entry(2)

	second := crate("second")
	second.Root().Scale = [3]float32{2, 2, 2}
	if err := f.mut.Attach(2, host.Invocation{}, second); err != nil {
		t.Fatalf("Attach second: %v", err)
	}

	kids := obj.Wrapper().Children()
	if len(kids) != 2 || kids[0] != second.Root() || kids[1] != extra {
		t.Errorf("wrapper children: want [second nameplate], got %d children", len(kids))
	}
	if first.Root().Parent() != nil {
		t.Errorf("old root: still attached")
	}
	if obj.StateChanges() != 1 {
		t.Errorf("StateChanges: got %d, want 1 (replacement keeps the custom kind)", obj.StateChanges())
	}
	if row := obj.BoundingBoxSettings().Boxes[0]; row[3] != 4 || row[4] != 8 || row[5] != 12 {
		t.Errorf("bounding box: got %v, want size [4 8 12]", row)
	}
	if f.reg.Entry(2) == firstEntry || f.reg.Get(2) != second.Root() {
		t.Errorf("registry: entry not replaced")
	}
	if f.scene.Root().ChildCount() != 1 {
		t.Errorf("scene: got %d wrappers, want 1", f.scene.Root().ChildCount())
	}
}

func TestAttachMissingEntity(t *testing.T) {
	f := newFixture()
	err := f.mut.Attach(9, host.Invocation{}, crate("crate"))
	if !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("Attach: got %v, want ErrEntityNotFound", err)
	}
	if len(f.errs) != 1 || f.errs[0] != "Error: couldn't find entity 9" {
		t.Errorf("error sink: got %q", f.errs)
	}
	if f.reg.Len() != 0 {
		t.Errorf("registry: got %d entries, want 0", f.reg.Len())
	}
}

func TestAttachHeroAliasesSlotZero(t *testing.T) {
	hero := game_object.NewGameObject(game_object.WithID(6), game_object.WithHero(true))
	f := newFixture(hero)
	m := crate("hero")

	if err := f.mut.Attach(registry.HeroSlot, host.Invocation{}, m); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if f.reg.Get(6) != m.Root() || f.reg.Entry(registry.HeroSlot) != f.reg.Entry(6) {
		t.Errorf("hero: slots 0 and 6 do not share the entry")
	}
}

func TestTransformsWithoutModelAreNoOps(t *testing.T) {
	obj := game_object.NewGameObject(game_object.WithID(1))
	f := newFixture(obj)
	inv := host.Invocation{Subject: obj}

	ops := map[string]func() bool{
		"ResetBoundingBox":  func() bool { return f.mut.ResetBoundingBox(1, inv) },
		"SetBoundingBox":    func() bool { return f.mut.SetBoundingBox(1, inv, 1, 1, 1) },
		"SetScale":          func() bool { return f.mut.SetScale(1, 2) },
		"SetVisible":        func() bool { return f.mut.SetVisible(1, false) },
		"SetOpacity":        func() bool { return f.mut.SetOpacity(1, 0.5) },
		"SetOffset":         func() bool { return f.mut.SetOffset(1, 1, 1, 1) },
		"SetRotation":       func() bool { return f.mut.SetRotation(1, 0, 90, 0) },
		"AddRotation":       func() bool { return f.mut.AddRotation(1, 0, 90, 0) },
		"RetrieveYRotation": func() bool { return f.mut.RetrieveYRotation(1, inv, "yaw") },
	}
	for name, op := range ops {
		if op() {
			t.Errorf("%s: got true, want false without a model", name)
		}
	}
	if obj.BoundingBoxSettings() != nil || obj.BoundingBoxUpdates() != 0 {
		t.Errorf("entity: modified without a model")
	}
	if _, ok := obj.Property("yaw"); ok {
		t.Errorf("property: written without a model")
	}
}

func TestOffsetThenResetBoundingBox(t *testing.T) {
	obj := game_object.NewGameObject(game_object.WithID(1))
	f := newFixture(obj)
	m := crate("crate")
	if err := f.mut.Attach(1, host.Invocation{}, m); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	f.mut.SetOffset(1, 1, 0.5, -1)
	if got := m.Root().Position; got != [3]float32{16, 10, -16} {
		t.Errorf("SetOffset: got %v, want [16 10 -16]", got)
	}

	f.mut.SetScale(1, 2)
	if !f.mut.ResetBoundingBox(1, host.Invocation{}) {
		t.Fatalf("ResetBoundingBox: got false")
	}
	row := obj.BoundingBoxSettings().Boxes[0]
	if row != [9]float32{0, 4, 0, 4, 8, 12, 0, 0, 0} {
		t.Errorf("box row: got %v, want [0 4 0 4 8 12 0 0 0]", row)
	}
	if boxes := obj.Boxes(); len(boxes) != 1 || !approx(boxes[0].Size()[1], 8) {
		t.Errorf("boxes: got %v, want height 8", boxes)
	}
}

func TestSetBoundingBoxUsesGridPolicy(t *testing.T) {
	tests := []struct {
		name   string
		policy GridPolicy
		want   [9]float32
	}{
		{"scaled", DefaultGridPolicy(), [9]float32{0, 16, 0, 16, 32, 8, 0, 0, 0}},
		{"unscaled", GridPolicy{SquareSize: 16}, [9]float32{0, 1, 0, 1, 2, 0.5, 0, 0, 0}},
	}
	for _, tt := range tests {
		obj := game_object.NewGameObject(game_object.WithID(1))
		sc := scene.NewScene("town", scene.WithObjects(obj))
		reg := registry.NewRegistry()
		mut := NewMutator(sc, scene.NewStage(sc), reg, WithGridPolicy(tt.policy))
		if err := mut.Attach(1, host.Invocation{}, crate("crate")); err != nil {
			t.Fatalf("%s: Attach: %v", tt.name, err)
		}
		mut.SetBoundingBox(1, host.Invocation{}, 1, -2, 0.5)
		if got := obj.BoundingBoxSettings().Boxes[0]; got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRotationCommands(t *testing.T) {
	obj := game_object.NewGameObject(game_object.WithID(1))
	caller := game_object.NewGameObject(game_object.WithID(2))
	f := newFixture(obj, caller)
	m := crate("crate")
	if err := f.mut.Attach(1, host.Invocation{}, m); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	f.mut.SetRotation(1, 0, 45, 0)
	if got := m.Root().Rotation()[1]; !approx(got, math.Pi/4) {
		t.Errorf("SetRotation: got yaw %v, want pi/4", got)
	}

	f.mut.AddRotation(1, 0, -15, 0)
	inv := host.Invocation{Subject: caller}
	if !f.mut.RetrieveYRotation(1, inv, "yaw") {
		t.Fatalf("RetrieveYRotation: got false")
	}
	if got, _ := caller.Property("yaw"); !approx(float32(got), 30) {
		t.Errorf("yaw property: got %v, want 30", got)
	}
	if _, ok := obj.Property("yaw"); ok {
		t.Errorf("yaw property: written to the target instead of the caller")
	}
}

func TestSetOpacityAndVisibility(t *testing.T) {
	obj := game_object.NewGameObject(game_object.WithID(1))
	f := newFixture(obj)
	m := crate("crate")
	if err := f.mut.Attach(1, host.Invocation{}, m); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	body := m.Nodes()[0]
	body.RenderOrder = 3

	f.mut.SetOpacity(1, 0.25)
	if body.RenderOrder != 0 || body.Material.Opacity() != 0.25 || !body.Material.Transparent() {
		t.Errorf("SetOpacity: got order %d opacity %v transparent %v", body.RenderOrder, body.Material.Opacity(), body.Material.Transparent())
	}

	f.mut.SetVisible(1, false)
	if m.Root().Visible {
		t.Errorf("SetVisible(false): root still visible")
	}
}

func TestLookAt(t *testing.T) {
	subject := game_object.NewGameObject(game_object.WithID(1))
	target := game_object.NewGameObject(game_object.WithID(2), game_object.WithPosition(10, 0, 5))
	f := newFixture(subject, target)
	m := crate("crate")
	if err := f.mut.Attach(1, host.Invocation{}, m); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	root := m.Root()
	root.SetRotation(0.3, 0, 0)

	before := root.Quaternion()
	if f.mut.LookAt(1, 1, host.Invocation{}) || root.Quaternion() != before {
		t.Errorf("LookAt(self): rotation changed")
	}
	if f.mut.LookAt(1, 9, host.Invocation{}) {
		t.Errorf("LookAt(missing target): got true")
	}

	if !f.mut.LookAt(1, 2, host.Invocation{}) {
		t.Fatalf("LookAt: got false")
	}
	if !approx(subject.Facing(), math.Pi/2) {
		t.Errorf("Facing: got %v, want pi/2", subject.Facing())
	}
	heading := float32(math.Atan2(10, 5))
	rot := root.Rotation()
	if !approx(rot[0], 0.3) || !approx(rot[1], heading-math.Pi/2) || !approx(rot[2], 0) {
		t.Errorf("model rotation: got %v, want [0.3 %v 0]", rot, heading-math.Pi/2)
	}
}

func TestNewMutatorPanicsOnNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("NewMutator(nil, ...): expected panic")
		}
	}()
	NewMutator(nil, scene.NewStage(), registry.NewRegistry())
}
