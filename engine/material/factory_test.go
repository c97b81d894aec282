package material

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/Carmen-Shannon/oxy-gltf/common"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestDefaultFactoryLeavesTemplateTextureUntouched(t *testing.T) {
	shared := &common.ImportedTexture{Name: "wood", Data: pngBytes(t, 8, 4)}
	f := NewDefaultFactory(nil)

	first := f.CreateMaterial(shared)
	second := f.CreateMaterial(shared)

	if shared.Width != 0 || shared.Height != 0 {
		t.Errorf("shared texture: got %dx%d, want it unsized", shared.Width, shared.Height)
	}
	for i, m := range []Material{first, second} {
		tex := m.Texture()
		if tex == shared {
			t.Fatalf("material %d: shares the template texture record", i)
		}
		if tex.Width != 8 || tex.Height != 4 {
			t.Errorf("material %d: got %dx%d, want 8x4", i, tex.Width, tex.Height)
		}
		if tex.Name != "wood" {
			t.Errorf("material %d name: got %q, want wood", i, tex.Name)
		}
		if m.VertexColors() {
			t.Errorf("material %d: VertexColors true for a textured material", i)
		}
	}
	if first.Texture() == second.Texture() {
		t.Errorf("materials: share one texture record")
	}
}

func TestDefaultFactoryUntextured(t *testing.T) {
	m := NewDefaultFactory(nil).CreateMaterial(nil)
	if m.Texture() != nil || !m.VertexColors() {
		t.Errorf("untextured: got texture %v vertexColors %v", m.Texture(), m.VertexColors())
	}
}
