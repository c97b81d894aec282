// Package loadertest builds small glTF documents in memory for tests.
// Buffers are embedded as base64 data URIs so a fixture is a single self-contained file.
package loadertest

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// Clip describes a linear translation animation of the mesh node from the origin to To.
type Clip struct {
	Name     string
	Duration float32
	To       [3]float32
}

// Options configures the generated model: an axis-aligned box mesh on node 0, optionally a
// punctual light on node 1.
type Options struct {
	// Name is the scene name, which becomes the model name.
	Name string

	// Min and Max are the box corners in mesh space.
	Min, Max [3]float32

	// Translation offsets the mesh node.
	Translation [3]float32

	// Clips are animations targeting the mesh node.
	Clips []Clip

	// Light adds a KHR_lights_punctual point light node.
	Light bool

	// VertexColors adds a COLOR_0 stream.
	VertexColors bool

	// Primitives is the number of primitives the box mesh is split into (default 1).
	Primitives int

	// Material adds a material with the given base color.
	Material *[4]float32
}

// Box returns the options for a box of the given size resting on the origin.
func Box(name string, x, y, z float32) Options {
	return Options{
		Name: name,
		Min:  [3]float32{-x / 2, 0, -z / 2},
		Max:  [3]float32{x / 2, y, z / 2},
	}
}

type builder struct {
	buf         bytes.Buffer
	bufferViews []map[string]any
	accessors   []map[string]any
}

func (b *builder) add(data any, count int, componentType int, typ string, extra map[string]any) int {
	for b.buf.Len()%4 != 0 {
		b.buf.WriteByte(0)
	}
	offset := b.buf.Len()
	_ = binary.Write(&b.buf, binary.LittleEndian, data)
	b.bufferViews = append(b.bufferViews, map[string]any{
		"buffer":     0,
		"byteOffset": offset,
		"byteLength": b.buf.Len() - offset,
	})
	acc := map[string]any{
		"bufferView":    len(b.bufferViews) - 1,
		"componentType": componentType,
		"count":         count,
		"type":          typ,
	}
	for k, v := range extra {
		acc[k] = v
	}
	b.accessors = append(b.accessors, acc)
	return len(b.accessors) - 1
}

// GLTF renders the options into a glTF JSON document.
func GLTF(o Options) []byte {
	const (
		float  = 5126
		ushort = 5123
		ubyte  = 5121
	)

	lo, hi := o.Min, o.Max
	positions := [][3]float32{
		{lo[0], lo[1], lo[2]}, {hi[0], lo[1], lo[2]}, {hi[0], hi[1], lo[2]}, {lo[0], hi[1], lo[2]},
		{lo[0], lo[1], hi[2]}, {hi[0], lo[1], hi[2]}, {hi[0], hi[1], hi[2]}, {lo[0], hi[1], hi[2]},
	}
	indices := []uint16{
		0, 2, 1, 0, 3, 2, // back
		4, 5, 6, 4, 6, 7, // front
		0, 1, 5, 0, 5, 4, // bottom
		3, 7, 6, 3, 6, 2, // top
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
	}

	b := &builder{}
	posAcc := b.add(positions, len(positions), float, "VEC3", map[string]any{"min": lo, "max": hi})

	attrs := map[string]int{"POSITION": posAcc}
	if o.VertexColors {
		colors := make([][4]uint8, len(positions))
		for i := range colors {
			colors[i] = [4]uint8{255, 128, 0, 255}
		}
		attrs["COLOR_0"] = b.add(colors, len(colors), ubyte, "VEC4", map[string]any{"normalized": true})
	}

	parts := max(o.Primitives, 1)
	var primitives []map[string]any
	per := len(indices) / 3 / parts * 3
	for p := 0; p < parts; p++ {
		end := (p + 1) * per
		if p == parts-1 {
			end = len(indices)
		}
		chunk := indices[p*per : end]
		prim := map[string]any{
			"attributes": attrs,
			"indices":    b.add(chunk, len(chunk), ushort, "SCALAR", nil),
		}
		if o.Material != nil {
			prim["material"] = 0
		}
		primitives = append(primitives, prim)
	}

	var animations []map[string]any
	for _, c := range o.Clips {
		in := b.add([]float32{0, c.Duration}, 2, float, "SCALAR", map[string]any{"min": []float32{0}, "max": []float32{c.Duration}})
		out := b.add([][3]float32{o.Translation, c.To}, 2, float, "VEC3", nil)
		animations = append(animations, map[string]any{
			"name":     c.Name,
			"samplers": []map[string]any{{"input": in, "output": out}},
			"channels": []map[string]any{{"sampler": 0, "target": map[string]any{"node": 0, "path": "translation"}}},
		})
	}

	nodes := []map[string]any{{"name": "Body", "mesh": 0, "translation": o.Translation}}
	sceneNodes := []int{0}
	doc := map[string]any{
		"asset": map[string]any{"version": "2.0", "generator": "loadertest"},
		"scene": 0,
	}
	if o.Light {
		nodes = append(nodes, map[string]any{
			"name":        "Lamp",
			"translation": [3]float32{0, 5, 0},
			"extensions":  map[string]any{"KHR_lights_punctual": map[string]any{"light": 0}},
		})
		sceneNodes = append(sceneNodes, 1)
		doc["extensionsUsed"] = []string{"KHR_lights_punctual"}
		doc["extensions"] = map[string]any{"KHR_lights_punctual": map[string]any{
			"lights": []map[string]any{{"name": "lamp", "type": "point", "intensity": 40}},
		}}
	}
	if o.Material != nil {
		doc["materials"] = []map[string]any{{"name": "paint", "pbrMetallicRoughness": map[string]any{"baseColorFactor": o.Material}}}
	}

	doc["scenes"] = []map[string]any{{"name": o.Name, "nodes": sceneNodes}}
	doc["nodes"] = nodes
	doc["meshes"] = []map[string]any{{"name": "box", "primitives": primitives}}
	doc["accessors"] = b.accessors
	doc["bufferViews"] = b.bufferViews
	doc["buffers"] = []map[string]any{{
		"byteLength": b.buf.Len(),
		"uri":        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(b.buf.Bytes()),
	}}
	if len(animations) > 0 {
		doc["animations"] = animations
	}

	out, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return out
}

// GLB wraps a glTF JSON document into a binary container. The buffers keep their data URIs.
func GLB(jsonDoc []byte) []byte {
	for len(jsonDoc)%4 != 0 {
		jsonDoc = append(jsonDoc, ' ')
	}
	var out bytes.Buffer
	_ = binary.Write(&out, binary.LittleEndian, [3]uint32{0x46546C67, 2, uint32(12 + 8 + len(jsonDoc))})
	_ = binary.Write(&out, binary.LittleEndian, [2]uint32{uint32(len(jsonDoc)), 0x4E4F534A})
	out.Write(jsonDoc)
	return out.Bytes()
}

// WriteFile writes data to dir/name, creating parent directories, and fails the test on error.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", full, err)
	}
	return full
}
