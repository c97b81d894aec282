package loader

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/Carmen-Shannon/oxy-gltf/engine/loader/loadertest"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

func boxFS(name string, opts loadertest.Options) fstest.MapFS {
	return fstest.MapFS{name: &fstest.MapFile{Data: loadertest.GLTF(opts)}}
}

func TestLoadImportsHierarchyLightsAndClips(t *testing.T) {
	opts := loadertest.Box("crate", 2, 4, 6)
	opts.Light = true
	opts.Clips = []loadertest.Clip{
		{Name: "walk", Duration: 1, To: [3]float32{0, 0, 2}},
		{Name: "run", Duration: 0.5, To: [3]float32{0, 0, 4}},
	}
	l := NewLoader(BackendTypeGLTF, WithFS(boxFS("props/crate.gltf", opts)))

	imported, err := l.Load("props/crate.gltf")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if imported.Name != "crate" {
		t.Errorf("Name: got %q, want %q", imported.Name, "crate")
	}
	if len(imported.Nodes) != 2 {
		t.Fatalf("Nodes: got %d, want 2", len(imported.Nodes))
	}
	if got := imported.Roots; len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("Roots: got %v, want [0 1]", got)
	}
	if imported.Nodes[0].Mesh != 0 || imported.Nodes[0].Light != -1 {
		t.Errorf("node 0: got mesh %d light %d, want mesh 0 light -1", imported.Nodes[0].Mesh, imported.Nodes[0].Light)
	}
	if imported.Nodes[1].Light != 0 {
		t.Errorf("node 1 light: got %d, want 0", imported.Nodes[1].Light)
	}
	if len(imported.Lights) != 1 || imported.Lights[0].Intensity != 40 || imported.Lights[0].Type != model.LightTypePoint {
		t.Errorf("Lights: got %+v, want one point light of intensity 40", imported.Lights)
	}

	bounds := imported.Meshes[0].Primitives[0].Bounds
	if bounds.Size() != [3]float32{2, 4, 6} {
		t.Errorf("primitive bounds size: got %v, want [2 4 6]", bounds.Size())
	}
	if imported.Meshes[0].Primitives[0].MaterialIndex != -1 {
		t.Errorf("MaterialIndex: got %d, want -1", imported.Meshes[0].Primitives[0].MaterialIndex)
	}

	if len(imported.Animations) != 2 {
		t.Fatalf("Animations: got %d, want 2", len(imported.Animations))
	}
	walk := imported.Animations[0]
	if walk.Name != "walk" || walk.Duration != 1 {
		t.Errorf("walk: got %q/%v, want walk/1", walk.Name, walk.Duration)
	}
	if len(walk.Channels) != 1 || walk.Channels[0].TargetNode != 0 || len(walk.Channels[0].PositionKeys) != 2 {
		t.Errorf("walk channels: got %+v, want one translation channel on node 0", walk.Channels)
	}
}

func TestLoadCachesUntilInvalidated(t *testing.T) {
	l := NewLoader(BackendTypeGLTF, WithFS(boxFS("a.gltf", loadertest.Box("a", 1, 1, 1))))

	first, err := l.Load("a.gltf")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := l.Load("./a.gltf")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if first != second {
		t.Errorf("Load: cached template not reused")
	}
	if len(l.Models()) != 1 {
		t.Errorf("Models: got %d entries, want 1", len(l.Models()))
	}

	l.Invalidate("a.gltf")
	if l.Get("a.gltf") != nil {
		t.Fatalf("Get after Invalidate: got template, want nil")
	}
	third, err := l.Load("a.gltf")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if third == first {
		t.Errorf("Load after Invalidate: got the stale template")
	}
}

func TestLoadWithoutCache(t *testing.T) {
	l := NewLoader(BackendTypeGLTF, WithCache(false), WithFS(boxFS("a.gltf", loadertest.Box("a", 1, 1, 1))))
	if _, err := l.Load("a.gltf"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if l.Get("a.gltf") != nil {
		t.Errorf("Get: got cached template with caching disabled")
	}
}

func TestInstantiateBuildsIndependentGraphs(t *testing.T) {
	opts := loadertest.Box("crate", 2, 4, 6)
	opts.Translation = [3]float32{1, 0, 0}
	l := NewLoader(BackendTypeGLTF, WithFS(boxFS("crate.gltf", opts)))

	a, err := l.Instantiate("crate.gltf")
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	b, err := l.Instantiate("crate.gltf")
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}

	if a.Root() == b.Root() || a.Nodes()[0] == b.Nodes()[0] {
		t.Fatalf("Instantiate: instances share nodes")
	}
	if a.Root().Name != "crate" {
		t.Errorf("root name: got %q, want crate", a.Root().Name)
	}

	a.Nodes()[0].Position = [3]float32{5, 5, 5}
	if b.Nodes()[0].Position != [3]float32{1, 0, 0} {
		t.Errorf("mutating one instance changed the other: got %v", b.Nodes()[0].Position)
	}

	box := model.BoxFromObject(b.Root())
	if box.Size() != [3]float32{2, 4, 6} {
		t.Errorf("BoxFromObject size: got %v, want [2 4 6]", box.Size())
	}
	if box.Min[0] != 0 {
		t.Errorf("BoxFromObject min x: got %v, want 0 (node translation applied)", box.Min[0])
	}
}

func TestInstantiateSplitsPrimitivesAndKeepsColors(t *testing.T) {
	opts := loadertest.Box("crate", 1, 1, 1)
	opts.Primitives = 2
	opts.VertexColors = true
	color := [4]float32{0.5, 0.5, 0.5, 1}
	opts.Material = &color
	l := NewLoader(BackendTypeGLTF, WithFS(boxFS("crate.gltf", opts)))

	m, err := l.Instantiate("crate.gltf")
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}

	body := m.Nodes()[0]
	if body.Geometry != nil {
		t.Errorf("multi-primitive node: got geometry on the node itself")
	}
	children := body.Children()
	if len(children) != 2 {
		t.Fatalf("children: got %d, want 2", len(children))
	}
	if children[0].Name != "box_prim0" {
		t.Errorf("child name: got %q, want box_prim0", children[0].Name)
	}
	geo := children[0].Geometry
	if !geo.HasVertexColors() {
		t.Errorf("HasVertexColors: got false, want true")
	}
	if geo.Colors[0][1] < 0.5 || geo.Colors[0][1] > 0.51 {
		t.Errorf("normalized color: got %v, want ~0.502", geo.Colors[0][1])
	}
	if len(geo.Normals) != len(geo.Positions) {
		t.Errorf("Normals: got %d, want %d generated", len(geo.Normals), len(geo.Positions))
	}
	if children[0].Material.BaseColor() != color {
		t.Errorf("BaseColor: got %v, want %v", children[0].Material.BaseColor(), color)
	}
	if !children[0].Material.VertexColors() {
		t.Errorf("VertexColors: got false, want true")
	}
}

func TestLoadGLB(t *testing.T) {
	data := loadertest.GLB(loadertest.GLTF(loadertest.Box("bin", 1, 2, 3)))
	l := NewLoader(BackendTypeGLTF, WithFS(fstest.MapFS{"bin.glb": &fstest.MapFile{Data: data}}))

	imported, err := l.Load("bin.glb")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if imported.Meshes[0].Primitives[0].Bounds.Size() != [3]float32{1, 2, 3} {
		t.Errorf("bounds: got %v, want [1 2 3]", imported.Meshes[0].Primitives[0].Bounds.Size())
	}
}

func TestLoadReader(t *testing.T) {
	l := NewLoader(BackendTypeGLTF, WithFS(fstest.MapFS{}))
	r := bytes.NewReader(loadertest.GLTF(loadertest.Box("", 1, 1, 1)))

	imported, err := l.LoadReader("stream", r, false)
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if imported.Name != "stream" {
		t.Errorf("Name: got %q, want fallback %q", imported.Name, "stream")
	}
	if l.Get("stream") != imported {
		t.Errorf("Get: reader import not cached")
	}
}

func TestLoadErrors(t *testing.T) {
	l := NewLoader(BackendTypeGLTF, WithFS(fstest.MapFS{
		"broken.gltf": &fstest.MapFile{Data: []byte(`{"asset":{"version":"1.0"}}`)},
	}))

	tests := []struct {
		name string
		path string
		want error
	}{
		{"unsupported extension", "model.obj", ErrUnsupportedFormat},
		{"missing file", "missing.gltf", ErrNotFound},
		{"bad version", "broken.gltf", errInvalidGLTFVersion},
		{"empty path", "", errInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Load(tt.path)
			if !errors.Is(err, tt.want) {
				t.Errorf("Load(%q): got %v, want %v", tt.path, err, tt.want)
			}
		})
	}
}

func TestCleanPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hero.gltf", "hero.gltf"},
		{"./units/hero.gltf", "units/hero.gltf"},
		{"/units/hero.gltf", "units/hero.gltf"},
		{`units\hero.glb`, "units/hero.glb"},
		{"../../etc/hero.gltf", "etc/hero.gltf"},
	}
	for _, tt := range tests {
		got, err := CleanPath(tt.in)
		if err != nil {
			t.Errorf("CleanPath(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("CleanPath(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFetcherPostsResultInsteadOfCallingBack(t *testing.T) {
	l := NewLoader(BackendTypeGLTF, WithFS(boxFS("a.gltf", loadertest.Box("a", 1, 1, 1))))

	var posted []func()
	f := NewFetcher(l, func(fn func()) { posted = append(posted, fn) }, WithWorkers(0))
	defer f.Close()

	var got model.Model
	called := false
	f.Fetch("a.gltf", func(m model.Model, err error) {
		called = true
		got = m
		if err != nil {
			t.Errorf("Fetch: unexpected error %v", err)
		}
	})

	if called {
		t.Fatalf("Fetch: callback ran before the posted continuation")
	}
	if len(posted) != 1 {
		t.Fatalf("posted: got %d continuations, want 1", len(posted))
	}
	posted[0]()
	if !called || got == nil {
		t.Fatalf("callback: got called=%v model=%v, want a model", called, got)
	}
}

func TestFetcherReportsErrors(t *testing.T) {
	l := NewLoader(BackendTypeGLTF, WithFS(fstest.MapFS{}))
	done := make(chan error, 1)
	f := NewFetcher(l, func(fn func()) { fn() }, WithWorkers(1))
	defer f.Close()

	f.Fetch("nope.gltf", func(m model.Model, err error) { done <- err })

	select {
	case err := <-done:
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Fetch error: got %v, want ErrNotFound", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Fetch: callback never posted")
	}
}

func TestFetcherParsesOnWorkerPool(t *testing.T) {
	l := NewLoader(BackendTypeGLTF, WithFS(boxFS("a.gltf", loadertest.Box("a", 1, 1, 1))))
	posted := make(chan func(), 4)
	f := NewFetcher(l, func(fn func()) { posted <- fn }, WithWorkers(2), WithQueueSize(4))
	defer f.Close()

	results := make(chan model.Model, 2)
	for i := 0; i < 2; i++ {
		f.Fetch("a.gltf", func(m model.Model, err error) { results <- m })
	}

	for i := 0; i < 2; i++ {
		select {
		case fn := <-posted:
			fn()
		case <-time.After(5 * time.Second):
			t.Fatalf("Fetch %d: nothing posted", i)
		}
	}
	a, b := <-results, <-results
	if a == nil || b == nil || a.Root() == b.Root() {
		t.Errorf("Fetch: want two distinct instances, got %v and %v", a, b)
	}
}

func TestFetcherAcceptsConcurrentFetches(t *testing.T) {
	l := NewLoader(BackendTypeGLTF, WithFS(boxFS("a.gltf", loadertest.Box("a", 1, 1, 1))))
	const callers, each = 8, 4
	posted := make(chan func(), callers*each)
	f := NewFetcher(l, func(fn func()) { posted <- fn }, WithWorkers(2), WithQueueSize(1))
	defer f.Close()

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < each; j++ {
				f.Fetch("a.gltf", func(m model.Model, err error) {
					if err != nil || m == nil {
						t.Errorf("Fetch: got %v, %v", m, err)
					}
				})
			}
		}()
	}
	wg.Wait()

	for i := 0; i < callers*each; i++ {
		select {
		case fn := <-posted:
			fn()
		case <-time.After(5 * time.Second):
			t.Fatalf("Fetch: got %d results, want %d", i, callers*each)
		}
	}
}

func TestWatcherInvalidatesChangedModel(t *testing.T) {
	dir := t.TempDir()
	loadertest.WriteFile(t, dir, "units/hero.gltf", loadertest.GLTF(loadertest.Box("hero", 1, 1, 1)))

	l := NewLoader(BackendTypeGLTF, WithBaseDir(dir))
	if _, err := l.Load("units/hero.gltf"); err != nil {
		t.Fatalf("Load: %v", err)
	}

	w, err := NewWatcher(l, dir, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	loadertest.WriteFile(t, dir, "units/hero.gltf", loadertest.GLTF(loadertest.Box("hero", 2, 2, 2)))

	deadline := time.Now().Add(5 * time.Second)
	for l.Get("units/hero.gltf") != nil {
		if time.Now().After(deadline) {
			t.Fatalf("watcher: cached template never invalidated")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
