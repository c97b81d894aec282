package loader

import (
	"cmp"
	"fmt"
	"io"
	"io/fs"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct {
	fsys fs.FS
}

// gltfImporter defines the interface for orchestrating a full glTF/GLB import.
// It combines the parser and all extractors to produce a complete ImportedModel.
type gltfImporter interface {
	// Import loads a glTF/GLB file and extracts the node hierarchy, meshes, lights, animations
	// and materials into an ImportedModel.
	//
	// Parameters:
	//   - name: the slash-separated path of the file inside the importer's filesystem
	//
	// Returns:
	//   - *model.ImportedModel: the fully populated imported model
	//   - error: error if import fails
	Import(name string) (*model.ImportedModel, error)

	// ImportReader loads a glTF document from a reader and extracts all data.
	//
	// Parameters:
	//   - name: the model name to use when the document's scene is unnamed
	//   - r: the reader providing glTF/GLB data
	//   - isGLB: true if the reader provides GLB binary data, false for glTF JSON
	//
	// Returns:
	//   - *model.ImportedModel: the fully populated imported model
	//   - error: error if import fails
	ImportReader(name string, r io.Reader, isGLB bool) (*model.ImportedModel, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer reading from fsys.
//
// Parameters:
//   - fsys: the filesystem model files live in
//
// Returns:
//   - gltfImporter: the importer
func newGLTFImporter(fsys fs.FS) gltfImporter {
	return &gltfImporterImpl{fsys: fsys}
}

func (imp *gltfImporterImpl) Import(name string) (*model.ImportedModel, error) {
	parser := newGLTFParser(imp.fsys)
	if err := parser.Parse(name); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return imp.importFromParser(parser, name)
}

func (imp *gltfImporterImpl) ImportReader(name string, r io.Reader, isGLB bool) (*model.ImportedModel, error) {
	parser := newGLTFParser(imp.fsys)
	if err := parser.ParseReader(r, isGLB); err != nil {
		return nil, fmt.Errorf("failed to parse from reader: %w", err)
	}
	return imp.importFromParser(parser, name)
}

// importFromParser performs a full import from a parser that has already loaded a document.
//
// Parameters:
//   - parser: the glTF parser that has already loaded a document
//   - fallbackName: model name used when the default scene has none
func (imp *gltfImporterImpl) importFromParser(parser gltfParser, fallbackName string) (*model.ImportedModel, error) {
	doc := parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}

	meshes, err := newGLTFMeshExtractor(parser).ExtractAllMeshes()
	if err != nil {
		return nil, fmt.Errorf("mesh extraction failed: %w", err)
	}

	animations, err := newGLTFAnimationExtractor(parser).ExtractAllAnimations()
	if err != nil {
		return nil, fmt.Errorf("animation extraction failed: %w", err)
	}

	materials, err := newGLTFMaterialExtractor(parser).ExtractAllMaterials()
	if err != nil {
		return nil, fmt.Errorf("material extraction failed: %w", err)
	}

	lights := gltfExtractLights(doc)

	nodes := make([]model.ImportedNode, len(doc.Nodes))
	for i := range doc.Nodes {
		node, err := gltfConvertNode(doc, i, len(lights))
		if err != nil {
			return nil, err
		}
		nodes[i] = node
	}

	return &model.ImportedModel{
		Name:       gltfExtractModelName(doc, fallbackName),
		Nodes:      nodes,
		Roots:      gltfSceneRoots(doc),
		Meshes:     meshes,
		Lights:     lights,
		Animations: animations,
		Materials:  materials,
	}, nil
}

// --- Helper Functions ---

// gltfConvertNode converts one document node into its imported form.
func gltfConvertNode(doc *gltfDocument, index, lightCount int) (model.ImportedNode, error) {
	src := &doc.Nodes[index]
	out := model.ImportedNode{
		Name:      cmp.Or(src.Name, fmt.Sprintf("node_%d", index)),
		Transform: model.IdentityTransform(),
		Mesh:      -1,
		Light:     -1,
	}

	if src.Matrix != nil {
		t, r, s := common.DecomposeMatrix(src.Matrix[:])
		out.Transform = model.Transform{Translation: t, Rotation: r, Scale: s}
	} else {
		if src.Translation != nil {
			out.Transform.Translation = *src.Translation
		}
		if src.Rotation != nil {
			out.Transform.Rotation = *src.Rotation
		}
		if src.Scale != nil {
			out.Transform.Scale = *src.Scale
		}
	}

	for _, c := range src.Children {
		if c < 0 || c >= len(doc.Nodes) || c == index {
			return out, fmt.Errorf("node %d: child %d out of range", index, c)
		}
	}
	out.Children = append([]int(nil), src.Children...)

	if src.Mesh != nil {
		if *src.Mesh < 0 || *src.Mesh >= len(doc.Meshes) {
			return out, fmt.Errorf("node %d: mesh %d out of range", index, *src.Mesh)
		}
		out.Mesh = *src.Mesh
	}

	if src.Extensions != nil && src.Extensions.LightsPunctual != nil {
		li := src.Extensions.LightsPunctual.Light
		if li < 0 || li >= lightCount {
			return out, fmt.Errorf("node %d: light %d out of range", index, li)
		}
		out.Light = li
	}

	return out, nil
}

// gltfExtractLights converts the KHR_lights_punctual light list.
func gltfExtractLights(doc *gltfDocument) []model.Light {
	if doc.Extensions == nil || doc.Extensions.LightsPunctual == nil {
		return nil
	}

	src := doc.Extensions.LightsPunctual.Lights
	lights := make([]model.Light, len(src))
	for i, l := range src {
		light := model.Light{
			Name:           l.Name,
			Color:          [3]float32{1, 1, 1},
			Intensity:      1,
			Range:          l.Range,
			OuterConeAngle: 0.7853982,
		}
		switch l.Type {
		case gltfLightTypeDirectional:
			light.Type = model.LightTypeDirectional
		case gltfLightTypeSpot:
			light.Type = model.LightTypeSpot
		default:
			light.Type = model.LightTypePoint
		}
		if l.Color != nil {
			light.Color = *l.Color
		}
		if l.Intensity != nil {
			light.Intensity = *l.Intensity
		}
		if l.Spot != nil {
			light.InnerConeAngle = l.Spot.InnerConeAngle
			if l.Spot.OuterConeAngle != nil {
				light.OuterConeAngle = *l.Spot.OuterConeAngle
			}
		}
		lights[i] = light
	}
	return lights
}

// gltfSceneRoots returns the root node indices of the default scene. Documents without scenes
// use every node that is nobody's child.
func gltfSceneRoots(doc *gltfDocument) []int {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			idx = *doc.Scene
		}
		roots := make([]int, 0, len(doc.Scenes[idx].Nodes))
		for _, n := range doc.Scenes[idx].Nodes {
			if n >= 0 && n < len(doc.Nodes) {
				roots = append(roots, n)
			}
		}
		return roots
	}

	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var roots []int
	for i, child := range isChild {
		if !child {
			roots = append(roots, i)
		}
	}
	return roots
}

// gltfExtractModelName derives a model name from the default scene or falls back to the given name.
func gltfExtractModelName(doc *gltfDocument, fallbackName string) string {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			idx = *doc.Scene
		}
		if name := doc.Scenes[idx].Name; name != "" {
			return name
		}
	}
	return cmp.Or(fallbackName, "unnamed_model")
}
