package loader

import (
	"cmp"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser gltfParser
}

// gltfMeshExtractor defines the interface for extracting mesh data from a parsed glTF document.
// It converts raw glTF accessor data into ImportedMesh structs, one per glTF mesh, keeping the
// document's mesh indices so node references stay valid.
type gltfMeshExtractor interface {
	// ExtractMesh extracts a single mesh by index with all of its triangle primitives.
	//
	// Parameters:
	//   - meshIndex: the index of the mesh to extract
	//
	// Returns:
	//   - model.ImportedMesh: the mesh
	//   - error: error if extraction fails
	ExtractMesh(meshIndex int) (model.ImportedMesh, error)

	// ExtractAllMeshes extracts all meshes from the document, in document order.
	//
	// Returns:
	//   - []model.ImportedMesh: all meshes
	//   - error: error if extraction fails
	ExtractAllMeshes() ([]model.ImportedMesh, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

// newGLTFMeshExtractor creates a new mesh extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfMeshExtractor: the mesh extractor
func newGLTFMeshExtractor(parser gltfParser) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{parser: parser}
}

func (e *gltfMeshExtractorImpl) ExtractMesh(meshIndex int) (model.ImportedMesh, error) {
	doc := e.parser.Document()
	if doc == nil {
		return model.ImportedMesh{}, errNoDocument
	}
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return model.ImportedMesh{}, fmt.Errorf("mesh index %d out of range", meshIndex)
	}

	mesh := &doc.Meshes[meshIndex]
	result := model.ImportedMesh{
		Name: cmp.Or(mesh.Name, fmt.Sprintf("mesh_%d", meshIndex)),
	}

	for primIdx := range mesh.Primitives {
		prim := &mesh.Primitives[primIdx]

		// lines and points carry no volume; they are dropped rather than failing the model
		if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
			continue
		}

		imported, err := e.extractPrimitive(prim)
		if err != nil {
			return model.ImportedMesh{}, fmt.Errorf("mesh %d primitive %d: %w", meshIndex, primIdx, err)
		}
		result.Primitives = append(result.Primitives, imported)
	}

	return result, nil
}

func (e *gltfMeshExtractorImpl) ExtractAllMeshes() ([]model.ImportedMesh, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}

	meshes := make([]model.ImportedMesh, len(doc.Meshes))
	for i := range doc.Meshes {
		mesh, err := e.ExtractMesh(i)
		if err != nil {
			return nil, err
		}
		meshes[i] = mesh
	}
	return meshes, nil
}

// extractPrimitive reads one triangle primitive's vertex streams.
func (e *gltfMeshExtractorImpl) extractPrimitive(prim *gltfPrimitive) (model.ImportedPrimitive, error) {
	var out model.ImportedPrimitive

	posAccessor, ok := prim.Attributes["POSITION"]
	if !ok {
		return out, fmt.Errorf("primitive has no POSITION attribute")
	}

	positions, err := e.parser.ReadVec3Accessor(posAccessor)
	if err != nil {
		return out, fmt.Errorf("failed to read positions: %w", err)
	}
	out.Positions = positions
	vertexCount := len(positions)

	if normalAccessor, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := e.parser.ReadVec3Accessor(normalAccessor)
		if err != nil {
			return out, fmt.Errorf("failed to read normals: %w", err)
		}
		if len(normals) == vertexCount {
			out.Normals = normals
		}
	}

	if texCoordAccessor, ok := prim.Attributes["TEXCOORD_0"]; ok {
		texCoords, err := e.parser.ReadVec2Accessor(texCoordAccessor)
		if err != nil {
			return out, fmt.Errorf("failed to read texcoords: %w", err)
		}
		if len(texCoords) == vertexCount {
			out.TexCoords = texCoords
		}
	}

	if colorAccessor, ok := prim.Attributes["COLOR_0"]; ok {
		colors, err := e.parser.ReadColorAccessor(colorAccessor)
		if err != nil {
			return out, fmt.Errorf("failed to read colors: %w", err)
		}
		if len(colors) == vertexCount {
			out.Colors = colors
		}
	}

	if prim.Indices != nil {
		indices, err := e.parser.ReadIndicesAccessor(*prim.Indices)
		if err != nil {
			return out, fmt.Errorf("failed to read indices: %w", err)
		}
		for _, idx := range indices {
			if int(idx) >= vertexCount {
				return out, fmt.Errorf("index %d out of range for %d vertices", idx, vertexCount)
			}
		}
		out.Indices = indices
	}

	out.MaterialIndex = -1
	if prim.Material != nil {
		out.MaterialIndex = *prim.Material
	}

	out.Bounds = gltfCalculateBoundingBox(positions)
	return out, nil
}

// gltfCalculateBoundingBox computes the axis-aligned bounding box for positions.
func gltfCalculateBoundingBox(positions [][3]float32) common.Box3 {
	box := common.EmptyBox()
	for _, pos := range positions {
		box = box.ExpandByPoint(pos)
	}
	return box
}
