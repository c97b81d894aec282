package loader

import (
	"io"
	"io/fs"

	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct {
	importer gltfImporter
}

// gltfLoaderBackend is a loaderBackend implementation for glTF/GLB files.
// It delegates to the gltfImporter for parsing and extraction.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend reading from fsys.
//
// Parameters:
//   - fsys: the filesystem model files live in
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF/GLB files
func newGLTFLoaderBackend(fsys fs.FS) gltfLoaderBackend {
	return &gltfLoaderBackendImpl{
		importer: newGLTFImporter(fsys),
	}
}

func (b *gltfLoaderBackendImpl) Load(name string) (*model.ImportedModel, error) {
	return b.importer.Import(name)
}

func (b *gltfLoaderBackendImpl) LoadReader(name string, r io.Reader, isGLB bool) (*model.ImportedModel, error) {
	return b.importer.ImportReader(name, r, isGLB)
}
