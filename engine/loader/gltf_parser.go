package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"net/url"
	"path"
	"strings"
)

// Common errors returned by the parser
var (
	errInvalidGLTFVersion = errors.New("invalid glTF version: must be 2.0")
	errInvalidGLBMagic    = errors.New("invalid GLB magic number")
	errInvalidGLBVersion  = errors.New("invalid GLB version: must be 2")
	errMissingJSONChunk   = errors.New("GLB file missing JSON chunk")
	errInvalidBufferURI   = errors.New("invalid buffer URI")
	errBufferSizeMismatch = errors.New("buffer size mismatch")
	errNoDocument         = errors.New("no document loaded")
	errAccessorOutOfRange = errors.New("accessor reads past the end of its buffer")
)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct {
	fsys           fs.FS
	dir            string
	document       *gltfDocument
	glbBinaryChunk []byte
}

// gltfParser defines the interface for loading and parsing glTF/GLB files.
// It handles file I/O, JSON deserialization, buffer loading, and typed accessor reads.
// All file access goes through an fs.FS so models can be served from a directory, an
// embedded filesystem, or an in-memory fixture.
type gltfParser interface {
	// Parse loads and parses a glTF/GLB file from the given slash-separated path within the
	// parser's filesystem. GLB is detected by extension or by its magic number.
	//
	// Parameters:
	//   - name: path to the glTF or GLB file inside the filesystem
	//
	// Returns:
	//   - error: error if parsing fails
	Parse(name string) error

	// ParseReader parses a glTF document from a reader. Relative URIs resolve against the
	// filesystem root.
	//
	// Parameters:
	//   - r: reader containing glTF JSON or GLB data
	//   - isGLB: true if the data is in GLB format
	//
	// Returns:
	//   - error: error if parsing fails
	ParseReader(r io.Reader, isGLB bool) error

	// Document returns the parsed glTF document, or nil before a successful parse.
	//
	// Returns:
	//   - *gltfDocument: the parsed document or nil
	Document() *gltfDocument

	// ReadFile reads a resource referenced by a relative URI of the document.
	//
	// Parameters:
	//   - uri: the (possibly percent-encoded) relative URI
	//
	// Returns:
	//   - []byte: the file contents
	//   - error: error if the file cannot be read
	ReadFile(uri string) ([]byte, error)

	// ReadBufferView returns the bytes covered by a buffer view.
	//
	// Parameters:
	//   - index: the buffer view index
	//
	// Returns:
	//   - []byte: the view's bytes (aliasing the buffer)
	//   - error: error if the view is out of range
	ReadBufferView(index int) ([]byte, error)

	// ReadVec2Accessor reads an accessor as vec2 float data.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - [][2]float32: the vec2 data
	//   - error: error if reading fails
	ReadVec2Accessor(accessorIndex int) ([][2]float32, error)

	// ReadVec3Accessor reads an accessor as vec3 float data.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - [][3]float32: the vec3 data
	//   - error: error if reading fails
	ReadVec3Accessor(accessorIndex int) ([][3]float32, error)

	// ReadVec4Accessor reads an accessor as vec4 float data.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - [][4]float32: the vec4 data
	//   - error: error if reading fails
	ReadVec4Accessor(accessorIndex int) ([][4]float32, error)

	// ReadScalarAccessor reads an accessor as scalar float data.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - []float32: the scalar data
	//   - error: error if reading fails
	ReadScalarAccessor(accessorIndex int) ([]float32, error)

	// ReadColorAccessor reads a COLOR_n accessor as RGBA. VEC3 colors get an alpha of 1;
	// normalized unsigned byte and short components are scaled into [0, 1].
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - [][4]float32: the colors
	//   - error: error if reading fails
	ReadColorAccessor(accessorIndex int) ([][4]float32, error)

	// ReadIndicesAccessor reads an accessor as index data (uint32).
	// Handles UNSIGNED_BYTE, UNSIGNED_SHORT, and UNSIGNED_INT component types.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - []uint32: the index data (converted to uint32)
	//   - error: error if reading fails
	ReadIndicesAccessor(accessorIndex int) ([]uint32, error)
}

var _ gltfParser = &gltfParserImpl{}

// newGLTFParser creates a new glTF parser reading from fsys.
//
// Parameters:
//   - fsys: the filesystem model files and their external resources live in
//
// Returns:
//   - gltfParser: a new parser instance
func newGLTFParser(fsys fs.FS) gltfParser {
	return &gltfParserImpl{fsys: fsys, dir: "."}
}

func (p *gltfParserImpl) Document() *gltfDocument {
	return p.document
}

func (p *gltfParserImpl) Parse(name string) error {
	p.dir = path.Dir(name)

	data, err := fs.ReadFile(p.fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if strings.EqualFold(path.Ext(name), ".glb") || (len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == gltfGLBMagic) {
		return p.parseGLB(data)
	}
	return p.parseGLTF(data)
}

func (p *gltfParserImpl) ParseReader(r io.Reader, isGLB bool) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}

	if isGLB {
		return p.parseGLB(data)
	}
	return p.parseGLTF(data)
}

func (p *gltfParserImpl) ReadFile(uri string) ([]byte, error) {
	if p.fsys == nil {
		return nil, fmt.Errorf("external resource %q: no filesystem", uri)
	}
	unescaped, err := url.PathUnescape(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errInvalidBufferURI, uri)
	}
	return fs.ReadFile(p.fsys, path.Join(p.dir, unescaped))
}

// parseGLTF parses a glTF JSON file.
func (p *gltfParserImpl) parseGLTF(data []byte) error {
	return p.decodeDocument(data)
}

// parseGLB parses a GLB binary file.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
func (p *gltfParserImpl) parseGLB(data []byte) error {
	if len(data) < 12 {
		return errors.New("GLB file too small")
	}

	r := bytes.NewReader(data)

	var header gltfGLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to read GLB header: %w", err)
	}
	if header.Magic != gltfGLBMagic {
		return errInvalidGLBMagic
	}
	if header.Version != gltfGLBVersion {
		return errInvalidGLBVersion
	}

	var jsonData []byte
	for {
		var chunkHeader gltfGLBChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunkHeader); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read chunk header: %w", err)
		}
		if int64(chunkHeader.ChunkLength) > int64(r.Len()) {
			return fmt.Errorf("chunk length %d exceeds remaining %d bytes", chunkHeader.ChunkLength, r.Len())
		}

		chunkData := make([]byte, chunkHeader.ChunkLength)
		if _, err := io.ReadFull(r, chunkData); err != nil {
			return fmt.Errorf("failed to read chunk data: %w", err)
		}

		switch chunkHeader.ChunkType {
		case gltfGLBChunkJSON:
			jsonData = chunkData
		case gltfGLBChunkBIN:
			p.glbBinaryChunk = chunkData
		}
	}

	if jsonData == nil {
		return errMissingJSONChunk
	}
	return p.decodeDocument(jsonData)
}

// decodeDocument unmarshals the JSON document, checks its version and loads its buffers.
func (p *gltfParserImpl) decodeDocument(jsonData []byte) error {
	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return errInvalidGLTFVersion
	}
	if err := p.loadBuffers(&doc); err != nil {
		return fmt.Errorf("failed to load buffers: %w", err)
	}

	p.document = &doc
	return nil
}

// loadBuffers loads all buffer data (from URIs, embedded data, or GLB binary chunk).
func (p *gltfParserImpl) loadBuffers(doc *gltfDocument) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]

		switch {
		case buf.URI == "" && i == 0 && p.glbBinaryChunk != nil:
			buf.Data = p.glbBinaryChunk
		case buf.URI == "":
			return fmt.Errorf("buffer %d has no URI and no GLB binary chunk", i)
		case strings.HasPrefix(buf.URI, "data:"):
			data, err := gltfDecodeDataURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.Data = data
		default:
			data, err := p.ReadFile(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: failed to load %q: %w", i, buf.URI, err)
			}
			buf.Data = data
		}

		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, errBufferSizeMismatch)
		}
	}
	return nil
}

// gltfDecodeDataURI decodes a base64 data URI.
// Format: data:[<mediatype>][;base64],<data>
func gltfDecodeDataURI(uri string) ([]byte, error) {
	commaIdx := strings.Index(uri, ",")
	if commaIdx < 0 {
		return nil, errInvalidBufferURI
	}

	header := uri[5:commaIdx]
	if !strings.HasSuffix(header, ";base64") && header != "base64" {
		return nil, fmt.Errorf("unsupported data URI encoding: %s", header)
	}

	data, err := base64.StdEncoding.DecodeString(uri[commaIdx+1:])
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return data, nil
}

// gltfDataURIMimeType returns the media type of a data URI, or "".
func gltfDataURIMimeType(uri string) string {
	header, _, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return ""
	}
	mime, _, _ := strings.Cut(header, ";")
	return mime
}

// --- Accessor Data Reading ---

func (p *gltfParserImpl) ReadBufferView(index int) ([]byte, error) {
	if p.document == nil {
		return nil, errNoDocument
	}
	if index < 0 || index >= len(p.document.BufferViews) {
		return nil, fmt.Errorf("buffer view index %d out of range", index)
	}
	bv := &p.document.BufferViews[index]
	if bv.Buffer < 0 || bv.Buffer >= len(p.document.Buffers) {
		return nil, fmt.Errorf("buffer view %d references buffer %d out of range", index, bv.Buffer)
	}
	data := p.document.Buffers[bv.Buffer].Data
	end := bv.ByteOffset + bv.ByteLength
	if bv.ByteOffset < 0 || end > len(data) {
		return nil, fmt.Errorf("buffer view %d: %w", index, errAccessorOutOfRange)
	}
	return data[bv.ByteOffset:end], nil
}

// accessor returns the accessor at index after validating it can be read.
func (p *gltfParserImpl) accessor(index int) (*gltfAccessor, error) {
	if p.document == nil {
		return nil, errNoDocument
	}
	if index < 0 || index >= len(p.document.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", index)
	}
	acc := &p.document.Accessors[index]
	if acc.Sparse != nil {
		return nil, errors.New("sparse accessors not supported")
	}
	if acc.BufferView == nil {
		return nil, errors.New("accessor has no bufferView")
	}
	return acc, nil
}

// readElements de-interleaves an accessor into tightly packed elements.
func (p *gltfParserImpl) readElements(acc *gltfAccessor) ([]byte, error) {
	view, err := p.ReadBufferView(*acc.BufferView)
	if err != nil {
		return nil, err
	}
	bv := &p.document.BufferViews[*acc.BufferView]

	elementSize := gltfComponentTypeSize(acc.ComponentType) * gltfAccessorTypeComponentCount(acc.Type)
	if elementSize == 0 {
		return nil, fmt.Errorf("unsupported accessor layout: type=%s, componentType=%d", acc.Type, acc.ComponentType)
	}
	stride := elementSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}

	if acc.Count > 0 {
		last := acc.ByteOffset + (acc.Count-1)*stride + elementSize
		if acc.ByteOffset < 0 || last > len(view) {
			return nil, errAccessorOutOfRange
		}
	}

	result := make([]byte, acc.Count*elementSize)
	for i := 0; i < acc.Count; i++ {
		src := acc.ByteOffset + i*stride
		copy(result[i*elementSize:(i+1)*elementSize], view[src:src+elementSize])
	}
	return result, nil
}

// readFloats reads an accessor of the given type as float32 components, applying glTF
// normalization rules to integer components. Integer accessors are rejected unless they are
// flagged normalized or forceNormalized is set.
func (p *gltfParserImpl) readFloats(accessorIndex int, accessorType string, forceNormalized bool) ([]float32, error) {
	acc, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != accessorType {
		return nil, fmt.Errorf("accessor is not %s: type=%s", accessorType, acc.Type)
	}
	if acc.ComponentType != gltfComponentTypeFloat && !acc.Normalized && !forceNormalized {
		return nil, fmt.Errorf("accessor is not FLOAT or normalized: componentType=%d", acc.ComponentType)
	}

	data, err := p.readElements(acc)
	if err != nil {
		return nil, err
	}

	n := acc.Count * gltfAccessorTypeComponentCount(acc.Type)
	out := make([]float32, n)
	switch acc.ComponentType {
	case gltfComponentTypeFloat:
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		}
	case gltfComponentTypeUnsignedByte:
		for i := range out {
			out[i] = float32(data[i]) / 255
		}
	case gltfComponentTypeByte:
		for i := range out {
			out[i] = max(float32(int8(data[i]))/127, -1)
		}
	case gltfComponentTypeUnsignedShort:
		for i := range out {
			out[i] = float32(binary.LittleEndian.Uint16(data[i*2:])) / 65535
		}
	case gltfComponentTypeShort:
		for i := range out {
			out[i] = max(float32(int16(binary.LittleEndian.Uint16(data[i*2:])))/32767, -1)
		}
	default:
		return nil, fmt.Errorf("unsupported normalized componentType=%d", acc.ComponentType)
	}
	return out, nil
}

func (p *gltfParserImpl) ReadVec2Accessor(accessorIndex int) ([][2]float32, error) {
	flat, err := p.readFloats(accessorIndex, gltfAccessorTypeVec2, false)
	if err != nil {
		return nil, err
	}
	result := make([][2]float32, len(flat)/2)
	for i := range result {
		copy(result[i][:], flat[i*2:])
	}
	return result, nil
}

func (p *gltfParserImpl) ReadVec3Accessor(accessorIndex int) ([][3]float32, error) {
	flat, err := p.readFloats(accessorIndex, gltfAccessorTypeVec3, false)
	if err != nil {
		return nil, err
	}
	result := make([][3]float32, len(flat)/3)
	for i := range result {
		copy(result[i][:], flat[i*3:])
	}
	return result, nil
}

func (p *gltfParserImpl) ReadVec4Accessor(accessorIndex int) ([][4]float32, error) {
	flat, err := p.readFloats(accessorIndex, gltfAccessorTypeVec4, false)
	if err != nil {
		return nil, err
	}
	result := make([][4]float32, len(flat)/4)
	for i := range result {
		copy(result[i][:], flat[i*4:])
	}
	return result, nil
}

func (p *gltfParserImpl) ReadScalarAccessor(accessorIndex int) ([]float32, error) {
	return p.readFloats(accessorIndex, gltfAccessorTypeScalar, false)
}

func (p *gltfParserImpl) ReadColorAccessor(accessorIndex int) ([][4]float32, error) {
	acc, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}

	width := gltfAccessorTypeComponentCount(acc.Type)
	if acc.Type != gltfAccessorTypeVec3 && acc.Type != gltfAccessorTypeVec4 {
		return nil, fmt.Errorf("unsupported color format: type=%s, componentType=%d", acc.Type, acc.ComponentType)
	}

	// integer color components are normalized even when the flag is omitted
	flat, err := p.readFloats(accessorIndex, acc.Type, true)
	if err != nil {
		return nil, err
	}
	result := make([][4]float32, len(flat)/width)
	for i := range result {
		result[i] = [4]float32{0, 0, 0, 1}
		copy(result[i][:width], flat[i*width:])
	}
	return result, nil
}

func (p *gltfParserImpl) ReadIndicesAccessor(accessorIndex int) ([]uint32, error) {
	acc, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltfAccessorTypeScalar {
		return nil, fmt.Errorf("index accessor is not SCALAR: type=%s", acc.Type)
	}

	data, err := p.readElements(acc)
	if err != nil {
		return nil, err
	}

	result := make([]uint32, acc.Count)
	switch acc.ComponentType {
	case gltfComponentTypeUnsignedByte:
		for i := range result {
			result[i] = uint32(data[i])
		}
	case gltfComponentTypeUnsignedShort:
		for i := range result {
			result[i] = uint32(binary.LittleEndian.Uint16(data[i*2:]))
		}
	case gltfComponentTypeUnsignedInt:
		for i := range result {
			result[i] = binary.LittleEndian.Uint32(data[i*4:])
		}
	default:
		return nil, fmt.Errorf("unsupported index component type: %d", acc.ComponentType)
	}
	return result, nil
}

// --- Helper Functions ---

// gltfComponentTypeSize returns the byte size of a component type.
func gltfComponentTypeSize(componentType int) int {
	switch componentType {
	case gltfComponentTypeByte, gltfComponentTypeUnsignedByte:
		return 1
	case gltfComponentTypeShort, gltfComponentTypeUnsignedShort:
		return 2
	case gltfComponentTypeUnsignedInt, gltfComponentTypeFloat:
		return 4
	default:
		return 0
	}
}

// gltfAccessorTypeComponentCount returns the number of components for an accessor type.
func gltfAccessorTypeComponentCount(accessorType string) int {
	switch accessorType {
	case gltfAccessorTypeScalar:
		return 1
	case gltfAccessorTypeVec2:
		return 2
	case gltfAccessorTypeVec3:
		return 3
	case gltfAccessorTypeVec4, gltfAccessorTypeMat2:
		return 4
	case gltfAccessorTypeMat3:
		return 9
	case gltfAccessorTypeMat4:
		return 16
	default:
		return 0
	}
}
