package loader

import (
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

// gltfAnimationExtractorImpl is the implementation of the gltfAnimationExtractor interface.
type gltfAnimationExtractorImpl struct {
	parser gltfParser
}

// gltfAnimationExtractor defines the interface for extracting animation data from a parsed glTF document.
// It converts glTF animation definitions into AnimationClip structs whose channels target nodes by
// their document index, which is also their index in model.Model.Nodes.
type gltfAnimationExtractor interface {
	// ExtractAnimation extracts a single animation by index.
	//
	// Parameters:
	//   - animIndex: the index of the animation in the document
	//
	// Returns:
	//   - *model.AnimationClip: the extracted animation clip
	//   - error: error if extraction fails
	ExtractAnimation(animIndex int) (*model.AnimationClip, error)

	// ExtractAllAnimations extracts every animation from the document.
	//
	// Returns:
	//   - []*model.AnimationClip: all extracted animation clips
	//   - error: error if extraction fails
	ExtractAllAnimations() ([]*model.AnimationClip, error)
}

var _ gltfAnimationExtractor = &gltfAnimationExtractorImpl{}

// newGLTFAnimationExtractor creates a new animation extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfAnimationExtractor: the animation extractor
func newGLTFAnimationExtractor(parser gltfParser) gltfAnimationExtractor {
	return &gltfAnimationExtractorImpl{parser: parser}
}

func (e *gltfAnimationExtractorImpl) ExtractAnimation(animIndex int) (*model.AnimationClip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}
	if animIndex < 0 || animIndex >= len(doc.Animations) {
		return nil, fmt.Errorf("animation index %d out of range", animIndex)
	}

	anim := &doc.Animations[animIndex]

	// translation, rotation and scale tracks of one node merge into a single channel
	channelMap := make(map[int32]*model.AnimationChannel)

	var maxTime float32

	for i := range anim.Channels {
		ch := &anim.Channels[i]

		if ch.Target.Node == nil || ch.Target.Path == gltfAnimPathWeights {
			continue
		}
		nodeIndex := *ch.Target.Node
		if nodeIndex < 0 || nodeIndex >= len(doc.Nodes) {
			return nil, fmt.Errorf("animation %q channel %d: node %d out of range", anim.Name, i, nodeIndex)
		}

		if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
			return nil, fmt.Errorf("animation %q channel %d: invalid sampler index %d", anim.Name, i, ch.Sampler)
		}
		sampler := &anim.Samplers[ch.Sampler]

		timestamps, err := e.parser.ReadScalarAccessor(sampler.Input)
		if err != nil {
			return nil, fmt.Errorf("animation %q channel %d: failed to read timestamps: %w", anim.Name, i, err)
		}
		if len(timestamps) > 0 {
			maxTime = max(maxTime, timestamps[len(timestamps)-1])
		}

		animCh, exists := channelMap[int32(nodeIndex)]
		if !exists {
			animCh = &model.AnimationChannel{TargetNode: int32(nodeIndex)}
			channelMap[int32(nodeIndex)] = animCh
		}
		if sampler.Interpolation == gltfAnimInterpolationStep {
			animCh.Interpolation = model.InterpolationStep
		}

		// cubic spline outputs are (in-tangent, value, out-tangent) triplets; only the value is kept
		cubic := sampler.Interpolation == gltfAnimInterpolationCubicSpline

		switch ch.Target.Path {
		case gltfAnimPathTranslation, gltfAnimPathScale:
			values, err := e.parser.ReadVec3Accessor(sampler.Output)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d: failed to read %s values: %w", anim.Name, i, ch.Target.Path, err)
			}
			values = gltfSplineValues(values, cubic)
			keys := make([]model.VectorKeyframe, min(len(timestamps), len(values)))
			for j := range keys {
				keys[j] = model.VectorKeyframe{Time: timestamps[j], Value: values[j]}
			}
			if ch.Target.Path == gltfAnimPathTranslation {
				animCh.PositionKeys = keys
			} else {
				animCh.ScaleKeys = keys
			}

		case gltfAnimPathRotation:
			values, err := e.parser.ReadVec4Accessor(sampler.Output)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d: failed to read rotation values: %w", anim.Name, i, err)
			}
			values = gltfSplineValues(values, cubic)
			keys := make([]model.QuaternionKeyframe, min(len(timestamps), len(values)))
			for j := range keys {
				keys[j] = model.QuaternionKeyframe{Time: timestamps[j], Value: values[j]}
			}
			animCh.RotationKeys = keys
		}
	}

	channels := make([]model.AnimationChannel, 0, len(channelMap))
	for _, ch := range channelMap {
		channels = append(channels, *ch)
	}
	sort.Slice(channels, func(a, b int) bool { return channels[a].TargetNode < channels[b].TargetNode })

	name := anim.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", animIndex)
	}

	return &model.AnimationClip{
		Name:     name,
		Duration: maxTime,
		Channels: channels,
	}, nil
}

func (e *gltfAnimationExtractorImpl) ExtractAllAnimations() ([]*model.AnimationClip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}

	clips := make([]*model.AnimationClip, len(doc.Animations))
	for i := range doc.Animations {
		clip, err := e.ExtractAnimation(i)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		clips[i] = clip
	}
	return clips, nil
}

// gltfSplineValues returns the keyframe values of a sampler output, dropping cubic spline tangents.
func gltfSplineValues[T any](values []T, cubic bool) []T {
	if !cubic {
		return values
	}
	out := make([]T, len(values)/3)
	for i := range out {
		out[i] = values[i*3+1]
	}
	return out
}
