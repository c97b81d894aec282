package animator

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

// keyframeSpan finds the keyframes surrounding t. It returns the lower index, the upper index and
// the interpolation factor between them. Times outside the track clamp to the first or last key.
func keyframeSpan(count int, timeAt func(i int) float32, t float32) (int, int, float32) {
	if t <= timeAt(0) {
		return 0, 0, 0
	}
	last := count - 1
	if t >= timeAt(last) {
		return last, last, 0
	}

	hi := sort.Search(count, func(i int) bool { return timeAt(i) > t })
	lo := hi - 1
	span := timeAt(hi) - timeAt(lo)
	if span <= 0 {
		return lo, lo, 0
	}
	return lo, hi, (t - timeAt(lo)) / span
}

func sampleVector(keys []model.VectorKeyframe, t float32, interp model.Interpolation) ([3]float32, bool) {
	if len(keys) == 0 {
		return [3]float32{}, false
	}
	lo, hi, f := keyframeSpan(len(keys), func(i int) float32 { return keys[i].Time }, t)
	if lo == hi || interp == model.InterpolationStep {
		return keys[lo].Value, true
	}
	return common.Lerp3(keys[lo].Value, keys[hi].Value, f), true
}

func sampleQuaternion(keys []model.QuaternionKeyframe, t float32, interp model.Interpolation) ([4]float32, bool) {
	if len(keys) == 0 {
		return [4]float32{}, false
	}
	lo, hi, f := keyframeSpan(len(keys), func(i int) float32 { return keys[i].Time }, t)
	if lo == hi || interp == model.InterpolationStep {
		return keys[lo].Value, true
	}
	return common.QuatSlerp(keys[lo].Value, keys[hi].Value, f), true
}
