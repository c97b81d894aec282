package scene

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-gltf/engine/host"
)

// Layer is one entry of the stage's scene stack: a map or a screen drawn over it.
type Layer interface {
	// Name returns the layer name.
	Name() string

	// IsMap reports whether the layer is a map Scene.
	IsMap() bool
}

// overlay is a non-map layer such as a menu or battle screen.
type overlay struct {
	name string
}

// NewOverlay creates a non-map layer. Pushing one over a map pauses animation on that map.
//
// Parameters:
//   - name: the layer name
//
// Returns:
//   - Layer: the overlay
func NewOverlay(name string) Layer {
	return &overlay{name: name}
}

func (o *overlay) Name() string { return o.name }

func (o *overlay) IsMap() bool { return false }

// stage is the implementation of the Stage interface.
type stage struct {
	mu     sync.RWMutex
	layers []Layer
}

// Stage defines the reference host's scene stack. Entity searches go to the current map, so a
// Stage can serve as the plugin's entity registry across map transfers.
type Stage interface {
	host.Stage
	host.EntityRegistry

	// Push places l on top of the stack.
	//
	// Parameters:
	//   - l: the layer to push
	Push(l Layer)

	// Pop removes and returns the top layer.
	//
	// Returns:
	//   - Layer: the removed layer, or nil if the stack is empty
	Pop() Layer

	// Replace swaps the bottom-most map for s, or pushes s when the stack holds no map.
	// This is how a map transfer looks to the plugin: a new map identity under the same stack.
	//
	// Parameters:
	//   - s: the new map
	Replace(s Scene)

	// Top returns the top layer, or nil.
	//
	// Returns:
	//   - Layer: the top layer
	Top() Layer

	// Depth returns the number of layers.
	//
	// Returns:
	//   - int: the stack depth
	Depth() int
}

var _ Stage = &stage{}

// NewStage creates a stage holding the given layers, bottom first.
//
// Parameters:
//   - layers: the initial stack
//
// Returns:
//   - Stage: the new stage
func NewStage(layers ...Layer) Stage {
	st := &stage{}
	for _, l := range layers {
		if l != nil {
			st.layers = append(st.layers, l)
		}
	}
	return st
}

func (st *stage) Push(l Layer) {
	if l == nil {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.layers = append(st.layers, l)
}

func (st *stage) Pop() Layer {
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.layers) == 0 {
		return nil
	}
	top := st.layers[len(st.layers)-1]
	st.layers[len(st.layers)-1] = nil
	st.layers = st.layers[:len(st.layers)-1]
	return top
}

func (st *stage) Replace(s Scene) {
	if s == nil {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	for i, l := range st.layers {
		if l.IsMap() {
			st.layers[i] = s
			return
		}
	}
	st.layers = append(st.layers, s)
}

func (st *stage) Top() Layer {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if len(st.layers) == 0 {
		return nil
	}
	return st.layers[len(st.layers)-1]
}

func (st *stage) Depth() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.layers)
}

func (st *stage) CurrentMap() host.MapScene {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for i := len(st.layers) - 1; i >= 0; i-- {
		if s, ok := st.layers[i].(Scene); ok {
			return s
		}
	}
	return nil
}

func (st *stage) Search(id int, inv host.Invocation) (host.Entity, bool) {
	cur, ok := st.CurrentMap().(Scene)
	if !ok {
		return nil, false
	}
	return cur.Search(id, inv)
}

func (st *stage) ActiveMap() host.MapScene {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if len(st.layers) == 0 {
		return nil
	}
	if s, ok := st.layers[len(st.layers)-1].(Scene); ok {
		return s
	}
	return nil
}
