package scene

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-gltf/engine/game_object"
	"github.com/Carmen-Shannon/oxy-gltf/engine/host"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"go.uber.org/zap"
)

// scene is the implementation of the Scene interface.
type scene struct {
	mu  *sync.RWMutex
	log *zap.Logger

	name    string
	loading bool

	root *model.Node

	registry map[int]game_object.GameObject
	nextID   int
}

// Scene defines the in-memory map used as the reference host. A Scene is both the map the plugin
// attaches wrappers to and the registry entities are searched in.
//
// Identifier 0 always resolves to the hero, whatever its own identifier is.
type Scene interface {
	Layer
	host.MapScene
	host.EntityRegistry

	// SetLoading marks the map as loading or ready.
	//
	// Parameters:
	//   - loading: true while the map is loading
	SetLoading(loading bool)

	// Root returns the scene graph node every wrapper is attached under.
	//
	// Returns:
	//   - *model.Node: the root node
	Root() *model.Node

	// AddObject registers obj with the map and attaches its wrapper to the scene graph.
	// Objects without an identifier are assigned the next free one.
	//
	// Parameters:
	//   - obj: the object to register
	//
	// Returns:
	//   - int: the object's identifier
	AddObject(obj game_object.GameObject) int

	// Get retrieves the object registered under id.
	//
	// Parameters:
	//   - id: the object identifier; 0 resolves to the hero
	//
	// Returns:
	//   - game_object.GameObject: the object, or nil if not found
	Get(id int) game_object.GameObject

	// Hero returns the object marked as hero, or nil.
	//
	// Returns:
	//   - game_object.GameObject: the hero
	Hero() game_object.GameObject

	// RemoveObject unregisters the object with the given identifier and detaches its wrapper.
	//
	// Parameters:
	//   - id: the object identifier
	RemoveObject(id int)

	// Objects returns the registered objects ordered by identifier.
	//
	// Returns:
	//   - []game_object.GameObject: the objects
	Objects() []game_object.GameObject

	// Count returns the number of registered objects.
	//
	// Returns:
	//   - int: the object count
	Count() int

	// Clear unregisters every object and empties the scene graph.
	Clear()
}

var _ Scene = &scene{}

// NewScene creates a new, ready map with an empty scene graph.
//
// Parameters:
//   - name: the name of the map
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:       &sync.RWMutex{},
		log:      zap.NewNop(),
		name:     name,
		root:     model.NewNode(name),
		registry: make(map[int]game_object.GameObject),
		nextID:   1,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) IsMap() bool {
	return true
}

func (s *scene) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *scene) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

func (s *scene) Root() *model.Node {
	return s.root
}

func (s *scene) Add(n *model.Node) {
	if n == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root.Add(n)
}

func (s *scene) Remove(n *model.Node) {
	if n == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root.Remove(n)
}

func (s *scene) AddObject(obj game_object.GameObject) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addObject(obj)
}

// addObject registers obj. Caller must hold s.mu write lock.
func (s *scene) addObject(obj game_object.GameObject) int {
	if obj == nil {
		panic("scene: cannot add a nil GameObject")
	}
	id := obj.ID()
	if id <= 0 {
		id = s.nextID
		obj.SetID(id)
	}
	s.nextID = max(s.nextID, id+1)

	if old, exists := s.registry[id]; exists && old != obj {
		s.log.Warn("replacing object with duplicate id", zap.Int("entity", id))
		s.root.Remove(old.Wrapper())
	}
	s.registry[id] = obj
	if w := obj.Wrapper(); w != nil {
		s.root.Add(w)
	}
	return id
}

func (s *scene) Get(id int) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(id)
}

// lookup resolves id, mapping 0 to the hero. Caller must hold s.mu.
func (s *scene) lookup(id int) game_object.GameObject {
	if id == 0 {
		return s.hero()
	}
	return s.registry[id]
}

func (s *scene) Hero() game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hero()
}

func (s *scene) hero() game_object.GameObject {
	for _, obj := range s.registry {
		if obj.IsHero() {
			return obj
		}
	}
	return nil
}

func (s *scene) Search(id int, inv host.Invocation) (host.Entity, bool) {
	resolved, ok := inv.Resolve(id)
	if !ok {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj := s.lookup(resolved)
	if obj == nil {
		return nil, false
	}
	return obj, true
}

func (s *scene) RemoveObject(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, exists := s.registry[id]
	if !exists {
		return
	}
	delete(s.registry, id)
	if w := obj.Wrapper(); w != nil {
		s.root.Remove(w)
	}
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int, 0, len(s.registry))
	for id := range s.registry {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]game_object.GameObject, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.registry[id])
	}
	return out
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, child := range s.root.Children() {
		s.root.Remove(child)
	}
	s.registry = make(map[int]game_object.GameObject)
	s.nextID = 1
}
