package model

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithRoot is an option builder that sets the root node of the Model's scene graph.
//
// Parameters:
//   - root: the root node
//
// Returns:
//   - ModelBuilderOption: a function that applies the root option to a model
func WithRoot(root *Node) ModelBuilderOption {
	return func(m *model) {
		m.root = root
	}
}

// WithNodes is an option builder that sets the indexed node list animation channels target.
//
// Parameters:
//   - nodes: the nodes, in the order channel TargetNode indices refer to
//
// Returns:
//   - ModelBuilderOption: a function that applies the nodes option to a model
func WithNodes(nodes []*Node) ModelBuilderOption {
	return func(m *model) {
		m.nodes = nodes
	}
}

// WithAnimations is an option builder that sets the animation clips of the Model.
//
// Parameters:
//   - animations: the animation clips to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the animations option to a model
func WithAnimations(animations []*AnimationClip) ModelBuilderOption {
	return func(m *model) {
		m.animations = animations
	}
}
