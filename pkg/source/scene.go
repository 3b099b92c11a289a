// Package source models the DCC scene a conversion reads from: a node
// hierarchy with typed, animatable properties, animation takes and layers,
// poses, and the meshes, materials, textures, cameras, lights and curves
// attached to nodes.
package source

// Scene is a loaded source scene. Materials and textures are shared by
// pointer; identity is the pointer.
type Scene struct {
	Root  *Node
	Takes []*Take
	Poses []*Pose

	// FrameRate is in frames per second.
	FrameRate float64
	// UnitScale is centimetres per scene unit.
	UnitScale float64

	Application      string
	OriginalFileName string

	Materials []*Material
	Textures  []*Texture
}

// DefaultFrameRate is used when a scene does not declare one.
const DefaultFrameRate = 30.0

// NewScene returns an empty scene with a root node.
func NewScene() *Scene {
	return &Scene{
		Root:      NewNode("RootNode"),
		FrameRate: DefaultFrameRate,
		UnitScale: 1,
	}
}

// BindPose returns the first pose flagged as a bind pose, else the first pose.
func (s *Scene) BindPose() *Pose {
	for _, p := range s.Poses {
		if p.BindPose {
			return p
		}
	}
	if len(s.Poses) > 0 {
		return s.Poses[0]
	}
	return nil
}

// Take returns the named take, or nil.
func (s *Scene) Take(name string) *Take {
	for _, t := range s.Takes {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// HasSkeleton reports whether any node carries a skeleton attribute.
func (s *Scene) HasSkeleton() bool {
	found := false
	if s.Root == nil {
		return false
	}
	s.Root.Walk(func(n *Node) {
		if _, ok := n.Attribute.(*Skeleton); ok {
			found = true
		}
	})
	return found
}

// Material returns the named material, or nil.
func (s *Scene) Material(name string) *Material {
	for _, m := range s.Materials {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Texture returns the named texture, or nil.
func (s *Scene) Texture(name string) *Texture {
	for _, t := range s.Textures {
		if t.Name == name {
			return t
		}
	}
	return nil
}
