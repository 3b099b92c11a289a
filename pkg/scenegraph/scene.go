// Package scenegraph defines the normalized scene graph produced by a
// conversion: one Scene per animation take, holding a node tree with
// sampled keyframes, typed attributes and the meshes, materials, skins,
// cameras, lights and splines the nodes refer to.
package scenegraph

import "github.com/Faultbox/sceneconv/pkg/math"

// Scene is the converted form of one take.
type Scene struct {
	Modeller string
	Asset    string
	// SceneLength is in seconds.
	SceneLength float32
	NumFrames   int

	RootNode *Node

	Meshes           []*Mesh
	Materials        []*Material
	SkinBindings     []*SkinBinding
	Cameras          []*Camera
	Lights           []*Light
	Splines          []*Spline
	ExternalTextures []*TextureFile
}

// Walk calls fn for every node, depth first, starting at the root.
func (s *Scene) Walk(fn func(*Node)) {
	if s.RootNode != nil {
		s.RootNode.Walk(fn)
	}
}

// HasTexture reports whether t is already listed in ExternalTextures.
func (s *Scene) HasTexture(t *TextureFile) bool {
	for _, e := range s.ExternalTextures {
		if e == t {
			return true
		}
	}
	return false
}

// Node is one element of the converted hierarchy.
type Node struct {
	Name     string
	Bone     bool
	Selected bool
	Children []*Node

	// Keyframes holds 1, 2 or NumFrames+1 local transforms.
	Keyframes []math.Mat4
	Object    Object

	AttributeGroups     []*AttributeGroup
	Annotations         []Annotation
	LinearKeyFrameHints []float32
	UserProperties      string
}

// AddChild appends c to the children of n.
func (n *Node) AddChild(c *Node) {
	n.Children = append(n.Children, c)
}

// Find returns the first node named name in the subtree rooted at n.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

// Walk calls fn for n and every descendant, depth first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// AttributeGroup returns the named group, or nil.
func (n *Node) AttributeGroup(name string) *AttributeGroup {
	for _, g := range n.AttributeGroups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// Annotation is a named event on the take timeline.
type Annotation struct {
	// Time is in seconds relative to the take start.
	Time        float32
	Description string
}

// ObjectKind discriminates the objects a node can carry.
type ObjectKind int

const (
	ObjectMesh ObjectKind = iota
	ObjectSkinBinding
	ObjectCamera
	ObjectLight
	ObjectSpline
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectMesh:
		return "mesh"
	case ObjectSkinBinding:
		return "skin_binding"
	case ObjectCamera:
		return "camera"
	case ObjectLight:
		return "light"
	case ObjectSpline:
		return "spline"
	}
	return "unknown"
}

// Object is the variant attached to a node: *Mesh, *SkinBinding, *Camera,
// *Light or *Spline.
type Object interface {
	Kind() ObjectKind
}
