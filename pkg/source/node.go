package source

import "github.com/go-gl/mathgl/mgl64"

// Transform property names.
const (
	LclTranslation = "Lcl Translation"
	LclRotation    = "Lcl Rotation"
	LclScaling     = "Lcl Scaling"
)

// Component channel names of vector curve nodes.
var AxisChannels = [3]string{"X", "Y", "Z"}

// Node is one element of the source hierarchy.
type Node struct {
	Name       string
	Visible    bool
	Selected   bool
	Parent     *Node
	Children   []*Node
	Properties PropertySet
	Attribute  NodeAttribute
	Materials  []*Material

	// Geometric offset applied to the attached object only. Rotation is
	// xyz Euler in degrees.
	GeometricTranslation [3]float64
	GeometricRotation    [3]float64
	GeometricScaling     [3]float64
}

// NewNode returns a visible node at the identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:    name,
		Visible: true,
		Properties: PropertySet{
			NewProperty(LclTranslation, PropertyVector3, 0, 0, 0),
			NewProperty(LclRotation, PropertyVector3, 0, 0, 0),
			NewProperty(LclScaling, PropertyVector3, 1, 1, 1),
		},
		GeometricScaling: [3]float64{1, 1, 1},
	}
}

// AddChild appends c to the children of n.
func (n *Node) AddChild(c *Node) {
	c.Parent = n
	n.Children = append(n.Children, c)
}

// Property returns the named property, or nil.
func (n *Node) Property(name string) *Property {
	return n.Properties.Find(name)
}

// SetProperty replaces the property with the same name or appends p.
func (n *Node) SetProperty(p *Property) {
	for i, q := range n.Properties {
		if q.Name == p.Name {
			n.Properties[i] = p
			return
		}
	}
	n.Properties = append(n.Properties, p)
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

func (n *Node) vector(layers []*Layer, name string, t Time, def float64) mgl64.Vec3 {
	p := n.Property(name)
	if p == nil {
		return mgl64.Vec3{def, def, def}
	}
	return mgl64.Vec3{p.Evaluate(layers, 0, t), p.Evaluate(layers, 1, t), p.Evaluate(layers, 2, t)}
}

// LocalTransform evaluates translation, rotation and scaling at t on the
// given layers and returns T * R * S.
func (n *Node) LocalTransform(layers []*Layer, t Time) mgl64.Mat4 {
	tr := n.vector(layers, LclTranslation, t, 0)
	rot := n.vector(layers, LclRotation, t, 0)
	sc := n.vector(layers, LclScaling, t, 1)
	return compose(tr, rot, sc)
}

// GlobalTransform returns the local transform composed with every ancestor.
func (n *Node) GlobalTransform(layers []*Layer, t Time) mgl64.Mat4 {
	m := n.LocalTransform(layers, t)
	for p := n.Parent; p != nil; p = p.Parent {
		m = p.LocalTransform(layers, t).Mul4(m)
	}
	return m
}

// GeometricTransform returns the non-inherited offset of the attached object.
func (n *Node) GeometricTransform() mgl64.Mat4 {
	return compose(n.GeometricTranslation, n.GeometricRotation, n.GeometricScaling)
}

func compose(t, r, s mgl64.Vec3) mgl64.Mat4 {
	rx := mgl64.HomogRotate3DX(mgl64.DegToRad(r[0]))
	ry := mgl64.HomogRotate3DY(mgl64.DegToRad(r[1]))
	rz := mgl64.HomogRotate3DZ(mgl64.DegToRad(r[2]))
	rot := rz.Mul4(ry).Mul4(rx)
	return mgl64.Translate3D(t[0], t[1], t[2]).Mul4(rot).Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
}
