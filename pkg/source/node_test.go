package source

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func matNear(a, b mgl64.Mat4) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode("hip")
	if !n.Visible || n.Selected {
		t.Errorf("flags: visible=%v selected=%v", n.Visible, n.Selected)
	}
	if !matNear(n.LocalTransform(nil, 0), mgl64.Ident4()) {
		t.Errorf("expected identity, got %v", n.LocalTransform(nil, 0))
	}
	if !matNear(n.GeometricTransform(), mgl64.Ident4()) {
		t.Error("expected identity geometric transform")
	}
}

func TestLocalTransformOrder(t *testing.T) {
	n := NewNode("n")
	n.Property(LclTranslation).Values = []float64{1, 2, 3}
	n.Property(LclRotation).Values = []float64{0, 90, 0}
	n.Property(LclScaling).Values = []float64{2, 2, 2}

	got := n.LocalTransform(nil, 0)
	want := mgl64.Translate3D(1, 2, 3).
		Mul4(mgl64.HomogRotate3DY(math.Pi / 2)).
		Mul4(mgl64.Scale3D(2, 2, 2))
	if !matNear(got, want) {
		t.Errorf("LocalTransform:\n got %v\nwant %v", got, want)
	}

	// X axis (scaled by 2) points down -Z after a 90 degree Y rotation.
	p := got.Mul4x1(mgl64.Vec4{1, 0, 0, 1})
	if math.Abs(p[0]-1) > 1e-9 || math.Abs(p[2]-1) > 1e-9 {
		t.Errorf("transformed point: got %v, want (1, 2, 1)", p)
	}
}

func TestEulerXYZComposition(t *testing.T) {
	n := NewNode("n")
	n.Property(LclRotation).Values = []float64{90, 0, 90}

	want := mgl64.HomogRotate3DZ(math.Pi / 2).Mul4(mgl64.HomogRotate3DX(math.Pi / 2))
	if got := n.LocalTransform(nil, 0); !matNear(got, want) {
		t.Errorf("expected Rz*Rx, got %v", got)
	}
}

func TestGlobalTransform(t *testing.T) {
	root := NewNode("root")
	root.Property(LclTranslation).Values = []float64{10, 0, 0}
	child := NewNode("child")
	child.Property(LclTranslation).Values = []float64{0, 5, 0}
	root.AddChild(child)

	g := child.GlobalTransform(nil, 0)
	if !matNear(g, mgl64.Translate3D(10, 5, 0)) {
		t.Errorf("GlobalTransform: got %v", g)
	}
	if child.Parent != root {
		t.Error("AddChild should set the parent")
	}
}

func TestAnimatedLocalTransform(t *testing.T) {
	take := &Take{Name: "walk", Layers: []*Layer{{Name: "Base"}}}
	n := NewNode("n")
	n.Property(LclTranslation).SetCurveNode(take.Layers[0], &CurveNode{Channels: []Channel{
		{Name: "X", Curve: NewCurve(Key{Time: 0, Value: 0}, Key{Time: TicksPerSecond, Value: 4})},
	}})

	m := n.LocalTransform(take.Layers, TicksPerSecond/2)
	if math.Abs(m[12]-2) > 1e-9 {
		t.Errorf("translation X at half time: got %v, want 2", m[12])
	}
	if m := n.LocalTransform(nil, TicksPerSecond/2); m[12] != 0 {
		t.Errorf("without layers the static value applies, got %v", m[12])
	}
}

func TestGeometricTransform(t *testing.T) {
	n := NewNode("mesh")
	n.GeometricTranslation = [3]float64{0, 1, 0}
	n.GeometricScaling = [3]float64{3, 3, 3}

	want := mgl64.Translate3D(0, 1, 0).Mul4(mgl64.Scale3D(3, 3, 3))
	if !matNear(n.GeometricTransform(), want) {
		t.Errorf("GeometricTransform: got %v", n.GeometricTransform())
	}
}

func TestFindAndWalk(t *testing.T) {
	root := NewNode("root")
	a := NewNode("a")
	b := NewNode("b")
	root.AddChild(a)
	a.AddChild(b)

	if root.Find("b") != b || root.Find("zzz") != nil {
		t.Error("Find returned the wrong node")
	}

	var order []string
	root.Walk(func(n *Node) { order = append(order, n.Name) })
	if len(order) != 3 || order[0] != "root" || order[2] != "b" {
		t.Errorf("Walk order: %v", order)
	}
}

func TestSetProperty(t *testing.T) {
	n := NewNode("n")
	before := len(n.Properties)
	n.SetProperty(NewProperty(LclScaling, PropertyVector3, 2, 2, 2))
	n.SetProperty(NewProperty("hkType_Foo", PropertyString))

	if len(n.Properties) != before+1 {
		t.Errorf("expected one new property, got %d", len(n.Properties)-before)
	}
	if n.Property(LclScaling).Value(0) != 2 {
		t.Error("SetProperty should replace an existing property")
	}
}
