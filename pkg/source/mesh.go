package source

// AttributeType is the category of object attached to a node.
type AttributeType int

const (
	AttributeMesh AttributeType = iota
	AttributeNurbsCurve
	AttributeCamera
	AttributeLight
	AttributeSkeleton
)

func (t AttributeType) String() string {
	switch t {
	case AttributeMesh:
		return "mesh"
	case AttributeNurbsCurve:
		return "nurbs_curve"
	case AttributeCamera:
		return "camera"
	case AttributeLight:
		return "light"
	case AttributeSkeleton:
		return "skeleton"
	}
	return "unknown"
}

// NodeAttribute is the object attached to a node. It is one of *Mesh,
// *NurbsCurve, *Camera, *Light or *Skeleton.
type NodeAttribute interface {
	AttributeType() AttributeType
}

// MappingMode says what a layer element value is attached to.
type MappingMode int

const (
	MappingNone MappingMode = iota
	MappingByControlPoint
	MappingByPolygonVertex
	MappingByPolygon
	MappingAllSame
)

// ReferenceMode says how a layer element value is looked up.
type ReferenceMode int

const (
	ReferenceDirect ReferenceMode = iota
	ReferenceIndexToDirect
)

// LayerElement is a per-vertex channel of a mesh: normals, colors or one UV set.
// Values are stored with up to four components; unused components are zero.
type LayerElement struct {
	Name      string
	Mapping   MappingMode
	Reference ReferenceMode
	Direct    [][4]float64
	Index     []int
}

// Resolve returns the value for control point cp, polygon poly and polygon
// vertex pv. It reports false when the mode cannot be resolved or an index
// is out of range.
func (e *LayerElement) Resolve(cp, poly, pv int) ([4]float64, bool) {
	if e == nil {
		return [4]float64{}, false
	}
	var i int
	switch e.Mapping {
	case MappingByControlPoint:
		i = cp
	case MappingByPolygonVertex:
		i = pv
	case MappingByPolygon:
		i = poly
	case MappingAllSame:
		i = 0
	default:
		return [4]float64{}, false
	}

	switch e.Reference {
	case ReferenceDirect:
	case ReferenceIndexToDirect:
		if i < 0 || i >= len(e.Index) {
			return [4]float64{}, false
		}
		i = e.Index[i]
	default:
		return [4]float64{}, false
	}

	if i < 0 || i >= len(e.Direct) {
		return [4]float64{}, false
	}
	return e.Direct[i], true
}

// Mesh is a polygon mesh. Each polygon lists control point indices; polygon
// vertices are numbered consecutively across all polygons.
type Mesh struct {
	Name          string
	ControlPoints [][3]float64
	Polygons      [][]int
	Normals       *LayerElement
	Colors        *LayerElement
	UVSets        []*LayerElement
	Skins         []*Skin
}

func (*Mesh) AttributeType() AttributeType { return AttributeMesh }

// PolygonVertexCount returns the total number of polygon corners.
func (m *Mesh) PolygonVertexCount() int {
	n := 0
	for _, p := range m.Polygons {
		n += len(p)
	}
	return n
}

// IsTriangleMesh reports whether every polygon is a triangle.
func (m *Mesh) IsTriangleMesh() bool {
	for _, p := range m.Polygons {
		if len(p) != 3 {
			return false
		}
	}
	return true
}

// UVSetNames returns the UV set names in declaration order.
func (m *Mesh) UVSetNames() []string {
	names := make([]string, len(m.UVSets))
	for i, uv := range m.UVSets {
		names[i] = uv.Name
	}
	return names
}

// Skin is a skin deformer bound to a mesh.
type Skin struct {
	Name     string
	Clusters []*Cluster
}

// Cluster is the set of control point influences of one joint.
type Cluster struct {
	Link    *Node
	Indices []int
	Weights []float64
}
