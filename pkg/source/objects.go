package source

import "github.com/go-gl/mathgl/mgl64"

// Camera is a perspective camera attribute.
type Camera struct {
	Position         [3]float64
	UpVector         [3]float64
	InterestPosition [3]float64
	// FieldOfViewY is in degrees.
	FieldOfViewY float64
	NearPlane    float64
	FarPlane     float64
}

func (*Camera) AttributeType() AttributeType { return AttributeCamera }

// LightType is the emitter kind of a light.
type LightType int

const (
	LightPoint LightType = iota
	LightDirectional
	LightSpot
	LightArea
	LightVolume
)

func (t LightType) String() string {
	switch t {
	case LightPoint:
		return "point"
	case LightDirectional:
		return "directional"
	case LightSpot:
		return "spot"
	case LightArea:
		return "area"
	case LightVolume:
		return "volume"
	}
	return "unknown"
}

// Decay types of a light.
const (
	DecayNone      = 0
	DecayLinear    = 1
	DecayQuadratic = 2
	DecayCubic     = 3
)

// Light is a light attribute.
type Light struct {
	Type        LightType
	Color       [3]float64
	Intensity   float64
	DecayType   int
	CastShadows bool
	// Cone angles are in degrees.
	InnerAngle        float64
	OuterAngle        float64
	FarAttenuationEnd float64
}

func (*Light) AttributeType() AttributeType { return AttributeLight }

// NurbsCurve is a curve stored as consecutive (tangent-in, point, tangent-out)
// control point triples. The fourth component is the rational weight.
type NurbsCurve struct {
	ControlPoints [][4]float64
	Closed        bool
}

func (*NurbsCurve) AttributeType() AttributeType { return AttributeNurbsCurve }

// Skeleton marks a node as a bone.
type Skeleton struct {
	Root bool
}

func (*Skeleton) AttributeType() AttributeType { return AttributeSkeleton }

// PoseEntry overrides the transform of one node in a pose.
type PoseEntry struct {
	Node   *Node
	Matrix mgl64.Mat4
	// Local marks the matrix as relative to the parent node.
	Local bool
}

// Pose is a stored set of node transforms, typically the bind pose.
type Pose struct {
	Name     string
	BindPose bool
	Entries  []PoseEntry
}

// Find returns the entry for node n.
func (p *Pose) Find(n *Node) (PoseEntry, bool) {
	if p == nil {
		return PoseEntry{}, false
	}
	for _, e := range p.Entries {
		if e.Node == n {
			return e, true
		}
	}
	return PoseEntry{}, false
}
