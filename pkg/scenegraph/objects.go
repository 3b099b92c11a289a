package scenegraph

// Camera is a perspective camera.
type Camera struct {
	From  [3]float32
	Up    [3]float32
	Focus [3]float32
	// FOV is the vertical field of view in radians.
	FOV        float32
	Near       float32
	Far        float32
	LeftHanded bool
}

func (*Camera) Kind() ObjectKind { return ObjectCamera }

// LightType is the emitter kind of a light.
type LightType int

const (
	LightPoint LightType = iota
	LightDirectional
	LightSpot
)

func (t LightType) String() string {
	switch t {
	case LightPoint:
		return "point"
	case LightDirectional:
		return "directional"
	case LightSpot:
		return "spot"
	}
	return "unknown"
}

// Light is a scene light.
type Light struct {
	Type      LightType
	Position  [3]float32
	Direction [3]float32
	// Color is packed ARGB.
	Color     uint32
	Intensity float32
	DecayRate int
	Range     float32
	// Angle is the spot cone angle in radians.
	Angle        float32
	FadeStart    float32
	FadeEnd      float32
	ShadowCaster bool
}

func (*Light) Kind() ObjectKind { return ObjectLight }

// TangentType is the interpolation kind of a spline tangent.
type TangentType int

const (
	TangentCustom TangentType = iota
	TangentAuto
)

// ControlPoint is one point of a spline with its tangents.
type ControlPoint struct {
	Position   [3]float32
	TangentIn  [3]float32
	TangentOut [3]float32
	InType     TangentType
	OutType    TangentType
}

// Spline is a piecewise cubic curve.
type Spline struct {
	IsClosed      bool
	ControlPoints []ControlPoint
}

func (*Spline) Kind() ObjectKind { return ObjectSpline }
