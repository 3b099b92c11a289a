package source

// PropertyType is the data kind of a node or material property.
type PropertyType int

const (
	PropertyUnknown PropertyType = iota
	PropertyBool
	PropertyInt
	PropertyEnum
	PropertyFloat
	PropertyDouble
	PropertyDistance
	PropertyVector2
	PropertyVector3
	PropertyVector4
	PropertyColor3
	PropertyColor4
	PropertyMatrix
	PropertyString
	PropertyTime
	PropertyDateTime
	PropertyReference
	PropertyBlob
)

var propertyTypeNames = map[PropertyType]string{
	PropertyUnknown:   "unknown",
	PropertyBool:      "bool",
	PropertyInt:       "int",
	PropertyEnum:      "enum",
	PropertyFloat:     "float",
	PropertyDouble:    "double",
	PropertyDistance:  "distance",
	PropertyVector2:   "vector2",
	PropertyVector3:   "vector3",
	PropertyVector4:   "vector4",
	PropertyColor3:    "color3",
	PropertyColor4:    "color4",
	PropertyMatrix:    "matrix",
	PropertyString:    "string",
	PropertyTime:      "time",
	PropertyDateTime:  "datetime",
	PropertyReference: "reference",
	PropertyBlob:      "blob",
}

func (t PropertyType) String() string {
	if s, ok := propertyTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParsePropertyType maps a type name back to its PropertyType.
func ParsePropertyType(s string) (PropertyType, bool) {
	for t, name := range propertyTypeNames {
		if name == s {
			return t, true
		}
	}
	return PropertyUnknown, false
}

// Components returns the number of scalar components a value of this type has.
func (t PropertyType) Components() int {
	switch t {
	case PropertyVector2:
		return 2
	case PropertyVector3, PropertyColor3:
		return 3
	case PropertyVector4, PropertyColor4:
		return 4
	case PropertyMatrix:
		return 16
	case PropertyString, PropertyUnknown, PropertyReference, PropertyBlob:
		return 0
	default:
		return 1
	}
}

// Property is a named, typed value that may be animated per layer.
//
// Values holds the static value, one entry per component. Matrix values are
// stored column-major. EnumValues lists the labels of an enum property,
// addressed by the integer in Values[0].
type Property struct {
	Name       string
	Type       PropertyType
	Hidden     bool
	Values     []float64
	String     string
	EnumValues []string
	// Unit is centimetres per property unit for distance properties.
	// Zero means the property is already in scene units.
	Unit float64

	curves map[*Layer]*CurveNode
}

// NewProperty returns a static property.
func NewProperty(name string, typ PropertyType, values ...float64) *Property {
	return &Property{Name: name, Type: typ, Values: values}
}

// SetCurveNode attaches the animation of this property on layer l.
func (p *Property) SetCurveNode(l *Layer, n *CurveNode) {
	if p.curves == nil {
		p.curves = make(map[*Layer]*CurveNode)
	}
	p.curves[l] = n
}

// CurveNode returns the animation of this property on layer l, or nil.
func (p *Property) CurveNode(l *Layer) *CurveNode {
	if p == nil || l == nil {
		return nil
	}
	return p.curves[l]
}

// Animated reports whether the property has a curve node on any layer.
func (p *Property) Animated() bool {
	return p != nil && len(p.curves) > 0
}

// FirstCurve returns the first component curve found on the first layer
// that animates the property.
func (p *Property) FirstCurve(layers []*Layer) *Curve {
	for _, l := range layers {
		n := p.CurveNode(l)
		if n == nil {
			continue
		}
		for _, ch := range n.Channels {
			if ch.Curve != nil {
				return ch.Curve
			}
		}
	}
	return nil
}

// Value returns static component i, or 0.
func (p *Property) Value(i int) float64 {
	if p == nil || i < 0 || i >= len(p.Values) {
		return 0
	}
	return p.Values[i]
}

// Evaluate returns component i at time t. The first layer carrying a curve
// for that component wins; otherwise the static value is returned.
func (p *Property) Evaluate(layers []*Layer, i int, t Time) float64 {
	for _, l := range layers {
		if c := p.CurveNode(l).Curve(i); c != nil {
			return c.Evaluate(t)
		}
	}
	return p.Value(i)
}

// EvaluateAll returns every component at time t.
func (p *Property) EvaluateAll(layers []*Layer, t Time) []float64 {
	n := p.Type.Components()
	if len(p.Values) > n {
		n = len(p.Values)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = p.Evaluate(layers, i, t)
	}
	return out
}

// EnumLabel returns the label for enum value v, or "".
func (p *Property) EnumLabel(v int) string {
	if v < 0 || v >= len(p.EnumValues) {
		return ""
	}
	return p.EnumValues[v]
}

// PropertySet is an ordered list of properties.
type PropertySet []*Property

// Find returns the named property, or nil.
func (s PropertySet) Find(name string) *Property {
	for _, p := range s {
		if p.Name == name {
			return p
		}
	}
	return nil
}
