package scenegraph

import "github.com/Faultbox/sceneconv/pkg/math"

// AttributeGroup is a named set of attributes sampled from node or
// material properties.
type AttributeGroup struct {
	Name       string
	Attributes []*Attribute
}

// Attribute returns the named attribute, or nil.
func (g *AttributeGroup) Attribute(name string) *Attribute {
	for _, a := range g.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Attribute is one named, typed, time-sampled value.
type Attribute struct {
	Name  string
	Value Value
}

// ValueKind discriminates attribute values.
type ValueKind int

const (
	KindBool ValueKind = iota
	KindInt
	KindEnum
	KindFloat
	KindVector
	KindMatrix
	KindString
)

func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindEnum:
		return "enum"
	case KindFloat:
		return "float"
	case KindVector:
		return "vector"
	case KindMatrix:
		return "matrix"
	case KindString:
		return "string"
	}
	return "unknown"
}

// Value is one of *SparseBool, *SparseInt, *SparseEnum, *DenseFloat,
// *DenseVector, *DenseMatrix or *SparseString.
type Value interface {
	Kind() ValueKind
}

// Hint tells the runtime how a dense value reacts to scene transforms.
type Hint int

const (
	HintNone Hint = iota
	HintScale
	HintTransformAndScale
)

func (h Hint) String() string {
	switch h {
	case HintScale:
		return "scale"
	case HintTransformAndScale:
		return "transform_and_scale"
	}
	return "none"
}

// Sparse values hold one entry per change, with times in seconds relative
// to the take start. A sparse value holds from its time until the next entry.

type SparseBool struct {
	Values []bool
	Times  []float32
}

type SparseInt struct {
	Values []int32
	Times  []float32
}

type SparseEnum struct {
	Values []int32
	Times  []float32
	Enum   *EnumTable
}

type SparseString struct {
	Values []string
	Times  []float32
}

func (*SparseBool) Kind() ValueKind   { return KindBool }
func (*SparseInt) Kind() ValueKind    { return KindInt }
func (*SparseEnum) Kind() ValueKind   { return KindEnum }
func (*SparseString) Kind() ValueKind { return KindString }

// At returns the value in effect at time t.
func (s *SparseInt) At(t float32) int32 {
	return s.Values[sparseIndex(s.Times, t)]
}

// At returns the value in effect at time t.
func (s *SparseBool) At(t float32) bool {
	return s.Values[sparseIndex(s.Times, t)]
}

// At returns the value in effect at time t.
func (s *SparseEnum) At(t float32) int32 {
	return s.Values[sparseIndex(s.Times, t)]
}

func sparseIndex(times []float32, t float32) int {
	i := 0
	for j, st := range times {
		if st <= t {
			i = j
		}
	}
	return i
}

// EnumTable maps enum values to labels.
type EnumTable struct {
	Name  string
	Items []EnumItem
}

// EnumItem is one labelled enum value.
type EnumItem struct {
	Value int32
	Name  string
}

// Label returns the name of value v, or "".
func (e *EnumTable) Label(v int32) string {
	if e == nil {
		return ""
	}
	for _, it := range e.Items {
		if it.Value == v {
			return it.Name
		}
	}
	return ""
}

// Dense values hold one sample per frame.

type DenseFloat struct {
	Floats []float32
	Hint   Hint
}

// DenseVector holds four components per sample; missing components are zero.
type DenseVector struct {
	Vectors [][4]float32
	Hint    Hint
}

type DenseMatrix struct {
	Matrices []math.Mat4
	Hint     Hint
}

func (*DenseFloat) Kind() ValueKind  { return KindFloat }
func (*DenseVector) Kind() ValueKind { return KindVector }
func (*DenseMatrix) Kind() ValueKind { return KindMatrix }
