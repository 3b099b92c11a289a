package scenegraph

import (
	"encoding/binary"
	stdmath "math"

	"github.com/Faultbox/sceneconv/pkg/math"
)

// Mesh is a triangle mesh made of independently drawable sections.
type Mesh struct {
	Name     string
	Sections []*MeshSection
}

func (*Mesh) Kind() ObjectKind { return ObjectMesh }

// MeshSection is one draw call: a vertex buffer, an index buffer and a material.
type MeshSection struct {
	VertexBuffer *VertexBuffer
	IndexBuffer  *IndexBuffer
	Material     *Material
}

// Usage is the semantic of a vertex component.
type Usage int

const (
	UsagePosition Usage = iota
	UsageNormal
	UsageColor
	UsageTexCoord
	UsageBlendWeights
	UsageBlendIndices
)

func (u Usage) String() string {
	switch u {
	case UsagePosition:
		return "position"
	case UsageNormal:
		return "normal"
	case UsageColor:
		return "color"
	case UsageTexCoord:
		return "texcoord"
	case UsageBlendWeights:
		return "blend_weights"
	case UsageBlendIndices:
		return "blend_indices"
	}
	return "unknown"
}

// DataType is the storage type of a vertex component.
type DataType int

const (
	TypeFloat32 DataType = iota
	TypeUint32
	TypeUint8
)

func (t DataType) String() string {
	switch t {
	case TypeFloat32:
		return "float32"
	case TypeUint32:
		return "uint32"
	case TypeUint8:
		return "uint8"
	}
	return "unknown"
}

// Size returns the byte size of one element of type t.
func (t DataType) Size() int {
	if t == TypeUint8 {
		return 1
	}
	return 4
}

// VertexDecl describes one interleaved component.
type VertexDecl struct {
	Usage Usage
	Type  DataType
	// Count is the number of elements stored. Positions and normals store
	// four floats with the fourth zero.
	Count  int
	Offset int
}

// Size returns the byte size of the component.
func (d VertexDecl) Size() int {
	return d.Type.Size() * d.Count
}

// VertexDesc is the ordered layout of a vertex.
type VertexDesc struct {
	Decls []VertexDecl
}

// Add appends a component after the existing ones and returns its offset.
func (d *VertexDesc) Add(usage Usage, typ DataType, count int) int {
	off := d.Stride()
	d.Decls = append(d.Decls, VertexDecl{Usage: usage, Type: typ, Count: count, Offset: off})
	return off
}

// Stride returns the byte size of one vertex.
func (d *VertexDesc) Stride() int {
	n := 0
	for _, decl := range d.Decls {
		n += decl.Size()
	}
	return n
}

// Find returns the index-th component with the given usage.
func (d *VertexDesc) Find(usage Usage, index int) (VertexDecl, bool) {
	for _, decl := range d.Decls {
		if decl.Usage != usage {
			continue
		}
		if index == 0 {
			return decl, true
		}
		index--
	}
	return VertexDecl{}, false
}

// Count returns the number of components with the given usage.
func (d *VertexDesc) Count(usage Usage) int {
	n := 0
	for _, decl := range d.Decls {
		if decl.Usage == usage {
			n++
		}
	}
	return n
}

// VertexBuffer stores interleaved little endian vertices.
type VertexBuffer struct {
	Desc        VertexDesc
	Stride      int
	NumVertices int
	Data        []byte
}

// NewVertexBuffer allocates n zeroed vertices of layout desc.
func NewVertexBuffer(desc VertexDesc, n int) *VertexBuffer {
	stride := desc.Stride()
	return &VertexBuffer{
		Desc:        desc,
		Stride:      stride,
		NumVertices: n,
		Data:        make([]byte, stride*n),
	}
}

func (b *VertexBuffer) at(v, offset int) []byte {
	return b.Data[v*b.Stride+offset:]
}

// PutFloats writes consecutive floats at byte offset of vertex v.
func (b *VertexBuffer) PutFloats(v, offset int, fs ...float32) {
	p := b.at(v, offset)
	for i, f := range fs {
		binary.LittleEndian.PutUint32(p[i*4:], stdmath.Float32bits(f))
	}
}

// PutUint32 writes u at byte offset of vertex v.
func (b *VertexBuffer) PutUint32(v, offset int, u uint32) {
	binary.LittleEndian.PutUint32(b.at(v, offset), u)
}

// Floats reads n consecutive floats at byte offset of vertex v.
func (b *VertexBuffer) Floats(v, offset, n int) []float32 {
	p := b.at(v, offset)
	out := make([]float32, n)
	for i := range out {
		out[i] = stdmath.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
	}
	return out
}

// Uint32 reads the value at byte offset of vertex v.
func (b *VertexBuffer) Uint32(v, offset int) uint32 {
	return binary.LittleEndian.Uint32(b.at(v, offset))
}

// IndexType is the primitive topology of an index buffer.
type IndexType int

const (
	IndexTriList IndexType = iota
)

// IndexBuffer lists vertex indices.
type IndexBuffer struct {
	Type    IndexType
	Indices []uint32
}

// SkinBinding binds a mesh to the joints that deform it.
type SkinBinding struct {
	Name string
	Mesh *Mesh
	// NodeNames and BindPose are parallel: joint i is NodeNames[i] with
	// world transform BindPose[i] at bind time.
	NodeNames         []string
	BindPose          []math.Mat4
	InitSkinTransform math.Mat4
}

func (*SkinBinding) Kind() ObjectKind { return ObjectSkinBinding }
