package convert

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneconv/pkg/scenegraph"
	"github.com/Faultbox/sceneconv/pkg/source"
)

// vertexLayout records the byte offsets of the components of one mesh.
type vertexLayout struct {
	position int
	normal   int
	color    int
	uv       []int
	weights  int
	indices  int
}

func newVertexLayout(m *source.Mesh) (scenegraph.VertexDesc, vertexLayout) {
	var d scenegraph.VertexDesc
	l := vertexLayout{normal: -1, color: -1, weights: -1, indices: -1}

	l.position = d.Add(scenegraph.UsagePosition, scenegraph.TypeFloat32, 4)
	if m.Normals != nil {
		l.normal = d.Add(scenegraph.UsageNormal, scenegraph.TypeFloat32, 4)
	}
	if m.Colors != nil {
		l.color = d.Add(scenegraph.UsageColor, scenegraph.TypeUint32, 1)
	}
	for i := range m.UVSets {
		if i >= MaxUVSets {
			break
		}
		l.uv = append(l.uv, d.Add(scenegraph.UsageTexCoord, scenegraph.TypeFloat32, 2))
	}
	if len(m.Skins) > 0 {
		l.weights = d.Add(scenegraph.UsageBlendWeights, scenegraph.TypeUint8, 4)
		l.indices = d.Add(scenegraph.UsageBlendIndices, scenegraph.TypeUint8, 4)
	}
	return d, l
}

// addMesh converts the mesh of n and attaches it, or its skin binding, to out.
func (c *Converter) addMesh(tc *takeContext, n *source.Node, src *source.Mesh, out *scenegraph.Node) {
	if !src.IsTriangleMesh() {
		c.log.Debug("triangulating mesh", zap.String("node", n.Name))
	}
	m := src.Triangulate()
	if len(m.UVSets) > MaxUVSets {
		c.log.Warn("too many uv sets, extra sets dropped",
			zap.String("node", n.Name), zap.Int("uv_sets", len(m.UVSets)))
	}
	if len(m.Skins) > 1 {
		c.log.Warn("only the first skin of a mesh is converted",
			zap.String("node", n.Name), zap.Int("skins", len(m.Skins)))
	}
	if len(m.Skins) > 0 && len(m.Skins[0].Clusters) > maxBlendClusters {
		c.log.Warn("skin has more clusters than blend indices can address",
			zap.String("node", n.Name), zap.Int("clusters", len(m.Skins[0].Clusters)),
			zap.Int("max", maxBlendClusters))
	}

	section := &scenegraph.MeshSection{
		VertexBuffer: buildVertexBuffer(n, m),
		IndexBuffer:  buildIndexBuffer(m),
	}
	if c.opts.ExportMaterials {
		section.Material = c.material(tc, n, m)
	}

	mesh := &scenegraph.Mesh{Name: n.Name, Sections: []*scenegraph.MeshSection{section}}
	tc.scene.Meshes = append(tc.scene.Meshes, mesh)
	out.Object = mesh

	if len(m.Skins) > 0 {
		b := skinBinding(tc.src.BindPose(), n, m.Skins[0], mesh)
		tc.scene.SkinBindings = append(tc.scene.SkinBindings, b)
		out.Object = b
	}
}

// buildVertexBuffer emits one vertex per triangle corner.
func buildVertexBuffer(n *source.Node, m *source.Mesh) *scenegraph.VertexBuffer {
	desc, l := newVertexLayout(m)
	vb := scenegraph.NewVertexBuffer(desc, 3*len(m.Polygons))

	geo := n.GeometricTransform()
	var skin []packedInfluence
	if len(m.Skins) > 0 {
		skin = packInfluences(buildInfluences(m.Skins[0], len(m.ControlPoints)))
	}

	v := 0
	for p, poly := range m.Polygons {
		for _, cp := range poly {
			pt := m.ControlPoints[cp]
			pos := geo.Mul4x1(mgl64.Vec4{pt[0], pt[1], pt[2], 1})
			vb.PutFloats(v, l.position, float32(pos[0]), float32(pos[1]), float32(pos[2]), 0)

			if l.normal >= 0 {
				nv, _ := m.Normals.Resolve(cp, p, v)
				vb.PutFloats(v, l.normal, float32(nv[0]), float32(nv[1]), float32(nv[2]), 0)
			}
			if l.color >= 0 {
				cv, _ := m.Colors.Resolve(cp, p, v)
				vb.PutUint32(v, l.color, packARGB(cv[0], cv[1], cv[2], cv[3]))
			}
			for i, off := range l.uv {
				uv, _ := m.UVSets[i].Resolve(cp, p, v)
				vb.PutFloats(v, off, float32(uv[0]), float32(uv[1]))
			}
			if skin != nil {
				vb.PutUint32(v, l.weights, skin[cp].weights)
				vb.PutUint32(v, l.indices, skin[cp].indices)
			}
			v++
		}
	}
	return vb
}

func buildIndexBuffer(m *source.Mesh) *scenegraph.IndexBuffer {
	ib := &scenegraph.IndexBuffer{
		Type:    scenegraph.IndexTriList,
		Indices: make([]uint32, 3*len(m.Polygons)),
	}
	for i := range ib.Indices {
		ib.Indices[i] = uint32(i)
	}
	return ib
}

// packARGB packs unit range channels into a 32-bit ARGB value.
func packARGB(r, g, b, a float64) uint32 {
	return uint32(unitByte(a))<<24 | uint32(unitByte(r))<<16 | uint32(unitByte(g))<<8 | uint32(unitByte(b))
}

func unitByte(x float64) uint8 {
	switch {
	case x <= 0:
		return 0
	case x >= 1:
		return 255
	}
	return uint8(x * 255)
}
