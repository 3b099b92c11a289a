package export

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneconv/pkg/math"
	"github.com/Faultbox/sceneconv/pkg/scenegraph"
)

// GLBWriter writes a binary glTF preview of a scene. Nodes carry the pose of
// their first keyframe; textures are referenced by URI, not embedded.
type GLBWriter struct {
	log *zap.Logger
}

// Write encodes scene as a .glb file at path.
func (w *GLBWriter) Write(ctx context.Context, scene *scenegraph.Scene, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := buildGLTF(scene, w.log)

	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := gltf.NewEncoder(f)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return errors.Wrapf(err, "encoding glb %s", path)
	}
	return f.Close()
}

type glbBuilder struct {
	doc *gltf.Document
	log *zap.Logger

	nodes     map[string]uint32
	meshes    map[*scenegraph.Mesh]uint32
	materials map[*scenegraph.Material]uint32
	textures  map[*scenegraph.TextureFile]uint32
	skins     []pendingSkin
}

type pendingSkin struct {
	node    uint32
	binding *scenegraph.SkinBinding
}

func buildGLTF(sc *scenegraph.Scene, log *zap.Logger) *gltf.Document {
	if log == nil {
		log = zap.NewNop()
	}
	b := &glbBuilder{
		doc:       gltf.NewDocument(),
		log:       log,
		nodes:     make(map[string]uint32),
		meshes:    make(map[*scenegraph.Mesh]uint32),
		materials: make(map[*scenegraph.Material]uint32),
		textures:  make(map[*scenegraph.TextureFile]uint32),
	}
	b.doc.Asset.Generator = "sceneconv"

	if sc.RootNode != nil {
		root := b.node(sc.RootNode)
		b.doc.Scenes[0].Nodes = append(b.doc.Scenes[0].Nodes, root)
	}
	for _, p := range b.skins {
		b.skin(p)
	}
	return b.doc
}

func (b *glbBuilder) node(n *scenegraph.Node) uint32 {
	gn := &gltf.Node{Name: n.Name}
	if len(n.Keyframes) > 0 {
		t, r, s := n.Keyframes[0].Decompose()
		gn.Translation = t.Array()
		gn.Rotation = r.Array()
		gn.Scale = s.Array()
	}

	idx := uint32(len(b.doc.Nodes))
	b.doc.Nodes = append(b.doc.Nodes, gn)
	if _, dup := b.nodes[n.Name]; !dup {
		b.nodes[n.Name] = idx
	}

	switch o := n.Object.(type) {
	case *scenegraph.Mesh:
		gn.Mesh = gltf.Index(b.mesh(o))
	case *scenegraph.SkinBinding:
		if o.Mesh != nil {
			gn.Mesh = gltf.Index(b.mesh(o.Mesh))
			b.skins = append(b.skins, pendingSkin{node: idx, binding: o})
		}
	}

	for _, c := range n.Children {
		gn.Children = append(gn.Children, b.node(c))
	}
	return idx
}

func (b *glbBuilder) mesh(m *scenegraph.Mesh) uint32 {
	if i, ok := b.meshes[m]; ok {
		return i
	}
	gm := &gltf.Mesh{Name: m.Name}
	for _, s := range m.Sections {
		if s.VertexBuffer == nil || s.IndexBuffer == nil {
			continue
		}
		p := &gltf.Primitive{
			Attributes: b.vertexAttributes(s.VertexBuffer),
			Indices:    gltf.Index(modeler.WriteIndices(b.doc, s.IndexBuffer.Indices)),
		}
		if s.Material != nil {
			p.Material = gltf.Index(b.material(s.Material))
		}
		gm.Primitives = append(gm.Primitives, p)
	}
	i := uint32(len(b.doc.Meshes))
	b.doc.Meshes = append(b.doc.Meshes, gm)
	b.meshes[m] = i
	return i
}

func (b *glbBuilder) vertexAttributes(vb *scenegraph.VertexBuffer) map[string]uint32 {
	n := vb.NumVertices
	attrs := make(map[string]uint32)

	if d, ok := vb.Desc.Find(scenegraph.UsagePosition, 0); ok {
		attrs["POSITION"] = modeler.WritePosition(b.doc, readVec3(vb, d.Offset))
	}
	if d, ok := vb.Desc.Find(scenegraph.UsageNormal, 0); ok {
		attrs["NORMAL"] = modeler.WriteNormal(b.doc, readVec3(vb, d.Offset))
	}
	if d, ok := vb.Desc.Find(scenegraph.UsageColor, 0); ok {
		colors := make([][4]uint8, n)
		for v := range colors {
			c := vb.Uint32(v, d.Offset)
			colors[v] = [4]uint8{uint8(c >> 16), uint8(c >> 8), uint8(c), uint8(c >> 24)}
		}
		attrs["COLOR_0"] = modeler.WriteColor(b.doc, colors)
	}
	for i := 0; i < vb.Desc.Count(scenegraph.UsageTexCoord); i++ {
		d, _ := vb.Desc.Find(scenegraph.UsageTexCoord, i)
		uvs := make([][2]float32, n)
		for v := range uvs {
			f := vb.Floats(v, d.Offset, 2)
			uvs[v] = [2]float32{f[0], f[1]}
		}
		attrs[fmt.Sprintf("TEXCOORD_%d", i)] = modeler.WriteTextureCoord(b.doc, uvs)
	}

	wd, hasWeights := vb.Desc.Find(scenegraph.UsageBlendWeights, 0)
	id, hasIndices := vb.Desc.Find(scenegraph.UsageBlendIndices, 0)
	if hasWeights && hasIndices {
		weights := make([][4]float32, n)
		joints := make([][4]uint16, n)
		for v := 0; v < n; v++ {
			w := unpackBytes(vb.Uint32(v, wd.Offset))
			j := unpackBytes(vb.Uint32(v, id.Offset))
			for k := 0; k < 4; k++ {
				weights[v][k] = float32(w[k]) / 255
				joints[v][k] = uint16(j[k])
			}
		}
		attrs["WEIGHTS_0"] = modeler.WriteWeights(b.doc, weights)
		attrs["JOINTS_0"] = modeler.WriteJoints(b.doc, joints)
	}
	return attrs
}

func readVec3(vb *scenegraph.VertexBuffer, off int) [][3]float32 {
	out := make([][3]float32, vb.NumVertices)
	for v := range out {
		f := vb.Floats(v, off, 3)
		out[v] = [3]float32{f[0], f[1], f[2]}
	}
	return out
}

// unpackBytes splits a value packed most significant byte first.
func unpackBytes(u uint32) [4]uint8 {
	return [4]uint8{uint8(u >> 24), uint8(u >> 16), uint8(u >> 8), uint8(u)}
}

func (b *glbBuilder) material(m *scenegraph.Material) uint32 {
	if i, ok := b.materials[m]; ok {
		return i
	}
	color := m.Diffuse
	gm := &gltf.Material{
		Name:        m.Name,
		DoubleSided: true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &color,
		},
	}
	if m.Transparency == scenegraph.TransparencyAlpha || color[3] < 1 {
		gm.AlphaMode = gltf.AlphaBlend
	}
	if st, ok := m.Stage(scenegraph.TextureDiffuse); ok && st.Texture != nil {
		gm.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{
			Index:    b.texture(st.Texture),
			TexCoord: uint32(st.TexCoordChannel),
		}
	}
	i := uint32(len(b.doc.Materials))
	b.doc.Materials = append(b.doc.Materials, gm)
	b.materials[m] = i
	return i
}

func (b *glbBuilder) texture(t *scenegraph.TextureFile) uint32 {
	if i, ok := b.textures[t]; ok {
		return i
	}
	img := uint32(len(b.doc.Images))
	b.doc.Images = append(b.doc.Images, &gltf.Image{Name: t.Name, URI: t.Filename})
	i := uint32(len(b.doc.Textures))
	b.doc.Textures = append(b.doc.Textures, &gltf.Texture{Name: t.Name, Source: gltf.Index(img)})
	b.textures[t] = i
	return i
}

func (b *glbBuilder) skin(p pendingSkin) {
	joints := make([]uint32, 0, len(p.binding.NodeNames))
	for _, name := range p.binding.NodeNames {
		j, ok := b.nodes[name]
		if !ok {
			b.log.Warn("skin joint not in scene, skin dropped",
				zap.String("skin", p.binding.Name), zap.String("joint", name))
			return
		}
		joints = append(joints, j)
	}

	ibm := make([][4][4]float32, len(p.binding.BindPose))
	for i, m := range p.binding.BindPose {
		ibm[i] = columns(m.Inverse())
	}

	skin := &gltf.Skin{
		Name:                p.binding.Name,
		Joints:              joints,
		InverseBindMatrices: gltf.Index(modeler.WriteAccessor(b.doc, gltf.TargetNone, ibm)),
	}
	i := uint32(len(b.doc.Skins))
	b.doc.Skins = append(b.doc.Skins, skin)
	b.doc.Nodes[p.node].Skin = gltf.Index(i)
}

func columns(m math.Mat4) [4][4]float32 {
	var out [4][4]float32
	for c := 0; c < 4; c++ {
		out[c] = [4]float32{m[c*4], m[c*4+1], m[c*4+2], m[c*4+3]}
	}
	return out
}
