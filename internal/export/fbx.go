package export

import (
	"context"
	"path/filepath"

	"github.com/chewxy/math32"
	"github.com/mogaika/fbx"
	"github.com/mogaika/fbx/builders/bfbx73"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneconv/pkg/math"
	"github.com/Faultbox/sceneconv/pkg/scenegraph"
)

const (
	fbxVersion     = 7400
	fbxCreator     = "sceneconv FBX writer"
	fbxAppVendor   = "Faultbox"
	fbxAppName     = "sceneconv"
	fbxAppVersion  = "1.0"
	fbxDateTimeGMT = "01/01/1970 00:00:00.000"
	fbxCreation    = "1970-01-01 10:00:00:000"
)

var fbxFileID = []byte{
	0x28, 0xb3, 0x2a, 0xeb, 0xb6, 0x24, 0xcc, 0xc2,
	0xbf, 0xc8, 0xb0, 0x2a, 0xa9, 0x2b, 0xfc, 0xf1}

// FBXWriter writes the node hierarchy, meshes and materials of a scene as
// an FBX 7400 document. Skin deformers and animation curves are not written.
type FBXWriter struct {
	log *zap.Logger
}

// Write encodes scene as an .fbx file at path.
func (w *FBXWriter) Write(ctx context.Context, scene *scenegraph.Scene, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := newFBXDocument(filepath.Base(path), w.log)
	doc.addScene(scene)

	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := fbx.Write(f, doc.finish()); err != nil {
		return errors.Wrapf(err, "encoding fbx %s", path)
	}
	return f.Close()
}

type fbxDocument struct {
	f      *fbx.FBX
	log    *zap.Logger
	lastID int64

	objects     *fbx.Node
	connections *fbx.Node

	materials map[*scenegraph.Material]int64
}

func newFBXDocument(filename string, log *zap.Logger) *fbxDocument {
	if log == nil {
		log = zap.NewNop()
	}
	d := &fbxDocument{
		f:           fbx.NewFBX(fbxVersion),
		log:         log,
		lastID:      1000000,
		objects:     bfbx73.Objects(),
		connections: bfbx73.Connections(),
		materials:   make(map[*scenegraph.Material]int64),
	}
	d.writeHeaders(filename)
	return d
}

func (d *fbxDocument) root() *fbx.Node {
	return &d.f.Root
}

func (d *fbxDocument) nextID() int64 {
	d.lastID++
	return d.lastID
}

func (d *fbxDocument) writeHeaders(filename string) {
	d.root().AddNodes(
		bfbx73.FBXHeaderExtension().AddNodes(
			bfbx73.FBXHeaderVersion(1003),
			bfbx73.FBXVersion(fbxVersion),
			bfbx73.EncryptionType(0),
			bfbx73.CreationTimeStamp().AddNodes(
				bfbx73.Version(1000),
				bfbx73.Year(1970),
				bfbx73.Month(1),
				bfbx73.Day(1),
				bfbx73.Hour(10),
				bfbx73.Minute(0),
				bfbx73.Second(0),
				bfbx73.Millisecond(0),
			),
			bfbx73.Creator(fbxCreator),
			bfbx73.SceneInfo("GlobalInfo\x00\x01SceneInfo", "UserData").AddNodes(
				bfbx73.Type("UserData"),
				bfbx73.Version(100),
				bfbx73.Properties70().AddNodes(
					bfbx73.P("DocumentUrl", "KString", "Url", "", filename),
					bfbx73.P("SrcDocumentUrl", "KString", "Url", "", filename),
					bfbx73.P("Original", "Compound", "", ""),
					bfbx73.P("Original|ApplicationVendor", "KString", "", "", fbxAppVendor),
					bfbx73.P("Original|ApplicationName", "KString", "", "", fbxAppName),
					bfbx73.P("Original|ApplicationVersion", "KString", "", "", fbxAppVersion),
					bfbx73.P("Original|DateTime_GMT", "DateTime", "", "", fbxDateTimeGMT),
					bfbx73.P("Original|FileName", "KString", "", "", filename),
				),
			),
		),
		bfbx73.FileId(fbxFileID),
		bfbx73.CreationTime(fbxCreation),
		bfbx73.Creator(fbxCreator),
		bfbx73.GlobalSettings().AddNodes(
			bfbx73.Version(1000),
			bfbx73.Properties70().AddNodes(
				bfbx73.P("UpAxis", "int", "Integer", "", int32(1)),
				bfbx73.P("UpAxisSign", "int", "Integer", "", int32(1)),
				bfbx73.P("FrontAxis", "int", "Integer", "", int32(2)),
				bfbx73.P("FrontAxisSign", "int", "Integer", "", int32(1)),
				bfbx73.P("CoordAxis", "int", "Integer", "", int32(0)),
				bfbx73.P("CoordAxisSign", "int", "Integer", "", int32(1)),
				bfbx73.P("UnitScaleFactor", "double", "Number", "", float64(1)),
			),
		),
		bfbx73.Documents().AddNodes(
			bfbx73.Count(1),
			bfbx73.Document(d.nextID(), "Scene", "Scene").AddNodes(
				bfbx73.Properties70().AddNodes(
					bfbx73.P("SourceObject", "object", "", ""),
					bfbx73.P("ActiveAnimStackName", "KString", "", "", ""),
				),
				bfbx73.RootNode(0),
			),
		),
		bfbx73.References(),
		bfbx73.Definitions().AddNodes(
			bfbx73.Version(100),
			bfbx73.Count(1),
			bfbx73.ObjectType("GlobalSettings").AddNodes(
				bfbx73.Count(1),
			),
		),
		d.objects,
		d.connections,
		bfbx73.Takes().AddNodes(
			bfbx73.Current(""),
		),
	)
}

func (d *fbxDocument) addScene(sc *scenegraph.Scene) {
	if sc.RootNode == nil {
		return
	}
	d.addNode(sc.RootNode, 0)
}

func (d *fbxDocument) addNode(n *scenegraph.Node, parent int64) {
	class := "Null"
	switch {
	case n.Bone:
		class = "LimbNode"
	case meshOf(n) != nil:
		class = "Mesh"
	}

	t, r, s := math.Vec3{}, math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1}
	if len(n.Keyframes) > 0 {
		var q math.Quat
		t, q, s = n.Keyframes[0].Decompose()
		r = eulerXYZ(q)
	}

	id := d.nextID()
	model := bfbx73.Model(id, n.Name+"\x00\x01Model", class).AddNodes(
		bfbx73.Version(232),
		bfbx73.Properties70().AddNodes(
			bfbx73.P("InheritType", "enum", "", "", int32(1)),
			bfbx73.P("DefaultAttributeIndex", "int", "Integer", "", int32(0)),
			bfbx73.P("Lcl Translation", "Lcl Translation", "", "A", float64(t.X), float64(t.Y), float64(t.Z)),
			bfbx73.P("Lcl Rotation", "Lcl Rotation", "", "A", float64(r.X), float64(r.Y), float64(r.Z)),
			bfbx73.P("Lcl Scaling", "Lcl Scaling", "", "A", float64(s.X), float64(s.Y), float64(s.Z)),
		),
		bfbx73.Shading(true),
		bfbx73.Culling("CullingOff"),
	)
	d.objects.AddNode(model)
	d.connections.AddNode(bfbx73.C("OO", id, parent))

	if m := meshOf(n); m != nil {
		d.addMesh(m, id)
	}
	for _, c := range n.Children {
		d.addNode(c, id)
	}
}

func meshOf(n *scenegraph.Node) *scenegraph.Mesh {
	switch o := n.Object.(type) {
	case *scenegraph.Mesh:
		return o
	case *scenegraph.SkinBinding:
		return o.Mesh
	}
	return nil
}

func (d *fbxDocument) addMesh(m *scenegraph.Mesh, model int64) {
	var (
		vertices []float64
		indices  []int32
		normals  []float64
		uvs      []float64
		uvIndex  []int32
	)
	var material *scenegraph.Material
	base := int32(0)
	for _, s := range m.Sections {
		vb, ib := s.VertexBuffer, s.IndexBuffer
		if vb == nil || ib == nil {
			continue
		}
		if material == nil {
			material = s.Material
		}
		pos, _ := vb.Desc.Find(scenegraph.UsagePosition, 0)
		nrm, hasNormals := vb.Desc.Find(scenegraph.UsageNormal, 0)
		uv, hasUV := vb.Desc.Find(scenegraph.UsageTexCoord, 0)
		for v := 0; v < vb.NumVertices; v++ {
			for _, f := range vb.Floats(v, pos.Offset, 3) {
				vertices = append(vertices, float64(f))
			}
		}
		for k, idx := range ib.Indices {
			i := base + int32(idx)
			// the last corner of each polygon is stored as -(i+1)
			if k%3 == 2 {
				indices = append(indices, -i-1)
			} else {
				indices = append(indices, i)
			}
			if hasNormals {
				for _, f := range vb.Floats(int(idx), nrm.Offset, 3) {
					normals = append(normals, float64(f))
				}
			}
			if hasUV {
				uvIndex = append(uvIndex, int32(len(uvIndex)))
				for _, f := range vb.Floats(int(idx), uv.Offset, 2) {
					uvs = append(uvs, float64(f))
				}
			}
		}
		base += int32(vb.NumVertices)
	}

	layer := bfbx73.Layer(0).AddNodes(bfbx73.Version(100))
	id := d.nextID()
	geometry := bfbx73.Geometry(id, m.Name+"\x00\x01Geometry", "Mesh").AddNodes(
		bfbx73.GeometryVersion(124),
		bfbx73.Vertices(vertices),
		bfbx73.PolygonVertexIndex(indices),
	)
	if normals != nil {
		geometry.AddNode(bfbx73.LayerElementNormal(0).AddNodes(
			bfbx73.Version(101),
			bfbx73.Name(""),
			bfbx73.MappingInformationType("ByPolygonVertex"),
			bfbx73.ReferenceInformationType("Direct"),
			bfbx73.Normals(normals),
		))
		layer.AddNode(bfbx73.LayerElement().AddNodes(
			bfbx73.Type("LayerElementNormal"),
			bfbx73.TypedIndex(0),
		))
	}
	if uvs != nil {
		geometry.AddNode(bfbx73.LayerElementUV(0).AddNodes(
			bfbx73.Version(101),
			bfbx73.Name("map1"),
			bfbx73.MappingInformationType("ByPolygonVertex"),
			bfbx73.ReferenceInformationType("IndexToDirect"),
			bfbx73.UV(uvs),
			bfbx73.UVIndex(uvIndex),
		))
		layer.AddNode(bfbx73.LayerElement().AddNodes(
			bfbx73.Type("LayerElementUV"),
			bfbx73.TypedIndex(0),
		))
	}
	if material != nil {
		geometry.AddNode(bfbx73.LayerElementMaterial(0).AddNodes(
			bfbx73.Version(101),
			bfbx73.Name(""),
			bfbx73.MappingInformationType("AllSame"),
			bfbx73.ReferenceInformationType("IndexToDirect"),
			bfbx73.Materials([]int32{0}),
		))
		layer.AddNode(bfbx73.LayerElement().AddNodes(
			bfbx73.Type("LayerElementMaterial"),
			bfbx73.TypedIndex(0),
		))
		d.connections.AddNode(bfbx73.C("OO", d.material(material), model))
	}
	geometry.AddNode(layer)

	d.objects.AddNode(geometry)
	d.connections.AddNode(bfbx73.C("OO", id, model))
}

func (d *fbxDocument) material(m *scenegraph.Material) int64 {
	if id, ok := d.materials[m]; ok {
		return id
	}
	id := d.nextID()
	d.objects.AddNode(bfbx73.Material(id, m.Name+"\x00\x01Material", "").AddNodes(
		bfbx73.Version(102),
		bfbx73.ShadingModel("phong"),
		bfbx73.MultiLayer(0),
		bfbx73.Properties70().AddNodes(
			colorP("AmbientColor", m.Ambient),
			colorP("DiffuseColor", m.Diffuse),
			colorP("EmissiveColor", m.Emissive),
			colorP("SpecularColor", m.Specular),
			bfbx73.P("SpecularFactor", "Number", "", "A", float64(m.SpecularMultiplier)),
			bfbx73.P("Shininess", "Number", "", "A", float64(m.SpecularExponent)),
			bfbx73.P("Opacity", "double", "Number", "", float64(m.Diffuse[3])),
		),
	))
	d.materials[m] = id
	return id
}

func colorP(name string, c [4]float32) *fbx.Node {
	return bfbx73.P(name, "Color", "", "A", float64(c[0]), float64(c[1]), float64(c[2]))
}

// finish fills the object counts of the definitions section.
func (d *fbxDocument) finish() *fbx.FBX {
	counts := make(map[string]int32)
	var order []string
	for _, o := range d.objects.Nodes {
		if _, ok := counts[o.Name]; !ok {
			order = append(order, o.Name)
		}
		counts[o.Name]++
	}

	defs := d.root().GetNode("Definitions")
	total := int32(1)
	for _, name := range order {
		total += counts[name]
		ot := bfbx73.ObjectType(name)
		ot.GetOrAddNode(bfbx73.Count(0)).Properties[0] = counts[name]
		defs.AddNode(ot)
	}
	defs.GetOrAddNode(bfbx73.Count(0)).Properties[0] = total
	return d.f
}

// eulerXYZ returns the rotation of q as X, Y, Z Euler angles in degrees,
// applied in X then Y then Z order.
func eulerXYZ(q math.Quat) math.Vec3 {
	m := q.Normalize().ToMat4()
	sy := math32.Max(-1, math32.Min(1, -m[2]))
	const deg = 180 / math32.Pi
	return math.Vec3{
		X: math32.Atan2(m[6], m[10]) * deg,
		Y: math32.Asin(sy) * deg,
		Z: math32.Atan2(m[1], m[0]) * deg,
	}
}
