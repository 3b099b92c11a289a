package export

import (
	"context"
	"encoding/base64"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/sceneconv/pkg/math"
	"github.com/Faultbox/sceneconv/pkg/scenegraph"
)

// TagVersion is written at the top of every tag file.
const TagVersion = "1.0.0"

// TagWriter renders a scene as a YAML tag file.
type TagWriter struct{}

type tagFile struct {
	Version     string        `yaml:"version"`
	Modeller    string        `yaml:"modeller"`
	Asset       string        `yaml:"asset"`
	SceneLength float32       `yaml:"scene_length"`
	NumFrames   int           `yaml:"num_frames"`
	Textures    []tagTexture  `yaml:"textures,omitempty"`
	Materials   []tagMaterial `yaml:"materials,omitempty"`
	Meshes      []tagMesh     `yaml:"meshes,omitempty"`
	Skins       []tagSkin     `yaml:"skin_bindings,omitempty"`
	Cameras     []tagCamera   `yaml:"cameras,omitempty"`
	Lights      []tagLight    `yaml:"lights,omitempty"`
	Splines     []tagSpline   `yaml:"splines,omitempty"`
	Root        *tagNode      `yaml:"root"`
}

type tagNode struct {
	Name        string          `yaml:"name"`
	Bone        bool            `yaml:"bone,omitempty"`
	Selected    bool            `yaml:"selected,omitempty"`
	Object      *tagRef         `yaml:"object,omitempty"`
	Keyframes   []math.Mat4     `yaml:"keyframes,flow"`
	Hints       []float32       `yaml:"linear_keyframe_hints,flow,omitempty"`
	Annotations []tagAnnotation `yaml:"annotations,omitempty"`
	Groups      []tagGroup      `yaml:"attribute_groups,omitempty"`
	UserProps   string          `yaml:"user_properties,omitempty"`
	Children    []*tagNode      `yaml:"children,omitempty"`
}

type tagRef struct {
	Kind  string `yaml:"kind"`
	Index int    `yaml:"index"`
}

type tagAnnotation struct {
	Time        float32 `yaml:"time"`
	Description string  `yaml:"text"`
}

type tagGroup struct {
	Name       string         `yaml:"name"`
	Attributes []tagAttribute `yaml:"attributes"`
}

type tagAttribute struct {
	Name   string        `yaml:"name"`
	Kind   string        `yaml:"kind"`
	Hint   string        `yaml:"hint,omitempty"`
	Times  []float32     `yaml:"times,flow,omitempty"`
	Values any           `yaml:"values"`
	Enum   *tagEnumTable `yaml:"enum,omitempty"`
}

type tagEnumTable struct {
	Name  string           `yaml:"name"`
	Items map[int32]string `yaml:"items"`
}

type tagTexture struct {
	Name     string `yaml:"name"`
	Filename string `yaml:"filename"`
	Original string `yaml:"original_filename"`
	Refs     int    `yaml:"refs"`
}

type tagStage struct {
	Texture  int    `yaml:"texture"`
	Usage    string `yaml:"usage"`
	TexCoord int    `yaml:"tex_coord"`
}

type tagMaterial struct {
	Name         string     `yaml:"name"`
	Diffuse      [4]float32 `yaml:"diffuse,flow"`
	Ambient      [4]float32 `yaml:"ambient,flow"`
	Specular     [4]float32 `yaml:"specular,flow"`
	Emissive     [4]float32 `yaml:"emissive,flow"`
	SpecMulti    float32    `yaml:"specular_multiplier"`
	SpecExponent float32    `yaml:"specular_exponent"`
	Transparency string     `yaml:"transparency"`
	UVOffset     [2]float32 `yaml:"uv_offset,flow"`
	UVScale      [2]float32 `yaml:"uv_scale,flow"`
	UVRotation   float32    `yaml:"uv_rotation"`
	UVAlgorithm  string     `yaml:"uv_algorithm"`
	Stages       []tagStage `yaml:"stages,omitempty"`
	Groups       []tagGroup `yaml:"attribute_groups,omitempty"`
}

type tagDecl struct {
	Usage  string `yaml:"usage"`
	Type   string `yaml:"type"`
	Count  int    `yaml:"count"`
	Offset int    `yaml:"offset"`
}

type tagSection struct {
	Material    int       `yaml:"material"`
	Decls       []tagDecl `yaml:"vertex_decls"`
	Stride      int       `yaml:"stride"`
	NumVertices int       `yaml:"num_vertices"`
	Vertices    string    `yaml:"vertices"`
	Indices     []uint32  `yaml:"indices,flow"`
}

type tagMesh struct {
	Name     string       `yaml:"name"`
	Sections []tagSection `yaml:"sections"`
}

type tagSkin struct {
	Name     string      `yaml:"name"`
	Mesh     int         `yaml:"mesh"`
	Joints   []string    `yaml:"joints,flow"`
	BindPose []math.Mat4 `yaml:"bind_pose,flow"`
	Init     math.Mat4   `yaml:"init_skin_transform,flow"`
}

type tagCamera struct {
	From       [3]float32 `yaml:"from,flow"`
	Up         [3]float32 `yaml:"up,flow"`
	Focus      [3]float32 `yaml:"focus,flow"`
	FOV        float32    `yaml:"fov"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
	LeftHanded bool       `yaml:"left_handed"`
}

type tagLight struct {
	Type      string     `yaml:"type"`
	Position  [3]float32 `yaml:"position,flow"`
	Direction [3]float32 `yaml:"direction,flow"`
	Color     uint32     `yaml:"color"`
	Intensity float32    `yaml:"intensity"`
	Decay     int        `yaml:"decay_rate"`
	Range     float32    `yaml:"range"`
	Angle     float32    `yaml:"angle"`
	FadeStart float32    `yaml:"fade_start"`
	FadeEnd   float32    `yaml:"fade_end"`
	Shadows   bool       `yaml:"shadow_caster"`
}

type tagControlPoint struct {
	Position   [3]float32 `yaml:"position,flow"`
	TangentIn  [3]float32 `yaml:"tangent_in,flow"`
	TangentOut [3]float32 `yaml:"tangent_out,flow"`
}

type tagSpline struct {
	Closed bool              `yaml:"closed"`
	Points []tagControlPoint `yaml:"points"`
}

// Write encodes scene as YAML to path.
func (w *TagWriter) Write(ctx context.Context, scene *scenegraph.Scene, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := newTagFile(scene)

	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrapf(err, "encoding tag file %s", path)
	}
	if err := enc.Close(); err != nil {
		return errors.Wrapf(err, "encoding tag file %s", path)
	}
	return f.Close()
}

// tagIndex numbers the shared objects of one scene.
type tagIndex struct {
	textures  map[*scenegraph.TextureFile]int
	materials map[*scenegraph.Material]int
	meshes    map[*scenegraph.Mesh]int
	objects   map[scenegraph.Object]tagRef
}

func newTagFile(sc *scenegraph.Scene) *tagFile {
	ix := &tagIndex{
		textures:  make(map[*scenegraph.TextureFile]int),
		materials: make(map[*scenegraph.Material]int),
		meshes:    make(map[*scenegraph.Mesh]int),
		objects:   make(map[scenegraph.Object]tagRef),
	}
	doc := &tagFile{
		Version:     TagVersion,
		Modeller:    sc.Modeller,
		Asset:       sc.Asset,
		SceneLength: sc.SceneLength,
		NumFrames:   sc.NumFrames,
	}

	for i, t := range sc.ExternalTextures {
		ix.textures[t] = i
		doc.Textures = append(doc.Textures, tagTexture{
			Name: t.Name, Filename: t.Filename, Original: t.OriginalFilename, Refs: t.RefCount,
		})
	}
	for i, m := range sc.Materials {
		ix.materials[m] = i
		doc.Materials = append(doc.Materials, ix.material(m))
	}
	for i, m := range sc.Meshes {
		ix.meshes[m] = i
		ix.objects[m] = tagRef{Kind: "mesh", Index: i}
		doc.Meshes = append(doc.Meshes, ix.mesh(m))
	}
	for i, b := range sc.SkinBindings {
		ix.objects[b] = tagRef{Kind: "skin_binding", Index: i}
		mesh := -1
		if k, ok := ix.meshes[b.Mesh]; ok {
			mesh = k
		}
		doc.Skins = append(doc.Skins, tagSkin{
			Name: b.Name, Mesh: mesh, Joints: b.NodeNames, BindPose: b.BindPose, Init: b.InitSkinTransform,
		})
	}
	for i, c := range sc.Cameras {
		ix.objects[c] = tagRef{Kind: "camera", Index: i}
		doc.Cameras = append(doc.Cameras, tagCamera(*c))
	}
	for i, l := range sc.Lights {
		ix.objects[l] = tagRef{Kind: "light", Index: i}
		doc.Lights = append(doc.Lights, tagLight{
			Type: l.Type.String(), Position: l.Position, Direction: l.Direction,
			Color: l.Color, Intensity: l.Intensity, Decay: l.DecayRate, Range: l.Range,
			Angle: l.Angle, FadeStart: l.FadeStart, FadeEnd: l.FadeEnd, Shadows: l.ShadowCaster,
		})
	}
	for i, s := range sc.Splines {
		ix.objects[s] = tagRef{Kind: "spline", Index: i}
		ts := tagSpline{Closed: s.IsClosed}
		for _, cp := range s.ControlPoints {
			ts.Points = append(ts.Points, tagControlPoint{cp.Position, cp.TangentIn, cp.TangentOut})
		}
		doc.Splines = append(doc.Splines, ts)
	}

	if sc.RootNode != nil {
		doc.Root = ix.node(sc.RootNode)
	}
	return doc
}

func (ix *tagIndex) node(n *scenegraph.Node) *tagNode {
	out := &tagNode{
		Name:      n.Name,
		Bone:      n.Bone,
		Selected:  n.Selected,
		Keyframes: n.Keyframes,
		Hints:     n.LinearKeyFrameHints,
		Groups:    tagGroups(n.AttributeGroups),
		UserProps: n.UserProperties,
	}
	if n.Object != nil {
		if ref, ok := ix.objects[n.Object]; ok {
			out.Object = &ref
		}
	}
	for _, a := range n.Annotations {
		out.Annotations = append(out.Annotations, tagAnnotation(a))
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, ix.node(c))
	}
	return out
}

func (ix *tagIndex) material(m *scenegraph.Material) tagMaterial {
	out := tagMaterial{
		Name:         m.Name,
		Diffuse:      m.Diffuse,
		Ambient:      m.Ambient,
		Specular:     m.Specular,
		Emissive:     m.Emissive,
		SpecMulti:    m.SpecularMultiplier,
		SpecExponent: m.SpecularExponent,
		Transparency: "none",
		UVOffset:     m.UVMapOffset,
		UVScale:      m.UVMapScale,
		UVRotation:   m.UVMapRotation,
		UVAlgorithm:  "3dsmax",
		Groups:       tagGroups(m.AttributeGroups),
	}
	if m.Transparency == scenegraph.TransparencyAlpha {
		out.Transparency = "alpha"
	}
	if m.UVMapAlgorithm == scenegraph.UVMapAlgorithmMaya {
		out.UVAlgorithm = "maya"
	}
	for _, st := range m.Stages {
		tex := -1
		if i, ok := ix.textures[st.Texture]; ok {
			tex = i
		}
		out.Stages = append(out.Stages, tagStage{Texture: tex, Usage: st.Usage.String(), TexCoord: st.TexCoordChannel})
	}
	return out
}

func (ix *tagIndex) mesh(m *scenegraph.Mesh) tagMesh {
	out := tagMesh{Name: m.Name}
	for _, s := range m.Sections {
		ts := tagSection{Material: -1}
		if i, ok := ix.materials[s.Material]; ok && s.Material != nil {
			ts.Material = i
		}
		if vb := s.VertexBuffer; vb != nil {
			for _, d := range vb.Desc.Decls {
				ts.Decls = append(ts.Decls, tagDecl{
					Usage: d.Usage.String(), Type: d.Type.String(), Count: d.Count, Offset: d.Offset,
				})
			}
			ts.Stride = vb.Stride
			ts.NumVertices = vb.NumVertices
			ts.Vertices = base64.StdEncoding.EncodeToString(vb.Data)
		}
		if s.IndexBuffer != nil {
			ts.Indices = s.IndexBuffer.Indices
		}
		out.Sections = append(out.Sections, ts)
	}
	return out
}

func tagGroups(groups []*scenegraph.AttributeGroup) []tagGroup {
	var out []tagGroup
	for _, g := range groups {
		tg := tagGroup{Name: g.Name}
		for _, a := range g.Attributes {
			tg.Attributes = append(tg.Attributes, tagAttributeOf(a))
		}
		out = append(out, tg)
	}
	return out
}

func tagAttributeOf(a *scenegraph.Attribute) tagAttribute {
	out := tagAttribute{Name: a.Name}
	if a.Value == nil {
		return out
	}
	out.Kind = a.Value.Kind().String()
	switch v := a.Value.(type) {
	case *scenegraph.SparseBool:
		out.Times, out.Values = v.Times, v.Values
	case *scenegraph.SparseInt:
		out.Times, out.Values = v.Times, v.Values
	case *scenegraph.SparseEnum:
		out.Times, out.Values = v.Times, v.Values
		if v.Enum != nil {
			t := &tagEnumTable{Name: v.Enum.Name, Items: make(map[int32]string, len(v.Enum.Items))}
			for _, it := range v.Enum.Items {
				t.Items[it.Value] = it.Name
			}
			out.Enum = t
		}
	case *scenegraph.SparseString:
		out.Times, out.Values = v.Times, v.Values
	case *scenegraph.DenseFloat:
		out.Hint, out.Values = v.Hint.String(), v.Floats
	case *scenegraph.DenseVector:
		out.Hint, out.Values = v.Hint.String(), v.Vectors
	case *scenegraph.DenseMatrix:
		out.Hint, out.Values = v.Hint.String(), v.Matrices
	}
	return out
}
