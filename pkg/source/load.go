package source

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Scene document errors.
var (
	ErrMissingVersion     = errors.New("scene document has no format_version")
	ErrUnsupportedVersion = errors.New("unsupported scene document version")
	ErrMissingRoot        = errors.New("scene document has no root node")
	ErrUnknownReference   = errors.New("unknown reference")
	ErrInvalidValue       = errors.New("invalid value")
)

// SupportedVersions is the range of format_version values Parse accepts.
const SupportedVersions = ">= 1.0, < 2.0"

// Load reads a scene document from path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading scene %s", path)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing scene %s", path)
	}
	if s.OriginalFileName == "" {
		s.OriginalFileName = path
	}
	return s, nil
}

// Parse decodes a scene document and links every name reference.
func Parse(data []byte) (*Scene, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if err := checkVersion(doc.FormatVersion); err != nil {
		return nil, err
	}
	if doc.Root == nil {
		return nil, ErrMissingRoot
	}

	b := &builder{scene: &Scene{
		FrameRate:        doc.FrameRate,
		UnitScale:        doc.UnitScale,
		Application:      doc.Application,
		OriginalFileName: doc.OriginalFile,
	}}
	if b.scene.FrameRate <= 0 {
		b.scene.FrameRate = DefaultFrameRate
	}
	if b.scene.UnitScale <= 0 {
		b.scene.UnitScale = 1
	}

	if err := b.build(&doc); err != nil {
		return nil, err
	}
	return b.scene, nil
}

func checkVersion(v string) error {
	if v == "" {
		return ErrMissingVersion
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnsupportedVersion, v, err)
	}
	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}
	if !c.Check(ver) {
		return fmt.Errorf("%w: %s (want %s)", ErrUnsupportedVersion, v, SupportedVersions)
	}
	return nil
}

type pendingLink struct {
	cluster *Cluster
	name    string
}

type builder struct {
	scene   *Scene
	pending []pendingLink
}

func (b *builder) build(doc *document) error {
	s := b.scene

	for _, td := range doc.Textures {
		t, err := buildTexture(td)
		if err != nil {
			return err
		}
		s.Textures = append(s.Textures, t)
	}

	for _, td := range doc.Takes {
		take := &Take{
			Name: td.Name,
			Span: TimeSpan{Start: Seconds(td.Start), Stop: Seconds(td.Stop)},
		}
		names := td.Layers
		if len(names) == 0 {
			names = []string{"BaseLayer"}
		}
		for _, n := range names {
			take.Layers = append(take.Layers, &Layer{Name: n})
		}
		s.Takes = append(s.Takes, take)
	}

	for _, md := range doc.Materials {
		m, err := b.buildMaterial(md)
		if err != nil {
			return err
		}
		s.Materials = append(s.Materials, m)
	}

	root, err := b.buildNode(doc.Root)
	if err != nil {
		return err
	}
	if root.Name == "" {
		root.Name = "RootNode"
	}
	s.Root = root

	for _, p := range b.pending {
		n := root.Find(p.name)
		if n == nil {
			return fmt.Errorf("%w: cluster link %q", ErrUnknownReference, p.name)
		}
		p.cluster.Link = n
	}

	for _, pd := range doc.Poses {
		pose := &Pose{Name: pd.Name, BindPose: pd.BindPose}
		for _, ed := range pd.Entries {
			n := root.Find(ed.Node)
			if n == nil {
				return fmt.Errorf("%w: pose %q node %q", ErrUnknownReference, pd.Name, ed.Node)
			}
			if len(ed.Matrix) != 16 {
				return fmt.Errorf("%w: pose %q node %q matrix has %d values", ErrInvalidValue, pd.Name, ed.Node, len(ed.Matrix))
			}
			e := PoseEntry{Node: n, Local: ed.Local}
			copy(e.Matrix[:], ed.Matrix)
			pose.Entries = append(pose.Entries, e)
		}
		s.Poses = append(s.Poses, pose)
	}
	return nil
}

func buildTexture(td textureDoc) (*Texture, error) {
	t := &Texture{
		Name:             td.Name,
		FileName:         td.File,
		RelativeFileName: td.RelativeFile,
		UVSet:            td.UVSet,
		UVTranslation:    vec2(td.UVTranslation, 0),
		UVScaling:        vec2(td.UVScaling, 1),
		RotationW:        td.RotationW,
	}
	switch strings.ToLower(td.Kind) {
	case "", "file":
		t.Kind = TextureFile
	case "layered":
		t.Kind = TextureLayered
	case "procedural":
		t.Kind = TextureProcedural
	default:
		return nil, fmt.Errorf("%w: texture %q kind %q", ErrInvalidValue, td.Name, td.Kind)
	}
	return t, nil
}

func (b *builder) buildMaterial(md materialDoc) (*Material, error) {
	m := &Material{
		Name:               md.Name,
		Ambient:            vec3(md.Ambient, 0),
		Diffuse:            vec3(md.Diffuse, 0),
		Emissive:           vec3(md.Emissive, 0),
		Specular:           vec3(md.Specular, 0),
		TransparencyFactor: md.TransparencyFactor,
		Shininess:          md.Shininess,
		SpecularFactor:     md.SpecularFactor,
	}
	switch strings.ToLower(md.Shading) {
	case "phong":
		m.Shading = ShadingPhong
	case "lambert":
		m.Shading = ShadingLambert
	default:
		m.Shading = ShadingUnknown
	}

	if len(md.Textures) > 0 {
		m.Textures = make(map[string][]*Texture, len(md.Textures))
	}
	for channel, names := range md.Textures {
		for _, name := range names {
			t := b.scene.Texture(name)
			if t == nil {
				return nil, fmt.Errorf("%w: material %q texture %q", ErrUnknownReference, md.Name, name)
			}
			m.Textures[channel] = append(m.Textures[channel], t)
		}
	}

	props, err := buildProperties(md.Properties)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", md.Name, err)
	}
	m.Properties = props
	if err := b.animate(m.Properties, md.Animation); err != nil {
		return nil, fmt.Errorf("material %q: %w", md.Name, err)
	}
	return m, nil
}

func (b *builder) buildNode(nd *nodeDoc) (*Node, error) {
	n := NewNode(nd.Name)
	if nd.Visible != nil {
		n.Visible = *nd.Visible
	}
	n.Selected = nd.Selected

	n.Property(LclTranslation).Values = vec3s(nd.Translation, 0)
	n.Property(LclRotation).Values = vec3s(nd.Rotation, 0)
	n.Property(LclScaling).Values = vec3s(nd.Scaling, 1)
	n.GeometricTranslation = vec3(nd.GeometricTranslation, 0)
	n.GeometricRotation = vec3(nd.GeometricRotation, 0)
	n.GeometricScaling = vec3(nd.GeometricScaling, 1)

	for _, name := range nd.Materials {
		m := b.scene.Material(name)
		if m == nil {
			return nil, fmt.Errorf("%w: node %q material %q", ErrUnknownReference, nd.Name, name)
		}
		n.Materials = append(n.Materials, m)
	}

	props, err := buildProperties(nd.Properties)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", nd.Name, err)
	}
	for _, p := range props {
		n.SetProperty(p)
	}
	if err := b.animate(n.Properties, nd.Animation); err != nil {
		return nil, fmt.Errorf("node %q: %w", nd.Name, err)
	}

	if nd.Attribute != nil {
		attr, err := b.buildAttribute(nd.Attribute)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", nd.Name, err)
		}
		n.Attribute = attr
	}

	for _, cd := range nd.Children {
		c, err := b.buildNode(cd)
		if err != nil {
			return nil, err
		}
		n.AddChild(c)
	}
	return n, nil
}

func buildProperties(docs []propertyDoc) (PropertySet, error) {
	var out PropertySet
	for _, pd := range docs {
		typ, ok := ParsePropertyType(strings.ToLower(pd.Type))
		if !ok {
			return nil, fmt.Errorf("%w: property %q type %q", ErrInvalidValue, pd.Name, pd.Type)
		}
		out = append(out, &Property{
			Name:       pd.Name,
			Type:       typ,
			Hidden:     pd.Hidden,
			Values:     pd.Values,
			String:     pd.String,
			EnumValues: pd.Enum,
			Unit:       pd.Unit,
		})
	}
	return out, nil
}

func (b *builder) animate(props PropertySet, anim animationDoc) error {
	for takeName, layers := range anim {
		take := b.scene.Take(takeName)
		if take == nil {
			return fmt.Errorf("%w: take %q", ErrUnknownReference, takeName)
		}
		for layerName, curves := range layers {
			layer := take.Layer(layerName)
			if layer == nil {
				return fmt.Errorf("%w: take %q layer %q", ErrUnknownReference, takeName, layerName)
			}
			for propName, channels := range curves {
				p := props.Find(propName)
				if p == nil {
					return fmt.Errorf("%w: animated property %q", ErrUnknownReference, propName)
				}
				cn, err := buildCurveNode(p.Type, channels)
				if err != nil {
					return fmt.Errorf("property %q: %w", propName, err)
				}
				p.SetCurveNode(layer, cn)
			}
		}
	}
	return nil
}

// channelNames returns the component channel names for typ in component order.
func channelNames(typ PropertyType) []string {
	switch typ {
	case PropertyVector2:
		return []string{"X", "Y"}
	case PropertyVector3:
		return []string{"X", "Y", "Z"}
	case PropertyVector4:
		return []string{"X", "Y", "Z", "W"}
	case PropertyColor3:
		return []string{"R", "G", "B"}
	case PropertyColor4:
		return []string{"R", "G", "B", "A"}
	case PropertyMatrix:
		names := make([]string, 16)
		for i := range names {
			names[i] = strconv.Itoa(i)
		}
		return names
	}
	return nil
}

func buildCurveNode(typ PropertyType, channels map[string][]keyDoc) (*CurveNode, error) {
	names := channelNames(typ)
	if names == nil {
		// scalar: exactly one channel, any name
		if len(channels) != 1 {
			return nil, fmt.Errorf("%w: scalar property needs one channel, got %d", ErrInvalidValue, len(channels))
		}
		for name, keys := range channels {
			c, err := buildCurve(keys)
			if err != nil {
				return nil, err
			}
			return &CurveNode{Channels: []Channel{{Name: name, Curve: c}}}, nil
		}
	}

	cn := &CurveNode{Channels: make([]Channel, len(names))}
	for i, name := range names {
		cn.Channels[i].Name = name
	}
	for name, keys := range channels {
		i := indexOf(names, strings.ToUpper(name))
		if i < 0 {
			return nil, fmt.Errorf("%w: channel %q", ErrInvalidValue, name)
		}
		c, err := buildCurve(keys)
		if err != nil {
			return nil, err
		}
		cn.Channels[i].Curve = c
	}
	return cn, nil
}

func buildCurve(keys []keyDoc) (*Curve, error) {
	out := make([]Key, len(keys))
	for i, k := range keys {
		out[i] = Key{Time: Seconds(k.T), Value: k.V}
		switch strings.ToLower(k.I) {
		case "", "linear":
			out[i].Interpolation = InterpolationLinear
		case "constant":
			out[i].Interpolation = InterpolationConstant
		default:
			return nil, fmt.Errorf("%w: interpolation %q", ErrInvalidValue, k.I)
		}
	}
	return NewCurve(out...), nil
}

func (b *builder) buildAttribute(ad *attributeDoc) (NodeAttribute, error) {
	switch strings.ToLower(ad.Type) {
	case "mesh":
		return b.buildMesh(ad)
	case "camera":
		return &Camera{
			Position:         vec3(ad.Position, 0),
			UpVector:         vec3(ad.Up, 0),
			InterestPosition: vec3(ad.Interest, 0),
			FieldOfViewY:     ad.FOV,
			NearPlane:        ad.Near,
			FarPlane:         ad.Far,
		}, nil
	case "light":
		l := &Light{
			Color:             vec3(ad.Color, 1),
			Intensity:         ad.Intensity,
			DecayType:         ad.Decay,
			CastShadows:       ad.CastShadows,
			InnerAngle:        ad.InnerAngle,
			OuterAngle:        ad.OuterAngle,
			FarAttenuationEnd: ad.FarAttenuationEnd,
		}
		switch strings.ToLower(ad.LightType) {
		case "", "point":
			l.Type = LightPoint
		case "directional":
			l.Type = LightDirectional
		case "spot":
			l.Type = LightSpot
		case "area":
			l.Type = LightArea
		case "volume":
			l.Type = LightVolume
		default:
			return nil, fmt.Errorf("%w: light type %q", ErrInvalidValue, ad.LightType)
		}
		return l, nil
	case "nurbs_curve", "nurbs":
		c := &NurbsCurve{Closed: ad.Closed}
		for _, p := range ad.Points {
			c.ControlPoints = append(c.ControlPoints, vec4(p, 1))
		}
		return c, nil
	case "skeleton":
		return &Skeleton{Root: ad.Root}, nil
	}
	return nil, fmt.Errorf("%w: attribute type %q", ErrInvalidValue, ad.Type)
}

func (b *builder) buildMesh(ad *attributeDoc) (*Mesh, error) {
	m := &Mesh{Polygons: ad.Polygons}
	for _, p := range ad.ControlPoints {
		m.ControlPoints = append(m.ControlPoints, vec3(p, 0))
	}
	for _, poly := range m.Polygons {
		for _, i := range poly {
			if i < 0 || i >= len(m.ControlPoints) {
				return nil, fmt.Errorf("%w: polygon index %d out of range", ErrInvalidValue, i)
			}
		}
	}

	var err error
	if m.Normals, err = buildElement(ad.Normals, 0); err != nil {
		return nil, err
	}
	// colors without alpha are opaque
	if m.Colors, err = buildElement(ad.Colors, 1); err != nil {
		return nil, err
	}
	for i := range ad.UVSets {
		e, err := buildElement(&ad.UVSets[i], 0)
		if err != nil {
			return nil, err
		}
		m.UVSets = append(m.UVSets, e)
	}

	for _, sd := range ad.Skins {
		skin := &Skin{Name: sd.Name}
		for _, cd := range sd.Clusters {
			if len(cd.Indices) != len(cd.Weights) {
				return nil, fmt.Errorf("%w: cluster %q has %d indices and %d weights",
					ErrInvalidValue, cd.Link, len(cd.Indices), len(cd.Weights))
			}
			c := &Cluster{Indices: cd.Indices, Weights: cd.Weights}
			b.pending = append(b.pending, pendingLink{cluster: c, name: cd.Link})
			skin.Clusters = append(skin.Clusters, c)
		}
		m.Skins = append(m.Skins, skin)
	}
	return m, nil
}

func buildElement(ed *elementDoc, w float64) (*LayerElement, error) {
	if ed == nil {
		return nil, nil
	}
	e := &LayerElement{Name: ed.Name, Index: ed.Index}
	switch strings.ToLower(ed.Mapping) {
	case "by_control_point", "by_vertex":
		e.Mapping = MappingByControlPoint
	case "by_polygon_vertex":
		e.Mapping = MappingByPolygonVertex
	case "by_polygon":
		e.Mapping = MappingByPolygon
	case "all_same":
		e.Mapping = MappingAllSame
	case "", "none":
		e.Mapping = MappingNone
	default:
		return nil, fmt.Errorf("%w: mapping %q", ErrInvalidValue, ed.Mapping)
	}
	switch strings.ToLower(ed.Reference) {
	case "", "direct":
		e.Reference = ReferenceDirect
	case "index_to_direct", "index":
		e.Reference = ReferenceIndexToDirect
	default:
		return nil, fmt.Errorf("%w: reference %q", ErrInvalidValue, ed.Reference)
	}
	for _, v := range ed.Values {
		e.Direct = append(e.Direct, vec4(v, w))
	}
	return e, nil
}

func indexOf(names []string, s string) int {
	for i, n := range names {
		if n == s {
			return i
		}
	}
	return -1
}

func vec2(v []float64, def float64) [2]float64 {
	out := [2]float64{def, def}
	copy(out[:], v)
	return out
}

func vec3(v []float64, def float64) [3]float64 {
	out := [3]float64{def, def, def}
	copy(out[:], v)
	return out
}

func vec3s(v []float64, def float64) []float64 {
	a := vec3(v, def)
	return a[:]
}

func vec4(v []float64, def float64) [4]float64 {
	out := [4]float64{0, 0, 0, def}
	copy(out[:], v)
	return out
}
