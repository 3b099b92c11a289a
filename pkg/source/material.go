package source

// ShadingModel identifies the lighting model of a material.
type ShadingModel int

const (
	ShadingUnknown ShadingModel = iota
	ShadingLambert
	ShadingPhong
)

func (s ShadingModel) String() string {
	switch s {
	case ShadingLambert:
		return "lambert"
	case ShadingPhong:
		return "phong"
	}
	return "unknown"
}

// Texture channel names.
const (
	ChannelDiffuse      = "DiffuseColor"
	ChannelSpecular     = "SpecularColor"
	ChannelEmissive     = "EmissiveColor"
	ChannelBump         = "Bump"
	ChannelDisplacement = "DisplacementFactor"
	ChannelNormalMap    = "NormalMap"
	ChannelReflection   = "ReflectionColor"
	ChannelTransparency = "TransparencyFactor"
)

// Material is a surface description shared by any number of nodes.
type Material struct {
	Name    string
	Shading ShadingModel

	Ambient            [3]float64
	Diffuse            [3]float64
	Emissive           [3]float64
	Specular           [3]float64
	TransparencyFactor float64
	Shininess          float64
	SpecularFactor     float64

	// Textures maps a channel name to the textures connected to it.
	Textures   map[string][]*Texture
	Properties PropertySet
}

// ChannelTextures returns the textures connected to channel, or nil.
func (m *Material) ChannelTextures(channel string) []*Texture {
	if m == nil {
		return nil
	}
	return m.Textures[channel]
}

// TextureKind distinguishes file textures from unsupported composites.
type TextureKind int

const (
	TextureFile TextureKind = iota
	TextureLayered
	TextureProcedural
)

func (k TextureKind) String() string {
	switch k {
	case TextureFile:
		return "file"
	case TextureLayered:
		return "layered"
	case TextureProcedural:
		return "procedural"
	}
	return "unknown"
}

// Texture is an image reference shared by any number of materials.
type Texture struct {
	Name             string
	Kind             TextureKind
	FileName         string
	RelativeFileName string
	// UVSet names the mesh UV set the texture samples.
	UVSet         string
	UVTranslation [2]float64
	UVScaling     [2]float64
	// RotationW is the UV rotation in degrees.
	RotationW float64
}
