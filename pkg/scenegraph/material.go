package scenegraph

// Transparency is the blending mode of a material.
type Transparency int

const (
	TransparencyNone Transparency = iota
	TransparencyAlpha
)

// UVMapAlgorithm selects how UV offset, scale and rotation combine.
type UVMapAlgorithm int

const (
	UVMapAlgorithm3DSMax UVMapAlgorithm = iota
	UVMapAlgorithmMaya
)

// TextureUsage is the material channel a texture stage feeds.
type TextureUsage int

const (
	TextureDiffuse TextureUsage = iota
	TextureSpecular
	TextureEmissive
	TextureBump
	TextureDisplacement
	TextureNormal
	TextureReflection
	TextureOpacity
)

func (u TextureUsage) String() string {
	switch u {
	case TextureDiffuse:
		return "diffuse"
	case TextureSpecular:
		return "specular"
	case TextureEmissive:
		return "emissive"
	case TextureBump:
		return "bump"
	case TextureDisplacement:
		return "displacement"
	case TextureNormal:
		return "normal"
	case TextureReflection:
		return "reflection"
	case TextureOpacity:
		return "opacity"
	}
	return "unknown"
}

// Material is a portable surface description.
type Material struct {
	Name string

	Diffuse  [4]float32
	Ambient  [4]float32
	Specular [4]float32
	Emissive [4]float32

	SpecularMultiplier float32
	SpecularExponent   float32
	Transparency       Transparency

	UVMapOffset    [2]float32
	UVMapScale     [2]float32
	UVMapRotation  float32
	UVMapAlgorithm UVMapAlgorithm

	Stages          []TextureStage
	AttributeGroups []*AttributeGroup
}

// Stage returns the first stage with the given usage.
func (m *Material) Stage(usage TextureUsage) (TextureStage, bool) {
	for _, s := range m.Stages {
		if s.Usage == usage {
			return s, true
		}
	}
	return TextureStage{}, false
}

// TextureStage binds a texture file to a material channel.
type TextureStage struct {
	Texture         *TextureFile
	Usage           TextureUsage
	TexCoordChannel int
}

// TextureFile is a shared external texture reference.
type TextureFile struct {
	Name             string
	Filename         string
	OriginalFilename string
	// RefCount is the number of stages referring to this file.
	RefCount int
}
