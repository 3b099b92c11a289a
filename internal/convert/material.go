package convert

import (
	"go.uber.org/zap"

	"github.com/Faultbox/sceneconv/pkg/scenegraph"
	"github.com/Faultbox/sceneconv/pkg/source"
)

// DefaultMaterialName names the material given to meshes without one.
const DefaultMaterialName = "default_material"

// MaxUVSets is the number of texture coordinate channels a vertex can carry.
const MaxUVSets = 8

var textureChannels = []struct {
	name  string
	usage scenegraph.TextureUsage
}{
	{source.ChannelDiffuse, scenegraph.TextureDiffuse},
	{source.ChannelSpecular, scenegraph.TextureSpecular},
	{source.ChannelEmissive, scenegraph.TextureEmissive},
	{source.ChannelBump, scenegraph.TextureBump},
	{source.ChannelDisplacement, scenegraph.TextureDisplacement},
	{source.ChannelNormalMap, scenegraph.TextureNormal},
	{source.ChannelReflection, scenegraph.TextureReflection},
	{source.ChannelTransparency, scenegraph.TextureOpacity},
}

func defaultMaterial(name string) *scenegraph.Material {
	return &scenegraph.Material{
		Name:             name,
		Diffuse:          [4]float32{1, 1, 1, 1},
		Specular:         [4]float32{0.5, 0.5, 0.5, 75},
		SpecularExponent: 75,
		UVMapScale:       [2]float32{1, 1},
		UVMapAlgorithm:   scenegraph.UVMapAlgorithm3DSMax,
	}
}

// material returns the converted first material of n, converting it on
// first use within the take.
func (c *Converter) material(tc *takeContext, n *source.Node, mesh *source.Mesh) *scenegraph.Material {
	if len(n.Materials) == 0 {
		if tc.defaultMaterial == nil {
			tc.defaultMaterial = defaultMaterial(DefaultMaterialName)
			tc.scene.Materials = append(tc.scene.Materials, tc.defaultMaterial)
		}
		return tc.defaultMaterial
	}
	if len(n.Materials) > 1 {
		c.log.Warn("only the first material of a mesh is converted",
			zap.String("node", n.Name), zap.Int("materials", len(n.Materials)))
	}

	src := n.Materials[0]
	if m, ok := tc.materials[src]; ok {
		return m
	}
	m := c.convertMaterial(tc, src, mesh)
	tc.materials[src] = m
	tc.scene.Materials = append(tc.scene.Materials, m)
	return m
}

func (c *Converter) convertMaterial(tc *takeContext, src *source.Material, mesh *source.Mesh) *scenegraph.Material {
	m := defaultMaterial(src.Name)
	if c.opts.ExportAttributes {
		m.AttributeGroups = c.sampleAttributes(tc, src.Properties, src.Name)
	}

	switch src.Shading {
	case source.ShadingPhong:
		m.Ambient = color4(src.Ambient, 1)
		m.Diffuse = color4(src.Diffuse, 1-src.TransparencyFactor)
		m.Emissive = color4(src.Emissive, 1)
		m.Specular = color4(src.Specular, src.Shininess)
		m.SpecularExponent = float32(src.Shininess)
		m.SpecularMultiplier = float32(src.SpecularFactor)
	case source.ShadingLambert:
		m.Ambient = color4(src.Ambient, 1)
		m.Diffuse = color4(src.Diffuse, 1-src.TransparencyFactor)
		m.Emissive = color4(src.Emissive, 1)
	default:
		c.log.Warn("unsupported shading model, using default material",
			zap.String("material", src.Name), zap.Stringer("shading", src.Shading))
		return m
	}

	c.convertTextures(tc, src, mesh, m)
	return m
}

func (c *Converter) convertTextures(tc *takeContext, src *source.Material, mesh *source.Mesh, m *scenegraph.Material) {
	for _, ch := range textureChannels {
		texs := src.ChannelTextures(ch.name)
		if len(texs) == 0 {
			continue
		}
		if ch.name == source.ChannelTransparency {
			m.Transparency = scenegraph.TransparencyAlpha
		}
		if len(texs) > 1 {
			c.log.Warn("multiple textures on one channel, using the first",
				zap.String("material", src.Name), zap.String("channel", ch.name))
		}

		t := texs[0]
		if t.Kind != source.TextureFile {
			c.log.Warn("unsupported texture kind",
				zap.String("material", src.Name),
				zap.String("channel", ch.name),
				zap.Stringer("kind", t.Kind))
			continue
		}

		m.UVMapOffset = [2]float32{float32(t.UVTranslation[0]), float32(t.UVTranslation[1])}
		m.UVMapScale = [2]float32{float32(t.UVScaling[0]), float32(t.UVScaling[1])}
		m.UVMapRotation = float32(t.RotationW)

		file, _ := c.textures.Acquire(t)
		if !tc.scene.HasTexture(file) {
			tc.scene.ExternalTextures = append(tc.scene.ExternalTextures, file)
		}
		m.Stages = append(m.Stages, scenegraph.TextureStage{
			Texture:         file,
			Usage:           ch.usage,
			TexCoordChannel: uvSetIndex(mesh, t.UVSet),
		})
	}
}

// uvSetIndex returns the index of the named UV set, or 0 when it is
// missing or beyond the channel limit.
func uvSetIndex(mesh *source.Mesh, name string) int {
	if mesh == nil {
		return 0
	}
	for i, uv := range mesh.UVSets {
		if uv.Name == name {
			if i >= MaxUVSets {
				return 0
			}
			return i
		}
	}
	return 0
}

func color4(c [3]float64, w float64) [4]float32 {
	return [4]float32{float32(c[0]), float32(c[1]), float32(c[2]), float32(w)}
}
