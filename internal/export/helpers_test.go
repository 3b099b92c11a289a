package export

import (
	"github.com/Faultbox/sceneconv/pkg/math"
	"github.com/Faultbox/sceneconv/pkg/scenegraph"
)

// testScene builds a small skinned scene: a root with a bone "hip", a
// skinned triangle "body" and a light.
func testScene(rootName string) *scenegraph.Scene {
	var desc scenegraph.VertexDesc
	pos := desc.Add(scenegraph.UsagePosition, scenegraph.TypeFloat32, 4)
	nrm := desc.Add(scenegraph.UsageNormal, scenegraph.TypeFloat32, 4)
	col := desc.Add(scenegraph.UsageColor, scenegraph.TypeUint32, 1)
	uv := desc.Add(scenegraph.UsageTexCoord, scenegraph.TypeFloat32, 2)
	w := desc.Add(scenegraph.UsageBlendWeights, scenegraph.TypeUint8, 4)
	idx := desc.Add(scenegraph.UsageBlendIndices, scenegraph.TypeUint8, 4)

	vb := scenegraph.NewVertexBuffer(desc, 3)
	corners := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	for v, c := range corners {
		vb.PutFloats(v, pos, c[0], c[1], c[2], 0)
		vb.PutFloats(v, nrm, 0, 0, 1, 0)
		vb.PutUint32(v, col, 0xFFFF7F00)
		vb.PutFloats(v, uv, c[0], c[1])
		vb.PutUint32(v, w, 0xFF000000)
		vb.PutUint32(v, idx, 0)
	}

	tex := &scenegraph.TextureFile{Name: "albedo", Filename: "textures/albedo.png", OriginalFilename: "textures/albedo.png", RefCount: 1}
	mat := &scenegraph.Material{
		Name:             "skin",
		Diffuse:          [4]float32{1, 0.5, 0.25, 1},
		Specular:         [4]float32{0.5, 0.5, 0.5, 75},
		SpecularExponent: 75,
		UVMapScale:       [2]float32{1, 1},
		Stages:           []scenegraph.TextureStage{{Texture: tex, Usage: scenegraph.TextureDiffuse}},
	}
	mesh := &scenegraph.Mesh{
		Name: "body",
		Sections: []*scenegraph.MeshSection{{
			VertexBuffer: vb,
			IndexBuffer:  &scenegraph.IndexBuffer{Type: scenegraph.IndexTriList, Indices: []uint32{0, 1, 2}},
			Material:     mat,
		}},
	}
	binding := &scenegraph.SkinBinding{
		Name:              "body",
		Mesh:              mesh,
		NodeNames:         []string{"hip"},
		BindPose:          []math.Mat4{math.Translate(0, 1, 0)},
		InitSkinTransform: math.Identity(),
	}
	light := &scenegraph.Light{Type: scenegraph.LightDirectional, Direction: [3]float32{0, -1, 0}, Color: 0xFFFFFFFF, Intensity: 1}

	root := &scenegraph.Node{Name: rootName, Keyframes: []math.Mat4{math.Identity()}}
	hip := &scenegraph.Node{
		Name:      "hip",
		Bone:      true,
		Keyframes: []math.Mat4{math.Translate(0, 1, 0), math.Translate(0, 2, 0)},
		AttributeGroups: []*scenegraph.AttributeGroup{{
			Name: "Ragdoll",
			Attributes: []*scenegraph.Attribute{
				{Name: "mass", Value: &scenegraph.DenseFloat{Floats: []float32{12}}},
				{Name: "step", Value: &scenegraph.SparseEnum{
					Values: []int32{0, 1},
					Times:  []float32{0, 0.5},
					Enum:   &scenegraph.EnumTable{Name: "step", Items: []scenegraph.EnumItem{{Value: 0, Name: "none"}, {Value: 1, Name: "left"}}},
				}},
			},
		}},
		Annotations: []scenegraph.Annotation{{Time: 0.5, Description: "HKFootstepleft"}},
	}
	body := &scenegraph.Node{Name: "body", Keyframes: []math.Mat4{math.Identity()}, Object: binding}
	sun := &scenegraph.Node{Name: "sun", Keyframes: []math.Mat4{math.Identity()}, Object: light}
	root.AddChild(hip)
	root.AddChild(body)
	root.AddChild(sun)

	return &scenegraph.Scene{
		Modeller:         "FBX [Maya 2024]",
		Asset:            "hero.fbx",
		SceneLength:      1,
		NumFrames:        1,
		RootNode:         root,
		Meshes:           []*scenegraph.Mesh{mesh},
		Materials:        []*scenegraph.Material{mat},
		SkinBindings:     []*scenegraph.SkinBinding{binding},
		Lights:           []*scenegraph.Light{light},
		ExternalTextures: []*scenegraph.TextureFile{tex},
	}
}
