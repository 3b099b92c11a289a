package export

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/yaml.v3"
)

func TestTagFileContents(t *testing.T) {
	doc := newTagFile(testScene("walk"))

	if doc.Version != TagVersion || doc.Modeller != "FBX [Maya 2024]" || doc.Asset != "hero.fbx" {
		t.Errorf("header: %q %q %q", doc.Version, doc.Modeller, doc.Asset)
	}
	if doc.Root == nil || doc.Root.Name != "walk" || len(doc.Root.Children) != 3 {
		t.Fatalf("root: %s", spew.Sdump(doc.Root))
	}

	hip, body, sun := doc.Root.Children[0], doc.Root.Children[1], doc.Root.Children[2]
	if !hip.Bone || len(hip.Keyframes) != 2 || hip.Keyframes[1][13] != 2 {
		t.Errorf("hip: %s", spew.Sdump(hip))
	}
	if body.Object == nil || *body.Object != (tagRef{Kind: "skin_binding", Index: 0}) {
		t.Errorf("body object = %+v", body.Object)
	}
	if sun.Object == nil || sun.Object.Kind != "light" {
		t.Errorf("sun object = %+v", sun.Object)
	}
	if len(hip.Annotations) != 1 || hip.Annotations[0].Description != "HKFootstepleft" {
		t.Errorf("annotations = %+v", hip.Annotations)
	}

	g := hip.Groups[0]
	if g.Name != "Ragdoll" || g.Attributes[0].Kind != "float" || g.Attributes[0].Hint != "none" {
		t.Errorf("group: %s", spew.Sdump(g))
	}
	step := g.Attributes[1]
	if step.Kind != "enum" || step.Enum == nil || step.Enum.Items[1] != "left" || len(step.Times) != 2 {
		t.Errorf("enum attribute: %s", spew.Sdump(step))
	}

	if len(doc.Meshes) != 1 || len(doc.Skins) != 1 || doc.Skins[0].Mesh != 0 {
		t.Fatalf("meshes=%d skins=%+v", len(doc.Meshes), doc.Skins)
	}
	sec := doc.Meshes[0].Sections[0]
	if sec.Material != 0 || sec.NumVertices != 3 || len(sec.Decls) != 6 {
		t.Errorf("section: material=%d vertices=%d decls=%d", sec.Material, sec.NumVertices, len(sec.Decls))
	}
	raw, err := base64.StdEncoding.DecodeString(sec.Vertices)
	if err != nil || len(raw) != sec.Stride*sec.NumVertices {
		t.Errorf("vertex data: %d bytes, err %v", len(raw), err)
	}
	if sec.Decls[3].Usage != "texcoord" || sec.Decls[3].Type != "float32" {
		t.Errorf("decl 3 = %+v", sec.Decls[3])
	}

	m := doc.Materials[0]
	if m.Transparency != "none" || len(m.Stages) != 1 || m.Stages[0].Texture != 0 || m.Stages[0].Usage != "diffuse" {
		t.Errorf("material: %s", spew.Sdump(m))
	}
	if doc.Lights[0].Type != "directional" {
		t.Errorf("light type = %q", doc.Lights[0].Type)
	}
}

func TestTagWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hero.hkt.yaml")
	if err := (&TagWriter{}).Write(context.Background(), testScene("ROOT_NODE"), path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Version   string `yaml:"version"`
		NumFrames int    `yaml:"num_frames"`
		Root      struct {
			Name     string `yaml:"name"`
			Children []struct {
				Name      string        `yaml:"name"`
				Keyframes [][16]float32 `yaml:"keyframes"`
			} `yaml:"children"`
		} `yaml:"root"`
		Textures []struct {
			Filename string `yaml:"filename"`
		} `yaml:"textures"`
	}
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, data)
	}

	if got.Version != TagVersion || got.NumFrames != 1 || got.Root.Name != "ROOT_NODE" {
		t.Errorf("header: %+v", got)
	}
	if len(got.Root.Children) != 3 || got.Root.Children[0].Keyframes[1][13] != 2 {
		t.Errorf("children: %+v", got.Root.Children)
	}
	if len(got.Textures) != 1 || got.Textures[0].Filename != "textures/albedo.png" {
		t.Errorf("textures: %+v", got.Textures)
	}
}
