package export

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildGLTF(t *testing.T) {
	doc := buildGLTF(testScene("ROOT_NODE"), zap.NewNop())

	if len(doc.Nodes) != 4 {
		t.Fatalf("nodes = %d, want 4", len(doc.Nodes))
	}
	names := []string{"ROOT_NODE", "hip", "body", "sun"}
	for i, want := range names {
		if doc.Nodes[i].Name != want {
			t.Errorf("node %d = %q, want %q", i, doc.Nodes[i].Name, want)
		}
	}
	if len(doc.Scenes[0].Nodes) != 1 || doc.Scenes[0].Nodes[0] != 0 {
		t.Errorf("scene roots = %v", doc.Scenes[0].Nodes)
	}
	if len(doc.Nodes[0].Children) != 3 {
		t.Errorf("root children = %v", doc.Nodes[0].Children)
	}

	hip := doc.Nodes[1]
	if hip.Translation != [3]float32{0, 1, 0} {
		t.Errorf("hip translation = %v", hip.Translation)
	}
	if hip.Rotation != [4]float32{0, 0, 0, 1} || hip.Scale != [3]float32{1, 1, 1} {
		t.Errorf("hip rotation=%v scale=%v", hip.Rotation, hip.Scale)
	}

	body := doc.Nodes[2]
	if body.Mesh == nil || *body.Mesh != 0 || body.Skin == nil || *body.Skin != 0 {
		t.Fatalf("body mesh=%v skin=%v", body.Mesh, body.Skin)
	}
	if len(doc.Skins) != 1 || len(doc.Skins[0].Joints) != 1 || doc.Skins[0].Joints[0] != 1 {
		t.Errorf("skins: %+v", doc.Skins)
	}
	if doc.Skins[0].InverseBindMatrices == nil {
		t.Error("skin should have inverse bind matrices")
	}

	prim := doc.Meshes[0].Primitives[0]
	for _, attr := range []string{"POSITION", "NORMAL", "COLOR_0", "TEXCOORD_0", "JOINTS_0", "WEIGHTS_0"} {
		if _, ok := prim.Attributes[attr]; !ok {
			t.Errorf("missing attribute %s", attr)
		}
	}
	if acc := doc.Accessors[prim.Attributes["POSITION"]]; acc.Count != 3 {
		t.Errorf("position count = %d", acc.Count)
	}
	if prim.Indices == nil || prim.Material == nil || *prim.Material != 0 {
		t.Errorf("primitive indices=%v material=%v", prim.Indices, prim.Material)
	}

	mat := doc.Materials[0]
	pbr := mat.PBRMetallicRoughness
	if mat.Name != "skin" || pbr == nil || pbr.BaseColorFactor == nil || *pbr.BaseColorFactor != [4]float32{1, 0.5, 0.25, 1} {
		t.Errorf("material: %+v", mat)
	}
	if pbr.BaseColorTexture == nil || pbr.BaseColorTexture.Index != 0 {
		t.Errorf("base color texture = %+v", pbr.BaseColorTexture)
	}
	if len(doc.Images) != 1 || doc.Images[0].URI != "textures/albedo.png" {
		t.Errorf("images: %+v", doc.Images)
	}
}

func TestGLTFMissingJointDropsSkin(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	sc := testScene("ROOT_NODE")
	sc.SkinBindings[0].NodeNames = []string{"elbow"}

	doc := buildGLTF(sc, zap.New(core))
	if len(doc.Skins) != 0 || doc.Nodes[2].Skin != nil {
		t.Error("skin with a missing joint should be dropped")
	}
	if doc.Nodes[2].Mesh == nil {
		t.Error("mesh should still be attached")
	}
	if logs.FilterMessage("skin joint not in scene, skin dropped").Len() != 1 {
		t.Errorf("expected a warning, got %v", logs.All())
	}
}

func TestGLBWriterOutputOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hero.glb")
	w := &GLBWriter{log: zap.NewNop()}
	if err := w.Write(context.Background(), testScene("ROOT_NODE"), path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	doc, err := gltf.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(doc.Nodes) != 4 || len(doc.Meshes) != 1 || len(doc.Skins) != 1 {
		t.Errorf("reopened: nodes=%d meshes=%d skins=%d", len(doc.Nodes), len(doc.Meshes), len(doc.Skins))
	}
}
