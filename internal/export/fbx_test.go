package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/mogaika/fbx"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneconv/pkg/math"
)

func countNodes(parent *fbx.Node) map[string]int {
	out := make(map[string]int)
	for _, n := range parent.Nodes {
		out[n.Name]++
	}
	return out
}

func TestFBXDocumentObjects(t *testing.T) {
	d := newFBXDocument("hero.fbx", zap.NewNop())
	d.addScene(testScene("ROOT_NODE"))
	f := d.finish()

	counts := countNodes(d.objects)
	if counts["Model"] != 4 || counts["Geometry"] != 1 || counts["Material"] != 1 {
		t.Errorf("objects = %v", counts)
	}

	// 4 model parents, 1 geometry, 1 material
	if n := len(d.connections.Nodes); n != 6 {
		t.Errorf("connections = %d, want 6", n)
	}
	first := d.connections.Nodes[0]
	if first.Properties[0] != "OO" || first.Properties[2] != int64(0) {
		t.Errorf("root connection = %v", first.Properties)
	}

	classes := make(map[string]int)
	for _, m := range d.objects.GetNodes("Model") {
		classes[m.Properties[2].(string)]++
	}
	if classes["LimbNode"] != 1 || classes["Mesh"] != 1 || classes["Null"] != 2 {
		t.Errorf("model classes = %v", classes)
	}

	defs := f.Root.GetNode("Definitions")
	if defs == nil {
		t.Fatal("missing Definitions")
	}
	if got := defs.GetNode("Count").Properties[0]; got != int32(7) {
		t.Errorf("definition count = %v, want 7", got)
	}
	if n := len(defs.GetNodes("ObjectType")); n != 4 {
		t.Errorf("object types = %d, want 4", n)
	}
}

func TestFBXPolygonIndices(t *testing.T) {
	d := newFBXDocument("hero.fbx", zap.NewNop())
	d.addScene(testScene("ROOT_NODE"))

	geom := d.objects.GetNode("Geometry")
	idx, ok := geom.GetNode("PolygonVertexIndex").Properties[0].([]int32)
	if !ok {
		t.Fatalf("unexpected index property %T", geom.GetNode("PolygonVertexIndex").Properties[0])
	}
	want := []int32{0, 1, -3}
	if len(idx) != len(want) {
		t.Fatalf("indices = %v, want %v", idx, want)
	}
	for i := range want {
		if idx[i] != want[i] {
			t.Errorf("index %d = %d, want %d", i, idx[i], want[i])
		}
	}
	if geom.GetNode("LayerElementUV") == nil || geom.GetNode("LayerElementNormal") == nil {
		t.Error("expected normal and uv layers")
	}
}

func TestFBXWriterOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hero.fbx")
	w := &FBXWriter{log: zap.NewNop()}
	if err := w.Write(context.Background(), testScene("ROOT_NODE"), path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() < 100 {
		t.Errorf("fbx file is only %d bytes", info.Size())
	}
}

func TestEulerXYZ(t *testing.T) {
	tests := []struct {
		name  string
		axis  math.Vec3
		angle float32
		want  math.Vec3
	}{
		{"identity", math.Vec3{X: 1}, 0, math.Vec3{}},
		{"x 90", math.Vec3{X: 1}, math32.Pi / 2, math.Vec3{X: 90}},
		{"y 45", math.Vec3{Y: 1}, math32.Pi / 4, math.Vec3{Y: 45}},
		{"z -30", math.Vec3{Z: 1}, -math32.Pi / 6, math.Vec3{Z: -30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := eulerXYZ(math.QuatFromAxisAngle(tt.axis, tt.angle))
			if math32.Abs(got.X-tt.want.X) > 1e-3 || math32.Abs(got.Y-tt.want.Y) > 1e-3 || math32.Abs(got.Z-tt.want.Z) > 1e-3 {
				t.Errorf("eulerXYZ = %+v, want %+v", got, tt.want)
			}
		})
	}
}
