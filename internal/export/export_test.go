package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/sceneconv/pkg/scenegraph"
)

func TestOutputName(t *testing.T) {
	tests := []struct {
		name  string
		index int
		root  string
		want  string
	}{
		{"rig keeps base", 0, "ROOT_NODE", "hero"},
		{"take appends root", 1, "walk", "hero_walk"},
		{"invalid characters", 2, `run fast/v2.1:a*b?|<x>\y`, "hero_run_fast_v2_1_a_b___x__y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := &scenegraph.Scene{RootNode: &scenegraph.Node{Name: tt.root}}
			if got := OutputName("hero", tt.index, sc); got != tt.want {
				t.Errorf("OutputName = %q, want %q", got, tt.want)
			}
		})
	}
	if got := OutputName("hero", 3, &scenegraph.Scene{}); got != "hero" {
		t.Errorf("rootless scene = %q", got)
	}
}

func TestBaseName(t *testing.T) {
	tests := map[string]string{
		"scenes/hero.yaml": "hero",
		"hero.scene.yaml":  "hero",
		"/abs/path/noext":  "noext",
		".hidden":          ".hidden",
	}
	for in, want := range tests {
		if got := BaseName(in); got != want {
			t.Errorf("BaseName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats([]string{"hkt", " GLB ", "fbx"})
	if err != nil {
		t.Fatalf("ParseFormats: %v", err)
	}
	want := []Format{FormatTag, FormatGLB, FormatFBX}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("format %d = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := ParseFormats([]string{"obj"}); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
	if _, err := NewWriter("obj", zap.NewNop()); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("NewWriter: expected ErrUnknownFormat, got %v", err)
	}
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	scenes := []*scenegraph.Scene{testScene("ROOT_NODE"), testScene("walk cycle")}
	formats := []Format{FormatTag, FormatGLB, FormatFBX}

	paths, err := WriteAll(context.Background(), scenes, dir, "hero", formats, zap.NewNop())
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	want := []string{
		"hero.hkt.yaml", "hero.glb", "hero.fbx",
		"hero_walk_cycle.hkt.yaml", "hero_walk_cycle.glb", "hero_walk_cycle.fbx",
	}
	if len(paths) != len(want) {
		t.Fatalf("wrote %d files: %v", len(paths), paths)
	}
	for i, name := range want {
		if paths[i] != filepath.Join(dir, name) {
			t.Errorf("path %d = %s, want %s", i, paths[i], name)
		}
		info, err := os.Stat(paths[i])
		if err != nil {
			t.Errorf("stat %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestWriteAllNameCollisions(t *testing.T) {
	dir := t.TempDir()
	scenes := []*scenegraph.Scene{
		testScene("ROOT_NODE"),
		testScene("run.fast"),
		testScene("run fast"),
		testScene("run?fast"),
	}
	core, logs := observer.New(zap.WarnLevel)

	paths, err := WriteAll(context.Background(), scenes, dir, "hero", []Format{FormatTag}, zap.New(core))
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	want := []string{"hero.hkt.yaml", "hero_run_fast.hkt.yaml", "hero_run_fast_2.hkt.yaml", "hero_run_fast_3.hkt.yaml"}
	if len(paths) != len(want) {
		t.Fatalf("wrote %d files: %v", len(paths), paths)
	}
	for i, name := range want {
		if paths[i] != filepath.Join(dir, name) {
			t.Errorf("path %d = %s, want %s", i, paths[i], name)
		}
		if _, err := os.Stat(paths[i]); err != nil {
			t.Errorf("stat %s: %v", name, err)
		}
	}
	if got := logs.FilterMessage("output name collision, suffix added").Len(); got != 2 {
		t.Errorf("collision warnings = %d, want 2", got)
	}
}

func TestWriteAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	paths, err := WriteAll(ctx, []*scenegraph.Scene{testScene("ROOT_NODE")}, dir, "hero", []Format{FormatTag}, zap.NewNop())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("nothing should be written, got %v", paths)
	}
}

func TestWriteToUnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	w, _ := NewWriter(FormatTag, zap.NewNop())
	// a regular file cannot be used as a directory
	if err := w.Write(context.Background(), testScene("r"), filepath.Join(blocker, "out.hkt.yaml")); err == nil {
		t.Error("expected an error")
	}
}
