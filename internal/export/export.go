// Package export writes converted scenes to disk.
//
// Three formats are supported: a YAML tag file that mirrors the scene graph,
// a binary glTF for previewing, and an FBX 7400 document for round trips
// into DCC tools.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneconv/internal/logger"
	"github.com/Faultbox/sceneconv/pkg/encoding"
	"github.com/Faultbox/sceneconv/pkg/scenegraph"
)

// Format names an output format.
type Format string

const (
	FormatTag Format = "hkt"
	FormatGLB Format = "glb"
	FormatFBX Format = "fbx"
)

// ErrUnknownFormat is returned for format names without a writer.
var ErrUnknownFormat = errors.New("unknown output format")

// Extension returns the file suffix written for f.
func (f Format) Extension() string {
	switch f {
	case FormatTag:
		return ".hkt.yaml"
	case FormatGLB:
		return ".glb"
	case FormatFBX:
		return ".fbx"
	}
	return ""
}

// Writer serializes one scene to path.
type Writer interface {
	Write(ctx context.Context, scene *scenegraph.Scene, path string) error
}

// NewWriter returns the writer for format. A nil log uses the package logger.
func NewWriter(format Format, log *zap.Logger) (Writer, error) {
	if log == nil {
		log = logger.Named("export")
	}
	switch format {
	case FormatTag:
		return &TagWriter{}, nil
	case FormatGLB:
		return &GLBWriter{log: log}, nil
	case FormatFBX:
		return &FBXWriter{log: log}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ParseFormats validates a list of format names.
func ParseFormats(names []string) ([]Format, error) {
	out := make([]Format, 0, len(names))
	for _, n := range names {
		f := Format(strings.ToLower(strings.TrimSpace(n)))
		if f.Extension() == "" {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, n)
		}
		out = append(out, f)
	}
	return out, nil
}

const invalidNameChars = " ./?<>\\:*|"

// OutputName returns the file stem for scene index i. The first scene keeps
// base; later scenes get the sanitized name of their root appended.
func OutputName(base string, i int, scene *scenegraph.Scene) string {
	if i == 0 || scene == nil || scene.RootNode == nil {
		return base
	}
	return base + "_" + encoding.SanitizeName(scene.RootNode.Name, invalidNameChars)
}

// outputStems returns OutputName for every scene, suffixing _2, _3 and so
// on to names that sanitize to one already taken.
func outputStems(base string, scenes []*scenegraph.Scene, log *zap.Logger) []string {
	stems := make([]string, len(scenes))
	taken := make(map[string]bool, len(scenes))
	for i, sc := range scenes {
		name := OutputName(base, i, sc)
		stem := name
		for n := 2; taken[stem]; n++ {
			stem = fmt.Sprintf("%s_%d", name, n)
		}
		if stem != name {
			log.Warn("output name collision, suffix added",
				zap.String("name", name), zap.String("stem", stem))
		}
		taken[stem] = true
		stems[i] = stem
	}
	return stems
}

// BaseName strips the directory and every extension from an input path.
func BaseName(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}

// WriteAll writes every scene in every format under dir and returns the
// written paths in order.
func WriteAll(ctx context.Context, scenes []*scenegraph.Scene, dir, base string, formats []Format, log *zap.Logger) ([]string, error) {
	if log == nil {
		log = logger.Named("export")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating output directory %s", dir)
	}

	writers := make([]Writer, len(formats))
	for i, f := range formats {
		w, err := NewWriter(f, log)
		if err != nil {
			return nil, err
		}
		writers[i] = w
	}

	var written []string
	for i, stem := range outputStems(base, scenes, log) {
		sc := scenes[i]
		for k, w := range writers {
			if err := ctx.Err(); err != nil {
				return written, err
			}
			path := filepath.Join(dir, stem+formats[k].Extension())
			if err := w.Write(ctx, sc, path); err != nil {
				return written, err
			}
			log.Info("wrote scene", zap.String("path", path), zap.Int("frames", sc.NumFrames))
			written = append(written, path)
		}
	}
	return written, nil
}

// createFile opens path for writing, creating its directory.
func createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, "creating directory for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", path)
	}
	return f, nil
}
