package convert

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/sceneconv/pkg/scenegraph"
	"github.com/Faultbox/sceneconv/pkg/source"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Logger = zap.NewNop()
	return opts
}

// observedOptions returns options whose logger records warnings.
func observedOptions() (Options, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	opts := DefaultOptions()
	opts.Logger = zap.New(core)
	return opts, logs
}

func key(sec, v float64) source.Key {
	return source.Key{Time: source.Seconds(sec), Value: v}
}

func stepKey(sec, v float64) source.Key {
	return source.Key{Time: source.Seconds(sec), Value: v, Interpolation: source.InterpolationConstant}
}

func newTake(name string, start, stop float64) *source.Take {
	return &source.Take{
		Name:   name,
		Span:   source.TimeSpan{Start: source.Seconds(start), Stop: source.Seconds(stop)},
		Layers: []*source.Layer{{Name: "BaseLayer"}},
	}
}

// animate puts a curve on component comp of p on layer.
func animate(p *source.Property, layer *source.Layer, comp int, keys ...source.Key) {
	cn := p.CurveNode(layer)
	if cn == nil {
		cn = &source.CurveNode{Channels: make([]source.Channel, max(p.Type.Components(), 1))}
		p.SetCurveNode(layer, cn)
	}
	cn.Channels[comp].Curve = source.NewCurve(keys...)
}

func newScene(children ...*source.Node) *source.Scene {
	s := source.NewScene()
	for _, c := range children {
		s.Root.AddChild(c)
	}
	return s
}

func convertScene(t *testing.T, opts Options, s *source.Scene) []*scenegraph.Scene {
	t.Helper()
	scenes, err := New(opts).Convert(context.Background(), s)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	return scenes
}

func findNode(t *testing.T, s *scenegraph.Scene, name string) *scenegraph.Node {
	t.Helper()
	n := s.RootNode.Find(name)
	if n == nil {
		t.Fatalf("node %q not found", name)
	}
	return n
}

func triangle() *source.Mesh {
	return &source.Mesh{
		ControlPoints: [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Polygons:      [][]int{{0, 1, 2}},
	}
}
