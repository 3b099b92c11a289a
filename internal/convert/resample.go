package convert

import (
	stdmath "math"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/sceneconv/pkg/math"
	"github.com/Faultbox/sceneconv/pkg/scenegraph"
	"github.com/Faultbox/sceneconv/pkg/source"
)

// annotationPrefix marks enum properties whose key changes become annotations.
const annotationPrefix = "HK"

var transformProperties = []string{source.LclTranslation, source.LclRotation, source.LclScaling}

func toMat4(m mgl64.Mat4) math.Mat4 {
	return math.FromFloat64([16]float64(m))
}

// resample fills the keyframes, annotations and hints of out. The rig and
// zero length takes get a single sample at their start.
func (c *Converter) resample(tc *takeContext, n *source.Node, out *scenegraph.Node) {
	if tc.rig || tc.start == tc.stop {
		out.Keyframes = []math.Mat4{toMat4(n.LocalTransform(tc.layers, tc.start))}
		return
	}

	annotate := c.opts.ExportAnnotations && len(tc.layers) > 0
	var markers []*source.Property
	if annotate {
		markers = annotationProperties(n, tc.layers[0])
	}

	samples := tc.scene.NumFrames + 1
	keys := make([]math.Mat4, 0, samples)
	static := true
	prior := tc.stop
	for i := 0; i < samples; i++ {
		t := tc.sampleTime(i)
		m := toMat4(n.LocalTransform(tc.layers, t))
		if i > 0 && m != keys[0] {
			static = false
		}
		keys = append(keys, m)

		for _, p := range markers {
			if a, ok := annotation(tc, p, tc.layers[0], t, prior); ok {
				out.Annotations = append(out.Annotations, a)
			}
		}
		prior = t
	}

	if static {
		if len(keys) > 1 {
			keys = []math.Mat4{keys[0], keys[0]}
		} else {
			keys = keys[:1]
		}
	}
	out.Keyframes = keys

	if c.opts.StoreKeyframeSamplePoints && len(out.Keyframes) > 2 && len(tc.layers) > 0 {
		out.LinearKeyFrameHints = keyframeHints(tc, n, tc.layers[0])
	}
}

func annotationProperties(n *source.Node, layer *source.Layer) []*source.Property {
	var out []*source.Property
	for _, p := range n.Properties {
		if p.Type != source.PropertyEnum {
			continue
		}
		if !strings.HasPrefix(strings.ToUpper(p.Name), annotationPrefix) {
			continue
		}
		if p.CurveNode(layer).Curve(0) == nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

// annotation reports an annotation when the key in effect at t differs
// from the key in effect at prior.
func annotation(tc *takeContext, p *source.Property, layer *source.Layer, t, prior source.Time) (scenegraph.Annotation, bool) {
	curve := p.CurveNode(layer).Curve(0)
	key := curve.KeyFind(t)
	if key == curve.KeyFind(prior) {
		return scenegraph.Annotation{}, false
	}

	at := t
	if key < 0 {
		at = prior
	}
	v := int(stdmath.Round(curve.Evaluate(at)))
	return scenegraph.Annotation{
		Time:        tc.relativeSeconds(t),
		Description: p.Name + p.EnumLabel(v),
	}, true
}

// keyframeHints collects the key times of the transform curves on layer,
// relative to the take start and clamped to the take window, sorted and
// without duplicates.
func keyframeHints(tc *takeContext, n *source.Node, layer *source.Layer) []float32 {
	start := tc.start
	if start < 0 {
		start = 0
	}
	stop := tc.stop
	seen := make(map[float32]bool)
	var hints []float32

	add := func(t source.Time) {
		var rel float32
		switch {
		case t < start:
			rel = 0
		case t > stop:
			rel = tc.relativeSeconds(stop)
		default:
			rel = tc.relativeSeconds(t)
		}
		if !seen[rel] {
			seen[rel] = true
			hints = append(hints, rel)
		}
	}

	for _, name := range transformProperties {
		cn := n.Property(name).CurveNode(layer)
		for _, t := range cn.KeyTimes() {
			add(t)
		}
	}
	sort.Slice(hints, func(i, j int) bool { return hints[i] < hints[j] })
	return hints
}
