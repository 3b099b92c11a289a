package convert

import (
	stdmath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneconv/pkg/scenegraph"
	"github.com/Faultbox/sceneconv/pkg/source"
)

func convertCamera(c *source.Camera) *scenegraph.Camera {
	return &scenegraph.Camera{
		From:       vec3f(c.Position),
		Up:         vec3f(c.UpVector),
		Focus:      vec3f(c.InterestPosition),
		FOV:        float32(c.FieldOfViewY * stdmath.Pi / 180),
		Near:       float32(c.NearPlane),
		Far:        float32(c.FarPlane),
		LeftHanded: false,
	}
}

// convertLight reports false for lights that cannot be represented.
func (c *Converter) convertLight(tc *takeContext, n *source.Node, l *source.Light) (*scenegraph.Light, bool) {
	local := n.LocalTransform(tc.layers, tc.start)

	out := &scenegraph.Light{
		Position: [3]float32{float32(local[12]), float32(local[13]), float32(local[14])},
		// lights shine down their negative Y axis
		Direction:    [3]float32{float32(-local[4]), float32(-local[5]), float32(-local[6])},
		Color:        packARGB(l.Color[0], l.Color[1], l.Color[2], 1),
		Intensity:    float32(l.Intensity),
		DecayRate:    l.DecayType,
		ShadowCaster: l.CastShadows,
	}

	var rng float64
	switch l.Type {
	case source.LightPoint:
		if l.DecayType == source.DecayNone {
			c.log.Warn("point light without decay dropped", zap.String("node", n.Name))
			return nil, false
		}
		out.Type = scenegraph.LightPoint
		rng = stdmath.Pow(l.Intensity/0.01, 1/float64(l.DecayType))
	case source.LightDirectional:
		out.Type = scenegraph.LightDirectional
		rng = l.FarAttenuationEnd
	case source.LightSpot:
		out.Type = scenegraph.LightSpot
		rng = l.FarAttenuationEnd
		out.Angle = float32(l.InnerAngle * stdmath.Pi / 180)
	default:
		c.log.Warn("unsupported light type, exported as directional",
			zap.String("node", n.Name), zap.Stringer("type", l.Type))
		out.Type = scenegraph.LightDirectional
	}

	out.Range = float32(rng)
	out.FadeStart = float32(2 * rng)
	out.FadeEnd = float32(3 * rng)
	return out, true
}

// convertSpline reads control points as (tangent-in, point, tangent-out)
// triples. Tangents wrap around only on closed curves.
func convertSpline(s *source.NurbsCurve) *scenegraph.Spline {
	cps := s.ControlPoints
	n := len(cps)
	out := &scenegraph.Spline{IsClosed: s.Closed}

	for i := 0; i < n; i += 3 {
		in := cps[max(0, i-1)]
		if s.Closed && i == 0 {
			in = cps[n-1]
		}
		next := cps[min(i+1, n-1)]
		if s.Closed && i+1 == n {
			next = cps[0]
		}
		out.ControlPoints = append(out.ControlPoints, scenegraph.ControlPoint{
			Position:   vec3f4(cps[i]),
			TangentIn:  vec3f4(in),
			TangentOut: vec3f4(next),
			InType:     scenegraph.TangentCustom,
			OutType:    scenegraph.TangentCustom,
		})
	}
	return out
}

func vec3f(v [3]float64) [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}

func vec3f4(v [4]float64) [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}
