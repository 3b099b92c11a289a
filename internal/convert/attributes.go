package convert

import (
	stdmath "math"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneconv/pkg/math"
	"github.com/Faultbox/sceneconv/pkg/scenegraph"
	"github.com/Faultbox/sceneconv/pkg/source"
)

// groupPrefix opens an attribute group when it starts a string property name.
const groupPrefix = "hktype"

// sampleAttributes converts the grouped properties of owner. Properties
// before the first group marker, hidden properties and unsupported types
// are skipped; empty groups are dropped.
func (c *Converter) sampleAttributes(tc *takeContext, props source.PropertySet, owner string) []*scenegraph.AttributeGroup {
	var groups []*scenegraph.AttributeGroup
	var cur *scenegraph.AttributeGroup

	for _, p := range props {
		if p.Type == source.PropertyString && strings.HasPrefix(strings.ToLower(p.Name), groupPrefix) {
			cur = &scenegraph.AttributeGroup{Name: groupName(p)}
			groups = append(groups, cur)
			continue
		}
		if cur == nil || p.Hidden {
			continue
		}

		v, ok := c.sampleProperty(tc, p)
		if !ok {
			c.log.Warn("unsupported attribute type",
				zap.String("owner", owner),
				zap.String("property", p.Name),
				zap.Stringer("type", p.Type))
			continue
		}
		cur.Attributes = append(cur.Attributes, &scenegraph.Attribute{Name: p.Name, Value: v})
	}

	kept := groups[:0]
	for _, g := range groups {
		if len(g.Attributes) > 0 {
			kept = append(kept, g)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

func groupName(p *source.Property) string {
	if p.String != "" {
		return p.String
	}
	return strings.TrimLeft(p.Name[len(groupPrefix):], "_")
}

// sampleCount is frames+1 when the property's first curve has more than
// one key, else 1.
func sampleCount(tc *takeContext, p *source.Property) int {
	if p.FirstCurve(tc.attrLayers).KeyCount() > 1 {
		return tc.scene.NumFrames + 1
	}
	return 1
}

// sampleProperty converts one property. It reports false for types that
// have no attribute representation.
func (c *Converter) sampleProperty(tc *takeContext, p *source.Property) (scenegraph.Value, bool) {
	layers := tc.attrLayers

	switch p.Type {
	case source.PropertyBool:
		v := &scenegraph.SparseBool{}
		sparse(tc, p, func(x float64, t float32) {
			b := x != 0
			if len(v.Values) == 0 || v.Values[len(v.Values)-1] != b {
				v.Values = append(v.Values, b)
				v.Times = append(v.Times, t)
			}
		})
		return v, true

	case source.PropertyInt:
		v := &scenegraph.SparseInt{}
		sparse(tc, p, func(x float64, t float32) {
			v.Values, v.Times = appendChange(v.Values, v.Times, int32(stdmath.Round(x)), t)
		})
		return v, true

	case source.PropertyEnum:
		v := &scenegraph.SparseEnum{Enum: enumTable(p)}
		sparse(tc, p, func(x float64, t float32) {
			v.Values, v.Times = appendChange(v.Values, v.Times, int32(stdmath.Round(x)), t)
		})
		return v, true

	case source.PropertyFloat, source.PropertyDouble:
		v := &scenegraph.DenseFloat{}
		for i := 0; i < sampleCount(tc, p); i++ {
			v.Floats = append(v.Floats, float32(p.Evaluate(layers, 0, tc.sampleTime(i))))
		}
		return v, true

	case source.PropertyDistance:
		scale := unitScale(tc, p)
		v := &scenegraph.DenseFloat{Hint: scenegraph.HintScale}
		for i := 0; i < sampleCount(tc, p); i++ {
			v.Floats = append(v.Floats, float32(p.Evaluate(layers, 0, tc.sampleTime(i))*scale))
		}
		return v, true

	case source.PropertyVector2, source.PropertyVector3, source.PropertyVector4,
		source.PropertyColor3, source.PropertyColor4:
		comps := p.Type.Components()
		v := &scenegraph.DenseVector{}
		for i := 0; i < sampleCount(tc, p); i++ {
			var vec [4]float32
			t := tc.sampleTime(i)
			for k := 0; k < comps; k++ {
				vec[k] = float32(p.Evaluate(layers, k, t))
			}
			v.Vectors = append(v.Vectors, vec)
		}
		return v, true

	case source.PropertyMatrix:
		v := &scenegraph.DenseMatrix{Hint: scenegraph.HintTransformAndScale}
		for i := 0; i < sampleCount(tc, p); i++ {
			var m math.Mat4
			t := tc.sampleTime(i)
			for k := range m {
				m[k] = float32(p.Evaluate(layers, k, t))
			}
			v.Matrices = append(v.Matrices, m)
		}
		return v, true

	case source.PropertyString:
		return &scenegraph.SparseString{Values: []string{p.String}, Times: []float32{0}}, true
	}
	return nil, false
}

// sparse evaluates component 0 at every sample and hands each value with
// its relative time to emit.
func sparse(tc *takeContext, p *source.Property, emit func(v float64, t float32)) {
	for i := 0; i < sampleCount(tc, p); i++ {
		t := tc.sampleTime(i)
		emit(p.Evaluate(tc.attrLayers, 0, t), tc.relativeSeconds(t))
	}
}

func appendChange(values []int32, times []float32, v int32, t float32) ([]int32, []float32) {
	if len(values) > 0 && values[len(values)-1] == v {
		return values, times
	}
	return append(values, v), append(times, t)
}

func enumTable(p *source.Property) *scenegraph.EnumTable {
	e := &scenegraph.EnumTable{Name: p.Name}
	for i, label := range p.EnumValues {
		e.Items = append(e.Items, scenegraph.EnumItem{Value: int32(i), Name: label})
	}
	return e
}

// unitScale converts distance property values into scene units.
func unitScale(tc *takeContext, p *source.Property) float64 {
	if p.Unit <= 0 || tc.src.UnitScale <= 0 {
		return 1
	}
	return p.Unit / tc.src.UnitScale
}
