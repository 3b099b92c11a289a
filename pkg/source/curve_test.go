package source

import (
	"math"
	"testing"
)

func TestSecondsRoundTrip(t *testing.T) {
	if Seconds(1) != TicksPerSecond {
		t.Fatalf("Seconds(1) = %d, want %d", Seconds(1), TicksPerSecond)
	}
	if got := Seconds(0.5).Seconds(); got != 0.5 {
		t.Errorf("round trip: got %v, want 0.5", got)
	}
	if got := FrameDuration(30); got != 1539538600 {
		t.Errorf("FrameDuration(30) = %d, want 1539538600", got)
	}
	if FrameDuration(0) != 0 {
		t.Error("FrameDuration(0) should be 0")
	}
}

func TestTimeSpanFrameCount(t *testing.T) {
	tests := []struct {
		start, stop float64
		fps         float64
		want        int
	}{
		{0, 1, 30, 30},
		{0, 2, 24, 48},
		{1, 1.5, 30, 15},
		{0, 0, 30, 0},
	}
	for _, tt := range tests {
		s := TimeSpan{Start: Seconds(tt.start), Stop: Seconds(tt.stop)}
		if got := s.FrameCount(tt.fps); got != tt.want {
			t.Errorf("FrameCount(%v..%v @%v) = %d, want %d", tt.start, tt.stop, tt.fps, got, tt.want)
		}
	}
}

func TestCurveKeyFind(t *testing.T) {
	c := NewCurve(
		Key{Time: 20, Value: 2},
		Key{Time: 0, Value: 0},
		Key{Time: 10, Value: 1},
	)

	tests := []struct {
		t    Time
		want int
	}{
		{-5, -1},
		{0, 0},
		{5, 0},
		{10, 1},
		{19, 1},
		{20, 2},
		{100, 2},
	}
	for _, tt := range tests {
		if got := c.KeyFind(tt.t); got != tt.want {
			t.Errorf("KeyFind(%d) = %d, want %d", tt.t, got, tt.want)
		}
	}

	var nilCurve *Curve
	if nilCurve.KeyFind(0) != -1 {
		t.Error("nil curve KeyFind should be -1")
	}
}

func TestCurveEvaluate(t *testing.T) {
	c := NewCurve(
		Key{Time: 0, Value: 0},
		Key{Time: 10, Value: 10, Interpolation: InterpolationConstant},
		Key{Time: 20, Value: 20},
	)

	tests := []struct {
		name string
		t    Time
		want float64
	}{
		{"before first", -10, 0},
		{"first key", 0, 0},
		{"linear midpoint", 5, 5},
		{"constant segment", 15, 10},
		{"last key", 20, 20},
		{"after last", 50, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Evaluate(tt.t); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Evaluate(%d) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}

	if (&Curve{}).Evaluate(5) != 0 {
		t.Error("empty curve should evaluate to 0")
	}
}

func TestCurveNodeLookup(t *testing.T) {
	x := NewCurve(Key{Time: 0, Value: 1})
	z := NewCurve(Key{Time: 5, Value: 2}, Key{Time: 9, Value: 3})
	n := &CurveNode{Channels: []Channel{{Name: "X", Curve: x}, {Name: "Y"}, {Name: "Z", Curve: z}}}

	if n.Curve(0) != x || n.Curve(1) != nil || n.Curve(2) != z || n.Curve(3) != nil {
		t.Error("Curve(i) returned the wrong curves")
	}
	if n.ChannelCurve("Z") != z || n.ChannelCurve("W") != nil {
		t.Error("ChannelCurve returned the wrong curves")
	}
	if got := n.KeyTimes(); len(got) != 3 {
		t.Errorf("KeyTimes: got %v, want 3 times", got)
	}

	var none *CurveNode
	if none.Curve(0) != nil || none.KeyTimes() != nil {
		t.Error("nil curve node should have no curves")
	}
}

func TestPropertyEvaluate(t *testing.T) {
	base := &Layer{Name: "Base"}
	over := &Layer{Name: "Over"}

	p := NewProperty(LclTranslation, PropertyVector3, 1, 2, 3)
	p.SetCurveNode(over, &CurveNode{Channels: []Channel{
		{Name: "X", Curve: NewCurve(Key{Time: 0, Value: 10}, Key{Time: 10, Value: 20})},
		{Name: "Y"},
		{Name: "Z"},
	}})

	if got := p.Evaluate(nil, 0, 5); got != 1 {
		t.Errorf("no layers: got %v, want static 1", got)
	}
	if got := p.Evaluate([]*Layer{base, over}, 0, 5); got != 15 {
		t.Errorf("animated X: got %v, want 15", got)
	}
	if got := p.Evaluate([]*Layer{base, over}, 1, 5); got != 2 {
		t.Errorf("unanimated Y: got %v, want static 2", got)
	}
	if got := p.EvaluateAll([]*Layer{over}, 10); got[0] != 20 || got[2] != 3 {
		t.Errorf("EvaluateAll: got %v", got)
	}
	if p.FirstCurve([]*Layer{base}) != nil {
		t.Error("base layer has no curve")
	}
	if p.FirstCurve([]*Layer{base, over}) == nil {
		t.Error("expected the X curve on the override layer")
	}
	if !p.Animated() {
		t.Error("property should report animated")
	}
}

func TestPropertyTypeNames(t *testing.T) {
	for typ := PropertyUnknown; typ <= PropertyBlob; typ++ {
		got, ok := ParsePropertyType(typ.String())
		if !ok || got != typ {
			t.Errorf("ParsePropertyType(%q) = %v, %v", typ.String(), got, ok)
		}
	}
	if _, ok := ParsePropertyType("quaternion"); ok {
		t.Error("unexpected property type")
	}
}
