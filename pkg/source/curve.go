package source

import "sort"

// Interpolation selects how a curve moves from one key to the next.
type Interpolation int

const (
	InterpolationLinear   Interpolation = iota // Straight line to the next key
	InterpolationConstant                      // Hold the value until the next key
)

// Key is one keyframe of a curve.
type Key struct {
	Time          Time
	Value         float64
	Interpolation Interpolation
}

// Curve is a scalar function of time defined by sorted keys.
type Curve struct {
	Keys []Key
}

// NewCurve returns a curve with its keys sorted by time.
func NewCurve(keys ...Key) *Curve {
	c := &Curve{Keys: append([]Key(nil), keys...)}
	sort.SliceStable(c.Keys, func(i, j int) bool { return c.Keys[i].Time < c.Keys[j].Time })
	return c
}

// KeyCount returns the number of keys.
func (c *Curve) KeyCount() int {
	if c == nil {
		return 0
	}
	return len(c.Keys)
}

// KeyFind returns the index of the last key at or before t, or -1 when t
// precedes every key.
func (c *Curve) KeyFind(t Time) int {
	if c == nil {
		return -1
	}
	// first key strictly after t
	i := sort.Search(len(c.Keys), func(i int) bool { return c.Keys[i].Time > t })
	return i - 1
}

// Evaluate returns the curve value at t. Values before the first key and
// after the last key are clamped.
func (c *Curve) Evaluate(t Time) float64 {
	if c.KeyCount() == 0 {
		return 0
	}
	i := c.KeyFind(t)
	if i < 0 {
		return c.Keys[0].Value
	}
	if i >= len(c.Keys)-1 {
		return c.Keys[len(c.Keys)-1].Value
	}

	k0, k1 := c.Keys[i], c.Keys[i+1]
	if k0.Interpolation == InterpolationConstant || k1.Time == k0.Time {
		return k0.Value
	}
	f := float64(t-k0.Time) / float64(k1.Time-k0.Time)
	return k0.Value + f*(k1.Value-k0.Value)
}

// Channel is one named component curve of a curve node.
type Channel struct {
	Name  string
	Curve *Curve
}

// CurveNode groups the component curves that animate one property on one layer.
type CurveNode struct {
	Channels []Channel
}

// Curve returns the curve of component i, or nil.
func (n *CurveNode) Curve(i int) *Curve {
	if n == nil || i < 0 || i >= len(n.Channels) {
		return nil
	}
	return n.Channels[i].Curve
}

// ChannelCurve returns the curve of the named component, or nil.
func (n *CurveNode) ChannelCurve(name string) *Curve {
	if n == nil {
		return nil
	}
	for _, ch := range n.Channels {
		if ch.Name == name {
			return ch.Curve
		}
	}
	return nil
}

// KeyTimes returns the times of every key on every channel.
func (n *CurveNode) KeyTimes() []Time {
	if n == nil {
		return nil
	}
	var times []Time
	for _, ch := range n.Channels {
		if ch.Curve == nil {
			continue
		}
		for _, k := range ch.Curve.Keys {
			times = append(times, k.Time)
		}
	}
	return times
}

// Layer is an animation layer of a take.
type Layer struct {
	Name string
}

// Take is a named animation clip with its own time span.
type Take struct {
	Name   string
	Span   TimeSpan
	Layers []*Layer
}

// Layer returns the named layer, or nil.
func (t *Take) Layer(name string) *Layer {
	for _, l := range t.Layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}
