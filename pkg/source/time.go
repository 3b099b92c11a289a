package source

import "math"

// Time is a point on the scene timeline measured in ticks.
type Time int64

// TicksPerSecond is the timeline resolution.
const TicksPerSecond Time = 46186158000

// Seconds converts seconds to ticks, rounding to the nearest tick.
func Seconds(s float64) Time {
	return Time(math.Round(s * float64(TicksPerSecond)))
}

// Seconds returns t in seconds.
func (t Time) Seconds() float64 {
	return float64(t) / float64(TicksPerSecond)
}

// FrameDuration returns the length of one frame at fps frames per second.
func FrameDuration(fps float64) Time {
	if fps <= 0 {
		return 0
	}
	return Time(math.Round(float64(TicksPerSecond) / fps))
}

// TimeSpan is a closed interval of the timeline.
type TimeSpan struct {
	Start Time
	Stop  Time
}

// Duration returns Stop - Start.
func (s TimeSpan) Duration() Time {
	return s.Stop - s.Start
}

// FrameCount returns the number of whole frames in the span at fps.
func (s TimeSpan) FrameCount(fps float64) int {
	return int(math.Round(s.Duration().Seconds() * fps))
}
