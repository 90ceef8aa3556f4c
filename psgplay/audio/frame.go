package audio

import "math"

// Frame is one output sample pair. Mono sources carry the same value in both
// channels. Values are unclamped chip sums.
type Frame struct {
	Left  int32
	Right int32
}

// MonoFrame builds a frame from a mono sample.
func MonoFrame(s int16) Frame {
	return Frame{Left: int32(s), Right: int32(s)}
}

// Clamp16 narrows an unclamped sum to the signed 16-bit range.
func Clamp16(v int32) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// Interleave appends frames to dst as interleaved, clamped 16-bit samples.
func Interleave(dst []int16, frames []Frame) []int16 {
	for _, f := range frames {
		dst = append(dst, Clamp16(f.Left), Clamp16(f.Right))
	}
	return dst
}
