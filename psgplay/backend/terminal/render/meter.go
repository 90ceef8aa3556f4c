package render

import (
	"fmt"
	"math"
	"strings"
)

// partial blocks in eighths, index 0 is empty
var eighths = []rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉'}

// Bar renders fraction (clamped to 0-1) as a horizontal bar width cells wide.
func Bar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	fraction = math.Max(0, math.Min(1, fraction))

	steps := int(math.Round(fraction * float64(width*8)))
	full, part := steps/8, steps%8

	var sb strings.Builder
	sb.WriteString(strings.Repeat("█", full))
	if full < width {
		sb.WriteRune(eighths[part])
		sb.WriteString(strings.Repeat(" ", width-full-1))
	}
	return sb.String()
}

// ToneFrequency returns the square wave frequency of a tone period at the
// given chip clock. Periods of 0 and 1 do not oscillate and return 0.
func ToneFrequency(clock uint32, period uint16) float64 {
	if period <= 1 {
		return 0
	}
	return float64(clock) / (32 * float64(period))
}

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName returns the nearest equal-tempered note for freq, e.g. "A4", or
// "--" outside the audible range.
func NoteName(freq float64) string {
	if freq < 20 || freq > 20000 {
		return "--"
	}
	midi := int(math.Round(69 + 12*math.Log2(freq/440)))
	return fmt.Sprintf("%s%d", noteNames[midi%12], midi/12-1)
}
