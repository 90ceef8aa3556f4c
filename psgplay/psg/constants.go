package psg

// Chip timing and reset values.
const (
	// DefaultSampleRate is used when a rate of 0 is requested.
	DefaultSampleRate = 44100

	// clockDivider is the fixed divider between the input clock and the
	// internal tick rate.
	clockDivider = 16

	// phaseBits is the width of the fractional base phase accumulator.
	phaseBits = 24
	phaseMask = 1<<phaseBits - 1

	// converterOne is the fixed-point unit of the accurate rate converter.
	converterOne = 1 << 31

	seedReset = 0x8000

	// Wrap thresholds of the tone and noise phase counters.
	toneWrapBit  = 0x400
	noiseWrapBit = 0x100

	// periodZeroAlt replaces a zero period when FlagPeriodZeroIs400 is set.
	periodZeroAlt = 0x400

	stereoAllOn = 0xFF

	silent = 0x0F

	// amplitudeShift scales volume table entries into the 16-bit channel accumulators.
	amplitudeShift = 4
)

// Default values for configuration fields absent from older recordings.
const (
	DefaultFeedback   = 0x0009
	DefaultShiftWidth = 16
)

// volumeTable maps a 4-bit attenuation to amplitude, roughly 2dB per step.
// Index 15 is silence.
var volumeTable = [16]int16{
	255, 203, 161, 128, 101, 80, 64, 51, 40, 32, 25, 20, 16, 12, 10, 0,
}

// Volume returns the volume table amplitude for an attenuation index.
func Volume(attenuation uint8) int16 {
	return volumeTable[attenuation&0x0F]
}

// noiseBasePeriod is the fastest noise shift period in internal ticks. Shift
// rate n selects noiseBasePeriod << n.
const noiseBasePeriod = 32
