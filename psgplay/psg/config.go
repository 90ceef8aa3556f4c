package psg

import "fmt"

// Flags are the miscellaneous behaviour flags of a chip configuration.
type Flags uint8

const (
	// FlagPeriodZeroIs400 treats a tone period of 0 as 0x400 instead of
	// holding the output high.
	FlagPeriodZeroIs400 Flags = 1 << iota
	// FlagOutputNegate inverts the mixed output.
	FlagOutputNegate
	// FlagStereoOff disables the Game Gear stereo register.
	FlagStereoOff
	// FlagClockDivider is the /8 clock divider flag. It is carried but has no effect.
	FlagClockDivider
)

// Has reports whether all bits of f are set.
func (fl Flags) Has(f Flags) bool {
	return fl&f == f
}

// Config describes one PSG instance.
type Config struct {
	Clock      uint32 // input clock in Hz, variant bits already removed
	Feedback   uint16 // white noise tap pattern
	ShiftWidth uint8  // noise shift register width in bits
	Flags      Flags

	// Variant indicators taken from the raw clock field. Informational only.
	T6W28    bool
	DualChip bool
}

// DefaultConfig returns the configuration of a Sega-style PSG at the given clock.
func DefaultConfig(clock uint32) Config {
	return Config{
		Clock:      clock,
		Feedback:   DefaultFeedback,
		ShiftWidth: DefaultShiftWidth,
	}
}

// Validate checks that the configuration can drive a chip.
func (c Config) Validate() error {
	if c.Clock < clockDivider {
		return fmt.Errorf("%w: %d Hz", ErrInvalidClock, c.Clock)
	}
	if c.ShiftWidth == 0 || c.ShiftWidth > 16 {
		return fmt.Errorf("%w: %d bits", ErrInvalidShiftWidth, c.ShiftWidth)
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("clock=%dHz feedback=0x%04X width=%d flags=0x%02X", c.Clock, c.Feedback, c.ShiftWidth, uint8(c.Flags))
}
