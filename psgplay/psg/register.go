package psg

import (
	"fmt"

	"github.com/valerio/go-psgplay/psgplay/bit"
)

// RegisterKind identifies which kind of register an address selects.
type RegisterKind uint8

const (
	RegisterTone RegisterKind = iota
	RegisterVolume
	RegisterNoiseControl
)

// Register is one of the eight internal registers, addressed by the 3-bit
// field of a latch byte: bits 2-1 select the channel, bit 0 selects volume.
type Register struct {
	Kind    RegisterKind
	Channel uint8 // 0-2 tone channels, 3 noise
}

// DecodeRegister maps a 3-bit register address to its register.
func DecodeRegister(address uint8) Register {
	channel := bit.ExtractBits(address, 2, 1)
	switch {
	case bit.IsSet(0, address):
		return Register{Kind: RegisterVolume, Channel: channel}
	case channel == noiseChannelIndex:
		return Register{Kind: RegisterNoiseControl, Channel: channel}
	default:
		return Register{Kind: RegisterTone, Channel: channel}
	}
}

// latchAddress extracts the register address from a latch byte (bits 6-4).
func latchAddress(value uint8) uint8 {
	return bit.ExtractBits(value, 6, 4)
}

// Address returns the 3-bit address of the register.
func (r Register) Address() uint8 {
	addr := r.Channel << 1
	if r.Kind == RegisterVolume {
		addr |= 1
	}
	return addr
}

func (r Register) String() string {
	switch r.Kind {
	case RegisterTone:
		return fmt.Sprintf("tone%d", r.Channel)
	case RegisterVolume:
		return fmt.Sprintf("volume%d", r.Channel)
	default:
		return "noise"
	}
}
