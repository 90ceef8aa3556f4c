package vgm

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/valerio/go-psgplay/psgplay/psg"
)

// Header field offsets.
// Reference: https://vgmrips.net/wiki/VGM_Specification
const (
	offIdent        = 0x00
	offEOF          = 0x04
	offVersion      = 0x08
	offPSGClock     = 0x0C
	offYM2413Clock  = 0x10
	offGD3          = 0x14
	offTotalSamples = 0x18
	offLoop         = 0x1C
	offLoopSamples  = 0x20
	offRate         = 0x24
	offFeedback     = 0x28
	offShiftWidth   = 0x2A
	offFlags        = 0x2B
	offYM2612Clock  = 0x2C
	offYM2151Clock  = 0x30
	offDataOffset   = 0x34

	// HeaderSize is the length of the 1.00-1.50 header.
	HeaderSize = 0x40

	// legacyDataStart is where command data begins before version 1.50.
	legacyDataStart = 0x40
)

// Version thresholds (BCD) at which optional header fields appear.
const (
	version101 = 0x00000101
	version110 = 0x00000110
	version150 = 0x00000150
	version151 = 0x00000151
)

// Raw PSG clock field bits that are flags rather than frequency.
const (
	clockT6W28Bit = 0x80000000
	clockDualBit  = 0x40000000
	clockMask     = 0x3FFFFFFF
)

var ident = []byte("Vgm ")

// Header is the parsed VGM file header. Fields introduced after version 1.00
// are nil when the file predates them.
type Header struct {
	EOFOffset    uint32
	Version      uint32
	PSGClockRaw  uint32 // including variant bits
	YM2413Clock  *uint32
	GD3Offset    *uint32 // absolute
	TotalSamples uint32
	LoopOffset   uint32 // absolute, 0 when the file does not loop
	LoopSamples  uint32
	Rate         *uint32
	Feedback     *uint16
	ShiftWidth   *uint8
	Flags        *uint8
	YM2612Clock  *uint32
	YM2151Clock  *uint32
	DataOffset   uint32 // absolute
}

// ParseHeader decodes the header at the start of data.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortHeader, len(data))
	}
	if !bytes.Equal(data[offIdent:offIdent+4], ident) {
		return nil, fmt.Errorf("%w: bad ident %q", ErrInvalidHeader, data[offIdent:offIdent+4])
	}

	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(data[off : off+4]) }

	h := &Header{
		EOFOffset:    u32(offEOF),
		Version:      u32(offVersion),
		PSGClockRaw:  u32(offPSGClock),
		YM2413Clock:  nonZero(u32(offYM2413Clock)),
		TotalSamples: u32(offTotalSamples),
		LoopSamples:  u32(offLoopSamples),
		DataOffset:   legacyDataStart,
	}
	if gd3 := u32(offGD3); gd3 != 0 {
		abs := gd3 + offGD3
		h.GD3Offset = &abs
	}
	if loop := u32(offLoop); loop != 0 {
		h.LoopOffset = loop + offLoop
	}

	if h.Version >= version101 {
		rate := u32(offRate)
		h.Rate = &rate
	}
	if h.Version >= version110 {
		feedback := binary.LittleEndian.Uint16(data[offFeedback : offFeedback+2])
		width := data[offShiftWidth]
		ym2612 := u32(offYM2612Clock)
		ym2151 := u32(offYM2151Clock)
		h.Feedback = &feedback
		h.ShiftWidth = &width
		h.YM2612Clock = &ym2612
		h.YM2151Clock = &ym2151
	}
	if h.Version >= version150 {
		if rel := u32(offDataOffset); rel != 0 {
			h.DataOffset = rel + offDataOffset
		}
	}
	if h.Version >= version151 {
		flags := data[offFlags]
		h.Flags = &flags
	}

	if int(h.DataOffset) > len(data) {
		return nil, fmt.Errorf("%w: data offset 0x%X beyond %d bytes", ErrInvalidHeader, h.DataOffset, len(data))
	}
	if h.LoopOffset != 0 && (h.LoopOffset < h.DataOffset || int(h.LoopOffset) >= len(data)) {
		return nil, fmt.Errorf("%w: loop offset 0x%X out of range", ErrInvalidHeader, h.LoopOffset)
	}

	return h, nil
}

func nonZero(v uint32) *uint32 {
	if v == 0 {
		return nil
	}
	return &v
}

// PSGClock returns the PSG clock with the variant bits masked off.
func (h *Header) PSGClock() uint32 {
	return h.PSGClockRaw & clockMask
}

// HasPSG reports whether the file uses the PSG.
func (h *Header) HasPSG() bool {
	return h.PSGClock() != 0
}

// PSGConfig resolves the chip configuration, applying the defaults for
// fields the file's version does not carry. ok is false when the file has
// no PSG.
func (h *Header) PSGConfig() (cfg psg.Config, ok bool) {
	if !h.HasPSG() {
		return psg.Config{}, false
	}

	cfg = psg.DefaultConfig(h.PSGClock())
	cfg.T6W28 = h.PSGClockRaw&clockT6W28Bit != 0
	cfg.DualChip = h.PSGClockRaw&clockDualBit != 0
	if h.Feedback != nil && *h.Feedback != 0 {
		cfg.Feedback = *h.Feedback
	}
	if h.ShiftWidth != nil && *h.ShiftWidth != 0 {
		cfg.ShiftWidth = *h.ShiftWidth
	}
	if h.Flags != nil {
		cfg.Flags = psg.Flags(*h.Flags)
	}
	return cfg, true
}

// HasLoop reports whether the file has a loop point.
func (h *Header) HasLoop() bool {
	return h.LoopOffset != 0
}

// VersionString formats the BCD version, e.g. "1.51".
func (h *Header) VersionString() string {
	return fmt.Sprintf("%x.%02x", h.Version>>8, h.Version&0xFF)
}
