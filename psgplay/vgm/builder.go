package vgm

import (
	"encoding/binary"
)

// Builder assembles a VGM image: a version 1.51 header followed by commands.
// Command methods return the builder so streams read in order.
type Builder struct {
	clock    uint32
	feedback uint16
	width    uint8
	flags    uint8
	version  uint32
	cmds     []byte
	loop     int // command offset of the loop point, -1 when unset
	samples  uint32
}

// NewBuilder starts an image for a PSG running at clock Hz.
func NewBuilder(clock uint32) *Builder {
	return &Builder{
		clock:    clock,
		feedback: 0x0009,
		width:    16,
		version:  version151,
		loop:     -1,
	}
}

// Version overrides the header version (BCD).
func (b *Builder) Version(v uint32) *Builder {
	b.version = v
	return b
}

// Noise sets the header's LFSR feedback pattern and width.
func (b *Builder) Noise(feedback uint16, width uint8) *Builder {
	b.feedback = feedback
	b.width = width
	return b
}

// Flags sets the header's behaviour flags.
func (b *Builder) Flags(flags uint8) *Builder {
	b.flags = flags
	return b
}

// Write appends a PSG write.
func (b *Builder) Write(values ...uint8) *Builder {
	for _, v := range values {
		b.cmds = append(b.cmds, opWrite, v)
	}
	return b
}

// Stereo appends a Game Gear stereo mask write.
func (b *Builder) Stereo(mask uint8) *Builder {
	b.cmds = append(b.cmds, opStereo, mask)
	return b
}

// Wait appends the shortest encoding of an n sample wait.
func (b *Builder) Wait(n int) *Builder {
	b.samples += uint32(max(n, 0))
	for n > 0 {
		switch {
		case n == SamplesNTSC:
			b.cmds = append(b.cmds, opWaitNTSC)
			return b
		case n == SamplesPAL:
			b.cmds = append(b.cmds, opWaitPAL)
			return b
		case n <= 16:
			b.cmds = append(b.cmds, opWaitShortFirst|byte(n-1))
			return b
		}
		chunk := min(n, 0xFFFF)
		b.cmds = append(b.cmds, opWait, byte(chunk), byte(chunk>>8))
		n -= chunk
	}
	return b
}

// Raw appends bytes verbatim.
func (b *Builder) Raw(data ...byte) *Builder {
	b.cmds = append(b.cmds, data...)
	return b
}

// Loop marks the current position as the loop point.
func (b *Builder) Loop() *Builder {
	b.loop = len(b.cmds)
	return b
}

// Tone programs a tone channel's period and attenuation.
func (b *Builder) Tone(channel uint8, period uint16, attenuation uint8) *Builder {
	ch := channel & 0x03 << 5
	return b.Write(
		0x80|ch|uint8(period&0x0F),
		uint8(period>>4)&0x3F,
		0x90|ch|attenuation&0x0F,
	)
}

// Bytes returns the image with an end command appended.
func (b *Builder) Bytes() []byte {
	return b.bytes(true)
}

// Unterminated returns the image without an end command.
func (b *Builder) Unterminated() []byte {
	return b.bytes(false)
}

func (b *Builder) bytes(end bool) []byte {
	data := make([]byte, HeaderSize, HeaderSize+len(b.cmds)+1)
	copy(data, ident)
	data = append(data, b.cmds...)
	if end {
		data = append(data, opEnd)
	}

	put := func(off int, v uint32) { binary.LittleEndian.PutUint32(data[off:], v) }
	put(offEOF, uint32(len(data)-offEOF))
	put(offVersion, b.version)
	put(offTotalSamples, b.samples)
	put(offPSGClock, b.clock)
	put(offRate, 60)
	binary.LittleEndian.PutUint16(data[offFeedback:], b.feedback)
	data[offShiftWidth] = b.width
	data[offFlags] = b.flags
	put(offDataOffset, HeaderSize-offDataOffset)
	if b.loop >= 0 {
		put(offLoop, uint32(HeaderSize+b.loop-offLoop))
	}
	return data
}
