package psg

import (
	"github.com/valerio/go-psgplay/psgplay/bit"
)

// NoiseMode selects the noise generator feedback.
type NoiseMode uint8

const (
	NoisePeriodic NoiseMode = iota
	NoiseWhite
)

func (m NoiseMode) String() string {
	if m == NoiseWhite {
		return "white"
	}
	return "periodic"
}

const (
	toneChannels      = 3
	noiseChannelIndex = 3
	outputChannels    = 4
)

type toneChannel struct {
	period      uint16 // 10-bit reload value
	counter     uint32
	edge        bool
	attenuation uint8
	muted       bool
}

type noiseChannel struct {
	seed           uint16
	counter        uint32
	period         uint32
	attenuation    uint8
	mode           NoiseMode
	toneReferenced bool // period follows tone channel 2
	muted          bool
}

// PSG emulates an SN76489-family programmable sound generator: three square
// wave tone channels and one LFSR noise channel, sampled at an arbitrary
// output rate.
//
// A PSG is not safe for concurrent use. Writes and sample calls must be
// strictly ordered by the owner.
type PSG struct {
	cfg Config

	clock   uint32
	rate    uint32
	quality uint32

	// base phase accumulator, 24 fractional bits
	baseCount uint32
	baseIncr  uint32

	// accurate path rate converter
	realStep uint32
	chipStep uint32
	chipTime uint32

	tone  [toneChannels]toneChannel
	noise noiseChannel

	latched Register
	stereo  uint8

	// smoothed per-channel output, 0-2 tone, 3 noise
	out [outputChannels]int16

	feedbackShift uint8
}

// New creates a PSG for cfg producing samples at rate Hz (0 selects
// DefaultSampleRate). The chip is reset and uses the fast path until
// SetQuality is called.
func New(cfg Config, rate uint32) (*PSG, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &PSG{
		cfg:           cfg,
		clock:         cfg.Clock,
		feedbackShift: cfg.ShiftWidth - 1,
	}
	p.rate = normalizeRate(rate)
	p.refresh()
	p.Reset()
	return p, nil
}

func normalizeRate(rate uint32) uint32 {
	if rate == 0 {
		return DefaultSampleRate
	}
	return rate
}

// refresh recomputes the phase and converter steps from clock, rate and quality.
func (p *PSG) refresh() {
	if p.quality != 0 {
		p.baseIncr = 1 << phaseBits
		p.realStep = converterOne / p.rate
		p.chipStep = converterOne / (p.clock / clockDivider)
		p.chipTime = 0
		return
	}
	incr := float64(p.clock) * float64(1<<phaseBits) / float64(clockDivider*p.rate)
	p.baseIncr = uint32(uint64(incr))
}

// Reset returns the chip to its power-on state: all channels silent, periods
// and counters cleared, noise seed 0x8000, both ears enabled for every channel.
func (p *PSG) Reset() {
	p.baseCount = 0
	for i := range p.tone {
		p.tone[i] = toneChannel{attenuation: silent}
	}
	p.noise = noiseChannel{
		seed:        seedReset,
		attenuation: silent,
		mode:        NoisePeriodic,
	}
	p.latched = DecodeRegister(0)
	p.stereo = stereoAllOn
	p.out = [outputChannels]int16{}
}

// SetRate changes the output sample rate. A rate of 0 selects DefaultSampleRate.
func (p *PSG) SetRate(rate uint32) {
	p.rate = normalizeRate(rate)
	p.refresh()
}

// SetQuality selects the fast path (0) or the oversampling rate converter
// (any other value).
func (p *PSG) SetQuality(quality uint32) {
	p.quality = quality
	p.refresh()
}

// Write applies one byte of the chip's latch/data programming protocol.
func (p *PSG) Write(value uint8) {
	if bit.IsSet(7, value) {
		p.latched = DecodeRegister(latchAddress(value))
		data := value & 0x0F
		switch p.latched.Kind {
		case RegisterTone:
			ch := &p.tone[p.latched.Channel]
			ch.period = ch.period&0x3F0 | uint16(data)
		case RegisterVolume:
			p.setAttenuation(p.latched.Channel, data)
		case RegisterNoiseControl:
			p.writeNoiseControl(data)
		}
		return
	}

	switch p.latched.Kind {
	case RegisterTone:
		ch := &p.tone[p.latched.Channel]
		ch.period = uint16(value&0x3F)<<4 | ch.period&0x0F
	case RegisterVolume:
		p.setAttenuation(p.latched.Channel, value&0x0F)
	case RegisterNoiseControl:
		p.writeNoiseControl(value & 0x07)
	}
}

// WriteStereo sets the Game Gear stereo mask: the high nibble enables channels
// 3-0 on the left ear, the low nibble on the right ear. Ignored when the
// configuration disables stereo.
func (p *PSG) WriteStereo(mask uint8) {
	if p.cfg.Flags.Has(FlagStereoOff) {
		return
	}
	p.stereo = mask
}

func (p *PSG) setAttenuation(channel, value uint8) {
	if channel == noiseChannelIndex {
		p.noise.attenuation = value
		return
	}
	p.tone[channel].attenuation = value
}

func (p *PSG) writeNoiseControl(value uint8) {
	n := &p.noise
	n.mode = NoiseMode(bit.ExtractBits(value, 2, 2))

	shiftRate := value & 0x03
	if shiftRate == 3 {
		n.period = uint32(p.tone[2].period)
		n.toneReferenced = true
	} else {
		n.period = noiseBasePeriod << shiftRate
		n.toneReferenced = false
	}
	if n.period == 0 {
		n.period = 1
	}
	n.seed = seedReset
}

func (p *PSG) effectivePeriod(period uint16) uint32 {
	if period == 0 && p.cfg.Flags.Has(FlagPeriodZeroIs400) {
		return periodZeroAlt
	}
	return uint32(period)
}

// tick advances the chip by one base phase step and updates the channel
// output accumulators. Every accumulator is halved exactly once per call.
func (p *PSG) tick() {
	p.baseCount += p.baseIncr
	incr := p.baseCount >> phaseBits
	p.baseCount &= phaseMask

	n := &p.noise
	n.counter += incr
	if n.counter&noiseWrapBit != 0 {
		var in uint16
		if n.mode == NoiseWhite {
			in = bit.Parity16(n.seed & p.cfg.Feedback)
		} else {
			in = n.seed & 1
		}
		n.seed = n.seed>>1 | in<<p.feedbackShift

		if n.toneReferenced {
			n.counter -= p.effectivePeriod(p.tone[2].period)
		} else {
			n.counter -= n.period
		}
	}
	if bit.IsSet16(0, n.seed) && !n.muted {
		p.out[noiseChannelIndex] += volumeTable[n.attenuation] << amplitudeShift
	}
	p.out[noiseChannelIndex] >>= 1

	for i := range p.tone {
		ch := &p.tone[i]
		ch.counter += incr
		if ch.counter&toneWrapBit != 0 {
			if period := p.effectivePeriod(ch.period); period > 1 {
				ch.edge = !ch.edge
				ch.counter -= period
			} else {
				ch.edge = true
			}
		}
		if ch.edge && !ch.muted {
			p.out[i] += volumeTable[ch.attenuation] << amplitudeShift
		}
		p.out[i] >>= 1
	}
}

// advance runs the chip for one output sample.
func (p *PSG) advance() {
	if p.quality == 0 {
		p.tick()
		return
	}
	for p.realStep > p.chipTime {
		p.chipTime += p.chipStep
		p.tick()
	}
	p.chipTime -= p.realStep
}

func (p *PSG) mixMono() int16 {
	sum := int32(p.out[0]) + int32(p.out[1]) + int32(p.out[2]) + int32(p.out[3])
	if p.cfg.Flags.Has(FlagOutputNegate) {
		sum = -sum
	}
	return int16(sum)
}

func (p *PSG) mixStereo() (left, right int32) {
	for i := 0; i < outputChannels; i++ {
		if bit.IsSet(uint8(i+4), p.stereo) {
			left += int32(p.out[i])
		}
		if bit.IsSet(uint8(i), p.stereo) {
			right += int32(p.out[i])
		}
	}
	if p.cfg.Flags.Has(FlagOutputNegate) {
		left, right = -left, -right
	}
	return left, right
}

// Sample generates one mono output sample. The sum of the channels is not
// clamped and wraps at 16 bits.
func (p *PSG) Sample() int16 {
	p.advance()
	return p.mixMono()
}

// SampleStereo generates one stereo output sample using the stereo mask.
func (p *PSG) SampleStereo() (left, right int32) {
	p.advance()
	return p.mixStereo()
}

// Mute silences (or restores) an output channel, 0-2 tone and 3 noise.
// Out of range channels are ignored.
func (p *PSG) Mute(channel int, muted bool) {
	switch {
	case channel >= 0 && channel < toneChannels:
		p.tone[channel].muted = muted
	case channel == noiseChannelIndex:
		p.noise.muted = muted
	}
}

// Muted reports whether a channel is muted.
func (p *PSG) Muted(channel int) bool {
	switch {
	case channel >= 0 && channel < toneChannels:
		return p.tone[channel].muted
	case channel == noiseChannelIndex:
		return p.noise.muted
	}
	return false
}

// Attenuation returns the attenuation of channel 0-3.
func (p *PSG) Attenuation(channel int) uint8 {
	if channel == noiseChannelIndex {
		return p.noise.attenuation
	}
	return p.tone[channel].attenuation
}

// Period returns the 10-bit period of a tone channel, or the current noise
// period for channel 3.
func (p *PSG) Period(channel int) uint16 {
	if channel == noiseChannelIndex {
		if p.noise.toneReferenced {
			return p.tone[2].period
		}
		return uint16(p.noise.period)
	}
	return p.tone[channel].period
}

// Edge returns the square wave polarity of a tone channel.
func (p *PSG) Edge(channel int) bool {
	return p.tone[channel].edge
}

// ChannelOutput returns the smoothed output accumulator of channel 0-3.
func (p *PSG) ChannelOutput(channel int) int16 {
	return p.out[channel]
}

// Seed returns the noise shift register.
func (p *PSG) Seed() uint16 {
	return p.noise.seed
}

// NoiseMode returns the noise feedback mode.
func (p *PSG) NoiseMode() NoiseMode {
	return p.noise.mode
}

// ToneReferenced reports whether the noise period follows tone channel 2.
func (p *PSG) ToneReferenced() bool {
	return p.noise.toneReferenced
}

// Latched returns the register selected by the last latch byte.
func (p *PSG) Latched() Register {
	return p.latched
}

// StereoMask returns the Game Gear stereo mask.
func (p *PSG) StereoMask() uint8 {
	return p.stereo
}

// Config returns the configuration the chip was built from.
func (p *PSG) Config() Config {
	return p.cfg
}

// Rate returns the output sample rate in Hz.
func (p *PSG) Rate() uint32 {
	return p.rate
}

// Quality returns the current quality setting.
func (p *PSG) Quality() uint32 {
	return p.quality
}
