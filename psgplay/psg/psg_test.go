package psg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ntscClock = 3579545

func newTestPSG(t *testing.T, cfg Config, rate uint32) *PSG {
	t.Helper()
	p, err := New(cfg, rate)
	require.NoError(t, err)
	return p
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(DefaultConfig(0), 44100)
	assert.ErrorIs(t, err, ErrInvalidClock)

	cfg := DefaultConfig(ntscClock)
	cfg.ShiftWidth = 0
	_, err = New(cfg, 44100)
	assert.ErrorIs(t, err, ErrInvalidShiftWidth)
}

func TestNew_DefaultRate(t *testing.T) {
	p := newTestPSG(t, DefaultConfig(ntscClock), 0)
	assert.Equal(t, uint32(DefaultSampleRate), p.Rate())

	p.SetRate(0)
	assert.Equal(t, uint32(DefaultSampleRate), p.Rate())
}

func TestReset_State(t *testing.T) {
	p := newTestPSG(t, DefaultConfig(ntscClock), 44100)
	p.Write(0x80 | 0x05) // tone 0 low bits
	p.Write(0x3F)
	p.Write(0x90) // volume 0 loudest
	p.WriteStereo(0x12)
	for iter := 0; iter < 100; iter++ {
		p.Sample()
	}

	p.Reset()

	for ch := 0; ch < 4; ch++ {
		assert.Equal(t, uint8(15), p.Attenuation(ch), "channel %d attenuation", ch)
		assert.Equal(t, int16(0), p.ChannelOutput(ch), "channel %d output", ch)
	}
	for ch := 0; ch < 3; ch++ {
		assert.Equal(t, uint16(0), p.Period(ch), "channel %d period", ch)
		assert.False(t, p.Edge(ch))
	}
	assert.Equal(t, uint16(0x8000), p.Seed())
	assert.Equal(t, uint8(0xFF), p.StereoMask())
	assert.Equal(t, NoisePeriodic, p.NoiseMode())
}

func TestReset_Silence(t *testing.T) {
	for _, quality := range []uint32{0, 1} {
		p := newTestPSG(t, DefaultConfig(ntscClock), 44100)
		p.SetQuality(quality)
		for i := 0; i < 20000; i++ {
			require.Equal(t, int16(0), p.Sample(), "sample %d quality %d", i, quality)
		}
		for iter := 0; iter < 1000; iter++ {
			l, r := p.SampleStereo()
			require.Zero(t, l)
			require.Zero(t, r)
		}
	}
}

func TestWrite_ToneLatchAndData(t *testing.T) {
	p := newTestPSG(t, DefaultConfig(ntscClock), 44100)

	p.Write(0xA7) // latch tone 1, low bits 0x7
	assert.Equal(t, Register{Kind: RegisterTone, Channel: 1}, p.Latched())
	assert.Equal(t, uint16(0x007), p.Period(1))

	p.Write(0x2A) // data: high 6 bits 0x2A
	assert.Equal(t, uint16(0x2A7), p.Period(1))

	p.Write(0xA3) // low bits replaced, high bits preserved
	assert.Equal(t, uint16(0x2A3), p.Period(1))

	p.Write(0x7F) // only the low 6 bits of a data byte are used
	assert.Equal(t, uint16(0x3F3), p.Period(1))
}

func TestWrite_Volume(t *testing.T) {
	tests := []struct {
		name     string
		value    uint8
		channel  int
		expected uint8
	}{
		{"channel 0 loudest", 0x90, 0, 0},
		{"channel 1 loudest", 0xB0, 1, 0},
		{"channel 1 silent", 0xBF, 1, 15},
		{"channel 2 mid", 0xD7, 2, 7},
		{"noise volume", 0xF3, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPSG(t, DefaultConfig(ntscClock), 44100)
			p.Write(tt.value)
			assert.Equal(t, tt.expected, p.Attenuation(tt.channel))
			assert.Equal(t, RegisterVolume, p.Latched().Kind)
		})
	}
}

func TestWrite_VolumeDataByte(t *testing.T) {
	p := newTestPSG(t, DefaultConfig(ntscClock), 44100)
	p.Write(0xC5) // latch tone 2
	p.Write(0xB4) // latch volume 1 = 4
	p.Write(0x09) // data byte goes to volume 1, not tone 2

	assert.Equal(t, uint8(9), p.Attenuation(1))
	assert.Equal(t, uint16(0x005), p.Period(2))
}

func TestWrite_ToneDataAfterVolumeLatch(t *testing.T) {
	p := newTestPSG(t, DefaultConfig(ntscClock), 44100)
	p.Write(0x9F) // latch volume 0
	p.Write(0x81) // latch tone 0, low bits 1
	p.Write(0x10) // data byte to tone 0

	assert.Equal(t, uint16(0x101), p.Period(0))
	assert.Equal(t, uint8(15), p.Attenuation(0))
}

func TestWrite_NoiseControl(t *testing.T) {
	tests := []struct {
		name           string
		value          uint8
		mode           NoiseMode
		period         uint16
		toneReferenced bool
	}{
		{"periodic rate 0", 0xE0, NoisePeriodic, 32, false},
		{"periodic rate 1", 0xE1, NoisePeriodic, 64, false},
		{"white rate 2", 0xE6, NoiseWhite, 128, false},
		{"white tone 2", 0xE7, NoiseWhite, 0x155, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPSG(t, DefaultConfig(ntscClock), 44100)
			p.Write(0xC5) // tone 2 = 0x155
			p.Write(0x15)
			for iter := 0; iter < 50; iter++ {
				p.Sample()
			}

			p.Write(tt.value)
			assert.Equal(t, tt.mode, p.NoiseMode())
			assert.Equal(t, tt.period, p.Period(3))
			assert.Equal(t, tt.toneReferenced, p.ToneReferenced())
			assert.Equal(t, uint16(0x8000), p.Seed(), "noise control write resets the seed")
		})
	}
}

func TestWrite_NoiseControlDataByte(t *testing.T) {
	p := newTestPSG(t, DefaultConfig(ntscClock), 44100)
	p.Write(0xE0)
	p.Write(0x05) // data byte: white, rate 1

	assert.Equal(t, NoiseWhite, p.NoiseMode())
	assert.Equal(t, uint16(64), p.Period(3))
}

func TestToneReferencedNoiseTracksChannel2(t *testing.T) {
	p := newTestPSG(t, DefaultConfig(ntscClock), 44100)
	p.Write(0xE3)
	p.Write(0xC8)
	p.Write(0x02)
	assert.Equal(t, uint16(0x028), p.Period(3))
}

func TestVolumeTable(t *testing.T) {
	expected := []int16{255, 203, 161, 128, 101, 80, 64, 51, 40, 32, 25, 20, 16, 12, 10, 0}
	for i, v := range expected {
		assert.Equal(t, v, Volume(uint8(i)), "attenuation %d", i)
	}
}

func TestPeriodicNoiseSequence(t *testing.T) {
	p := newTestPSG(t, DefaultConfig(ntscClock), 44100)
	p.SetQuality(1) // one internal tick per step
	p.Write(0xE0)   // periodic, period 32

	var states []uint16
	last := p.Seed()
	for iter := 0; iter < 256+32*20; iter++ {
		p.tick()
		if p.Seed() != last {
			last = p.Seed()
			states = append(states, last)
		}
	}

	expected := []uint16{
		0x4000, 0x2000, 0x1000, 0x0800, 0x0400, 0x0200, 0x0100, 0x0080,
		0x0040, 0x0020, 0x0010, 0x0008, 0x0004, 0x0002, 0x0001, 0x8000,
		0x4000, 0x2000, 0x1000, 0x0800, 0x0400,
	}
	assert.Equal(t, expected, states)
}

func TestWhiteNoiseSequence(t *testing.T) {
	p := newTestPSG(t, DefaultConfig(ntscClock), 44100)
	p.SetQuality(1)
	p.Write(0xE4) // white, period 32

	var states []uint16
	for iter := 0; iter < 256+32*19; iter++ {
		before := p.Seed()
		p.tick()
		if p.Seed() != before {
			states = append(states, p.Seed())
		}
	}

	expected := []uint16{
		0x4000, 0x2000, 0x1000, 0x0800, 0x0400, 0x0200, 0x0100, 0x0080,
		0x0040, 0x0020, 0x0010, 0x0008, 0x8004, 0x4002, 0x2001, 0x9000,
		0x4800, 0x2400, 0x1200, 0x0900,
	}
	assert.Equal(t, expected, states)
}

func TestShiftWidth15(t *testing.T) {
	cfg := DefaultConfig(ntscClock)
	cfg.ShiftWidth = 15
	cfg.Feedback = 0x0003
	p := newTestPSG(t, cfg, 44100)
	p.SetQuality(1)
	p.Write(0xE0) // periodic

	// the reset seed drains through bit 0 and re-enters at bit 14
	for iter := 0; iter < 256+32*15; iter++ {
		p.tick()
	}
	assert.Equal(t, uint16(0x4000), p.Seed())
}

func TestPeriodZeroHoldsEdgeHigh(t *testing.T) {
	p := newTestPSG(t, DefaultConfig(ntscClock), 44100)
	p.SetQuality(1)
	p.Write(0x90) // channel 0 loudest, period 0

	for iter := 0; iter < 0x400; iter++ {
		p.tick()
	}
	assert.True(t, p.Edge(0))
	for iter := 0; iter < 5000; iter++ {
		p.tick()
		require.True(t, p.Edge(0))
	}
	assert.Greater(t, p.ChannelOutput(0), int16(4000))
}

func TestPeriodZeroIs400Flag(t *testing.T) {
	cfg := DefaultConfig(ntscClock)
	cfg.Flags = FlagPeriodZeroIs400
	p := newTestPSG(t, cfg, 44100)
	p.SetQuality(1)
	p.Write(0x90)

	toggles := 0
	last := p.Edge(0)
	for iter := 0; iter < 0x400*5; iter++ {
		p.tick()
		if p.Edge(0) != last {
			toggles++
			last = p.Edge(0)
		}
	}
	assert.Equal(t, 5, toggles)
}

func TestVolumeReflectedInOutput(t *testing.T) {
	for _, tt := range []struct {
		name  string
		value uint8
		max   int16
	}{
		{"loudest", 0xB0, 255 << amplitudeShift},
		{"attenuation 3", 0xB3, 128 << amplitudeShift},
		{"silent", 0xBF, 0},
	} {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPSG(t, DefaultConfig(ntscClock), 44100)
			p.SetQuality(1)
			p.Write(tt.value)
			p.Write(0xA1) // period 1, edge forced high

			var peak int16
			for iter := 0; iter < 2000; iter++ {
				if s := p.Sample(); s > peak {
					peak = s
				}
			}
			assert.LessOrEqual(t, peak, tt.max)
			assert.GreaterOrEqual(t, peak, tt.max-tt.max/64)
		})
	}
}

func TestMuteSilencesChannel(t *testing.T) {
	p := newTestPSG(t, DefaultConfig(ntscClock), 44100)
	p.Write(0x90)
	p.Write(0x81)
	p.Mute(0, true)
	assert.True(t, p.Muted(0))

	for iter := 0; iter < 2000; iter++ {
		require.Equal(t, int16(0), p.Sample())
	}

	p.Mute(0, false)
	var peak int16
	for iter := 0; iter < 2000; iter++ {
		peak = max(peak, p.Sample())
	}
	assert.Greater(t, peak, int16(0))
}

func TestStereoMask(t *testing.T) {
	p := newTestPSG(t, DefaultConfig(ntscClock), 44100)
	p.SetQuality(1)
	p.Write(0x90) // channel 0 loudest, period 0
	p.WriteStereo(0x10)

	var left, right int32
	for iter := 0; iter < 2000; iter++ {
		left, right = p.SampleStereo()
	}
	assert.Greater(t, left, int32(0))
	assert.Zero(t, right)

	p.WriteStereo(0x01)
	for iter := 0; iter < 10; iter++ {
		left, right = p.SampleStereo()
	}
	assert.Zero(t, left)
	assert.Greater(t, right, int32(0))
}

func TestStereoOffFlag(t *testing.T) {
	cfg := DefaultConfig(ntscClock)
	cfg.Flags = FlagStereoOff
	p := newTestPSG(t, cfg, 44100)
	p.WriteStereo(0x00)
	assert.Equal(t, uint8(0xFF), p.StereoMask())
}

func TestOutputNegateFlag(t *testing.T) {
	cfg := DefaultConfig(ntscClock)
	cfg.Flags = FlagOutputNegate
	p := newTestPSG(t, cfg, 44100)
	p.SetQuality(1)
	p.Write(0x90)

	var s int16
	for iter := 0; iter < 2000; iter++ {
		s = p.Sample()
	}
	assert.Less(t, s, int16(0))
}

func TestDeterminism(t *testing.T) {
	program := []uint8{0x8C, 0x0A, 0x90, 0xA5, 0x13, 0xB2, 0xE5, 0xF1, 0xC0, 0x3F, 0xD4}
	run := func() []int16 {
		p := newTestPSG(t, DefaultConfig(ntscClock), 48000)
		p.SetQuality(1)
		out := make([]int16, 0, 5000)
		for i, v := range program {
			p.Write(v)
			for iter := 0; iter < 400+i; iter++ {
				out = append(out, p.Sample())
			}
		}
		return out
	}

	assert.Equal(t, run(), run())
}

func countRisingEdges(p *PSG, samples int, threshold int16) int {
	edges := 0
	high := false
	for iter := 0; iter < samples; iter++ {
		s := p.Sample()
		if !high && s > threshold {
			edges++
			high = true
		} else if high && s < threshold {
			high = false
		}
	}
	return edges
}

func TestQualityPathsAgreeOnFrequency(t *testing.T) {
	const rate = 44100
	clock := uint32(clockDivider * rate * 4) // four internal ticks per sample

	setup := func(quality uint32) *PSG {
		p := newTestPSG(t, DefaultConfig(clock), rate)
		p.SetQuality(quality)
		p.Write(0x84) // period 100
		p.Write(0x06)
		p.Write(0x90)
		return p
	}

	fast := countRisingEdges(setup(0), rate, 1000)
	accurate := countRisingEdges(setup(1), rate, 1000)

	// 176400 ticks/s and a toggle every 100 ticks is 882 periods per second,
	// less the 1024 ticks before the counter first wraps.
	assert.InDelta(t, 877, fast, 3)
	assert.InDelta(t, 877, accurate, 3)
	assert.InDelta(t, fast, accurate, 2)
}

func TestSetRateMidStream(t *testing.T) {
	p := newTestPSG(t, DefaultConfig(ntscClock), 44100)
	p.SetQuality(1)
	p.Write(0x90)
	p.Write(0x8F)
	p.Write(0x0F)
	for iter := 0; iter < 1000; iter++ {
		p.Sample()
	}

	p.SetRate(22050)
	assert.Equal(t, uint32(22050), p.Rate())
	assert.Equal(t, uint32(converterOne/22050), p.realStep)

	// state survives the rate change
	assert.Equal(t, uint16(0x0FF), p.Period(0))
	assert.Equal(t, uint8(0), p.Attenuation(0))
}

func TestMonoWrapsWithoutClamping(t *testing.T) {
	p := newTestPSG(t, DefaultConfig(ntscClock), 44100)
	p.out = [outputChannels]int16{32767, 32767, 0, 0}
	assert.Equal(t, int16(-2), p.mixMono())
}
