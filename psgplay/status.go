package psgplay

import (
	"time"

	"github.com/valerio/go-psgplay/psgplay/audio"
	"github.com/valerio/go-psgplay/psgplay/psg"
)

// ChannelStatus is a snapshot of one chip channel.
type ChannelStatus struct {
	Attenuation uint8
	Period      uint16
	Muted       bool
	Level       int16 // smoothed output, 0 when silent
}

// Status is a snapshot of a playback session for monitors.
type Status struct {
	Channels     [channelCount]ChannelStatus
	NoiseMode    psg.NoiseMode
	StereoMask   uint8
	Position     int
	Samples      uint64
	TotalSamples uint32
	Loops        int
	Paused       bool
	Done         bool
	Err          error
	Peak         int32 // largest absolute value in the last pulled block
}

// Elapsed converts the emitted sample count into playback time.
func (s Status) Elapsed(rate uint32) time.Duration {
	if rate == 0 {
		return 0
	}
	return time.Duration(s.Samples) * time.Second / time.Duration(rate)
}

// Status returns a snapshot of the session.
func (p *Player) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Status{
		NoiseMode:    p.chip.NoiseMode(),
		StereoMask:   p.chip.StereoMask(),
		Position:     p.interp.Position(),
		Samples:      p.interp.SamplesEmitted(),
		TotalSamples: p.file.Header.TotalSamples,
		Loops:        p.loopsDone,
		Paused:       p.paused,
		Done:         p.done,
		Err:          p.err,
		Peak:         peak(p.lastFrames),
	}
	for i := range s.Channels {
		s.Channels[i] = ChannelStatus{
			Attenuation: p.chip.Attenuation(i),
			Period:      p.chip.Period(i),
			Muted:       p.chip.Muted(i),
			Level:       p.chip.ChannelOutput(i),
		}
	}
	return s
}

func peak(frames []audio.Frame) int32 {
	var m int32
	for _, f := range frames {
		m = max(m, abs(f.Left), abs(f.Right))
	}
	return m
}

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
