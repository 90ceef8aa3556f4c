// Package psgplay plays SN76489 VGM recordings: it builds the chip from the
// file header, drives the command stream and handles loop points.
package psgplay

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/valerio/go-psgplay/psgplay/audio"
	"github.com/valerio/go-psgplay/psgplay/psg"
	"github.com/valerio/go-psgplay/psgplay/vgm"
)

// LoopForever makes a Player repeat the loop section until stopped.
const LoopForever = -1

const channelCount = 4

// Options configures a playback session.
type Options struct {
	Rate    uint32 // output sample rate, 0 selects psg.DefaultSampleRate
	Quality uint32 // 0 fast, otherwise oversampled
	Stereo  bool
	Loops   int // extra passes over the loop section, LoopForever to repeat
	Logger  *slog.Logger
}

// DefaultOptions returns the settings used by the command line player.
func DefaultOptions() Options {
	return Options{
		Rate:    psg.DefaultSampleRate,
		Quality: 1,
	}
}

// FrameWriter receives rendered frames.
type FrameWriter interface {
	WriteFrames(frames []audio.Frame) error
}

// Player is one playback session over a loaded file. It is safe for
// concurrent use: a live output may pull samples while a monitor reads
// Status and toggles channels.
type Player struct {
	mu sync.Mutex

	file   *vgm.File
	chip   *psg.PSG
	interp *vgm.Interpreter
	opts   Options
	logger *slog.Logger

	loopsLeft  int
	loopsDone  int
	loopMark   uint64 // samples emitted when the current loop pass began
	paused     bool
	done       bool
	err        error
	scratch    []audio.Frame
	lastFrames []audio.Frame
}

// New prepares a Player for f. It returns vgm.ErrNoPSG if the file does
// not use the SN76489.
func New(f *vgm.File, opts Options) (*Player, error) {
	cfg, ok := f.Header.PSGConfig()
	if !ok {
		return nil, vgm.ErrNoPSG
	}

	chip, err := psg.New(cfg, opts.Rate)
	if err != nil {
		return nil, fmt.Errorf("creating PSG: %w", err)
	}
	chip.SetQuality(opts.Quality)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p := &Player{
		file:      f,
		chip:      chip,
		opts:      opts,
		logger:    logger,
		loopsLeft: opts.Loops,
	}
	p.interp = vgm.NewInterpreter(f.Data, int(f.Header.DataOffset), chip,
		vgm.WithStereo(opts.Stereo),
		vgm.WithLogger(logger),
	)

	logger.Debug("Player ready",
		"chip", cfg.String(),
		"rate", chip.Rate(),
		"quality", opts.Quality,
		"stereo", opts.Stereo,
		"loop", f.Header.HasLoop())
	return p, nil
}

// ReadFrames fills dst, restarting at the loop point while loop passes
// remain. It returns io.EOF once playback has finished.
func (p *Player) ReadFrames(dst []audio.Frame) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.readFrames(dst)
}

func (p *Player) readFrames(dst []audio.Frame) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	if p.done {
		return 0, io.EOF
	}

	total := 0
	for total < len(dst) {
		n, err := p.interp.ReadFrames(dst[total:])
		total += n
		if err == nil {
			continue
		}
		if !errors.Is(err, io.EOF) {
			p.err = err
			return total, err
		}
		if !p.restartLoop() {
			p.done = true
			p.logger.Debug("Playback finished", "samples", p.interp.SamplesEmitted(), "loops", p.loopsDone)
			if total == 0 {
				return 0, io.EOF
			}
			return total, nil
		}
	}
	return total, nil
}

// restartLoop seeks back to the loop point if another pass is due. A loop
// section that produced no samples is never repeated.
func (p *Player) restartLoop() bool {
	h := p.file.Header
	if !h.HasLoop() || p.loopsLeft == 0 {
		return false
	}
	emitted := p.interp.SamplesEmitted()
	if p.loopsDone > 0 && emitted == p.loopMark {
		p.logger.Warn("Loop section is silent, stopping", "offset", h.LoopOffset)
		return false
	}

	if p.loopsLeft > 0 {
		p.loopsLeft--
	}
	p.loopsDone++
	p.loopMark = emitted
	p.interp.Seek(int(h.LoopOffset))
	p.logger.Debug("Looping", "offset", h.LoopOffset, "pass", p.loopsDone)
	return true
}

// Render writes the whole session to w in chunks. LoopForever sessions
// would never end and are rejected.
func (p *Player) Render(w FrameWriter) (int, error) {
	if p.opts.Loops == LoopForever {
		return 0, errors.New("cannot render an endless loop")
	}

	buf := make([]audio.Frame, 4096)
	written := 0
	for {
		n, err := p.ReadFrames(buf)
		if n > 0 {
			if werr := w.WriteFrames(buf[:n]); werr != nil {
				return written, werr
			}
			written += n
		}
		if errors.Is(err, io.EOF) {
			return written, nil
		}
		if err != nil {
			return written, err
		}
	}
}

// GetSamples implements audio.Provider. It returns count interleaved stereo
// samples; silence fills any part after the end, while paused, or after an
// error.
func (p *Player) GetSamples(count int) []int16 {
	p.mu.Lock()
	defer p.mu.Unlock()

	frames := count / 2
	out := make([]int16, 0, count)
	if !p.paused && frames > 0 {
		if cap(p.scratch) < frames {
			p.scratch = make([]audio.Frame, frames)
		}
		buf := p.scratch[:frames]
		n, err := p.readFrames(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			p.logger.Error("Playback stopped", "error", err)
		}
		out = audio.Interleave(out, buf[:n])
		p.lastFrames = append(p.lastFrames[:0], buf[:n]...)
	}
	for len(out) < count {
		out = append(out, 0)
	}
	return out
}

// ToggleChannel toggles muting for channel 1-4 (4 is noise).
func (p *Player) ToggleChannel(channel int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if channel >= 1 && channel <= channelCount {
		p.chip.Mute(channel-1, !p.chip.Muted(channel-1))
	}
}

// SoloChannel mutes every channel except the given one.
func (p *Player) SoloChannel(channel int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := 0; i < channelCount; i++ {
		p.chip.Mute(i, i != channel-1)
	}
}

// UnmuteAll unmutes all channels.
func (p *Player) UnmuteAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := 0; i < channelCount; i++ {
		p.chip.Mute(i, false)
	}
}

// GetChannelStatus reports which channels are audible (not muted).
func (p *Player) GetChannelStatus() (ch1, ch2, ch3, ch4 bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return !p.chip.Muted(0), !p.chip.Muted(1), !p.chip.Muted(2), !p.chip.Muted(3)
}

// TogglePause pauses or resumes live output.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = !p.paused
}

// Header returns the file header.
func (p *Player) Header() *vgm.Header {
	return p.file.Header
}

// Rate returns the output sample rate.
func (p *Player) Rate() uint32 {
	return p.chip.Rate()
}

var _ audio.Provider = (*Player)(nil)
