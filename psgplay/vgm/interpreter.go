package vgm

import (
	"encoding/binary"
	"io"
	"log/slog"

	"github.com/valerio/go-psgplay/psgplay/audio"
)

// Command bytes understood by the interpreter.
const (
	opSecondPSGStereo = 0x3F
	opSecondPSGWrite  = 0x30
	opStereo          = 0x4F
	opWrite           = 0x50
	opWait            = 0x61
	opWaitNTSC        = 0x62
	opWaitPAL         = 0x63
	opEnd             = 0x66
	opWaitShortFirst  = 0x70
	opWaitShortLast   = 0x7F
)

const (
	// SamplesNTSC is the length of a 60 Hz frame at 44100 Hz.
	SamplesNTSC = 735
	// SamplesPAL is the length of a 50 Hz frame at 44100 Hz.
	SamplesPAL = 882
)

const renderChunk = 4096

// Chip is the sound chip driven by the command stream.
type Chip interface {
	Write(value uint8)
	WriteStereo(mask uint8)
	Sample() int16
	SampleStereo() (left, right int32)
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithStereo makes the interpreter pull stereo samples from the chip.
func WithStereo(stereo bool) Option {
	return func(i *Interpreter) {
		i.stereo = stereo
	}
}

// WithLogger sets the logger used for diagnostics. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		i.logger = logger
	}
}

// Interpreter executes a VGM command stream against a Chip, producing audio
// frames on demand. Every waited sample corresponds to exactly one call to
// the chip's sample primitive.
type Interpreter struct {
	data   []byte
	pos    int
	chip   Chip
	stereo bool
	logger *slog.Logger

	pending int // samples still owed by the current wait
	ended   bool
	err     error
	emitted uint64
}

// NewInterpreter creates an interpreter reading data from offset.
func NewInterpreter(data []byte, offset int, chip Chip, opts ...Option) *Interpreter {
	i := &Interpreter{
		data:   data,
		pos:    offset,
		chip:   chip,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ReadFrames fills dst with generated frames, executing commands as needed.
// It returns io.EOF once the end command has been reached and every pending
// sample has been delivered. Stream errors are sticky.
func (i *Interpreter) ReadFrames(dst []audio.Frame) (int, error) {
	n := 0
	for n < len(dst) {
		if i.pending > 0 {
			dst[n] = i.sample()
			i.pending--
			n++
			continue
		}
		if i.err != nil {
			return n, i.err
		}
		if i.ended {
			if n == 0 {
				return 0, io.EOF
			}
			return n, nil
		}
		if err := i.step(); err != nil {
			i.err = err
			return n, err
		}
	}
	return n, nil
}

// Render runs the stream to its end and returns every generated frame.
func (i *Interpreter) Render() ([]audio.Frame, error) {
	var frames []audio.Frame
	buf := make([]audio.Frame, renderChunk)
	for {
		n, err := i.ReadFrames(buf)
		frames = append(frames, buf[:n]...)
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}
	}
}

// Seek moves the cursor to an absolute offset in the data and clears the end
// state. Chip state and any pending wait are kept.
func (i *Interpreter) Seek(offset int) {
	i.pos = offset
	i.ended = false
	i.err = nil
}

// Position returns the absolute offset of the next command byte.
func (i *Interpreter) Position() int {
	return i.pos
}

// SamplesEmitted returns the number of frames generated so far.
func (i *Interpreter) SamplesEmitted() uint64 {
	return i.emitted
}

// Ended reports whether the end command has been executed.
func (i *Interpreter) Ended() bool {
	return i.ended
}

func (i *Interpreter) sample() audio.Frame {
	i.emitted++
	if i.stereo {
		l, r := i.chip.SampleStereo()
		return audio.Frame{Left: l, Right: r}
	}
	return audio.MonoFrame(i.chip.Sample())
}

// operands returns the n bytes following the opcode at the cursor.
func (i *Interpreter) operands(n int) ([]byte, error) {
	start := i.pos + 1
	if start+n > len(i.data) {
		return nil, ErrTruncatedStream
	}
	return i.data[start : start+n], nil
}

// step executes one command. Waits only schedule samples; ReadFrames
// generates them.
func (i *Interpreter) step() error {
	if i.pos >= len(i.data) {
		return ErrTruncatedStream
	}

	op := i.data[i.pos]
	switch {
	case op == opWrite:
		arg, err := i.operands(1)
		if err != nil {
			return err
		}
		i.chip.Write(arg[0])
		i.pos += 2

	case op == opStereo:
		arg, err := i.operands(1)
		if err != nil {
			return err
		}
		i.chip.WriteStereo(arg[0])
		i.pos += 2

	case op == opSecondPSGWrite, op == opSecondPSGStereo:
		arg, err := i.operands(1)
		if err != nil {
			return err
		}
		i.logger.Debug("Ignoring second PSG command", "opcode", op, "data", arg[0], "offset", i.pos)
		i.pos += 2

	case op == opWait:
		arg, err := i.operands(2)
		if err != nil {
			return err
		}
		i.pending = int(binary.LittleEndian.Uint16(arg))
		i.pos += 3

	case op == opWaitNTSC:
		i.pending = SamplesNTSC
		i.pos++

	case op == opWaitPAL:
		i.pending = SamplesPAL
		i.pos++

	case op >= opWaitShortFirst && op <= opWaitShortLast:
		i.pending = int(op&0x0F) + 1
		i.pos++

	case op == opEnd:
		i.ended = true

	default:
		return &UnsupportedOpcodeError{Opcode: op, Offset: i.pos}
	}
	return nil
}
