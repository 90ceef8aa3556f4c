package audio

import (
	"fmt"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
)

const (
	wavBitDepth  = 16
	wavFormatPCM = 1
)

// WAVWriter streams frames to a 16-bit PCM WAV file.
type WAVWriter struct {
	path     string
	file     afero.File
	enc      *wav.Encoder
	channels int
	buf      *goaudio.IntBuffer
	frames   int
}

// NewWAVWriter creates path on fs and prepares a WAV stream with the given
// sample rate and channel count (1 or 2).
func NewWAVWriter(fs afero.Fs, path string, rate, channels int) (*WAVWriter, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("wav: unsupported channel count %d", channels)
	}

	f, err := fs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	return &WAVWriter{
		path:     path,
		file:     f,
		enc:      wav.NewEncoder(f, rate, wavBitDepth, channels, wavFormatPCM),
		channels: channels,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
			SourceBitDepth: wavBitDepth,
		},
	}, nil
}

// WriteFrames appends frames, clamped to 16 bits. Mono files take the left
// channel.
func (w *WAVWriter) WriteFrames(frames []Frame) error {
	data := w.buf.Data[:0]
	for _, f := range frames {
		data = append(data, int(Clamp16(f.Left)))
		if w.channels == 2 {
			data = append(data, int(Clamp16(f.Right)))
		}
	}
	w.buf.Data = data

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("wav: writing %s: %w", w.path, err)
	}
	w.frames += len(frames)
	return nil
}

// Frames returns the number of frames written so far.
func (w *WAVWriter) Frames() int {
	return w.frames
}

// Close finalises the header and closes the file.
func (w *WAVWriter) Close() error {
	var encErr error
	if w.frames == 0 {
		// the encoder only emits its header on the first write
		encErr = w.WriteFrames(nil)
	}
	if encErr == nil {
		encErr = w.enc.Close()
	}
	fileErr := w.file.Close()
	if encErr != nil {
		return fmt.Errorf("wav: finalising %s: %w", w.path, encErr)
	}
	if fileErr != nil {
		return fmt.Errorf("wav: %w", fileErr)
	}
	return nil
}
