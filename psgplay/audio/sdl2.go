//go:build sdl2

package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/veandco/go-sdl2/sdl"
)

// sdlBufferFrames is the device buffer length. The pump keeps about two of
// these queued.
const sdlBufferFrames = 1024

// SDLOutput plays a Provider through SDL2's queued audio API.
// Note: building this requires SDL2 development libraries installed.
// Default builds use a stub, see build tags (sdl2)
type SDLOutput struct {
	id     sdl.AudioDeviceID
	spec   sdl.AudioSpec
	reader *PCMReader
	buf    []byte

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewSDLOutput opens the default SDL audio device at rate Hz, 16-bit stereo.
func NewSDLOutput(rate int, p Provider) (*SDLOutput, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("failed to initialize SDL2 audio: %v", err)
	}

	want := &sdl.AudioSpec{
		Freq:     int32(rate),
		Format:   sdl.AUDIO_S16LSB,
		Channels: outputChannels,
		Samples:  sdlBufferFrames,
	}

	var have sdl.AudioSpec
	id, err := sdl.OpenAudioDevice("", false, want, &have, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return nil, fmt.Errorf("failed to open audio device: %v", err)
	}

	return &SDLOutput{
		id:     id,
		spec:   have,
		reader: NewPCMReader(p),
		buf:    make([]byte, sdlBufferFrames*bytesPerFrame),
		stop:   make(chan struct{}),
	}, nil
}

// Start unpauses the device and begins feeding it.
func (s *SDLOutput) Start() error {
	if err := s.fill(); err != nil {
		return err
	}
	sdl.PauseAudioDevice(s.id, false)

	period := time.Duration(sdlBufferFrames) * time.Second / time.Duration(s.spec.Freq) / 2
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		tck := time.NewTicker(period)
		defer tck.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-tck.C:
				_ = s.fill()
			}
		}
	}()
	return nil
}

// fill tops the device queue up to two buffers.
func (s *SDLOutput) fill() error {
	for sdl.GetQueuedAudioSize(s.id) < uint32(2*len(s.buf)) {
		n, _ := s.reader.Read(s.buf)
		if err := sdl.QueueAudio(s.id, s.buf[:n]); err != nil {
			return err
		}
	}
	return nil
}

// Close stops the pump and closes the device.
func (s *SDLOutput) Close() error {
	close(s.stop)
	s.wg.Wait()
	sdl.CloseAudioDevice(s.id)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
	return nil
}
