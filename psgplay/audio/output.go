package audio

import (
	"encoding/binary"
	"errors"
	"sync"
	"time"
)

// ErrOutputUnavailable is returned by live outputs compiled out of the build.
var ErrOutputUnavailable = errors.New("audio output not available in this build")

const (
	outputChannels = 2
	bytesPerSample = 2
	bytesPerFrame  = outputChannels * bytesPerSample
)

// Output is a live playback device pulling from a Provider.
type Output interface {
	Start() error
	Close() error
}

// PCMReader adapts a Provider to an io.Reader of interleaved signed 16-bit
// little-endian stereo PCM, the format the live outputs open their devices with.
type PCMReader struct {
	provider Provider
}

// NewPCMReader wraps p.
func NewPCMReader(p Provider) *PCMReader {
	return &PCMReader{provider: p}
}

// Read fills p with whole frames. It never returns an error; a finished
// provider yields silence.
func (r *PCMReader) Read(p []byte) (int, error) {
	n := len(p) / bytesPerFrame * bytesPerFrame
	samples := r.provider.GetSamples(n / bytesPerSample)
	for i := 0; i < n/bytesPerSample; i++ {
		var s int16
		if i < len(samples) {
			s = samples[i]
		}
		binary.LittleEndian.PutUint16(p[i*bytesPerSample:], uint16(s))
	}
	return n, nil
}

// nullTick is how often NullOutput drains its provider.
const nullTick = 20 * time.Millisecond

// NullOutput consumes a Provider in real time without a sound device, so
// monitors still see playback progress.
type NullOutput struct {
	provider Provider
	rate     int

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewNullOutput drains p at rate frames per second once started.
func NewNullOutput(rate int, p Provider) *NullOutput {
	return &NullOutput{
		provider: p,
		rate:     rate,
		stop:     make(chan struct{}),
	}
}

// Start begins draining.
func (o *NullOutput) Start() error {
	frames := max(o.rate*int(nullTick)/int(time.Second), 1)
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		tck := time.NewTicker(nullTick)
		defer tck.Stop()
		for {
			select {
			case <-o.stop:
				return
			case <-tck.C:
				o.provider.GetSamples(frames * outputChannels)
			}
		}
	}()
	return nil
}

// Close stops draining.
func (o *NullOutput) Close() error {
	o.once.Do(func() { close(o.stop) })
	o.wg.Wait()
	return nil
}
