//go:build oto

package audio

import (
	"sync"

	"github.com/ebitengine/oto/v3"
)

// OtoOutput plays a Provider through the system audio device using oto.
// Note: on Linux this needs the ALSA development headers, so it is only
// built with the oto tag.
type OtoOutput struct {
	ctx    *oto.Context
	player *oto.Player
	mutex  sync.Mutex
}

// NewOtoOutput opens the default device at rate Hz, 16-bit stereo.
func NewOtoOutput(rate int, p Provider) (*OtoOutput, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: outputChannels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	return &OtoOutput{
		ctx:    ctx,
		player: ctx.NewPlayer(NewPCMReader(p)),
	}, nil
}

// Start begins playback.
func (o *OtoOutput) Start() error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.player != nil {
		o.player.Play()
	}
	return nil
}

// Close stops playback and releases the player.
func (o *OtoOutput) Close() error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.player == nil {
		return nil
	}
	err := o.player.Close()
	o.player = nil
	return err
}
