package audio

// Provider is a pull source of interleaved 16-bit stereo samples for live
// output devices.
type Provider interface {
	// GetSamples retrieves count interleaved samples (count/2 frames) for
	// playback. Missing samples are filled with silence.
	GetSamples(count int) []int16

	// Audio debugging controls

	ToggleChannel(channel int)
	SoloChannel(channel int)
	GetChannelStatus() (ch1, ch2, ch3, ch4 bool)
}
