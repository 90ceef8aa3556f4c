//go:build !sdl2

package audio

// SDLOutput stub for when SDL2 is not available
type SDLOutput struct{}

// NewSDLOutput returns an error indicating SDL2 is not available
func NewSDLOutput(rate int, p Provider) (*SDLOutput, error) {
	return nil, ErrOutputUnavailable
}

// Start returns an error
func (s *SDLOutput) Start() error { return ErrOutputUnavailable }

// Close does nothing
func (s *SDLOutput) Close() error { return nil }
