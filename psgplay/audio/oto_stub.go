//go:build !oto

package audio

// OtoOutput stub for builds without the oto tag
type OtoOutput struct{}

// NewOtoOutput returns ErrOutputUnavailable.
func NewOtoOutput(rate int, p Provider) (*OtoOutput, error) {
	return nil, ErrOutputUnavailable
}

// Start does nothing
func (o *OtoOutput) Start() error { return ErrOutputUnavailable }

// Close does nothing
func (o *OtoOutput) Close() error { return nil }
