package psg

import "errors"

var (
	ErrInvalidClock      = errors.New("psg: clock too low")
	ErrInvalidShiftWidth = errors.New("psg: invalid shift register width")
)
