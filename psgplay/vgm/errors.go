package vgm

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncatedStream is returned when a command's operand bytes run past
	// the end of the data.
	ErrTruncatedStream = errors.New("vgm: truncated command stream")
	// ErrInvalidHeader is returned for data that is not a usable VGM file.
	ErrInvalidHeader = errors.New("vgm: invalid header")
	// ErrShortHeader is returned when the data is shorter than a header.
	ErrShortHeader = fmt.Errorf("%w: too short", ErrInvalidHeader)
	// ErrNoPSG is returned when a file does not use the SN76489.
	ErrNoPSG = errors.New("vgm: file has no SN76489 clock")
)

// UnsupportedOpcodeError reports a command byte the interpreter cannot handle.
type UnsupportedOpcodeError struct {
	Opcode byte
	Offset int
}

func (e *UnsupportedOpcodeError) Error() string {
	return fmt.Sprintf("vgm: unsupported opcode 0x%02X at offset 0x%X", e.Opcode, e.Offset)
}
