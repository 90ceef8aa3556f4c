package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/valerio/go-psgplay/psgplay/vgm"
)

// toneSpec describes a single-tone test recording.
type toneSpec struct {
	Clock       uint32
	Channel     uint8
	Period      uint16
	Attenuation uint8
	Seconds     float64
}

func (s toneSpec) validate() error {
	switch {
	case s.Clock == 0:
		return errors.New("clock must be positive")
	case s.Channel > 2:
		return fmt.Errorf("tone channel %d out of range 0-2", s.Channel)
	case s.Period > 0x3FF:
		return fmt.Errorf("period 0x%X exceeds 10 bits", s.Period)
	case s.Attenuation > 15:
		return fmt.Errorf("attenuation %d out of range 0-15", s.Attenuation)
	case s.Seconds <= 0:
		return errors.New("length must be positive")
	}
	return nil
}

// image builds the recording: program the tone, wait, then silence it.
func (s toneSpec) image() []byte {
	samples := int(s.Seconds * vgmSampleRate)
	return vgm.NewBuilder(s.Clock).
		Tone(s.Channel, s.Period, s.Attenuation).
		Wait(samples).
		Write(0x90 | s.Channel<<5 | 0x0F).
		Bytes()
}

func runTone(c *cli.Context, fs afero.Fs) error {
	if c.NArg() == 0 {
		cli.ShowCommandHelp(c, c.Command.Name)
		return errors.New("no output path provided")
	}
	path := c.Args().First()

	spec := toneSpec{
		Clock:       uint32(c.Int("clock")),
		Channel:     uint8(c.Int("channel")),
		Period:      uint16(c.Int("period")),
		Attenuation: uint8(c.Int("attenuation")),
		Seconds:     c.Float64("seconds"),
	}
	if c.Int("clock") <= 0 || c.Int("channel") < 0 || c.Int("period") < 0 || c.Int("attenuation") < 0 {
		return errors.New("tone parameters must not be negative")
	}
	if err := spec.validate(); err != nil {
		return err
	}

	if err := afero.WriteFile(fs, path, spec.image(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	slog.Info("Wrote test tone", "path", path, "channel", spec.Channel, "period", spec.Period, "seconds", spec.Seconds)
	return nil
}
