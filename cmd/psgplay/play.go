package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/valerio/go-psgplay/psgplay"
	"github.com/valerio/go-psgplay/psgplay/audio"
	"github.com/valerio/go-psgplay/psgplay/backend"
	"github.com/valerio/go-psgplay/psgplay/backend/headless"
	"github.com/valerio/go-psgplay/psgplay/backend/terminal"
)

const updateInterval = time.Second / 30

func runPlay(c *cli.Context, fs afero.Fs) error {
	f, err := loadArg(c, fs)
	if err != nil {
		return err
	}
	opts, err := sessionOptions(c)
	if err != nil {
		return err
	}

	player, err := psgplay.New(f, opts)
	if err != nil {
		return err
	}

	mon, err := newBackend(c.String("backend"), c.Int("updates"))
	if err != nil {
		return err
	}
	out, err := newOutput(c.String("audio"), int(opts.Rate), player)
	if err != nil {
		return err
	}

	config := backend.BackendConfig{
		Title:  filepath.Base(f.Path),
		Rate:   player.Rate(),
		Header: f.Header,
	}
	return play(player, mon, out, config, updateInterval)
}

// play runs the monitor loop until the backend asks to quit.
func play(player *psgplay.Player, mon backend.Backend, out audio.Output, config backend.BackendConfig, interval time.Duration) (err error) {
	if err := mon.Init(config); err != nil {
		return err
	}
	defer func() {
		if cerr := mon.Cleanup(); err == nil {
			err = cerr
		}
	}()

	if err := out.Start(); err != nil {
		return fmt.Errorf("starting audio: %w", err)
	}
	defer out.Close()

	tck := time.NewTicker(interval)
	defer tck.Stop()

	for range tck.C {
		status := player.Status()
		events, err := mon.Update(status)
		if err != nil {
			return err
		}
		if backend.Dispatch(events, player) {
			return status.Err
		}
	}
	return nil
}

func newBackend(name string, updates int) (backend.Backend, error) {
	switch name {
	case "headless":
		return headless.New(updates), nil
	case "terminal":
		return terminal.New(), nil
	}
	return nil, fmt.Errorf("unknown backend %q", name)
}

func newOutput(name string, rate int, p audio.Provider) (audio.Output, error) {
	var out audio.Output
	var err error
	switch name {
	case "none":
		return audio.NewNullOutput(rate, p), nil
	case "oto":
		out, err = audio.NewOtoOutput(rate, p)
	case "sdl2":
		out, err = audio.NewSDLOutput(rate, p)
	default:
		return nil, fmt.Errorf("unknown audio output %q", name)
	}

	if errors.Is(err, audio.ErrOutputUnavailable) {
		slog.Warn("Audio output not compiled in, playing silently", "audio", name)
		return audio.NewNullOutput(rate, p), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s audio: %w", name, err)
	}
	return out, nil
}
