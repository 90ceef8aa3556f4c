package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/valerio/go-psgplay/psgplay"
	"github.com/valerio/go-psgplay/psgplay/audio"
	"github.com/valerio/go-psgplay/psgplay/vgm"
)

func runRender(c *cli.Context, fs afero.Fs) error {
	f, err := loadArg(c, fs)
	if err != nil {
		return err
	}
	opts, err := sessionOptions(c)
	if err != nil {
		return err
	}
	if opts.Loops == psgplay.LoopForever {
		return fmt.Errorf("render needs a finite loop count")
	}

	output := c.String("output")
	if output == "" {
		output = wavPath(f.Path)
	}

	_, err = renderFile(fs, f, output, opts)
	return err
}

// renderFile renders f to a WAV file at path and returns the frame count.
func renderFile(fs afero.Fs, f *vgm.File, path string, opts psgplay.Options) (int, error) {
	player, err := psgplay.New(f, opts)
	if err != nil {
		return 0, err
	}

	channels := 1
	if opts.Stereo {
		channels = 2
	}
	w, err := audio.NewWAVWriter(fs, path, int(player.Rate()), channels)
	if err != nil {
		return 0, err
	}

	slog.Info("Rendering", "input", f.Path, "output", path, "rate", player.Rate(), "channels", channels, "loops", opts.Loops)
	start := time.Now()

	n, err := player.Render(w)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("rendering %s: %w", f.Path, err)
	}

	slog.Info("Render complete",
		"samples", n,
		"duration", player.Status().Elapsed(player.Rate()),
		"took", time.Since(start).Round(time.Millisecond))
	return n, nil
}

// wavPath swaps the extension of a VGM path for .wav.
func wavPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".wav"
}
