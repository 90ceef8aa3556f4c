package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/valerio/go-psgplay/psgplay"
	"github.com/valerio/go-psgplay/psgplay/psg"
	"github.com/valerio/go-psgplay/psgplay/vgm"
)

func main() {
	err := newApp(afero.NewOsFs()).Run(os.Args)
	if err != nil {
		slog.Error("Error running psgplay", "error", err)
		os.Exit(1)
	}
}

func newApp(fs afero.Fs) *cli.App {
	app := cli.NewApp()
	app.Name = "psgplay"
	app.Description = "An SN76489 PSG emulator and VGM player"
	app.Usage = "play, render and inspect SN76489 VGM recordings"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:   "verbose",
			Usage:  "Enable debug logging",
			EnvVar: "PSGPLAY_VERBOSE",
		},
	}
	app.Before = func(c *cli.Context) error {
		level := slog.LevelInfo
		if c.GlobalBool("verbose") {
			level = slog.LevelDebug
		}
		handler := slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level})
		slog.SetDefault(slog.New(handler))
		return nil
	}
	app.ErrWriter = os.Stderr
	app.Commands = []cli.Command{
		{
			Name:      "play",
			Usage:     "Play a VGM file live",
			ArgsUsage: "<file.vgm|file.vgz>",
			Flags: append(sessionFlags(),
				cli.StringFlag{
					Name:   "backend",
					Usage:  "Monitor backend: headless or terminal",
					Value:  "terminal",
					EnvVar: "PSGPLAY_BACKEND",
				},
				cli.StringFlag{
					Name:   "audio",
					Usage:  "Audio output: oto, sdl2 or none",
					Value:  "oto",
					EnvVar: "PSGPLAY_AUDIO",
				},
				cli.IntFlag{
					Name:  "updates",
					Usage: "Stop after N monitor updates (0 = until the end)",
				},
			),
			Action: func(c *cli.Context) error { return runPlay(c, fs) },
		},
		{
			Name:      "render",
			Usage:     "Render a VGM file to a WAV file",
			ArgsUsage: "<file.vgm|file.vgz>",
			Flags: append(sessionFlags(),
				cli.StringFlag{
					Name:   "output, o",
					Usage:  "WAV output path (default: input name with .wav)",
					EnvVar: "PSGPLAY_OUTPUT",
				},
			),
			Action: func(c *cli.Context) error { return runRender(c, fs) },
		},
		{
			Name:      "info",
			Usage:     "Show the header of a VGM file",
			ArgsUsage: "<file.vgm|file.vgz>",
			Action: func(c *cli.Context) error {
				f, err := loadArg(c, fs)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(c.App.Writer, formatInfo(f))
				return err
			},
		},
		{
			Name:      "tone",
			Usage:     "Write a VGM file holding a single test tone",
			ArgsUsage: "<output.vgm>",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "clock", Usage: "PSG clock in Hz", Value: 3579545},
				cli.IntFlag{Name: "channel", Usage: "Tone channel 0-2"},
				cli.IntFlag{Name: "period", Usage: "10-bit tone period", Value: 254},
				cli.IntFlag{Name: "attenuation", Usage: "Attenuation 0 (loudest) to 15 (silent)"},
				cli.Float64Flag{Name: "seconds", Usage: "Length in seconds", Value: 2},
			},
			Action: func(c *cli.Context) error { return runTone(c, fs) },
		},
	}
	return app
}

func sessionFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:   "rate",
			Usage:  "Output sample rate in Hz",
			Value:  psg.DefaultSampleRate,
			EnvVar: "PSGPLAY_RATE",
		},
		cli.IntFlag{
			Name:   "quality",
			Usage:  "Resampling quality: 0 fast, 1 oversampled",
			Value:  1,
			EnvVar: "PSGPLAY_QUALITY",
		},
		cli.BoolFlag{
			Name:   "stereo",
			Usage:  "Render with the Game Gear stereo mask",
			EnvVar: "PSGPLAY_STEREO",
		},
		cli.IntFlag{
			Name:   "loops",
			Usage:  "Extra passes over the loop section (-1 = forever when playing)",
			EnvVar: "PSGPLAY_LOOPS",
		},
	}
}

func sessionOptions(c *cli.Context) (psgplay.Options, error) {
	rate := c.Int("rate")
	if rate <= 0 {
		return psgplay.Options{}, fmt.Errorf("invalid sample rate %d", rate)
	}
	quality := c.Int("quality")
	if quality < 0 {
		return psgplay.Options{}, fmt.Errorf("invalid quality %d", quality)
	}
	loops := c.Int("loops")
	if loops < psgplay.LoopForever {
		return psgplay.Options{}, fmt.Errorf("invalid loop count %d", loops)
	}

	opts := psgplay.DefaultOptions()
	opts.Rate = uint32(rate)
	opts.Quality = uint32(quality)
	opts.Stereo = c.Bool("stereo")
	opts.Loops = loops
	return opts, nil
}

func loadArg(c *cli.Context, fs afero.Fs) (*vgm.File, error) {
	if c.NArg() == 0 {
		cli.ShowCommandHelp(c, c.Command.Name)
		return nil, errors.New("no VGM file provided")
	}
	return vgm.Load(fs, c.Args().First())
}
