package headless

import (
	"log/slog"
	"time"

	"github.com/valerio/go-psgplay/psgplay"
	"github.com/valerio/go-psgplay/psgplay/backend"
)

// progressInterval is how many updates pass between progress lines.
const progressInterval = 60

// Backend implements the Backend interface for unattended playback: it logs
// progress and asks to quit when playback ends.
type Backend struct {
	config      backend.BackendConfig
	updateCount int
	maxUpdates  int
}

// New creates a headless backend. A positive maxUpdates stops playback after
// that many updates.
func New(maxUpdates int) *Backend {
	return &Backend{
		maxUpdates: maxUpdates,
	}
}

func (h *Backend) Init(config backend.BackendConfig) error {
	h.config = config

	attrs := []any{"title", config.Title, "rate", config.Rate}
	if config.Header != nil {
		attrs = append(attrs,
			"version", config.Header.VersionString(),
			"clock", config.Header.PSGClock(),
			"samples", config.Header.TotalSamples)
	}
	if h.maxUpdates > 0 {
		attrs = append(attrs, "updates", h.maxUpdates)
	}
	slog.Info("Running headless mode", attrs...)
	return nil
}

// Update logs progress and signals completion via a quit event
func (h *Backend) Update(status psgplay.Status) ([]backend.InputEvent, error) {
	h.updateCount++

	if h.updateCount%progressInterval == 0 {
		slog.Info("Playback progress",
			"elapsed", status.Elapsed(h.config.Rate).Round(100*time.Millisecond),
			"samples", status.Samples,
			"total", status.TotalSamples,
			"loops", status.Loops)
	}

	quit := []backend.InputEvent{{Action: backend.ActionQuit}}

	if status.Err != nil {
		slog.Error("Playback failed", "error", status.Err, "position", status.Position)
		return quit, nil
	}
	if status.Done {
		slog.Info("Playback completed", "samples", status.Samples, "loops", status.Loops)
		return quit, nil
	}
	if h.maxUpdates > 0 && h.updateCount >= h.maxUpdates {
		slog.Info("Headless execution completed", "updates", h.updateCount, "samples", status.Samples)
		return quit, nil
	}
	return nil, nil
}

func (h *Backend) Cleanup() error {
	return nil
}
