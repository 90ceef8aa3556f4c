// Package backend contains the playback monitors: a headless progress
// logger and an interactive terminal view.
package backend

import (
	"log/slog"

	"github.com/valerio/go-psgplay/psgplay"
	"github.com/valerio/go-psgplay/psgplay/vgm"
)

// Backend presents a running playback session.
// Backends are responsible for:
// - Rendering the session status to their output (log, terminal)
// - Translating platform input into Actions
type Backend interface {
	// Init configures the backend. It must be called before Update.
	Init(config BackendConfig) error

	// Update draws the given status and returns the input collected since
	// the previous call.
	Update(status psgplay.Status) ([]InputEvent, error)

	// Cleanup releases resources when shutting down
	Cleanup() error
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title  string
	Rate   uint32
	Header *vgm.Header
}

// InputEvent is an action requested by the user.
type InputEvent struct {
	Action Action
}

// Controls is the part of a playback session input can act on.
type Controls interface {
	ToggleChannel(channel int)
	SoloChannel(channel int)
	UnmuteAll()
	TogglePause()
}

// Dispatch applies events to c and reports whether a quit was requested.
// Events after a quit are ignored.
func Dispatch(events []InputEvent, c Controls) (quit bool) {
	for _, evt := range events {
		info := GetInfo(evt.Action)
		slog.Debug("Input", "action", info.Description)

		switch evt.Action {
		case ActionQuit:
			return true
		case ActionPauseToggle:
			c.TogglePause()
		case ActionToggleChannel1, ActionToggleChannel2, ActionToggleChannel3, ActionToggleChannel4:
			c.ToggleChannel(int(evt.Action-ActionToggleChannel1) + 1)
		case ActionSoloChannel1, ActionSoloChannel2, ActionSoloChannel3, ActionSoloChannel4:
			c.SoloChannel(int(evt.Action-ActionSoloChannel1) + 1)
		case ActionUnmuteAll:
			c.UnmuteAll()
		}
	}
	return false
}
