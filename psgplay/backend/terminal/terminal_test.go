package terminal

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-psgplay/psgplay"
	"github.com/valerio/go-psgplay/psgplay/backend"
)

func newSimulated(t *testing.T) (*Backend, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	b := NewWithScreen(screen)
	require.NoError(t, b.Init(backend.BackendConfig{Title: "Test Tune", Rate: 44100}))
	screen.SetSize(100, 30)
	t.Cleanup(func() { _ = b.Cleanup() })
	return b, screen
}

func screenText(screen tcell.SimulationScreen) string {
	cells, width, _ := screen.GetContents()
	var sb strings.Builder
	for i, c := range cells {
		if len(c.Runes) > 0 {
			sb.WriteRune(c.Runes[0])
		} else {
			sb.WriteRune(' ')
		}
		if (i+1)%width == 0 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}

func TestTerminal_KeysBecomeActions(t *testing.T) {
	b, screen := newSimulated(t)

	screen.InjectKey(tcell.KeyRune, '2', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, '$', tcell.ModShift)
	screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'z', tcell.ModNone) // unmapped
	screen.InjectKey(tcell.KeyRune, 'u', tcell.ModNone)
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	events, err := b.Update(psgplay.Status{})
	require.NoError(t, err)

	var got []backend.Action
	for _, e := range events {
		got = append(got, e.Action)
	}
	assert.Equal(t, []backend.Action{
		backend.ActionToggleChannel2,
		backend.ActionSoloChannel4,
		backend.ActionPauseToggle,
		backend.ActionUnmuteAll,
		backend.ActionQuit,
	}, got)

	events, err = b.Update(psgplay.Status{})
	require.NoError(t, err)
	assert.Empty(t, events, "queue is drained")
}

func TestTerminal_CtrlCQuits(t *testing.T) {
	b, screen := newSimulated(t)
	screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)

	events, err := b.Update(psgplay.Status{})
	require.NoError(t, err)
	assert.Equal(t, []backend.InputEvent{{Action: backend.ActionQuit}}, events)
}

func TestTerminal_LogLevelKeysStayLocal(t *testing.T) {
	b, screen := newSimulated(t)

	screen.InjectKey(tcell.KeyRune, '+', tcell.ModNone)
	events, err := b.Update(psgplay.Status{})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, slog.LevelDebug, b.LogLevel())

	screen.InjectKey(tcell.KeyRune, '-', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, '-', tcell.ModNone)
	_, err = b.Update(psgplay.Status{})
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, b.LogLevel())
}

func TestTerminal_DrawsStatus(t *testing.T) {
	b, screen := newSimulated(t)

	status := psgplay.Status{
		Samples:      44100 * 3,
		TotalSamples: 44100 * 10,
		StereoMask:   0xF1,
		Loops:        1,
	}
	status.Channels[0] = psgplay.ChannelStatus{Attenuation: 0, Period: 254}
	status.Channels[1] = psgplay.ChannelStatus{Attenuation: 15, Muted: true}
	status.Channels[2] = psgplay.ChannelStatus{Attenuation: 15}
	status.Channels[3] = psgplay.ChannelStatus{Attenuation: 4, Period: 64}

	slog.Warn("Something odd", "offset", 12)
	_, err := b.Update(status)
	require.NoError(t, err)

	text := screenText(screen)
	assert.Contains(t, text, "Test Tune")
	assert.Contains(t, text, "3s  samples 132300/441000  loop 1")
	assert.Contains(t, text, "Tone 1")
	assert.Contains(t, text, "Noise")
	assert.Contains(t, text, "MUTED")
	assert.Contains(t, text, "LR")
	assert.Contains(t, text, "Something odd offset=12")
	assert.Contains(t, text, "Logs [INF]")
}

func TestTerminal_CleanupRestoresLogger(t *testing.T) {
	before := slog.Default()
	screen := tcell.NewSimulationScreen("UTF-8")
	b := NewWithScreen(screen)
	require.NoError(t, b.Init(backend.BackendConfig{}))
	assert.NotEqual(t, before, slog.Default())

	require.NoError(t, b.Cleanup())
	assert.Equal(t, before, slog.Default())
}

func TestTerminalImplementsBackend(t *testing.T) {
	var _ backend.Backend = (*Backend)(nil)
}
