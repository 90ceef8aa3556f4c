package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/valerio/go-psgplay/psgplay"
	"github.com/valerio/go-psgplay/psgplay/backend"
	"github.com/valerio/go-psgplay/psgplay/backend/terminal/render"
	"github.com/valerio/go-psgplay/psgplay/psg"
)

const (
	logCapacity  = 200
	meterWidth   = 24
	channelsTop  = 3
	logsTop      = channelsTop + 7
	minTermWidth = 60
)

var channelNames = [4]string{"Tone 1", "Tone 2", "Tone 3", "Noise"}

// Backend implements the Backend interface using tcell: per-channel meters,
// playback progress and a log panel.
type Backend struct {
	screen     tcell.Screen
	logBuffer  *render.LogBuffer
	logLevel   slog.Level
	config     backend.BackendConfig
	eventQueue []backend.InputEvent
	signals    chan os.Signal
	prevLogger *slog.Logger
}

// New creates a terminal backend drawing to the controlling terminal
func New() *Backend {
	return &Backend{
		logLevel: slog.LevelInfo,
	}
}

// NewWithScreen creates a terminal backend drawing to screen. The screen is
// initialised by Init.
func NewWithScreen(screen tcell.Screen) *Backend {
	b := New()
	b.screen = screen
	return b
}

// Init initializes the terminal and routes logging into the log panel
func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %v", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}

	t.logBuffer = render.NewLogBuffer(logCapacity)
	t.prevLogger = slog.Default()
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)))
	slog.Info("Terminal backend initialized", "title", config.Title)

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	// Set up signal handling for graceful shutdown
	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	return nil
}

// Update draws the status and returns the actions requested since the last call
func (t *Backend) Update(status psgplay.Status) ([]backend.InputEvent, error) {
	select {
	case <-t.signals:
		t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: backend.ActionQuit})
	default:
	}

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	events := t.eventQueue
	t.eventQueue = nil

	t.render(status)
	return events, nil
}

// Cleanup restores the terminal and the previous logger
func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
	}
	if t.prevLogger != nil {
		slog.SetDefault(t.prevLogger)
	}
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey) {
	var key string
	switch ev.Key() {
	case tcell.KeyCtrlC:
		t.queue(backend.ActionQuit)
		return
	case tcell.KeyEscape:
		key = "Escape"
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			key = "Space"
		} else {
			key = string(ev.Rune())
		}
	default:
		return
	}

	act, ok := backend.GetDefaultMapping(key)
	if !ok {
		return
	}

	switch act {
	case backend.ActionLogLevelIncrease:
		t.changeLogLevel(1)
	case backend.ActionLogLevelDecrease:
		t.changeLogLevel(-1)
	default:
		t.queue(act)
	}
}

func (t *Backend) queue(act backend.Action) {
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act})
}

func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel
	switch direction {
	case -1:
		switch t.logLevel {
		case slog.LevelDebug:
			t.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			t.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			t.logLevel = slog.LevelError
		}
	case 1:
		switch t.logLevel {
		case slog.LevelError:
			t.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			t.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			t.logLevel = slog.LevelDebug
		}
	}
	if oldLevel != t.logLevel {
		slog.Info("Log filter changed", "from", oldLevel, "to", t.logLevel)
	}
}

// LogLevel returns the log panel filter.
func (t *Backend) LogLevel() slog.Level {
	return t.logLevel
}

var (
	titleStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	dimStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	meterStyle  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	mutedStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

func (t *Backend) render(status psgplay.Status) {
	t.screen.Clear()
	termWidth, termHeight := t.screen.Size()

	if termWidth < minTermWidth {
		t.drawText(0, 0, termWidth, "Terminal too narrow", mutedStyle)
		t.screen.Show()
		return
	}

	t.drawText(1, 0, termWidth-1, fmt.Sprintf(" %s ", t.config.Title), titleStyle)
	t.drawText(1, 1, termWidth-1, t.progressLine(status), textStyle)

	for i, ch := range status.Channels {
		t.drawChannel(channelsTop+i, termWidth, i, ch, status)
	}

	for x := 0; x < termWidth; x++ {
		t.screen.SetContent(x, logsTop-1, '─', nil, borderStyle)
	}
	title := fmt.Sprintf(" Logs [%s] (-/+ filter) ", render.LevelTag(t.logLevel))
	t.drawText(2, logsTop-1, termWidth-2, title, titleStyle)
	t.drawLogs(1, logsTop, termWidth-2, termHeight)

	help := " 1-4 toggle  shift+1-4 solo  u unmute  space pause  q quit "
	t.drawText(0, termHeight-1, termWidth, help, borderStyle)

	t.screen.Show()
}

func (t *Backend) progressLine(status psgplay.Status) string {
	elapsed := status.Elapsed(t.config.Rate).Truncate(time.Second)
	line := fmt.Sprintf("%s  samples %d", elapsed, status.Samples)
	if status.TotalSamples > 0 {
		line += fmt.Sprintf("/%d", status.TotalSamples)
	}
	if status.Loops > 0 {
		line += fmt.Sprintf("  loop %d", status.Loops)
	}
	switch {
	case status.Err != nil:
		line += "  ERROR"
	case status.Done:
		line += "  finished"
	case status.Paused:
		line += "  paused"
	}
	return line
}

func (t *Backend) drawChannel(y, termWidth, index int, ch psgplay.ChannelStatus, status psgplay.Status) {
	t.drawText(1, y, 7, channelNames[index], textStyle)

	style := meterStyle
	if ch.Muted {
		style = mutedStyle
	}
	level := float64(psg.Volume(ch.Attenuation)) / float64(psg.Volume(0))
	t.drawText(9, y, meterWidth, render.Bar(level, meterWidth), style)

	var detail string
	if index == 3 {
		detail = fmt.Sprintf("att %2d  %-8s period %4d", ch.Attenuation, status.NoiseMode, ch.Period)
	} else {
		var clock uint32
		if t.config.Header != nil {
			clock = t.config.Header.PSGClock()
		}
		note := render.NoteName(render.ToneFrequency(clock, ch.Period))
		detail = fmt.Sprintf("att %2d  %-4s     period %4d", ch.Attenuation, note, ch.Period)
	}

	left := status.StereoMask&(1<<(index+4)) != 0
	right := status.StereoMask&(1<<index) != 0
	detail += "  " + ear(left, "L") + ear(right, "R")
	if ch.Muted {
		detail += "  MUTED"
	}

	x := 9 + meterWidth + 2
	t.drawText(x, y, termWidth-x, detail, dimStyle)
}

func ear(on bool, name string) string {
	if on {
		return name
	}
	return "-"
}

func (t *Backend) drawLogs(startX, startY, width, termHeight int) {
	availableHeight := termHeight - startY - 1
	if width <= 0 || availableHeight <= 0 {
		return
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, entry := range t.logBuffer.GetRecent(availableHeight, t.logLevel) {
		style := infoStyle
		switch entry.Level {
		case slog.LevelDebug:
			style = debugStyle
		case slog.LevelWarn:
			style = warnStyle
		case slog.LevelError:
			style = errStyle
		}

		text := render.FormatLogEntry(entry)
		if len(text) > width && width > 3 {
			text = text[:width-3] + "..."
		}
		t.drawText(startX, startY+i, width, text, style)
	}
}

// drawText writes s at (x, y), clipped to width cells.
func (t *Backend) drawText(x, y, width int, s string, style tcell.Style) {
	i := 0
	for _, r := range s {
		if i >= width {
			return
		}
		t.screen.SetContent(x+i, y, r, nil, style)
		i++
	}
}
