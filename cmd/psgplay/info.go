package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/valerio/go-psgplay/psgplay/vgm"
)

type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	dim   lipgloss.Style
	box   lipgloss.Style
}

var infoStyles = styles{
	title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)),
	label: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(4)).Width(14),
	value: lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(7)),
	dim:   lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8)),
	box:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
}

// vgmSampleRate is the fixed timebase of VGM wait commands.
const vgmSampleRate = 44100

// formatInfo renders the header of f as a table.
func formatInfo(f *vgm.File) string {
	h := f.Header
	s := infoStyles

	var rows []string
	row := func(label, value string) {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, s.label.Render(label), s.value.Render(value)))
	}
	optional := func(label string, set bool, value string) {
		if set {
			row(label, value)
			return
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, s.label.Render(label), s.dim.Render("n/a")))
	}

	row("Version", h.VersionString())
	if h.HasPSG() {
		clock := fmt.Sprintf("%d Hz", h.PSGClock())
		var variants []string
		cfg, _ := h.PSGConfig()
		if cfg.T6W28 {
			variants = append(variants, "T6W28")
		}
		if cfg.DualChip {
			variants = append(variants, "dual")
		}
		if len(variants) > 0 {
			clock += " (" + strings.Join(variants, ", ") + ")"
		}
		row("PSG clock", clock)
		row("Noise", fmt.Sprintf("feedback 0x%04X, width %d", cfg.Feedback, cfg.ShiftWidth))
		row("Flags", fmt.Sprintf("0x%02X", uint8(cfg.Flags)))
	} else {
		row("PSG clock", "none")
	}
	row("Length", fmt.Sprintf("%s (%d samples)", samplesDuration(h.TotalSamples), h.TotalSamples))
	if h.HasLoop() {
		row("Loop", fmt.Sprintf("%s from 0x%X", samplesDuration(h.LoopSamples), h.LoopOffset))
	} else {
		row("Loop", "none")
	}
	optional("Rate", h.Rate != nil && *h.Rate != 0, fmt.Sprintf("%d Hz", deref(h.Rate)))
	optional("YM2413", h.YM2413Clock != nil, fmt.Sprintf("%d Hz", deref(h.YM2413Clock)))
	optional("YM2612", h.YM2612Clock != nil && *h.YM2612Clock != 0, fmt.Sprintf("%d Hz", deref(h.YM2612Clock)))
	optional("YM2151", h.YM2151Clock != nil && *h.YM2151Clock != 0, fmt.Sprintf("%d Hz", deref(h.YM2151Clock)))
	optional("GD3", h.GD3Offset != nil, fmt.Sprintf("0x%X", deref(h.GD3Offset)))
	row("Data", fmt.Sprintf("0x%X (%d bytes)", h.DataOffset, len(f.Data)-int(h.DataOffset)))

	title := s.title.Render(f.Path)
	return lipgloss.JoinVertical(lipgloss.Left, title, s.box.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
}

func deref(v *uint32) uint32 {
	if v == nil {
		return 0
	}
	return *v
}

func samplesDuration(samples uint32) time.Duration {
	d := time.Duration(samples) * time.Second / vgmSampleRate
	return d.Round(10 * time.Millisecond)
}
