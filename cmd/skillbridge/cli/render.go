// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Theme holds the styles used for text output. lipgloss drops the colors
// when stdout is not a terminal, so piped output stays plain.
type Theme struct {
	Heading lipgloss.Style
	Label   lipgloss.Style
	Faint   lipgloss.Style
	Accent  lipgloss.Style
	Unread  lipgloss.Style
	Own     lipgloss.Style
	Error   lipgloss.Style
}

// DefaultTheme is the theme used by every command.
var DefaultTheme = Theme{
	Heading: lipgloss.NewStyle().Bold(true),
	Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	Faint:   lipgloss.NewStyle().Faint(true),
	Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	Unread:  lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("33")).Bold(true),
	Own:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
}

// PreviewWidth is the display width of one-line message previews.
const PreviewWidth = 60

// Preview collapses text onto one line and truncates it to width
// display cells, ending with an ellipsis when cut.
func Preview(text string, width int) string {
	return ansi.Truncate(strings.Join(strings.Fields(text), " "), width, "…")
}

// FormatTime labels a message time relative to now: the clock time
// within the last 24 hours, "Yesterday" within 48, otherwise the date.
// The label uses now's location.
func FormatTime(now, t time.Time) string {
	local := t.In(now.Location())
	age := now.Sub(t)
	switch {
	case age < 24*time.Hour:
		return local.Format("15:04")
	case age < 48*time.Hour:
		return "Yesterday"
	default:
		return local.Format("2006-01-02")
	}
}
