package model

import (
	"encoding/json"

	"github.com/charmbracelet/lipgloss"
)

// StatusIcon classifies a single row of a Hydra report.
// The zero value is IconWarning, used for rows that could not be classified.
type StatusIcon uint8

const (
	IconWarning StatusIcon = iota
	IconSucceeded
	IconFailed
	IconCancelled
	IconQueued
)

var (
	succeededStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Glyph returns the plain, uncoloured icon.
func (i StatusIcon) Glyph() string {
	switch i {
	case IconSucceeded:
		return "✔"
	case IconFailed:
		return "✖"
	case IconCancelled:
		return "⏹"
	case IconQueued:
		return "⧖"
	default:
		return "⚠"
	}
}

// Style returns the terminal colour of the icon.
func (i StatusIcon) Style() lipgloss.Style {
	switch i {
	case IconSucceeded:
		return succeededStyle
	case IconFailed, IconCancelled:
		return failedStyle
	default:
		return pendingStyle
	}
}

// Render returns the coloured icon for terminal output.
func (i StatusIcon) Render() string {
	return i.Style().Render(i.Glyph())
}

func (i StatusIcon) String() string {
	return i.Glyph()
}

// MarshalJSON serializes the icon as its glyph.
func (i StatusIcon) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Glyph())
}
