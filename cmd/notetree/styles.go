package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/joshuapare/booxkit/internal/hexview"
)

var (
	// Color palette
	primaryColor = lipgloss.Color("#7D56F4")
	successColor = lipgloss.Color("#04B575")
	warningColor = lipgloss.Color("#FFA500")
	errorColor   = lipgloss.Color("#FF4B4B")
	mutedColor   = lipgloss.Color("#666666")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	unknownStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	failureStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// Byte classes in hex dumps
	printableStyle  = lipgloss.NewStyle().Foreground(successColor)
	whitespaceStyle = lipgloss.NewStyle().Foreground(warningColor)
	otherStyle      = lipgloss.NewStyle().Foreground(mutedColor)
)

// render applies style unless colour is disabled.
func render(style lipgloss.Style, s string) string {
	if noColor {
		return s
	}
	return style.Render(s)
}

// byteStyler colours hex tokens by byte class.
func byteStyler() hexview.Styler {
	if noColor {
		return hexview.Plain
	}
	return func(c hexview.Class, s string) string {
		switch c {
		case hexview.Printable:
			return printableStyle.Render(s)
		case hexview.Whitespace:
			return whitespaceStyle.Render(s)
		default:
			return otherStyle.Render(s)
		}
	}
}
