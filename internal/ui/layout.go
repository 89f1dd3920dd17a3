package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ComposeLayout joins the radar panel and beacon list horizontally,
// with menu bar on top and status bar on bottom.
func ComposeLayout(menuBar, radarPanel, beaconList, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, radarPanel, beaconList)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}

// RenderRadarPanel wraps radar content and its legend with a border.
func RenderRadarPanel(width, height int, radarContent, legend string) string {
	return StylePanelBorder.Width(width - 2).Height(height - 2).Render(radarContent + "\n" + legend)
}

// clampLines pads or cuts s to exactly n lines. lipgloss Height() only
// sets a minimum.
func clampLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// truncRaw pads or truncates a raw string to exactly w terminal cells.
func truncRaw(s string, w int) string {
	if w < 0 {
		w = 0
	}
	s = ansi.Truncate(s, w, "")
	return s + strings.Repeat(" ", w-ansi.StringWidth(s))
}
