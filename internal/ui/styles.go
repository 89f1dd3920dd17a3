package ui

import (
	"github.com/charmbracelet/lipgloss"

	"beacon-radar.klederson.com/internal/ibeacon"
)

// Matrix color palette
var (
	ColorMatrixGreen  = lipgloss.Color("#00FF41")
	ColorGreen        = lipgloss.Color("#00CC33")
	ColorMidGreen     = lipgloss.Color("#008F11")
	ColorDimGreen     = lipgloss.Color("#004A0A")
	ColorBorderBright = lipgloss.Color("#00FF41")
	ColorBorderNorm   = lipgloss.Color("#00AA22")
	ColorWarning      = lipgloss.Color("#FFAA00")

	ColorImmediate = lipgloss.Color("#00FFAA")
	ColorNear      = lipgloss.Color("#33FF66")
	ColorFar       = lipgloss.Color("#FFCC00")
	ColorUnknown   = lipgloss.Color("#557755")
)

// Pre-built styles
var (
	StyleMenuBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#002200")).
			Foreground(ColorMatrixGreen).
			Bold(true).
			Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorMatrixGreen).
			Bold(true)

	StyleMenuLabel = lipgloss.NewStyle().
			Foreground(ColorGreen)

	StyleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#002200")).
			Foreground(ColorGreen).
			Padding(0, 1)

	StyleStatusScanning = lipgloss.NewStyle().
				Foreground(ColorMatrixGreen).
				Bold(true)

	StyleStatusPaused = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	StylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderNorm)

	StylePanelActive = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderBright)

	StylePanelTitle = lipgloss.NewStyle().
			Foreground(ColorMatrixGreen).
			Bold(true).
			Padding(0, 1)

	StyleBeaconName = lipgloss.NewStyle().
			Foreground(ColorMatrixGreen).
			Bold(true)

	StyleBeaconUUID = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleBeaconRSSI = lipgloss.NewStyle().
			Foreground(ColorGreen)

	StyleSeparator = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorDimGreen)

	StyleCursorRow = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(ColorMatrixGreen).
			Bold(true)
)

// ProximityColor returns the display color for a proximity bucket.
func ProximityColor(p ibeacon.Proximity) lipgloss.Color {
	switch p {
	case ibeacon.ProximityImmediate:
		return ColorImmediate
	case ibeacon.ProximityNear:
		return ColorNear
	case ibeacon.ProximityFar:
		return ColorFar
	default:
		return ColorUnknown
	}
}

// ProximityStyle returns a bold style in the proximity's color.
func ProximityStyle(p ibeacon.Proximity) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ProximityColor(p)).Bold(true)
}
