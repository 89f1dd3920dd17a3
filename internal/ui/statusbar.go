package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"beacon-radar.klederson.com/internal/ibeacon"
)

// RenderStatusBar renders the bottom status bar with per-proximity counts.
// failed marks a scanner that stopped on an error.
func RenderStatusBar(width int, scanning, failed bool, total int, counts map[ibeacon.Proximity]int, sweepDeg, maxRange float64) string {
	status := StyleStatusPaused.Render("[PAUSED]")
	switch {
	case failed:
		status = StyleStatusPaused.Render("[SCAN FAILED]")
	case scanning:
		status = StyleStatusScanning.Render("[SCANNING]")
	}

	info := fmt.Sprintf(" Beacons: %d  Imm: %d  Near: %d  Far: %d  ?: %d  Sweep: %ddeg  Range: 0-%.0fm",
		total,
		counts[ibeacon.ProximityImmediate],
		counts[ibeacon.ProximityNear],
		counts[ibeacon.ProximityFar],
		counts[ibeacon.ProximityUnknown],
		int(sweepDeg), maxRange)

	content := status + StyleStatusBar.Foreground(ColorGreen).Render(info)

	gap := width - 2 - lipgloss.Width(content) // minus bar padding
	if gap < 0 {
		gap = 0
	}
	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
