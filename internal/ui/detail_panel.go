package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"beacon-radar.klederson.com/internal/bluetooth"
	"beacon-radar.klederson.com/internal/ibeacon"
)

// RenderDetailPanel renders the beacon detail view that replaces the radar.
func RenderDetailPanel(b *bluetooth.Beacon, width, height int, now time.Time) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	title := StylePanelTitle.Render("BEACON DETAIL")
	escHint := StyleHelp.Render("[ESC]")
	gap := innerW - lipgloss.Width(title) - lipgloss.Width(escHint)
	if gap < 0 {
		gap = 0
	}

	lines := []string{
		title + strings.Repeat(" ", gap) + escHint,
		StyleSeparator.Render(strings.Repeat("-", innerW)),
		"",
	}

	labelSty := lipgloss.NewStyle().Foreground(ColorMidGreen)
	valSty := lipgloss.NewStyle().Foreground(ColorMatrixGreen).Bold(true)

	for _, f := range detailFields(b, now) {
		lines = append(lines, labelSty.Render(fmt.Sprintf("  %-12s", f.label))+valSty.Render(f.value))
	}
	lines = append(lines, "")

	barWidth := innerW - 22
	if barWidth < 10 {
		barWidth = 10
	}
	lines = append(lines, labelSty.Render("  Signal ")+renderSignalBar(b.SmoothedRSSI, b.Proximity(), barWidth))

	if len(b.History) > 0 {
		lines = append(lines, "", labelSty.Render("  RSSI History:"))
		lines = append(lines, "  "+lipgloss.NewStyle().Foreground(ColorGreen).Render(renderSparkline(b.History, innerW-4)))
	}

	content := clampLines(strings.Join(lines, "\n"), height-2)
	return StylePanelActive.Width(width - 2).Height(height - 2).Render(content)
}

type field struct{ label, value string }

func detailFields(b *bluetooth.Beacon, now time.Time) []field {
	id := b.Identity()
	rec := b.Record

	rssi := "no reading"
	if r, ok := rec.RSSI(); ok {
		rssi = fmt.Sprintf("%d dBm (avg %.0f)", r, b.SmoothedRSSI)
	}

	dist := "unknown"
	if d, ok := b.Distance(); ok {
		dist = fmt.Sprintf("~%.2fm", d)
	}

	return []field{
		{"Name", b.DisplayName()},
		{"UUID", id.UUID},
		{"Major", fmt.Sprintf("%d", id.Major)},
		{"Minor", fmt.Sprintf("%d", id.Minor)},
		{"Legacy ids", legacyIDs(id)},
		{"Company", bluetooth.ManufacturerName(rec.ManufacturerID())},
		{"MAC", b.MAC},
		{"RSSI", rssi},
		{"Tx @1m", fmt.Sprintf("%d dBm", rec.MeasuredPower())},
		{"Distance", dist},
		{"Proximity", b.Proximity().String()},
		{"Sightings", fmt.Sprintf("%d", b.Sightings)},
		{"Last", formatLastSeen(now.Sub(b.LastSeen()))},
	}
}

// legacyIDs shows what the old hex-as-decimal decoder made of major/minor.
func legacyIDs(id ibeacon.Identity) string {
	major, okMajor := ibeacon.LegacyValue(id.Major)
	minor, okMinor := ibeacon.LegacyValue(id.Minor)
	if !okMajor || !okMinor {
		return "n/a"
	}
	return fmt.Sprintf("%d/%d", major, minor)
}

func renderSignalBar(rssi float64, prox ibeacon.Proximity, width int) string {
	// Map RSSI -100..-30 to 0..width filled bars
	ratio := (rssi + 100.0) / 70.0
	if prox == ibeacon.ProximityUnknown || ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(math.Round(ratio * float64(width)))

	filledPart := lipgloss.NewStyle().Foreground(ProximityColor(prox)).Render(strings.Repeat("|", filled))
	emptyPart := lipgloss.NewStyle().Foreground(ColorDimGreen).Render(strings.Repeat("-", width-filled))
	return StyleHelp.Render("[") + filledPart + emptyPart + StyleHelp.Render("]")
}

func renderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	chars := []byte{'_', '.', '-', '~', '^'}

	if len(values) > width {
		values = values[len(values)-width:]
	}
	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	rng := maxV - minV
	if rng < 1 {
		rng = 1
	}

	var sb strings.Builder
	for _, v := range values {
		idx := int((v - minV) / rng * float64(len(chars)-1))
		sb.WriteByte(chars[idx])
	}
	return sb.String()
}

func formatLastSeen(d time.Duration) string {
	if d < time.Second {
		return "now"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm ago", int(d.Minutes()))
}
