package ui

import (
	"fmt"
	"strings"

	"beacon-radar.klederson.com/internal/bluetooth"
)

const linesPerBeacon = 4 // 3 content + 1 blank

// RenderBeaconList renders the beacon list, nearest first, keeping the
// cursor row in view.
func RenderBeaconList(beacons []*bluetooth.Beacon, width, height, cursor int) string {
	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}
	innerH := height - 2
	if innerH < 3 {
		innerH = 3
	}

	lines := []string{
		StylePanelTitle.Render(fmt.Sprintf("BEACONS [%d]", len(beacons))),
		StyleSeparator.Render(strings.Repeat("-", innerW)),
	}
	space := innerH - len(lines)

	if len(beacons) == 0 {
		lines = append(lines, "", StyleHelp.Render(" No beacons..."), StyleHelp.Render(" Waiting for scan"))
	} else {
		maxVisible := space / linesPerBeacon
		if maxVisible < 1 {
			maxVisible = 1
		}
		start := 0
		if cursor >= maxVisible {
			start = cursor - maxVisible + 1
		}
		for i := start; i < len(beacons) && i < start+maxVisible; i++ {
			lines = append(lines, renderBeaconEntry(beacons[i], innerW, i == cursor)...)
		}
	}

	content := clampLines(strings.Join(lines, "\n"), innerH)
	return clampLines(StylePanelBorder.Width(width-2).Height(innerH).Render(content), height)
}

func renderBeaconEntry(b *bluetooth.Beacon, w int, isCursor bool) []string {
	id := b.Identity()
	prox := b.Proximity()
	tag := "[" + strings.ToUpper(prox.String()) + "]"

	marker := "  "
	if isCursor {
		marker = ">>"
	}

	nameW := w - len(tag) - 4
	raw1 := fmt.Sprintf("%s %s %s", marker, truncRaw(b.DisplayName(), nameW), tag)
	raw2 := fmt.Sprintf("   %s  %d/%d", bluetooth.ShortUUID(id.UUID), id.Major, id.Minor)
	raw3 := "   " + signalSummary(b)

	raw1, raw2, raw3 = truncRaw(raw1, w), truncRaw(raw2, w), truncRaw(raw3, w)
	if isCursor {
		return []string{StyleCursorRow.Render(raw1), StyleCursorRow.Render(raw2), StyleCursorRow.Render(raw3), ""}
	}

	name := fmt.Sprintf("%s %s ", marker, StyleBeaconName.Render(truncRaw(b.DisplayName(), nameW)))
	return []string{
		name + ProximityStyle(prox).Render(tag),
		StyleBeaconUUID.Render(raw2),
		StyleBeaconRSSI.Render(raw3),
		"",
	}
}

// signalSummary renders "-62dBm  ~1.4m", or placeholders when the beacon
// has no reading yet.
func signalSummary(b *bluetooth.Beacon) string {
	rssi, ok := b.Record.RSSI()
	if !ok {
		return "--dBm  ~?m"
	}
	dist := "~?m"
	if d, ok := b.Distance(); ok {
		dist = fmt.Sprintf("~%.1fm", d)
	}
	return fmt.Sprintf("%ddBm  %s", rssi, dist)
}
