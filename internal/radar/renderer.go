package radar

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"beacon-radar.klederson.com/internal/bluetooth"
	"beacon-radar.klederson.com/internal/config"
	"beacon-radar.klederson.com/internal/ibeacon"
	"beacon-radar.klederson.com/internal/ui"
)

var (
	colorBright = lipgloss.Color("#00FF41")
	colorMid    = lipgloss.Color("#008F11")
	colorDim    = lipgloss.Color("#004A0A")

	styleCenter = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleRing   = lipgloss.NewStyle().Foreground(colorMid)
	styleDot    = lipgloss.NewStyle().Foreground(colorDim)
	styleLabel  = lipgloss.NewStyle().Foreground(colorMid)
)

const maxLabelLen = 8

// Symbol is the radar glyph for a proximity bucket.
func Symbol(p ibeacon.Proximity) byte {
	switch p {
	case ibeacon.ProximityImmediate:
		return '@'
	case ibeacon.ProximityNear:
		return '*'
	case ibeacon.ProximityFar:
		return 'o'
	default:
		return '?'
	}
}

type blip struct {
	col, row   int
	beacon     *bluetooth.Beacon
	label      string
	labelCol   int
	labelWidth int
}

type layout struct {
	width, height    int
	centerX, centerY int
	radius           float64
	rings            []float64
}

func newLayout(width, height int) layout {
	l := layout{width: width, height: height, centerX: width / 2, centerY: height / 2}
	l.radius = math.Min(float64(l.centerX-1), float64(l.centerY-1)/config.AspectRatio)
	if l.radius < 3 {
		l.radius = 3
	}
	for i := 1; i <= config.RingCount; i++ {
		l.rings = append(l.rings, l.radius*float64(i)/float64(config.RingCount))
	}
	return l
}

// Place computes where each beacon lands on a width x height radar.
// Distance sets the radius, the beacon key sets the bearing.
func Place(width, height int, beacons []*bluetooth.Beacon, maxRange float64) map[[2]int]*bluetooth.Beacon {
	l := newLayout(width, height)
	out := make(map[[2]int]*bluetooth.Beacon, len(beacons))
	for _, bp := range l.place(beacons, maxRange) {
		out[[2]int{bp.col, bp.row}] = bp.beacon
	}
	return out
}

func (l layout) place(beacons []*bluetooth.Beacon, maxRange float64) []blip {
	blips := make([]blip, 0, len(beacons))
	taken := make(map[int][][2]int) // row -> occupied [start, end) spans

	free := func(row, start, end int) bool {
		for _, s := range taken[row] {
			if start < s[1] && end > s[0] {
				return false
			}
		}
		return true
	}

	// Input is nearest first, so closer beacons win label space.
	for _, b := range beacons {
		d, ok := b.Distance()
		r := MetersToRadius(d, ok, maxRange, l.radius)
		col := l.centerX + int(math.Round(r*math.Sin(b.Angle)))
		row := l.centerY - int(math.Round(r*math.Cos(b.Angle)*config.AspectRatio))
		if col < 0 || col >= l.width || row < 0 || row >= l.height || !free(row, col, col+1) {
			continue
		}
		taken[row] = append(taken[row], [2]int{col, col + 1})

		bp := blip{col: col, row: row, beacon: b}
		label := ansi.Truncate(b.DisplayName(), maxLabelLen, "")
		lw := ansi.StringWidth(label)
		lc := col + 2
		if lc+lw > l.width {
			lc = col - lw - 1
		}
		if lw > 0 && lc >= 0 && free(row, lc, lc+lw) {
			bp.label, bp.labelCol, bp.labelWidth = label, lc, lw
			taken[row] = append(taken[row], [2]int{lc, lc + lw})
		}
		blips = append(blips, bp)
	}
	return blips
}

// Render produces the complete radar display as a styled string. The
// beacon whose key is selected is highlighted.
func Render(width, height int, beacons []*bluetooth.Beacon, sweep *Sweep, maxRange float64, selected string) string {
	if width < 10 || height < 5 {
		return ""
	}
	l := newLayout(width, height)

	// A cell may span several columns when it holds a label.
	type cell struct {
		text  string
		width int
		sty   lipgloss.Style
	}
	overlay := make(map[[2]int]cell)
	for _, bp := range l.place(beacons, maxRange) {
		sty := ui.ProximityStyle(bp.beacon.Proximity())
		if bp.beacon.Key == selected {
			sty = sty.Reverse(true)
		}
		overlay[[2]int{bp.col, bp.row}] = cell{string(Symbol(bp.beacon.Proximity())), 1, sty}
		if bp.label != "" {
			overlay[[2]int{bp.labelCol, bp.row}] = cell{bp.label, bp.labelWidth, styleLabel}
		}
	}

	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if c, ok := overlay[[2]int{col, row}]; ok {
				sb.WriteString(c.sty.Render(c.text))
				col += c.width - 1
				continue
			}
			sb.WriteString(l.background(col, row, sweep))
		}
		if row < height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (l layout) background(col, row int, sweep *Sweep) string {
	dist := CellDistance(col, row, l.centerX, l.centerY)
	if dist > l.radius+0.5 {
		return " "
	}
	angle := CellAngle(col, row, l.centerX, l.centerY)

	switch {
	case col == l.centerX && row == l.centerY:
		return styleCenter.Render("+")
	case col == l.centerX:
		return swept('|', sweep, angle, styleRing)
	case row == l.centerY:
		return swept('-', sweep, angle, styleRing)
	}
	for _, r := range l.rings {
		if math.Abs(dist-r) < 0.8 {
			return swept(RingChar(angle), sweep, angle, styleRing)
		}
	}
	return swept('.', sweep, angle, styleDot)
}

func swept(ch rune, sweep *Sweep, angle float64, base lipgloss.Style) string {
	if sweep == nil {
		return base.Render(string(ch))
	}
	if c := sweepColor(sweep.Intensity(angle)); c != "" {
		return lipgloss.NewStyle().Foreground(c).Render(string(ch))
	}
	return base.Render(string(ch))
}

func sweepColor(intensity float64) lipgloss.Color {
	switch {
	case intensity <= 0:
		return ""
	case intensity > 0.8:
		return "#00FF41"
	case intensity > 0.5:
		return "#00CC33"
	case intensity > 0.3:
		return "#00AA22"
	default:
		return "#005511"
	}
}

// RenderLegend produces the radar legend line.
func RenderLegend(width int) string {
	parts := make([]string, 0, 4)
	for _, p := range []ibeacon.Proximity{
		ibeacon.ProximityImmediate, ibeacon.ProximityNear, ibeacon.ProximityFar, ibeacon.ProximityUnknown,
	} {
		sty := lipgloss.NewStyle().Foreground(ui.ProximityColor(p))
		parts = append(parts, sty.Render(string(Symbol(p))+" "+p.String()))
	}
	legend := strings.Join(parts, "  ")

	pad := (width - lipgloss.Width(legend)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + legend
}
