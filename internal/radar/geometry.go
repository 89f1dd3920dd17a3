package radar

import (
	"math"

	"beacon-radar.klederson.com/internal/config"
)

// CellDistance is the distance from a cell to the radar center in columns,
// correcting rows for the terminal aspect ratio.
func CellDistance(col, row, centerX, centerY int) float64 {
	dx := float64(col - centerX)
	dy := float64(row-centerY) / config.AspectRatio
	return math.Hypot(dx, dy)
}

// CellAngle is the bearing from center to a cell in [0, 2π), 0=north,
// increasing clockwise.
func CellAngle(col, row, centerX, centerY int) float64 {
	dx := float64(col - centerX)
	dy := float64(row-centerY) / config.AspectRatio
	return NormalizeAngle(math.Atan2(dx, -dy))
}

// RingChar picks a ring glyph that follows the ring's slope at angle.
func RingChar(angle float64) rune {
	return []rune{'-', '/', '|', '\\'}[int(math.Round(NormalizeAngle(angle)/(math.Pi/4)))%4]
}

// NormalizeAngle wraps an angle to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// MetersToRadius maps a distance onto the radar, clamping at the rim.
// Beacons with no estimate sit on the rim.
func MetersToRadius(meters float64, ok bool, maxRange, radarRadius float64) float64 {
	if !ok || meters > maxRange {
		return radarRadius
	}
	return (meters / maxRange) * radarRadius
}
