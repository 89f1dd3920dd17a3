package radar

import (
	"math"
	"time"

	"beacon-radar.klederson.com/internal/config"
)

// Sweep manages the rotating sweep line state.
type Sweep struct {
	Angle     float64 // Current angle in radians [0, 2π)
	StartTime time.Time
}

// NewSweep creates a sweep starting at north at the given time.
func NewSweep(start time.Time) *Sweep {
	return &Sweep{StartTime: start}
}

// Update advances the sweep angle to where it is at now.
func (s *Sweep) Update(now time.Time) {
	elapsed := now.Sub(s.StartTime).Seconds()
	rps := float64(config.SweepSpeedRPM) / 60.0
	s.Angle = NormalizeAngle(elapsed * rps * 2 * math.Pi)
}

// Degrees returns the current sweep angle in degrees.
func (s *Sweep) Degrees() float64 {
	return s.Angle * 180 / math.Pi
}

// Intensity returns the glow in [0, 1] for a cell at cellAngle: 1 under the
// sweep head, fading linearly to 0 at the end of the trail.
func (s *Sweep) Intensity(cellAngle float64) float64 {
	behind := NormalizeAngle(s.Angle - cellAngle)
	trail := config.SweepTrailDeg * math.Pi / 180.0
	if behind > trail {
		return 0
	}
	return 1.0 - behind/trail
}
