package config

import "time"

const (
	// Calibration fallback when neither the calibration file nor the frame
	// carries a measured power.
	DefaultMeasuredPower int8 = -59 // RSSI at 1 meter (dBm)

	// Radar display
	MaxRange      = 20.0 // Maximum range in meters
	AspectRatio   = 0.5  // Terminal char aspect correction (chars are ~2:1 tall)
	RingCount     = 4    // Number of concentric rings
	SweepSpeedRPM = 30   // Sweep rotations per minute (1 rotation per 2 seconds)
	SweepTrailDeg = 60.0 // Sweep trail angle in degrees
	TargetFPS     = 30   // Target frames per second

	// Beacon management
	BeaconTimeout  = 30 * time.Second // Remove beacons not seen for this long
	EvictInterval  = 5 * time.Second  // How often to run eviction
	SmoothingAlpha = 0.3              // EMA smoothing factor (30% new, 70% old)
	HistorySize    = 60               // RSSI samples kept per beacon

	// Demo mode
	DemoBeaconMin = 6
	DemoBeaconMax = 10

	// App
	AppName    = "BEACON-RADAR"
	AppVersion = "1.0"
)
