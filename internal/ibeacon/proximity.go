package ibeacon

import "math"

// NoAccuracy is returned by Accuracy when there is nothing to estimate from.
const NoAccuracy = -1.0

// RSSI thresholds (dBm) for Classify.
const (
	ImmediateThreshold = -40
	NearThreshold      = -59
)

// Proximity is a coarse distance bucket derived from RSSI.
type Proximity int

const (
	ProximityUnknown Proximity = iota
	ProximityImmediate
	ProximityNear
	ProximityFar
)

func (p Proximity) String() string {
	switch p {
	case ProximityImmediate:
		return "Immediate"
	case ProximityNear:
		return "Near"
	case ProximityFar:
		return "Far"
	default:
		return "Unknown"
	}
}

// Accuracy estimates the distance in meters to a transmitter whose power at
// 1m is measuredPower, given a reading of rssi. An rssi of 0 means no
// reading and yields NoAccuracy, as does an uncalibrated measuredPower of 0.
//
// Near field (ratio < 1) uses ratio^10, far field uses
// 0.89976*ratio^7.7095 + 0.111. The two do not meet exactly at ratio 1.
func Accuracy(measuredPower int8, rssi int16) float64 {
	if rssi == 0 || measuredPower == 0 {
		return NoAccuracy
	}

	ratio := float64(rssi) / float64(measuredPower)
	if ratio < 1.0 {
		return math.Pow(ratio, 10)
	}
	return 0.89976*math.Pow(ratio, 7.7095) + 0.111
}

// Estimate is Accuracy without the sentinel.
func Estimate(measuredPower int8, rssi int16) (float64, bool) {
	d := Accuracy(measuredPower, rssi)
	if d == NoAccuracy {
		return 0, false
	}
	return d, true
}

// Classify buckets an RSSI reading. -40 is Near and -59 is Far.
func Classify(rssi int16) Proximity {
	switch {
	case rssi == 0:
		return ProximityUnknown
	case rssi > ImmediateThreshold:
		return ProximityImmediate
	case rssi > NearThreshold:
		return ProximityNear
	default:
		return ProximityFar
	}
}
