package bluetooth

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"time"

	"beacon-radar.klederson.com/internal/ibeacon"
)

// Beacon is the store's view of one transmitter: its latest record plus
// the smoothed signal and radar placement derived from it.
type Beacon struct {
	Key          string
	MAC          string
	Record       ibeacon.Record
	SmoothedRSSI float64
	Angle        float64 // Radians, 0=north, clockwise
	History      []float64
	Sightings    int
}

// Identity returns the beacon's UUID/major/minor.
func (b *Beacon) Identity() ibeacon.Identity {
	id, _ := b.Record.Identity()
	return id
}

// smoothedRecord is the latest record carrying the smoothed reading.
func (b *Beacon) smoothedRecord() ibeacon.Record {
	if b.Record.RawRSSI() == 0 {
		return b.Record
	}
	rssi := int16(math.Round(b.SmoothedRSSI))
	if rssi == 0 {
		rssi = -1
	}
	return b.Record.WithRSSI(rssi)
}

// Distance returns the estimated distance from the smoothed reading.
func (b *Beacon) Distance() (float64, bool) {
	return b.smoothedRecord().Distance()
}

// Proximity classifies the smoothed reading.
func (b *Beacon) Proximity() ibeacon.Proximity {
	return b.smoothedRecord().Proximity()
}

// LastSeen is the timestamp of the latest sighting.
func (b *Beacon) LastSeen() time.Time {
	return b.Record.Timestamp()
}

// DisplayName returns the calibration label or advertised name, falling
// back to the short UUID.
func (b *Beacon) DisplayName() string {
	if n := b.Record.Name(); n != "" {
		return n
	}
	id := b.Identity()
	return ShortUUID(id.UUID)
}

// ShortUUID returns the first group of a dashed UUID.
func ShortUUID(u string) string {
	if len(u) >= 8 {
		return u[:8]
	}
	return u
}

// KeyToAngle derives a consistent angle from a beacon key using a hash.
// Returns radians in [0, 2π), where 0=north, increasing clockwise.
func KeyToAngle(key string) float64 {
	h := sha256.Sum256([]byte(key))
	val := binary.BigEndian.Uint32(h[:4])
	return float64(val) / float64(math.MaxUint32) * 2 * math.Pi
}
