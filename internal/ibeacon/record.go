package ibeacon

import "time"

// UnknownManufacturer is the ManufacturerID of a record nobody resolved.
const UnknownManufacturer = -1

// Observation is what the radio layer knows about one advertisement besides
// its bytes.
type Observation struct {
	ManufacturerID int
	RSSI           int16 // 0 when no reading is available
	MeasuredPower  int8
	Timestamp      time.Time
	Name           string
}

// Record is one sighting of a beacon. It is built once and never changes;
// accuracy and proximity are computed from its fields on every call.
type Record struct {
	identity    Identity
	hasIdentity bool
	obs         Observation
}

// NewRecord assembles a record from a decode result and an observation.
// A zero ManufacturerID is taken as unresolved.
func NewRecord(id Identity, ok bool, obs Observation) Record {
	if obs.ManufacturerID == 0 {
		obs.ManufacturerID = UnknownManufacturer
	}
	if !ok {
		id = Identity{}
	}
	return Record{identity: id, hasIdentity: ok, obs: obs}
}

// FromFrame decodes raw and wraps the result in a record.
func FromFrame(raw []byte, obs Observation) Record {
	id, ok := Decode(raw)
	return NewRecord(id, ok, obs)
}

// Identity returns the decoded identity, if the frame carried one.
func (r Record) Identity() (Identity, bool) { return r.identity, r.hasIdentity }

// HasIdentity reports whether the record came from an iBeacon frame.
func (r Record) HasIdentity() bool { return r.hasIdentity }

func (r Record) ManufacturerID() int { return r.obs.ManufacturerID }
func (r Record) MeasuredPower() int8 { return r.obs.MeasuredPower }
func (r Record) Timestamp() time.Time { return r.obs.Timestamp }
func (r Record) Name() string { return r.obs.Name }
func (r Record) Observation() Observation { return r.obs }

// RSSI returns the signal reading and whether there was one.
func (r Record) RSSI() (int16, bool) { return r.obs.RSSI, r.obs.RSSI != 0 }

// RawRSSI returns the reading with 0 meaning none.
func (r Record) RawRSSI() int16 { return r.obs.RSSI }

// Accuracy returns the distance estimate, or NoAccuracy.
func (r Record) Accuracy() float64 { return Accuracy(r.obs.MeasuredPower, r.obs.RSSI) }

// Distance returns the distance estimate in meters if one can be made.
func (r Record) Distance() (float64, bool) { return Estimate(r.obs.MeasuredPower, r.obs.RSSI) }

// Proximity classifies the record's signal reading.
func (r Record) Proximity() Proximity { return Classify(r.obs.RSSI) }

// WithRSSI returns a copy of r carrying a different reading.
func (r Record) WithRSSI(rssi int16) Record {
	r.obs.RSSI = rssi
	return r
}

// WithMeasuredPower returns a copy of r calibrated with p.
func (r Record) WithMeasuredPower(p int8) Record {
	r.obs.MeasuredPower = p
	return r
}
