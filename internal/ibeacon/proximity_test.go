package ibeacon

import (
	"math"
	"testing"
	"time"
)

func TestAccuracy_NoReading(t *testing.T) {
	for p := math.MinInt8; p <= math.MaxInt8; p++ {
		if got := Accuracy(int8(p), 0); got != -1.0 {
			t.Fatalf("Accuracy(%d, 0): got %v, want -1", p, got)
		}
	}
}

func TestAccuracy_Uncalibrated(t *testing.T) {
	if got := Accuracy(0, -70); got != NoAccuracy {
		t.Errorf("got %v, want %v", got, NoAccuracy)
	}
}

func TestAccuracy_Branches(t *testing.T) {
	tests := []struct {
		name  string
		power int8
		rssi  int16
		want  float64
	}{
		{"near field", -59, -40, math.Pow(40.0/59.0, 10)},
		{"ratio one", -59, -59, 0.89976*math.Pow(1, 7.7095) + 0.111},
		{"far field", -59, -80, 0.89976*math.Pow(80.0/59.0, 7.7095) + 0.111},
		{"positive rssi", -59, 10, math.Pow(10.0/-59.0, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Accuracy(tt.power, tt.rssi); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// The far-field curve sits about 1cm above the near-field one at ratio 1.
func TestAccuracy_BoundaryGap(t *testing.T) {
	nearSide := math.Pow(1.0, 10)
	farSide := Accuracy(-59, -59)

	if nearSide != 1.0 {
		t.Fatalf("near side: got %v, want 1", nearSide)
	}
	if math.Abs(farSide-1.01076) > 1e-9 {
		t.Errorf("far side: got %v, want 1.01076", farSide)
	}
	if gap := farSide - nearSide; gap <= 0 || gap > 0.02 {
		t.Errorf("gap: got %v, want within (0, 0.02]", gap)
	}

	// Just below the boundary stays on the near-field branch.
	if got := Accuracy(-60, -59); got >= 1.0 {
		t.Errorf("just inside: got %v, want < 1", got)
	}
}

func TestAccuracy_Monotonic(t *testing.T) {
	prev := 0.0
	for rssi := int16(-30); rssi >= -100; rssi-- {
		d := Accuracy(-59, rssi)
		if d < prev {
			t.Fatalf("rssi %d: distance %v decreased from %v", rssi, d, prev)
		}
		prev = d
	}
}

func TestEstimate(t *testing.T) {
	if _, ok := Estimate(-59, 0); ok {
		t.Error("expected no estimate without a reading")
	}
	d, ok := Estimate(-59, -59)
	if !ok || d != Accuracy(-59, -59) {
		t.Errorf("got %v %v", d, ok)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		rssi int16
		want Proximity
	}{
		{0, ProximityUnknown},
		{-39, ProximityImmediate},
		{-1, ProximityImmediate},
		{20, ProximityImmediate},
		{-40, ProximityNear},
		{-58, ProximityNear},
		{-59, ProximityFar},
		{-100, ProximityFar},
		{math.MinInt16, ProximityFar},
	}
	for _, tt := range tests {
		if got := Classify(tt.rssi); got != tt.want {
			t.Errorf("Classify(%d): got %s, want %s", tt.rssi, got, tt.want)
		}
	}
}

func TestProximityString(t *testing.T) {
	want := map[Proximity]string{
		ProximityUnknown:   "Unknown",
		ProximityImmediate: "Immediate",
		ProximityNear:      "Near",
		ProximityFar:       "Far",
		Proximity(42):      "Unknown",
	}
	for p, s := range want {
		if p.String() != s {
			t.Errorf("%d: got %s, want %s", int(p), p.String(), s)
		}
	}
}

func TestRecord(t *testing.T) {
	now := time.Unix(1700000000, 0)
	rec := FromFrame(fixture(), Observation{
		RSSI:          -70,
		MeasuredPower: -59,
		Timestamp:     now,
		Name:          "lobby",
	})

	id, ok := rec.Identity()
	if !ok || id.UUID != fixtureUUID {
		t.Fatalf("identity: got %v %v", id, ok)
	}
	if rec.ManufacturerID() != UnknownManufacturer {
		t.Errorf("ManufacturerID: got %d, want -1", rec.ManufacturerID())
	}
	if rec.Name() != "lobby" || !rec.Timestamp().Equal(now) {
		t.Errorf("pass-through fields changed: %q %v", rec.Name(), rec.Timestamp())
	}
	if rec.Accuracy() != Accuracy(-59, -70) {
		t.Errorf("Accuracy: got %v", rec.Accuracy())
	}
	if rec.Proximity() != ProximityFar {
		t.Errorf("Proximity: got %s, want Far", rec.Proximity())
	}

	closer := rec.WithRSSI(-35)
	if closer.Proximity() != ProximityImmediate {
		t.Errorf("copy Proximity: got %s", closer.Proximity())
	}
	if rec.RawRSSI() != -70 {
		t.Errorf("receiver modified: rssi %d", rec.RawRSSI())
	}
}

func TestRecord_NoIdentityNoReading(t *testing.T) {
	rec := FromFrame(make([]byte, 31), Observation{ManufacturerID: 0x0075, MeasuredPower: -59})

	if rec.HasIdentity() {
		t.Error("expected no identity")
	}
	if id, _ := rec.Identity(); id != (Identity{}) {
		t.Errorf("absent identity not zero: %v", id)
	}
	if _, ok := rec.RSSI(); ok {
		t.Error("expected no reading")
	}
	if _, ok := rec.Distance(); ok {
		t.Error("expected no distance")
	}
	if rec.Accuracy() != -1.0 || rec.Proximity() != ProximityUnknown {
		t.Errorf("got %v %s, want -1 Unknown", rec.Accuracy(), rec.Proximity())
	}
	if rec.ManufacturerID() != 0x0075 {
		t.Errorf("ManufacturerID: got %d", rec.ManufacturerID())
	}
}
