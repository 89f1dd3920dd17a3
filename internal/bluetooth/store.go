package bluetooth

import (
	"sort"
	"sync"
	"time"

	"beacon-radar.klederson.com/internal/config"
	"beacon-radar.klederson.com/internal/ibeacon"
)

type entry struct {
	beacon  Beacon
	history *RSSIRing
}

// BeaconStore is a thread-safe store of the latest sighting per beacon.
type BeaconStore struct {
	mu      sync.RWMutex
	beacons map[string]*entry
	now     func() time.Time
}

// NewBeaconStore creates a new empty BeaconStore.
func NewBeaconStore() *BeaconStore {
	return &BeaconStore{
		beacons: make(map[string]*entry),
		now:     time.Now,
	}
}

// Upsert records a sighting. Records without an identity are ignored.
// The stored record is replaced, never modified; RSSI is smoothed using EMA
// across sightings and a reading of 0 leaves the smoothed value alone.
func (s *BeaconStore) Upsert(mac string, rec ibeacon.Record) bool {
	id, ok := rec.Identity()
	if !ok {
		return false
	}
	key := id.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.beacons[key]
	if !exists {
		e = &entry{
			beacon: Beacon{
				Key:   key,
				Angle: KeyToAngle(key),
			},
			history: NewRSSIRing(config.HistorySize),
		}
		s.beacons[key] = e
	}

	rssi, hasRSSI := rec.RSSI()
	if hasRSSI {
		if e.history.Len() == 0 {
			e.beacon.SmoothedRSSI = float64(rssi)
		} else {
			e.beacon.SmoothedRSSI = e.beacon.SmoothedRSSI*(1-config.SmoothingAlpha) + float64(rssi)*config.SmoothingAlpha
		}
		e.history.Push(float64(rssi))
	} else if e.history.Len() > 0 {
		// Keep the last reading so the beacon does not drop to Unknown
		// because of a single sighting without signal data.
		rec = rec.WithRSSI(int16(e.history.Last()))
	}

	if rec.Name() == "" && e.beacon.Record.Name() != "" {
		obs := rec.Observation()
		obs.Name = e.beacon.Record.Name()
		rec = ibeacon.NewRecord(id, true, obs)
	}

	e.beacon.Record = rec
	e.beacon.MAC = mac
	e.beacon.Sightings++
	return !exists
}

// Evict removes beacons not seen within the timeout duration.
// Returns the number of evicted beacons.
func (s *BeaconStore) Evict(timeout time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-timeout)
	count := 0
	for key, e := range s.beacons {
		if e.beacon.LastSeen().Before(cutoff) {
			delete(s.beacons, key)
			count++
		}
	}
	return count
}

// Snapshot returns copies of all beacons ranked nearest first. Beacons
// without a distance estimate come last, in key order.
func (s *BeaconStore) Snapshot() []*Beacon {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Beacon, 0, len(s.beacons))
	for _, e := range s.beacons {
		cp := e.beacon
		cp.History = e.history.Values()
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		di, oki := result[i].Distance()
		dj, okj := result[j].Distance()
		if oki != okj {
			return oki
		}
		if oki && di != dj {
			return di < dj
		}
		return result[i].Key < result[j].Key
	})
	return result
}

// Get returns a copy of the beacon stored under key.
func (s *BeaconStore) Get(key string) (*Beacon, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.beacons[key]
	if !ok {
		return nil, false
	}
	cp := e.beacon
	cp.History = e.history.Values()
	return &cp, true
}

// Count returns the total number of tracked beacons.
func (s *BeaconStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.beacons)
}

// CountByProximity returns how many beacons fall in each proximity bucket.
func (s *BeaconStore) CountByProximity() map[ibeacon.Proximity]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[ibeacon.Proximity]int, 4)
	for _, e := range s.beacons {
		counts[e.beacon.Proximity()]++
	}
	return counts
}
