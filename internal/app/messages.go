package app

import "time"

// TickMsg advances the sweep and refreshes the beacon snapshot.
type TickMsg time.Time

// EvictMsg triggers removal of beacons that stopped advertising.
type EvictMsg time.Time
