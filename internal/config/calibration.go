package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"

	"beacon-radar.klederson.com/internal/ibeacon"
)

// ErrInvalidCalibration is wrapped by every calibration validation failure.
var ErrInvalidCalibration = errors.New("invalid calibration")

// Calibration maps deployed transmitters to their measured power at 1m.
type Calibration struct {
	DefaultMeasuredPower int8           `toml:"default_measured_power"`
	Beacons              []BeaconConfig `toml:"beacon"`
}

// BeaconConfig is one [[beacon]] entry. Major and Minor are optional;
// leaving them out makes the entry match the whole UUID or major group.
type BeaconConfig struct {
	UUID          string  `toml:"uuid"`
	Major         *uint16 `toml:"major"`
	Minor         *uint16 `toml:"minor"`
	MeasuredPower int8    `toml:"measured_power"`
	Label         string  `toml:"label"`
}

// DefaultCalibration returns a calibration with no per-beacon entries.
func DefaultCalibration() *Calibration {
	return &Calibration{DefaultMeasuredPower: DefaultMeasuredPower}
}

// LoadCalibration reads and validates a TOML calibration file.
func LoadCalibration(path string) (*Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading calibration %s: %w", path, err)
	}
	return ParseCalibration(data)
}

// ParseCalibration decodes calibration TOML, applies defaults and
// normalizes UUIDs to the decoder's upper-case form. Every measured power
// given in the file, the default included, must be negative.
func ParseCalibration(data []byte) (*Calibration, error) {
	var file struct {
		DefaultMeasuredPower *int8          `toml:"default_measured_power"`
		Beacons              []BeaconConfig `toml:"beacon"`
	}
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing calibration: %w", err)
	}

	cal := &Calibration{DefaultMeasuredPower: DefaultMeasuredPower, Beacons: file.Beacons}
	if p := file.DefaultMeasuredPower; p != nil {
		if *p >= 0 {
			return nil, fmt.Errorf("default_measured_power %d must be negative: %w", *p, ErrInvalidCalibration)
		}
		cal.DefaultMeasuredPower = *p
	}

	for i := range cal.Beacons {
		b := &cal.Beacons[i]
		u, err := uuid.Parse(b.UUID)
		if err != nil {
			return nil, fmt.Errorf("beacon %d: uuid %q: %w", i, b.UUID, ErrInvalidCalibration)
		}
		b.UUID = strings.ToUpper(u.String())
		if b.Minor != nil && b.Major == nil {
			return nil, fmt.Errorf("beacon %d: minor without major: %w", i, ErrInvalidCalibration)
		}
		if b.MeasuredPower >= 0 {
			return nil, fmt.Errorf("beacon %d: measured_power %d must be negative: %w",
				i, b.MeasuredPower, ErrInvalidCalibration)
		}
	}
	return cal, nil
}

// MeasuredPower picks the calibration constant for id. The most specific
// configured entry wins; otherwise the advertised power is used when the
// frame had one, then the file default.
func (c *Calibration) MeasuredPower(id ibeacon.Identity, advertised int8, hasAdvertised bool) int8 {
	if b := c.lookup(id); b != nil {
		return b.MeasuredPower
	}
	if hasAdvertised && advertised < 0 {
		return advertised
	}
	return c.DefaultMeasuredPower
}

// Label returns the configured label for id, if any.
func (c *Calibration) Label(id ibeacon.Identity) string {
	if b := c.lookup(id); b != nil {
		return b.Label
	}
	return ""
}

func (c *Calibration) lookup(id ibeacon.Identity) *BeaconConfig {
	var best *BeaconConfig
	bestScore := -1
	for i := range c.Beacons {
		b := &c.Beacons[i]
		if b.UUID != id.UUID {
			continue
		}
		score := 0
		if b.Major != nil {
			if *b.Major != id.Major {
				continue
			}
			score++
		}
		if b.Minor != nil {
			if *b.Minor != id.Minor {
				continue
			}
			score++
		}
		if score > bestScore {
			best, bestScore = b, score
		}
	}
	return best
}
