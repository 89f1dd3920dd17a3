// Package ibeacon decodes iBeacon advertisement records and estimates
// proximity from signal strength.
package ibeacon

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	// MinRecordLength is the shortest record Decode will look at.
	// Records must be strictly longer than this.
	MinRecordLength = 30

	prefixOffset   = 5
	uuidOffset     = 9
	majorOffset    = 25
	minorOffset    = 27
	powerOffset    = 29
	reservedOffset = 30
)

// prefix is Apple's company ID (little endian), the iBeacon type and the
// fixed payload length of 21 bytes.
var prefix = []byte{0x4C, 0x00, 0x02, 0x15}

// Identity is the UUID/major/minor triple carried by an iBeacon frame.
type Identity struct {
	UUID  string
	Major uint16
	Minor uint16
}

// Key returns a stable map key for the identity.
func (id Identity) Key() string {
	return fmt.Sprintf("%s/%d/%d", id.UUID, id.Major, id.Minor)
}

func (id Identity) String() string {
	return fmt.Sprintf("%s major=%d minor=%d", id.UUID, id.Major, id.Minor)
}

// IsFrame reports whether raw is long enough and carries the iBeacon prefix.
func IsFrame(raw []byte) bool {
	return len(raw) > MinRecordLength &&
		bytes.Equal(raw[prefixOffset:prefixOffset+len(prefix)], prefix)
}

// Decode extracts the beacon identity from a full advertisement record.
// It returns false for anything that is not an iBeacon frame.
func Decode(raw []byte) (Identity, bool) {
	if !IsFrame(raw) {
		return Identity{}, false
	}
	return Identity{
		UUID:  formatUUID(raw[uuidOffset : uuidOffset+16]),
		Major: binary.BigEndian.Uint16(raw[majorOffset:]),
		Minor: binary.BigEndian.Uint16(raw[minorOffset:]),
	}, true
}

// DecodeLegacy decodes like Decode but reproduces the old major/minor path:
// both bytes are printed as hex digits and the text is read as a decimal
// number. Frames whose digits include A-F never produced a value there, so
// they are reported as not decodable.
func DecodeLegacy(raw []byte) (Identity, bool) {
	id, ok := Decode(raw)
	if !ok {
		return Identity{}, false
	}
	major, ok := LegacyValue(id.Major)
	if !ok {
		return Identity{}, false
	}
	minor, ok := LegacyValue(id.Minor)
	if !ok {
		return Identity{}, false
	}
	id.Major, id.Minor = major, minor
	return id, true
}

// LegacyValue maps a major or minor to what the old decoder reported for
// it. 0x1234 becomes 1234; values with hex letters had no legacy value.
func LegacyValue(v uint16) (uint16, bool) {
	// 4 decimal digits always fit in a uint16.
	n, err := strconv.ParseUint(fmt.Sprintf("%04X", v), 10, 16)
	if err != nil {
		return 0, false
	}
	return uint16(n), true
}

// AdvertisedPower returns the measured power byte a transmitter advertises
// right after the minor field.
func AdvertisedPower(raw []byte) (int8, bool) {
	if !IsFrame(raw) {
		return 0, false
	}
	return int8(raw[powerOffset]), true
}

// AdvertisedReserved returns the manufacturer-reserved byte that follows
// the measured power. Apple leaves it at zero.
func AdvertisedReserved(raw []byte) (byte, bool) {
	if !IsFrame(raw) {
		return 0, false
	}
	return raw[reservedOffset], true
}

func formatUUID(b []byte) string {
	var u uuid.UUID
	copy(u[:], b)
	return strings.ToUpper(u.String())
}
