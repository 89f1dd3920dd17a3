package ibeacon

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// AppleCompanyID is the Bluetooth SIG company identifier used by iBeacon.
	AppleCompanyID uint16 = 0x004C

	// LegacyAdvLength is the payload size of a legacy advertising PDU.
	LegacyAdvLength = 31

	adTypeFlags            = 0x01
	adTypeManufacturerData = 0xFF
	flagsGeneralNoBREDR    = 0x06
)

// ErrInvalidPayload is returned when text cannot be turned into record bytes.
var ErrInvalidPayload = errors.New("invalid advertisement payload")

// FromManufacturerData rebuilds a full advertisement record around a single
// manufacturer-data element, the way it appears over the air: a flags
// structure followed by the manufacturer structure. Radio stacks usually hand
// out the element already split into company ID and data.
func FromManufacturerData(companyID uint16, data []byte) []byte {
	rec := make([]byte, 0, LegacyAdvLength)
	rec = append(rec, 0x02, adTypeFlags, flagsGeneralNoBREDR)
	rec = append(rec, byte(len(data)+3), adTypeManufacturerData)
	rec = binary.LittleEndian.AppendUint16(rec, companyID)
	rec = append(rec, data...)
	for len(rec) < LegacyAdvLength {
		rec = append(rec, 0)
	}
	return rec
}

// Payload returns the iBeacon manufacturer data (without company ID) for id.
func Payload(id Identity, measuredPower int8) ([]byte, error) {
	u, err := uuid.Parse(id.UUID)
	if err != nil {
		return nil, fmt.Errorf("beacon uuid %q: %w", id.UUID, ErrInvalidPayload)
	}
	data := make([]byte, 0, 23)
	data = append(data, prefix[2:]...)
	data = append(data, u[:]...)
	data = binary.BigEndian.AppendUint16(data, id.Major)
	data = binary.BigEndian.AppendUint16(data, id.Minor)
	data = append(data, byte(measuredPower))
	return data, nil
}

// Encode builds a full advertisement record that Decode maps back to id.
func Encode(id Identity, measuredPower int8) ([]byte, error) {
	data, err := Payload(id, measuredPower)
	if err != nil {
		return nil, err
	}
	return FromManufacturerData(AppleCompanyID, data), nil
}

// ParseHex turns a hex dump such as "02 01 06 1A FF 4C 00 ..." into bytes.
// Spaces, tabs, colons and dashes between bytes are ignored, and each token
// may carry a 0x or 0X prefix ("0x4C 0x00 ...").
func ParseHex(s string) ([]byte, error) {
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '\r', ':', '-':
			return true
		}
		return false
	})
	for i, tok := range tokens {
		if len(tok) >= 2 && tok[0] == '0' && (tok[1] == 'x' || tok[1] == 'X') {
			tokens[i] = tok[2:]
		}
	}
	clean := strings.Join(tokens, "")

	if clean == "" {
		return nil, fmt.Errorf("empty input: %w", ErrInvalidPayload)
	}
	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidPayload)
	}
	return b, nil
}
