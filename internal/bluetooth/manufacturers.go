package bluetooth

import "fmt"

// LookupManufacturer returns a human-readable name for a Bluetooth SIG company ID.
// See: https://www.bluetooth.com/specifications/assigned-numbers/
func LookupManufacturer(companyID uint16) string {
	if name, ok := companyNames[companyID]; ok {
		return name
	}
	return ""
}

// ManufacturerName names a record's manufacturer ID, which is -1 when the
// company was not resolved.
func ManufacturerName(id int) string {
	if id < 0 || id > 0xFFFF {
		return "unknown"
	}
	if name := LookupManufacturer(uint16(id)); name != "" {
		return name
	}
	return fmt.Sprintf("0x%04X", id)
}

// Companies commonly seen in beacon deployments.
var companyNames = map[uint16]string{
	0x004C: "Apple",
	0x0006: "Microsoft",
	0x00E0: "Google",
	0x0075: "Samsung",
	0x0059: "Nordic",
	0x000D: "Texas Inst.",
	0x000F: "Broadcom",
	0x0002: "Intel",
	0x0118: "Radius Networks",
	0x015D: "Estimote",
	0x0499: "Ruuvi",
	0x02E5: "Espressif",
}
