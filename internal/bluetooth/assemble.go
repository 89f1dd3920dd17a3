package bluetooth

import (
	"beacon-radar.klederson.com/internal/config"
	"beacon-radar.klederson.com/internal/ibeacon"
)

// Assemble turns a raw advertisement into a beacon record. Measured power
// comes from cal, then the frame, then the calibration default. It returns
// false when the frame is not an iBeacon frame.
func Assemble(msg AdvertisementMsg, cal *config.Calibration) (ibeacon.Record, bool) {
	id, ok := ibeacon.Decode(msg.Frame)
	if !ok {
		return ibeacon.Record{}, false
	}
	if cal == nil {
		cal = config.DefaultCalibration()
	}

	adv, hasAdv := ibeacon.AdvertisedPower(msg.Frame)
	name := msg.Name
	if label := cal.Label(id); label != "" {
		name = label
	}

	mfr := ibeacon.UnknownManufacturer
	if msg.HasCompanyID {
		mfr = int(msg.CompanyID)
	}

	return ibeacon.NewRecord(id, true, ibeacon.Observation{
		ManufacturerID: mfr,
		RSSI:           msg.RSSI,
		MeasuredPower:  cal.MeasuredPower(id, adv, hasAdv),
		Timestamp:      msg.Seen,
		Name:           name,
	}), true
}
