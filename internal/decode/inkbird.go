package decode

import "encoding/binary"

// Inkbird IBS-TH-family advertisement format.
//
// Like ThermoPro, Inkbird abuses the company-ID field: the raw
// manufacturer-data section is nine bytes of telemetry. Devices are
// matched by local name ("sps" for IBS-TH1/TH2, "tps" for probe models).
//
//	Byte 0-1: temperature, int16 little-endian, hundredths of a degree
//	Byte 2-3: humidity, uint16 little-endian, hundredths of a percent
//	Byte 4:   external-probe flag
//	Byte 5-6: modbus CRC of bytes 0-4
//	Byte 7:   battery percentage
//	Byte 8:   reserved
var inkbirdNamePrefixes = []string{"sps", "tps"}

const inkbirdPayloadLen = 9

func decodeInkbird(adv Advertisement) (Reading, bool) {
	raw, ok := reassembleManufacturerData(adv)
	if !ok || len(raw) != inkbirdPayloadLen {
		return Reading{}, false
	}

	temp := float64(int16(binary.LittleEndian.Uint16(raw[0:2]))) / 100
	hum := float64(binary.LittleEndian.Uint16(raw[2:4])) / 100
	battery := int(raw[7])

	if hum > 100 || battery > 100 {
		return Reading{}, false
	}

	return Reading{
		Temperature: floatPtr(temp),
		Humidity:    floatPtr(hum),
		Battery:     intPtr(battery),
	}, true
}
