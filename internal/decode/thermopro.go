package decode

import "encoding/binary"

// ThermoPro TP357-family advertisement format.
//
// ThermoPro does not use a registered company identifier: the first two
// bytes of the manufacturer-data section are telemetry, which scanners
// parse as a bogus company ID. Devices are matched by local name instead
// ("TP357", "TP358", ...), and the raw six bytes are reassembled from the
// parsed company ID plus remaining payload:
//
//	Byte 0:   frame marker
//	Byte 1-2: temperature, int16 little-endian, tenths of a degree Celsius
//	Byte 3:   humidity percentage
//	Byte 4-5: vendor flags
//
// The TP357 has no battery channel.
var thermoProNamePrefixes = []string{"TP35"}

const thermoProPayloadLen = 6

func decodeThermoPro(adv Advertisement) (Reading, bool) {
	raw, ok := reassembleManufacturerData(adv)
	if !ok || len(raw) != thermoProPayloadLen {
		return Reading{}, false
	}

	temp := float64(int16(binary.LittleEndian.Uint16(raw[1:3]))) / 10
	hum := float64(raw[3])

	if hum > 100 || temp < -50 || temp > 100 {
		return Reading{}, false
	}

	return Reading{
		Temperature: floatPtr(temp),
		Humidity:    floatPtr(hum),
	}, true
}

// reassembleManufacturerData rebuilds the raw manufacturer-data bytes for
// vendors that put telemetry where the company ID belongs. The scanner has
// already split off the first two bytes as a little-endian uint16, so they
// are prepended back. Only single-element manufacturer data is accepted;
// these sensors never advertise more than one block.
func reassembleManufacturerData(adv Advertisement) ([]byte, bool) {
	if len(adv.ManufacturerData) != 1 {
		return nil, false
	}
	for id, data := range adv.ManufacturerData {
		raw := make([]byte, 0, len(data)+2)
		raw = append(raw, byte(id), byte(id>>8))
		raw = append(raw, data...)
		return raw, true
	}
	return nil, false
}
