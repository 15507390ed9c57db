package decode

import "encoding/binary"

// SensorPush HT.w advertisement format.
//
// Manufacturer data under company ID 0x5350, six bytes:
//
//	Byte 0-1: temperature, int16 little-endian, hundredths of a degree
//	Byte 2-3: humidity, uint16 little-endian, hundredths of a percent
//	Byte 4:   battery percentage
//	Byte 5:   rolling sample counter
const (
	sensorPushCompanyID  uint16 = 0x5350
	sensorPushPayloadLen        = 6
)

func decodeSensorPush(_ Advertisement, data []byte) (Reading, bool) {
	if len(data) != sensorPushPayloadLen {
		return Reading{}, false
	}

	temp := float64(int16(binary.LittleEndian.Uint16(data[0:2]))) / 100
	hum := float64(binary.LittleEndian.Uint16(data[2:4])) / 100
	battery := int(data[4])

	if hum > 100 || battery > 100 {
		return Reading{}, false
	}

	return Reading{
		Temperature: floatPtr(temp),
		Humidity:    floatPtr(hum),
		Battery:     intPtr(battery),
	}, true
}
