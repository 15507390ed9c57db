package decode

// Govee H5075-family advertisement format.
//
// The manufacturer data carries company ID 0xEC88 followed by six bytes:
//
//	Byte 0:   0x00 (reserved)
//	Byte 1-3: packed value, big-endian 24-bit
//	Byte 4:   battery percentage
//	Byte 5:   0x00 (reserved)
//
// The packed value encodes both channels in decimal:
//
//	temperature = (packed / 1000) / 10   degrees Celsius
//	humidity    = (packed % 1000) / 10   percent
//
// Sub-zero temperatures set the top bit of the packed value.
const (
	goveeCompanyID  uint16 = 0xEC88
	goveePayloadLen        = 6
	goveeNegBit            = 0x800000
)

func decodeGovee(_ Advertisement, data []byte) (Reading, bool) {
	if len(data) != goveePayloadLen {
		return Reading{}, false
	}

	packed := int(data[1])<<16 | int(data[2])<<8 | int(data[3])
	negative := packed&goveeNegBit != 0
	packed &^= goveeNegBit

	temp := float64(packed/1000) / 10
	if negative {
		temp = -temp
	}
	hum := float64(packed%1000) / 10
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
