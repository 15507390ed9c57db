package mqtt

import "testing"

func TestTopicsReading(t *testing.T) {
	topics := Topics{Prefix: "sensors"}

	tests := []struct {
		name    string
		brand   string
		address string
		field   string
		want    string
	}{
		{
			name:    "govee temperature",
			brand:   "govee",
			address: "a4:c1:38:ab:cd:ef",
			field:   "temperature",
			want:    "sensors/govee/a4:c1:38:ab:cd:ef/temperature",
		},
		{
			name:    "inkbird battery",
			brand:   "inkbird",
			address: "00:11:22:33:44:55",
			field:   "battery",
			want:    "sensors/inkbird/00:11:22:33:44:55/battery",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := topics.Reading(tt.brand, tt.address, tt.field); got != tt.want {
				t.Errorf("Reading() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTopicsWildcards(t *testing.T) {
	topics := Topics{Prefix: "home"}

	if got := topics.AllReadings(); got != "home/+/+/+" {
		t.Errorf("AllReadings() = %q", got)
	}
	if got := topics.BrandReadings("govee"); got != "home/govee/+/+" {
		t.Errorf("BrandReadings() = %q", got)
	}
	if got := topics.DeviceReadings("a4:c1:38:ab:cd:ef"); got != "home/+/a4:c1:38:ab:cd:ef/+" {
		t.Errorf("DeviceReadings() = %q", got)
	}
}

func TestPublishValidation(t *testing.T) {
	c := NewClient(testConfig())

	if err := c.Publish("", []byte("x"), 1, true); err != ErrInvalidTopic {
		t.Errorf("empty topic: err = %v, want ErrInvalidTopic", err)
	}
	if err := c.Publish("sensors/govee/aa:bb:cc:dd:ee:ff/battery", []byte("x"), 3, true); err != ErrInvalidQoS {
		t.Errorf("bad qos: err = %v, want ErrInvalidQoS", err)
	}
	if err := c.Publish("sensors/govee/aa:bb:cc:dd:ee:ff/battery", []byte("x"), 1, true); err != ErrNotConnected {
		t.Errorf("disconnected: err = %v, want ErrNotConnected", err)
	}
}
