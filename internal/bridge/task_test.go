package bridge

import "testing"

func TestFormatTemperature(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{23.04, "23.0"},
		{23.05, "23.1"},
		{-10.25, "-10.3"},
		{-0.04, "-0.0"},
		{0, "0.0"},
		{100, "100.0"},
	}

	for _, tt := range tests {
		if got := FormatTemperature(tt.value); got != tt.want {
			t.Errorf("FormatTemperature(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestFormatHumidity(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{45.25, "45.3"},
		{45.0, "45.0"},
		{99.99, "100.0"},
	}

	for _, tt := range tests {
		if got := FormatHumidity(tt.value); got != tt.want {
			t.Errorf("FormatHumidity(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestFormatBattery(t *testing.T) {
	if got := FormatBattery(92); got != "92" {
		t.Errorf("FormatBattery(92) = %q, want %q", got, "92")
	}
	if got := FormatBattery(0); got != "0" {
		t.Errorf("FormatBattery(0) = %q, want %q", got, "0")
	}
}
