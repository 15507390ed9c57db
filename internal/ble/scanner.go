package ble

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/nerrad567/sensor-bridge/internal/decode"
	"github.com/nerrad567/sensor-bridge/internal/infrastructure/logging"
)

// Scanner streams BLE advertisements from the default host adapter.
//
// Subscribe may be called again after a previous scan ended; the adapter
// is enabled once and reused. Only one scan may be active at a time, which
// matches the bridge's single intake loop.
type Scanner struct {
	adapter *bluetooth.Adapter
	buffer  int
	logger  *logging.Logger

	enableOnce sync.Once
	enableErr  error
}

// NewScanner creates a scanner over the default adapter. No radio I/O
// happens until Subscribe.
func NewScanner(buffer int, logger *logging.Logger) *Scanner {
	return &Scanner{
		adapter: bluetooth.DefaultAdapter,
		buffer:  buffer,
		logger:  logger.With("component", "ble"),
	}
}

// Subscribe enables the adapter (first call only) and starts a passive
// scan. The returned channel is closed when the scan ends; cancelling ctx
// stops the scan.
func (s *Scanner) Subscribe(ctx context.Context) (<-chan decode.Advertisement, error) {
	s.enableOnce.Do(func() {
		s.enableErr = s.adapter.Enable()
	})
	if s.enableErr != nil {
		return nil, fmt.Errorf("enabling bluetooth adapter: %w", s.enableErr)
	}

	ads := make(chan decode.Advertisement, s.buffer)

	go func() {
		defer close(ads)
		// Scan blocks until StopScan or a radio fault.
		err := s.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
			select {
			case ads <- convert(result):
			default:
				// Consumer is behind; the device rebroadcasts shortly.
			}
		})
		if err != nil && ctx.Err() == nil {
			s.logger.Error("scan ended", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		if err := s.adapter.StopScan(); err != nil {
			s.logger.Debug("stopping scan", "error", err)
		}
	}()

	return ads, nil
}

// convert maps a scan result onto the decoder's transport-neutral
// advertisement form. The address is canonicalised here so every layer
// above sees one spelling per device.
func convert(result bluetooth.ScanResult) decode.Advertisement {
	adv := decode.Advertisement{
		Address:   decode.CanonicalAddress(result.Address.String()),
		LocalName: result.LocalName(),
		RSSI:      result.RSSI,
		Time:      time.Now(),
	}

	if elements := result.ManufacturerData(); len(elements) > 0 {
		adv.ManufacturerData = make(map[uint16][]byte, len(elements))
		for _, e := range elements {
			adv.ManufacturerData[e.CompanyID] = e.Data
		}
	}
	if elements := result.ServiceData(); len(elements) > 0 {
		adv.ServiceData = make(map[string][]byte, len(elements))
		for _, e := range elements {
			adv.ServiceData[e.UUID.String()] = e.Data
		}
	}
	return adv
}
