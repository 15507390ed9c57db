package decode

import "strings"

// Outcome classifies the result of a decode attempt.
type Outcome int8

const (
	// OutcomeUnrecognized means the advertisement matched no brand
	// signature. This is the overwhelmingly common case and not an error.
	OutcomeUnrecognized Outcome = iota

	// OutcomeMalformed means a brand signature matched but the payload
	// failed structural decoding. Callers may log this at low severity.
	OutcomeMalformed

	// OutcomeReading means decoding succeeded and the Reading is valid.
	OutcomeReading
)

// companyDecoder decodes the manufacturer payload for one company ID.
// It returns ok=false when the payload is structurally invalid.
type companyDecoder func(adv Advertisement, data []byte) (Reading, bool)

// nameDecoder decodes advertisements matched by local-name prefix. These
// vendors misuse the company-ID field for telemetry, so the decoder
// receives the whole advertisement and reassembles the raw bytes itself.
type nameDecoder struct {
	brand  Brand
	prefix []string
	decode func(adv Advertisement) (Reading, bool)
}

// Registry dispatches advertisements to the correct brand decoder.
//
// It is stateless after construction and safe for concurrent use, though
// the intake loop is its only caller in practice. Build one with
// NewRegistry and share it for the life of the process.
type Registry struct {
	byCompany map[uint16]struct {
		brand  Brand
		decode companyDecoder
	}
	byName []nameDecoder
}

// NewRegistry builds the dispatch table for all supported brands.
func NewRegistry() *Registry {
	r := &Registry{
		byCompany: make(map[uint16]struct {
			brand  Brand
			decode companyDecoder
		}),
	}

	r.registerCompany(goveeCompanyID, BrandGovee, decodeGovee)
	r.registerCompany(sensorPushCompanyID, BrandSensorPush, decodeSensorPush)
	r.registerName(BrandThermoPro, thermoProNamePrefixes, decodeThermoPro)
	r.registerName(BrandInkbird, inkbirdNamePrefixes, decodeInkbird)

	return r
}

func (r *Registry) registerCompany(id uint16, brand Brand, fn companyDecoder) {
	r.byCompany[id] = struct {
		brand  Brand
		decode companyDecoder
	}{brand, fn}
}

func (r *Registry) registerName(brand Brand, prefixes []string, fn func(Advertisement) (Reading, bool)) {
	r.byName = append(r.byName, nameDecoder{brand: brand, prefix: prefixes, decode: fn})
}

// Decode attempts to turn an advertisement into a Reading.
//
// The returned Outcome distinguishes "not one of ours" from "one of ours
// but broken". A Reading is only valid when the outcome is OutcomeReading,
// and it is guaranteed non-empty and branded.
func (r *Registry) Decode(adv Advertisement) (Reading, Outcome) {
	// Company-ID dispatch first: it is the cheaper and more precise key.
	for id, data := range adv.ManufacturerData {
		entry, ok := r.byCompany[id]
		if !ok {
			continue
		}
		reading, ok := entry.decode(adv, data)
		if !ok || reading.Empty() {
			return Reading{}, OutcomeMalformed
		}
		return r.finish(reading, entry.brand, adv), OutcomeReading
	}

	// Local-name dispatch for vendors without a registered company ID.
	if adv.LocalName != "" {
		for _, nd := range r.byName {
			if !matchesPrefix(adv.LocalName, nd.prefix) {
				continue
			}
			reading, ok := nd.decode(adv)
			if !ok || reading.Empty() {
				return Reading{}, OutcomeMalformed
			}
			return r.finish(reading, nd.brand, adv), OutcomeReading
		}
	}

	return Reading{}, OutcomeUnrecognized
}

// finish stamps the common fields every brand decoder leaves blank.
func (r *Registry) finish(reading Reading, brand Brand, adv Advertisement) Reading {
	reading.Brand = brand
	reading.Address = adv.Address
	reading.Time = adv.Time
	return reading
}

func matchesPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
