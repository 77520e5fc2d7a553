// Package types defines the sample model shared by the node agent and the
// server. Sample is both the wire format of the ingest endpoint and the base
// of the REST payloads.
package types

import (
	"math"
	"time"
)

// Sample is one observation cycle from a monitoring node: the raw sensor
// values together with the derived air-quality index.
//
// Raw concentration and environment fields use pointers so that a sensor that
// doesn't measure a quantity (e.g. a PM-only unit without CO2) omits it from
// JSON instead of reporting a misleading zero.
type Sample struct {
	// ID is assigned by the server on ingest when the agent leaves it empty.
	ID string `json:"id,omitempty"`

	// DeviceID identifies the reporting node. Required.
	DeviceID string `json:"device_id"`

	// Timestamp is when the readings were taken, in UTC.
	Timestamp time.Time `json:"timestamp"`

	PM25         *float64 `json:"pm25,omitempty"`     // µg/m³
	PM10         *float64 `json:"pm10,omitempty"`     // µg/m³
	CO2          *float64 `json:"co2_ppm,omitempty"`  // parts per million
	TemperatureC *float64 `json:"temperature_c,omitempty"`
	HumidityPct  *float64 `json:"humidity_pct,omitempty"`

	// AQI is the derived US index for the dominant pollutant; nil when no
	// particulate reading was available this cycle.
	AQI      *int   `json:"aqi,omitempty"`
	Category string `json:"category,omitempty"`

	// UptimePct is the share of recent read cycles that succeeded.
	UptimePct float64 `json:"uptime_pct"`

	// ErrorMessage is non-empty when the sensor read failed this cycle.
	ErrorMessage string `json:"error_message,omitempty"`
}

// Float returns a pointer to v, for building samples inline.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Valid reports whether the sample is structurally acceptable for ingest:
// a device ID is present and every supplied value is finite.
func (s *Sample) Valid() bool {
	if s.DeviceID == "" {
		return false
	}
	for _, v := range []*float64{s.PM25, s.PM10, s.CO2, s.TemperatureC, s.HumidityPct} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return false
		}
	}
	return true
}

// Field returns the named numeric field and whether it is present. Names
// match the JSON tags; "aqi" and "uptime_pct" are included so alert rule
// conditions can address every numeric quantity uniformly.
func (s *Sample) Field(name string) (float64, bool) {
	switch name {
	case "pm25":
		return deref(s.PM25)
	case "pm10":
		return deref(s.PM10)
	case "co2_ppm":
		return deref(s.CO2)
	case "temperature_c":
		return deref(s.TemperatureC)
	case "humidity_pct":
		return deref(s.HumidityPct)
	case "aqi":
		if s.AQI == nil {
			return 0, false
		}
		return float64(*s.AQI), true
	case "uptime_pct":
		return s.UptimePct, true
	default:
		return 0, false
	}
}

func deref(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}
