package api

import (
	"fmt"

	"github.com/airgauge/airgauge/pkg/aqi"
	"github.com/airgauge/airgauge/pkg/types"
)

// AdvisoryHint is one human-readable insight about a device's air quality.
// The UI displays these as chips on the device card; clicking one shows
// Detail — written like an assistant explaining the situation in plain English.
type AdvisoryHint struct {
	// Key is a stable machine-readable identifier (used for dedup/ordering).
	Key string `json:"key"`
	// Level is "ok" | "info" | "warning" | "critical"
	Level string `json:"level"`
	// Title is a short label shown on the chip (≤ 5 words).
	Title string `json:"title"`
	// Detail is the full explanation shown on click/hover.
	Detail string `json:"detail"`
	// Value is an optional numeric value associated with this hint (e.g. ppm).
	Value *float64 `json:"value,omitempty"`
}

// computeAdvisories derives human-readable advisory hints from a sample.
// Advisories are ordered: critical first, then warnings, then info.
func computeAdvisories(s *types.Sample) []AdvisoryHint {
	var hints []AdvisoryHint

	// ── Read failure ─────────────────────────────────────────────────────────
	if s.ErrorMessage != "" {
		detail := fmt.Sprintf(
			"The agent couldn't collect data from this sensor. "+
				"It last tried and got: \"%s\". "+
				"Check that the sensor is powered, reachable over the network, "+
				"and that any credentials are correct. Until this is resolved, "+
				"readings for this device are unavailable.",
			s.ErrorMessage,
		)
		hints = append(hints, AdvisoryHint{
			Key:    "read_failed",
			Level:  "critical",
			Title:  "Can't reach sensor",
			Detail: detail,
		})
		return hints // no point computing further without data
	}

	// ── Particulate index ────────────────────────────────────────────────────
	if s.AQI != nil {
		hints = append(hints, aqiHints(*s.AQI)...)
	}

	// ── CO2 buildup ──────────────────────────────────────────────────────────
	if s.CO2 != nil {
		ppm := *s.CO2
		v := ppm
		switch {
		case ppm >= 2000:
			hints = append(hints, AdvisoryHint{
				Key:   "co2_very_high",
				Level: "warning",
				Title: fmt.Sprintf("%.0f ppm CO2", ppm),
				Detail: fmt.Sprintf(
					"CO2 is at %.0f ppm — well above the ~1000 ppm comfort threshold. "+
						"At this level people typically report drowsiness and reduced "+
						"concentration. Open windows or increase the ventilation rate; "+
						"if this is a meeting room, it is over capacity for its airflow.",
					ppm,
				),
				Value: &v,
			})
		case ppm >= 1000:
			hints = append(hints, AdvisoryHint{
				Key:   "co2_elevated",
				Level: "info",
				Title: "Ventilation suggested",
				Detail: fmt.Sprintf(
					"CO2 is at %.0f ppm. Outdoor air is around 420 ppm; indoor levels "+
						"above 1000 ppm indicate the room's air is not being exchanged "+
						"fast enough for its occupancy. A few minutes of cross-ventilation "+
						"usually brings this back down.",
					ppm,
				),
				Value: &v,
			})
		}
	}

	// ── Humidity extremes ────────────────────────────────────────────────────
	if s.HumidityPct != nil {
		rh := *s.HumidityPct
		v := rh
		switch {
		case rh > 70:
			hints = append(hints, AdvisoryHint{
				Key:   "humidity_high",
				Level: "warning",
				Title: fmt.Sprintf("%.0f%% humidity", rh),
				Detail: fmt.Sprintf(
					"Relative humidity is %.0f%%. Sustained levels above 70%% promote "+
						"mould growth and dust-mite activity, and optical particle counters "+
						"over-read as droplets swell. Consider a dehumidifier or better "+
						"ventilation, and check for damp sources nearby.",
					rh,
				),
				Value: &v,
			})
		case rh < 20:
			hints = append(hints, AdvisoryHint{
				Key:   "humidity_low",
				Level: "info",
				Title: fmt.Sprintf("%.0f%% humidity", rh),
				Detail: fmt.Sprintf(
					"Relative humidity is %.0f%%, which is quite dry. Dry air irritates "+
						"airways and raises static; it is common in winter with heating "+
						"running. A humidifier helps if occupants notice discomfort.",
					rh,
				),
				Value: &v,
			})
		}
	}

	// ── Uptime / flaky sensor ────────────────────────────────────────────────
	if s.UptimePct < 100 && s.UptimePct > 0 {
		v := s.UptimePct
		var level string
		switch {
		case s.UptimePct < 70:
			level = "critical"
		case s.UptimePct < 90:
			level = "warning"
		default:
			level = "info"
		}
		detail := fmt.Sprintf(
			"This sensor answered %.0f%% of recent read attempts "+
				"(we sample on a fixed interval, tracking the last 20 results). "+
				"Anything below 100%% means the agent couldn't reach it at least once. "+
				"Look for flaky Wi-Fi, power issues, or a rebooting sensor. "+
				"A brief dip is often a firmware update; a sustained dip indicates instability.",
			s.UptimePct,
		)
		hints = append(hints, AdvisoryHint{
			Key:    "uptime",
			Level:  level,
			Title:  fmt.Sprintf("%.0f%% uptime", s.UptimePct),
			Detail: detail,
			Value:  &v,
		})
	}

	// ── All clear ────────────────────────────────────────────────────────────
	if len(hints) == 0 {
		hints = append(hints, AdvisoryHint{
			Key:   "healthy",
			Level: "ok",
			Title: "All clear",
			Detail: "Air quality at this sensor is good: particulates are low, " +
				"CO2 and humidity are in the comfortable range, and the sensor " +
				"is responding reliably. Nothing to do here.",
		})
	}

	return hints
}

// aqiHints returns the index-level advisory for a device's AQI.
func aqiHints(index int) []AdvisoryHint {
	v := float64(index)
	switch aqi.Category(index) {
	case aqi.CategorySensitive:
		return []AdvisoryHint{{
			Key:   "aqi_sensitive",
			Level: "warning",
			Title: fmt.Sprintf("AQI %d", index),
			Detail: fmt.Sprintf(
				"The air quality index is %d — unhealthy for sensitive groups. "+
					"People with asthma, heart conditions, children and older adults "+
					"should reduce prolonged exertion in this air. Typical indoor causes: "+
					"cooking without extraction, candles, or outdoor smoke drifting in.",
				index,
			),
			Value: &v,
		}}
	case aqi.CategoryUnhealthy:
		return []AdvisoryHint{{
			Key:   "aqi_unhealthy",
			Level: "warning",
			Title: fmt.Sprintf("AQI %d", index),
			Detail: fmt.Sprintf(
				"The air quality index is %d — unhealthy for everyone with prolonged "+
					"exposure. Run an air purifier if available, close windows if the "+
					"source is outdoors, and find the source if it is indoors (cooking "+
					"fumes and smoke are the usual suspects).",
				index,
			),
			Value: &v,
		}}
	case aqi.CategoryVeryUnhealthy, aqi.CategoryHazardous:
		return []AdvisoryHint{{
			Key:   "aqi_hazardous",
			Level: "critical",
			Title: fmt.Sprintf("AQI %d", index),
			Detail: fmt.Sprintf(
				"The air quality index is %d — a health warning level. "+
					"Everyone should avoid exertion in this air. Run purifiers at "+
					"maximum, seal the room from the pollution source, and consider "+
					"relocating occupants until the reading falls. If this is "+
					"unexpected, verify the sensor isn't next to a direct smoke source.",
				index,
			),
			Value: &v,
		}}
	}
	return nil
}
