package uplink

import (
	"github.com/airgauge/airgauge/agent/internal/compute"
	"github.com/airgauge/airgauge/agent/internal/sensor"
	"github.com/airgauge/airgauge/pkg/types"
)

// toSample converts a compute.Result into the wire Sample posted to the
// server. The sample ID is left empty; the server assigns one at ingest.
func toSample(r *compute.Result) *types.Sample {
	s := &types.Sample{
		DeviceID:     r.SensorID,
		Timestamp:    r.Timestamp,
		AQI:          r.AQI,
		Category:     r.Category,
		UptimePct:    r.UptimePct,
		ErrorMessage: r.ErrorMessage,
	}

	if v, ok := r.Values[sensor.MetricPM25]; ok {
		s.PM25 = types.Float(v)
	}
	if v, ok := r.Values[sensor.MetricPM10]; ok {
		s.PM10 = types.Float(v)
	}
	if v, ok := r.Values[sensor.MetricCO2]; ok {
		s.CO2 = types.Float(v)
	}
	if v, ok := r.Values[sensor.MetricTemperature]; ok {
		s.TemperatureC = types.Float(v)
	}
	if v, ok := r.Values[sensor.MetricHumidity]; ok {
		s.HumidityPct = types.Float(v)
	}

	return s
}
