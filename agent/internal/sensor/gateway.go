package sensor

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/airgauge/airgauge/agent/internal/config"
)

// Exposition metric names served by a sensor gateway. A gateway is any
// process that bridges physical transducers onto a Prometheus-format
// endpoint (one gauge per quantity, one series per channel).
const (
	gwPM25        = "pm2_5_ug_per_m3"
	gwPM10        = "pm10_ug_per_m3"
	gwCO2         = "co2_ppm"
	gwTemperature = "temperature_celsius"
	gwHumidity    = "relative_humidity_percent"
)

// gwMetrics maps exposition names to the canonical Reading keys.
var gwMetrics = map[string]string{
	gwPM25:        MetricPM25,
	gwPM10:        MetricPM10,
	gwCO2:         MetricCO2,
	gwTemperature: MetricTemperature,
	gwHumidity:    MetricHumidity,
}

type gatewaySensor struct {
	src    config.Sensor
	client *http.Client
}

// Read fetches the gateway's exposition endpoint and extracts whichever of
// the known quantities it serves. Metrics absent from the exposition are
// simply left out of the Reading; at least one known metric must be present
// or the read is treated as failed.
func (s *gatewaySensor) Read(ctx context.Context) (*Reading, error) {
	r := newReading(s.src.ID, "gateway")

	mfs, err := fetchMetrics(ctx, s.client, s.src.Endpoint)
	if err != nil {
		r.Err = fmt.Errorf("gateway read %q: %w", s.src.ID, err)
		slog.Warn("sensor: gateway fetch failed", "sensor", s.src.ID, "err", err)
		return r, nil // partial reading; Err marks the cycle as failed
	}

	for name, key := range gwMetrics {
		if v, ok := meanFamily(mfs[name]); ok {
			r.Values[key] = v
		}
	}

	if len(r.Values) == 0 {
		r.Err = fmt.Errorf("gateway read %q: no known metrics in exposition", s.src.ID)
		slog.Warn("sensor: gateway served no known metrics", "sensor", s.src.ID)
	}
	return r, nil
}
