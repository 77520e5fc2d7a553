package sensor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/airgauge/airgauge/agent/internal/config"
)

type httpJSONSensor struct {
	src    config.Sensor
	client *http.Client
}

// bridgePayload is the JSON document served by firmware-style sensor bridges.
// Field names follow the de-facto convention of hobbyist air-quality units:
// pm02 (PM2.5), pm10, rco2 (CO2 ppm), atmp (temperature °C), rhum (RH %).
// Pointers distinguish "not measured" from a literal zero.
type bridgePayload struct {
	PM02 *float64 `json:"pm02"`
	PM10 *float64 `json:"pm10"`
	RCO2 *float64 `json:"rco2"`
	ATMP *float64 `json:"atmp"`
	RHum *float64 `json:"rhum"`
}

// Read fetches the bridge's current-readings document and maps its fields
// onto the canonical metric keys.
func (s *httpJSONSensor) Read(ctx context.Context) (*Reading, error) {
	r := newReading(s.src.ID, "httpjson")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.src.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("httpjson read %q: build request: %w", s.src.ID, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		r.Err = fmt.Errorf("httpjson read %q: %w", s.src.ID, err)
		slog.Warn("sensor: bridge fetch failed", "sensor", s.src.ID, "err", err)
		return r, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.Err = fmt.Errorf("httpjson read %q: unexpected status %d", s.src.ID, resp.StatusCode)
		slog.Warn("sensor: bridge returned error status", "sensor", s.src.ID, "status", resp.StatusCode)
		return r, nil
	}

	var p bridgePayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		r.Err = fmt.Errorf("httpjson read %q: decode: %w", s.src.ID, err)
		slog.Warn("sensor: bridge payload undecodable", "sensor", s.src.ID, "err", err)
		return r, nil
	}

	put := func(key string, v *float64) {
		if v != nil {
			r.Values[key] = *v
		}
	}
	put(MetricPM25, p.PM02)
	put(MetricPM10, p.PM10)
	put(MetricCO2, p.RCO2)
	put(MetricTemperature, p.ATMP)
	put(MetricHumidity, p.RHum)

	if len(r.Values) == 0 {
		r.Err = fmt.Errorf("httpjson read %q: payload carried no known fields", s.src.ID)
	}
	return r, nil
}
