package sensor

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/airgauge/airgauge/agent/internal/config"
)

const defaultReadTimeout = 10 * time.Second

// Canonical keys used in Reading.Values. These are the only names the
// compute engine understands.
const (
	MetricPM25        = "pm25"          // µg/m³
	MetricPM10        = "pm10"          // µg/m³
	MetricCO2         = "co2_ppm"       // parts per million
	MetricTemperature = "temperature_c" // °C
	MetricHumidity    = "humidity_pct"  // % relative humidity
)

// Reading is the normalized output of one read cycle for a single sensor.
// Values holds whichever quantities the sensor reported this cycle, keyed by
// the canonical metric names above. Missing keys mean the sensor does not
// measure that quantity (or failed to report it).
type Reading struct {
	SensorID   string
	SensorType string
	ReadAt     time.Time

	Values map[string]float64

	// Err is non-nil if the read itself failed (connectivity, auth, parse).
	// The compute engine emits an errored result for the cycle.
	Err error
}

// Sensor is the common interface implemented by every sensor transport.
type Sensor interface {
	Read(ctx context.Context) (*Reading, error)
}

// New returns the appropriate Sensor for the given configuration.
// It builds the HTTP client once and reuses it across read calls.
func New(src config.Sensor) (Sensor, error) {
	if src.Type == "sim" {
		return newSimSensor(src), nil
	}
	client, err := buildHTTPClient(src)
	if err != nil {
		return nil, fmt.Errorf("sensor %q: build http client: %w", src.ID, err)
	}
	switch src.Type {
	case "gateway":
		return &gatewaySensor{src: src, client: client}, nil
	case "httpjson":
		return &httpJSONSensor{src: src, client: client}, nil
	default:
		return nil, fmt.Errorf("sensor: unsupported type %q", src.Type)
	}
}

// authRoundTripper injects authentication headers into every outgoing request.
type authRoundTripper struct {
	base http.RoundTripper
	src  config.Sensor
}

func (t *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	switch t.src.Auth.Mode {
	case "apikey":
		req = req.Clone(req.Context())
		req.Header.Set(t.src.Auth.EffectiveHeader(), t.src.Auth.Key())
	case "bearer":
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+t.src.Auth.Token())
	case "basic":
		req = req.Clone(req.Context())
		req.SetBasicAuth(t.src.Auth.Username, t.src.Auth.Password())
	}
	return t.base.RoundTrip(req)
}

// buildHTTPClient constructs an http.Client for the sensor's auth and TLS settings.
func buildHTTPClient(src config.Sensor) (*http.Client, error) {
	tlsCfg := &tls.Config{
		InsecureSkipVerify: src.TLS.InsecureSkipVerify, //nolint:gosec // user-configured
	}

	if src.Auth.Mode == "mtls" {
		cert, err := tls.LoadX509KeyPair(src.Auth.CertFile, src.Auth.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load client cert: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}

		if src.Auth.CAFile != "" {
			caPEM, err := os.ReadFile(src.Auth.CAFile)
			if err != nil {
				return nil, fmt.Errorf("read ca file: %w", err)
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(caPEM) {
				return nil, fmt.Errorf("no valid certs found in ca file %q", src.Auth.CAFile)
			}
			tlsCfg.RootCAs = pool
		}
	}

	transport := &authRoundTripper{
		base: &http.Transport{TLSClientConfig: tlsCfg},
		src:  src,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   defaultReadTimeout,
	}, nil
}

// fetchMetrics performs an HTTP GET to url and returns parsed metric families.
func fetchMetrics(ctx context.Context, client *http.Client, url string) (map[string]*dto.MetricFamily, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", string(expfmt.NewFormat(expfmt.TypeTextPlain)))

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return parseMetrics(resp.Body)
}

// parseMetrics decodes a Prometheus text exposition from r into metric families.
// A partial result with a non-fatal parse warning is still returned successfully.
func parseMetrics(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil && len(mfs) == 0 {
		return nil, fmt.Errorf("parse prometheus text: %w", err)
	}
	// Non-empty result with a non-nil err means partial parse (trailing lines,
	// format warnings). Treat as success.
	return mfs, nil
}

// meanFamily averages all gauge, counter, or untyped values in a MetricFamily.
// Sensor gateways expose one series per physical channel; averaging collapses
// multi-channel units into a single reading. Returns (0, false) if mf is nil
// or has no usable series.
func meanFamily(mf *dto.MetricFamily) (float64, bool) {
	if mf == nil {
		return 0, false
	}
	var total float64
	var n int
	for _, m := range mf.GetMetric() {
		switch {
		case m.Gauge != nil:
			total += m.Gauge.GetValue()
			n++
		case m.Counter != nil:
			total += m.Counter.GetValue()
			n++
		case m.Untyped != nil:
			total += m.Untyped.GetValue()
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return total / float64(n), true
}

// newReading initialises an empty Reading with the values map allocated.
func newReading(sensorID, sensorType string) *Reading {
	return &Reading{
		SensorID:   sensorID,
		SensorType: sensorType,
		ReadAt:     time.Now().UTC(),
		Values:     make(map[string]float64),
	}
}
