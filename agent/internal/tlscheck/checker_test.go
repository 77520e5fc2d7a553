package tlscheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/airgauge/airgauge/agent/internal/config"
)

func TestCheck_SkipsPlainHTTP(t *testing.T) {
	cs := Check(context.Background(), config.Sensor{
		ID:       "plain",
		Endpoint: "http://sensor.local/metrics",
	})
	if cs != nil {
		t.Fatalf("Check returned %+v for plain-HTTP endpoint, want nil", cs)
	}
}

func TestCheck_SkipsUnparseableEndpoint(t *testing.T) {
	cs := Check(context.Background(), config.Sensor{
		ID:       "bad",
		Endpoint: "://not-a-url",
	})
	if cs != nil {
		t.Fatalf("Check returned %+v for unparseable endpoint, want nil", cs)
	}
}

func TestCheck_SelfSignedTestServer(t *testing.T) {
	// httptest's TLS server uses a cert valid for years; with verification
	// skipped the check should reach it and report a usable leaf.
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	cs := Check(context.Background(), config.Sensor{
		ID:       "selfsigned",
		Endpoint: ts.URL,
		TLS:      config.TLSConfig{InsecureSkipVerify: true},
	})
	if cs == nil {
		t.Fatal("Check returned nil for HTTPS endpoint")
	}
	if cs.Status != StatusValid {
		t.Errorf("Status = %q, want %q (DaysLeft=%d)", cs.Status, StatusValid, cs.DaysLeft)
	}
	if cs.SensorID != "selfsigned" {
		t.Errorf("SensorID = %q", cs.SensorID)
	}
	if cs.AuthType != "none" {
		t.Errorf("AuthType = %q, want none", cs.AuthType)
	}
}

func TestCheck_UnreachableHost(t *testing.T) {
	// Reserved TEST-NET-1 address; the dial fails fast enough under the
	// 10-second cap for CI.
	cs := Check(context.Background(), config.Sensor{
		ID:       "gone",
		Endpoint: "https://192.0.2.1:9/metrics",
	})
	if cs == nil {
		t.Fatal("Check returned nil")
	}
	if cs.Status != StatusUnreachable {
		t.Errorf("Status = %q, want %q", cs.Status, StatusUnreachable)
	}
}
