package api

import "github.com/airgauge/airgauge/pkg/types"

// AirResponse is the payload for GET /api/v1/air.
type AirResponse struct {
	// WorstAQI is the highest index among live devices; null when no live
	// device carries one.
	WorstAQI    *int   `json:"worst_aqi"`
	WorstDevice string `json:"worst_device,omitempty"`
	Category    string `json:"category"`

	DeviceCount int `json:"device_count"`
	AlertCount  int `json:"alert_count"`

	GoodCount          int `json:"good_count"`
	ModerateCount      int `json:"moderate_count"`
	SensitiveCount     int `json:"sensitive_count"`
	UnhealthyCount     int `json:"unhealthy_count"`
	VeryUnhealthyCount int `json:"very_unhealthy_count"`
	HazardousCount     int `json:"hazardous_count"`
	UnknownCount       int `json:"unknown_count"`
}

// DeviceResponse is one device entry in GET /api/v1/devices or
// GET /api/v1/devices/{id}.
type DeviceResponse struct {
	types.Sample

	Advisories []AdvisoryHint `json:"advisories"`
	LastSeen   string         `json:"last_seen"` // RFC3339
}

// HistoryResponse is the payload for GET /api/v1/devices/{id}/history.
type HistoryResponse struct {
	DeviceID string          `json:"device_id"`
	Samples  []*types.Sample `json:"samples"`
}

// SnapshotResponse is the payload for GET /api/v1/snapshot.
type SnapshotResponse struct {
	Devices     []DeviceResponse `json:"devices"`
	GeneratedAt string           `json:"generated_at"` // RFC3339
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
