// Package config loads the server-side configuration from the `server:` section
// of config.yaml (the `agent:` key is ignored by the server binary).
//
// Config fields:
//   - HTTPPort             — port for the ingest/REST API and WebSocket hub (default 8080)
//   - Auth.Mode            — "apikey" or "none"
//   - Auth.KeyEnv          — environment variable holding the expected API key
//   - Auth.Header          — HTTP header name (default "x-api-key")
//   - Snapshot.TTL         — how long a device's latest sample remains live (default 5m)
//   - History.MaxPerDevice — per-device retained sample cap (default 1000)
//   - Kafka                — optional downstream forwarding of accepted samples
//
// Load(path) applies defaults before unmarshalling, then validates.
package config
