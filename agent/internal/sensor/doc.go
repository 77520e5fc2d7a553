// Package sensor provides the read-side collaborators of the sampling loop.
// Each Sensor polls one endpoint and returns a Reading containing the raw
// environmental values for that cycle (particulates, CO2, temperature,
// relative humidity). The compute engine derives the air-quality index and
// per-sensor health from these readings.
//
// Implemented sensors: Prometheus-exposition gateway (gateway.go), JSON
// bridge using the classic pm02/rco2/atmp/rhum field names (httpjson.go),
// and a random-walk simulator for development (sim.go). Factory:
// New(config.Sensor) returns the correct Sensor.
//
// Authentication (mTLS, API key, bearer token, basic) is handled by the
// shared authRoundTripper in base.go; individual sensors receive a
// pre-configured *http.Client from New().
package sensor
