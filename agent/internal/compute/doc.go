// Package compute derives per-cycle air-quality results from raw sensor
// readings.
//
// engine.go provides the stateful Engine that tracks a read-success window
// per sensor (for uptime %), applies the optional humidity correction to raw
// PM2.5, converts particulate concentrations through pkg/aqi, and picks the
// dominant pollutant's index. Engine.Process accepts an injectable time.Time
// so tests are deterministic.
//
// compensate.go implements the US EPA correction for optical PM2.5 sensors,
// which over-count at high relative humidity.
package compute
