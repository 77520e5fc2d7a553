package compute

import (
	"log/slog"
	"time"

	"github.com/airgauge/airgauge/agent/internal/sensor"
	"github.com/airgauge/airgauge/pkg/aqi"
)

// uptimeWindow is the number of recent read outcomes tracked for uptime %.
const uptimeWindow = 20

// Result is the fully-derived outcome of one sampling cycle for a single
// sensor, ready to be rendered locally and handed to the uplink.
type Result struct {
	SensorID   string
	SensorType string
	Timestamp  time.Time

	// Values holds the raw readings for the cycle, keyed by the canonical
	// metric names of the sensor package.
	Values map[string]float64

	// AQI is the index of the dominant pollutant; nil when the cycle carried
	// no particulate reading or the reading was unusable.
	AQI *int

	// Pollutant names which table produced AQI ("pm2.5" or "pm10").
	Pollutant string

	// Category is the EPA descriptor for AQI; empty when AQI is nil.
	Category string

	// UptimePct is the share of recent read cycles that succeeded.
	UptimePct float64

	// ErrorMessage is non-empty when the read failed or every particulate
	// reading was rejected by the converter.
	ErrorMessage string
}

// Options tune a single Engine.
type Options struct {
	// HumidityCompensation applies CompensateHumidity to raw PM2.5 before
	// conversion whenever the same cycle carries a humidity reading.
	HumidityCompensation bool
}

// Engine maintains per-sensor read history across sampling cycles and derives
// a Result from each raw Reading.
//
// An Engine is not safe for concurrent use; each is owned by one pipeline
// goroutine.
type Engine struct {
	opts   Options
	states map[string]*sensorState
}

// NewEngine returns a ready-to-use Engine.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts, states: make(map[string]*sensorState)}
}

// Process ingests one Reading and returns the derived Result.
//
// now is passed explicitly so callers (and tests) control the clock without
// sleeping. Use time.Now() in production.
func (e *Engine) Process(r *sensor.Reading, now time.Time) *Result {
	st := e.stateFor(r.SensorID)
	success := r.Err == nil
	st.recordRead(success)

	out := &Result{
		SensorID:   r.SensorID,
		SensorType: r.SensorType,
		Timestamp:  now,
		Values:     r.Values,
		UptimePct:  st.uptimePct(),
	}

	if !success {
		slog.Warn("compute: read failed", "sensor", r.SensorID, "err", r.Err)
		out.ErrorMessage = r.Err.Error()
		return out
	}

	e.deriveIndex(out)
	return out
}

// deriveIndex converts the cycle's particulate readings and keeps the
// dominant (highest) index, per the EPA's multi-pollutant reporting rule.
func (e *Engine) deriveIndex(out *Result) {
	pm25, hasPM25 := out.Values[sensor.MetricPM25]
	if hasPM25 && e.opts.HumidityCompensation {
		if rh, ok := out.Values[sensor.MetricHumidity]; ok {
			pm25 = CompensateHumidity(pm25, rh)
		}
	}

	type candidate struct {
		pollutant aqi.Pollutant
		conc      float64
		present   bool
	}
	pm10, hasPM10 := out.Values[sensor.MetricPM10]
	candidates := []candidate{
		{aqi.PM25, pm25, hasPM25},
		{aqi.PM10, pm10, hasPM10},
	}

	var converted bool
	for _, c := range candidates {
		if !c.present {
			continue
		}
		idx, err := aqi.Convert(c.pollutant, c.conc)
		if err != nil {
			slog.Warn("compute: conversion rejected reading",
				"sensor", out.SensorID, "pollutant", c.pollutant, "value", c.conc, "err", err)
			if out.ErrorMessage == "" {
				out.ErrorMessage = err.Error()
			}
			continue
		}
		converted = true
		if out.AQI == nil || idx > *out.AQI {
			v := idx
			out.AQI = &v
			out.Pollutant = string(c.pollutant)
		}
	}

	if out.AQI != nil {
		out.Category = aqi.Category(*out.AQI)
		// A usable index supersedes a rejected sibling reading.
		if converted {
			out.ErrorMessage = ""
		}
	}
}

// sensorState holds the per-sensor read-outcome window.
type sensorState struct {
	history []bool // circular buffer of read outcomes, newest last
}

func (e *Engine) stateFor(id string) *sensorState {
	if st, ok := e.states[id]; ok {
		return st
	}
	st := &sensorState{}
	e.states[id] = st
	return st
}

func (st *sensorState) recordRead(success bool) {
	if len(st.history) >= uptimeWindow {
		st.history = st.history[1:]
	}
	st.history = append(st.history, success)
}

func (st *sensorState) uptimePct() float64 {
	if len(st.history) == 0 {
		return 100 // assume up before first observation
	}
	var ok int
	for _, s := range st.history {
		if s {
			ok++
		}
	}
	return float64(ok) / float64(len(st.history)) * 100
}
