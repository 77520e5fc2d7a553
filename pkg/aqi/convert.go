package aqi

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors returned by Convert.
var (
	// ErrInvalidInput is returned for negative or NaN concentrations.
	ErrInvalidInput = errors.New("invalid concentration")

	// ErrUnknownPollutant is returned when no breakpoint table exists for the
	// requested pollutant.
	ErrUnknownPollutant = errors.New("unknown pollutant")
)

// Convert maps a pollutant concentration in µg/m³ to its AQI value in
// [0, MaxIndex].
//
// The concentration is truncated to the table's precision (EPA convention:
// 35.46 reports as 35.4), then the first segment whose upper bound covers it
// is selected — a value sitting exactly on a boundary resolves to the lower
// segment — and the index is linearly interpolated:
//
//	index = (IndexHi - IndexLo) / (ConcHi - ConcLo) * (c - ConcLo) + IndexLo
//
// truncated (not rounded) to an integer. A concentration above the top
// breakpoint returns MaxIndex. Negative or NaN input returns ErrInvalidInput.
func Convert(p Pollutant, concentration float64) (int, error) {
	scale, ok := scales[p]
	if !ok {
		return 0, fmt.Errorf("aqi: %w: %q", ErrUnknownPollutant, p)
	}
	if math.IsNaN(concentration) || concentration < 0 {
		return 0, fmt.Errorf("aqi: %w: %v µg/m³", ErrInvalidInput, concentration)
	}

	// Work in whole truncation steps. Breakpoints are exact multiples of the
	// table precision, so comparing step counts sidesteps binary-fraction
	// rounding at segment boundaries.
	c := steps(concentration, scale.Precision)

	for _, b := range scale.Breakpoints {
		lo, hi := steps(b.ConcLo, scale.Precision), steps(b.ConcHi, scale.Precision)
		if c > hi {
			continue
		}
		if c <= lo {
			return b.IndexLo, nil
		}
		if c == hi {
			return b.IndexHi, nil
		}
		idx := int(float64(b.IndexHi-b.IndexLo)*(c-lo)/(hi-lo)) + b.IndexLo
		return clampInt(idx, b.IndexLo, b.IndexHi), nil
	}

	// Beyond the top breakpoint: clamp, don't extrapolate.
	return MaxIndex, nil
}

// steps truncates c down to a whole number of precision steps. The epsilon
// guards against decimal steps like 0.1 having no exact binary form; it is
// far too small to ever promote a reading across a reporting step.
func steps(c, precision float64) float64 {
	return math.Floor(c/precision + 1e-9)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
