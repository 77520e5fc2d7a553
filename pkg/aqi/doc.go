// Package aqi converts pollutant concentrations to the US EPA Air Quality
// Index (0–500) by piecewise-linear interpolation over the regulator-defined
// breakpoint tables.
//
// Convert(pollutant, concentration) selects the first breakpoint segment whose
// upper bound covers the concentration (so a value sitting exactly on a
// boundary resolves to the lower segment), interpolates linearly within it and
// truncates the result to an integer. Concentrations above the top breakpoint
// clamp to MaxIndex rather than extrapolating. Negative or NaN input is
// rejected with ErrInvalidInput.
//
// Tables for PM2.5 and PM10 are built in. The conversion is pure and
// deterministic; tables are fixed at compile time and never mutated.
package aqi
