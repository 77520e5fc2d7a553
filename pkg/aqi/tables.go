package aqi

// Pollutant identifies which breakpoint table a concentration is converted with.
type Pollutant string

// Supported pollutants.
const (
	PM25 Pollutant = "pm2.5"
	PM10 Pollutant = "pm10"
)

// MaxIndex is the ceiling of the AQI scale. Concentrations beyond the top
// breakpoint clamp to it.
const MaxIndex = 500

// Breakpoint is one segment of a piecewise-linear conversion table: the
// concentration range [ConcLo, ConcHi] maps linearly onto the index range
// [IndexLo, IndexHi].
type Breakpoint struct {
	ConcLo  float64
	ConcHi  float64
	IndexLo int
	IndexHi int
}

// Scale is the full conversion table for one pollutant. Segments are ordered
// ascending, non-overlapping, and start at zero; anything above the last
// segment's ConcHi is MaxIndex.
//
// Precision is the truncation step applied to a concentration before
// interpolation (EPA convention: 0.1 µg/m³ for PM2.5, 1 µg/m³ for PM10).
type Scale struct {
	Precision   float64
	Breakpoints []Breakpoint
}

// US EPA breakpoint table for 24-hour PM2.5, µg/m³.
var pm25Scale = Scale{
	Precision: 0.1,
	Breakpoints: []Breakpoint{
		{0.0, 12.0, 0, 50},
		{12.0, 35.4, 50, 100},
		{35.4, 55.4, 100, 150},
		{55.4, 150.4, 150, 200},
		{150.4, 250.4, 200, 300},
		{250.4, 350.4, 300, 400},
		{350.4, 500.4, 400, 500},
	},
}

// US EPA breakpoint table for 24-hour PM10, µg/m³. PM10 readings are
// truncated to whole integers, so the gaps between segments are never hit.
var pm10Scale = Scale{
	Precision: 1,
	Breakpoints: []Breakpoint{
		{0, 54, 0, 50},
		{55, 154, 50, 100},
		{155, 254, 100, 150},
		{255, 354, 150, 200},
		{355, 424, 200, 300},
		{425, 504, 300, 400},
		{505, 604, 400, 500},
	},
}

var scales = map[Pollutant]Scale{
	PM25: pm25Scale,
	PM10: pm10Scale,
}

// Table returns the breakpoint scale for p. The second return is false when
// the pollutant is unknown.
func Table(p Pollutant) (Scale, bool) {
	s, ok := scales[p]
	return s, ok
}
