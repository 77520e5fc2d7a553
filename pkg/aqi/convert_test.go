package aqi

import (
	"errors"
	"math"
	"testing"
)

// --- Convert() PM2.5 --------------------------------------------------------

func TestConvert_PM25_Boundaries(t *testing.T) {
	// A concentration sitting exactly on a segment boundary resolves to the
	// lower segment's high index.
	tests := []struct {
		conc float64
		want int
	}{
		{0.0, 0},
		{12.0, 50},
		{35.4, 100},
		{55.4, 150},
		{150.4, 200},
		{250.4, 300},
		{350.4, 400},
		{500.4, 500},
	}
	for _, tc := range tests {
		got, err := Convert(PM25, tc.conc)
		if err != nil {
			t.Fatalf("Convert(PM25, %v) error = %v", tc.conc, err)
		}
		if got != tc.want {
			t.Errorf("Convert(PM25, %v) = %d, want %d", tc.conc, got, tc.want)
		}
	}
}

func TestConvert_PM25_Interpolation(t *testing.T) {
	tests := []struct {
		name string
		conc float64
		want int
	}{
		{"zero", 0, 0},
		{"mid first segment", 6, 25},
		// Segment 55.4–150.4 → 150–200: 50/95 * 44.6 + 150 = 173.47, truncated.
		{"unhealthy band", 100, 173},
		{"just above a boundary", 12.1, 50},
		{"just below a boundary", 35.3, 99},
		{"non-integral input", 7.5, 31},
		// 35.46 truncates to 35.4 before interpolation (EPA reporting step).
		{"truncated to reporting step", 35.46, 100},
		{"top segment", 400.0, 433},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Convert(PM25, tc.conc)
			if err != nil {
				t.Fatalf("Convert(PM25, %v) error = %v", tc.conc, err)
			}
			if got != tc.want {
				t.Errorf("Convert(PM25, %v) = %d, want %d", tc.conc, got, tc.want)
			}
		})
	}
}

func TestConvert_Ceiling(t *testing.T) {
	// Anything beyond the top breakpoint clamps to 500, never extrapolates.
	for _, conc := range []float64{500.4, 500.5, 600, 1000, 1e6} {
		got, err := Convert(PM25, conc)
		if err != nil {
			t.Fatalf("Convert(PM25, %v) error = %v", conc, err)
		}
		if got != MaxIndex {
			t.Errorf("Convert(PM25, %v) = %d, want %d", conc, got, MaxIndex)
		}
	}
}

func TestConvert_Monotonic(t *testing.T) {
	// Sweep the whole input domain in reporting-step increments; the index
	// must never decrease and must stay within [0, 500].
	prev := -1
	for c := 0.0; c <= 620.0; c += 0.1 {
		got, err := Convert(PM25, c)
		if err != nil {
			t.Fatalf("Convert(PM25, %v) error = %v", c, err)
		}
		if got < prev {
			t.Fatalf("Convert(PM25, %v) = %d, below previous %d", c, got, prev)
		}
		if got < 0 || got > MaxIndex {
			t.Fatalf("Convert(PM25, %v) = %d, outside [0, %d]", c, got, MaxIndex)
		}
		prev = got
	}
}

func TestConvert_FirstSegmentRange(t *testing.T) {
	// For c in [0, 12.0) the index lies in [0, 50) and increases.
	prev := -1
	for c := 0.0; c < 12.0; c += 0.1 {
		got, err := Convert(PM25, c)
		if err != nil {
			t.Fatalf("Convert(PM25, %v) error = %v", c, err)
		}
		if got < 0 || got >= 50 {
			t.Errorf("Convert(PM25, %v) = %d, want within [0, 50)", c, got)
		}
		if got < prev {
			t.Errorf("Convert(PM25, %v) = %d, below previous %d", c, got, prev)
		}
		prev = got
	}
}

func TestConvert_InvalidInput(t *testing.T) {
	for _, conc := range []float64{-1, -0.001, math.NaN()} {
		_, err := Convert(PM25, conc)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Convert(PM25, %v) error = %v, want ErrInvalidInput", conc, err)
		}
	}
}

func TestConvert_UnknownPollutant(t *testing.T) {
	_, err := Convert(Pollutant("ozone"), 10)
	if !errors.Is(err, ErrUnknownPollutant) {
		t.Errorf("error = %v, want ErrUnknownPollutant", err)
	}
}

// --- Convert() PM10 ---------------------------------------------------------

func TestConvert_PM10(t *testing.T) {
	tests := []struct {
		name string
		conc float64
		want int
	}{
		{"zero", 0, 0},
		{"boundary 54", 54, 50},
		{"segment low 55", 55, 50},
		{"boundary 154", 154, 100},
		// 50/99 * (100-55) + 50 = 72.72, truncated.
		{"mid second segment", 100, 72},
		// PM10 truncates to whole µg/m³ first: 54.9 → 54.
		{"fractional reading", 54.9, 50},
		{"ceiling", 700, 500},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Convert(PM10, tc.conc)
			if err != nil {
				t.Fatalf("Convert(PM10, %v) error = %v", tc.conc, err)
			}
			if got != tc.want {
				t.Errorf("Convert(PM10, %v) = %d, want %d", tc.conc, got, tc.want)
			}
		})
	}
}

// --- Category() -------------------------------------------------------------

func TestCategory(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, CategoryGood},
		{50, CategoryGood},
		{51, CategoryModerate},
		{100, CategoryModerate},
		{101, CategorySensitive},
		{150, CategorySensitive},
		{151, CategoryUnhealthy},
		{200, CategoryUnhealthy},
		{201, CategoryVeryUnhealthy},
		{300, CategoryVeryUnhealthy},
		{301, CategoryHazardous},
		{500, CategoryHazardous},
	}
	for _, tc := range tests {
		if got := Category(tc.index); got != tc.want {
			t.Errorf("Category(%d) = %q, want %q", tc.index, got, tc.want)
		}
	}
}
