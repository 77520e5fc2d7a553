package alerts

import (
	"testing"

	"github.com/airgauge/airgauge/pkg/types"
)

func TestEvalCondition(t *testing.T) {
	s := &types.Sample{
		DeviceID:    "dev",
		PM25:        types.Float(40.0),
		CO2:         types.Float(1800),
		HumidityPct: types.Float(15),
		AQI:         types.Int(160),
		Category:    "unhealthy",
		UptimePct:   55,
	}

	tests := []struct {
		cond      string
		wantFires bool
		wantValue float64
	}{
		{"aqi > 150", true, 160},
		{"aqi > 200", false, 160},
		{"aqi >= 160", true, 160},
		{"pm25 > 35.4", true, 40},
		{"co2_ppm > 1500", true, 1800},
		{"humidity_pct < 20", true, 15},
		{"uptime_pct < 60", true, 55},
		{"uptime_pct <= 55", true, 55},
		{"uptime_pct == 55", true, 55},
		{"category == unhealthy", true, 0},
		{"category == hazardous", false, 0},
		{"category > unhealthy", false, 0}, // only == supported for category
		{"temperature_c > 30", false, 0},   // field absent from sample
		{"nonsense_field > 1", false, 0},
		{"aqi >", false, 0},          // malformed
		{"aqi > abc", false, 0},      // non-numeric threshold
		{"aqi ~ 150", false, 160},    // unknown operator
	}

	for _, tc := range tests {
		t.Run(tc.cond, func(t *testing.T) {
			fires, value := evalCondition(tc.cond, s)
			if fires != tc.wantFires {
				t.Errorf("fires = %v, want %v", fires, tc.wantFires)
			}
			if value != tc.wantValue {
				t.Errorf("value = %v, want %v", value, tc.wantValue)
			}
		})
	}
}

func TestEvalCondition_MissingAQI(t *testing.T) {
	s := &types.Sample{DeviceID: "dev"}
	if fires, _ := evalCondition("aqi > 0", s); fires {
		t.Error("rule fired on sample with no AQI")
	}
}
