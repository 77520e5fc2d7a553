package compute

import (
	"errors"
	"testing"
	"time"

	"github.com/airgauge/airgauge/agent/internal/sensor"
)

func testReading(id string, values map[string]float64, err error) *sensor.Reading {
	return &sensor.Reading{
		SensorID:   id,
		SensorType: "gateway",
		ReadAt:     time.Now(),
		Values:     values,
		Err:        err,
	}
}

func TestEngineProcess(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		opts          Options
		reading       *sensor.Reading
		wantAQI       *int
		wantPollutant string
		wantCategory  string
		wantErrMsg    bool
	}{
		{
			name:          "pm2.5 only",
			reading:       testReading("s1", map[string]float64{sensor.MetricPM25: 6}, nil),
			wantAQI:       intp(25),
			wantPollutant: "pm2.5",
			wantCategory:  "good",
		},
		{
			name: "pm2.5 dominates pm10",
			reading: testReading("s1", map[string]float64{
				sensor.MetricPM25: 35.4,
				sensor.MetricPM10: 54,
			}, nil),
			wantAQI:       intp(100),
			wantPollutant: "pm2.5",
			wantCategory:  "moderate",
		},
		{
			name: "pm10 dominates pm2.5",
			reading: testReading("s1", map[string]float64{
				sensor.MetricPM25: 12.0,
				sensor.MetricPM10: 154,
			}, nil),
			wantAQI:       intp(100),
			wantPollutant: "pm10",
			wantCategory:  "moderate",
		},
		{
			name: "humidity compensation lowers optical pm2.5",
			opts: Options{HumidityCompensation: true},
			reading: testReading("s1", map[string]float64{
				sensor.MetricPM25:     10,
				sensor.MetricHumidity: 50,
			}, nil),
			wantAQI:       intp(27),
			wantPollutant: "pm2.5",
			wantCategory:  "good",
		},
		{
			name: "compensation disabled keeps raw pm2.5",
			reading: testReading("s1", map[string]float64{
				sensor.MetricPM25:     10,
				sensor.MetricHumidity: 50,
			}, nil),
			wantAQI:       intp(41),
			wantPollutant: "pm2.5",
			wantCategory:  "good",
		},
		{
			name:       "negative pm2.5 rejected",
			reading:    testReading("s1", map[string]float64{sensor.MetricPM25: -3}, nil),
			wantErrMsg: true,
		},
		{
			name: "valid pm10 supersedes rejected pm2.5",
			reading: testReading("s1", map[string]float64{
				sensor.MetricPM25: -3,
				sensor.MetricPM10: 54,
			}, nil),
			wantAQI:       intp(50),
			wantPollutant: "pm10",
			wantCategory:  "good",
		},
		{
			name:       "read failure carries error",
			reading:    testReading("s1", nil, errors.New("connection refused")),
			wantErrMsg: true,
		},
		{
			name:    "no particulate metrics",
			reading: testReading("s1", map[string]float64{sensor.MetricCO2: 800}, nil),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEngine(tc.opts)
			got := e.Process(tc.reading, now)

			if got.SensorID != "s1" || !got.Timestamp.Equal(now) {
				t.Fatalf("identity not carried: %+v", got)
			}
			if (got.AQI == nil) != (tc.wantAQI == nil) {
				t.Fatalf("AQI = %v, want %v", got.AQI, tc.wantAQI)
			}
			if got.AQI != nil && *got.AQI != *tc.wantAQI {
				t.Fatalf("AQI = %d, want %d", *got.AQI, *tc.wantAQI)
			}
			if got.Pollutant != tc.wantPollutant {
				t.Fatalf("Pollutant = %q, want %q", got.Pollutant, tc.wantPollutant)
			}
			if got.Category != tc.wantCategory {
				t.Fatalf("Category = %q, want %q", got.Category, tc.wantCategory)
			}
			if (got.ErrorMessage != "") != tc.wantErrMsg {
				t.Fatalf("ErrorMessage = %q, wantErrMsg=%v", got.ErrorMessage, tc.wantErrMsg)
			}
		})
	}
}

func TestEngineUptimeWindow(t *testing.T) {
	e := NewEngine(Options{})
	now := time.Now()
	values := map[string]float64{sensor.MetricPM25: 5}

	var last *Result
	for i := 0; i < 10; i++ {
		last = e.Process(testReading("s1", nil, errors.New("down")), now)
	}
	if last.UptimePct != 0 {
		t.Fatalf("after 10 failures UptimePct = %v, want 0", last.UptimePct)
	}

	for i := 0; i < 10; i++ {
		last = e.Process(testReading("s1", values, nil), now)
	}
	if last.UptimePct != 50 {
		t.Fatalf("after 10 failures + 10 successes UptimePct = %v, want 50", last.UptimePct)
	}

	// Another 20 successes push every failure out of the window.
	for i := 0; i < 20; i++ {
		last = e.Process(testReading("s1", values, nil), now)
	}
	if last.UptimePct != 100 {
		t.Fatalf("after recovery UptimePct = %v, want 100", last.UptimePct)
	}
}

func TestEngineTracksSensorsIndependently(t *testing.T) {
	e := NewEngine(Options{})
	now := time.Now()
	values := map[string]float64{sensor.MetricPM25: 5}

	for i := 0; i < uptimeWindow; i++ {
		e.Process(testReading("down", nil, errors.New("down")), now)
	}
	up := e.Process(testReading("up", values, nil), now)
	down := e.Process(testReading("down", nil, errors.New("down")), now)

	if up.UptimePct != 100 {
		t.Fatalf("healthy sensor UptimePct = %v, want 100", up.UptimePct)
	}
	if down.UptimePct != 0 {
		t.Fatalf("failing sensor UptimePct = %v, want 0", down.UptimePct)
	}
}

func intp(v int) *int { return &v }
