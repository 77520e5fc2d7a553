package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/airgauge/airgauge/agent/internal/compute"
	"github.com/airgauge/airgauge/agent/internal/config"
	"github.com/airgauge/airgauge/agent/internal/sensor"
)

// Display renders the results of one sampling cycle.
type Display interface {
	Render(results []*compute.Result)
}

// New returns the Display selected by cfg. Console output goes to w.
func New(cfg config.DisplayConfig, w io.Writer) Display {
	switch cfg.Mode {
	case "console":
		return &Console{w: w}
	default:
		return Nop{}
	}
}

// Nop discards every frame.
type Nop struct{}

func (Nop) Render([]*compute.Result) {}

// Console prints one fixed-width line per sensor, newest cycle last.
type Console struct {
	w io.Writer
}

func (c *Console) Render(results []*compute.Result) {
	for _, r := range results {
		fmt.Fprintln(c.w, formatLine(r))
	}
}

// formatLine renders one result as a compact readout line, e.g.
//
//	12:04:30 bedroom      AQI  42 good            pm2.5 10.2  co2 650  21.4°C  48%rh  up 100%
func formatLine(r *compute.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %-12s ", r.Timestamp.Format(time.TimeOnly), r.SensorID)

	if r.AQI != nil {
		fmt.Fprintf(&b, "AQI %3d %-14s", *r.AQI, r.Category)
	} else if r.ErrorMessage != "" {
		fmt.Fprintf(&b, "ERR %-18.18s", r.ErrorMessage)
	} else {
		fmt.Fprintf(&b, "AQI --- %-14s", "")
	}

	if v, ok := r.Values[sensor.MetricPM25]; ok {
		fmt.Fprintf(&b, "  pm2.5 %.1f", v)
	}
	if v, ok := r.Values[sensor.MetricPM10]; ok {
		fmt.Fprintf(&b, "  pm10 %.0f", v)
	}
	if v, ok := r.Values[sensor.MetricCO2]; ok {
		fmt.Fprintf(&b, "  co2 %.0f", v)
	}
	if v, ok := r.Values[sensor.MetricTemperature]; ok {
		fmt.Fprintf(&b, "  %.1f°C", v)
	}
	if v, ok := r.Values[sensor.MetricHumidity]; ok {
		fmt.Fprintf(&b, "  %.0f%%rh", v)
	}

	fmt.Fprintf(&b, "  up %.0f%%", r.UptimePct)
	return b.String()
}
