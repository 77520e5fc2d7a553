package sensor

import (
	"context"
	"hash/fnv"
	"math/rand"
	"sort"
	"sync"

	"github.com/airgauge/airgauge/agent/internal/config"
)

// Random-walk parameters for the simulated sensor. Baselines approximate a
// reasonably ventilated indoor room.
var simBaselines = map[string]struct{ base, step, min, max float64 }{
	MetricPM25:        {8, 1.5, 0, 400},
	MetricPM10:        {15, 2.5, 0, 500},
	MetricCO2:         {600, 25, 400, 5000},
	MetricTemperature: {21, 0.2, 10, 35},
	MetricHumidity:    {45, 1, 20, 90},
}

// simSensor produces plausible readings without any hardware, for local
// development and load testing. The walk is seeded from the sensor ID so
// two runs of the same config produce the same trace.
type simSensor struct {
	src config.Sensor

	mu   sync.Mutex
	rng  *rand.Rand
	last map[string]float64
}

func newSimSensor(src config.Sensor) *simSensor {
	h := fnv.New64a()
	_, _ = h.Write([]byte(src.ID))
	return &simSensor{
		src:  src,
		rng:  rand.New(rand.NewSource(int64(h.Sum64()))), //nolint:gosec // simulation, not crypto
		last: make(map[string]float64),
	}
}

// Read advances the random walk one step and returns the new values.
// It never fails and ignores ctx beyond the usual cancellation check.
func (s *simSensor) Read(ctx context.Context) (*Reading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Walk the metrics in a stable order so the rng draws line up between
	// identically-seeded sensors.
	keys := make([]string, 0, len(simBaselines))
	for key := range simBaselines {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	r := newReading(s.src.ID, "sim")
	for _, key := range keys {
		p := simBaselines[key]
		v, ok := s.last[key]
		if !ok {
			v = p.base
		}
		v += (s.rng.Float64()*2 - 1) * p.step
		if v < p.min {
			v = p.min
		}
		if v > p.max {
			v = p.max
		}
		s.last[key] = v
		r.Values[key] = v
	}
	return r, nil
}
