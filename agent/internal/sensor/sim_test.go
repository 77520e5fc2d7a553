package sensor

import (
	"context"
	"testing"

	"github.com/airgauge/airgauge/agent/internal/config"
)

func TestSimSensor_ReadsAllMetrics(t *testing.T) {
	s, err := New(config.Sensor{ID: "bench", Type: "sim"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	r, err := s.Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if r.Err != nil {
		t.Fatalf("r.Err = %v", r.Err)
	}

	for key, p := range simBaselines {
		v, ok := r.Values[key]
		if !ok {
			t.Errorf("Values[%s] absent", key)
			continue
		}
		if v < p.min || v > p.max {
			t.Errorf("Values[%s] = %v, outside [%v, %v]", key, v, p.min, p.max)
		}
	}
}

func TestSimSensor_WalksWithinBounds(t *testing.T) {
	s := newSimSensor(config.Sensor{ID: "bench", Type: "sim"})
	for i := 0; i < 500; i++ {
		r, err := s.Read(context.Background())
		if err != nil {
			t.Fatalf("Read() #%d error = %v", i, err)
		}
		for key, p := range simBaselines {
			if v := r.Values[key]; v < p.min || v > p.max {
				t.Fatalf("cycle %d: Values[%s] = %v, outside [%v, %v]", i, key, v, p.min, p.max)
			}
		}
	}
}

func TestSimSensor_DeterministicPerID(t *testing.T) {
	a := newSimSensor(config.Sensor{ID: "node-7", Type: "sim"})
	b := newSimSensor(config.Sensor{ID: "node-7", Type: "sim"})

	ra, _ := a.Read(context.Background())
	rb, _ := b.Read(context.Background())

	for key := range simBaselines {
		if ra.Values[key] != rb.Values[key] {
			t.Errorf("Values[%s]: %v != %v for identically-seeded sensors", key, ra.Values[key], rb.Values[key])
		}
	}
}
