package forward

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/airgauge/airgauge/pkg/types"
	"github.com/airgauge/airgauge/server/internal/config"
)

// fakeWriter records messages instead of talking to a broker.
type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.msgs)
}

func (w *fakeWriter) message(i int) kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.msgs[i]
}

func newTestForwarder(w messageWriter) *Forwarder {
	return &Forwarder{
		writer: w,
		topic:  "airgauge.samples",
		buf:    make(chan *types.Sample, bufSize),
	}
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestForwarder_PublishesSample(t *testing.T) {
	w := &fakeWriter{}
	f := newTestForwarder(w)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.Run(ctx)

	aqi := 42
	f.Accept(&types.Sample{DeviceID: "bedroom", AQI: &aqi, Category: "good"})

	waitFor(t, func() bool { return w.count() == 1 }, "message never published")

	msg := w.message(0)
	if string(msg.Key) != "bedroom" {
		t.Errorf("key: got %q, want bedroom", msg.Key)
	}
	var got types.Sample
	if err := json.Unmarshal(msg.Value, &got); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	if got.DeviceID != "bedroom" || got.AQI == nil || *got.AQI != 42 {
		t.Errorf("payload: got %+v", got)
	}
}

func TestForwarder_KeyedByDevice(t *testing.T) {
	w := &fakeWriter{}
	f := newTestForwarder(w)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.Run(ctx)

	f.Accept(&types.Sample{DeviceID: "kitchen"})
	f.Accept(&types.Sample{DeviceID: "porch"})

	waitFor(t, func() bool { return w.count() == 2 }, "messages never published")

	keys := map[string]bool{}
	for i := 0; i < 2; i++ {
		keys[string(w.message(i).Key)] = true
	}
	if !keys["kitchen"] || !keys["porch"] {
		t.Errorf("keys: got %v, want kitchen and porch", keys)
	}
}

func TestForwarder_WriteErrorDoesNotStopLoop(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker unreachable")}
	f := newTestForwarder(w)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.Run(ctx)

	f.Accept(&types.Sample{DeviceID: "bedroom"})

	// Give the loop time to fail, then clear the fault and retry with
	// a fresh sample. The loop must still be alive.
	time.Sleep(20 * time.Millisecond)
	w.mu.Lock()
	w.err = nil
	w.mu.Unlock()

	f.Accept(&types.Sample{DeviceID: "kitchen"})
	waitFor(t, func() bool { return w.count() == 1 }, "loop did not survive write error")

	if string(w.message(0).Key) != "kitchen" {
		t.Errorf("key: got %q, want kitchen", w.message(0).Key)
	}
}

func TestForwarder_FullBufferDropsNewest(t *testing.T) {
	w := &fakeWriter{}
	f := &Forwarder{
		writer: w,
		topic:  "airgauge.samples",
		buf:    make(chan *types.Sample, 2),
	}
	// No Run loop: the buffer fills up.
	f.Accept(&types.Sample{DeviceID: "a"})
	f.Accept(&types.Sample{DeviceID: "b"})
	f.Accept(&types.Sample{DeviceID: "c"})

	if got := f.Dropped(); got != 1 {
		t.Errorf("Dropped: got %d, want 1", got)
	}
	if len(f.buf) != 2 {
		t.Errorf("buffered: got %d, want 2", len(f.buf))
	}
}

func TestForwarder_Close(t *testing.T) {
	w := &fakeWriter{}
	f := newTestForwarder(w)
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !w.closed {
		t.Error("underlying writer not closed")
	}
}

func TestForwarder_New_UsesConfig(t *testing.T) {
	f := New(config.KafkaConfig{
		Enabled: true,
		Brokers: []string{"localhost:9092"},
		Topic:   "custom.topic",
	})
	defer f.Close()

	kw, ok := f.writer.(*kafka.Writer)
	if !ok {
		t.Fatalf("writer: got %T, want *kafka.Writer", f.writer)
	}
	if kw.Topic != "custom.topic" {
		t.Errorf("topic: got %q, want custom.topic", kw.Topic)
	}
}
