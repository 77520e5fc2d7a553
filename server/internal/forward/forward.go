package forward

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/airgauge/airgauge/pkg/types"
	"github.com/airgauge/airgauge/server/internal/config"
)

const (
	bufSize      = 256
	writeTimeout = 10 * time.Second
)

// messageWriter is the part of kafka.Writer the forwarder uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Forwarder publishes samples to a Kafka topic, keyed by device ID so
// that each device's samples stay ordered within a partition.
type Forwarder struct {
	writer  messageWriter
	topic   string
	buf     chan *types.Sample
	dropped atomic.Int64
}

// New builds a Forwarder from the server's Kafka configuration. The
// caller owns the lifecycle: start Run in a goroutine and Close on
// shutdown.
func New(cfg config.KafkaConfig) *Forwarder {
	return &Forwarder{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
		topic: cfg.Topic,
		buf:   make(chan *types.Sample, bufSize),
	}
}

// Accept enqueues a sample for publishing. It never blocks: when the
// buffer is full the sample is dropped and the drop counter bumped.
func (f *Forwarder) Accept(s *types.Sample) {
	select {
	case f.buf <- s:
	default:
		n := f.dropped.Add(1)
		if n%100 == 1 {
			slog.Warn("forward buffer full, dropping sample",
				"device_id", s.DeviceID, "dropped_total", n)
		}
	}
}

// Dropped reports how many samples were discarded because the buffer
// was full.
func (f *Forwarder) Dropped() int64 {
	return f.dropped.Load()
}

// Run drains the buffer until ctx is cancelled. Publish failures are
// logged and the sample discarded; the ingest path never sees broker
// errors.
func (f *Forwarder) Run(ctx context.Context) {
	slog.Info("kafka forwarder started", "topic", f.topic)
	for {
		select {
		case <-ctx.Done():
			slog.Info("kafka forwarder stopping")
			return
		case s := <-f.buf:
			if err := f.publish(ctx, s); err != nil {
				slog.Error("kafka publish failed",
					"device_id", s.DeviceID, "error", err)
			}
		}
	}
}

func (f *Forwarder) publish(ctx context.Context, s *types.Sample) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return f.writer.WriteMessages(wctx, kafka.Message{
		Key:   []byte(s.DeviceID),
		Value: payload,
	})
}

// Close releases the underlying Kafka writer.
func (f *Forwarder) Close() error {
	return f.writer.Close()
}
