package ingest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/airgauge/airgauge/pkg/types"
	"github.com/airgauge/airgauge/server/internal/store"
)

// maxBodyBytes caps the accepted request body size.
const maxBodyBytes = 1 << 20

// Sink receives every accepted sample. Implementations must not block for
// long; the ingest handler calls them inline.
type Sink interface {
	Accept(s *types.Sample)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(s *types.Sample)

func (f SinkFunc) Accept(s *types.Sample) { f(s) }

// Handler accepts samples posted by airgauge-agent instances.
// It validates each incoming sample, stores it, and fans it out to the sinks.
type Handler struct {
	store *store.Store
	sinks []Sink
}

// New creates a Handler that writes accepted samples to st and forwards them
// to the given sinks.
func New(st *store.Store, sinks ...Sink) *Handler {
	return &Handler{store: st, sinks: sinks}
}

// ServeHTTP handles POST /api/v1/ingest.
// Authentication is enforced by middleware before this is called.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var s types.Sample
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&s); err != nil {
		http.Error(w, "malformed sample: "+err.Error(), http.StatusBadRequest)
		return
	}
	io.Copy(io.Discard, body) //nolint:errcheck

	if !s.Valid() {
		http.Error(w, "invalid sample: device_id required, values must be finite", http.StatusBadRequest)
		return
	}

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now().UTC()
	}

	h.store.Put(&s)
	for _, sink := range h.sinks {
		sink.Accept(&s)
	}

	slog.Debug("ingest: sample stored",
		"id", s.ID,
		"device_id", s.DeviceID,
		"aqi", s.AQI,
		"category", s.Category,
	)

	w.WriteHeader(http.StatusAccepted)
}
