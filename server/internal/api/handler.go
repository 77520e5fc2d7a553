package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"

	"github.com/airgauge/airgauge/pkg/aqi"
	"github.com/airgauge/airgauge/pkg/types"
	"github.com/airgauge/airgauge/server/internal/alerts"
	"github.com/airgauge/airgauge/server/internal/store"
)

// AlertSource provides the active alerts shown by the API.
// *alerts.Engine satisfies it; tests may supply a stub.
type AlertSource interface {
	Active() []*alerts.Alert
}

// Handler is the HTTP handler for the read-side /api/v1/* endpoints.
// It reads device state from the sample store and returns JSON responses.
type Handler struct {
	store  *store.Store
	alerts AlertSource
	router *mux.Router
}

// New creates a Handler wired to the given store and alert source and
// registers all routes. alerts may be nil when alerting is disabled.
func New(st *store.Store, al AlertSource) http.Handler {
	h := &Handler{store: st, alerts: al, router: mux.NewRouter()}

	v1 := h.router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/air", h.air).Methods(http.MethodGet)
	v1.HandleFunc("/devices", h.listDevices).Methods(http.MethodGet)
	v1.HandleFunc("/devices/{id}", h.getDevice).Methods(http.MethodGet)
	v1.HandleFunc("/devices/{id}/history", h.history).Methods(http.MethodGet)
	v1.HandleFunc("/alerts", h.listAlerts).Methods(http.MethodGet)
	v1.HandleFunc("/snapshot", h.snapshot).Methods(http.MethodGet)
	h.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// air returns GET /api/v1/air — worst AQI across live devices plus counts.
func (h *Handler) air(w http.ResponseWriter, _ *http.Request) {
	entries := h.store.List()
	resp := AirResponse{
		DeviceCount: len(entries),
		AlertCount:  h.alertCount(),
	}

	if len(entries) == 0 {
		resp.Category = "unknown"
		jsonResp(w, http.StatusOK, resp)
		return
	}

	for _, e := range entries {
		s := e.Sample
		switch s.Category {
		case aqi.CategoryGood:
			resp.GoodCount++
		case aqi.CategoryModerate:
			resp.ModerateCount++
		case aqi.CategorySensitive:
			resp.SensitiveCount++
		case aqi.CategoryUnhealthy:
			resp.UnhealthyCount++
		case aqi.CategoryVeryUnhealthy:
			resp.VeryUnhealthyCount++
		case aqi.CategoryHazardous:
			resp.HazardousCount++
		default:
			resp.UnknownCount++
		}
		if s.AQI != nil && (resp.WorstAQI == nil || *s.AQI > *resp.WorstAQI) {
			v := *s.AQI
			resp.WorstAQI = &v
			resp.WorstDevice = s.DeviceID
		}
	}

	if resp.WorstAQI != nil {
		resp.Category = aqi.Category(*resp.WorstAQI)
	} else {
		resp.Category = "unknown"
	}
	jsonResp(w, http.StatusOK, resp)
}

// listDevices returns GET /api/v1/devices — all live devices.
func (h *Handler) listDevices(w http.ResponseWriter, _ *http.Request) {
	entries := h.store.List()
	out := make([]DeviceResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toDeviceResponse(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeviceID < out[j].DeviceID })
	jsonResp(w, http.StatusOK, out)
}

// getDevice returns GET /api/v1/devices/{id} — a single live device.
func (h *Handler) getDevice(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	e, ok := h.store.Get(id)
	if !ok {
		jsonErr(w, http.StatusNotFound, "device not found")
		return
	}
	// Exclude stale entries — treat them as not found.
	if time.Since(e.UpdatedAt) > h.store.TTL() {
		jsonErr(w, http.StatusNotFound, "device not found")
		return
	}

	jsonResp(w, http.StatusOK, toDeviceResponse(e))
}

// history returns GET /api/v1/devices/{id}/history with optional RFC3339
// ?from= and ?to= bounds.
func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var from, to time.Time
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			jsonErr(w, http.StatusBadRequest, "from: want RFC3339 timestamp")
			return
		}
		from = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			jsonErr(w, http.StatusBadRequest, "to: want RFC3339 timestamp")
			return
		}
		to = t
	}

	samples := h.store.History(id, from, to)
	if samples == nil {
		samples = []*types.Sample{} // serialize as [], not null
	}
	jsonResp(w, http.StatusOK, HistoryResponse{DeviceID: id, Samples: samples})
}

// listAlerts returns GET /api/v1/alerts — firing plus recently resolved alerts.
func (h *Handler) listAlerts(w http.ResponseWriter, _ *http.Request) {
	if h.alerts == nil {
		jsonResp(w, http.StatusOK, []struct{}{})
		return
	}
	jsonResp(w, http.StatusOK, h.alerts.Active())
}

// snapshot returns GET /api/v1/snapshot — full JSON dump of all live devices.
func (h *Handler) snapshot(w http.ResponseWriter, _ *http.Request) {
	jsonResp(w, http.StatusOK, BuildSnapshot(h.store))
}

// BuildSnapshot assembles the full live-device dump. The WebSocket hub uses
// the same payload for its broadcast frames.
func BuildSnapshot(st *store.Store) SnapshotResponse {
	entries := st.List()
	devices := make([]DeviceResponse, 0, len(entries))
	for _, e := range entries {
		devices = append(devices, toDeviceResponse(e))
	}
	sort.Slice(devices, func(i, j int) bool { return devices[i].DeviceID < devices[j].DeviceID })

	return SnapshotResponse{
		Devices:     devices,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// --- helpers ----------------------------------------------------------------

func (h *Handler) alertCount() int {
	if h.alerts == nil {
		return 0
	}
	return len(h.alerts.Active())
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

// toDeviceResponse maps a store.Entry to its JSON representation.
func toDeviceResponse(e *store.Entry) DeviceResponse {
	return DeviceResponse{
		Sample:     *e.Sample,
		Advisories: computeAdvisories(e.Sample),
		LastSeen:   e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
