package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func protected(mode, header, key string) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return APIKeyMiddleware(mode, header, key)(ok)
}

func doRequest(t *testing.T, h http.Handler, headerName, headerValue string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/air", nil)
	if headerName != "" {
		req.Header.Set(headerName, headerValue)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		mode       string
		key        string
		sendHeader string
		sendValue  string
		wantStatus int
	}{
		{"valid key", "apikey", "sekrit", "x-api-key", "sekrit", http.StatusOK},
		{"wrong key", "apikey", "sekrit", "x-api-key", "nope", http.StatusUnauthorized},
		{"missing header", "apikey", "sekrit", "", "", http.StatusUnauthorized},
		{"empty value", "apikey", "sekrit", "x-api-key", "", http.StatusUnauthorized},
		{"mode none passes through", "none", "sekrit", "", "", http.StatusOK},
		{"unconfigured key passes through", "apikey", "", "", "", http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := protected(tc.mode, "x-api-key", tc.key)
			rec := doRequest(t, h, tc.sendHeader, tc.sendValue)
			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}

func TestAPIKeyMiddleware_CustomHeader(t *testing.T) {
	h := protected("apikey", "x-gauge-key", "sekrit")

	if rec := doRequest(t, h, "x-gauge-key", "sekrit"); rec.Code != http.StatusOK {
		t.Errorf("custom header: status = %d, want 200", rec.Code)
	}
	if rec := doRequest(t, h, "x-api-key", "sekrit"); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong header name: status = %d, want 401", rec.Code)
	}
}
