package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	t.Parallel()

	const frontend = "https://match-predictor-fe.example.com"
	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		wantCode    int
		wantOrigin  string
		wantHeaders bool
	}{
		{name: "configured origin", allowed: []string{frontend}, method: http.MethodGet, origin: frontend, wantCode: http.StatusOK, wantOrigin: frontend, wantHeaders: true},
		{name: "wildcard preflight", allowed: []string{"*"}, method: http.MethodOptions, origin: frontend, wantCode: http.StatusNoContent, wantOrigin: "*", wantHeaders: true},
		{name: "unknown origin", allowed: []string{"https://allowed.example.com"}, method: http.MethodGet, origin: frontend, wantCode: http.StatusOK},
		{name: "no origin header", allowed: []string{"*"}, method: http.MethodGet, wantCode: http.StatusOK},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tc.method, "/v1/matches", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rec := httptest.NewRecorder()
			CORS(tc.allowed, next).ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected status %d, got %d", tc.wantCode, rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
			}
			hasHeaders := rec.Header().Get("Access-Control-Allow-Headers") != ""
			if hasHeaders != tc.wantHeaders {
				t.Fatalf("expected allow-headers present=%v", tc.wantHeaders)
			}
		})
	}
}
