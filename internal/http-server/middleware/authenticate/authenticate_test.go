package authenticate

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serve(key string, prepare func(r *http.Request)) *httptest.ResponseRecorder {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(log, key)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	if prepare != nil {
		prepare(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		prepare func(r *http.Request)
		want    int
	}{
		{"disabled", "", nil, http.StatusNoContent},
		{"missing", "secret-key", nil, http.StatusUnauthorized},
		{"bearer", "secret-key", func(r *http.Request) { r.Header.Set("Authorization", "Bearer secret-key") }, http.StatusNoContent},
		{"header", "secret-key", func(r *http.Request) { r.Header.Set("X-API-Key", "secret-key") }, http.StatusNoContent},
		{"query", "secret-key", func(r *http.Request) { r.URL.RawQuery = "key=secret-key" }, http.StatusNoContent},
		{"wrong", "secret-key", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serve(tt.key, tt.prepare).Code)
		})
	}
}
