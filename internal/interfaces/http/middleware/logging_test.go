package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemDraw-AI/internal/testutil"
)

func newLoggedRouter(logger *testutil.MockLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(NewLoggingMiddleware(logger, nil, DefaultLoggingConfig()).Handler)
	r.Get("/api/v1/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch chi.URLParam(r, "id") {
		case "missing":
			w.WriteHeader(http.StatusNotFound)
		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte("{}"))
		}
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {})
	return r
}

func fieldValue(msg testutil.LogMessage, key string) interface{} {
	for _, f := range msg.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

func TestRequestLogging_Levels(t *testing.T) {
	tests := []struct {
		id    string
		level string
		code  int
	}{
		{"abc", "info", http.StatusOK},
		{"missing", "warn", http.StatusNotFound},
		{"broken", "error", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			logger := testutil.NewMockLogger()
			w := httptest.NewRecorder()
			newLoggedRouter(logger).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+tt.id, nil))

			msgs := logger.GetMessages()
			require.Len(t, msgs, 1)
			assert.Equal(t, tt.level, msgs[0].Level)
			assert.Equal(t, tt.code, fieldValue(msgs[0], "status"))
			assert.Equal(t, "/api/v1/sessions/{id}", fieldValue(msgs[0], "route"))
			assert.Equal(t, "/api/v1/sessions/"+tt.id, fieldValue(msgs[0], "path"))
		})
	}
}

func TestRequestLogging_SkipsProbes(t *testing.T) {
	logger := testutil.NewMockLogger()
	w := httptest.NewRecorder()
	newLoggedRouter(logger).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, logger.GetMessages())
}

//Personal.AI order the ending
