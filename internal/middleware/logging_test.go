package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	tests := []struct {
		path   string
		status int
		level  zapcore.Level
	}{
		{"/api/products", http.StatusOK, zapcore.InfoLevel},
		{"/api/orders", http.StatusConflict, zapcore.WarnLevel},
		{"/api/orders/admin/all", http.StatusInternalServerError, zapcore.ErrorLevel},
		{"/health", http.StatusOK, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, len(tests))
	for i, tt := range tests {
		assert.Equal(t, tt.level, entries[i].Level, tt.path)
		fields := entries[i].ContextMap()
		assert.Equal(t, tt.path, fields["path"])
		assert.EqualValues(t, tt.status, fields["status"])
	}
}

func TestLoggingMiddleware_ImplicitOK(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	handler := LoggingMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products", nil))

	require.Equal(t, 1, logs.Len())
	assert.EqualValues(t, http.StatusOK, logs.All()[0].ContextMap()["status"])
	assert.EqualValues(t, 2, logs.All()[0].ContextMap()["bytes"])
}
