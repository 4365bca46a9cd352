package middleware_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DanielPopoola/connector-gateway/internal/interfaces/rest"
	"github.com/DanielPopoola/connector-gateway/internal/interfaces/rest/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope rest.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope.Error.Code
}

func TestRecovery(t *testing.T) {
	handler := middleware.Recovery(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/refunds/ref_1", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "HE_00", errorCode(t, rec))
}

func TestTimeout(t *testing.T) {
	handler := middleware.Timeout(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/refunds/ref_1", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "HE_04", errorCode(t, rec))
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(middleware.RequestIDHeader))
}

func TestValidation_UndocumentedPathPassesThrough(t *testing.T) {
	doc := []byte(`
openapi: 3.0.3
info:
  title: t
  version: "1"
paths:
  /v1/things/{id}:
    get:
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
            enum: [alpha, beta]
      responses:
        '200':
          description: ok
`)
	validate, err := middleware.Validation(doc, discardLogger())
	require.NoError(t, err)

	handler := validate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/elsewhere", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/things/gamma", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "IR_07", errorCode(t, rec))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/things/beta", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestValidation_RejectsBrokenDocument(t *testing.T) {
	_, err := middleware.Validation([]byte("openapi: [unterminated"), discardLogger())
	assert.Error(t, err)
}
