package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passingCheck() CheckFunc {
	return func(_ context.Context) error {
		return nil
	}
}

func failingCheck(msg string) CheckFunc {
	return func(_ context.Context) error {
		return errors.New(msg)
	}
}

func probe(t *testing.T, endpoint http.HandlerFunc, path string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	endpoint(w, req)

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return w.Code, body
}

func TestLiveEndpoint_AllPassing(t *testing.T) {
	s := New()
	s.AddLivenessCheck("check1", time.Second, passingCheck())
	s.AddLivenessCheck("check2", time.Second, passingCheck())

	code, body := probe(t, s.LiveEndpoint, "/livez")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["check1"])
	assert.Equal(t, "ok", body["check2"])
}

func TestLiveEndpoint_FailingCheck(t *testing.T) {
	s := New()
	s.AddLivenessCheck("db", time.Second, failingCheck("connection refused"))

	code, body := probe(t, s.LiveEndpoint, "/livez")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "connection refused", body["db"])
}

func TestLiveEndpoint_NoChecks(t *testing.T) {
	s := New()

	code, _ := probe(t, s.LiveEndpoint, "/livez")
	assert.Equal(t, http.StatusOK, code)
}

func TestReadyEndpoint_GateClosedByDefault(t *testing.T) {
	s := New()
	s.AddReadinessCheck("storage", time.Second, passingCheck())

	code, body := probe(t, s.ReadyEndpoint, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not ready", body["ready"])
}

func TestReadyEndpoint_Gate(t *testing.T) {
	s := New()
	s.AddReadinessCheck("storage", time.Second, passingCheck())

	s.SetReady(true)
	code, _ := probe(t, s.ReadyEndpoint, "/readyz")
	assert.Equal(t, http.StatusOK, code)

	s.SetReady(false)
	code, _ = probe(t, s.ReadyEndpoint, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestReadyEndpoint_MultipleChecksOneFailing(t *testing.T) {
	s := New()
	s.AddReadinessCheck("storage", time.Second, passingCheck())
	s.AddReadinessCheck("index", time.Second, failingCheck("index stale"))
	s.SetReady(true)

	code, body := probe(t, s.ReadyEndpoint, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "ok", body["storage"])
	assert.Equal(t, "index stale", body["index"])
}

func TestGoroutineCountCheck(t *testing.T) {
	assert.NoError(t, GoroutineCountCheck(100000)(context.Background()))

	err := GoroutineCountCheck(0)(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many goroutines")
}
