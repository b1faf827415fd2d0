package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	server, _ := newTestServer(t)
	rec := doRequest(t, server, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestReadinessCheck(t *testing.T) {
	t.Run("ready when store answers", func(t *testing.T) {
		server, _ := newTestServer(t)
		rec := doRequest(t, server, http.MethodGet, "/health/ready", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"store":"ok"`)
	})

	t.Run("not ready when store is down", func(t *testing.T) {
		server, mocks := newTestServer(t)
		mocks.pingErr = errors.New("connection refused")

		rec := doRequest(t, server, http.MethodGet, "/health/ready", nil, nil)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "not_ready")
	})
}
