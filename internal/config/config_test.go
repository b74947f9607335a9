package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_FILE", "/tmp/backoffice-test/session.json")

	cfg, err := Load("api")
	require.NoError(t, err)

	assert.Equal(t, "api", cfg.RunMode)
	assert.Equal(t, DefaultBackendURL, cfg.BackendURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "file", cfg.SessionStore)
	assert.Equal(t, "4000", cfg.ApiPort)
	assert.Equal(t, "4001", cfg.ServiceApiPort)
	assert.Equal(t, "auth-storage", cfg.SessionKey)
	assert.Equal(t, 10, cfg.ItemsPerPage)
	assert.Equal(t, int64(25*1024*1024), cfg.BulkUploadMaxBytes())
	assert.Contains(t, cfg.ProxyAllowedHosts, "raw.githubusercontent.com")
	assert.Contains(t, cfg.ProxyAllowedHosts, "agentsstore.s3.us-east-1.amazonaws.com")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://localhost:9000/")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "3")
	t.Setenv("PROXY_ALLOWED_HOSTS", " Example.com , ,cdn.test ")

	cfg, err := Load("all")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000", cfg.BackendURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"example.com", "cdn.test"}, cfg.ProxyAllowedHosts)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"timeout not a number", "REQUEST_TIMEOUT_SECONDS", "ten"},
		{"timeout zero", "REQUEST_TIMEOUT_SECONDS", "0"},
		{"redis db", "REDIS_DB", "x"},
		{"session store", "SESSION_STORE", "sqlite"},
		{"items per page", "ITEMS_PER_PAGE", "many"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load("api")
			assert.Error(t, err)
		})
	}
}

func TestLoad_RedisSessionRequiresAddr(t *testing.T) {
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_ADDR", "")

	_, err := Load("api")
	assert.ErrorContains(t, err, "REDIS_ADDR")
}
