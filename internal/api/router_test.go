package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/admin"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/client"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/config"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/proxy"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/services"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/session"
)

func testDeps(t *testing.T, backendURL string) Deps {
	gin.SetMode(gin.TestMode)
	c, err := client.New(backendURL, 5*time.Second)
	require.NoError(t, err)
	sess := session.New(c, session.NewMemoryStorage())
	c.SetTokenSource(sess)

	cfg := &config.Config{ItemsPerPage: 10, RateLimitBucketSize: 40, RateLimitRefillRate: 20}
	return Deps{
		Config:  cfg,
		Session: sess,
		Dashboard: admin.NewDashboard(admin.Services{
			Agents:    services.NewAgentService(c),
			ISVs:      services.NewISVService(c),
			Resellers: services.NewResellerService(c),
			Enquiries: services.NewEnquiryService(c),
		}, &admin.RecordingNotifier{}),
		Uploads: services.NewBulkUploadService(c, 1<<20),
		Health:  services.NewHealthService(c),
		Proxy:   proxy.New(nil, nil, proxy.Options{AllowedHosts: []string{"agentsstore.s3.us-east-1.amazonaws.com"}}),
	}
}

func TestSetupRouter_PublicRoutes(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	defer backend.Close()
	r := SetupRouter(testDeps(t, backend.URL))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/image-proxy?url=https://evil.example.com/x.png", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetupRouter_AdminRequiresSession(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	defer backend.Close()
	r := SetupRouter(testDeps(t, backend.URL))

	for _, path := range []string{"/admin/agents", "/admin/stats", "/admin/backend-health"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/session", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func servicePost(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetupServiceRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	shutdown := make(chan struct{}, 1)
	r := SetupServiceRouter(shutdown)

	w := servicePost(r, `{"method":"ping"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pong", resp["result"])

	w = servicePost(r, `{"method":"reboot"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = servicePost(r, `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = servicePost(r, `{"method":"shutdown"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	select {
	case <-shutdown:
	default:
		t.Fatal("shutdown was not signaled")
	}

	// a second signal while the first is pending is dropped, not blocked on
	shutdown <- struct{}{}
	w = servicePost(r, `{"method":"shutdown"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}
