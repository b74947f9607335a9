package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/api/handlers"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/apierr"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/services"
)

func systemRouter(health *MockHealthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handlers.NewSystemHandler(health)
	r := gin.New()
	r.GET("/api/health", h.Health)
	r.POST("/api/log", h.Log)
	r.GET("/admin/backend-health", h.BackendHealth)
	return r
}

func TestSystemHandler_Log(t *testing.T) {
	r := systemRouter(new(MockHealthService))

	req, _ := http.NewRequest(http.MethodPost, "/api/log", strings.NewReader(`{"event":"login","success":true}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	req, _ = http.NewRequest(http.MethodPost, "/api/log", strings.NewReader(`not json`))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSystemHandler_Health(t *testing.T) {
	r := systemRouter(new(MockHealthService))
	req, _ := http.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSystemHandler_BackendHealth(t *testing.T) {
	health := new(MockHealthService)
	health.On("Check", mock.Anything).Return(&services.HealthStatus{Status: "healthy"}, nil).Once()
	health.On("Check", mock.Anything).Return(nil, apierr.Network(errors.New("dial tcp: refused"))).Once()
	r := systemRouter(health)

	req, _ := http.NewRequest(http.MethodGet, "/admin/backend-health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "unavailable")
}
