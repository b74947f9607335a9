package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/api/handlers"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/client"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/session"
)

func fakeAuthBackend(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		require.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("password") != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "Welcome",
			"user":    map[string]string{"user_id": "u1", "email": r.PostForm.Get("email"), "role": "admin"},
		})
	}))
}

func sessionRouter(t *testing.T, backendURL string) (*gin.Engine, *session.Store) {
	gin.SetMode(gin.TestMode)
	c, err := client.New(backendURL, 5*time.Second)
	require.NoError(t, err)
	sess := session.New(c, session.NewMemoryStorage())
	h := handlers.NewSessionHandler(sess)

	r := gin.New()
	r.GET("/admin/session", h.Me)
	r.POST("/admin/session/login", h.Login)
	r.POST("/admin/session/logout", h.Logout)
	return r, sess
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionHandler_LoginLogout(t *testing.T) {
	backend := fakeAuthBackend(t)
	defer backend.Close()
	r, sess := sessionRouter(t, backend.URL)

	w := postForm(r, "/admin/session/login", url.Values{"email": {"ops@example.com"}, "password": {"s3cret"}})
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["is_admin"])
	assert.Equal(t, session.RedirectForRole("admin"), body["redirect"])
	assert.True(t, sess.IsAdmin())

	w = postForm(r, "/admin/session/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, sess.IsAuthenticated())
}

func TestSessionHandler_LoginFailure(t *testing.T) {
	backend := fakeAuthBackend(t)
	defer backend.Close()
	r, sess := sessionRouter(t, backend.URL)

	w := postForm(r, "/admin/session/login", url.Values{"email": {"ops@example.com"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized")
	assert.Equal(t, session.StateError, sess.State())

	w = postForm(r, "/admin/session/login", url.Values{"email": {"ops@example.com"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandler_Me(t *testing.T) {
	r, _ := sessionRouter(t, "http://127.0.0.1:1")
	req, _ := http.NewRequest(http.MethodGet, "/admin/session", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"ANONYMOUS"`)
}
