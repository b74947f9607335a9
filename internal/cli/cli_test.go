package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/auth"
)

// fakeBackend serves the marketplace endpoints the CLI touches. Admin
// endpoints demand the bearer token handed out at login.
type fakeBackend struct {
	t     *testing.T
	token string

	mu       sync.Mutex
	approval map[string]string
	puts     []string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	token, err := auth.GenerateJWT("u1", "admin", "test-secret", time.Hour)
	require.NoError(t, err)
	fb := &fakeBackend{t: t, token: token, approval: map[string]string{"a1": "no", "a2": "yes"}}
	srv := httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(srv.Close)
	return fb, srv
}

func (fb *fakeBackend) agents() []map[string]string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return []map[string]string{
		{"agent_id": "a1", "agent_name": "Alpha", "asset_type": "Agent", "isv_id": "isv_1", "admin_approved": fb.approval["a1"],
			"features": "Summarize calls;1. Connect CRM", "tags": "sales, crm", "demo_preview": "https://agentsstore.s3.us-east-1.amazonaws.com/a1.png,PNG"},
		{"agent_id": "a2", "agent_name": "Beta", "asset_type": "Solution", "isv_id": "isv_2", "admin_approved": fb.approval["a2"]},
	}
}

func (fb *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	write := func(status int, v any) {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}
	admin := strings.HasPrefix(r.URL.Path, "/api/admin/")
	if admin && r.Header.Get("Authorization") != "Bearer "+fb.token {
		write(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		return
	}

	switch r.Method + " " + r.URL.Path {
	case "POST /api/auth/login":
		require.NoError(fb.t, r.ParseForm())
		if r.PostForm.Get("password") != "s3cret" {
			write(http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		write(http.StatusOK, map[string]any{
			"success": true,
			"message": "Welcome back",
			"token":   fb.token,
			"user":    map[string]string{"user_id": "u1", "email": r.PostForm.Get("email"), "name": "Ops", "role": "admin"},
		})
	case "GET /api/admin/agents":
		write(http.StatusOK, map[string]any{"agents": fb.agents()})
	case "PUT /api/admin/agents/a1":
		require.NoError(fb.t, r.ParseForm())
		fb.mu.Lock()
		fb.puts = append(fb.puts, r.PostForm.Encode())
		if v := r.PostForm.Get("admin_approved"); v != "" {
			fb.approval["a1"] = v
		}
		fb.mu.Unlock()
		write(http.StatusOK, map[string]any{"success": true})
	case "GET /api/agents":
		write(http.StatusOK, map[string]any{"agents": fb.agents()})
	case "GET /api/agents/a1":
		write(http.StatusOK, map[string]any{"agent": fb.agents()[0], "isv_info": map[string]string{"isv_id": "isv_1", "isv_name": "Acme", "isv_email_no": "ops@acme.test"}})
	case "GET /api/agents/a1/bundled":
		write(http.StatusOK, map[string]any{"success": false})
	case "GET /api/agents/a1/similar":
		write(http.StatusOK, map[string]any{"similar_agents": []map[string]string{{"agent_id": "a2", "agent_name": "Beta"}}})
	default:
		write(http.StatusNotFound, map[string]string{"message": "not found"})
	}
}

type cliEnv struct {
	backend     string
	sessionFile string
}

func newCLIEnv(t *testing.T, backend string) cliEnv {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("SESSION_STORE", "file")
	t.Setenv(PasswordEnv, "")
	return cliEnv{backend: backend, sessionFile: filepath.Join(t.TempDir(), "session.json")}
}

func (e cliEnv) run(args ...string) (string, string, int) {
	var stdout, stderr bytes.Buffer
	base := []string{"--backend", e.backend, "--session-file", e.sessionFile}
	code := Execute(append(base, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestLoginPersistsSessionAcrossInvocations(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newCLIEnv(t, srv.URL)

	out, errOut, code := env.run("login", "--email", "ops@example.com", "--password", "s3cret", "-o", "json")
	require.Equal(t, 0, code, errOut)
	var login map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &login))
	assert.Equal(t, true, login["success"])
	assert.Equal(t, "/admin", login["redirect"])

	out, _, code = env.run("whoami", "-o", "json")
	require.Equal(t, 0, code)
	var who map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &who))
	assert.Equal(t, "AUTHENTICATED", who["state"])
	assert.Equal(t, true, who["is_admin"])

	_, _, code = env.run("logout")
	require.Equal(t, 0, code)
	out, _, _ = env.run("whoami", "-o", "json")
	require.NoError(t, json.Unmarshal([]byte(out), &who))
	assert.Equal(t, false, who["is_authenticated"])
}

func TestLogin_BadPassword(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newCLIEnv(t, srv.URL)

	_, errOut, code := env.run("login", "--email", "ops@example.com", "--password", "nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Unauthorized")
}

func TestListAndApprove(t *testing.T) {
	fb, srv := newFakeBackend(t)
	env := newCLIEnv(t, srv.URL)
	_, errOut, code := env.run("login", "--email", "ops@example.com", "--password", "s3cret", "-o", "json")
	require.Equal(t, 0, code, errOut)

	out, errOut, code := env.run("list", "agents", "--status", "pending", "-o", "json")
	require.Equal(t, 0, code, errOut)
	var page struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "a1", page.Items[0]["agent_id"])

	out, errOut, code = env.run("approve", "agents", "a1", "-o", "json")
	require.Equal(t, 0, code, errOut)
	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, true, res["success"])
	assert.Equal(t, "Alpha has been approved successfully.", res["message"])
	assert.NotEmpty(t, res["mutation_id"])

	fb.mu.Lock()
	require.Len(t, fb.puts, 1)
	assert.Contains(t, fb.puts[0], "agent_name=Alpha")
	assert.Contains(t, fb.puts[0], "admin_approved=yes")
	fb.mu.Unlock()

	out, _, code = env.run("list", "agents", "--status", "pending", "-o", "json")
	require.Equal(t, 0, code)
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 0, page.Total)
}

func TestEdit_SendsFieldsWithIdentity(t *testing.T) {
	fb, srv := newFakeBackend(t)
	env := newCLIEnv(t, srv.URL)
	_, _, code := env.run("login", "--email", "ops@example.com", "--password", "s3cret", "-o", "json")
	require.Equal(t, 0, code)

	_, errOut, code := env.run("edit", "agents", "a1")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "nothing to change")

	_, errOut, code = env.run("edit", "agents", "a1", "--set", "asset_type=Solution", "-o", "json")
	require.Equal(t, 0, code, errOut)
	fb.mu.Lock()
	defer fb.mu.Unlock()
	require.Len(t, fb.puts, 1)
	assert.Contains(t, fb.puts[0], "asset_type=Solution")
	assert.Contains(t, fb.puts[0], "agent_name=Alpha")
}

func TestAdminCommandsRequireLogin(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newCLIEnv(t, srv.URL)

	_, errOut, code := env.run("list", "agents")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not logged in")

	_, errOut, code = env.run("approve", "enquiries", "e1")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "enquiries cannot be modified")

	_, errOut, code = env.run("list", "listings")
	assert.Equal(t, 1, code)
	assert.NotEmpty(t, errOut)
}

func TestAgentDetail(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newCLIEnv(t, srv.URL)

	_, _, code := env.run("agent", "a1", "-o", "json")
	assert.Equal(t, 1, code, "a1 is not approved yet")

	// approve out of band so the public gate opens
	fb2, srv2 := newFakeBackend(t)
	fb2.approval["a1"] = "yes"
	env = newCLIEnv(t, srv2.URL)

	out, errOut, code := env.run("agent", "a1", "-o", "json")
	require.Equal(t, 0, code, errOut)
	var view map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "similar", view["related_source"])
	assert.Equal(t, "a2", view["next"])
	assert.Equal(t, "a2", view["prev"])
	assert.Equal(t, []any{"sales", "crm"}, view["tags"])
	features := view["features"].(map[string]any)
	assert.Equal(t, []any{"Summarize calls"}, features["scope"])
	assert.Equal(t, []any{"Connect CRM"}, features["instructions"])

	out, _, code = env.run("agent", "a1", "-o", "yaml")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "related_source: similar")
}

func TestInvalidFormat(t *testing.T) {
	_, srv := newFakeBackend(t)
	env := newCLIEnv(t, srv.URL)

	_, errOut, code := env.run("whoami", "-o", "xml")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid --format")
}

func TestRootCommand_Version(t *testing.T) {
	var out bytes.Buffer
	code := Execute([]string{"--version"}, &out, &bytes.Buffer{})
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "dev")
}
