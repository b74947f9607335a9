// Package session holds the authenticated identity and token of the current
// operator and persists it between runs.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/apierr"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/auth"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/client"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/logging"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/models"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/observability"
)

const (
	loginEndpoint  = "/api/auth/login"
	signupEndpoint = "/api/auth/signup"
)

// State is the lifecycle state of a Store.
type State string

const (
	StateAnonymous      State = "ANONYMOUS"
	StateAuthenticating State = "AUTHENTICATING"
	StateAuthenticated  State = "AUTHENTICATED"
	StateError          State = "ERROR"
)

// Backend is the subset of the HTTP client the session needs.
type Backend interface {
	Post(ctx context.Context, endpoint string, payload any) (*client.Response, error)
}

// Result is what Login and Signup hand back to the caller.
type Result struct {
	Success  bool   `json:"success"`
	Redirect string `json:"redirect,omitempty"`
	Message  string `json:"message,omitempty"`
}

// LoginHook observes raw login responses, e.g. for audit logging.
type LoginHook func(ctx context.Context, body json.RawMessage)

// Store is the session context. It is created once and passed to whoever
// needs it; there is no package-level instance.
type Store struct {
	backend Backend
	storage Storage
	now     func() time.Time
	onLogin LoginHook

	mu       sync.RWMutex
	state    State
	user     *models.User
	token    string
	lastErr  string
	redirect string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLoginHook registers a hook called with every successful login body.
func WithLoginHook(h LoginHook) Option {
	return func(s *Store) { s.onLogin = h }
}

// New creates an anonymous Store. Call Init to rehydrate from storage.
func New(backend Backend, storage Storage, opts ...Option) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	s := &Store{
		backend: backend,
		storage: storage,
		now:     time.Now,
		state:   StateAnonymous,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init restores the persisted snapshot. An expired or malformed persisted
// token is dropped and the session comes up anonymous.
func (s *Store) Init(ctx context.Context) error {
	snap, err := s.storage.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if snap == nil || snap.User == nil {
		s.resetLocked()
		return nil
	}
	if snap.Token != "" && !s.tokenUsable(snap.Token) {
		logging.Warnf("persisted session token expired, clearing session")
		s.resetLocked()
		return s.storage.Clear(ctx)
	}

	s.user = snap.User
	s.token = snap.Token
	s.setStateLocked(StateAuthenticated)
	return nil
}

// Login authenticates against the backend.
func (s *Store) Login(ctx context.Context, email, password string) (Result, error) {
	s.mu.Lock()
	s.lastErr = ""
	s.redirect = ""
	s.setStateLocked(StateAuthenticating)
	s.mu.Unlock()

	resp, err := s.backend.Post(ctx, loginEndpoint, client.Form(map[string]string{
		"email":    email,
		"password": password,
	}))
	if err != nil {
		return s.fail(apierr.Message(err, "An unexpected error occurred"), err)
	}

	var body models.LoginResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return s.fail("Login failed", fmt.Errorf("failed to decode login response: %w", err))
	}
	if !body.Success || body.User == nil {
		msg := body.Message
		if msg == "" {
			msg = "Login failed"
		}
		return s.fail(msg, apierr.Auth("", msg))
	}

	token := client.ExtractToken(resp.Body, resp.Header)
	if token != "" && !s.tokenUsable(token) {
		logging.Warnf("login returned an unusable token, falling back to cookie session")
		token = ""
	}
	if token == "" {
		logging.Infof("no JWT token found in login response (using session-based auth)")
	}
	if s.onLogin != nil {
		s.onLogin(ctx, resp.Body)
	}

	redirect := RedirectForRole(body.User.Role)

	s.mu.Lock()
	s.user = body.User
	s.token = token
	s.redirect = redirect
	s.setStateLocked(StateAuthenticated)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.storage.Save(ctx, &snap); err != nil {
		logging.Errorf("Error persisting session: %v", err)
	}
	return Result{Success: true, Redirect: redirect, Message: body.Message}, nil
}

// Signup registers a new account. It never authenticates; the redirect is
// chosen from the requested role.
func (s *Store) Signup(ctx context.Context, req models.SignupRequest) (Result, error) {
	s.mu.Lock()
	prev := s.state
	s.lastErr = ""
	s.redirect = ""
	s.setStateLocked(StateAuthenticating)
	s.mu.Unlock()

	resp, err := s.backend.Post(ctx, signupEndpoint, client.Form(map[string]string{
		"name":     req.Name,
		"email":    req.Email,
		"password": req.Password,
		"role":     string(req.Role),
		"company":  req.Company,
		"mobile":   req.Mobile,
	}))
	if err != nil {
		return s.fail(apierr.Message(err, "An unexpected error occurred"), err)
	}

	var body models.SignupResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return s.fail("Signup failed", fmt.Errorf("failed to decode signup response: %w", err))
	}
	if !body.Success {
		return s.fail("Signup failed", apierr.Validation("", "Signup failed"))
	}

	redirect := SignupRedirectForRole(req.Role)

	s.mu.Lock()
	s.redirect = redirect
	if prev == StateAuthenticated && s.user != nil {
		s.setStateLocked(StateAuthenticated)
	} else {
		s.setStateLocked(StateAnonymous)
	}
	s.mu.Unlock()

	return Result{Success: true, Redirect: redirect, Message: body.Message}, nil
}

// Logout drops user and token in memory and in storage.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
	if err := s.storage.Clear(ctx); err != nil {
		logging.Errorf("Error clearing persisted session: %v", err)
	}
}

// Token returns the bearer token for outgoing requests. An expired or
// malformed token clears the session first and is reported as an auth error.
func (s *Store) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		return "", nil
	}
	if !auth.HasValidShape(token) {
		logging.Warnf("session token malformed, clearing auth state")
		s.Logout(ctx)
		return "", apierr.Auth(apierr.CodeTokenMalformed, "Session token is malformed. Please log in again.")
	}
	if auth.IsExpired(token, s.now()) {
		logging.Warnf("Token expired, clearing auth state")
		s.Logout(ctx)
		return "", apierr.Auth(apierr.CodeTokenExpired, "Session expired. Please log in again.")
	}
	return token, nil
}

// ClearError drops the last error message and leaves ERROR for ANONYMOUS.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
	if s.state == StateError {
		s.setStateLocked(StateAnonymous)
	}
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns a copy of the current user, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// IsAdmin reports whether the current user has the admin role.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Role == models.RoleAdmin
}

func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) Redirect() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.redirect
}

// Snapshot returns the persistable view of the session.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) fail(msg string, err error) (Result, error) {
	s.mu.Lock()
	s.lastErr = msg
	s.setStateLocked(StateError)
	s.mu.Unlock()
	return Result{Success: false, Message: msg}, err
}

func (s *Store) tokenUsable(token string) bool {
	return auth.HasValidShape(token) && !auth.IsExpired(token, s.now())
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{User: s.user, Token: s.token, IsAuthenticated: s.user != nil}
}

func (s *Store) resetLocked() {
	s.user = nil
	s.token = ""
	s.lastErr = ""
	s.redirect = ""
	s.setStateLocked(StateAnonymous)
}

func (s *Store) setStateLocked(next State) {
	if s.state != next {
		observability.SessionTransitions.WithLabelValues(string(next)).Inc()
	}
	s.state = next
}

// RedirectForRole picks the landing page after login.
func RedirectForRole(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return "/admin"
	case models.RoleISV, models.RoleReseller, models.RoleClient:
		return "/agents"
	}
	return "/"
}

// SignupRedirectForRole picks the landing page after signup.
func SignupRedirectForRole(role models.Role) string {
	if role == models.RoleISV {
		return "/dashboard"
	}
	return "/"
}
