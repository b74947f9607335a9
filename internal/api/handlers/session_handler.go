package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/session"
)

// SessionHandler exposes the operator session.
type SessionHandler struct {
	sess *session.Store
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sess *session.Store) *SessionHandler {
	return &SessionHandler{sess: sess}
}

type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Login handles POST /admin/session/login.
func (h *SessionHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	res, err := h.sess.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": h.sess.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  res.Message,
		"redirect": res.Redirect,
		"user":     h.sess.User(),
		"is_admin": h.sess.IsAdmin(),
	})
}

// Logout handles POST /admin/session/logout.
func (h *SessionHandler) Logout(c *gin.Context) {
	h.sess.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me handles GET /admin/session.
func (h *SessionHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state":            h.sess.State(),
		"is_authenticated": h.sess.IsAuthenticated(),
		"is_admin":         h.sess.IsAdmin(),
		"user":             h.sess.User(),
	})
}
