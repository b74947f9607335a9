package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/admin"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/apierr"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/filter"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/models"
)

// AdminHandler serves the back-office collections and mutations.
type AdminHandler struct {
	dash    *admin.Dashboard
	perPage int
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(dash *admin.Dashboard, perPage int) *AdminHandler {
	if perPage < 1 {
		perPage = filter.DefaultPerPage
	}
	return &AdminHandler{dash: dash, perPage: perPage}
}

// List handles GET /admin/:resource. The collection is refetched, filtered
// and paginated. When the refetch fails the answer is 502 with retry set.
func (h *AdminHandler) List(c *gin.Context) {
	resource, err := models.ParseResource(c.Param("resource"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	search := c.Query("q")

	status, err := filter.ParseStatus(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Refresh, not Activate: concurrent requests share the dashboard and must
	// not detach each other's fetches.
	if err := h.dash.Refresh(c.Request.Context(), resource); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": apierr.Message(err, "Failed to fetch "+string(resource)),
			"retry": true,
		})
		return
	}

	switch resource {
	case models.ResourceAgents:
		all := h.dash.Agents.Items()
		items := filter.Agents(all, filter.AgentParams{Search: search, Status: status, AssetType: c.Query("asset_type")})
		c.JSON(http.StatusOK, gin.H{
			"resource":    resource,
			"page":        filter.Paginate(items, page, h.perPage),
			"asset_types": filter.AssetTypes(all),
		})
	case models.ResourceISVs:
		items := filter.ISVs(h.dash.ISVs.Items(), filter.ISVParams{Search: search, Status: status})
		c.JSON(http.StatusOK, gin.H{"resource": resource, "page": filter.Paginate(items, page, h.perPage)})
	case models.ResourceResellers:
		items := filter.Resellers(h.dash.Resellers.Items(), filter.ResellerParams{Search: search, Status: status})
		c.JSON(http.StatusOK, gin.H{"resource": resource, "page": filter.Paginate(items, page, h.perPage)})
	case models.ResourceEnquiries:
		enquiryStatus, err := filter.ParseEnquiryStatus(c.Query("enquiry_status"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		userType, err := filter.ParseUserType(c.Query("user_type"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		items := filter.Enquiries(h.dash.Enquiries.Items(), filter.EnquiryParams{Search: search, Status: enquiryStatus, UserType: userType})
		c.JSON(http.StatusOK, gin.H{"resource": resource, "page": filter.Paginate(items, page, h.perPage)})
	}
}

// Stats handles GET /admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	body := gin.H{}
	if err := h.dash.LoadAll(c.Request.Context()); err != nil {
		_ = c.Error(err)
		body["error"] = apierr.Message(err, "Failed to fetch some collections")
		body["retry"] = true
	}
	body["stats"] = h.dash.Stats()
	c.JSON(http.StatusOK, body)
}

type rejectRequest struct {
	Reason string `json:"reason" form:"reason"`
}

// Approve handles POST /admin/:resource/:id/approve.
func (h *AdminHandler) Approve(c *gin.Context) {
	resource, ok := h.mutableResource(c)
	if !ok {
		return
	}
	m, err := h.dash.Approve(c.Request.Context(), resource, c.Param("id"))
	h.respondMutation(c, m, err, "Failed to approve")
}

// Reject handles POST /admin/:resource/:id/reject. The optional reason is
// recorded with the notification only.
func (h *AdminHandler) Reject(c *gin.Context) {
	resource, ok := h.mutableResource(c)
	if !ok {
		return
	}
	var req rejectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}
	m, err := h.dash.Reject(c.Request.Context(), resource, c.Param("id"), admin.WithReason(req.Reason))
	h.respondMutation(c, m, err, "Failed to reject")
}

// Update handles PUT /admin/:resource/:id with a JSON object of string fields.
func (h *AdminHandler) Update(c *gin.Context) {
	resource, ok := h.mutableResource(c)
	if !ok {
		return
	}
	var changes map[string]string
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: expected an object of string fields"})
		return
	}
	m, err := h.dash.Edit(c.Request.Context(), resource, c.Param("id"), changes)
	h.respondMutation(c, m, err, "Failed to update")
}

func (h *AdminHandler) mutableResource(c *gin.Context) (models.Resource, bool) {
	resource, err := models.ParseResource(c.Param("resource"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return "", false
	}
	if resource == models.ResourceEnquiries {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "enquiries cannot be modified"})
		return "", false
	}
	return resource, true
}

func (h *AdminHandler) respondMutation(c *gin.Context, m *admin.Mutation, err error, fallback string) {
	if err != nil {
		respondError(c, err, fallback)
		return
	}
	body := gin.H{
		"success":     true,
		"mutation_id": m.ID,
		"message":     m.Message(),
	}
	if refreshErr := m.RefreshErr(); refreshErr != nil {
		body["refresh_error"] = apierr.Message(refreshErr, "Failed to refresh")
		body["retry"] = true
	}
	c.JSON(http.StatusOK, body)
}
