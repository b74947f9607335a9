package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/services"
)

// UploadHandler forwards agent spreadsheets to the backend.
type UploadHandler struct {
	uploads services.IBulkUploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploads services.IBulkUploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// BulkUpload handles POST /admin/bulk-upload with a multipart "file" field.
func (h *UploadHandler) BulkUpload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file field named \"file\" is required"})
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if err := h.uploads.Validate(fh.Filename, contentType, fh.Size); err != nil {
		respondError(c, err, "Invalid file")
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer f.Close()

	res, err := h.uploads.Upload(c.Request.Context(), fh.Filename, contentType, fh.Size, f)
	if err != nil {
		respondError(c, err, "Bulk upload failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": res.Success, "message": res.Message})
}
