package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/apierr"
)

// statusForError maps an adapter error onto the status this API answers with.
// Backend auth failures keep their status; server and network failures
// become 502 since the fault is upstream.
func statusForError(err error) int {
	apiErr, ok := apierr.As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch apiErr.Kind {
	case apierr.KindValidation:
		return http.StatusBadRequest
	case apierr.KindNotFound:
		return http.StatusNotFound
	case apierr.KindAuth:
		if apiErr.Status == http.StatusForbidden {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case apierr.KindServer, apierr.KindNetwork:
		return http.StatusBadGateway
	}
	if apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Status
	}
	return http.StatusBadGateway
}

func respondError(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)
	body := gin.H{"error": apierr.Message(err, fallback)}
	if apiErr, ok := apierr.As(err); ok {
		body["kind"] = apiErr.Kind
		if apiErr.Code != "" {
			body["code"] = apiErr.Code
		}
	}
	c.JSON(statusForError(err), body)
}
