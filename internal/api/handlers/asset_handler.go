package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/logging"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/observability"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/proxy"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/storage"
)

const (
	publicCacheControl  = "public, max-age=31536000, immutable"
	privateCacheControl = "private, max-age=0, must-revalidate"
)

// AssetHandler serves proxied images and stored documents.
type AssetHandler struct {
	proxy *proxy.Proxy
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(p *proxy.Proxy) *AssetHandler {
	return &AssetHandler{proxy: p}
}

func setAssetCORS(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
}

// ImageProxy handles GET /api/image-proxy?url=&w=.
func (h *AssetHandler) ImageProxy(c *gin.Context) {
	width, _ := strconv.Atoi(c.Query("w"))

	res, err := h.proxy.FetchImage(c.Request.Context(), c.Query("url"), c.GetHeader("Range"), width)
	if err != nil {
		switch {
		case errors.Is(err, proxy.ErrMissingURL):
			observability.ProxyRequests.WithLabelValues("image", "rejected").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image URL parameter"})
		case errors.Is(err, proxy.ErrNotAllowed):
			observability.ProxyRequests.WithLabelValues("image", "rejected").Inc()
			logging.Warnf("image proxy: rejected %q", c.Query("url"))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image URL - host is not allowed"})
		default:
			observability.ProxyRequests.WithLabelValues("image", "error").Inc()
			logging.Errorf("image proxy: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch image", "message": err.Error()})
		}
		return
	}

	observability.ProxyRequests.WithLabelValues("image", string(res.Source)).Inc()
	setAssetCORS(c)
	c.Header("Cache-Control", publicCacheControl)
	c.Header("Accept-Ranges", "bytes")
	if res.ContentRange != "" {
		c.Header("Content-Range", res.ContentRange)
	}
	c.Data(res.Status, res.ContentType, res.Body)
}

// ImageProxyOptions handles the CORS preflight for the image proxy.
func (h *AssetHandler) ImageProxyOptions(c *gin.Context) {
	setAssetCORS(c)
	c.Status(http.StatusOK)
}

// GitHubImage handles GET /api/github-image?url=.
func (h *AssetHandler) GitHubImage(c *gin.Context) {
	res, err := h.proxy.FetchGitHub(c.Request.Context(), c.Query("url"))
	if err != nil {
		var upErr *proxy.UpstreamError
		switch {
		case errors.Is(err, proxy.ErrMissingURL):
			observability.ProxyRequests.WithLabelValues("github", "rejected").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image URL is required"})
		case errors.Is(err, proxy.ErrNotAllowed):
			observability.ProxyRequests.WithLabelValues("github", "rejected").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only GitHub raw content URLs are allowed"})
		case errors.As(err, &upErr) && upErr.Status != 0:
			observability.ProxyRequests.WithLabelValues("github", "error").Inc()
			c.JSON(upErr.Status, gin.H{"error": "Failed to fetch image"})
		default:
			observability.ProxyRequests.WithLabelValues("github", "error").Inc()
			logging.Errorf("github image: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	observability.ProxyRequests.WithLabelValues("github", string(res.Source)).Inc()
	c.Header("Cache-Control", publicCacheControl)
	c.Header("Access-Control-Allow-Origin", "*")
	c.Data(http.StatusOK, res.ContentType, res.Body)
}

// FilePreview handles GET /api/file-preview?path=&download=1. Files in the
// configured bucket are streamed; other URLs are redirected to.
func (h *AssetHandler) FilePreview(c *gin.Context) {
	target, err := h.proxy.ResolveFile(c.Query("path"))
	if err != nil {
		observability.ProxyRequests.WithLabelValues("file", "rejected").Inc()
		if errors.Is(err, proxy.ErrMissingURL) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File path is required"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file path"})
		return
	}
	if target.ExternalURL != "" {
		observability.ProxyRequests.WithLabelValues("file", "redirect").Inc()
		c.Redirect(http.StatusTemporaryRedirect, target.ExternalURL)
		return
	}

	obj, err := h.proxy.OpenFile(c.Request.Context(), target.Key)
	if err != nil {
		observability.ProxyRequests.WithLabelValues("file", "error").Inc()
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		logging.Errorf("file preview %s: %v", target.Key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve file"})
		return
	}
	defer obj.Body.Close()

	observability.ProxyRequests.WithLabelValues("file", string(proxy.SourceS3)).Inc()
	c.Header("Content-Disposition", proxy.ContentDisposition(target.Key, c.Query("download") == "1", obj.ContentType))
	c.Header("Cache-Control", privateCacheControl)
	if obj.ContentLength > 0 {
		c.Header("Content-Length", strconv.FormatInt(obj.ContentLength, 10))
	}
	c.Header("Content-Type", obj.ContentType)
	c.Status(http.StatusOK)
	n, err := io.Copy(c.Writer, obj.Body)
	if err != nil {
		logging.Warnf("file preview %s: stream interrupted after %d bytes: %v", target.Key, n, err)
	}
	observability.ProxyBytes.Add(float64(n))
}
