package content

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/models"
)

// ImageProxyPath is the same-origin image proxy endpoint.
const ImageProxyPath = "/api/image-proxy"

// AssetResolver builds browser-facing URLs for stored assets.
type AssetResolver struct {
	Bucket string
	Region string
}

// BucketURL returns the virtual-host style origin of the bucket.
func (r AssetResolver) BucketURL() string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", r.Bucket, r.Region)
}

// ImageURL normalizes an image reference. S3 URLs and bare keys are routed
// through the image proxy; other absolute URLs are returned as is.
func (r AssetResolver) ImageURL(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "http://") {
		if strings.Contains(ref, ".s3.") || strings.Contains(ref, "amazonaws.com") {
			return ProxyURL(ref)
		}
		return ref
	}
	return ProxyURL(r.BucketURL() + "/" + strings.TrimPrefix(ref, "/"))
}

// ProxyURL wraps an absolute URL in the image proxy endpoint.
func ProxyURL(raw string) string {
	return ImageProxyPath + "?url=" + url.QueryEscape(raw)
}

// PreviewURLs extracts the image URLs from a demo_preview field, which mixes
// URLs with format markers ("url1,JPG,url2,PNG").
func PreviewURLs(demoPreview string) []string {
	urls := []string{}
	for _, item := range strings.Split(demoPreview, ",") {
		item = strings.TrimSpace(item)
		if strings.HasPrefix(item, "http://") || strings.HasPrefix(item, "https://") {
			urls = append(urls, item)
		}
	}
	return urls
}

// FirstPreview returns the first preview URL, or "".
func FirstPreview(demoPreview string) string {
	if urls := PreviewURLs(demoPreview); len(urls) > 0 {
		return urls[0]
	}
	return ""
}

// SortByOrdering orders agents by agents_ordering ascending; agents without
// a position go last. The sort is stable and returns a fresh slice.
func SortByOrdering(agents []models.Agent) []models.Agent {
	out := make([]models.Agent, len(agents))
	copy(out, agents)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Ordering, out[j].Ordering
		if a.Set != b.Set {
			return a.Set
		}
		return a.Set && a.Value < b.Value
	})
	return out
}
