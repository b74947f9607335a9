package proxy

import (
	"context"
	"net/url"
	"strings"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/storage"
)

// FileTarget is a resolved file-preview path: either a key in the configured
// bucket or an external URL to redirect to.
type FileTarget struct {
	Key         string
	ExternalURL string
}

// ResolveFile turns a stored path or URL into a bucket key. URLs pointing at
// the configured bucket (virtual-host or regional path style) yield their
// key; any other URL is external. Keys containing "." or ".." segments are
// rejected.
func (p *Proxy) ResolveFile(target string) (FileTarget, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return FileTarget{}, ErrMissingURL
	}

	var ft FileTarget
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		u, err := url.Parse(target)
		if err != nil {
			ft.Key = target
		} else {
			ft = p.keyFromURL(u, target)
		}
	} else {
		ft.Key = strings.TrimLeft(target, "/")
	}

	if ft.ExternalURL != "" {
		return ft, nil
	}
	if ft.Key == "" || isPathTraversal(ft.Key) {
		return FileTarget{}, ErrInvalidPath
	}
	return ft, nil
}

func (p *Proxy) keyFromURL(u *url.URL, raw string) FileTarget {
	host := strings.ToLower(u.Hostname())
	bucketHost := strings.ToLower(p.opts.Bucket + ".s3." + p.opts.Region + ".amazonaws.com")
	regionalHost := strings.ToLower("s3." + p.opts.Region + ".amazonaws.com")

	switch host {
	case bucketHost:
		return FileTarget{Key: strings.TrimLeft(u.Path, "/")}
	case regionalHost:
		parts := strings.SplitN(strings.TrimLeft(u.Path, "/"), "/", 2)
		if len(parts) == 2 && parts[0] == p.opts.Bucket && parts[1] != "" {
			return FileTarget{Key: parts[1]}
		}
	}
	return FileTarget{ExternalURL: raw}
}

func isPathTraversal(key string) bool {
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." {
			return true
		}
	}
	return false
}

// OpenFile streams a key from the configured bucket. The caller closes Body.
func (p *Proxy) OpenFile(ctx context.Context, key string) (*storage.Object, error) {
	if p.store == nil {
		return nil, ErrNoStorage
	}
	obj, err := p.store.GetObject(ctx, "", key, "")
	if err != nil {
		return nil, err
	}
	if obj.ContentType == "" {
		obj.ContentType = "application/octet-stream"
	}
	return obj, nil
}

// ContentDisposition renders inline for images, PDFs and text unless a
// download is forced, attachment otherwise.
func ContentDisposition(key string, forceDownload bool, contentType string) string {
	name := key
	if i := strings.LastIndex(key, "/"); i >= 0 {
		name = key[i+1:]
	}
	name = strings.NewReplacer(`"`, "", "\r", "", "\n", "").Replace(name)
	if name == "" {
		name = "file"
	}

	disposition := "attachment"
	if !forceDownload && (strings.HasPrefix(contentType, "image/") || contentType == "application/pdf" || strings.HasPrefix(contentType, "text/")) {
		disposition = "inline"
	}
	encoded := strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
	return disposition + `; filename="` + encoded + `"; filename*=UTF-8''` + encoded
}
