// Package proxy serves remote assets from the same origin: S3-hosted images
// and documents, and raw GitHub content.
package proxy

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/cache"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/logging"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/observability"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/storage"
)

// GitHubRawPrefix is the only origin accepted by the GitHub image endpoint.
const GitHubRawPrefix = "https://raw.githubusercontent.com/"

const (
	defaultFetchTimeout = 30 * time.Second
	defaultMaxBytes     = 50 << 20
	userAgent           = "Mozilla/5.0 (compatible; backoffice-asset-proxy/1.0)"
)

var (
	ErrMissingURL  = errors.New("missing url")
	ErrNotAllowed  = errors.New("url is not on the allow-list")
	ErrInvalidPath = errors.New("invalid file path")
	ErrNoStorage   = errors.New("object storage is not configured")
)

// UpstreamError is a failed fetch from the remote origin.
type UpstreamError struct {
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream returned HTTP %d", e.Status)
	}
	return fmt.Sprintf("upstream fetch failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Source records where a response came from.
type Source string

const (
	SourceS3     Source = "s3"
	SourceDirect Source = "direct"
	SourceCache  Source = "cache"
)

// Result is a fully buffered proxied asset.
type Result struct {
	Status       int
	ContentType  string
	ContentRange string
	Body         []byte
	Source       Source
}

// Options configure a Proxy.
type Options struct {
	Bucket       string
	Region       string
	AllowedHosts []string
	FetchTimeout time.Duration
	MaxDimension int
	MaxBytes     int64
}

// Proxy fetches allow-listed remote assets. S3 objects are read through the
// object store first and fetched directly when that fails.
type Proxy struct {
	store storage.IObjectStore
	blobs cache.BlobCache
	http  *http.Client
	opts  Options
}

// New creates a Proxy. store and blobs may be nil.
func New(store storage.IObjectStore, blobs cache.BlobCache, opts Options) *Proxy {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaultMaxBytes
	}
	return &Proxy{
		store: store,
		blobs: blobs,
		http:  &http.Client{Timeout: opts.FetchTimeout},
		opts:  opts,
	}
}

// Allowed reports whether the URL may be proxied. S3 URLs in any of the
// three styles are accepted when their bucket's virtual host is allowed.
func (p *Proxy) Allowed(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return false
	}
	if hostAllowed(u.Hostname(), p.opts.AllowedHosts) {
		return true
	}
	if loc, ok := ParseS3URL(raw); ok {
		return hostAllowed(loc.VirtualHost(), p.opts.AllowedHosts)
	}
	return false
}

// FetchImage proxies an allow-listed image. rng is the client's Range header.
// A positive width scales JPEG and PNG images down on full responses.
func (p *Proxy) FetchImage(ctx context.Context, rawURL, rng string, width int) (*Result, error) {
	if rawURL == "" {
		return nil, ErrMissingURL
	}
	target := DecodeParam(rawURL)
	if !p.Allowed(target) {
		return nil, fmt.Errorf("%w: %s", ErrNotAllowed, target)
	}

	cacheKey := ""
	if rng == "" && p.blobs != nil {
		cacheKey = blobKey(target, width)
		if blob, ok := p.blobs.Get(ctx, cacheKey); ok {
			return &Result{Status: http.StatusOK, ContentType: blob.ContentType, Body: blob.Data, Source: SourceCache}, nil
		}
	}

	res, err := p.fetch(ctx, target, rng)
	if err != nil {
		return nil, err
	}

	if width > 0 && res.Status == http.StatusOK {
		if scaled, err := resizeImage(res.Body, res.ContentType, width, p.opts.MaxDimension); err == nil {
			res.Body = scaled
		} else {
			logging.Debugf("image proxy: serving original of %s: %v", target, err)
		}
	}

	if cacheKey != "" && res.Status == http.StatusOK {
		p.blobs.Set(ctx, cacheKey, &cache.Blob{ContentType: res.ContentType, Data: res.Body})
	}
	logging.Debugf("image proxy: %s from %s (%s)", target, res.Source, humanize.Bytes(uint64(len(res.Body))))
	return res, nil
}

// FetchGitHub proxies a raw GitHub content URL.
func (p *Proxy) FetchGitHub(ctx context.Context, rawURL string) (*Result, error) {
	if rawURL == "" {
		return nil, ErrMissingURL
	}
	if !strings.HasPrefix(rawURL, GitHubRawPrefix) {
		return nil, fmt.Errorf("%w: only GitHub raw content URLs are allowed", ErrNotAllowed)
	}
	return p.fetchDirect(ctx, rawURL, "")
}

func (p *Proxy) fetch(ctx context.Context, target, rng string) (*Result, error) {
	loc, isS3 := ParseS3URL(target)
	if !isS3 || p.store == nil {
		return p.fetchDirect(ctx, target, rng)
	}

	res, s3Err := p.fetchS3(ctx, loc, rng)
	if s3Err == nil {
		if res.ContentType == "" {
			res.ContentType = contentTypeFromPath(target)
		}
		return res, nil
	}
	logging.Warnf("image proxy: s3 read of %s/%s failed, trying direct fetch: %v", loc.Bucket, loc.Key, s3Err)

	res, err := p.fetchDirect(ctx, target, rng)
	if err != nil {
		return nil, fmt.Errorf("s3: %v; direct: %w", s3Err, err)
	}
	return res, nil
}

func (p *Proxy) fetchS3(ctx context.Context, loc S3Location, rng string) (*Result, error) {
	obj, err := p.store.GetObject(ctx, loc.Bucket, loc.Key, rng)
	if err != nil {
		return nil, err
	}
	defer obj.Body.Close()

	body, err := p.readAll(obj.Body)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("empty object %s/%s", loc.Bucket, loc.Key)
	}

	status := http.StatusOK
	if rng != "" && obj.ContentRange != "" {
		status = http.StatusPartialContent
	}
	return &Result{
		Status:       status,
		ContentType:  obj.ContentType,
		ContentRange: obj.ContentRange,
		Body:         body,
		Source:       SourceS3,
	}, nil
}

func (p *Proxy) fetchDirect(ctx context.Context, target, rng string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "image/*")
	req.Header.Set("User-Agent", userAgent)
	if rng != "" {
		req.Header.Set("Range", rng)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Status: resp.StatusCode}
	}

	body, err := p.readAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = contentTypeFromPath(target)
	}
	contentRange := resp.Header.Get("Content-Range")
	status := http.StatusOK
	if resp.StatusCode == http.StatusPartialContent || (rng != "" && contentRange != "") {
		status = http.StatusPartialContent
	}
	return &Result{
		Status:       status,
		ContentType:  contentType,
		ContentRange: contentRange,
		Body:         body,
		Source:       SourceDirect,
	}, nil
}

func (p *Proxy) readAll(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, p.opts.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(body)) > p.opts.MaxBytes {
		return nil, fmt.Errorf("asset exceeds %s", humanize.Bytes(uint64(p.opts.MaxBytes)))
	}
	observability.ProxyBytes.Add(float64(len(body)))
	return body, nil
}

func blobKey(target string, width int) string {
	sum := sha256.Sum256([]byte(target + "|w=" + strconv.Itoa(width)))
	return hex.EncodeToString(sum[:])
}

var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
}

// contentTypeFromPath guesses a media type from the URL's extension,
// defaulting to image/jpeg.
func contentTypeFromPath(raw string) string {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	if ct, ok := extensionTypes[strings.ToLower(path.Ext(raw))]; ok {
		return ct
	}
	return "image/jpeg"
}
