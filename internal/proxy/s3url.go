package proxy

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// S3Location identifies an object parsed from an S3 URL.
type S3Location struct {
	Bucket string
	Region string
	Key    string
}

// VirtualHost is the bucket's virtual-host style hostname.
func (l S3Location) VirtualHost() string {
	return l.Bucket + ".s3." + l.Region + ".amazonaws.com"
}

var (
	// https://bucket.s3.region.amazonaws.com/key and the legacy s3-region form
	virtualHostPattern = regexp.MustCompile(`^https?://([^./]+)\.s3[.-]([^./]+)\.amazonaws\.com/(.+)$`)
	// https://s3.region.amazonaws.com/bucket/key
	regionalPathPattern = regexp.MustCompile(`^https?://s3[.-]([^./]+)\.amazonaws\.com/([^/]+)/(.+)$`)
	// https://s3.amazonaws.com/bucket/key
	globalPathPattern = regexp.MustCompile(`^https?://s3\.amazonaws\.com/([^/]+)/(.+)$`)
)

const defaultRegion = "us-east-1"

// ParseS3URL extracts bucket, region and key from the three S3 URL styles.
// Query strings and fragments are ignored; '+' in the key means space.
func ParseS3URL(raw string) (S3Location, bool) {
	clean := raw
	if i := strings.IndexAny(clean, "?#"); i >= 0 {
		clean = clean[:i]
	}

	var loc S3Location
	var key string
	switch {
	case globalPathPattern.MatchString(clean):
		m := globalPathPattern.FindStringSubmatch(clean)
		loc.Bucket, loc.Region, key = m[1], defaultRegion, m[2]
	case virtualHostPattern.MatchString(clean):
		m := virtualHostPattern.FindStringSubmatch(clean)
		loc.Bucket, loc.Region, key = m[1], m[2], m[3]
	case regionalPathPattern.MatchString(clean):
		m := regionalPathPattern.FindStringSubmatch(clean)
		loc.Region, loc.Bucket, key = m[1], m[2], m[3]
	default:
		return S3Location{}, false
	}
	key = strings.ReplaceAll(key, "+", " ")
	if decoded, err := url.PathUnescape(key); err == nil {
		key = decoded
	}
	loc.Key = key
	return loc, true
}

// DecodeParam undoes one extra layer of percent-encoding, and a second one if
// the value still looks encoded. Undecodable input is returned unchanged.
func DecodeParam(raw string) string {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	if strings.Contains(decoded, "%") {
		if again, err := url.PathUnescape(decoded); err == nil {
			decoded = again
		}
	}
	return decoded
}

// hostAllowed matches host against the allow-list. Entries may use '*'
// wildcards ("*.s3.*.amazonaws.com").
func hostAllowed(host string, allowed []string) bool {
	host = strings.ToLower(host)
	for _, pattern := range allowed {
		if pattern == host {
			return true
		}
		if ok, err := path.Match(pattern, host); err == nil && ok {
			return true
		}
	}
	return false
}
