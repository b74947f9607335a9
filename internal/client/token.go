package client

import (
	"encoding/json"
	"net/http"
	"strings"
)

var bodyTokenKeys = []string{"token", "access_token", "jwt_token"}

var headerTokenKeys = []string{"X-Auth-Token", "X-Access-Token", "Token"}

// ExtractToken finds the session token in a login response. The body is
// checked first, then the Authorization header, then the custom token headers.
func ExtractToken(body json.RawMessage, header http.Header) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, key := range bodyTokenKeys {
			raw, ok := fields[key]
			if !ok {
				continue
			}
			var s string
			if err := json.Unmarshal(raw, &s); err == nil && s != "" {
				return s
			}
		}
	}

	if header == nil {
		return ""
	}
	if authz := header.Get("Authorization"); authz != "" {
		if strings.HasPrefix(authz, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
		}
		return strings.TrimSpace(authz)
	}
	for _, key := range headerTokenKeys {
		if v := header.Get(key); v != "" {
			return v
		}
	}
	return ""
}
