package services

import (
	"context"
	"encoding/json"
	"net/url"
)

// Requester is the part of the HTTP client adapter the services depend on.
// *client.Client satisfies it.
type Requester interface {
	Request(ctx context.Context, endpoint, method string, payload any) (json.RawMessage, error)
}

const (
	adminAgentsEndpoint    = "/api/admin/agents"
	adminISVsEndpoint      = "/api/admin/isvs"
	adminResellersEndpoint = "/api/admin/resellers"
	bulkUploadEndpoint     = "/api/admin/bulk-upload"
	enquiriesEndpoint      = "/api/enquiries"
	publicAgentsEndpoint   = "/api/agents"
	healthEndpoint         = "/api/health"
)

func itemEndpoint(collection, id string) string {
	return collection + "/" + url.PathEscape(id)
}

// withIdentity merges changes over the record's identifying fields.
func withIdentity(changes, identity map[string]string) map[string]string {
	fields := make(map[string]string, len(changes)+len(identity))
	for k, v := range identity {
		fields[k] = v
	}
	for k, v := range changes {
		fields[k] = v
	}
	return fields
}
