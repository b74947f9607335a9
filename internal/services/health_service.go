package services

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/apierr"
)

// HealthStatus is the backend's health payload.
type HealthStatus struct {
	Status string `json:"status"`
}

// IHealthService checks backend reachability.
type IHealthService interface {
	Check(ctx context.Context) (*HealthStatus, error)
}

type healthService struct {
	api Requester
}

func NewHealthService(api Requester) IHealthService {
	return &healthService{api: api}
}

func (s *healthService) Check(ctx context.Context) (*HealthStatus, error) {
	raw, err := s.api.Request(ctx, healthEndpoint, http.MethodGet, nil)
	if err != nil {
		if apierr.IsKind(err, apierr.KindNetwork) {
			return nil, &apierr.APIError{Kind: apierr.KindNetwork, Message: "Backend service is unavailable", Code: apierr.CodeNetwork, Err: err}
		}
		return nil, err
	}
	status := &HealthStatus{}
	if err := json.Unmarshal(raw, status); err != nil || status.Status == "" {
		status.Status = "ok"
	}
	return status, nil
}
