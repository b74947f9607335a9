package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/apierr"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/models"
)

// IEnquiryService defines read access to contact-form enquiries.
type IEnquiryService interface {
	FetchAll(ctx context.Context) ([]models.Enquiry, error)
	CountNew(ctx context.Context) (int, error)
}

type enquiryService struct {
	api Requester
}

func NewEnquiryService(api Requester) IEnquiryService {
	return &enquiryService{api: api}
}

// FetchAll reads GET /api/enquiries. The endpoint answers {success, enquiries};
// an explicit success=false is reported as a server error so callers keep their
// previous snapshot.
func (s *enquiryService) FetchAll(ctx context.Context) ([]models.Enquiry, error) {
	raw, err := s.api.Request(ctx, enquiriesEndpoint, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}

	var status struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &status) == nil && status.Success != nil && !*status.Success {
		msg := status.Message
		if msg == "" {
			msg = "Failed to fetch enquiries"
		}
		return nil, &apierr.APIError{Kind: apierr.KindServer, Message: msg, Status: http.StatusOK}
	}

	enquiries, err := UnwrapList[models.Enquiry](raw, "enquiries")
	if err != nil {
		return nil, fmt.Errorf("failed to decode enquiries: %w", err)
	}
	return enquiries, nil
}

// CountNew returns the number of unread enquiries (the admin badge count).
func (s *enquiryService) CountNew(ctx context.Context) (int, error) {
	enquiries, err := s.FetchAll(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, e := range enquiries {
		if e.Status == models.EnquiryNew {
			count++
		}
	}
	return count, nil
}
