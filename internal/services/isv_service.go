package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/client"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/models"
)

// IISVService defines admin operations on ISVs.
type IISVService interface {
	FetchAll(ctx context.Context) ([]models.ISV, error)
	Update(ctx context.Context, isv models.ISV, changes map[string]string) error
	SetApproval(ctx context.Context, isv models.ISV, approval models.Approval) error
}

type isvService struct {
	api Requester
}

func NewISVService(api Requester) IISVService {
	return &isvService{api: api}
}

func (s *isvService) FetchAll(ctx context.Context) ([]models.ISV, error) {
	raw, err := s.api.Request(ctx, adminISVsEndpoint, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	isvs, err := UnwrapList[models.ISV](raw, "isvs")
	if err != nil {
		return nil, fmt.Errorf("failed to decode isvs: %w", err)
	}
	return isvs, nil
}

// Update re-sends name and email with every change; the backend treats the
// update as a full logical record.
func (s *isvService) Update(ctx context.Context, isv models.ISV, changes map[string]string) error {
	if isv.ISVID == "" {
		return fmt.Errorf("isv id is required")
	}
	fields := withIdentity(changes, map[string]string{
		"isv_name":  isv.ISVName,
		"isv_email": isv.ISVEmail,
	})
	_, err := s.api.Request(ctx, itemEndpoint(adminISVsEndpoint, isv.ISVID), http.MethodPut, client.Form(fields))
	return err
}

func (s *isvService) SetApproval(ctx context.Context, isv models.ISV, approval models.Approval) error {
	return s.Update(ctx, isv, map[string]string{"admin_approved": string(approval)})
}
