package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/client"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/models"
)

// IResellerService defines admin operations on resellers.
type IResellerService interface {
	FetchAll(ctx context.Context) ([]models.Reseller, error)
	Update(ctx context.Context, reseller models.Reseller, changes map[string]string) error
	SetApproval(ctx context.Context, reseller models.Reseller, approval models.Approval) error
}

type resellerService struct {
	api Requester
}

func NewResellerService(api Requester) IResellerService {
	return &resellerService{api: api}
}

func (s *resellerService) FetchAll(ctx context.Context) ([]models.Reseller, error) {
	raw, err := s.api.Request(ctx, adminResellersEndpoint, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	resellers, err := UnwrapList[models.Reseller](raw, "resellers")
	if err != nil {
		return nil, fmt.Errorf("failed to decode resellers: %w", err)
	}
	return resellers, nil
}

func (s *resellerService) Update(ctx context.Context, reseller models.Reseller, changes map[string]string) error {
	if reseller.ResellerID == "" {
		return fmt.Errorf("reseller id is required")
	}
	fields := withIdentity(changes, map[string]string{
		"reseller_name":  reseller.ResellerName,
		"reseller_email": reseller.ResellerEmail,
	})
	_, err := s.api.Request(ctx, itemEndpoint(adminResellersEndpoint, reseller.ResellerID), http.MethodPut, client.Form(fields))
	return err
}

func (s *resellerService) SetApproval(ctx context.Context, reseller models.Reseller, approval models.Approval) error {
	return s.Update(ctx, reseller, map[string]string{"admin_approved": string(approval)})
}
