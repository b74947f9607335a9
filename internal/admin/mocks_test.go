package admin

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/models"
)

type MockAgentService struct {
	mock.Mock
}

func (m *MockAgentService) FetchAll(ctx context.Context) ([]models.Agent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Agent), args.Error(1)
}

func (m *MockAgentService) Update(ctx context.Context, agent models.Agent, changes map[string]string) error {
	return m.Called(ctx, agent, changes).Error(0)
}

func (m *MockAgentService) SetApproval(ctx context.Context, agent models.Agent, approval models.Approval) error {
	return m.Called(ctx, agent, approval).Error(0)
}

type MockISVService struct {
	mock.Mock
}

func (m *MockISVService) FetchAll(ctx context.Context) ([]models.ISV, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ISV), args.Error(1)
}

func (m *MockISVService) Update(ctx context.Context, isv models.ISV, changes map[string]string) error {
	return m.Called(ctx, isv, changes).Error(0)
}

func (m *MockISVService) SetApproval(ctx context.Context, isv models.ISV, approval models.Approval) error {
	return m.Called(ctx, isv, approval).Error(0)
}

type MockResellerService struct {
	mock.Mock
}

func (m *MockResellerService) FetchAll(ctx context.Context) ([]models.Reseller, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reseller), args.Error(1)
}

func (m *MockResellerService) Update(ctx context.Context, reseller models.Reseller, changes map[string]string) error {
	return m.Called(ctx, reseller, changes).Error(0)
}

func (m *MockResellerService) SetApproval(ctx context.Context, reseller models.Reseller, approval models.Approval) error {
	return m.Called(ctx, reseller, approval).Error(0)
}

type MockEnquiryService struct {
	mock.Mock
}

func (m *MockEnquiryService) FetchAll(ctx context.Context) ([]models.Enquiry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Enquiry), args.Error(1)
}

func (m *MockEnquiryService) CountNew(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
