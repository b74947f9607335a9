package handlers_test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/models"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/services"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/storage"
)

// MockAgentService implements services.IAgentService
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

// MockISVService implements services.IISVService
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

// MockResellerService implements services.IResellerService
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

// MockEnquiryService implements services.IEnquiryService
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

// MockBulkUploadService implements services.IBulkUploadService
type MockBulkUploadService struct {
	mock.Mock
}

func (m *MockBulkUploadService) Validate(filename, contentType string, size int64) error {
	return m.Called(filename, contentType, size).Error(0)
}

func (m *MockBulkUploadService) Upload(ctx context.Context, filename, contentType string, size int64, r io.Reader) (*services.BulkUploadResult, error) {
	args := m.Called(ctx, filename, contentType, size, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.BulkUploadResult), args.Error(1)
}

// MockHealthService implements services.IHealthService
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) Check(ctx context.Context) (*services.HealthStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.HealthStatus), args.Error(1)
}

// MockObjectStore implements storage.IObjectStore
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) GetObject(ctx context.Context, bucket, key, rng string) (*storage.Object, error) {
	args := m.Called(ctx, bucket, key, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Object), args.Error(1)
}

func (m *MockObjectStore) Bucket() string {
	return "agentsstore"
}
