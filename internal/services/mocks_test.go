package services

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
)

// MockRequester is a mock implementation of Requester.
type MockRequester struct {
	mock.Mock
}

func (m *MockRequester) Request(ctx context.Context, endpoint, method string, payload any) (json.RawMessage, error) {
	args := m.Called(ctx, endpoint, method, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	switch v := args.Get(0).(type) {
	case string:
		return json.RawMessage(v), args.Error(1)
	default:
		return v.(json.RawMessage), args.Error(1)
	}
}
