package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/apierr"
)

func TestHealthService_Check(t *testing.T) {
	ctx := context.Background()

	api := new(MockRequester)
	api.On("Request", ctx, "/api/health", http.MethodGet, nil).Return(`{"status":"healthy"}`, nil).Once()
	status, err := NewHealthService(api).Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", status.Status)

	api = new(MockRequester)
	api.On("Request", ctx, "/api/health", http.MethodGet, nil).Return(nil, apierr.Network(nil)).Once()
	_, err = NewHealthService(api).Check(ctx)
	assert.True(t, apierr.IsKind(err, apierr.KindNetwork))
	assert.Equal(t, "Backend service is unavailable", apierr.Message(err, ""))
}
