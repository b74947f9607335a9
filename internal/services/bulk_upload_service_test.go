package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/apierr"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/client"
)

func TestBulkUpload_Validate(t *testing.T) {
	svc := NewBulkUploadService(new(MockRequester), 0)

	tests := []struct {
		name        string
		filename    string
		contentType string
		size        int64
		code        string
	}{
		{"csv", "agents.csv", "", 10, ""},
		{"xlsx upper", "AGENTS.XLSX", "", 10, ""},
		{"xls", "agents.xls", "", 10, ""},
		{"mime only", "export", "text/csv; charset=utf-8", 10, ""},
		{"excel mime", "blob", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", 10, ""},
		{"pdf", "agents.pdf", "application/pdf", 10, apierr.CodeFileType},
		{"too large", "agents.csv", "", DefaultBulkUploadMaxBytes + 1, apierr.CodeFileTooLarge},
		{"exactly max", "agents.csv", "", DefaultBulkUploadMaxBytes, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Validate(tt.filename, tt.contentType, tt.size)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			apiErr, ok := apierr.As(err)
			require.True(t, ok)
			assert.Equal(t, apierr.KindValidation, apiErr.Kind)
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestBulkUpload_Upload(t *testing.T) {
	api := new(MockRequester)
	ctx := context.Background()
	svc := NewBulkUploadService(api, 0)

	api.On("Request", ctx, "/api/admin/bulk-upload", http.MethodPost, mock.MatchedBy(func(p any) bool {
		mp, ok := p.(*client.Multipart)
		return ok && len(mp.Files) == 1 && mp.Files[0].Field == "file" && mp.Files[0].Filename == "agents.csv"
	})).Return(`{"success":true,"message":"3 agents imported"}`, nil).Once()

	res, err := svc.Upload(ctx, "/tmp/agents.csv", "", 12, strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "3 agents imported", res.Message)
	api.AssertExpectations(t)
}

func TestBulkUpload_RejectsBeforeSending(t *testing.T) {
	api := new(MockRequester)
	_, err := NewBulkUploadService(api, 1024).Upload(context.Background(), "a.csv", "", 2048, strings.NewReader(""))
	assert.True(t, apierr.IsKind(err, apierr.KindValidation))
	api.AssertNotCalled(t, "Request", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
