package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/apierr"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/client"
)

// DefaultBulkUploadMaxBytes is the largest spreadsheet accepted for bulk upload.
const DefaultBulkUploadMaxBytes int64 = 25 * 1024 * 1024

var bulkUploadExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

var bulkUploadMIMETypes = map[string]bool{
	"text/csv":                 true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// BulkUploadResult is the backend's answer to a bulk upload.
type BulkUploadResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// IBulkUploadService uploads spreadsheets of agents.
type IBulkUploadService interface {
	Validate(filename, contentType string, size int64) error
	Upload(ctx context.Context, filename, contentType string, size int64, r io.Reader) (*BulkUploadResult, error)
}

type bulkUploadService struct {
	api      Requester
	maxBytes int64
}

// NewBulkUploadService creates a new BulkUploadService. maxBytes <= 0 uses the default.
func NewBulkUploadService(api Requester, maxBytes int64) IBulkUploadService {
	if maxBytes <= 0 {
		maxBytes = DefaultBulkUploadMaxBytes
	}
	return &bulkUploadService{api: api, maxBytes: maxBytes}
}

// Validate checks the file locally before anything is sent. Either a known
// extension or a known MIME type is enough.
func (s *bulkUploadService) Validate(filename, contentType string, size int64) error {
	if size > s.maxBytes {
		return apierr.Validation(apierr.CodeFileTooLarge,
			fmt.Sprintf("File size must be less than %s (got %s)", humanize.IBytes(uint64(s.maxBytes)), humanize.IBytes(uint64(size))))
	}
	ext := strings.ToLower(filepath.Ext(filename))
	mediaType := ""
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			mediaType = strings.ToLower(mt)
		}
	}
	if !bulkUploadExtensions[ext] && !bulkUploadMIMETypes[mediaType] {
		return apierr.Validation(apierr.CodeFileType, "Please upload a CSV or Excel file (.csv, .xlsx, .xls)")
	}
	return nil
}

func (s *bulkUploadService) Upload(ctx context.Context, filename, contentType string, size int64, r io.Reader) (*BulkUploadResult, error) {
	if err := s.Validate(filename, contentType, size); err != nil {
		return nil, err
	}

	payload := &client.Multipart{
		Files: []client.MultipartFile{{Field: "file", Filename: filepath.Base(filename), Reader: r}},
	}
	raw, err := s.api.Request(ctx, bulkUploadEndpoint, http.MethodPost, payload)
	if err != nil {
		return nil, err
	}

	result := &BulkUploadResult{Success: true, Raw: raw}
	if err := json.Unmarshal(raw, result); err != nil {
		// Non-object success bodies are still a success.
		result.Success = true
	}
	return result, nil
}
