package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"sort"
)

// Form builds a form-urlencoded payload. Empty values are dropped, so the
// backend never sees a field the caller did not fill in.
func Form(fields map[string]string) url.Values {
	values := url.Values{}
	for k, v := range fields {
		if v == "" {
			continue
		}
		values.Set(k, v)
	}
	return values
}

// MultipartFile is one file part.
type MultipartFile struct {
	Field    string
	Filename string
	Reader   io.Reader
}

// Multipart is a multipart/form-data payload. The content type (with its
// boundary) is produced by the encoder.
type Multipart struct {
	Fields map[string]string
	Files  []MultipartFile
}

func (m *Multipart) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}

	for _, f := range m.Files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create part for %s: %w", f.Filename, err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return nil, "", fmt.Errorf("failed to copy %s: %w", f.Filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}
