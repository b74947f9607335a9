package proxy

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/storage"
)

func TestResolveFile(t *testing.T) {
	p := newTestProxy(nil, nil)

	tests := []struct {
		name   string
		target string
		want   FileTarget
		err    error
	}{
		{"bare key", "/isv/mou/contract.pdf", FileTarget{Key: "isv/mou/contract.pdf"}, nil},
		{"bucket host", "https://agentsstore.s3.us-east-1.amazonaws.com/docs/a%20b.pdf", FileTarget{Key: "docs/a b.pdf"}, nil},
		{"regional host", "https://s3.us-east-1.amazonaws.com/agentsstore/docs/x.pdf", FileTarget{Key: "docs/x.pdf"}, nil},
		{"regional other bucket", "https://s3.us-east-1.amazonaws.com/other/x.pdf", FileTarget{ExternalURL: "https://s3.us-east-1.amazonaws.com/other/x.pdf"}, nil},
		{"external", "https://drive.example.com/f.pdf", FileTarget{ExternalURL: "https://drive.example.com/f.pdf"}, nil},
		{"traversal", "docs/../secrets.txt", FileTarget{}, ErrInvalidPath},
		{"dot segment", "./docs/a.pdf", FileTarget{}, ErrInvalidPath},
		{"empty", "  ", FileTarget{}, ErrMissingURL},
		{"only slashes", "///", FileTarget{}, ErrInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ResolveFile(tt.target)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t, `inline; filename="my%20file.pdf"; filename*=UTF-8''my%20file.pdf`,
		ContentDisposition("docs/my file.pdf", false, "application/pdf"))
	assert.Equal(t, `attachment; filename="a.png"; filename*=UTF-8''a.png`,
		ContentDisposition("a.png", true, "image/png"))
	assert.Equal(t, `attachment; filename="data.zip"; filename*=UTF-8''data.zip`,
		ContentDisposition("x/data.zip", false, "application/zip"))
	assert.Equal(t, `inline; filename="evil.txt"; filename*=UTF-8''evil.txt`,
		ContentDisposition("e\"vil\r\n.txt", false, "text/plain"))
	assert.Contains(t, ContentDisposition("dir/", false, "text/plain"), `filename="file"`)
}

func TestOpenFile(t *testing.T) {
	_, err := newTestProxy(nil, nil).OpenFile(context.Background(), "k")
	assert.ErrorIs(t, err, ErrNoStorage)

	store := new(MockObjectStore)
	store.On("GetObject", mock.Anything, "", "docs/a.bin", "").Return(&storage.Object{
		Body: io.NopCloser(strings.NewReader("bin")),
	}, nil)
	obj, err := newTestProxy(store, nil).OpenFile(context.Background(), "docs/a.bin")
	require.NoError(t, err)
	defer obj.Body.Close()
	assert.Equal(t, "application/octet-stream", obj.ContentType)
}
