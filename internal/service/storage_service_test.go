package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"lms_backend/internal/config"
)

// recordingProvider 记录最近一次上传的参数
type recordingProvider struct {
	filename    string
	contentType string
}

func (p *recordingProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	p.filename = filename
	p.contentType = contentType
	return "/uploads/" + filename, nil
}

func (p *recordingProvider) Delete(ctx context.Context, filename string) error { return nil }
func (p *recordingProvider) GetURL(filename string) string                     { return "/uploads/" + filename }

func makeFileHeader(t *testing.T, filename, contentType string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte("payload")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	w.Close()

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	files := form.File["file"]
	if len(files) != 1 {
		t.Fatalf("file count = %d, want 1", len(files))
	}
	return files[0]
}

func TestUploadImageContentType(t *testing.T) {
	provider := &recordingProvider{}
	svc := &StorageService{Provider: provider, Cfg: &config.StorageConfig{}}

	result, err := svc.UploadImage(context.Background(), makeFileHeader(t, "cover.png", "image/png"), "covers")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if provider.contentType != "image/png" {
		t.Errorf("content type = %q, want image/png", provider.contentType)
	}
	if !strings.HasPrefix(provider.filename, "covers/") || !strings.HasSuffix(provider.filename, ".png") {
		t.Errorf("stored filename = %q, want covers/*.png", provider.filename)
	}
	if result.URL == "" || result.DurationSeconds != nil {
		t.Errorf("unexpected result %+v", result)
	}

	// 谎报的 Content-Type 不透传给存储后端
	if _, err := svc.UploadImage(context.Background(), makeFileHeader(t, "cover.png", "text/html"), "covers"); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if provider.contentType != "application/octet-stream" {
		t.Errorf("non-image content type must fall back to octet-stream, got %q", provider.contentType)
	}

	if _, err := svc.UploadImage(context.Background(), makeFileHeader(t, "script.exe", "image/png"), "covers"); err == nil {
		t.Errorf("disallowed extension must be rejected")
	}
}
