package controllers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/atelierhq/studio-backend/pkg/logger"
)

type stubUploader struct {
	key         string
	contentType string
	data        []byte
	err         error
}

func (s *stubUploader) Upload(_ context.Context, key string, data []byte, contentType string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.key = key
	s.data = data
	s.contentType = contentType
	return "https://storage.googleapis.com/bucket/" + key, nil
}

// pngHeader is enough of a real PNG for content-type sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func multipartBody(t *testing.T, field, filename string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("writing part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestAdminUpload(t *testing.T) {
	uploader := &stubUploader{}
	handler := AdminUpload(uploader, logger.New(logger.Options{Output: io.Discard}))

	body, contentType := multipartBody(t, "file", "hide.png", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(uploader.key, "uploads/") || !strings.HasSuffix(uploader.key, ".png") {
		t.Fatalf("unexpected object key %q", uploader.key)
	}
	if !strings.HasPrefix(uploader.contentType, "image/") {
		t.Fatalf("unexpected content type %q", uploader.contentType)
	}
	if !strings.Contains(rec.Body.String(), uploader.key) {
		t.Fatalf("response should carry the public url: %s", rec.Body.String())
	}
}

func TestAdminUploadRejectsNonImages(t *testing.T) {
	uploader := &stubUploader{}
	handler := AdminUpload(uploader, logger.New(logger.Options{Output: io.Discard}))

	body, contentType := multipartBody(t, "file", "notes.txt", []byte("plain text, not an image"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if uploader.key != "" {
		t.Fatal("nothing should be uploaded")
	}
}

func TestAdminUploadRequiresFileField(t *testing.T) {
	handler := AdminUpload(&stubUploader{}, logger.New(logger.Options{Output: io.Discard}))

	body, contentType := multipartBody(t, "wrong", "hide.png", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
