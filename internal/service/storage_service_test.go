package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"skillswap_backend/internal/config"
	"skillswap_backend/internal/util"
	"strings"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write(content)
	w.Close()

	req := httptest.NewRequest("POST", "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(10 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}
	return req.MultipartForm.File["file"][0]
}

func localStorage(t *testing.T) (*StorageService, string) {
	dir := t.TempDir()
	cfg := &config.Config{Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: dir}}
	return NewStorageService(cfg), dir
}

func TestUploadProfilePhotoLocal(t *testing.T) {
	svc, dir := localStorage(t)

	obj, err := svc.UploadProfilePhoto(context.Background(), 7, fileHeader(t, "me.PNG", pngBytes(t)))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(obj.Name, "avatars/7/") || !strings.HasSuffix(obj.Name, ".png") {
		t.Errorf("object name = %q", obj.Name)
	}
	if obj.URL != "/uploads/"+obj.Name {
		t.Errorf("url = %q", obj.URL)
	}
	if _, err := os.Stat(filepath.Join(dir, obj.Name)); err != nil {
		t.Fatalf("file not written: %v", err)
	}

	if err := svc.Delete(context.Background(), obj.Name); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestUploadProfilePhotoRejectsNonImage(t *testing.T) {
	svc, _ := localStorage(t)

	_, err := svc.UploadProfilePhoto(context.Background(), 1, fileHeader(t, "evil.png", []byte("#!/bin/sh\necho hi\n")))
	expectKind(t, err, util.KindBadRequest, "must be an image")

	_, err = svc.UploadProfilePhoto(context.Background(), 1, fileHeader(t, "doc.pdf", pngBytes(t)))
	expectKind(t, err, util.KindBadRequest, "Unsupported file extension")
}

func TestUploadProfilePhotoRejectsLargeFile(t *testing.T) {
	svc, _ := localStorage(t)
	header := fileHeader(t, "big.png", pngBytes(t))
	header.Size = util.MaxPhotoSize + 1

	_, err := svc.UploadProfilePhoto(context.Background(), 1, header)
	expectKind(t, err, util.KindBadRequest, "at most 5 MB")
}
