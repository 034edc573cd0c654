package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mkrasnov/asop-compliance-service/internal/config"
	"github.com/mkrasnov/asop-compliance-service/internal/core/domain"
	"github.com/mkrasnov/asop-compliance-service/internal/observability/metrics"
)

type ingestFake struct {
	result *domain.IngestResult
	err    error
}

func (f ingestFake) Upload(_ context.Context, filename string, body io.Reader) (*domain.IngestResult, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, domain.WrapError(domain.ErrInvalidInput, "validate upload", errors.New("only PDF files are allowed"))
	}
	if f.err != nil {
		return nil, f.err
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return nil, err
	}
	return f.result, nil
}

type analyzerFake struct {
	analysis string
	err      error
}

func (f analyzerFake) Analyze(context.Context, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.analysis, nil
}

type readerFake struct {
	summaries []domain.UploadSummary
	upload    *domain.Upload
	err       error
}

func (f readerFake) List(context.Context) ([]domain.UploadSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.summaries, nil
}

func (f readerFake) GetByID(context.Context, int64) (*domain.Upload, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.upload, nil
}

func newTestHandler(cfg config.Config, ingest ingestFake, analyzer analyzerFake, reader readerFake) http.Handler {
	return NewRouter(cfg, ingest, analyzer, reader, metrics.NewHTTPServerMetrics("asop-api-test")).Handler()
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return &body, writer.FormDataContentType()
}

func TestRootBanner(t *testing.T) {
	handler := newTestHandler(config.Config{}, ingestFake{}, analyzerFake{}, readerFake{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["message"] != "ASOP Compliance API is running!" {
		t.Fatalf("unexpected banner: %+v", resp)
	}
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(config.Config{}, ingestFake{}, analyzerFake{}, readerFake{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), `"status":"healthy"`) {
		t.Fatalf("unexpected body: %s", res.Body.String())
	}
}

func TestUploadSuccessReturnsComposedResult(t *testing.T) {
	handler := newTestHandler(config.Config{}, ingestFake{
		result: &domain.IngestResult{
			ID:            1,
			Filename:      "20250101_120000_ab12cd34_a.pdf",
			StoragePath:   "uploads/20250101_120000_ab12cd34_a.pdf",
			ExtractedText: "Hello\nWorld\n",
			Analysis:      "OK",
		},
	}, analyzerFake{}, readerFake{})

	body, contentType := multipartBody(t, "a.pdf", "%PDF-fake")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var resp map[string]any
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["id"] != float64(1) {
		t.Fatalf("unexpected id: %+v", resp)
	}
	if resp["asop_analysis"] != "OK" || resp["extracted_text"] != "Hello\nWorld\n" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp["message"] != "File uploaded and analyzed successfully" {
		t.Fatalf("unexpected message: %+v", resp)
	}
}

func TestUploadTrailingSlashRouteAccepted(t *testing.T) {
	handler := newTestHandler(config.Config{}, ingestFake{
		result: &domain.IngestResult{ID: 2, Filename: "x.pdf"},
	}, analyzerFake{}, readerFake{})

	body, contentType := multipartBody(t, "x.pdf", "%PDF-fake")
	req := httptest.NewRequest(http.MethodPost, "/upload/", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}

func TestUploadRejectsNonPDFWith400(t *testing.T) {
	handler := newTestHandler(config.Config{}, ingestFake{}, analyzerFake{}, readerFake{})

	body, contentType := multipartBody(t, "notes.txt", "plain text")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "detail") {
		t.Fatalf("expected detail body, got %s", res.Body.String())
	}
}

func TestUploadMissingMultipartField(t *testing.T) {
	handler := newTestHandler(config.Config{}, ingestFake{}, analyzerFake{}, readerFake{})

	req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewBufferString("plain-text"))
	req.Header.Set("Content-Type", "text/plain")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestListDocumentsTrailingSlashServesListing(t *testing.T) {
	handler := newTestHandler(config.Config{}, ingestFake{}, analyzerFake{}, readerFake{
		summaries: []domain.UploadSummary{{ID: 1, Filename: "a.pdf"}},
	})

	req := httptest.NewRequest(http.MethodGet, "/documents/", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var resp struct {
		Documents []domain.UploadSummary `json:"documents"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Documents) != 1 || resp.Documents[0].ID != 1 {
		t.Fatalf("unexpected documents: %+v", resp.Documents)
	}
}

func TestListDocumentsWrapsPayload(t *testing.T) {
	handler := newTestHandler(config.Config{}, ingestFake{}, analyzerFake{}, readerFake{
		summaries: []domain.UploadSummary{{ID: 2, Filename: "b.pdf"}, {ID: 1, Filename: "a.pdf"}},
	})

	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var resp struct {
		Documents []domain.UploadSummary `json:"documents"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Documents) != 2 || resp.Documents[0].ID != 2 {
		t.Fatalf("unexpected documents: %+v", resp.Documents)
	}
}
