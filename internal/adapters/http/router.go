package httpadapter

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mkrasnov/asop-compliance-service/internal/config"
	"github.com/mkrasnov/asop-compliance-service/internal/core/domain"
	"github.com/mkrasnov/asop-compliance-service/internal/core/ports"
	"github.com/mkrasnov/asop-compliance-service/internal/observability/metrics"
)

const serviceName = "asop-api"

type Router struct {
	cfg      config.Config
	ingest   ports.MemoIngestor
	analyzer ports.MemoAnalysisService
	reader   ports.UploadReader
	metrics  *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	ingest ports.MemoIngestor,
	analyzer ports.MemoAnalysisService,
	reader ports.UploadReader,
	m *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:      cfg,
		ingest:   ingest,
		analyzer: analyzer,
		reader:   reader,
		metrics:  m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", rt.root)
	mux.HandleFunc("/health", rt.health)
	mux.HandleFunc("/analyze", rt.analyzeText)
	mux.HandleFunc("/upload", rt.uploadDocument)
	mux.HandleFunc("/upload/", rt.uploadDocument)
	mux.HandleFunc("/documents", rt.listDocuments)
	mux.HandleFunc("/documents/", rt.getDocumentByID)
	mux.Handle("/metrics", rt.metrics.Handler())

	var handler http.Handler = mux
	if rt.cfg.APIMaxInFlight > 0 {
		handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, 100*time.Millisecond)
	}
	if rt.cfg.APIRateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	}
	handler = rt.metrics.Middleware(serviceName, handler)
	handler = corsMiddleware(handler)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "ASOP Compliance API is running!"})
}

func (rt *Router) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (rt *Router) analyzeText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "method not allowed"})
		return
	}

	text := r.FormValue("text")
	if text == "" {
		// Plain-text bodies are accepted alongside the form/query parameter.
		raw, err := io.ReadAll(io.LimitReader(r.Body, 10<<20))
		if err == nil {
			text = string(raw)
		}
	}

	analysis, err := rt.analyzer.Analyze(r.Context(), text)
	if err != nil {
		rt.metrics.RecordAnalysis(serviceName, "error")
		rt.writeError(w, err)
		return
	}

	rt.metrics.RecordAnalysis(serviceName, "success")
	writeJSON(w, http.StatusOK, map[string]string{"analysis": analysis})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	start := time.Now()
	result, err := rt.ingest.Upload(r.Context(), fileHeader.Filename, file)
	rt.metrics.RecordIngest(serviceName, ingestOutcome(err), time.Since(start))
	if err != nil {
		rt.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":        "File uploaded and analyzed successfully",
		"id":             result.ID,
		"filename":       result.Filename,
		"path":           result.StoragePath,
		"extracted_text": result.ExtractedText,
		"asop_analysis":  result.Analysis,
	})
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "method not allowed"})
		return
	}

	documents, err := rt.reader.List(r.Context())
	if err != nil {
		rt.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": documents})
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "method not allowed"})
		return
	}

	rawID := strings.TrimPrefix(r.URL.Path, "/documents/")
	if rawID == "" {
		rt.listDocuments(w, r)
		return
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Document not found"})
		return
	}

	doc, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) writeError(w http.ResponseWriter, err error) {
	detail := err.Error()
	if domain.IsKind(err, domain.ErrUploadNotFound) {
		detail = "Document not found"
	}
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"detail": detail})
}

func ingestOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case domain.IsKind(err, domain.ErrInvalidInput):
		return "rejected"
	case domain.IsKind(err, domain.ErrExtraction):
		return "extraction_failed"
	case domain.IsKind(err, domain.ErrProvider), domain.IsKind(err, domain.ErrTransport):
		return "analysis_failed"
	case domain.IsKind(err, domain.ErrPersistence):
		return "persistence_failed"
	default:
		return "error"
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
