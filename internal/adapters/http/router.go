package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kirillkom/dept-intake/internal/core/domain"
	"github.com/kirillkom/dept-intake/internal/core/ports"
	"github.com/kirillkom/dept-intake/internal/infrastructure/resilience"
	"github.com/kirillkom/dept-intake/internal/observability/metrics"
)

const (
	defaultMaxUploadBytes  = 50 << 20
	backpressureWaitBudget = 250 * time.Millisecond
)

type RouterOptions struct {
	Service        string
	MaxUploadBytes int64
	// RateLimitRPS bounds /v1 requests per second; zero disables the limit.
	RateLimitRPS   float64
	RateLimitBurst int
	// MaxInFlight bounds concurrent /v1 requests; zero disables the gate.
	MaxInFlight int
	Logger      *slog.Logger
	Metrics     *metrics.HTTPServerMetrics
}

type Router struct {
	ingest      ports.DocumentIngestor
	reader      ports.DocumentReader
	reprocessor ports.DocumentReprocessor
	opts        RouterOptions
	logger      *slog.Logger
	metrics     *metrics.HTTPServerMetrics
}

// NewRouter wires the document API. A nil reprocessor leaves the
// reprocessing routes unregistered.
func NewRouter(ingest ports.DocumentIngestor, reader ports.DocumentReader, reprocessor ports.DocumentReprocessor, opts RouterOptions) *Router {
	if opts.Service == "" {
		opts.Service = "api"
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		ingest:      ingest,
		reader:      reader,
		reprocessor: reprocessor,
		opts:        opts,
		logger:      logger,
		metrics:     opts.Metrics,
	}
}

func (rt *Router) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("POST /v1/documents", rt.uploadDocument)
	api.HandleFunc("GET /v1/documents/{id}", rt.getDocumentByID)
	api.HandleFunc("GET /v1/departments", rt.departmentCounts)
	api.HandleFunc("GET /v1/departments/{department}/documents", rt.listDepartmentDocuments)
	if rt.reprocessor != nil {
		api.HandleFunc("POST /v1/documents/{id}/process", rt.reprocessDocument)
		api.HandleFunc("POST /v1/documents/process-failed", rt.requeueFailed)
	}

	var limited http.Handler = api
	limited = backpressureMiddleware(limited, rt.opts.MaxInFlight, backpressureWaitBudget)
	if rt.opts.RateLimitRPS > 0 {
		limiter := resilience.NewRateLimiter(rt.opts.RateLimitRPS, rt.opts.RateLimitBurst, rt.logger)
		limited = rateLimitMiddleware(limited, limiter)
	}

	root := http.NewServeMux()
	root.HandleFunc("GET /healthz", rt.healthz)
	root.Handle("/v1/", limited)
	if rt.metrics != nil {
		root.Handle("GET /metrics", rt.metrics.Handler())
	}

	var handler http.Handler = root
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.opts.Service, handler)
	}
	handler = accessLogMiddleware(rt.logger, handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.opts.MaxUploadBytes)

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			rt.recordUpload("rejected")
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "file exceeds upload limit"})
			return
		}
		rt.recordUpload("rejected")
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingest.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		rt.recordUpload(uploadResult(err))
		writeError(w, err)
		return
	}

	rt.recordUpload("accepted")
	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	doc, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) reprocessDocument(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	doc, err := rt.reprocessor.Reprocess(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) requeueFailed(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}

	requeued, err := rt.reprocessor.RequeueFailed(r.Context(), limit)
	if err != nil && requeued == 0 {
		writeError(w, err)
		return
	}
	payload := map[string]any{"requeued": requeued}
	if err != nil {
		rt.logger.Warn("requeue_failed_partial", "requeued", requeued, "error", err)
		payload["error"] = err.Error()
	}
	writeJSON(w, http.StatusAccepted, payload)
}

func (rt *Router) listDepartmentDocuments(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}

	department := r.PathValue("department")
	docs, err := rt.reader.ListByDepartment(r.Context(), department, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"department": strings.ToLower(strings.TrimSpace(department)),
		"documents":  docs,
	})
}

func (rt *Router) departmentCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := rt.reader.DepartmentCounts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"departments": counts})
}

// queryLimit parses the optional ?limit= parameter; zero means the default.
func queryLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
		return 0, false
	}
	return parsed, true
}

func (rt *Router) recordUpload(result string) {
	if rt.metrics != nil {
		rt.metrics.RecordUpload(rt.opts.Service, result)
	}
}

func uploadResult(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return "rejected"
	case domain.IsKind(err, domain.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
