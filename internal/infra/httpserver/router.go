package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appdocs "github.com/bryanwahyu/insights-workspace/internal/application/documents"
	domain "github.com/bryanwahyu/insights-workspace/internal/domain/documents"
	"github.com/bryanwahyu/insights-workspace/internal/logger"
	"github.com/bryanwahyu/insights-workspace/internal/metrics"
	"github.com/bryanwahyu/insights-workspace/internal/middleware"
)

const (
	defaultMaxFiles = 20
	formMemory      = 32 << 20
)

// Options wires the ambient pieces around the document service.
type Options struct {
	Log         *logger.Logger
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	Checkers    map[string]middleware.HealthChecker
	CORSOrigins []string
	Limiter     *middleware.RateLimiter // upload route only; nil disables
	MaxFiles    int
}

type Router struct {
	docs     *appdocs.Service
	log      *logger.Logger
	maxFiles int
}

func NewRouter(docs *appdocs.Service, opt Options) http.Handler {
	if opt.Log == nil {
		opt.Log = logger.Nop()
	}
	if opt.MaxFiles <= 0 {
		opt.MaxFiles = defaultMaxFiles
	}
	if len(opt.CORSOrigins) == 0 {
		opt.CORSOrigins = []string{"*"}
	}
	r := &Router{docs: docs, log: opt.Log.Component("http"), maxFiles: opt.MaxFiles}

	mux := chi.NewRouter()
	mux.Use(middleware.Logging(opt.Log), middleware.Metrics(opt.Metrics))
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: opt.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	probe := middleware.NewProbe(opt.Checkers, 0).WithReady(docs.Accepting)
	mux.Get("/health", probe.Health)
	mux.Get("/ready", probe.Ready)
	mux.Get("/live", middleware.Live)
	if opt.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(opt.Gatherer, promhttp.HandlerOpts{}))
	}

	mux.Route("/v1/sessions", func(rt chi.Router) {
		rt.Post("/", r.wrap(r.handleCreateSession))
		rt.Route("/{session}", func(rs chi.Router) {
			rs.Get("/", r.wrap(r.handleSessionStatus))
			rs.Delete("/", r.wrap(r.handleCloseSession))
			rs.Get("/stats", r.wrap(r.handleStats))
			rs.Get("/documents", r.wrap(r.handleList))
			if opt.Limiter != nil {
				rs.With(middleware.RateLimit(opt.Limiter)).Post("/documents", r.wrap(r.handleUpload))
			} else {
				rs.Post("/documents", r.wrap(r.handleUpload))
			}
			rs.Get("/documents/{id}", r.wrap(r.handleGet))
			rs.Get("/documents/{id}/report", r.wrap(r.handleReport))
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequest marks malformed input that never reached the service.
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var (
			ve     *domain.ValidationError
			br     badRequest
			tooBig *http.MaxBytesError
		)
		switch {
		case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrDocumentNotFound):
			writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
		case errors.As(err, &ve):
			writeJSON(w, http.StatusBadRequest, errorBody{Error: ve.Error(), Kind: string(ve.Kind)})
		case errors.Is(err, domain.ErrEmptyBatch):
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Kind: "empty_batch"})
		case errors.Is(err, domain.ErrInvalidQuery), errors.As(err, &br):
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		case errors.As(err, &tooBig):
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "request body too large"})
		case errors.Is(err, appdocs.ErrServiceClosed):
			writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: err.Error()})
		default:
			r.log.Error().Err(err).Str("path", req.URL.Path).Msg("request failed")
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func sessionParam(req *http.Request) (string, error) {
	id := chi.URLParam(req, "session")
	if err := middleware.ValidateSessionID(id); err != nil {
		return "", badRequest{err.Error()}
	}
	return id, nil
}

func documentParam(req *http.Request) (domain.DocumentID, error) {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateDocumentID(id); err != nil {
		return "", badRequest{err.Error()}
	}
	return domain.DocumentID(id), nil
}

// POST /v1/sessions
func (r *Router) handleCreateSession(w http.ResponseWriter, req *http.Request) error {
	sess, err := r.docs.CreateSession(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, map[string]any{
		"id":        sess.ID,
		"createdAt": sess.CreatedAt,
	})
}

// GET /v1/sessions/{session}
func (r *Router) handleSessionStatus(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionParam(req)
	if err != nil {
		return err
	}
	status, err := r.docs.Status(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, status)
}

// DELETE /v1/sessions/{session}
func (r *Router) handleCloseSession(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionParam(req)
	if err != nil {
		return err
	}
	if err := r.docs.CloseSession(req.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// POST /v1/sessions/{session}/documents  (multipart, field "files", ?wait=true)
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionParam(req)
	if err != nil {
		return err
	}
	wait := false
	if v := req.URL.Query().Get("wait"); v != "" {
		if wait, err = strconv.ParseBool(v); err != nil {
			return badRequest{fmt.Sprintf("invalid wait %q", v)}
		}
	}

	limit := int64(r.maxFiles) * (domain.MaxFileSize + 1<<20)
	req.Body = http.MaxBytesReader(w, req.Body, limit)
	if err := req.ParseMultipartForm(formMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return err
		}
		return badRequest{fmt.Sprintf("invalid multipart body: %v", err)}
	}
	defer req.MultipartForm.RemoveAll()

	headers := req.MultipartForm.File["files"]
	if err := middleware.ValidateBatchSize(len(headers), r.maxFiles); err != nil {
		return badRequest{err.Error()}
	}
	files := make([]domain.FileDescriptor, 0, len(headers))
	for _, fh := range headers {
		f, err := readPart(fh)
		if err != nil {
			return err
		}
		files = append(files, f)
	}

	if wait {
		results, err := r.docs.SubmitAndWait(req.Context(), id, files)
		if err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, results)
	}
	placeholders, err := r.docs.Submit(req.Context(), id, files)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusAccepted, placeholders)
}

// readPart loads one uploaded file. Oversized parts keep their declared
// size but no content, so the gate rejects them without buffering.
func readPart(fh *multipart.FileHeader) (domain.FileDescriptor, error) {
	if err := middleware.ValidateFileName(fh.Filename); err != nil {
		return domain.FileDescriptor{}, badRequest{err.Error()}
	}
	if fh.Size > domain.MaxFileSize {
		return domain.FileDescriptor{Name: fh.Filename, SizeBytes: fh.Size}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return domain.FileDescriptor{}, fmt.Errorf("open part %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, domain.MaxFileSize+1))
	if err != nil {
		return domain.FileDescriptor{}, fmt.Errorf("read part %s: %w", fh.Filename, err)
	}
	return domain.NewFileDescriptor(fh.Filename, data), nil
}

// GET /v1/sessions/{session}/documents?search=&sort=&asc=&filter=
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionParam(req)
	if err != nil {
		return err
	}
	q := req.URL.Query()
	query, err := domain.ParseQuery(
		middleware.SanitizeString(q.Get("search")),
		q.Get("sort"),
		q.Get("asc"),
		q.Get("filter"),
	)
	if err != nil {
		return err
	}
	list, err := r.docs.List(req.Context(), id, query)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/sessions/{session}/documents/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionParam(req)
	if err != nil {
		return err
	}
	docID, err := documentParam(req)
	if err != nil {
		return err
	}
	doc, err := r.docs.Get(req.Context(), id, docID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, doc)
}

// GET /v1/sessions/{session}/documents/{id}/report
func (r *Router) handleReport(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionParam(req)
	if err != nil {
		return err
	}
	docID, err := documentParam(req)
	if err != nil {
		return err
	}
	rep, err := r.docs.Report(req.Context(), id, docID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rep)
}

// GET /v1/sessions/{session}/stats
func (r *Router) handleStats(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionParam(req)
	if err != nil {
		return err
	}
	stats, err := r.docs.Stats(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, stats)
}
