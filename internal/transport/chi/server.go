// Package chi exposes the post and enrichment use cases over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/practicelink/internal/domain"
	"github.com/kailas-cloud/practicelink/internal/domain/bundle"
	"github.com/kailas-cloud/practicelink/internal/domain/link"
	dompost "github.com/kailas-cloud/practicelink/internal/domain/post"
	"github.com/kailas-cloud/practicelink/internal/metrics"
	"github.com/kailas-cloud/practicelink/internal/usecase/enrichment"
	healthuc "github.com/kailas-cloud/practicelink/internal/usecase/health"
	postuc "github.com/kailas-cloud/practicelink/internal/usecase/post"
)

// Request limits.
const (
	maxBodyBytes          = 1 << 20
	defaultMatchLimit     = 3
	maxMatchLimit         = 10
	defaultPublishTimeout = 60 * time.Second
)

// PostService creates posts and reports their state.
type PostService interface {
	Create(ctx context.Context, authorID string, in dompost.CreateInput) (postuc.Created, error)
	Status(ctx context.Context, id string) (postuc.StatusView, error)
}

// Publisher runs the publish pipeline for one post.
type Publisher interface {
	Process(ctx context.Context, id string) error
}

// Enricher resolves practice links for a write-up.
type Enricher interface {
	Enrich(ctx context.Context, in enrichment.Input) enrichment.Result
}

// Matcher finds curated problems in text.
type Matcher interface {
	Match(text string, limit int) []link.Match
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server holds the HTTP handlers.
type Server struct {
	posts          PostService
	publisher      Publisher
	enricher       Enricher
	matcher        Matcher
	health         HealthChecker
	publishTimeout time.Duration
	logger         *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	posts PostService,
	publisher Publisher,
	enricher Enricher,
	matcher Matcher,
	health HealthChecker,
	publishTimeout time.Duration,
	logger *zap.Logger,
) *Server {
	if publishTimeout <= 0 {
		publishTimeout = defaultPublishTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		posts:          posts,
		publisher:      publisher,
		enricher:       enricher,
		matcher:        matcher,
		health:         health,
		publishTimeout: publishTimeout,
		logger:         logger,
	}
}

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	APIKeys     []string
	CORSOrigins []string
}

// Router mounts all routes with the middleware stack.
func (s *Server) Router(opts RouterOptions) http.Handler {
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(WideEventMiddleware(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", userIDHeader},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(BearerAuthMiddleware(opts.APIKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/posts", s.CreatePost)
		r.Get("/posts/{id}/status", s.GetPostStatus)
		r.Post("/posts/{id}/process", s.ProcessPost)
		r.Post("/enrich", s.Enrich)
		r.Post("/match", s.Match)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
	return r
}

type createPostResponse struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

// CreatePost handles POST /api/v1/posts.
func (s *Server) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req dompost.CreateInput
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := s.posts.Create(r.Context(), r.Header.Get(userIDHeader), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/posts/"+created.ID+"/status")
	writeJSON(w, http.StatusCreated, createPostResponse{ID: created.ID, Slug: created.Slug})
}

type postStatusResponse struct {
	Status dompost.Status `json:"status"`
	Slug   string         `json:"slug"`
}

// GetPostStatus handles GET /api/v1/posts/{id}/status.
func (s *Server) GetPostStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.posts.Status(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postStatusResponse{Status: st.Status, Slug: st.Slug})
}

// ProcessPost handles POST /api/v1/posts/{id}/process. It runs the publish
// pipeline synchronously under the configured deadline.
func (s *Server) ProcessPost(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.publishTimeout)
	defer cancel()

	err := s.publisher.Process(ctx, chi.URLParam(r, "id"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	case errors.Is(err, domain.ErrNotFound):
		s.handleDomainError(w, err)
	default:
		s.logger.Error("publish failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeProcessingFailed, "AI failed: "+safeDomainMessage(err))
	}
}

type enrichRequest struct {
	Raw           string          `json:"raw"`
	Formatted     string          `json:"formatted"`
	SearchBundles []bundle.Bundle `json:"search_bundles"`
}

type enrichResponse struct {
	Links        []link.Picked     `json:"links"`
	PracticeMD   string            `json:"practice_md"`
	Tiers        map[string]string `json:"tiers"`
	BundleSource string            `json:"bundle_source"`
}

// Enrich handles POST /api/v1/enrich.
func (s *Server) Enrich(w http.ResponseWriter, r *http.Request) {
	var req enrichRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Raw) == "" && len(req.SearchBundles) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "raw or search_bundles is required")
		return
	}

	res := s.enricher.Enrich(r.Context(), enrichment.Input{
		Raw:       req.Raw,
		Formatted: req.Formatted,
		Bundles:   req.SearchBundles,
	})

	tiers := make(map[string]string, len(res.Tiers))
	for _, l := range res.Links {
		tiers[l.URL] = string(res.Tiers[l.URL])
	}
	writeJSON(w, http.StatusOK, enrichResponse{
		Links:        res.Links,
		PracticeMD:   res.PracticeMD,
		Tiers:        tiers,
		BundleSource: res.Source,
	})
}

type matchRequest struct {
	Text string `json:"text"`
	Max  *int   `json:"max"`
}

type matchResponse struct {
	Matches []link.Match `json:"matches"`
}

// Match handles POST /api/v1/match.
func (s *Server) Match(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "text is required")
		return
	}
	limit := defaultMatchLimit
	if req.Max != nil {
		limit = *req.Max
	}
	if limit < 1 || limit > maxMatchLimit {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "max must be between 1 and 10")
		return
	}

	matches := s.matcher.Match(req.Text, limit)
	if matches == nil {
		matches = []link.Match{}
	}
	writeJSON(w, http.StatusOK, matchResponse{Matches: matches})
}

type healthResponse struct {
	Status healthuc.Status                 `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthResponse{Status: report.Status, Checks: report.Checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeBody decodes a JSON request body, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
