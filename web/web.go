// Package web exposes the extraction crawler over HTTP: one synchronous
// batch endpoint plus health and metrics.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sponsorscope/contact-scraper/crawler"
)

// Extractor runs one crawl batch. Satisfied by *crawler.Crawler.
type Extractor interface {
	Crawl(ctx context.Context, req crawler.Request) []crawler.Result
}

type Server struct {
	extractor Extractor
	logger    *zap.Logger
	srv       *http.Server
}

func New(extractor Extractor, addr string, logger *zap.Logger) *Server {
	s := &Server{
		extractor: extractor,
		logger:    logger,
	}

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		// Batches are synchronous, so the write deadline must cover a full
		// crawl of the largest accepted request.
		WriteTimeout:   15 * time.Minute,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Post("/api/v1/extract", s.extract)

	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()

		if err := s.srv.Shutdown(context.Background()); err != nil {
			s.logger.Error("server shutdown", zap.Error(err))

			return
		}

		s.logger.Info("server stopped")
	}()

	err := s.srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

type extractRequest struct {
	Domains           []string `json:"domains"`
	StrictDomainMatch *bool    `json:"strictDomainMatch"`
	IncludeLinkedIn   bool     `json:"includeLinkedIn"`
}

type extractResponse struct {
	OK      bool             `json:"ok"`
	Results []crawler.Result `json:"results"`
}

type apiError struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// extract is the single batch call: it validates the request shape, runs
// the crawl synchronously and returns every per-domain result. Only a
// structurally malformed request produces an error response; per-domain
// failures are reported inside the results.
func (s *Server) extract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderJSON(w, http.StatusBadRequest, apiError{Error: "invalid JSON in request body"})

		return
	}

	if len(req.Domains) == 0 {
		renderJSON(w, http.StatusBadRequest, apiError{Error: "no domains provided"})

		return
	}

	// Strict domain matching is the default; the flag only relaxes it.
	strict := true
	if req.StrictDomainMatch != nil {
		strict = *req.StrictDomainMatch
	}

	batchID := uuid.New().String()

	s.logger.Info("extract batch accepted",
		zap.String("batch_id", batchID),
		zap.Int("domains", len(req.Domains)),
		zap.Bool("strict", strict),
	)

	results := s.extractor.Crawl(r.Context(), crawler.Request{
		Domains:           req.Domains,
		StrictDomainMatch: strict,
		IncludeLinkedIn:   req.IncludeLinkedIn,
	})

	s.logger.Info("extract batch finished",
		zap.String("batch_id", batchID),
		zap.Int("results", len(results)),
	)

	renderJSON(w, http.StatusOK, extractResponse{OK: true, Results: results})
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func renderJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	_ = json.NewEncoder(w).Encode(data)
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")

		next.ServeHTTP(w, r)
	})
}
