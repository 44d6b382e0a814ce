// Package httpapi exposes the pipeline over HTTP. It only translates wire
// requests and responses; all semantics live in the pipeline package.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/tavanbogd/nextaction/internal/config"
	"github.com/tavanbogd/nextaction/internal/observability"
	"github.com/tavanbogd/nextaction/internal/pipeline"
	"github.com/tavanbogd/nextaction/internal/store"
)

type Server struct {
	cfg      config.Config
	pipeline *pipeline.Service
	metrics  *observability.Metrics
	logger   *zap.Logger
}

func New(cfg config.Config, p *pipeline.Service, metrics *observability.Metrics, logger *zap.Logger) *Server {
	return &Server{
		cfg:      cfg,
		pipeline: p,
		metrics:  metrics,
		logger:   logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Get("/api/test", s.handleTest)
	r.Post("/api/next_action", s.handleNextAction)
	r.Post("/api/filter_response", s.handleFilterResponse)
	r.Get("/api/ws", s.handleWS)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

func (s *Server) handleTest(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"message": "API амжилттай ажиллаж байна!"})
}

type nextActionRequest struct {
	CustomerID string `json:"customer_id"`
	EmpID      string `json:"emp_id"`
}

type filterRequest struct {
	EmpID string `json:"emp_id"`
}

type filterResponse struct {
	Results []store.Recommendation `json:"results"`
	Count   int                    `json:"count"`
}

func (s *Server) handleNextAction(w http.ResponseWriter, r *http.Request) {
	var req nextActionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.metrics.Requests.WithLabelValues("bad_request").Inc()
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.CustomerID) == "" {
		s.metrics.Requests.WithLabelValues("bad_request").Inc()
		respondError(w, http.StatusBadRequest, "invalid_request", "customer_id required")
		return
	}
	if strings.TrimSpace(req.EmpID) == "" {
		s.metrics.Requests.WithLabelValues("bad_request").Inc()
		respondError(w, http.StatusBadRequest, "invalid_request", "emp_id required")
		return
	}

	rec, err := s.pipeline.NextAction(r.Context(), req.CustomerID, req.EmpID)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoData) {
			s.metrics.Requests.WithLabelValues("no_data").Inc()
			respondError(w, http.StatusNotFound, "no_data", "Өгөгдөл олдсонгүй")
			return
		}
		s.logger.Error("next action failed",
			zap.String("customer_id", req.CustomerID),
			zap.String("emp_id", req.EmpID),
			zap.Error(err),
		)
		s.metrics.Requests.WithLabelValues("error").Inc()
		respondError(w, http.StatusInternalServerError, "pipeline_error", "recommendation could not be generated")
		return
	}

	s.metrics.Requests.WithLabelValues("ok").Inc()
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleFilterResponse(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.EmpID) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "emp_id required")
		return
	}

	results, err := s.pipeline.ListByEmployee(r.Context(), req.EmpID)
	if err != nil {
		s.logger.Error("recommendation query failed", zap.String("emp_id", req.EmpID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "store_error", "recommendations could not be listed")
		return
	}
	respondJSON(w, http.StatusOK, filterResponse{Results: results, Count: len(results)})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("request body required")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
