// Package server exposes the search pipeline over a small HTTP surface.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/localscout/localscout/internal/model"
)

// Searcher runs one fused place search. Satisfied by *pipeline.Pipeline.
type Searcher interface {
	Run(ctx context.Context, q model.SearchQuery) []model.Place
}

// Server holds the router and its dependencies.
type Server struct {
	searcher Searcher
	router   chi.Router
}

// New builds the HTTP server around a Searcher.
func New(searcher Searcher, corsOrigins []string) *Server {
	s := &Server{searcher: searcher}

	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(recoverer)
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/types", s.handleTypes)
	r.Post("/search", s.handleSearch)

	s.router = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

type searchRequest struct {
	City string `json:"city"`
	Area string `json:"area"`
	Type string `json:"type"`
}

type searchResponse struct {
	Success bool          `json:"success"`
	Query   string        `json:"query"`
	Places  []model.Place `json:"places"`
	Count   int           `json:"count"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.City = strings.TrimSpace(req.City)
	req.Area = strings.TrimSpace(req.Area)
	req.Type = strings.TrimSpace(req.Type)
	if req.City == "" || req.Area == "" || req.Type == "" {
		writeError(w, http.StatusBadRequest, "city, area, and type are required")
		return
	}

	placeType, err := model.ParsePlaceType(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := model.SearchQuery{City: req.City, Area: req.Area, PlaceType: placeType}
	places := s.searcher.Run(r.Context(), q)

	writeJSON(w, http.StatusOK, searchResponse{
		Success: true,
		Query:   q.String(),
		Places:  places,
		Count:   len(places),
	})
}

func (s *Server) handleTypes(w http.ResponseWriter, _ *http.Request) {
	types := model.AllPlaceTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	writeJSON(w, http.StatusOK, map[string][]string{"types": out})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "localscout place search API"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// requestLogger attaches a request id and logs each request's outcome.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ww, r)

		zap.L().Info("http request",
			zap.String("request_id", reqID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

// recoverer converts panics into a generic 500. The stack stays
// server-side only.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				zap.L().Error("http panic",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()),
				)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
