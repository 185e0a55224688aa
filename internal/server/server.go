// Package server exposes the analyzer over HTTP, mirroring the original
// lab workflow: upload a chamber image, get the count back as JSON, and
// keep the annotated image for audit.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	"rbc-analyzer/internal/analyzer"
	"rbc-analyzer/internal/resultdb"
)

// Server wires the analyzer and result store to HTTP routes.
type Server struct {
	log      zerolog.Logger
	analyzer *analyzer.Analyzer
	db       *resultdb.DB
	router   *httprouter.Router
}

// New creates a Server. The result store is optional; without it the
// server still analyzes but persists nothing.
func New(log zerolog.Logger, a *analyzer.Analyzer, db *resultdb.DB) *Server {
	s := &Server{
		log:      log,
		analyzer: a,
		db:       db,
	}

	router := httprouter.New()
	router.GET("/", s.httpIndex)
	router.POST("/analyze", s.httpAnalyze)
	router.POST("/screen", s.httpScreen)
	router.GET("/results", s.httpResults)
	router.GET("/results/:id/image", s.httpResultImage)
	s.router = router

	return s
}

// Handler returns the root HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving HTTP on the given port (":8080").
func (s *Server) ListenAndServe(port string) error {
	s.log.Info().Str("port", port).Msg("listening")
	return http.ListenAndServe(port, s.router)
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) sendError(w http.ResponseWriter, status int, msg string) {
	s.sendJSON(w, status, map[string]string{"error": msg})
}
