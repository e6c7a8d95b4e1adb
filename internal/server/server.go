// Package server provides the HTTP API for PeerMatch.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ninerlabs/peermatch/internal/config"
	"github.com/ninerlabs/peermatch/internal/indexer"
	"github.com/ninerlabs/peermatch/internal/keyword"
	"github.com/ninerlabs/peermatch/internal/matcher"
	"github.com/ninerlabs/peermatch/internal/search"
	"github.com/ninerlabs/peermatch/internal/similarity"
	"github.com/ninerlabs/peermatch/internal/storage"
	"github.com/ninerlabs/peermatch/internal/vector"
)

// Server is the HTTP server for the PeerMatch API.
type Server struct {
	engine       *search.Engine
	indexer      *indexer.Indexer
	matcher      *matcher.Matcher
	scorer       *similarity.Scorer
	storage      storage.Storage
	keywordIndex keyword.KeywordIndex
	vectorIndex  vector.VectorIndex
	config       *config.Config
	logger       *zap.Logger
	server       *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *search.Engine,
	idx *indexer.Indexer,
	match *matcher.Matcher,
	scorer *similarity.Scorer,
	store storage.Storage,
	keywordIndex keyword.KeywordIndex,
	vectorIndex vector.VectorIndex,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:       engine,
		indexer:      idx,
		matcher:      match,
		scorer:       scorer,
		storage:      store,
		keywordIndex: keywordIndex,
		vectorIndex:  vectorIndex,
		config:       cfg,
		logger:       logger,
	}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/profiles", s.handleUpsertProfile)
	r.Get("/api/v1/profiles/{id}", s.handleGetProfile)
	r.Delete("/api/v1/profiles/{id}", s.handleDeleteProfile)
	r.Get("/api/v1/profiles/{id}/matches", s.handleMatches)
	r.Post("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/score", s.handleScore)
	r.Post("/api/v1/swipes", s.handleSwipe)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
