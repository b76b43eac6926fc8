// Package server exposes the federation node's HTTP surface: dataset search,
// peer registry, service info, health, and metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dbsmedya/fedsearch/internal/config"
	"github.com/dbsmedya/fedsearch/internal/federation"
	"github.com/dbsmedya/fedsearch/internal/logger"
	"github.com/dbsmedya/fedsearch/internal/query"
	"github.com/dbsmedya/fedsearch/internal/registry"
)

// SearchRunner executes one federated dataset search. Implemented by
// federation.Orchestrator; narrowed to an interface so handlers can be
// tested against a stub.
type SearchRunner interface {
	Run(
		ctx context.Context,
		schema *federation.ObjectSchema,
		dataset *federation.Dataset,
		joinQuery query.Node,
		dataTypeQueries *query.DataTypeQueries,
		includeInternal bool,
		authHeader string,
	) (*federation.SearchOutcome, error)
}

// PeerStore is the registry surface the server needs.
type PeerStore interface {
	UpsertPeer(ctx context.Context, url string) error
	ListPeers(ctx context.Context) ([]registry.Peer, error)
}

// Server hosts the federation HTTP API.
type Server struct {
	cfg    *config.Config
	runner SearchRunner
	peers  PeerStore
	logger *logger.Logger
	router *gin.Engine
}

// New assembles the server and its routes.
func New(cfg *config.Config, runner SearchRunner, peers PeerStore, log *logger.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if runner == nil {
		return nil, fmt.Errorf("search runner is nil")
	}
	if peers == nil {
		return nil, fmt.Errorf("peer store is nil")
	}
	if log == nil {
		log = logger.NewDefault()
	}

	s := &Server{
		cfg:    cfg,
		runner: runner,
		peers:  peers,
		logger: log,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	base := router.Group(cfg.Server.BasePath)
	base.GET("/health", s.handleHealth)
	base.GET("/service-info", s.handleServiceInfo)
	base.GET("/metrics", gin.WrapH(promhttp.Handler()))
	base.GET("/peers", s.handleListPeers)
	base.POST("/peers", s.handleAddPeer)
	base.POST("/dataset-search", s.handleDatasetSearch(false))
	base.POST("/private/dataset-search", s.handleDatasetSearch(true))

	s.router = router
	return s, nil
}

// Router returns the underlying handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("Server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Infow("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
