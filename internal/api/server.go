// Package api serves the books over HTTP: chart of accounts, files, transactions, category
// suggestions and the profit and loss statement.
package api

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/bookkeeper/internal/engine"
	"github.com/Veraticus/bookkeeper/internal/service"
	"github.com/gin-gonic/gin"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8080"

const shutdownTimeout = 10 * time.Second

// Server holds the gin engine and its dependencies.
type Server struct {
	router  *gin.Engine
	storage service.Storage
	engine  *engine.Engine
	logger  *slog.Logger
	tls     *tls.Config
}

// NewServer creates a server with every route registered.
func NewServer(storage service.Storage, eng *engine.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		storage: storage,
		engine:  eng,
		logger:  logger,
	}

	s.router = gin.New()
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.health)

	api := s.router.Group("/api")
	{
		categories := api.Group("/categories")
		{
			categories.GET("", s.listCategories)
			categories.POST("", s.createCategory)
		}

		files := api.Group("/files")
		{
			files.GET("", s.listFiles)
			files.PATCH("/:id", s.renameFile)
			files.DELETE("/:id", s.deleteFile)
			files.GET("/:id/transactions", s.listFileTransactions)
			files.PATCH("/:id/transactions/:txn", s.setTransactionCategory)
		}

		api.GET("/transactions", s.searchTransactions)
		api.POST("/suggest", s.suggest)

		api.GET("/pnl", s.profitAndLoss)
		api.GET("/pnl/csv", s.profitAndLossCSV)
	}
}

// requestLogger logs each request with slog once it completes.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// WithTLS makes Run serve HTTPS with cfg.
func (s *Server) WithTLS(cfg *tls.Config) *Server {
	s.tls = cfg
	return s
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		TLSConfig:         s.tls,
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if s.tls != nil {
			s.logger.Info("Server listening", "address", addr, "tls", true)
			err = srv.ListenAndServeTLS("", "")
		} else {
			s.logger.Info("Server listening", "address", addr)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.logger.Info("Server exited properly")
	return nil
}
