// Package server exposes the ledger over HTTP: signed transactions in,
// records and tallies out.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"okinoko_ledger/contract"
)

type Server struct {
	ledger *contract.Ledger
	logger *slog.Logger
	engine *gin.Engine
}

// New builds the router. allowOrigins enables CORS for browser clients; nil disables it.
func New(ledger *contract.Ledger, logger *slog.Logger, allowOrigins []string) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{ledger: ledger, logger: logger, engine: gin.New()}
	s.engine.Use(gin.Recovery(), s.requestLog())
	if len(allowOrigins) > 0 {
		s.engine.Use(cors.New(cors.Config{
			AllowOrigins:  allowOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}
	s.attachRoutes()
	return s
}

func (s *Server) attachRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	txH := transactions{ledger: s.ledger}
	queryH := queries{ledger: s.ledger}
	addrH := addresses{ledger: s.ledger}

	v1 := s.engine.Group("/v1")
	{
		v1.POST("/tx", txH.Submit)

		v1.GET("/organization", queryH.Organization)
		v1.GET("/proposals", queryH.Proposals)
		v1.GET("/proposals/:id", queryH.Proposal)
		v1.GET("/proposals/:id/results", queryH.Results)
		v1.GET("/proposals/:id/ballots/:voter", queryH.Ballot)
		v1.GET("/voters/:voter/ballots", queryH.VoterBallots)

		v1.GET("/addresses/organization", addrH.Organization)
		v1.GET("/addresses/proposal/:id", addrH.Proposal)
		v1.GET("/addresses/ballot/:id/:voter", addrH.Ballot)
	}
}

// Handler returns the router for use with any http.Server or httptest.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		s.logger.Info("http server stopped")
		return nil
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
