// Package server exposes the lookup service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/ppiankov/numinfo/internal/model"
	"github.com/ppiankov/numinfo/internal/notify"
	"github.com/ppiankov/numinfo/internal/pipeline"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Server is the HTTP API around a pipeline.Service. Submissions are
// serialized: a second one while another runs is refused with 409.
type Server struct {
	echo    *echo.Echo
	svc     *pipeline.Service
	notices *notify.Collector
	logger  *zap.Logger
	cfg     model.ServerConfig
	busy    sync.Mutex
}

// New builds the server. notices must be the collector the service and its
// client report to; it is drained into every submission response.
func New(cfg model.ServerConfig, svc *pipeline.Service, notices *notify.Collector, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notices == nil {
		notices = notify.NewCollector()
	}

	s := &Server{
		echo:    echo.New(),
		svc:     svc,
		notices: notices,
		logger:  logger,
		cfg:     cfg,
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			switch {
			case v.Status >= 500:
				logger.Error("request", fields...)
			case v.Status >= 400:
				logger.Warn("request", fields...)
			default:
				logger.Info("request", fields...)
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealth)

	api := s.echo.Group("/api")
	api.POST("/lookup", s.handleLookup)
	api.POST("/batch", s.handleBatch)
	api.POST("/upload", s.handleUpload, middleware.BodyLimit(bodyLimit(s.cfg.MaxUploadSize)))
	api.POST("/summary", s.handleSummary)
	api.POST("/export", s.handleExport)
}

// Handler returns the server as an http.Handler
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	s.echo.Server.ReadTimeout = s.cfg.ReadTimeout

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", addr))
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// acquire claims the submission slot. The returned release drains notices
// produced by the submission.
func (s *Server) acquire() (release func() []notify.Notice, ok bool) {
	if !s.busy.TryLock() {
		return nil, false
	}
	s.notices.Drain()
	return func() []notify.Notice {
		defer s.busy.Unlock()
		return s.notices.Drain()
	}, true
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = fmt.Sprint(he.Message)
	} else {
		s.logger.Error("unhandled error", zap.Error(err))
	}

	if err := c.JSON(code, errorResponse{Error: message}); err != nil {
		s.logger.Warn("write error response", zap.Error(err))
	}
}

// bodyLimit renders a byte count for middleware.BodyLimit, leaving room
// for multipart framing around the file itself
func bodyLimit(maxUpload int64) string {
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}
	return fmt.Sprintf("%dK", maxUpload/1024+64)
}
