// Copyright © 2025 jackelyj <dreamerlyj@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/innovationmech/scaffold/internal/scaffold/config"
	"github.com/innovationmech/scaffold/internal/scaffold/handler/http/health"
	itemv1 "github.com/innovationmech/scaffold/internal/scaffold/handler/http/item/v1"
	"github.com/innovationmech/scaffold/internal/scaffold/interfaces"
	"github.com/innovationmech/scaffold/internal/scaffold/middleware"
	"github.com/innovationmech/scaffold/internal/scaffold/repository"
	itemsrv "github.com/innovationmech/scaffold/internal/scaffold/service/item/v1"
	"github.com/innovationmech/scaffold/internal/scaffold/types"
	"github.com/innovationmech/scaffold/pkg/logger"
)

// Server is the HTTP server of the scaffold application.
type Server struct {
	settings *config.Settings
	engine   *gin.Engine
	srv      *http.Server
	registry *prometheus.Registry
	metrics  *middleware.Metrics
	mapper   *middleware.ErrorMapper

	db       *gorm.DB
	itemSrv  interfaces.ItemService
	log      *zap.Logger
	reporter func(context.Context, error)

	mu       sync.Mutex
	listener net.Listener
}

// Option configures a Server.
type Option func(*Server)

// WithItemService replaces the item service built from the repository.
func WithItemService(srv interfaces.ItemService) Option {
	return func(s *Server) {
		s.itemSrv = srv
	}
}

// WithLogger sets the logger used for error records.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithDB backs the item repository with db instead of memory.
func WithDB(db *gorm.DB) Option {
	return func(s *Server) {
		s.db = db
	}
}

// WithReporter forwards internal errors, e.g. middleware.SentryReporter.
func WithReporter(report func(context.Context, error)) Option {
	return func(s *Server) {
		s.reporter = report
	}
}

// WithErrorMapper replaces the default error mapper.
func WithErrorMapper(mapper *middleware.ErrorMapper) Option {
	return func(s *Server) {
		s.mapper = mapper
	}
}

// NewServer builds the router and the HTTP server for settings.
func NewServer(settings *config.Settings, opts ...Option) (*Server, error) {
	if settings == nil {
		return nil, errors.New("settings are required")
	}

	s := &Server{settings: settings}
	for _, opt := range opts {
		opt(s)
	}

	if s.log == nil {
		s.log = logger.GetLogger()
	}
	if s.mapper == nil {
		s.mapper = middleware.NewErrorMapper()
	}

	if s.itemSrv == nil {
		var repo repository.ItemRepository
		if s.db != nil {
			repo = repository.NewItemRepository(s.db)
		} else {
			repo = repository.NewMemoryItemRepository(repository.SampleItems()...)
		}
		srv, err := itemsrv.NewItemSrv(itemsrv.WithItemRepository(repo), itemsrv.WithLogger(s.log))
		if err != nil {
			return nil, fmt.Errorf("create item service: %w", err)
		}
		s.itemSrv = srv
	}

	if settings.MetricsEnabled {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := middleware.NewMetrics(s.registry)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		s.metrics = metrics
	}

	s.engine = s.setupRoutes()
	s.srv = &http.Server{
		Addr:         settings.Addr(),
		Handler:      s.engine,
		ReadTimeout:  settings.Timeout(),
		WriteTimeout: settings.Timeout(),
	}
	return s, nil
}

func (s *Server) setupRoutes() *gin.Engine {
	if s.settings.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestLogger(nil),
		middleware.CORS(middleware.CORSConfig{
			AllowOrigins:     s.settings.AllowOrigins,
			AllowMethods:     s.settings.AllowMethods,
			AllowHeaders:     s.settings.AllowHeaders,
			AllowCredentials: s.settings.AllowCredentials,
		}),
		middleware.CaptureBody(),
	)
	if s.metrics != nil {
		router.Use(s.metrics.Middleware())
	}
	router.Use(middleware.CurrentUser(s.settings.JWTSecret))

	handlerOpts := []middleware.HandlerOption{}
	if s.metrics != nil {
		handlerOpts = append(handlerOpts, middleware.WithMetrics(s.metrics))
	}
	if s.reporter != nil {
		handlerOpts = append(handlerOpts, middleware.WithReporter(s.reporter))
	}
	router.Use(middleware.ErrorHandler(s.mapper, s.log, handlerOpts...))

	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(types.NewNotFoundError(""))
	})

	var pinger health.Pinger
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			pinger = sqlDB
		}
	}
	health.NewHandler(s.settings.AppVersion, s.settings.Environment, pinger).RegisterRoutes(router)

	if s.registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})))
	}

	api := router.Group(s.settings.APIPrefix)
	itemv1.NewItemHandler(s.itemSrv).RegisterRoutes(api)

	return router
}

// Handler returns the HTTP handler, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.log.Info("HTTP server listening",
		zap.String("app", s.settings.AppName),
		zap.String("version", s.settings.AppVersion),
		zap.String("environment", s.settings.Environment),
		zap.String("address", ln.Addr().String()),
		zap.Bool("debug", s.settings.Debug))

	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Address returns the bound address once serving, or the configured one.
func (s *Server) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.srv.Addr
}

// Shutdown stops accepting connections and waits for active requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("HTTP server shutting down")
	return s.srv.Shutdown(ctx)
}
