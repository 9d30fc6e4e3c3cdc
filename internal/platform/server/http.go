package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/ogurasousui/feedback-exchange/internal/adapters/http/handler"
	"github.com/ogurasousui/feedback-exchange/internal/platform/metrics"
)

// HTTPOptions は HTTP サーバーの構成要素です。Metrics と Health は省略できます。
type HTTPOptions struct {
	ListenAddr      string
	ShutdownTimeout time.Duration
	Logger          *log.Logger
	Metrics         *metrics.Metrics
	Health          HealthCheck
}

// HTTPServer は echo による HTTP API のライフサイクルを管理します。
type HTTPServer struct {
	Echo            *echo.Echo
	listenAddr      string
	shutdownTimeout time.Duration
}

// NewHTTP は /api 配下に業務ルートと運用エンドポイントを登録した HTTPServer を構築します。
func NewHTTP(opts HTTPOptions, handlers handler.Handlers) *HTTPServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	if opts.Logger != nil {
		e.Logger = opts.Logger
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if opts.Metrics != nil {
		e.Use(opts.Metrics.Middleware())
	}

	api := e.Group("/api")
	api.GET("/health", func(c echo.Context) error {
		if opts.Health != nil {
			if err := opts.Health(c.Request().Context()); err != nil {
				c.Logger().Warnf("health check failed: %v", err)
				return c.String(http.StatusServiceUnavailable, "UNAVAILABLE")
			}
		}
		return c.String(http.StatusOK, "OK")
	})
	if opts.Metrics != nil {
		api.GET("/metrics", opts.Metrics.Handler())
	}
	handlers.Register(api)

	return &HTTPServer{
		Echo:            e,
		listenAddr:      opts.ListenAddr,
		shutdownTimeout: opts.ShutdownTimeout,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると処理中のリクエストを待って停止します。
func (s *HTTPServer) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.Echo.Shutdown(shutdownCtx); err != nil {
			s.Echo.Logger.Errorf("shutdown http server: %v", err)
		}
	}()

	if err := s.Echo.Start(s.listenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve HTTP: %w", err)
	}
	return nil
}
