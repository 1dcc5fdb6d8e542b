package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Server はクエリ投入と状態参照のHTTPサーフェスを提供する
type Server struct {
	engine *gin.Engine
	logger *slog.Logger
}

type serverOptions struct {
	logger *slog.Logger
}

// ServerOption は Server 構築時のオプション
type ServerOption func(*serverOptions)

// WithServerLogger はロガーを差し替える
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(opts *serverOptions) {
		opts.logger = logger
	}
}

// NewServer は新しい Server を作成する
func NewServer(jobs JobService, opts ...ServerOption) *Server {
	options := serverOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	h := &handler{
		jobs:   jobs,
		logger: options.logger,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), cors())

	engine.GET("/", h.root)
	engine.POST("/index", h.createJob)
	engine.GET("/loading", h.getJobStatus)

	return &Server{
		engine: engine,
		logger: options.logger,
	}
}

// Handler はテストや埋め込み用にhttp.Handlerを返す
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run はサーバを起動し、コンテキストのキャンセルで
// グレースフルシャットダウンする
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// cors は全オリジン許可のCORSミドルウェアを返す
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "*")
		c.Header("Access-Control-Allow-Headers", "*")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
