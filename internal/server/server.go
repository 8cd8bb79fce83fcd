// Package server exposes the notes pipeline over HTTP and websocket.
//
// Routes:
//
//	GET  /healthz        liveness
//	GET  /api/sections   section catalogue
//	POST /api/notes      pipeline.Params in, rendered document out
//	POST /api/normalize  {"reply": "..."} in, normalized notes out
//	GET  /ws/notes       one Params message in, stage events and a result out
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/alnah/studynotes/internal/logger"
	"github.com/alnah/studynotes/internal/pipeline"
)

// Defaults.
const (
	DefaultAddr    = "127.0.0.1:8080"
	defaultMaxBody = 4 << 20
	shutdownGrace  = 10 * time.Second
)

// Server serves one Runner. It holds no per-request state.
type Server struct {
	runner   *pipeline.Runner
	log      logger.Logger
	maxBody  int64
	upgrader websocket.Upgrader
	engine   *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithMaxBody bounds request bodies in bytes.
func WithMaxBody(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithAllowedOrigin restricts websocket upgrades to one Origin. Without it
// any origin is accepted.
func WithAllowedOrigin(origin string) Option {
	return func(s *Server) {
		s.upgrader.CheckOrigin = func(r *http.Request) bool {
			return r.Header.Get("Origin") == "" || r.Header.Get("Origin") == origin
		}
	}
}

// New builds the router around runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		log:     logger.Discard(),
		maxBody: defaultMaxBody,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog(), s.limitBody())
	r.GET("/healthz", s.health)
	api := r.Group("/api")
	{
		api.GET("/sections", s.sections)
		api.POST("/notes", s.notes)
		api.POST("/normalize", s.normalize)
	}
	r.GET("/ws/notes", s.wsNotes)
	s.engine = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info(c.Request.Context(), "%s %s %d %s", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}

func (s *Server) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBody)
		}
		c.Next()
	}
}

func setRunHeaders(c *gin.Context, a pipeline.Analysis) {
	if a.RunID != "" {
		c.Header("X-Run-ID", a.RunID)
	}
	if len(a.Failures) > 0 {
		c.Header("X-Division-Failures", strconv.Itoa(len(a.Failures)))
	}
}
