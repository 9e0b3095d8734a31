// Package web serves the chat widget and its JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/gofiber/template/html/v3"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/nathfavour/pippin/pkg/brain"
	"github.com/nathfavour/pippin/pkg/chat"
	"github.com/nathfavour/pippin/pkg/config"
	"github.com/nathfavour/pippin/pkg/logging"
	"github.com/nathfavour/pippin/pkg/memory"
	"github.com/nathfavour/pippin/pkg/metrics"
)

//go:embed views/*.html
var viewsFS embed.FS

const surface = "web"

type Option func(*Server)

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = logging.OrNop(l) }
}

// WithRegistry sets where reply metrics are registered and scraped from.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// WithSleep replaces the thinking pause, mostly for tests.
func WithSleep(sleep func(time.Duration)) Option {
	return func(s *Server) { s.sleep = sleep }
}

// Server wraps the Fiber app and the per-session conversations.
type Server struct {
	App *fiber.App
	Cfg *config.Settings

	persona       brain.Persona
	responder     *metrics.Responder
	recorder      *metrics.Recorder
	registry      *prometheus.Registry
	conversations *memory.EphemeralStore[*chat.Conversation]
	sleep         func(time.Duration)
	logger        *zap.Logger
}

// New creates a server with middleware and routes configured.
func New(cfg *config.Settings, sel *brain.Selector, opts ...Option) (*Server, error) {
	s := &Server{
		Cfg:           cfg,
		persona:       sel.Persona(),
		registry:      prometheus.NewRegistry(),
		conversations: memory.NewEphemeralStore[*chat.Conversation](),
		sleep:         time.Sleep,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.recorder = metrics.New(s.registry)
	s.responder = metrics.NewResponder(sel, s.recorder, surface)

	views, err := fs.Sub(viewsFS, "views")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(views), ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
				message = e.Message
			}
			if code >= fiber.StatusInternalServerError {
				s.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
			}
			return jsonError(c, code, message)
		},
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(s.requestLogger)

	sessionMiddleware, _ := session.NewWithStore(session.Config{
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		IdleTimeout:    cfg.SessionTTL,
	})
	app.Use(sessionMiddleware)

	if cfg.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit,
			Expiration: time.Minute,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return jsonError(c, fiber.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			},
		}))
	}

	s.App = app
	s.registerRoutes()
	return s, nil
}

func (s *Server) requestLogger(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("latency", time.Since(start)),
	)
	return err
}

// Start listens on the configured address until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Cfg.ServerAddr)
	if err != nil {
		return fmt.Errorf("web listen %s: %w", s.Cfg.ServerAddr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the app on ln until ctx is cancelled. It returns once the app
// and the conversation sweeper have both stopped.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	swept := make(chan struct{})
	go func() {
		defer close(swept)
		s.sweep(ctx)
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.App.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true})
	}()
	s.logger.Info("web chat listening", zap.String("addr", ln.Addr().String()))

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		err = s.App.ShutdownWithContext(shutdownCtx)
		stop()
		_ = ln.Close()
		<-errCh
	}
	cancel()
	<-swept
	return err
}

func (s *Server) sweep(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.conversations.Sweep(); n > 0 {
				s.logger.Debug("expired conversations dropped", zap.Int("count", n))
			}
		}
	}
}

// Recorder exposes the server's reply counters so other surfaces can share them.
func (s *Server) Recorder() *metrics.Recorder {
	return s.recorder
}
