package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"study-assistant/internal/config"
	"study-assistant/internal/study"
)

const (
	HeaderSessionID = "X-Session-ID"

	bodyLimit       = "32M"
	shutdownTimeout = 10 * time.Second
	defaultTTL      = 30 * time.Minute
)

// Server exposes the study assistant over HTTP. Each client holds a session id; the state
// behind it lives in memory for the lifetime of the process.
type Server struct {
	echo      *echo.Echo
	assistant *study.Assistant
	sessions  *registry
	cfg       config.ServerConfig
}

func New(assistant *study.Assistant, cfg config.ServerConfig) *Server {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultTTL
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		assistant: assistant,
		sessions:  newRegistry(cfg.SessionTTL, assistant.Release),
		cfg:       cfg,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("session", c.Request().Header.Get(HeaderSessionID)).
				Msg("request")
			return nil
		},
	}))
	if len(cfg.AllowOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:  cfg.AllowOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, HeaderSessionID},
			ExposeHeaders: []string{HeaderSessionID},
		}))
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/healthz", s.health)

	api := s.echo.Group("/api")
	api.POST("/sessions", s.createSession)
	api.DELETE("/sessions", s.deleteSession)
	api.POST("/sessions/save", s.saveSession)
	api.POST("/documents", s.uploadDocument)
	api.POST("/notes", s.notes)
	api.POST("/summary", s.summary)
	api.POST("/flashcards", s.flashcards)
	api.POST("/quiz", s.quiz)
	api.POST("/chat", s.chat)
	api.POST("/interview", s.startInterview)
	api.POST("/interview/answer", s.answerInterview)
	api.DELETE("/interview", s.endInterview)
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.cfg.Addr).Msg("Starting server")
		errCh <- s.echo.Start(s.cfg.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}
