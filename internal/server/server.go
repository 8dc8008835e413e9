package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"document-assistant/internal/assistant"
	"document-assistant/internal/config"
	"document-assistant/internal/processor"
	"document-assistant/internal/session"
)

// Server exposes the assistant over HTTP. All state lives in the injected
// session store; handlers only orchestrate the core packages.
type Server struct {
	echo      *echo.Echo
	cfg       *config.Config
	store     *session.Store
	processor *processor.Processor
	assistant *assistant.Assistant
}

func New(cfg *config.Config, store *session.Store, proc *processor.Processor, asst *assistant.Assistant) *Server {
	s := &Server{
		cfg:       cfg,
		store:     store,
		processor: proc,
		assistant: asst,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Content-Type"},
	}))
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		log.Error().Int("status", code).Str("method", req.Method).Str("path", req.URL.Path).Err(err).Msg("request failed")
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]string{"error": msg})
		}
	}

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.POST("/upload", s.upload)
	e.POST("/ask", s.ask)
	e.POST("/challenge", s.challenge)
	e.POST("/evaluate", s.evaluate)
	e.GET("/sessions", s.listSessions)
	e.GET("/session/:id", s.sessionInfo)
	e.GET("/session/:id/chunks", s.sessionChunks)
	e.DELETE("/session/:id", s.deleteSession)

	s.echo = e
	return s
}

// Start blocks serving HTTP on the configured address.
func (s *Server) Start() error {
	log.Info().Str("addr", s.cfg.Server.Addr).Msg("starting server")
	return s.echo.Start(s.cfg.Server.Addr)
}

// ServeHTTP makes the server usable with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
