package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"moviebook/errs"
	"moviebook/movie"
	"moviebook/pkg/config"
	"moviebook/pkg/sentry"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	// Router is the Echo router instance
	Router *echo.Echo

	// Addr represents the address the server will listen on
	Addr string

	// Allowed origins for CORS
	AllowOrigins []string

	MovieService movie.Service

	Logger *slog.Logger

	upgrader websocket.Upgrader
}

func Default(cfg *config.Config) *Server {
	s := Server{
		Router:       echo.New(),
		Addr:         ":8080",
		AllowOrigins: []string{"*"},
		Logger:       slog.Default(),
	}
	if cfg.Port != 0 {
		s.Addr = fmt.Sprintf(":%d", cfg.Port)
	}
	if origins := splitOrigins(cfg.AllowOrigins); len(origins) > 0 {
		s.AllowOrigins = origins
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}

	s.Router.HideBanner = true
	s.Router.HTTPErrorHandler = s.handleHTTPError
	s.Router.Validator = NewValidator()
	s.RegisterGlobalMiddlewares()

	api := s.Router.Group("/api")
	s.RegisterMovieRoutes(api)
	s.RegisterBookmarkRoutes(api)
	s.RegisterScreenRoutes(api.Group("/screens"))
	s.RegisterHealthRoutes()
	return &s
}

func (s *Server) RegisterGlobalMiddlewares() {
	s.Router.Use(middleware.Recover())
	s.Router.Use(middleware.Secure())
	s.Router.Use(middleware.RequestID())
	s.Router.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: isStreamRequest,
	}))
	s.Router.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	s.Router.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: isStreamRequest,
		Store:   middleware.NewRateLimiterMemoryStore(20),
	}))
	s.Router.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.Logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			)
			return nil
		},
	}))

	// CORS
	if len(s.AllowOrigins) > 0 {
		s.Router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.AllowOrigins,
		}))
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) Start() error {
	return s.Router.Start(s.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Router.Shutdown(ctx)
}

// handleHTTPError maps application errors to HTTP status codes. Server
// errors are logged and reported to sentry.
func (s *Server) handleHTTPError(err error, c echo.Context) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		message = fmt.Sprint(he.Message)
	} else {
		switch errs.ErrorCode(err) {
		case errs.EINVALID:
			status = http.StatusBadRequest
			message = errs.ErrorMessage(err)
		case errs.ENOTFOUND:
			status = http.StatusNotFound
			message = errs.ErrorMessage(err)
		case errs.ECONFLICT:
			status = http.StatusConflict
			message = errs.ErrorMessage(err)
		case errs.EUNAUTHORIZED:
			status = http.StatusUnauthorized
			message = errs.ErrorMessage(err)
		case errs.ENOTIMPLEMENTED:
			status = http.StatusNotImplemented
			message = errs.ErrorMessage(err)
		case errs.EUNAVAILABLE:
			status = http.StatusServiceUnavailable
			message = errs.ErrorMessage(err)
		}
	}

	if status >= http.StatusInternalServerError {
		s.Logger.ErrorContext(c.Request().Context(), "request failed",
			"error", err,
			"status", status,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		)
		sentry.WithContext(c).Error(err)
	}

	// Don't write response if already committed
	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	if werr := writeError(c, status, message, "", err); werr != nil {
		s.Logger.Error("write error response", "error", werr)
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.AllowOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

func isStreamRequest(c echo.Context) bool {
	return c.Path() == bookmarkStreamPath
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
