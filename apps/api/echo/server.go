package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"go.uber.org/dig"
	"golang.org/x/time/rate"

	"github.com/trezcool/fsnd/core"
	"github.com/trezcool/fsnd/core/auth"
	"github.com/trezcool/fsnd/core/coffee"
	"github.com/trezcool/fsnd/core/trivia"
)

type (
	// Deps are the collaborators of the API server.
	Deps struct {
		dig.In

		Conf       *core.Config
		Logger     core.Logger
		Gate       auth.Gate
		Validate   *validator.Validate
		Translator ut.Translator
		TriviaSvc  *trivia.Service
		CoffeeSvc  *coffee.Service
	}

	Server struct {
		conf       *core.Config
		app        *echo.Echo
		logger     core.Logger
		gate       auth.Gate
		translator ut.Translator
		metrics    *metrics
		shutdown   chan os.Signal
		errors     chan error
	}
)

var _ http.Handler = (*Server)(nil)

func NewServer(deps Deps) *Server {
	s := &Server{
		conf:       deps.Conf,
		app:        echo.New(),
		logger:     deps.Logger,
		gate:       deps.Gate,
		translator: deps.Translator,
		metrics:    newMetrics(deps.Conf.AppName),
		shutdown:   make(chan os.Signal, 1),
		errors:     make(chan error, 1),
	}
	if !deps.Conf.TestMode {
		signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	}
	s.setup(deps)
	return s
}

func (s *Server) setup(deps Deps) {
	conf := s.conf

	s.app.HideBanner = true
	s.app.Debug = conf.Debug
	s.app.HTTPErrorHandler = s.httpErrorHandler

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	s.app.Use(s.metrics.middleware)
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: conf.Server.CORSOrigins,
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
	}))
	if conf.Server.RateLimit > 0 {
		s.app.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(conf.Server.RateLimit))))
	}

	s.app.GET("/", home)
	s.app.GET("/metrics", echo.WrapHandler(s.metrics.handler()))

	registerTriviaAPI(s.app, s.requires, deps.TriviaSvc, deps.Validate)
	registerCoffeeAPI(s.app, s.requires, deps.CoffeeSvc, deps.Validate)
}

// Start blocks until the server stops. Failures are reported on Errors().
func (s *Server) Start() {
	s.logger.Info("API listening on " + s.conf.Server.Address)
	if err := s.app.Start(s.conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- errors.Wrap(err, "starting server")
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already signaled
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, successResponse{Success: true, Message: "Welcome to the FSND API!"})
}
