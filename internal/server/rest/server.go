// Package rest exposes the sauce and auth services over HTTP.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/piiquante/internal/logging"
	"github.com/dmitrijs2005/piiquante/internal/ratelimit"
	"github.com/dmitrijs2005/piiquante/internal/server/assets"
	"github.com/dmitrijs2005/piiquante/internal/server/config"
	"github.com/dmitrijs2005/piiquante/internal/server/services"
	"github.com/dmitrijs2005/piiquante/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	config      *config.Config
	logger      logging.Logger
	users       *services.UserService
	sauces      *services.SauceService
	db          Pinger
	validator   *validation.Validator
	authLimiter *ratelimit.KeyedRateLimiter
	router      *chi.Mux
}

func NewServer(cfg *config.Config, l logging.Logger, us *services.UserService, ss *services.SauceService, db Pinger) *Server {
	s := &Server{
		config:      cfg,
		logger:      l.With("module", "rest_server"),
		users:       us,
		sauces:      ss,
		db:          db,
		validator:   validation.New(),
		authLimiter: ratelimit.New(cfg.AuthRatePerMinute, time.Minute, cfg.AuthRateBurst),
		router:      chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	if s.config.TrustProxyHeaders {
		s.router.Use(middleware.RealIP)
	}
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content", "Accept", "Content-Type", "Authorization"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	if s.config.AssetBackend == config.AssetBackendFS {
		fs := http.StripPrefix(assets.ImagesRoute+"/", http.FileServer(http.Dir(s.config.ImagesDir)))
		s.router.Get(assets.ImagesRoute+"/*", fs.ServeHTTP)
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/signup", s.handleSignup)
			r.Post("/login", s.handleLogin)
		})

		r.Route("/sauces", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListSauces)
			r.Post("/", s.handleCreateSauce)
			r.Get("/{id}", s.handleGetSauce)
			r.Put("/{id}", s.handleUpdateSauce)
			r.Delete("/{id}", s.handleDeleteSauce)
			r.Post("/{id}/like", s.handleVote)
		})
	})
}

// Run serves HTTP on the configured address until ctx is done, then shuts
// down gracefully within ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.config.HTTPAddr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ShutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	defer s.authLimiter.Stop()
	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}
