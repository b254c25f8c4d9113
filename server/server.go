// Package server exposes the social network over a JSON REST API.
package server

import (
	"context"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"net/http"
	"socialite/auth"
	"socialite/config"
	"socialite/datastore"
	"socialite/log"
	"socialite/media"
	"socialite/service"
	"time"
)

// Server wires the services to HTTP routes
type Server struct {
	cfg      *config.Config
	auth     *service.AuthService
	users    *service.UserService
	posts    *service.PostService
	comments *service.CommentService
	images   *media.Host
	limiter  *rateLimiter
	router   *mux.Router
}

// New builds the API on top of store. images may be nil, in which case uploads fail.
func New(cfg *config.Config, store datastore.Store, images *media.Host) *Server {
	s := &Server{
		cfg:      cfg,
		auth:     service.NewAuthService(store, auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)),
		users:    service.NewUserService(store),
		posts:    service.NewPostService(store),
		comments: service.NewCommentService(store),
		images:   images,
		limiter:  newRateLimiter(float64(cfg.RateLimit), cfg.RateBurst),
	}
	s.router = s.routes()
	return s
}

// Handler is the complete HTTP handler, middleware included
func (s *Server) Handler() http.Handler {
	return recoverer(cors(s.cfg.CORSOrigin, s.router))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.HTTPAddr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}
	s.limiter.startCleanup(ctx, 10*time.Minute)

	errCh := make(chan error, 1)
	go func() {
		PrintLogo()
		log.Logger().Infof("started HTTP listener on %s", s.cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrapf(err, "listening on %s failed", s.cfg.HTTPAddr)
	case <-ctx.Done():
	}

	log.Logger().Info("shutting down HTTP listener")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "graceful shutdown failed")
	}
	return nil
}
