// Copyright 2026 Gitdeck, Inc.
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server exposes the dashboard API over HTTP. Four resource
// endpoints serve one dashboard column each; every request passes through
// authentication, per-user rate limiting, and input validation before a
// fetcher runs.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gitdeckhq/gitdeck/internal/github"
	"github.com/gitdeckhq/gitdeck/internal/log"
	"github.com/gitdeckhq/gitdeck/internal/ratelimit"
	"github.com/gitdeckhq/gitdeck/internal/session"
)

const shutdownTimeout = 10 * time.Second

// Server serves the dashboard API.
type Server struct {
	sessions session.Provider
	limiter  *ratelimit.Limiter
	table    map[Resource]fetchFunc
	oauth    *session.OAuth

	mux  *http.ServeMux
	http *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithOAuth mounts the GitHub OAuth login and callback handlers.
func WithOAuth(oauth *session.OAuth) Option {
	return func(s *Server) {
		s.oauth = oauth
	}
}

// New builds a Server listening on addr. Every resource must have a
// fetcher; an incomplete dispatch table is an error, not a fallback.
func New(addr string, client github.Client, sessions session.Provider, limiter *ratelimit.Limiter, opts ...Option) (*Server, error) {
	table, err := dispatchTable(client)
	if err != nil {
		return nil, err
	}

	s := &Server{
		sessions: sessions,
		limiter:  limiter,
		table:    table,
		mux:      http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.routes()
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() {
	for _, resource := range Resources() {
		s.mux.Handle("GET "+resource.Path(), s.resourceHandler(resource, s.table[resource]))
	}
	s.mux.HandleFunc("GET /healthz", s.healthHandler)
	if s.oauth != nil {
		s.mux.HandleFunc("GET /auth/login", s.oauth.LoginHandler)
		s.mux.HandleFunc("GET /auth/callback", s.oauth.CallbackHandler)
	}
}

// Handler returns the root handler, exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// withToken attaches the session's GitHub token to ctx so the transport
// authenticates the fetch as the requesting user.
func (s *Server) withToken(ctx context.Context, sess *session.Session) context.Context {
	return github.WithToken(ctx, sess.Token)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
