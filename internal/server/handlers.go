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

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/gitdeckhq/gitdeck/internal/apperror"
	"github.com/gitdeckhq/gitdeck/internal/github"
	"github.com/gitdeckhq/gitdeck/internal/log"
	"github.com/gitdeckhq/gitdeck/internal/session"
)

// resourceHandler serves GET /api/<resource>. The per-request sequence is
// fixed: authentication, rate limiting, input validation, fetch, respond.
// Fetchers are never invoked for unauthenticated or throttled requests.
func (s *Server) resourceHandler(resource Resource, fetch fetchFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		logger := log.With(
			"request_id", requestID,
			"endpoint", resource.Path(),
			"method", r.Method,
		)
		start := time.Now()

		// Authentication.
		sess, err := s.sessions.Session(r)
		if err != nil || sess == nil {
			logger.Warn("authentication failed")
			writeError(w, http.StatusUnauthorized,
				apperror.New(apperror.KindAuth, "Authentication required", apperror.NotRetryable()))
			return
		}
		if sess.Error == session.ErrRefreshToken {
			logger.Warn("session carries refresh error")
			writeError(w, http.StatusUnauthorized,
				apperror.New(apperror.KindAuth, "Session expired. Please sign in again.", apperror.NotRetryable()))
			return
		}

		// Application-level rate limiting, keyed on the user.
		limit := s.limiter.Check(sess.RateLimitID())
		if !limit.Allowed {
			logger.Warn("rate limit exceeded",
				"identifier", sess.RateLimitID(),
				"retry_after", limit.RetryAfter,
			)
			w.Header().Set("Retry-After", strconv.Itoa(limit.RetryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(limit.Reset, 10))
			writeJSON(w, http.StatusTooManyRequests, errorBody{
				Error: apperror.New(apperror.KindRateLimit, "Too many requests",
					apperror.RetryAfter(limit.RetryAfter)),
			})
			return
		}

		// Input validation.
		query := r.URL.Query()
		cursor := query.Get("cursor")
		if err := validateCursor(cursor); err != nil {
			logger.Warn("invalid cursor", "cursor", cursor)
			writeError(w, http.StatusBadRequest,
				apperror.New(apperror.KindUnknown, err.Error(), apperror.NotRetryable()))
			return
		}
		first, err := validatePageSize(query.Get("first"))
		if err != nil {
			logger.Warn("invalid page size", "first", query.Get("first"))
			writeError(w, http.StatusBadRequest,
				apperror.New(apperror.KindUnknown, err.Error(), apperror.NotRetryable()))
			return
		}

		opts := github.FetchOptions{First: first}
		if cursor != "" {
			opts.Cursor = &cursor
		}

		// Fetch.
		result, err := fetch(s.withToken(r.Context(), sess), opts)
		if err != nil {
			appErr := apperror.FromError(err)
			if appErr == nil {
				appErr = apperror.New(apperror.KindUnknown, "An unexpected error occurred")
			}
			logger.Error("request failed",
				"duration_ms", time.Since(start).Milliseconds(),
				"error", err.Error(),
				"type", string(appErr.Kind),
			)
			writeFetchError(w, appErr)
			return
		}

		logger.Info("request completed",
			"duration_ms", time.Since(start).Milliseconds(),
			"item_count", len(result.Items),
			"has_next_page", result.PageInfo.HasNextPage,
		)

		w.Header().Set("X-Request-Id", requestID)
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit.Remaining))
		writeJSON(w, http.StatusOK, result)
	}
}

// healthHandler reports liveness.
func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
