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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gitdeckhq/gitdeck/internal/apperror"
	"github.com/gitdeckhq/gitdeck/internal/github"
	"github.com/gitdeckhq/gitdeck/internal/ratelimit"
	"github.com/gitdeckhq/gitdeck/internal/session"
)

func authedProvider() session.Provider {
	return session.ProviderFunc(func(_ *http.Request) (*session.Session, error) {
		return &session.Session{
			User:  session.User{ID: "u1", Login: "octocat", Email: "octo@example.com"},
			Token: "gho_testtoken",
		}, nil
	})
}

func anonymousProvider() session.Provider {
	return session.ProviderFunc(func(_ *http.Request) (*session.Session, error) {
		return nil, nil
	})
}

func newTestServer(t *testing.T, client github.Client, sessions session.Provider, limiter *ratelimit.Limiter) *Server {
	t.Helper()
	if limiter == nil {
		limiter = ratelimit.New(time.Minute, 60)
	}
	t.Cleanup(limiter.Stop)
	srv, err := New(":0", client, sessions, limiter)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return srv
}

func doGet(srv *Server, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *apperror.Error {
	t.Helper()
	var body struct {
		Error *apperror.Error `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if body.Error == nil {
		t.Fatalf("response has no error field: %s", rec.Body.String())
	}
	return body.Error
}

func TestResourceRoutes(t *testing.T) {
	mock := &github.MockClient{}
	srv := newTestServer(t, mock, authedProvider(), nil)

	paths := map[string]string{
		"/api/issues/created":  "issues-created",
		"/api/issues/assigned": "issues-assigned",
		"/api/pull-requests":   "pull-requests",
		"/api/review-requests": "review-requests",
	}
	for path, want := range paths {
		mock.Calls = nil
		rec := doGet(srv, path)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200: %s", path, rec.Code, rec.Body.String())
		}
		if len(mock.Calls) != 1 || mock.Calls[0] != want {
			t.Errorf("GET %s invoked %v, want [%s]", path, mock.Calls, want)
		}
	}
}

func TestUnauthenticatedRequestSkipsFetcher(t *testing.T) {
	mock := &github.MockClient{}
	srv := newTestServer(t, mock, anonymousProvider(), nil)

	rec := doGet(srv, "/api/issues/created")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	appErr := decodeError(t, rec)
	if appErr.Kind != apperror.KindAuth {
		t.Errorf("kind = %s, want AUTH_ERROR", appErr.Kind)
	}
	if appErr.Message != "Authentication required" {
		t.Errorf("message = %q", appErr.Message)
	}
	if appErr.Retryable {
		t.Error("auth errors must not be retryable")
	}
	if len(mock.Calls) != 0 {
		t.Errorf("fetcher invoked for unauthenticated request: %v", mock.Calls)
	}
}

func TestExpiredGitHubTokenRejected(t *testing.T) {
	mock := &github.MockClient{}
	provider := session.ProviderFunc(func(_ *http.Request) (*session.Session, error) {
		return &session.Session{
			User:  session.User{ID: "u1", Login: "octocat"},
			Error: session.ErrRefreshToken,
		}, nil
	})
	srv := newTestServer(t, mock, provider, nil)

	rec := doGet(srv, "/api/issues/created")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	appErr := decodeError(t, rec)
	if appErr.Message != "Session expired. Please sign in again." {
		t.Errorf("message = %q", appErr.Message)
	}
	if len(mock.Calls) != 0 {
		t.Errorf("fetcher invoked for expired session: %v", mock.Calls)
	}
}

func TestRateLimitExceededSkipsFetcher(t *testing.T) {
	mock := &github.MockClient{}
	limiter := ratelimit.New(time.Minute, 2)
	srv := newTestServer(t, mock, authedProvider(), limiter)

	for i := 0; i < 2; i++ {
		if rec := doGet(srv, "/api/issues/created"); rec.Code != http.StatusOK {
			t.Fatalf("request %d = %d, want 200", i+1, rec.Code)
		}
	}
	mock.Calls = nil

	rec := doGet(srv, "/api/issues/created")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
	if got := rec.Header().Get("X-RateLimit-Limit"); got != "2" {
		t.Errorf("X-RateLimit-Limit = %q, want 2", got)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Errorf("X-RateLimit-Remaining = %q, want 0", got)
	}
	appErr := decodeError(t, rec)
	if appErr.Kind != apperror.KindRateLimit {
		t.Errorf("kind = %s, want RATE_LIMIT", appErr.Kind)
	}
	if appErr.RetryAfter <= 0 {
		t.Errorf("retryAfter = %d, want > 0", appErr.RetryAfter)
	}
	if len(mock.Calls) != 0 {
		t.Errorf("fetcher invoked for throttled request: %v", mock.Calls)
	}
}

func TestPaginationParamsForwarded(t *testing.T) {
	var gotOpts github.FetchOptions
	mock := &github.MockClient{
		IssuesCreatedFunc: func(_ context.Context, opts github.FetchOptions) (*github.FetchResult, error) {
			gotOpts = opts
			return &github.FetchResult{Items: []github.Card{}}, nil
		},
	}
	srv := newTestServer(t, mock, authedProvider(), nil)

	rec := doGet(srv, "/api/issues/created?cursor=abc123&first=50")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if gotOpts.Cursor == nil || *gotOpts.Cursor != "abc123" {
		t.Errorf("cursor not forwarded: %+v", gotOpts.Cursor)
	}
	if gotOpts.First != 50 {
		t.Errorf("first = %d, want 50", gotOpts.First)
	}
}

func TestDefaultPaginationParams(t *testing.T) {
	var gotOpts github.FetchOptions
	mock := &github.MockClient{
		IssuesCreatedFunc: func(_ context.Context, opts github.FetchOptions) (*github.FetchResult, error) {
			gotOpts = opts
			return &github.FetchResult{Items: []github.Card{}}, nil
		},
	}
	srv := newTestServer(t, mock, authedProvider(), nil)

	doGet(srv, "/api/issues/created")
	if gotOpts.Cursor != nil {
		t.Errorf("cursor = %v, want nil", *gotOpts.Cursor)
	}
	if gotOpts.First != 20 {
		t.Errorf("first = %d, want default 20", gotOpts.First)
	}
}

func TestInvalidParamsRejected(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		wantMsg string
	}{
		{name: "bad cursor", target: "/api/issues/created?cursor=not%20valid", wantMsg: "Invalid cursor format"},
		{name: "page size too big", target: "/api/issues/created?first=101", wantMsg: "Page size must be between 1 and 100"},
		{name: "page size not numeric", target: "/api/issues/created?first=abc", wantMsg: "Page size must be a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &github.MockClient{}
			srv := newTestServer(t, mock, authedProvider(), nil)

			rec := doGet(srv, tt.target)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			appErr := decodeError(t, rec)
			if appErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", appErr.Message, tt.wantMsg)
			}
			if len(mock.Calls) != 0 {
				t.Errorf("fetcher invoked for invalid request: %v", mock.Calls)
			}
		})
	}
}

func TestFetchErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         *apperror.Error
		wantStatus  int
		wantKind    apperror.Kind
		wantMessage string
	}{
		{
			name:        "auth error",
			err:         apperror.New(apperror.KindAuth, "token rejected by api", apperror.NotRetryable()),
			wantStatus:  http.StatusUnauthorized,
			wantKind:    apperror.KindAuth,
			wantMessage: "Authentication required",
		},
		{
			name:        "rate limit with retry after",
			err:         apperror.New(apperror.KindRateLimit, "api quota exhausted", apperror.RetryAfter(3600)),
			wantStatus:  http.StatusTooManyRequests,
			wantKind:    apperror.KindRateLimit,
			wantMessage: "Rate limit exceeded",
		},
		{
			name:        "network error",
			err:         apperror.New(apperror.KindNetwork, "dial tcp: connection refused"),
			wantStatus:  http.StatusServiceUnavailable,
			wantKind:    apperror.KindNetwork,
			wantMessage: "Service temporarily unavailable",
		},
		{
			name:        "graphql error",
			err:         apperror.New(apperror.KindGraphQL, "Field 'nope' doesn't exist"),
			wantStatus:  http.StatusBadGateway,
			wantKind:    apperror.KindGraphQL,
			wantMessage: "Unable to fetch data",
		},
		{
			name:        "unknown error",
			err:         apperror.New(apperror.KindUnknown, "something odd"),
			wantStatus:  http.StatusInternalServerError,
			wantKind:    apperror.KindUnknown,
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &github.MockClient{
				IssuesCreatedFunc: func(_ context.Context, _ github.FetchOptions) (*github.FetchResult, error) {
					return nil, tt.err
				},
			}
			srv := newTestServer(t, mock, authedProvider(), nil)

			rec := doGet(srv, "/api/issues/created")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			appErr := decodeError(t, rec)
			if appErr.Kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", appErr.Kind, tt.wantKind)
			}
			if appErr.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q (internal text must not leak)", appErr.Message, tt.wantMessage)
			}
			if appErr.Message == tt.err.Message {
				t.Error("internal error message leaked to client")
			}
			if tt.wantKind == apperror.KindRateLimit {
				if rec.Header().Get("Retry-After") != "3600" {
					t.Errorf("Retry-After = %q, want 3600", rec.Header().Get("Retry-After"))
				}
				if appErr.RetryAfter != 3600 {
					t.Errorf("retryAfter = %d, want 3600", appErr.RetryAfter)
				}
			}
		})
	}
}

func TestSuccessResponseShape(t *testing.T) {
	cursor := "Y3Vyc29yOjI="
	mock := &github.MockClient{
		PullRequestsFunc: func(_ context.Context, _ github.FetchOptions) (*github.FetchResult, error) {
			return &github.FetchResult{
				Items: []github.Card{{
					ID:     "PR_1",
					Number: 7,
					Title:  "Add retry logic",
					Status: github.StatusOpen,
				}},
				TotalCount: 42,
				PageInfo:   github.PageInfo{HasNextPage: true, EndCursor: &cursor},
			}, nil
		},
	}
	srv := newTestServer(t, mock, authedProvider(), nil)

	rec := doGet(srv, "/api/pull-requests")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("missing X-Request-Id header")
	}
	if rec.Header().Get("X-RateLimit-Remaining") == "" {
		t.Error("missing X-RateLimit-Remaining header")
	}

	var result github.FetchResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].Number != 7 {
		t.Errorf("unexpected items: %+v", result.Items)
	}
	if result.TotalCount != 42 {
		t.Errorf("totalCount = %d, want 42", result.TotalCount)
	}
	if !result.PageInfo.HasNextPage || result.PageInfo.EndCursor == nil || *result.PageInfo.EndCursor != cursor {
		t.Errorf("unexpected pageInfo: %+v", result.PageInfo)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, &github.MockClient{}, anonymousProvider(), nil)
	rec := doGet(srv, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
