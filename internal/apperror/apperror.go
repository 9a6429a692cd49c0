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

// Package apperror defines the closed error taxonomy used across the
// application. Every failure that crosses a package boundary is an *Error
// carrying a Kind and retry semantics, so callers never have to guess
// whether an operation is worth repeating.
package apperror

import (
	"errors"
	"net/http"
)

// Kind identifies the category of a failure. The set is closed: every
// error path in the application terminates in exactly one of these.
type Kind string

const (
	KindAuth      Kind = "AUTH_ERROR"
	KindRateLimit Kind = "RATE_LIMIT"
	KindNetwork   Kind = "NETWORK_ERROR"
	KindGraphQL   Kind = "GRAPHQL_ERROR"
	KindTransform Kind = "TRANSFORM_ERROR"
	KindUnknown   Kind = "UNKNOWN"
)

// Error is a tagged application error. RetryAfter is in seconds and is only
// meaningful for KindRateLimit. Retryable=false means the caller must not
// auto-retry or offer a retry affordance.
type Error struct {
	Kind       Kind   `json:"type"`
	Message    string `json:"message"`
	Retryable  bool   `json:"retryable"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

// Option customizes an Error built by New.
type Option func(*Error)

// NotRetryable marks the error as terminal for the caller.
func NotRetryable() Option {
	return func(e *Error) { e.Retryable = false }
}

// RetryAfter sets the number of seconds the caller should wait before
// retrying. Only meaningful together with KindRateLimit.
func RetryAfter(seconds int) Option {
	return func(e *Error) { e.RetryAfter = seconds }
}

// New is the only construction path for application errors. Errors default
// to retryable, matching the taxonomy's bias toward transient failures.
func New(kind Kind, message string, opts ...Option) *Error {
	e := &Error{
		Kind:      kind,
		Message:   message,
		Retryable: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// FromError extracts an *Error from err's chain, or nil if none is present.
func FromError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// StatusCode maps an error kind to the HTTP status the API boundary returns.
func StatusCode(kind Kind) int {
	switch kind {
	case KindAuth:
		return http.StatusUnauthorized
	case KindRateLimit:
		return http.StatusTooManyRequests
	case KindNetwork:
		return http.StatusServiceUnavailable
	case KindGraphQL:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// SafeMessage returns a fixed user-facing message for the kind. Internal
// error text never reaches API clients.
func SafeMessage(kind Kind) string {
	switch kind {
	case KindAuth:
		return "Authentication required"
	case KindRateLimit:
		return "Rate limit exceeded"
	case KindNetwork:
		return "Service temporarily unavailable"
	case KindGraphQL:
		return "Unable to fetch data"
	case KindTransform:
		return "Data processing error"
	default:
		return "An unexpected error occurred"
	}
}
