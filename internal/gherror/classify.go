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

package gherror

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gitdeckhq/gitdeck/internal/apperror"
)

// defaultRetryAfter is used when GitHub gives no usable reset information.
// The primary GraphQL rate limit resets hourly, so an hour is the safe
// upper bound.
const defaultRetryAfter = 3600

// Classifier maps raw fetch failures to the application error taxonomy.
// The zero value is not usable; construct with NewClassifier. The clock is
// injectable so reset-header arithmetic can be tested deterministically.
type Classifier struct {
	now func() time.Time
}

// NewClassifier returns a Classifier using the wall clock.
func NewClassifier() *Classifier {
	return &Classifier{now: time.Now}
}

// NewClassifierAt returns a Classifier with a fixed clock, for tests.
func NewClassifierAt(now func() time.Time) *Classifier {
	return &Classifier{now: now}
}

// Classify converts err into an *apperror.Error. The checks are ordered;
// an error matching several heuristics takes the earliest classification:
// auth before rate limit before network before the unknown fallback.
// Errors that are already part of the taxonomy pass through unchanged.
func (c *Classifier) Classify(err error) *apperror.Error {
	if err == nil {
		return nil
	}

	msg := err.Error()

	// 1. Authentication failures are terminal; a retry cannot help.
	if strings.Contains(msg, "401") || strings.Contains(msg, "Unauthorized") {
		return apperror.New(apperror.KindAuth, "Authentication failed", apperror.NotRetryable())
	}

	// 2. GraphQL-level rate limiting arrives as HTTP 200 with an errors
	// array. GitHub does not include reset information in that shape, so
	// the default applies.
	var gqlErrs GraphQLErrors
	if errors.As(err, &gqlErrs) {
		for _, entry := range gqlErrs {
			if entry.Type == "RATE_LIMITED" ||
				entry.Extensions.Code == "RATE_LIMITED" ||
				strings.Contains(strings.ToLower(entry.Message), "rate limit") {
				return apperror.New(apperror.KindRateLimit, "Rate limit exceeded",
					apperror.RetryAfter(defaultRetryAfter))
			}
		}
	}

	// 3. Transport-level rate limiting carries reset metadata in headers.
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Header != nil {
		if reqErr.Header.Get("x-ratelimit-remaining") == "0" {
			return apperror.New(apperror.KindRateLimit, "Rate limit exceeded",
				apperror.RetryAfter(c.retryAfterFromHeaders(reqErr.Header)))
		}
	}

	// 4. Fallback message check for rate limits.
	if strings.Contains(strings.ToLower(msg), "rate limit") {
		return apperror.New(apperror.KindRateLimit, "Rate limit exceeded",
			apperror.RetryAfter(defaultRetryAfter))
	}

	// 5. Network failures.
	if strings.Contains(msg, "fetch") || strings.Contains(msg, "network") {
		return apperror.New(apperror.KindNetwork, "Network request failed")
	}

	// 6. Already classified somewhere below us.
	if appErr := apperror.FromError(err); appErr != nil {
		return appErr
	}

	// 7. Everything else.
	return apperror.New(apperror.KindUnknown, "An unexpected error occurred")
}

// retryAfterFromHeaders derives a wait in seconds from rate-limit headers.
// A secondary limit sets Retry-After directly; the primary limit only
// exposes the reset epoch, so the wait is computed against the clock.
func (c *Classifier) retryAfterFromHeaders(h interface{ Get(string) string }) int {
	if v := h.Get("retry-after"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			return seconds
		}
	}
	if v := h.Get("x-ratelimit-reset"); v != "" {
		if resetEpoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			resetMs := resetEpoch * 1000
			nowMs := c.now().UnixMilli()
			return int(math.Ceil(float64(resetMs-nowMs) / 1000))
		}
	}
	return defaultRetryAfter
}
