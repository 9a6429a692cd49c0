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

// Package ratelimit throttles API requests with a per-identifier sliding
// window counter. It is deliberately single-process: horizontally scaled
// deployments need a shared store implementation instead.
package ratelimit

import (
	"math"
	"sync"
	"time"
)

// Default limits: 60 requests per minute per identifier.
const (
	DefaultWindow      = time.Minute
	DefaultMaxRequests = 60
)

// Result is the outcome of one Check call. Reset is a Unix timestamp in
// seconds; RetryAfter is in seconds and only set on denial.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Reset      int64
	RetryAfter int
}

// Limiter counts requests per identifier within a trailing window.
type Limiter struct {
	mu     sync.Mutex
	store  Store
	window time.Duration
	max    int
	now    func() time.Time

	sweepStop chan struct{}
	sweepOnce sync.Once
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithClock injects a clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// WithStore substitutes the timestamp store.
func WithStore(store Store) Option {
	return func(l *Limiter) { l.store = store }
}

// New creates a Limiter and starts its background sweep, which runs at the
// window interval and evicts identifiers whose whole window has expired,
// bounding memory. Call Stop when done.
func New(window time.Duration, maxRequests int, opts ...Option) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	if maxRequests <= 0 {
		maxRequests = DefaultMaxRequests
	}
	l := &Limiter{
		store:     NewMemoryStore(),
		window:    window,
		max:       maxRequests,
		now:       time.Now,
		sweepStop: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	go l.sweepLoop()
	return l
}

// Stop halts the background sweep. Check remains usable afterward.
func (l *Limiter) Stop() {
	l.sweepOnce.Do(func() { close(l.sweepStop) })
}

func (l *Limiter) sweepLoop() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.store.Sweep(l.now().UnixMilli() - l.window.Milliseconds())
		case <-l.sweepStop:
			return
		}
	}
}

// Check records a request for id if the window has room. When denied,
// RetryAfter counts the seconds until the oldest in-window request ages
// out. The read-modify-write on the store happens under the limiter's
// lock, so concurrent requests for the same identifier cannot both slip
// under the limit.
func (l *Limiter) Check(id string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	nowMs := l.now().UnixMilli()
	windowMs := l.window.Milliseconds()
	windowStart := nowMs - windowMs

	recent := make([]int64, 0, l.max)
	for _, ts := range l.store.Get(id) {
		if ts > windowStart {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.max {
		oldest := recent[0]
		for _, ts := range recent {
			if ts < oldest {
				oldest = ts
			}
		}
		resetMs := oldest + windowMs
		return Result{
			Allowed:    false,
			Limit:      l.max,
			Remaining:  0,
			Reset:      resetMs / 1000,
			RetryAfter: int(math.Ceil(float64(resetMs-nowMs) / 1000)),
		}
	}

	recent = append(recent, nowMs)
	l.store.Set(id, recent)

	return Result{
		Allowed:   true,
		Limit:     l.max,
		Remaining: l.max - len(recent),
		Reset:     (nowMs + windowMs) / 1000,
	}
}
