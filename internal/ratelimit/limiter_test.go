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

package ratelimit

import (
	"sync"
	"testing"
	"time"
)

// fakeClock is a settable clock for deterministic window arithmetic.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(t *testing.T, window time.Duration, max int) (*Limiter, *fakeClock, *MemoryStore) {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	store := NewMemoryStore()
	l := New(window, max, WithClock(clock.Now), WithStore(store))
	t.Cleanup(l.Stop)
	return l, clock, store
}

func TestCheckAllowsUpToLimit(t *testing.T) {
	l, _, _ := newTestLimiter(t, time.Minute, 60)

	for i := 0; i < 60; i++ {
		result := l.Check("user-1")
		if !result.Allowed {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
		if result.Limit != 60 {
			t.Errorf("limit = %d, want 60", result.Limit)
		}
		if want := 60 - (i + 1); result.Remaining != want {
			t.Errorf("request %d remaining = %d, want %d", i+1, result.Remaining, want)
		}
	}

	result := l.Check("user-1")
	if result.Allowed {
		t.Fatal("61st request allowed, want denied")
	}
	if result.Remaining != 0 {
		t.Errorf("remaining = %d, want 0", result.Remaining)
	}
	if result.RetryAfter <= 0 {
		t.Errorf("retryAfter = %d, want > 0", result.RetryAfter)
	}
}

func TestCheckIsolatesIdentifiers(t *testing.T) {
	l, _, _ := newTestLimiter(t, time.Minute, 1)

	if !l.Check("alice").Allowed {
		t.Fatal("alice's first request denied")
	}
	if l.Check("alice").Allowed {
		t.Fatal("alice's second request allowed, want denied")
	}
	if !l.Check("bob").Allowed {
		t.Fatal("bob's first request denied; identifiers must not share windows")
	}
}

func TestCheckWindowSlides(t *testing.T) {
	l, clock, _ := newTestLimiter(t, time.Minute, 2)

	l.Check("u")
	clock.Advance(30 * time.Second)
	l.Check("u")

	denied := l.Check("u")
	if denied.Allowed {
		t.Fatal("third request within window allowed, want denied")
	}
	// The oldest request ages out in 30s; retryAfter must reflect that,
	// not the full window.
	if denied.RetryAfter != 30 {
		t.Errorf("retryAfter = %d, want 30", denied.RetryAfter)
	}

	clock.Advance(31 * time.Second)
	if !l.Check("u").Allowed {
		t.Fatal("request after oldest aged out denied, want allowed")
	}
}

func TestCheckResetTimestamps(t *testing.T) {
	l, clock, _ := newTestLimiter(t, time.Minute, 1)

	start := clock.Now()
	allowed := l.Check("u")
	if want := start.Add(time.Minute).Unix(); allowed.Reset != want {
		t.Errorf("allowed reset = %d, want %d", allowed.Reset, want)
	}

	denied := l.Check("u")
	if want := start.Add(time.Minute).Unix(); denied.Reset != want {
		t.Errorf("denied reset = %d, want %d", denied.Reset, want)
	}
}

func TestSweepEvictsExpiredIdentifiers(t *testing.T) {
	l, clock, store := newTestLimiter(t, time.Minute, 10)

	l.Check("stale")
	clock.Advance(30 * time.Second)
	l.Check("fresh")

	if store.Len() != 2 {
		t.Fatalf("tracked identifiers = %d, want 2", store.Len())
	}

	clock.Advance(45 * time.Second)
	store.Sweep(clock.Now().UnixMilli() - time.Minute.Milliseconds())

	if store.Len() != 1 {
		t.Errorf("tracked identifiers after sweep = %d, want 1", store.Len())
	}
	if got := store.Get("stale"); got != nil {
		t.Errorf("stale identifier still tracked: %v", got)
	}
	if got := store.Get("fresh"); len(got) != 1 {
		t.Errorf("fresh identifier lost: %v", got)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	l := New(0, 0)
	defer l.Stop()

	if l.window != DefaultWindow {
		t.Errorf("window = %v, want %v", l.window, DefaultWindow)
	}
	if l.max != DefaultMaxRequests {
		t.Errorf("max = %d, want %d", l.max, DefaultMaxRequests)
	}
}
