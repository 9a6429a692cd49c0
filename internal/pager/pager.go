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

// Package pager accumulates one dashboard column's items across successive
// page fetches against the dashboard API. Each Pager is an independent state
// machine: items grow append-only, pageInfo is replaced wholesale on every
// successful fetch, and at most one fetch is current at a time. A request
// epoch guards every state commit so a superseded or cancelled fetch that
// completes late can never touch state.
package pager

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/gitdeckhq/gitdeck/internal/apperror"
	"github.com/gitdeckhq/gitdeck/internal/github"
)

// Snapshot is a point-in-time copy of a Pager's state for rendering.
type Snapshot struct {
	Items      []github.Card
	TotalCount int
	PageInfo   github.PageInfo
	Loading    bool
	Err        *apperror.Error
}

// Pager fetches and accumulates pages for one resource column.
type Pager struct {
	client   *http.Client
	endpoint string
	pageSize int

	mu         sync.Mutex
	items      []github.Card
	totalCount int
	pageInfo   github.PageInfo
	loading    bool
	err        *apperror.Error
	epoch      uint64
	cancel     context.CancelFunc
	closed     bool
}

// Option configures a Pager.
type Option func(*Pager)

// WithHTTPClient substitutes the HTTP client, e.g. one carrying a session
// cookie jar.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Pager) { p.client = client }
}

// WithPageSize sets the first parameter sent on every fetch.
func WithPageSize(n int) Option {
	return func(p *Pager) { p.pageSize = n }
}

// New creates a Pager for the resource endpoint at baseURL+path. Until
// seeded, the pager believes a next page exists so the first LoadMore
// fetches from the beginning.
func New(baseURL, path string, opts ...Option) *Pager {
	p := &Pager{
		client:   http.DefaultClient,
		endpoint: baseURL + path,
		pageSize: github.DefaultPageSize,
		items:    []github.Card{},
		pageInfo: github.PageInfo{HasNextPage: true},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Seed initializes state from a server-supplied first page, replacing
// whatever was accumulated.
func (p *Pager) Seed(result *github.FetchResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append([]github.Card{}, result.Items...)
	p.totalCount = result.TotalCount
	p.pageInfo = result.PageInfo
	p.err = nil
}

// Snapshot returns a copy of the current state.
func (p *Pager) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		Items:      append([]github.Card{}, p.items...),
		TotalCount: p.totalCount,
		PageInfo:   p.pageInfo,
		Loading:    p.loading,
		Err:        p.err,
	}
}

// LoadMore fetches the next page and appends it. It is a no-op when no next
// page exists, a fetch is already in flight, or the pager is closed. The
// returned error mirrors the terminal error state; it is nil on no-op,
// success, and cancellation.
func (p *Pager) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	if p.closed || p.loading || !p.pageInfo.HasNextPage {
		p.mu.Unlock()
		return nil
	}
	if p.cancel != nil {
		p.cancel()
	}
	p.epoch++
	epoch := p.epoch
	p.loading = true
	p.err = nil
	cursor := p.pageInfo.EndCursor
	reqCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()

	result, fetchErr := p.fetch(reqCtx, cursor)
	return p.commit(epoch, result, fetchErr)
}

// fetch performs one page request. It classifies transport and shape
// failures but never touches pager state.
func (p *Pager) fetch(ctx context.Context, cursor *string) (*github.FetchResult, *apperror.Error) {
	query := url.Values{}
	query.Set("first", fmt.Sprintf("%d", p.pageSize))
	if cursor != nil {
		query.Set("cursor", *cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, apperror.New(apperror.KindUnknown, err.Error(), apperror.NotRetryable())
	}
	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, nil
		}
		return nil, apperror.New(apperror.KindNetwork, "Request failed: "+err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, nil
		}
		return nil, apperror.New(apperror.KindNetwork, "Request failed: "+err.Error())
	}

	if resp.StatusCode != http.StatusOK {
		if appErr := embeddedError(body); appErr != nil {
			return nil, appErr
		}
		return nil, apperror.New(apperror.KindNetwork, "Request failed: "+resp.Status)
	}

	var probe struct {
		Items      json.RawMessage `json:"items"`
		TotalCount int             `json:"totalCount"`
		PageInfo   github.PageInfo `json:"pageInfo"`
		Error      *apperror.Error `json:"error"`
	}
	if err := json.Unmarshal(body, &probe); err != nil || !isJSONArray(probe.Items) {
		return nil, apperror.New(apperror.KindUnknown, "Invalid response format from server", apperror.NotRetryable())
	}
	if probe.Error != nil {
		return nil, probe.Error
	}

	var items []github.Card
	if err := json.Unmarshal(probe.Items, &items); err != nil {
		return nil, apperror.New(apperror.KindUnknown, "Invalid response format from server", apperror.NotRetryable())
	}
	return &github.FetchResult{
		Items:      items,
		TotalCount: probe.TotalCount,
		PageInfo:   probe.PageInfo,
	}, nil
}

// commit applies a fetch outcome if and only if epoch is still current. A
// stale completion leaves all state alone, including the loading flag of
// whichever request superseded it.
func (p *Pager) commit(epoch uint64, result *github.FetchResult, fetchErr *apperror.Error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if epoch != p.epoch || p.closed {
		return nil
	}
	p.loading = false
	p.cancel = nil
	if fetchErr != nil {
		p.err = fetchErr
		return fetchErr
	}
	if result == nil {
		// Cancelled; neither items nor error change.
		return nil
	}
	p.items = append(p.items, result.Items...)
	p.totalCount = result.TotalCount
	p.pageInfo = result.PageInfo
	return nil
}

// Close cancels any in-flight fetch and prevents all further state changes.
func (p *Pager) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// embeddedError extracts the error envelope from a non-200 body, if any.
func embeddedError(body []byte) *apperror.Error {
	var envelope struct {
		Error *apperror.Error `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	return envelope.Error
}

// isJSONArray reports whether raw is a JSON array. A missing or null items
// field is a malformed response, not an empty page.
func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
