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

package github

import (
	"context"
	"net/http"
	"time"
)

const userAgent = "gitdeck"

type tokenContextKey struct{}

// WithToken attaches a per-request bearer token to ctx. It takes precedence
// over the client's static token, letting one client serve many users.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// authTransport injects the bearer token and User-Agent into every request.
// Token injection lives here, upstream of the fetchers, so query code never
// handles credentials.
type authTransport struct {
	token string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.token
	if ctxToken, ok := req.Context().Value(tokenContextKey{}).(string); ok && ctxToken != "" {
		token = ctxToken
	}
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+token)
	cloned.Header.Set("User-Agent", userAgent)
	return t.base.RoundTrip(cloned)
}

// newHTTPClient builds the HTTP client used for GraphQL calls, with
// connection pooling tuned for repeated requests against one host.
func newHTTPClient(token string) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &http.Client{
		Transport: &authTransport{
			token: token,
			base:  transport,
		},
	}
}
