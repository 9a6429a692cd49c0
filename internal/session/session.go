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

// Package session resolves the authenticated user for incoming requests.
// Identity is carried in a signed JWT cookie minted after the GitHub OAuth
// flow completes.
package session

import "net/http"

// ErrRefreshToken is the marker a Session carries when its GitHub token has
// expired and cannot be renewed. The API boundary converts it to a 401.
const ErrRefreshToken = "RefreshTokenError"

// User identifies the signed-in GitHub user. Email may be empty when the
// user's email is private.
type User struct {
	ID    string
	Login string
	Email string
}

// Session is the resolved identity for one request. Token is the GitHub
// access token used for GraphQL calls on the user's behalf. A non-empty
// Error marks the session as unusable for upstream calls.
type Session struct {
	User  User
	Token string
	Error string
}

// RateLimitID returns the identifier the rate limiter keys on: user id,
// falling back to email, falling back to "anonymous".
func (s *Session) RateLimitID() string {
	if s == nil {
		return "anonymous"
	}
	if s.User.ID != "" {
		return s.User.ID
	}
	if s.User.Email != "" {
		return s.User.Email
	}
	return "anonymous"
}

// Provider resolves the session attached to a request. A nil session with a
// nil error means the request is unauthenticated.
type Provider interface {
	Session(r *http.Request) (*Session, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(r *http.Request) (*Session, error)

// Session implements Provider.
func (f ProviderFunc) Session(r *http.Request) (*Session, error) {
	return f(r)
}
