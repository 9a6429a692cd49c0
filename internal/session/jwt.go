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

package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the session cookie.
const CookieName = "gitdeck_session"

// claims is the JWT payload of a session cookie. TokenExpiry is the unix
// time the embedded GitHub token stops working, zero for non-expiring
// tokens.
type claims struct {
	jwt.RegisteredClaims
	Login       string `json:"login"`
	Email       string `json:"email,omitempty"`
	GitHubToken string `json:"ght"`
	TokenExpiry int64  `json:"ghexp,omitempty"`
}

// Manager signs and verifies session cookies. It implements Provider.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	secure bool
}

// NewManager creates a Manager signing with secret. Cookies expire after
// ttl. secure controls the cookie's Secure flag and should be true whenever
// the public base URL is https.
func NewManager(secret []byte, ttl time.Duration, secure bool) (*Manager, error) {
	if len(secret) < 32 {
		return nil, errors.New("session secret must be at least 32 bytes")
	}
	return &Manager{secret: secret, ttl: ttl, now: time.Now, secure: secure}, nil
}

// Issue mints a session cookie for the user and writes it to w.
// tokenExpiry is zero for tokens that do not expire.
func (m *Manager) Issue(w http.ResponseWriter, s *Session, tokenExpiry time.Time) error {
	now := m.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.User.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Login:       s.User.Login,
		Email:       s.User.Email,
		GitHubToken: s.Token,
	}
	if !tokenExpiry.IsZero() {
		c.TokenExpiry = tokenExpiry.Unix()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("signing session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Session implements Provider. A missing, malformed or expired cookie
// resolves to an unauthenticated request rather than an error; a valid
// cookie whose GitHub token has lapsed resolves to a session carrying the
// refresh-error marker.
func (m *Manager) Session(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil
	}

	var c claims
	token, err := jwt.ParseWithClaims(cookie.Value, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, nil
	}

	s := &Session{
		User: User{
			ID:    c.Subject,
			Login: c.Login,
			Email: c.Email,
		},
		Token: c.GitHubToken,
	}
	if c.TokenExpiry > 0 && m.now().Unix() >= c.TokenExpiry {
		s.Error = ErrRefreshToken
	}
	return s, nil
}
