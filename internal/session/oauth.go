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
	"fmt"
	"net/http"
	"strconv"

	gogithub "github.com/google/go-github/v57/github"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	oauth2github "golang.org/x/oauth2/github"

	"github.com/gitdeckhq/gitdeck/internal/log"
)

const stateCookie = "gitdeck_oauth_state"

// OAuth runs the GitHub authorization-code flow and mints a session cookie
// on completion.
type OAuth struct {
	config   *oauth2.Config
	sessions *Manager
}

// NewOAuth builds the flow for a GitHub OAuth app. baseURL is the public
// address the callback is registered under.
func NewOAuth(clientID, clientSecret, baseURL string, sessions *Manager) *OAuth {
	return &OAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     oauth2github.Endpoint,
			RedirectURL:  baseURL + "/auth/callback",
			Scopes:       []string{"repo", "read:user", "user:email"},
		},
		sessions: sessions,
	}
}

// LoginHandler starts the flow: it sets a state cookie and redirects to
// GitHub's consent page.
func (o *OAuth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, o.config.AuthCodeURL(state), http.StatusFound)
}

// CallbackHandler finishes the flow: it verifies the state, exchanges the
// code, resolves the user through the REST API and issues the session
// cookie.
func (o *OAuth) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	stateParam := r.URL.Query().Get("state")
	cookie, err := r.Cookie(stateCookie)
	if err != nil || stateParam == "" || stateParam != cookie.Value {
		http.Error(w, "invalid oauth state", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing authorization code", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	token, err := o.config.Exchange(ctx, code)
	if err != nil {
		log.Error("oauth code exchange failed", "error", err)
		http.Error(w, "authorization failed", http.StatusBadGateway)
		return
	}

	client := gogithub.NewClient(o.config.Client(ctx, token))
	user, _, err := client.Users.Get(ctx, "")
	if err != nil {
		log.Error("viewer lookup failed", "error", err)
		http.Error(w, "could not resolve user", http.StatusBadGateway)
		return
	}

	s := &Session{
		User: User{
			ID:    strconv.FormatInt(user.GetID(), 10),
			Login: user.GetLogin(),
			Email: user.GetEmail(),
		},
		Token: token.AccessToken,
	}
	if err := o.sessions.Issue(w, s, token.Expiry); err != nil {
		log.Error("issuing session failed", "error", err)
		http.Error(w, "could not establish session", http.StatusInternalServerError)
		return
	}

	log.Info("user signed in", "login", user.GetLogin())
	http.Redirect(w, r, "/", http.StatusFound)
}

// AuthCodeURL exposes the consent URL for out-of-band sign-in, used by the
// terminal client to hand the URL to a browser.
func (o *OAuth) AuthCodeURL(state string) string {
	return o.config.AuthCodeURL(state)
}

// String describes the flow configuration without leaking the secret.
func (o *OAuth) String() string {
	return fmt.Sprintf("github oauth app %s", o.config.ClientID)
}
