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

package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gitdeckhq/gitdeck/internal/config"
	"github.com/gitdeckhq/gitdeck/internal/github"
	"github.com/gitdeckhq/gitdeck/internal/log"
	"github.com/gitdeckhq/gitdeck/internal/ratelimit"
	"github.com/gitdeckhq/gitdeck/internal/server"
	"github.com/gitdeckhq/gitdeck/internal/session"
)

func newServeCommand() *cobra.Command {
	var (
		configPath string
		verbosity  int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API behind GitHub OAuth",
		Long: `Start the dashboard API server. Users sign in through GitHub OAuth at
/auth/login; the four column endpoints under /api serve their open issues,
assigned issues, pull requests and review requests.

Required environment (variable names configurable in the config file):
  GITDECK_CLIENT_ID       GitHub OAuth app client id
  GITDECK_CLIENT_SECRET   GitHub OAuth app client secret
  GITDECK_SESSION_SECRET  session cookie signing secret, 32+ bytes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log.Initialize(verbosity, os.Stderr)
			return runServe(cmd, configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: .gitdeck.yaml)")
	cmd.Flags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v, -vv)")

	return cmd
}

func runServe(cmd *cobra.Command, configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	clientID := os.Getenv(cfg.GitHub.ClientIDEnv)
	clientSecret := os.Getenv(cfg.GitHub.ClientSecretEnv)
	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("GitHub OAuth credentials not found. Set %s and %s",
			cfg.GitHub.ClientIDEnv, cfg.GitHub.ClientSecretEnv)
	}
	sessionSecret := os.Getenv(cfg.Session.SecretEnv)
	if sessionSecret == "" {
		return fmt.Errorf("session secret not found. Set %s", cfg.Session.SecretEnv)
	}

	secureCookies := strings.HasPrefix(cfg.Server.BaseURL, "https://")
	sessions, err := session.NewManager([]byte(sessionSecret), cfg.Session.TTL, secureCookies)
	if err != nil {
		return err
	}
	oauth := session.NewOAuth(clientID, clientSecret, cfg.Server.BaseURL, sessions)

	limiter := ratelimit.New(cfg.RateLimit.Window, cfg.RateLimit.MaxRequests)
	defer limiter.Stop()

	// The client carries no static token; each request authenticates with
	// the session's token via the request context.
	client := github.NewGraphQLClient("", cfg.GitHub.GraphQLEndpoint)

	srv, err := server.New(cfg.Server.Addr, client, sessions, limiter, server.WithOAuth(oauth))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
