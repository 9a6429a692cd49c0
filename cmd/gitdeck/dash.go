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
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gitdeckhq/gitdeck/internal/config"
	"github.com/gitdeckhq/gitdeck/internal/github"
	"github.com/gitdeckhq/gitdeck/internal/log"
	"github.com/gitdeckhq/gitdeck/internal/pager"
	"github.com/gitdeckhq/gitdeck/internal/ratelimit"
	"github.com/gitdeckhq/gitdeck/internal/server"
	"github.com/gitdeckhq/gitdeck/internal/session"
	"github.com/gitdeckhq/gitdeck/internal/tui"
)

// columnTitles maps each resource to its dashboard column header.
var columnTitles = map[server.Resource]string{
	server.ResourceIssuesCreated:  "My Issues",
	server.ResourceIssuesAssigned: "Assigned to Me",
	server.ResourcePullRequests:   "My Pull Requests",
	server.ResourceReviewRequests: "Review Requests",
}

func newDashCommand() *cobra.Command {
	var (
		token      string
		configPath string
		pageSize   int
	)

	cmd := &cobra.Command{
		Use:   "dash",
		Short: "Open the terminal dashboard",
		Long: `Open the dashboard in the terminal using a GitHub personal access token.

Authentication is required via GitHub token:
  - Use --token flag to provide token directly
  - Or set GITHUB_TOKEN environment variable`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log.Initialize(log.LevelQuiet, os.Stderr)
			return runDash(cmd, token, configPath, pageSize)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "GitHub personal access token (overrides GITHUB_TOKEN env var)")
	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: .gitdeck.yaml)")
	cmd.Flags().IntVar(&pageSize, "page-size", github.DefaultPageSize, "Items fetched per page (1-100)")

	return cmd
}

// runDash hosts the dashboard API on a loopback listener and drives the
// terminal UI against it, so the dash path exercises the same auth, rate
// limit and validation pipeline as the hosted server.
func runDash(cmd *cobra.Command, tokenFlag, configPath string, pageSize int) error {
	token := tokenFlag
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("GitHub token not found. Set GITHUB_TOKEN or use --token flag")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	client := github.NewGraphQLClient(token, cfg.GitHub.GraphQLEndpoint)
	sessions := session.ProviderFunc(func(_ *http.Request) (*session.Session, error) {
		return &session.Session{
			User:  session.User{ID: "local", Login: "local"},
			Token: token,
		}, nil
	})
	limiter := ratelimit.New(cfg.RateLimit.Window, cfg.RateLimit.MaxRequests)
	defer limiter.Stop()

	srv, err := server.New("127.0.0.1:0", client, sessions, limiter)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	baseURL := "http://" + listener.Addr().String()

	columns := make([]tui.Column, 0, len(server.Resources()))
	for _, resource := range server.Resources() {
		columns = append(columns, tui.Column{
			Title: columnTitles[resource],
			Pager: pager.New(baseURL, resource.Path(), pager.WithPageSize(pageSize)),
		})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	httpSrv := &http.Server{Handler: srv.Handler()}
	g.Go(func() error {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer httpSrv.Close()
		return tui.Run(ctx, columns)
	})
	return g.Wait()
}
