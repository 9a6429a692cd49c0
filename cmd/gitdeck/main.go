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

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gitdeckhq/gitdeck/internal/apperror"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "gitdeck",
		Short: "A personal GitHub work dashboard",
		Long: `Gitdeck shows your open issues, assigned issues, pull requests and
review requests as a four-column dashboard, fetched live from GitHub's
GraphQL API.

Run "gitdeck serve" to host the dashboard API behind GitHub OAuth, or
"gitdeck dash" for a terminal dashboard using a personal access token.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newDashCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(mapErrorToExitCode(err))
	}
}

// mapErrorToExitCode maps failures to exit codes: 2 for authentication and
// rate-limit problems, 3 for network problems, 1 otherwise.
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}
	appErr := apperror.FromError(err)
	if appErr == nil {
		return 1
	}
	switch appErr.Kind {
	case apperror.KindAuth, apperror.KindRateLimit:
		return 2
	case apperror.KindNetwork:
		return 3
	default:
		return 1
	}
}
