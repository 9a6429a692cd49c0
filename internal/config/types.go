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

// Package config provides configuration for gitdeck, loaded from a YAML
// file with environment-variable overrides on top of built-in defaults.
package config

import "time"

// Config is the complete gitdeck configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	GitHub    GitHubConfig    `yaml:"github"`
	Session   SessionConfig   `yaml:"session"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds the HTTP listener settings. BaseURL is the externally
// reachable address used to build the OAuth callback URL.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	BaseURL string `yaml:"base_url"`
}

// GitHubConfig points at the GraphQL endpoint and names the environment
// variables carrying OAuth app credentials. Secrets never live in the file
// itself.
type GitHubConfig struct {
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	ClientIDEnv     string `yaml:"client_id_env"`
	ClientSecretEnv string `yaml:"client_secret_env"`
}

// SessionConfig controls the session cookie. SecretEnv names the environment
// variable holding the JWT signing secret.
type SessionConfig struct {
	SecretEnv string        `yaml:"secret_env"`
	TTL       time.Duration `yaml:"ttl"`
}

// RateLimitConfig controls the per-user API rate limiter.
type RateLimitConfig struct {
	Window      time.Duration `yaml:"window"`
	MaxRequests int           `yaml:"max_requests"`
}

// DefaultConfig returns a Config with defaults suitable for local use
// against public GitHub.com.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:    ":8080",
			BaseURL: "http://localhost:8080",
		},
		GitHub: GitHubConfig{
			GraphQLEndpoint: "https://api.github.com/graphql",
			ClientIDEnv:     "GITDECK_CLIENT_ID",
			ClientSecretEnv: "GITDECK_CLIENT_SECRET",
		},
		Session: SessionConfig{
			SecretEnv: "GITDECK_SESSION_SECRET",
			TTL:       8 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Window:      time.Minute,
			MaxRequests: 60,
		},
	}
}
