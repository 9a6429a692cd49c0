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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration with the precedence: environment variables
// over config file over built-in defaults. If configPath is empty, standard
// locations are tried:
//   - .gitdeck.yaml (current directory)
//   - .gitdeck.yml (current directory)
//   - ~/.gitdeck/config.yaml
//
// A missing file in standard locations is not an error; an explicitly named
// file that cannot be loaded is.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".gitdeck.yaml",
			".gitdeck.yml",
			filepath.Join(os.Getenv("HOME"), ".gitdeck", "config.yaml"),
		}
		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file into cfg.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies GITDECK_* environment variables on top of the
// loaded configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GITDECK_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("GITDECK_BASE_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("GITDECK_GRAPHQL_ENDPOINT"); v != "" {
		cfg.GitHub.GraphQLEndpoint = v
	}
	if v := os.Getenv("GITDECK_RATE_LIMIT_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RateLimit.Window = d
		}
	}
	if v := os.Getenv("GITDECK_RATE_LIMIT_MAX"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil && n > 0 {
			cfg.RateLimit.MaxRequests = n
		}
	}
}
