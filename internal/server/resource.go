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

package server

import (
	"context"
	"fmt"

	"github.com/gitdeckhq/gitdeck/internal/github"
)

// Resource tags one dashboard column. The set is closed; an unknown tag is
// a construction-time error, never a silent fallback.
type Resource string

const (
	ResourceIssuesCreated  Resource = "issues-created"
	ResourceIssuesAssigned Resource = "issues-assigned"
	ResourcePullRequests   Resource = "pull-requests"
	ResourceReviewRequests Resource = "review-requests"
)

// Path returns the API path serving the resource.
func (r Resource) Path() string {
	switch r {
	case ResourceIssuesCreated:
		return "/api/issues/created"
	case ResourceIssuesAssigned:
		return "/api/issues/assigned"
	case ResourcePullRequests:
		return "/api/pull-requests"
	case ResourceReviewRequests:
		return "/api/review-requests"
	default:
		return ""
	}
}

// Resources lists every known resource in column order.
func Resources() []Resource {
	return []Resource{
		ResourceIssuesCreated,
		ResourceIssuesAssigned,
		ResourcePullRequests,
		ResourceReviewRequests,
	}
}

// fetchFunc executes one page fetch for a resource.
type fetchFunc func(ctx context.Context, opts github.FetchOptions) (*github.FetchResult, error)

// dispatchTable binds every resource to its fetcher once, at construction.
func dispatchTable(client github.Client) (map[Resource]fetchFunc, error) {
	table := map[Resource]fetchFunc{
		ResourceIssuesCreated:  client.FetchIssuesCreated,
		ResourceIssuesAssigned: client.FetchIssuesAssigned,
		ResourcePullRequests:   client.FetchPullRequests,
		ResourceReviewRequests: client.FetchReviewRequests,
	}
	for _, r := range Resources() {
		if table[r] == nil {
			return nil, fmt.Errorf("no fetcher bound for resource %q", r)
		}
	}
	return table, nil
}
