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
	"errors"
	"net/http"
	"strings"

	"github.com/gitdeckhq/gitdeck/internal/apperror"
	"github.com/gitdeckhq/gitdeck/internal/gherror"
)

// DefaultEndpoint is GitHub.com's GraphQL endpoint.
const DefaultEndpoint = "https://api.github.com/graphql"

// Client is the fetcher surface consumed by the API layer, one method per
// dashboard column. Implementations classify every failure into the
// application error taxonomy before returning it.
type Client interface {
	FetchIssuesCreated(ctx context.Context, opts FetchOptions) (*FetchResult, error)
	FetchIssuesAssigned(ctx context.Context, opts FetchOptions) (*FetchResult, error)
	FetchPullRequests(ctx context.Context, opts FetchOptions) (*FetchResult, error)
	FetchReviewRequests(ctx context.Context, opts FetchOptions) (*FetchResult, error)
}

// GraphQLClient implements Client against GitHub's GraphQL API.
type GraphQLClient struct {
	endpoint   string
	httpClient *http.Client
	classifier *gherror.Classifier
}

// NewGraphQLClient creates a client authenticating with token. An empty
// endpoint selects GitHub.com; GitHub Enterprise deployments pass their own.
func NewGraphQLClient(token, endpoint string) *GraphQLClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &GraphQLClient{
		endpoint:   endpoint,
		httpClient: newHTTPClient(token),
		classifier: gherror.NewClassifier(),
	}
}

// connection is the generic shape of both viewer-scoped and search-scoped
// paginated results. Viewer connections report totalCount; search
// connections report the match count as issueCount instead.
type connection struct {
	TotalCount int `json:"totalCount"`
	IssueCount int `json:"issueCount"`
	PageInfo   struct {
		HasNextPage bool   `json:"hasNextPage"`
		EndCursor   string `json:"endCursor"`
	} `json:"pageInfo"`
	Edges []struct {
		Node *issueNode `json:"node"`
	} `json:"edges"`
}

// total returns whichever count field the server populated.
func (c *connection) total() int {
	if c.TotalCount > 0 {
		return c.TotalCount
	}
	return c.IssueCount
}

// FetchIssuesCreated returns a page of open issues the viewer created.
func (c *GraphQLClient) FetchIssuesCreated(ctx context.Context, opts FetchOptions) (*FetchResult, error) {
	var data struct {
		Viewer struct {
			Issues connection `json:"issues"`
		} `json:"viewer"`
	}
	if err := c.do(ctx, queryIssuesCreated, variables(opts), &data); err != nil {
		return nil, c.queryError(err)
	}
	return buildResult(&data.Viewer.Issues, issueToCard), nil
}

// FetchIssuesAssigned returns a page of open issues assigned to the viewer.
func (c *GraphQLClient) FetchIssuesAssigned(ctx context.Context, opts FetchOptions) (*FetchResult, error) {
	var data struct {
		Search connection `json:"search"`
	}
	if err := c.do(ctx, queryIssuesAssigned, variables(opts), &data); err != nil {
		return nil, c.queryError(err)
	}
	return buildResult(&data.Search, issueToCard), nil
}

// FetchPullRequests returns a page of the viewer's open pull requests.
func (c *GraphQLClient) FetchPullRequests(ctx context.Context, opts FetchOptions) (*FetchResult, error) {
	var data struct {
		Viewer struct {
			PullRequests connection `json:"pullRequests"`
		} `json:"viewer"`
	}
	if err := c.do(ctx, queryPullRequests, variables(opts), &data); err != nil {
		return nil, c.queryError(err)
	}
	return buildResult(&data.Viewer.PullRequests, pullRequestToCard), nil
}

// FetchReviewRequests returns a page of open pull requests awaiting the
// viewer's review.
func (c *GraphQLClient) FetchReviewRequests(ctx context.Context, opts FetchOptions) (*FetchResult, error) {
	var data struct {
		Search connection `json:"search"`
	}
	if err := c.do(ctx, queryReviewRequests, variables(opts), &data); err != nil {
		return nil, c.queryError(err)
	}
	return buildResult(&data.Search, pullRequestToCard), nil
}

// variables builds the GraphQL variables map. A nil cursor is sent as null,
// which GitHub interprets as "from the beginning".
func variables(opts FetchOptions) map[string]any {
	vars := map[string]any{
		"first":  opts.first(),
		"cursor": nil,
	}
	if opts.Cursor != nil {
		vars["cursor"] = *opts.Cursor
	}
	return vars
}

// buildResult normalizes a connection into the uniform envelope. Edges whose
// node is null (deleted or inaccessible items) are dropped silently, and an
// absent endCursor becomes nil so downstream pagination has a single
// "no more pages" sentinel.
func buildResult(conn *connection, transform func(*issueNode) Card) *FetchResult {
	items := make([]Card, 0, len(conn.Edges))
	for _, edge := range conn.Edges {
		if edge.Node == nil {
			continue
		}
		items = append(items, transform(edge.Node))
	}

	var endCursor *string
	if conn.PageInfo.EndCursor != "" {
		cursor := conn.PageInfo.EndCursor
		endCursor = &cursor
	}

	return &FetchResult{
		Items:      items,
		TotalCount: conn.total(),
		PageInfo: PageInfo{
			HasNextPage: conn.PageInfo.HasNextPage,
			EndCursor:   endCursor,
		},
	}
}

// queryError converts a raw query failure into a taxonomy error. A GraphQL
// errors array on HTTP 200 becomes GRAPHQL_ERROR with the messages joined,
// unless the classifier recognizes it as rate limiting, which takes
// precedence. Everything else goes straight through classification. Fetchers
// never swallow: the caller always sees a classified error.
func (c *GraphQLClient) queryError(err error) error {
	classified := c.classifier.Classify(err)

	var gqlErrs gherror.GraphQLErrors
	if errors.As(err, &gqlErrs) && classified.Kind != apperror.KindRateLimit {
		return apperror.New(apperror.KindGraphQL,
			"GraphQL errors: "+strings.Join(gqlErrs.Messages(), ", "))
	}
	return classified
}
