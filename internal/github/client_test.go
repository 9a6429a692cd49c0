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
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gitdeckhq/gitdeck/internal/apperror"
	"github.com/gitdeckhq/gitdeck/test/testutil"
)

func newTestClient(url string) *GraphQLClient {
	return NewGraphQLClient("test-token", url)
}

func TestFetchIssuesCreated(t *testing.T) {
	body := testutil.ViewerResponse("issues", testutil.ConnectionSpec{
		Count:       3,
		NullEdges:   1,
		TotalCount:  57,
		HasNextPage: true,
		EndCursor:   "Y3Vyc29yOjM=",
	})
	srv := testutil.NewStaticServer(t, body)

	result, err := newTestClient(srv.URL).FetchIssuesCreated(context.Background(), FetchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The null edge must be dropped silently.
	if len(result.Items) != 3 {
		t.Errorf("items = %d, want 3", len(result.Items))
	}
	if result.TotalCount != 57 {
		t.Errorf("totalCount = %d, want 57", result.TotalCount)
	}
	if !result.PageInfo.HasNextPage {
		t.Error("hasNextPage = false, want true")
	}
	if result.PageInfo.EndCursor == nil || *result.PageInfo.EndCursor != "Y3Vyc29yOjM=" {
		t.Errorf("endCursor = %v, want Y3Vyc29yOjM=", result.PageInfo.EndCursor)
	}
}

func TestFetchIssuesCreatedSendsVariables(t *testing.T) {
	var captured struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	srv := testutil.NewGraphQLServer(t, func(w http.ResponseWriter, r *http.Request) {
		payload, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(payload, &captured)
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		_, _ = w.Write([]byte(testutil.ViewerResponse("issues", testutil.ConnectionSpec{})))
	})

	cursor := "abc123"
	_, err := newTestClient(srv.URL).FetchIssuesCreated(context.Background(), FetchOptions{
		Cursor: &cursor,
		First:  50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.Variables["cursor"] != "abc123" {
		t.Errorf("cursor variable = %v, want abc123", captured.Variables["cursor"])
	}
	if captured.Variables["first"] != float64(50) {
		t.Errorf("first variable = %v, want 50", captured.Variables["first"])
	}
}

func TestFetchDefaultsNilCursorAndPageSize(t *testing.T) {
	var captured struct {
		Variables map[string]any `json:"variables"`
	}
	srv := testutil.NewGraphQLServer(t, func(w http.ResponseWriter, r *http.Request) {
		payload, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(payload, &captured)
		_, _ = w.Write([]byte(testutil.ViewerResponse("pullRequests", testutil.ConnectionSpec{PullRequests: true})))
	})

	_, err := newTestClient(srv.URL).FetchPullRequests(context.Background(), FetchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.Variables["cursor"] != nil {
		t.Errorf("cursor variable = %v, want null", captured.Variables["cursor"])
	}
	if captured.Variables["first"] != float64(DefaultPageSize) {
		t.Errorf("first variable = %v, want %d", captured.Variables["first"], DefaultPageSize)
	}
}

func TestFetchIssuesAssignedUsesIssueCount(t *testing.T) {
	body := testutil.SearchResponse(testutil.ConnectionSpec{
		Count:      2,
		TotalCount: 133,
	})
	srv := testutil.NewStaticServer(t, body)

	result, err := newTestClient(srv.URL).FetchIssuesAssigned(context.Background(), FetchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalCount != 133 {
		t.Errorf("totalCount = %d, want 133 (from issueCount)", result.TotalCount)
	}
	// endCursor absent in the response must normalize to nil.
	if result.PageInfo.EndCursor != nil {
		t.Errorf("endCursor = %v, want nil", result.PageInfo.EndCursor)
	}
}

func TestFetchReviewRequestsTransformsPullRequests(t *testing.T) {
	body := testutil.SearchResponse(testutil.ConnectionSpec{
		Count:        1,
		TotalCount:   1,
		PullRequests: true,
	})
	srv := testutil.NewStaticServer(t, body)

	result, err := newTestClient(srv.URL).FetchReviewRequests(context.Background(), FetchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(result.Items))
	}
	if result.Items[0].Status != StatusOpen {
		t.Errorf("status = %q, want open", result.Items[0].Status)
	}
}

func TestFetchGraphQLErrorsArray(t *testing.T) {
	body := testutil.GraphQLErrorBody(
		[2]string{"", "Field 'bogus' doesn't exist"},
		[2]string{"", "Another problem"},
	)
	srv := testutil.NewStaticServer(t, body)

	_, err := newTestClient(srv.URL).FetchIssuesCreated(context.Background(), FetchOptions{})
	appErr := apperror.FromError(err)
	if appErr == nil {
		t.Fatalf("want taxonomy error, got %v", err)
	}
	if appErr.Kind != apperror.KindGraphQL {
		t.Errorf("kind = %q, want GRAPHQL_ERROR", appErr.Kind)
	}
	want := "GraphQL errors: Field 'bogus' doesn't exist, Another problem"
	if appErr.Message != want {
		t.Errorf("message = %q, want %q", appErr.Message, want)
	}
	if !appErr.Retryable {
		t.Error("retryable = false, want true")
	}
}

func TestFetchRateLimitedErrorsArray(t *testing.T) {
	body := testutil.GraphQLErrorBody([2]string{"RATE_LIMITED", "API rate limit exhausted"})
	srv := testutil.NewStaticServer(t, body)

	_, err := newTestClient(srv.URL).FetchIssuesCreated(context.Background(), FetchOptions{})
	appErr := apperror.FromError(err)
	if appErr == nil {
		t.Fatalf("want taxonomy error, got %v", err)
	}
	if appErr.Kind != apperror.KindRateLimit {
		t.Errorf("kind = %q, want RATE_LIMIT", appErr.Kind)
	}
	if appErr.RetryAfter != 3600 {
		t.Errorf("retryAfter = %d, want 3600", appErr.RetryAfter)
	}
}

func TestFetchHTTPUnauthorized(t *testing.T) {
	srv := testutil.NewErrorServer(t, http.StatusUnauthorized, nil)

	_, err := newTestClient(srv.URL).FetchIssuesCreated(context.Background(), FetchOptions{})
	appErr := apperror.FromError(err)
	if appErr == nil {
		t.Fatalf("want taxonomy error, got %v", err)
	}
	if appErr.Kind != apperror.KindAuth {
		t.Errorf("kind = %q, want AUTH_ERROR", appErr.Kind)
	}
	if appErr.Retryable {
		t.Error("retryable = true, want false")
	}
}

func TestFetchHTTPRateLimited(t *testing.T) {
	srv := testutil.NewErrorServer(t, http.StatusForbidden, map[string]string{
		"X-RateLimit-Remaining": "0",
		"Retry-After":           "30",
	})

	_, err := newTestClient(srv.URL).FetchIssuesCreated(context.Background(), FetchOptions{})
	appErr := apperror.FromError(err)
	if appErr == nil {
		t.Fatalf("want taxonomy error, got %v", err)
	}
	if appErr.Kind != apperror.KindRateLimit {
		t.Errorf("kind = %q, want RATE_LIMIT", appErr.Kind)
	}
	if appErr.RetryAfter != 30 {
		t.Errorf("retryAfter = %d, want 30", appErr.RetryAfter)
	}
}

func TestFetchNetworkFailure(t *testing.T) {
	srv := testutil.NewStaticServer(t, "{}")
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).FetchIssuesCreated(context.Background(), FetchOptions{})
	appErr := apperror.FromError(err)
	if appErr == nil {
		t.Fatalf("want taxonomy error, got %v", err)
	}
	// The wrapped transport error mentions the failed request; the
	// classifier maps it to a network failure.
	if appErr.Kind != apperror.KindNetwork {
		t.Errorf("kind = %q, want NETWORK_ERROR", appErr.Kind)
	}
}
