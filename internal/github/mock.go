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

import "context"

// MockClient implements Client with configurable function fields for tests.
// Unset fields return an empty result. Call counts are recorded so tests can
// assert a fetcher was or was not invoked.
type MockClient struct {
	IssuesCreatedFunc  func(ctx context.Context, opts FetchOptions) (*FetchResult, error)
	IssuesAssignedFunc func(ctx context.Context, opts FetchOptions) (*FetchResult, error)
	PullRequestsFunc   func(ctx context.Context, opts FetchOptions) (*FetchResult, error)
	ReviewRequestsFunc func(ctx context.Context, opts FetchOptions) (*FetchResult, error)

	Calls []string
}

// emptyResult is what unset mock methods return.
func emptyResult() *FetchResult {
	return &FetchResult{Items: []Card{}}
}

// FetchIssuesCreated implements Client.
func (m *MockClient) FetchIssuesCreated(ctx context.Context, opts FetchOptions) (*FetchResult, error) {
	m.Calls = append(m.Calls, "issues-created")
	if m.IssuesCreatedFunc != nil {
		return m.IssuesCreatedFunc(ctx, opts)
	}
	return emptyResult(), nil
}

// FetchIssuesAssigned implements Client.
func (m *MockClient) FetchIssuesAssigned(ctx context.Context, opts FetchOptions) (*FetchResult, error) {
	m.Calls = append(m.Calls, "issues-assigned")
	if m.IssuesAssignedFunc != nil {
		return m.IssuesAssignedFunc(ctx, opts)
	}
	return emptyResult(), nil
}

// FetchPullRequests implements Client.
func (m *MockClient) FetchPullRequests(ctx context.Context, opts FetchOptions) (*FetchResult, error) {
	m.Calls = append(m.Calls, "pull-requests")
	if m.PullRequestsFunc != nil {
		return m.PullRequestsFunc(ctx, opts)
	}
	return emptyResult(), nil
}

// FetchReviewRequests implements Client.
func (m *MockClient) FetchReviewRequests(ctx context.Context, opts FetchOptions) (*FetchResult, error) {
	m.Calls = append(m.Calls, "review-requests")
	if m.ReviewRequestsFunc != nil {
		return m.ReviewRequestsFunc(ctx, opts)
	}
	return emptyResult(), nil
}
