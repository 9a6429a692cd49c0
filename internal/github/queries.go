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

// Shared field fragments. Labels are capped at 10 per card; the dashboard
// never renders more than that.
const cardFragments = `
fragment LabelFields on Label {
  name
  color
}
fragment RepositoryFields on Repository {
  name
  owner {
    login
  }
}
fragment IssueFields on Issue {
  id
  number
  title
  url
  state
  createdAt
  labels(first: 10) {
    nodes {
      ...LabelFields
    }
  }
  repository {
    ...RepositoryFields
  }
  comments {
    totalCount
  }
}
fragment PullRequestFields on PullRequest {
  id
  number
  title
  url
  state
  isDraft
  createdAt
  labels(first: 10) {
    nodes {
      ...LabelFields
    }
  }
  repository {
    ...RepositoryFields
  }
  comments {
    totalCount
  }
}
`

// queryIssuesCreated lists the viewer's own open issues, newest first.
const queryIssuesCreated = cardFragments + `
query IssuesCreated($cursor: String, $first: Int!) {
  viewer {
    issues(
      first: $first
      after: $cursor
      states: OPEN
      orderBy: { field: CREATED_AT, direction: DESC }
    ) {
      totalCount
      pageInfo {
        hasNextPage
        endCursor
      }
      edges {
        node {
          ...IssueFields
        }
      }
    }
  }
}
`

// queryPullRequests lists the viewer's own open pull requests, newest first.
const queryPullRequests = cardFragments + `
query PullRequests($cursor: String, $first: Int!) {
  viewer {
    pullRequests(
      first: $first
      after: $cursor
      states: OPEN
      orderBy: { field: CREATED_AT, direction: DESC }
    ) {
      totalCount
      pageInfo {
        hasNextPage
        endCursor
      }
      edges {
        node {
          ...PullRequestFields
        }
      }
    }
  }
}
`

// queryIssuesAssigned finds open issues assigned to the viewer. Search
// connections report their match count as issueCount, not totalCount.
const queryIssuesAssigned = cardFragments + `
query IssuesAssigned($cursor: String, $first: Int!) {
  search(
    query: "is:issue is:open assignee:@me sort:created-desc"
    type: ISSUE
    first: $first
    after: $cursor
  ) {
    issueCount
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        ...IssueFields
      }
    }
  }
}
`

// queryReviewRequests finds open pull requests awaiting the viewer's review.
const queryReviewRequests = cardFragments + `
query ReviewRequests($cursor: String, $first: Int!) {
  search(
    query: "is:pr is:open review-requested:@me sort:created-desc"
    type: ISSUE
    first: $first
    after: $cursor
  ) {
    issueCount
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        ...PullRequestFields
      }
    }
  }
}
`
