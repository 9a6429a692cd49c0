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

// Package github fetches the authenticated user's issues, pull requests and
// review requests through GitHub's GraphQL API and normalizes them into
// display-ready cards with a uniform pagination envelope.
package github

import "github.com/gitdeckhq/gitdeck/internal/apperror"

// CardStatus is the display state of a card.
type CardStatus string

const (
	StatusOpen   CardStatus = "open"
	StatusClosed CardStatus = "closed"
	StatusMerged CardStatus = "merged"
	StatusDraft  CardStatus = "draft"
)

// CardLabel is a label reduced to the two fields the dashboard renders.
type CardLabel struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// RepositoryRef locates the repository a card belongs to.
type RepositoryRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// Card is a normalized display record. It is immutable once constructed and
// produced exclusively by the transformers in this package. Number is scoped
// to its repository and not globally unique; ID is.
type Card struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Status       CardStatus    `json:"status"`
	Labels       []CardLabel   `json:"labels"`
	Repository   RepositoryRef `json:"repository"`
	Number       int           `json:"number"`
	CreatedAt    string        `json:"createdAt"`
	CommentCount int           `json:"commentCount"`
	URL          string        `json:"url"`
}

// PageInfo carries cursor pagination state. A nil EndCursor means there are
// no further pages; it must never be sent back as a cursor.
type PageInfo struct {
	HasNextPage bool    `json:"hasNextPage"`
	EndCursor   *string `json:"endCursor"`
}

// FetchResult is the uniform pagination envelope returned by every fetcher.
// Items preserve server order and are never re-sorted. TotalCount is the
// server-reported match count and may exceed len(Items). Error is only set
// when a fetch partially failed but the response was still delivered.
type FetchResult struct {
	Items      []Card          `json:"items"`
	TotalCount int             `json:"totalCount"`
	PageInfo   PageInfo        `json:"pageInfo"`
	Error      *apperror.Error `json:"error,omitempty"`
}

// FetchOptions configures one page fetch. A nil Cursor starts from the
// beginning; First defaults to DefaultPageSize when zero.
type FetchOptions struct {
	Cursor *string
	First  int
}

// DefaultPageSize is the page size used when FetchOptions.First is unset.
const DefaultPageSize = 20

// first returns the effective page size.
func (o FetchOptions) first() int {
	if o.First <= 0 {
		return DefaultPageSize
	}
	return o.First
}
