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

package testutil

import (
	"encoding/json"
	"fmt"
)

// ConnectionSpec configures a generated GraphQL connection payload.
type ConnectionSpec struct {
	// Count is how many non-null nodes to generate.
	Count int
	// NullEdges inserts that many edges whose node is null.
	NullEdges int
	// TotalCount is the server-reported match count.
	TotalCount int
	// HasNextPage and EndCursor populate pageInfo. An empty EndCursor is
	// emitted as JSON null.
	HasNextPage bool
	EndCursor   string
	// PullRequests switches node generation to pull request shapes
	// (isDraft false, state OPEN).
	PullRequests bool
}

// node generates the i-th item node.
func (s ConnectionSpec) node(i int) map[string]any {
	kind := "I"
	if s.PullRequests {
		kind = "PR"
	}
	n := map[string]any{
		"id":        fmt.Sprintf("%s_node%d", kind, i),
		"number":    100 + i,
		"title":     fmt.Sprintf("Item %d", i),
		"url":       fmt.Sprintf("https://github.com/acme/widgets/issues/%d", 100+i),
		"state":     "OPEN",
		"createdAt": "2026-01-02T03:04:05Z",
		"labels": map[string]any{
			"nodes": []any{
				map[string]any{"name": "bug", "color": "d73a4a"},
			},
		},
		"repository": map[string]any{
			"name":  "widgets",
			"owner": map[string]any{"login": "acme"},
		},
		"comments": map[string]any{"totalCount": i},
	}
	if s.PullRequests {
		n["isDraft"] = false
	}
	return n
}

// connection builds the connection object shared by both response shapes.
func (s ConnectionSpec) connection(countField string) map[string]any {
	edges := make([]any, 0, s.Count+s.NullEdges)
	for i := 0; i < s.Count; i++ {
		edges = append(edges, map[string]any{"node": s.node(i)})
	}
	for i := 0; i < s.NullEdges; i++ {
		edges = append(edges, map[string]any{"node": nil})
	}

	var endCursor any
	if s.EndCursor != "" {
		endCursor = s.EndCursor
	}

	return map[string]any{
		countField: s.TotalCount,
		"pageInfo": map[string]any{
			"hasNextPage": s.HasNextPage,
			"endCursor":   endCursor,
		},
		"edges": edges,
	}
}

// ViewerResponse builds a viewer-scoped GraphQL response document for the
// given connection field ("issues" or "pullRequests").
func ViewerResponse(field string, spec ConnectionSpec) string {
	doc := map[string]any{
		"data": map[string]any{
			"viewer": map[string]any{
				field: spec.connection("totalCount"),
			},
		},
	}
	return mustJSON(doc)
}

// SearchResponse builds a search-scoped GraphQL response document. Search
// connections report their match count as issueCount.
func SearchResponse(spec ConnectionSpec) string {
	doc := map[string]any{
		"data": map[string]any{
			"search": spec.connection("issueCount"),
		},
	}
	return mustJSON(doc)
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testutil: %v", err))
	}
	return string(b)
}
