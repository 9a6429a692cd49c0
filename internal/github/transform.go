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

import "regexp"

// labelNode and friends mirror the GraphQL node shapes the queries select.
// Label nodes may be null in the response; pointers preserve that.
type labelNode struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type repositoryNode struct {
	Name  string `json:"name"`
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
}

type issueNode struct {
	ID        string `json:"id"`
	Number    int    `json:"number"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	State     string `json:"state"`
	IsDraft   bool   `json:"isDraft"`
	CreatedAt string `json:"createdAt"`
	Labels    struct {
		Nodes []*labelNode `json:"nodes"`
	} `json:"labels"`
	Repository repositoryNode `json:"repository"`
	Comments   struct {
		TotalCount int `json:"totalCount"`
	} `json:"comments"`
}

// pullRequestNode selects the same fields plus isDraft; the shapes are
// close enough that one struct serves both, keyed by which transformer runs.
type pullRequestNode = issueNode

// defaultLabelColor is GitHub's fallback label gray.
const defaultLabelColor = "ededed"

var hexColorRE = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// issueStatus maps a GraphQL issue state to a card status. Unrecognized
// states default to open rather than failing the whole page.
func issueStatus(state string) CardStatus {
	switch state {
	case "OPEN":
		return StatusOpen
	case "CLOSED":
		return StatusClosed
	default:
		return StatusOpen
	}
}

// pullRequestStatus maps a GraphQL pull request state to a card status.
// Draft always wins, even over merged.
func pullRequestStatus(state string, isDraft bool) CardStatus {
	if isDraft {
		return StatusDraft
	}
	switch state {
	case "MERGED":
		return StatusMerged
	case "OPEN":
		return StatusOpen
	case "CLOSED":
		return StatusClosed
	default:
		return StatusOpen
	}
}

// cardLabels drops null label nodes and validates colors as 6-digit hex,
// substituting the default gray otherwise.
func cardLabels(nodes []*labelNode) []CardLabel {
	labels := make([]CardLabel, 0, len(nodes))
	for _, node := range nodes {
		if node == nil {
			continue
		}
		color := node.Color
		if !hexColorRE.MatchString(color) {
			color = defaultLabelColor
		}
		labels = append(labels, CardLabel{Name: node.Name, Color: color})
	}
	return labels
}

// issueToCard transforms an issue node into a Card. Pure.
func issueToCard(node *issueNode) Card {
	return Card{
		ID:     node.ID,
		Number: node.Number,
		Title:  node.Title,
		URL:    node.URL,
		Status: issueStatus(node.State),
		Repository: RepositoryRef{
			Owner: node.Repository.Owner.Login,
			Name:  node.Repository.Name,
		},
		Labels:       cardLabels(node.Labels.Nodes),
		CommentCount: node.Comments.TotalCount,
		CreatedAt:    node.CreatedAt,
	}
}

// pullRequestToCard transforms a pull request node into a Card. Pure.
func pullRequestToCard(node *pullRequestNode) Card {
	card := issueToCard(node)
	card.Status = pullRequestStatus(node.State, node.IsDraft)
	return card
}
