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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gitdeckhq/gitdeck/internal/gherror"
)

// maxResponseSize caps GraphQL response bodies to guard against a
// misbehaving endpoint exhausting memory.
const maxResponseSize = 10 << 20 // 10 MiB

// graphqlRequest is the JSON envelope of an outbound GraphQL call.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphqlResponse is the generic response envelope. Data is decoded by the
// caller into a query-specific shape; Errors is the top-level errors array
// GitHub populates even on HTTP 200.
type graphqlResponse struct {
	Data   json.RawMessage       `json:"data"`
	Errors gherror.GraphQLErrors `json:"errors"`
}

// do executes one GraphQL call and decodes the data payload into out.
// Failure modes map onto the error shapes the classifier understands:
// non-200 responses become *gherror.RequestError with headers retained,
// and a populated errors array becomes gherror.GraphQLErrors.
func (c *GraphQLClient) do(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encoding graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("network request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused; the body of an error
		// response is not part of the contract.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return &gherror.RequestError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Header:     resp.Header,
		}
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("network read failed: %w", err)
	}

	var envelope graphqlResponse
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return fmt.Errorf("decoding graphql response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		return envelope.Errors
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decoding graphql data: %w", err)
	}
	return nil
}
