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

// Package gherror classifies raw GitHub API failures into the application
// error taxonomy. It owns the wire-level error shapes raised by the GraphQL
// transport so the classifier can inspect them without string matching.
package gherror

import (
	"fmt"
	"net/http"
	"strings"
)

// GraphQLError is one entry of a GraphQL response's top-level errors array.
// GitHub reports rate limiting either through Type or Extensions.Code, both
// set to "RATE_LIMITED", on an otherwise successful HTTP 200 response.
type GraphQLError struct {
	Message    string `json:"message"`
	Type       string `json:"type"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// GraphQLErrors is the full errors array of a GraphQL response.
type GraphQLErrors []GraphQLError

// Error joins all entry messages so wrapped errors stay readable in logs.
func (e GraphQLErrors) Error() string {
	msgs := make([]string, len(e))
	for i, entry := range e {
		msgs[i] = entry.Message
	}
	return fmt.Sprintf("graphql errors: %s", strings.Join(msgs, ", "))
}

// Messages returns the entry messages in order.
func (e GraphQLErrors) Messages() []string {
	msgs := make([]string, len(e))
	for i, entry := range e {
		msgs[i] = entry.Message
	}
	return msgs
}

// RequestError is a non-200 HTTP response from the GraphQL endpoint. The
// headers are retained so rate-limit metadata survives to classification.
type RequestError struct {
	StatusCode int
	Status     string
	Header     http.Header
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("graphql request failed: %s", e.Status)
}
