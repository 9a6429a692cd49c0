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

// Package testutil provides common test helpers for gitdeck.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// MockServer wraps an httptest server standing in for GitHub's GraphQL
// endpoint. RequestCount is incremented for every request received.
type MockServer struct {
	*httptest.Server
	requests atomic.Int32
}

// Requests returns how many requests the server has received.
func (s *MockServer) Requests() int {
	return int(s.requests.Load())
}

// NewGraphQLServer creates a mock server delegating to handler after
// counting the request.
func NewGraphQLServer(t *testing.T, handler http.HandlerFunc) *MockServer {
	t.Helper()
	s := &MockServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// NewStaticServer creates a mock server that always responds with the given
// JSON document and a 200 status.
func NewStaticServer(t *testing.T, body string) *MockServer {
	t.Helper()
	return NewGraphQLServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
}

// NewErrorServer creates a mock server that always fails with statusCode and
// the given extra headers.
func NewErrorServer(t *testing.T, statusCode int, headers map[string]string) *MockServer {
	t.Helper()
	return NewGraphQLServer(t, func(w http.ResponseWriter, r *http.Request) {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(http.StatusText(statusCode)))
	})
}

// GraphQLErrorBody builds a 200-status GraphQL response whose top-level
// errors array contains one entry per (type, message) pair.
func GraphQLErrorBody(entries ...[2]string) string {
	type entry struct {
		Message string `json:"message"`
		Type    string `json:"type,omitempty"`
	}
	errs := make([]entry, len(entries))
	for i, e := range entries {
		errs[i] = entry{Type: e[0], Message: e[1]}
	}
	doc := map[string]any{"data": nil, "errors": errs}
	b, err := json.Marshal(doc)
	if err != nil {
		panic(fmt.Sprintf("testutil: %v", err))
	}
	return string(b)
}
