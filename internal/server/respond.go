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

package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gitdeckhq/gitdeck/internal/apperror"
	"github.com/gitdeckhq/gitdeck/internal/log"
)

// errorBody is the JSON error envelope of every non-200 response.
type errorBody struct {
	Error *apperror.Error `json:"error"`
}

// writeJSON serializes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("writing response failed", "error", err)
	}
}

// writeError sends an error envelope. The message is the caller's to
// choose; handlers substitute safe messages for upstream failures before
// calling this.
func writeError(w http.ResponseWriter, status int, appErr *apperror.Error) {
	if appErr.Kind == apperror.KindRateLimit && appErr.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(appErr.RetryAfter))
	}
	writeJSON(w, status, errorBody{Error: appErr})
}

// writeFetchError maps a classified fetch failure to its HTTP shape,
// replacing the internal message with the kind's fixed safe message so no
// upstream error text leaks to clients.
func writeFetchError(w http.ResponseWriter, appErr *apperror.Error) {
	safe := &apperror.Error{
		Kind:       appErr.Kind,
		Message:    apperror.SafeMessage(appErr.Kind),
		Retryable:  appErr.Retryable,
		RetryAfter: appErr.RetryAfter,
	}
	writeError(w, apperror.StatusCode(appErr.Kind), safe)
}
