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
	"errors"
	"regexp"
	"strconv"
)

// GitHub cursors are opaque base64-ish tokens. The length cap guards
// against absurdly long query strings.
const maxCursorLength = 500

var cursorRE = regexp.MustCompile(`^[A-Za-z0-9+/=_-]*$`)

var (
	errInvalidCursor    = errors.New("Invalid cursor format")
	errPageSizeNotANum  = errors.New("Page size must be a number")
	errPageSizeOutRange = errors.New("Page size must be between 1 and 100")
)

// validateCursor checks a cursor query parameter. An empty cursor is valid
// and means "from the beginning".
func validateCursor(cursor string) error {
	if cursor == "" {
		return nil
	}
	if len(cursor) > maxCursorLength || !cursorRE.MatchString(cursor) {
		return errInvalidCursor
	}
	return nil
}

// validatePageSize parses the first query parameter, defaulting when absent
// and bounding it to [1, 100].
func validatePageSize(value string) (int, error) {
	if value == "" {
		return defaultPageSize, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, errPageSizeNotANum
	}
	if parsed < 1 || parsed > 100 {
		return 0, errPageSizeOutRange
	}
	return parsed, nil
}

const defaultPageSize = 20
