// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sitemark

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	whatwgUrl "github.com/nlnwa/whatwg-url/url"
)

var urlParser = whatwgUrl.NewParser(whatwgUrl.WithPercentEncodeSinglePercentSign())

// NormalizeURL parses raw as an absolute URL and returns its canonical
// string form with any fragment removed. Two URLs that differ only in
// their fragment normalize to the same string.
func NormalizeURL(raw string) (string, error) {
	parsed, err := urlParser.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidURL, raw, err)
	}
	return parsed.Href(true), nil
}

// ResolveURL resolves ref against the page URL base and returns the
// normalized absolute form. ref may be absolute, host-relative,
// path-relative or a bare fragment.
func ResolveURL(base, ref string) (string, error) {
	parsed, err := urlParser.ParseRef(base, ref)
	if err != nil {
		return "", fmt.Errorf("%w: %q against %q: %v", ErrInvalidURL, ref, base, err)
	}
	return parsed.Href(true), nil
}

// urlKey returns the dedup key of a normalized URL for the visited set.
func urlKey(normalizedURL string) uint64 {
	return xxhash.Sum64String(normalizedURL)
}
