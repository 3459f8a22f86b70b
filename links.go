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
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractLinks scans the document for anchor hrefs in document order and
// returns the in-scope ones, resolved and normalized against pageURL.
// Hrefs that fail to parse are skipped silently; asset URLs and
// out-of-scope URLs are dropped. Duplicates are passed through unchanged,
// the frontier dedups at claim time.
//
// ExtractLinks must run on the raw tree, before cleaning, so that links
// inside navigation chrome still feed the crawl.
func ExtractLinks(doc *goquery.Document, pageURL string, scope *Scope) []string {
	var links []string

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
			return
		}

		resolved, err := ResolveURL(pageURL, href)
		if err != nil {
			return
		}
		if !strings.HasPrefix(resolved, "http://") && !strings.HasPrefix(resolved, "https://") {
			return
		}
		if IsAssetURL(resolved) {
			return
		}
		if !scope.Allows(resolved) {
			return
		}

		links = append(links, resolved)
	})

	return links
}
