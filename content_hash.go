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
	"bytes"
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
)

var (
	htmlCommentPattern = regexp.MustCompile(`<!--[\s\S]*?-->`)

	// Timestamps churn between fetches of otherwise identical pages.
	timestampPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:\d{2})`),
		regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`),
		regexp.MustCompile(`\d+\s+(?:second|minute|hour|day|week|month|year)s?\s+ago`),
	}

	// Per-request tokens that make identical pages hash differently.
	sessionTokenPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:session|request|trace)[-_]?id[:=]\s*["']?[a-f0-9-]{8,}["']?`),
		regexp.MustCompile(`(?i)csrf[-_]?token[:=]\s*["']?[a-zA-Z0-9+/=]{16,}["']?`),
	}

	hashWhitespacePattern = regexp.MustCompile(`\s+`)
	betweenTagsPattern    = regexp.MustCompile(`>\s+<`)
)

// PageFingerprint computes a stable fingerprint of a page's HTML for
// duplicate-content detection. The page is normalized first: script,
// style, nav and footer subtrees are dropped, comments, timestamps and
// per-request tokens are stripped, and whitespace is collapsed, so the
// fingerprint survives the cosmetic differences between URL aliases of
// the same page.
func PageFingerprint(htmlBody []byte) (string, error) {
	normalized, err := normalizeForFingerprint(htmlBody)
	if err != nil {
		return "", err
	}
	if len(normalized) == 0 {
		return "", fmt.Errorf("nothing left to fingerprint after normalization")
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(normalized)), nil
}

func normalizeForFingerprint(htmlBody []byte) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBody))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, nav, footer").Remove()

	content, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("failed to render HTML: %w", err)
	}

	out := []byte(content)
	out = htmlCommentPattern.ReplaceAll(out, nil)
	for _, p := range timestampPatterns {
		out = p.ReplaceAll(out, []byte("[TIME]"))
	}
	for _, p := range sessionTokenPatterns {
		out = p.ReplaceAll(out, nil)
	}
	out = betweenTagsPattern.ReplaceAll(out, []byte("><"))
	out = hashWhitespacePattern.ReplaceAll(bytes.TrimSpace(out), []byte(" "))
	return out, nil
}
