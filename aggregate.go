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
	"io"
	"strings"

	"github.com/kennygrant/sanitize"
	"github.com/nao1215/markdown"
)

// Aggregator folds the pages of a crawl into one markdown document:
// a title, then for every page in claim order its URL as a section
// heading, its converted content, and a separator. Aggregation is pure
// formatting; it never reorders or filters pages.
type Aggregator struct {
	// Title overrides the document title. Empty means a title derived
	// from the seed URL.
	Title string
}

// Render writes the aggregated document to w.
func (a *Aggregator) Render(w io.Writer, result *CrawlResult) error {
	title := a.Title
	if title == "" {
		title = "Site export: " + result.Seed
	}

	md := markdown.NewMarkdown(w)
	md.H1(title)
	md.PlainTextf("%d pages crawled from %s.", len(result.Pages), result.Seed)

	for i := range result.Pages {
		page := &result.Pages[i]
		md.H2(page.URL)
		switch {
		case page.DuplicateOf != "":
			md.PlainTextf("Content identical to %s.", page.DuplicateOf)
		case page.Markdown == "":
			md.PlainText("(no content)")
		default:
			md.PlainText(page.Markdown)
		}
		md.HorizontalRule()
	}

	return md.Build()
}

// DefaultOutputFile derives a filesystem-safe output file name from a
// normalized seed URL, e.g. "https://docs.example.com/guide/" becomes
// "docs-example-com-guide.md".
func DefaultOutputFile(seed string) string {
	name := seed
	name = strings.TrimPrefix(name, "https://")
	name = strings.TrimPrefix(name, "http://")
	name = strings.Trim(name, "/")
	name = sanitize.BaseName(strings.ReplaceAll(name, "/", "-"))
	if name == "" {
		name = "output"
	}
	return name + ".md"
}
