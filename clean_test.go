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
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestChromeTagFilter(t *testing.T) {
	tests := []struct {
		name             string
		html             string
		shouldContain    string
		shouldNotContain string
	}{
		{
			name: "removes nav element",
			html: `<html><body>
				<nav>Home | About | Contact</nav>
				<article>Main content here</article>
			</body></html>`,
			shouldContain:    "Main content here",
			shouldNotContain: "Home | About",
		},
		{
			name: "removes header and footer",
			html: `<html><body>
				<header>Site banner</header>
				<p>Body text</p>
				<footer>Copyright notice</footer>
			</body></html>`,
			shouldContain:    "Body text",
			shouldNotContain: "Copyright notice",
		},
		{
			name: "removes aside",
			html: `<html><body>
				<p>Article body</p>
				<aside>Related links</aside>
			</body></html>`,
			shouldContain:    "Article body",
			shouldNotContain: "Related links",
		},
		{
			name: "removes by ARIA role",
			html: `<html><body>
				<div role="navigation">Breadcrumb trail</div>
				<div role="banner">Hero banner</div>
				<p>The content</p>
			</body></html>`,
			shouldContain:    "The content",
			shouldNotContain: "Breadcrumb trail",
		},
	}

	filter := &ChromeTagFilter{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := filter.Filter(docFromHTML(t, tt.html))
			result := doc.Text()
			if !strings.Contains(result, tt.shouldContain) {
				t.Errorf("Result should contain %q but got: %s", tt.shouldContain, result)
			}
			if strings.Contains(result, tt.shouldNotContain) {
				t.Errorf("Result should NOT contain %q but got: %s", tt.shouldNotContain, result)
			}
		})
	}
}

func TestNoiseSelectorFilter(t *testing.T) {
	tests := []struct {
		name             string
		html             string
		shouldContain    string
		shouldNotContain string
	}{
		{
			name: "removes sidebar class",
			html: `<html><body>
				<article>Main content</article>
				<div class="sidebar">Sidebar stuff</div>
			</body></html>`,
			shouldContain:    "Main content",
			shouldNotContain: "Sidebar stuff",
		},
		{
			name: "removes footer id",
			html: `<html><body>
				<article>Article content</article>
				<div id="footer">Footer links</div>
			</body></html>`,
			shouldContain:    "Article content",
			shouldNotContain: "Footer links",
		},
		{
			name: "matches one class among several",
			html: `<html><body>
				<div class="wide menu dark">Nav links</div>
				<main>Main stuff</main>
			</body></html>`,
			shouldContain:    "Main stuff",
			shouldNotContain: "Nav links",
		},
		{
			name: "match is case-sensitive",
			html: `<html><body>
				<div class="Menu">Capitalized menu stays</div>
				<p>Content</p>
			</body></html>`,
			shouldContain: "Capitalized menu stays",
		},
		{
			name: "match is exact, not substring",
			html: `<html><body>
				<div class="main-menu-wrapper">Wrapper stays</div>
				<p>Content</p>
			</body></html>`,
			shouldContain: "Wrapper stays",
		},
		{
			name: "removes breadcrumbs",
			html: `<html><body>
				<div class="breadcrumbs">Home > Docs > Page</div>
				<p>Page body</p>
			</body></html>`,
			shouldContain:    "Page body",
			shouldNotContain: "Home > Docs",
		},
	}

	filter := &NoiseSelectorFilter{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := filter.Filter(docFromHTML(t, tt.html))
			result := doc.Text()
			if !strings.Contains(result, tt.shouldContain) {
				t.Errorf("Result should contain %q but got: %s", tt.shouldContain, result)
			}
			if tt.shouldNotContain != "" && strings.Contains(result, tt.shouldNotContain) {
				t.Errorf("Result should NOT contain %q but got: %s", tt.shouldNotContain, result)
			}
		})
	}
}

func TestCleanerStrictProfile(t *testing.T) {
	html := `<html><head><meta charset="utf-8"><link rel="stylesheet" href="x.css"></head><body>
		<script>console.log("hi")</script>
		<style>.a { color: red }</style>
		<img src="photo.jpg" alt="photo">
		<iframe src="embed.html"></iframe>
		<form><input type="text"><button>Send</button></form>
		<p>Real text</p>
	</body></html>`

	doc := NewCleaner(true).Clean(docFromHTML(t, html))

	if doc.Find("script, style, img, iframe, form, input, button, link, meta").Length() != 0 {
		t.Error("strict profile should remove scripts, media, forms and head plumbing")
	}
	if !strings.Contains(doc.Text(), "Real text") {
		t.Error("content paragraph must survive cleaning")
	}
}

func TestCleanerLooseProfileKeepsMedia(t *testing.T) {
	html := `<html><body>
		<script>tracker()</script>
		<img src="diagram.png" alt="diagram">
		<p>Text</p>
	</body></html>`

	doc := NewCleaner(false).Clean(docFromHTML(t, html))

	if doc.Find("script").Length() != 0 {
		t.Error("scripts are removed in every profile")
	}
	if doc.Find("img").Length() != 1 {
		t.Error("loose profile should keep images")
	}
}

func TestCleanerIdempotent(t *testing.T) {
	html := `<html><body>
		<nav>Navigation</nav>
		<div class="sidebar">Side</div>
		<article><h1>Title</h1><p>Paragraph one.</p><p>Paragraph two.</p></article>
		<footer>Footer</footer>
	</body></html>`

	cleaner := NewCleaner(true)
	doc := cleaner.Clean(docFromHTML(t, html))

	once, err := doc.Html()
	if err != nil {
		t.Fatal(err)
	}
	twice, err := cleaner.Clean(doc).Html()
	if err != nil {
		t.Fatal(err)
	}
	if once != twice {
		t.Errorf("cleaning must be idempotent:\nfirst:  %s\nsecond: %s", once, twice)
	}
}
