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
	"strings"
	"testing"
)

func TestAggregatorRender(t *testing.T) {
	result := &CrawlResult{
		Seed: "https://example.com/",
		Pages: []Page{
			{URL: "https://example.com/", Title: "Home", Markdown: "# Welcome\n\nHome body.", Seq: 0},
			{URL: "https://example.com/about", Title: "About", Markdown: "# About\n\nAbout body.", Seq: 1},
		},
	}

	var buf bytes.Buffer
	if err := (&Aggregator{}).Render(&buf, result); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "# Site export: https://example.com/") {
		t.Errorf("document should open with the derived title:\n%s", out)
	}

	// Pages appear in result order, each introduced by its URL heading.
	first := strings.Index(out, "## https://example.com/\n")
	second := strings.Index(out, "## https://example.com/about")
	if first == -1 || second == -1 {
		t.Fatalf("page headings missing:\n%s", out)
	}
	if first > second {
		t.Error("pages rendered out of order")
	}

	if !strings.Contains(out, "Home body.") || !strings.Contains(out, "About body.") {
		t.Errorf("page content missing:\n%s", out)
	}
	if got := strings.Count(out, "---"); got != 2 {
		t.Errorf("expected one separator per page (2), found %d", got)
	}
	// The separator follows each section's content.
	if sep := strings.Index(out, "---"); sep < strings.Index(out, "Home body.") {
		t.Error("separator should come after the section content")
	}
}

func TestAggregatorRenderDuplicates(t *testing.T) {
	result := &CrawlResult{
		Seed: "https://example.com/",
		Pages: []Page{
			{URL: "https://example.com/page", Markdown: "Body.", Seq: 0},
			{URL: "https://example.com/alias", DuplicateOf: "https://example.com/page", Seq: 1},
		},
	}

	var buf bytes.Buffer
	if err := (&Aggregator{}).Render(&buf, result); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, "Content identical to https://example.com/page.") {
		t.Errorf("duplicate page should render a cross-reference:\n%s", out)
	}
}

func TestAggregatorCustomTitle(t *testing.T) {
	result := &CrawlResult{Seed: "https://example.com/", Pages: []Page{{URL: "https://example.com/", Markdown: "x"}}}

	var buf bytes.Buffer
	if err := (&Aggregator{Title: "My Docs"}).Render(&buf, result); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "# My Docs") {
		t.Errorf("custom title should override the default:\n%s", buf.String())
	}
}

func TestDefaultOutputFile(t *testing.T) {
	tests := []struct {
		seed string
		want string
	}{
		{"https://example.com/", "example-com.md"},
		{"https://docs.example.com/guide/", "docs-example-com-guide.md"},
		{"http://example.com/a/b", "example-com-a-b.md"},
	}

	for _, tt := range tests {
		if got := DefaultOutputFile(tt.seed); got != tt.want {
			t.Errorf("DefaultOutputFile(%q) = %q, want %q", tt.seed, got, tt.want)
		}
	}
}
