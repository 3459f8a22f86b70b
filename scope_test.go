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
	"testing"
)

func TestScopeHostMatching(t *testing.T) {
	scope, err := NewScope("https://example.com/", false, nil)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"same host", "https://example.com/page", true},
		{"www variant allowed", "https://www.example.com/page", true},
		{"other host rejected", "https://other.com/page", false},
		{"subdomain rejected", "https://docs.example.com/page", false},
		{"scheme change still same host", "http://example.com/page", true},
		{"host uppercase compares equal", "https://EXAMPLE.com/page", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scope.Allows(tt.url); got != tt.want {
				t.Errorf("Allows(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestScopeWWWSeed(t *testing.T) {
	scope, err := NewScope("https://www.example.com/", false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !scope.Allows("https://example.com/page") {
		t.Error("non-www URL should be in scope of a www seed")
	}
}

func TestScopePathPrefix(t *testing.T) {
	scope, err := NewScope("https://example.com/docs", true, nil)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"under prefix", "https://example.com/docs/guide", true},
		{"prefix itself", "https://example.com/docs", true},
		{"prefix with slash", "https://example.com/docs/", true},
		{"outside prefix", "https://example.com/blog/post", false},
		{"sibling with shared string prefix", "https://example.com/docs-v2/guide", false},
		{"root page", "https://example.com/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scope.Allows(tt.url); got != tt.want {
				t.Errorf("Allows(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestScopeExcludePatterns(t *testing.T) {
	scope, err := NewScope("https://example.com/", false, []string{"*/private/*", "*logout*"})
	if err != nil {
		t.Fatal(err)
	}

	if scope.Allows("https://example.com/private/admin") {
		t.Error("excluded pattern should reject the URL")
	}
	if scope.Allows("https://example.com/logout") {
		t.Error("excluded pattern should reject the URL")
	}
	if !scope.Allows("https://example.com/public") {
		t.Error("non-matching URL should stay in scope")
	}
}

func TestScopeBadExcludePattern(t *testing.T) {
	if _, err := NewScope("https://example.com/", false, []string{"[invalid"}); err == nil {
		t.Error("expected error for malformed glob pattern")
	}
}

func TestIsAssetURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/logo.png", true},
		{"https://example.com/logo.PNG", true},
		{"https://example.com/app.js", true},
		{"https://example.com/style.css", true},
		{"https://example.com/manual.pdf", true},
		{"https://example.com/font.woff2", true},
		{"https://example.com/image.png?v=2", true},
		{"https://example.com/page", false},
		{"https://example.com/page.html", false},
		{"https://example.com/docs/", false},
		{"https://example.com/release-notes", false},
	}

	for _, tt := range tests {
		if got := IsAssetURL(tt.url); got != tt.want {
			t.Errorf("IsAssetURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
