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
	"errors"
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "plain URL unchanged",
			raw:  "https://example.com/docs",
			want: "https://example.com/docs",
		},
		{
			name: "fragment stripped",
			raw:  "https://example.com/docs#install",
			want: "https://example.com/docs",
		},
		{
			name: "empty fragment stripped",
			raw:  "https://example.com/docs#",
			want: "https://example.com/docs",
		},
		{
			name: "query preserved",
			raw:  "https://example.com/search?q=crawler#results",
			want: "https://example.com/search?q=crawler",
		},
		{
			name: "bare host gets root path",
			raw:  "https://example.com",
			want: "https://example.com/",
		},
		{
			name:    "garbage rejected",
			raw:     "ht tp://bro ken",
			wantErr: true,
		},
		{
			name:    "empty string rejected",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeURL(%q) = %q, expected error", tt.raw, got)
				}
				if !errors.Is(err, ErrInvalidURL) {
					t.Errorf("error should wrap ErrInvalidURL, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeURL(%q) failed: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeURLFragmentEquivalence(t *testing.T) {
	withFragment, err := NormalizeURL("https://example.com/page#section-3")
	if err != nil {
		t.Fatal(err)
	}
	withoutFragment, err := NormalizeURL("https://example.com/page")
	if err != nil {
		t.Fatal(err)
	}
	if withFragment != withoutFragment {
		t.Errorf("fragment variants should normalize identically: %q vs %q", withFragment, withoutFragment)
	}
	if urlKey(withFragment) != urlKey(withoutFragment) {
		t.Error("fragment variants should produce the same visited-set key")
	}
}

func TestResolveURL(t *testing.T) {
	base := "https://example.com/docs/guide/intro"

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{
			name: "absolute ref replaces base",
			ref:  "https://example.com/other",
			want: "https://example.com/other",
		},
		{
			name: "path-relative ref",
			ref:  "setup",
			want: "https://example.com/docs/guide/setup",
		},
		{
			name: "parent-relative ref",
			ref:  "../api/",
			want: "https://example.com/docs/api/",
		},
		{
			name: "host-relative ref",
			ref:  "/about",
			want: "https://example.com/about",
		},
		{
			name: "fragment-only ref resolves to base without fragment",
			ref:  "#top",
			want: "https://example.com/docs/guide/intro",
		},
		{
			name: "protocol-relative ref",
			ref:  "//example.com/cdn",
			want: "https://example.com/cdn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveURL(base, tt.ref)
			if err != nil {
				t.Fatalf("ResolveURL(%q, %q) failed: %v", base, tt.ref, err)
			}
			if got != tt.want {
				t.Errorf("ResolveURL(%q, %q) = %q, want %q", base, tt.ref, got, tt.want)
			}
		})
	}
}
