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
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

// assetExtensions lists path suffixes that identify non-document resources.
// URLs ending in one of these are never enqueued.
var assetExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".ico", ".bmp", ".avif",
	".css", ".js", ".mjs", ".json", ".xml",
	".woff", ".woff2", ".ttf", ".otf", ".eot",
	".mp3", ".mp4", ".webm", ".ogg", ".wav", ".avi", ".mov",
	".pdf", ".zip", ".gz", ".tar", ".rar", ".7z", ".dmg", ".exe",
}

// Scope decides which discovered URLs belong to a crawl. It is derived
// from the seed URL: same host always, same path prefix when pathScoped.
type Scope struct {
	host       string // seed hostname, lowercased, www-stripped
	basePath   string // seed path with trailing slash, only consulted when pathScoped
	pathScoped bool
	exclude    []glob.Glob
}

// NewScope builds the crawl scope from a normalized seed URL. When
// pathScoped is true, only URLs under the seed's path prefix are in
// scope. excludePatterns are glob patterns matched against the full
// normalized URL; matching URLs are rejected.
func NewScope(seed string, pathScoped bool, excludePatterns []string) (*Scope, error) {
	parsed, err := url.Parse(seed)
	if err != nil {
		return nil, ErrInvalidSeed
	}

	s := &Scope{
		host:       stripWWW(strings.ToLower(parsed.Hostname())),
		pathScoped: pathScoped,
	}
	if s.host == "" {
		return nil, ErrInvalidSeed
	}
	if pathScoped {
		s.basePath = ensureTrailingSlash(parsed.EscapedPath())
	}

	for _, pattern := range excludePatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		s.exclude = append(s.exclude, g)
	}

	return s, nil
}

// Allows reports whether a normalized URL is in scope for this crawl.
func (s *Scope) Allows(normalizedURL string) bool {
	parsed, err := url.Parse(normalizedURL)
	if err != nil {
		return false
	}

	host := stripWWW(strings.ToLower(parsed.Hostname()))
	if host != s.host {
		return false
	}

	if s.pathScoped {
		// The page at the prefix itself is in scope too.
		if !strings.HasPrefix(ensureTrailingSlash(parsed.EscapedPath()), s.basePath) {
			return false
		}
	}

	for _, g := range s.exclude {
		if g.Match(normalizedURL) {
			return false
		}
	}

	return true
}

// IsAssetURL reports whether a normalized URL points at a non-document
// resource, judged by its path suffix. The comparison is case-insensitive
// and ignores query parameters.
func IsAssetURL(normalizedURL string) bool {
	parsed, err := url.Parse(normalizedURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(parsed.EscapedPath())
	for _, ext := range assetExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func stripWWW(host string) string {
	return strings.TrimPrefix(host, "www.")
}

func ensureTrailingSlash(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasSuffix(path, "/") {
		return path + "/"
	}
	return path
}
