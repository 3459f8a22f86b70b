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

// ContentFilter removes one category of noise from a document.
// Filters mutate the document in place and return it for chaining.
type ContentFilter interface {
	// Filter applies the content filter to the document
	Filter(doc *goquery.Document) *goquery.Document
	// Name returns the name of the filter for debugging
	Name() string
}

// FilterChain applies multiple content filters in sequence.
type FilterChain struct {
	filters []ContentFilter
}

// NewFilterChain creates a filter chain with the given filters
func NewFilterChain(filters ...ContentFilter) *FilterChain {
	return &FilterChain{filters: filters}
}

// Apply runs all filters in order on the document
func (fc *FilterChain) Apply(doc *goquery.Document) *goquery.Document {
	for _, f := range fc.filters {
		doc = f.Filter(doc)
	}
	return doc
}

// noiseSelectors are conventional class and id values that mark page
// chrome rather than content. They are matched case-sensitively as exact
// attribute values; "Menu" or "main-menu" do not match "menu".
var noiseSelectors = []string{
	"nav", "navigation", "navbar", "menu", "header", "footer",
	"sidebar", "breadcrumb", "breadcrumbs", "social", "social-links",
	"cookie-banner", "cookie-consent", "skip-link", "site-header",
	"site-footer", "toc-sidebar", "edit-page", "page-nav",
}

// ChromeTagFilter removes structural page chrome: the elements that by
// tag name or ARIA role hold navigation, banners and footers.
type ChromeTagFilter struct{}

// Filter implements ContentFilter.Filter
func (f *ChromeTagFilter) Filter(doc *goquery.Document) *goquery.Document {
	doc.Find("nav, header, footer, aside").Remove()
	doc.Find("[role='navigation'], [role='banner'], [role='contentinfo'], [role='complementary']").Remove()
	return doc
}

// Name implements ContentFilter.Name
func (f *ChromeTagFilter) Name() string { return "chrome-tags" }

// NoiseSelectorFilter removes elements whose class or id exactly matches
// one of the conventional noise names.
type NoiseSelectorFilter struct{}

// Filter implements ContentFilter.Filter
func (f *NoiseSelectorFilter) Filter(doc *goquery.Document) *goquery.Document {
	doc.Find("[class], [id]").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok && isNoiseName(id) {
			s.Remove()
			return
		}
		if class, ok := s.Attr("class"); ok {
			for _, c := range strings.Fields(class) {
				if isNoiseName(c) {
					s.Remove()
					return
				}
			}
		}
	})
	return doc
}

// Name implements ContentFilter.Name
func (f *NoiseSelectorFilter) Name() string { return "noise-selectors" }

func isNoiseName(name string) bool {
	for _, n := range noiseSelectors {
		if name == n {
			return true
		}
	}
	return false
}

// ScriptStyleFilter removes script, style, noscript and template
// elements. These never carry document content.
type ScriptStyleFilter struct{}

// Filter implements ContentFilter.Filter
func (f *ScriptStyleFilter) Filter(doc *goquery.Document) *goquery.Document {
	doc.Find("script, style, noscript, template").Remove()
	return doc
}

// Name implements ContentFilter.Name
func (f *ScriptStyleFilter) Name() string { return "script-style" }

// MediaFilter removes embedded media, form controls and head plumbing.
// It is part of the strict profile only; the loose profile keeps images
// and embeds in place for the converter to render.
type MediaFilter struct{}

// Filter implements ContentFilter.Filter
func (f *MediaFilter) Filter(doc *goquery.Document) *goquery.Document {
	doc.Find("img, picture, svg, canvas, video, audio, iframe, embed, object").Remove()
	doc.Find("form, input, button, select, textarea, label, fieldset").Remove()
	doc.Find("link, meta").Remove()
	return doc
}

// Name implements ContentFilter.Name
func (f *MediaFilter) Name() string { return "media" }

// Cleaner strips noise markup from parsed pages. Cleaning is idempotent:
// applying the same cleaner to an already-cleaned document changes nothing.
type Cleaner struct {
	chain *FilterChain
}

// NewCleaner builds a cleaner. stripMedia selects the strict profile,
// which additionally removes media elements, form controls and head
// plumbing; the loose profile leaves those for the converter.
func NewCleaner(stripMedia bool) *Cleaner {
	filters := []ContentFilter{
		&ScriptStyleFilter{},
		&ChromeTagFilter{},
		&NoiseSelectorFilter{},
	}
	if stripMedia {
		filters = append(filters, &MediaFilter{})
	}
	return &Cleaner{chain: NewFilterChain(filters...)}
}

// Clean applies the filter chain to the document in place and returns it.
// Callers that still need the raw tree (link extraction does) must finish
// with it before cleaning.
func (c *Cleaner) Clean(doc *goquery.Document) *goquery.Document {
	return c.chain.Apply(doc)
}
