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
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	spaceRun        = regexp.MustCompile(`[ \t\r\n]+`)
	spaceBeforeStop = regexp.MustCompile(` +([.,;:!?])`)
)

// blockTags are elements rendered as their own block. Everything else is
// treated as inline content and folded into the surrounding paragraph.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"details": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "summary": true,
	"table": true, "ul": true,
}

// ConvertToMarkdown renders a cleaned document as markdown text. The
// conversion is lossy on purpose: attributes other than link targets and
// image sources are dropped, and unknown elements contribute only their
// text content.
func ConvertToMarkdown(doc *goquery.Document) string {
	root := doc.Find("body")
	nodes := root.Nodes
	if len(nodes) == 0 {
		nodes = doc.Selection.Nodes
	}

	var c mdConverter
	for _, n := range nodes {
		c.renderBlocks(n)
	}
	return strings.TrimSpace(c.sb.String())
}

type mdConverter struct {
	sb strings.Builder
}

func (c *mdConverter) writeBlock(block string) {
	block = strings.TrimRight(block, " \t\n")
	if strings.TrimSpace(block) == "" {
		return
	}
	c.sb.WriteString(block)
	c.sb.WriteString("\n\n")
}

// renderBlocks walks the children of n. Consecutive inline content is
// gathered into an implicit paragraph; block elements flush it and render
// on their own.
func (c *mdConverter) renderBlocks(n *html.Node) {
	var inline strings.Builder
	flush := func() {
		c.writeBlock(tidyInline(inline.String()))
		inline.Reset()
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.TextNode:
			inline.WriteString(collapseSpace(child.Data))
		case html.ElementNode:
			if !blockTags[child.Data] {
				inline.WriteString(renderInline(child))
				continue
			}
			flush()
			c.renderBlock(child)
		}
	}
	flush()
}

func (c *mdConverter) renderBlock(n *html.Node) {
	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(n.Data[1] - '0')
		text := tidyInline(renderInlineChildren(n))
		if text != "" {
			c.writeBlock(strings.Repeat("#", level) + " " + text)
		}
	case "p", "dt", "dd", "figcaption", "summary", "address":
		c.writeBlock(tidyInline(renderInlineChildren(n)))
	case "ul", "ol":
		c.writeBlock(renderList(n, 0))
	case "pre":
		c.writeBlock(renderPre(n))
	case "blockquote":
		var inner mdConverter
		inner.renderBlocks(n)
		quoted := strings.TrimSpace(inner.sb.String())
		if quoted == "" {
			return
		}
		lines := strings.Split(quoted, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimRight("> "+line, " ")
		}
		c.writeBlock(strings.Join(lines, "\n"))
	case "table":
		c.writeBlock(renderTable(n))
	case "hr":
		c.writeBlock("---")
	default:
		// Generic container: recurse so nested blocks keep their shape.
		c.renderBlocks(n)
	}
}

// renderList renders ul/ol items with two-space indentation per nesting
// level. Nested lists inside an item render below the item's own line.
func renderList(n *html.Node, depth int) string {
	ordered := n.Data == "ol"
	indent := strings.Repeat("  ", depth)

	var sb strings.Builder
	item := 0
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode || child.Data != "li" {
			continue
		}
		item++

		marker := "- "
		if ordered {
			marker = fmt.Sprintf("%d. ", item)
		}

		var text strings.Builder
		var nested []string
		for li := child.FirstChild; li != nil; li = li.NextSibling {
			switch {
			case li.Type == html.TextNode:
				text.WriteString(collapseSpace(li.Data))
			case li.Type != html.ElementNode:
			case li.Data == "ul" || li.Data == "ol":
				nested = append(nested, renderList(li, depth+1))
			case li.Data == "p" || li.Data == "div":
				text.WriteString(" " + renderInlineChildren(li))
			default:
				text.WriteString(renderInline(li))
			}
		}

		line := tidyInline(text.String())
		if line != "" || len(nested) > 0 {
			sb.WriteString(indent + marker + line + "\n")
		}
		for _, block := range nested {
			sb.WriteString(block)
		}
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// renderPre emits a fenced code block. A language hint is taken from a
// "language-*" class on the inner code element when present.
func renderPre(n *html.Node) string {
	lang := ""
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.Data == "code" {
			for _, attr := range child.Attr {
				if attr.Key != "class" {
					continue
				}
				for _, c := range strings.Fields(attr.Val) {
					if strings.HasPrefix(c, "language-") {
						lang = strings.TrimPrefix(c, "language-")
					}
				}
			}
		}
	}

	code := strings.TrimRight(textContent(n), "\n")
	code = strings.TrimPrefix(code, "\n")
	return "```" + lang + "\n" + code + "\n```"
}

func renderTable(n *html.Node) string {
	var rows [][]string
	var headerRow []string

	var walkRows func(*html.Node)
	walkRows = func(node *html.Node) {
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.ElementNode {
				continue
			}
			switch child.Data {
			case "thead", "tbody", "tfoot":
				walkRows(child)
			case "tr":
				var cells []string
				isHeader := false
				for cell := child.FirstChild; cell != nil; cell = cell.NextSibling {
					if cell.Type != html.ElementNode {
						continue
					}
					if cell.Data == "th" {
						isHeader = true
					}
					if cell.Data == "th" || cell.Data == "td" {
						cells = append(cells, tidyInline(renderInlineChildren(cell)))
					}
				}
				if len(cells) == 0 {
					continue
				}
				if isHeader && headerRow == nil && len(rows) == 0 {
					headerRow = cells
				} else {
					rows = append(rows, cells)
				}
			}
		}
	}
	walkRows(n)

	if headerRow == nil && len(rows) > 0 {
		headerRow = rows[0]
		rows = rows[1:]
	}
	if headerRow == nil {
		return ""
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		sb.WriteString("|")
		for _, cell := range cells {
			sb.WriteString(" " + cell + " |")
		}
		sb.WriteString("\n")
	}

	writeRow(headerRow)
	sb.WriteString("|" + strings.Repeat(" --- |", len(headerRow)) + "\n")
	for _, row := range rows {
		writeRow(row)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renderInline renders a single inline element, children included.
func renderInline(n *html.Node) string {
	switch n.Data {
	case "a":
		text := tidyInline(renderInlineChildren(n))
		href := attrValue(n, "href")
		if text == "" {
			return ""
		}
		if href == "" || strings.HasPrefix(href, "javascript:") {
			return text
		}
		return "[" + text + "](" + href + ")"
	case "strong", "b":
		text := tidyInline(renderInlineChildren(n))
		if text == "" {
			return ""
		}
		return " **" + text + "** "
	case "em", "i":
		text := tidyInline(renderInlineChildren(n))
		if text == "" {
			return ""
		}
		return " *" + text + "* "
	case "code", "kbd", "samp":
		text := strings.TrimSpace(textContent(n))
		if text == "" {
			return ""
		}
		return "`" + text + "`"
	case "del", "s":
		text := tidyInline(renderInlineChildren(n))
		if text == "" {
			return ""
		}
		return " ~~" + text + "~~ "
	case "br":
		return "\n"
	case "img":
		alt := attrValue(n, "alt")
		src := attrValue(n, "src")
		if src == "" {
			return ""
		}
		return "![" + alt + "](" + src + ")"
	default:
		return renderInlineChildren(n)
	}
}

func renderInlineChildren(n *html.Node) string {
	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.TextNode:
			sb.WriteString(collapseSpace(child.Data))
		case html.ElementNode:
			sb.WriteString(renderInline(child))
		}
	}
	return sb.String()
}

// textContent returns the raw concatenated text of a subtree, whitespace
// preserved. Used for code blocks where layout matters.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

func collapseSpace(s string) string {
	return spaceRun.ReplaceAllString(s, " ")
}

// tidyInline collapses space runs left over from inline assembly but keeps
// explicit line breaks from br elements.
func tidyInline(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
		lines[i] = spaceBeforeStop.ReplaceAllString(line, "$1")
	}
	out := strings.Join(lines, "\n")
	return strings.Trim(out, "\n")
}
