// Copyright 2024 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package htmlvisitor renders a parsed [commonmark.Document] to HTML.
// It lives outside the core parser package deliberately: the core
// produces a position-annotated tree and nothing more, and HTML output
// is one of several possible consumers (see also poscache and
// include).
package htmlvisitor

import (
	"fmt"
	"io"
	"strings"

	gchtml "gitlab.com/golang-commonmark/html"
	"golang.org/x/net/html/atom"

	"github.com/mdtree/commonmark"
)

// SoftBreakBehavior selects how a soft line break inside a paragraph
// is rendered.
type SoftBreakBehavior int

const (
	// SoftBreakPreserve renders a soft break as a literal newline.
	SoftBreakPreserve SoftBreakBehavior = iota
	// SoftBreakSpace renders a soft break as a single space.
	SoftBreakSpace
	// SoftBreakHarden renders a soft break as <br />.
	SoftBreakHarden
)

// Renderer converts a [commonmark.Document] to HTML.
//
// # Security considerations
//
// CommonMark permits raw HTML, which can introduce XSS when the
// source is untrusted. Set IgnoreRaw to drop all raw HTML and HTML
// blocks, or supply FilterTag to block specific tags while otherwise
// preserving raw HTML (the default FilterTag matches the GFM
// tagfilter extension's tag set). Neither option is a substitute for
// a downstream sanitizer on untrusted input.
type Renderer struct {
	SoftBreakBehavior SoftBreakBehavior
	IgnoreRaw         bool
	FilterTag         func(tag string) bool
	SkipFilter        bool
}

// Render writes doc's HTML rendering to w.
func (r *Renderer) Render(w io.Writer, doc *commonmark.Document) error {
	_, err := io.WriteString(w, r.RenderString(doc))
	return err
}

// RenderString returns doc's HTML rendering.
func (r *Renderer) RenderString(doc *commonmark.Document) string {
	var sb strings.Builder
	r.renderBlocks(&sb, doc.Children())
	return sb.String()
}

func (r *Renderer) renderBlocks(sb *strings.Builder, items []commonmark.Item) {
	for _, it := range items {
		switch n := it.(type) {
		case *commonmark.Anchor:
			if n.Label != "" {
				fmt.Fprintf(sb, "<a id=\"%s\"></a>\n", escapeAttr(n.Label))
			}
		case *commonmark.PageBreak:
			sb.WriteString("<hr class=\"page-break\" />\n")
		case *commonmark.HorizontalLine:
			sb.WriteString("<hr />\n")
		case *commonmark.Paragraph:
			sb.WriteString("<p>")
			r.renderInline(sb, n.Children())
			sb.WriteString("</p>\n")
		case *commonmark.Heading:
			fmt.Fprintf(sb, "<h%d", n.Level)
			if n.Label != "" {
				fmt.Fprintf(sb, " id=\"%s\"", escapeAttr(n.Label))
			}
			sb.WriteString(">")
			if n.P != nil {
				r.renderInline(sb, n.P.Children())
			}
			fmt.Fprintf(sb, "</h%d>\n", n.Level)
		case *commonmark.Blockquote:
			sb.WriteString("<blockquote>\n")
			r.renderBlocks(sb, n.Children())
			sb.WriteString("</blockquote>\n")
		case *commonmark.List:
			r.renderList(sb, n)
		case *commonmark.Table:
			r.renderTable(sb, n)
		case *commonmark.Code:
			r.renderCode(sb, n)
		case *commonmark.RawHtml:
			r.renderRawHTML(sb, n)
		case *commonmark.Math:
			r.renderMath(sb, n)
		case *commonmark.Footnote:
			r.renderFootnote(sb, n)
		}
	}
}

func (r *Renderer) renderList(sb *strings.Builder, l *commonmark.List) {
	tag := "ul"
	if l.Ordered {
		tag = "ol"
	}
	sb.WriteString("<" + tag)
	if l.Ordered {
		if first, ok := firstItem(l); ok && first.StartNumber != 1 {
			fmt.Fprintf(sb, " start=\"%d\"", first.StartNumber)
		}
	}
	sb.WriteString(">\n")
	for _, it := range l.Children() {
		li, ok := it.(*commonmark.ListItem)
		if !ok {
			continue
		}
		sb.WriteString("<li")
		if li.IsTask {
			sb.WriteString(" class=\"task-list-item\"")
		}
		sb.WriteString(">")
		if li.IsTask {
			checked := ""
			if li.Checked {
				checked = " checked"
			}
			fmt.Fprintf(sb, `<input type="checkbox" disabled%s> `, checked)
		}
		if l.Tight {
			r.renderTightItem(sb, li.Children())
		} else {
			r.renderBlocks(sb, li.Children())
		}
		sb.WriteString("</li>\n")
	}
	sb.WriteString("</" + tag + ">\n")
}

func firstItem(l *commonmark.List) (*commonmark.ListItem, bool) {
	for _, it := range l.Children() {
		if li, ok := it.(*commonmark.ListItem); ok {
			return li, true
		}
	}
	return nil, false
}

// renderTightItem renders a tight list item's paragraphs without the
// surrounding <p> tags CommonMark's tight-list rule omits.
func (r *Renderer) renderTightItem(sb *strings.Builder, items []commonmark.Item) {
	for _, it := range items {
		if p, ok := it.(*commonmark.Paragraph); ok {
			r.renderInline(sb, p.Children())
			continue
		}
		r.renderBlocks(sb, []commonmark.Item{it})
	}
}

func (r *Renderer) renderTable(sb *strings.Builder, t *commonmark.Table) {
	sb.WriteString("<table>\n")
	for i, row := range t.Rows {
		if i == 0 {
			sb.WriteString("<thead>\n<tr>\n")
		} else if i == 1 {
			sb.WriteString("</thead>\n<tbody>\n<tr>\n")
		} else {
			sb.WriteString("<tr>\n")
		}
		cellTag := "td"
		if i == 0 {
			cellTag = "th"
		}
		for _, cell := range row.Cells {
			sb.WriteString("<" + cellTag)
			if style := alignStyle(cell.Align); style != "" {
				fmt.Fprintf(sb, " style=%q", style)
			}
			sb.WriteString(">")
			r.renderInline(sb, cell.Children())
			sb.WriteString("</" + cellTag + ">\n")
		}
		sb.WriteString("</tr>\n")
	}
	if len(t.Rows) <= 1 {
		sb.WriteString("</thead>\n")
	} else {
		sb.WriteString("</tbody>\n")
	}
	sb.WriteString("</table>\n")
}

func alignStyle(a commonmark.Alignment) string {
	switch a {
	case commonmark.AlignLeft:
		return "text-align:left"
	case commonmark.AlignCenter:
		return "text-align:center"
	case commonmark.AlignRight:
		return "text-align:right"
	default:
		return ""
	}
}

func (r *Renderer) renderFootnote(sb *strings.Builder, f *commonmark.Footnote) {
	fmt.Fprintf(sb, "<aside id=\"fn-%s\" class=\"footnote\">\n", escapeAttr(f.ID))
	r.renderBlocks(sb, f.Children())
	fmt.Fprintf(sb, "<a href=\"#fnref-%s\">↩</a>\n</aside>\n", escapeAttr(f.ID))
}

func (r *Renderer) renderCode(sb *strings.Builder, c *commonmark.Code) {
	if c.Inline {
		fmt.Fprintf(sb, "<code>%s</code>", escapeHTML(c.Text))
		return
	}
	sb.WriteString("<pre><code")
	if c.Syntax != "" {
		fmt.Fprintf(sb, " class=\"language-%s\"", escapeAttr(c.Syntax))
	}
	sb.WriteString(">")
	sb.WriteString(escapeHTML(c.Text))
	sb.WriteString("</code></pre>\n")
}

func (r *Renderer) renderMath(sb *strings.Builder, m *commonmark.Math) {
	if m.Inline {
		fmt.Fprintf(sb, `<span class="math inline">\(%s\)</span>`, escapeHTML(m.Expr))
		return
	}
	fmt.Fprintf(sb, "<div class=\"math block\">\\[%s\\]</div>\n", escapeHTML(m.Expr))
}

func (r *Renderer) renderInline(sb *strings.Builder, items []commonmark.Item) {
	for _, it := range items {
		switch n := it.(type) {
		case *commonmark.Text:
			for _, d := range n.OpenDelims {
				open, _ := styleTags(d.Style)
				sb.WriteString(open)
			}
			sb.WriteString(escapeHTML(n.S))
			for i := len(n.CloseDelims) - 1; i >= 0; i-- {
				_, close := styleTags(n.CloseDelims[i].Style)
				sb.WriteString(close)
			}
		case *commonmark.LineBreak:
			r.renderLineBreak(sb, n)
		case *commonmark.Code:
			r.renderCode(sb, n)
		case *commonmark.Math:
			r.renderMath(sb, n)
		case *commonmark.RawHtml:
			r.renderRawHTML(sb, n)
		case *commonmark.Link:
			r.renderLink(sb, n)
		case *commonmark.Image:
			r.renderImage(sb, n)
		case *commonmark.FootnoteRef:
			fmt.Fprintf(sb, `<sup id="fnref-%s"><a href="#fn-%s">%s</a></sup>`,
				escapeAttr(n.ID), escapeAttr(n.ID), escapeHTML(n.ID))
		case *commonmark.Anchor:
			if n.Label != "" {
				fmt.Fprintf(sb, "<a id=\"%s\"></a>", escapeAttr(n.Label))
			}
		}
	}
}

func (r *Renderer) renderLineBreak(sb *strings.Builder, lb *commonmark.LineBreak) {
	if lb.Hard {
		sb.WriteString("<br />\n")
		return
	}
	switch r.SoftBreakBehavior {
	case SoftBreakSpace:
		sb.WriteByte(' ')
	case SoftBreakHarden:
		sb.WriteString("<br />\n")
	default:
		sb.WriteByte('\n')
	}
}

func (r *Renderer) renderLink(sb *strings.Builder, l *commonmark.Link) {
	fmt.Fprintf(sb, `<a href="%s">`, escapeAttr(l.URL))
	switch {
	case l.P != nil:
		r.renderInline(sb, l.P.Children())
	default:
		sb.WriteString(escapeHTML(l.Text))
	}
	sb.WriteString("</a>")
}

func (r *Renderer) renderImage(sb *strings.Builder, img *commonmark.Image) {
	fmt.Fprintf(sb, `<img src="%s" alt="%s" />`, escapeAttr(img.URL), escapeAttr(img.Text))
}

// renderRawHTML applies the Renderer's raw-HTML policy: dropped
// entirely under IgnoreRaw, tag-filtered (escaping the leading '<' of
// a blocked tag) unless SkipFilter, passed through otherwise.
func (r *Renderer) renderRawHTML(sb *strings.Builder, h *commonmark.RawHtml) {
	if r.IgnoreRaw {
		return
	}
	if !r.SkipFilter && looksLikeTag(h.Text) {
		filter := r.FilterTag
		if filter == nil {
			filter = defaultFilterTag
		}
		if filter(rawTagName(h.Text)) {
			sb.WriteString("&lt;")
			sb.WriteString(h.Text[1:])
			if h.FreeTag {
				sb.WriteByte('\n')
			}
			return
		}
	}
	sb.WriteString(h.Text)
	if h.FreeTag {
		sb.WriteByte('\n')
	}
}

func looksLikeTag(s string) bool {
	return strings.HasPrefix(s, "<") && !strings.HasPrefix(s, "<!") && !strings.HasPrefix(s, "<?")
}

func rawTagName(s string) string {
	s = strings.TrimPrefix(s, "<")
	s = strings.TrimPrefix(s, "/")
	i := 0
	for i < len(s) && (s[i] == '-' || s[i] >= '0' && s[i] <= '9' || s[i] >= 'a' && s[i] <= 'z' || s[i] >= 'A' && s[i] <= 'Z') {
		i++
	}
	return s[:i]
}

// defaultFilterTag blocks the same tag set GFM's tagfilter extension
// does (https://github.github.com/gfm/#disallowed-raw-html-extension-).
func defaultFilterTag(tag string) bool {
	switch atom.Lookup([]byte(strings.ToLower(tag))) {
	case atom.Title, atom.Textarea, atom.Style, atom.Xmp, atom.Iframe,
		atom.Noembed, atom.Noframes, atom.Script, atom.Plaintext:
		return true
	}
	return false
}

func styleTags(s commonmark.StyleOpt) (open, close string) {
	switch s {
	case commonmark.Bold:
		return "<strong>", "</strong>"
	case commonmark.Italic:
		return "<em>", "</em>"
	case commonmark.Strikethrough:
		return "<del>", "</del>"
	default:
		return "", ""
	}
}

func escapeHTML(s string) string {
	return gchtml.EscapeString(s)
}

func escapeAttr(s string) string {
	return gchtml.EscapeString(s)
}
