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

// Package format provides a function to format a parsed Document back
// into CommonMark text equivalent to the original Markdown.
package format

import (
	"io"
	"strconv"
	"strings"

	"github.com/mdtree/commonmark"
)

// Format writes doc's top-level blocks as CommonMark to w.
func Format(w io.Writer, doc *commonmark.Document) error {
	ww := &errWriter{w: w}
	f := &formatter{w: ww}
	f.blocks(doc.Children())
	return ww.err
}

type formatter struct {
	w *errWriter
}

func (f *formatter) blocks(items []commonmark.Item) {
	wrote := false
	for _, it := range items {
		switch it.(type) {
		case *commonmark.Anchor, *commonmark.PageBreak:
			continue // synthetic markers produce no text
		}
		if wrote {
			f.w.WriteString("\n")
		}
		f.block(it)
		wrote = true
	}
}

func (f *formatter) block(it commonmark.Item) {
	switch n := it.(type) {
	case *commonmark.Paragraph:
		f.inlineRun(n.Children())
		f.w.WriteString("\n")
	case *commonmark.Heading:
		f.w.WriteString(strings.Repeat("#", n.Level))
		f.w.WriteString(" ")
		if n.P != nil {
			f.inlineRun(n.P.Children())
		}
		f.w.WriteString("\n")
	case *commonmark.HorizontalLine:
		f.w.WriteString("---\n")
	case *commonmark.Blockquote:
		f.quoted(n.Children())
	case *commonmark.List:
		f.list(n)
	case *commonmark.Table:
		f.table(n)
	case *commonmark.Code:
		f.code(n)
	case *commonmark.RawHtml:
		f.w.WriteString(n.Text)
		if !strings.HasSuffix(n.Text, "\n") {
			f.w.WriteString("\n")
		}
	case *commonmark.Footnote:
		f.w.WriteString("[^" + n.ID + "]: ")
		f.continuation(n.Children(), 4)
	}
}

// quoted renders items inside a temporary formatter and prefixes
// every resulting line with "> ", collapsing the marker to a bare ">"
// on otherwise-blank lines.
func (f *formatter) quoted(items []commonmark.Item) {
	for _, line := range renderLines(items) {
		if line == "" {
			f.w.WriteString(">\n")
		} else {
			f.w.WriteString("> " + line + "\n")
		}
	}
}

func (f *formatter) list(l *commonmark.List) {
	num := 1
	first := true
	for _, it := range l.Children() {
		li, ok := it.(*commonmark.ListItem)
		if !ok {
			continue
		}
		if !first && !l.Tight {
			f.w.WriteString("\n")
		}
		first = false

		marker := "-"
		switch {
		case l.Ordered:
			n := li.StartNumber
			if n == 0 {
				n = num
			}
			marker = strconv.Itoa(n) + "."
			num = n + 1
		case l.Delim != 0:
			marker = string(l.Delim)
		}
		f.w.WriteString(marker + " ")

		indent := len(marker) + 1
		if li.IsTask {
			box := "[ ]"
			if li.Checked {
				box = "[x]"
			}
			f.w.WriteString(box + " ")
			indent += len(box) + 1
		}
		f.continuation(li.Children(), indent)
	}
}

// continuation renders items as the body of a list item or footnote
// definition: the first line follows the already-written marker with
// no extra indent, and every subsequent line is indented by indent
// spaces so it keeps nesting under the marker.
func (f *formatter) continuation(items []commonmark.Item, indent int) {
	lines := renderLines(items)
	pad := strings.Repeat(" ", indent)
	for i, line := range lines {
		switch {
		case i == 0:
			f.w.WriteString(line + "\n")
		case line == "":
			f.w.WriteString("\n")
		default:
			f.w.WriteString(pad + line + "\n")
		}
	}
}

func (f *formatter) table(t *commonmark.Table) {
	for i, row := range t.Rows {
		f.w.WriteString("|")
		for _, cell := range row.Cells {
			f.w.WriteString(" ")
			f.inlineRun(cell.Children())
			f.w.WriteString(" |")
		}
		f.w.WriteString("\n")
		if i == 0 {
			f.w.WriteString("|")
			for _, a := range t.Alignments {
				f.w.WriteString(alignCell(a) + "|")
			}
			f.w.WriteString("\n")
		}
	}
}

func alignCell(a commonmark.Alignment) string {
	switch a {
	case commonmark.AlignLeft:
		return " :--- "
	case commonmark.AlignCenter:
		return " :---: "
	case commonmark.AlignRight:
		return " ---: "
	default:
		return " --- "
	}
}

func (f *formatter) code(c *commonmark.Code) {
	text := strings.TrimSuffix(c.Text, "\n")
	if c.Fenced {
		f.w.WriteString("```" + c.Syntax + "\n")
		if text != "" {
			f.w.WriteString(text + "\n")
		}
		f.w.WriteString("```\n")
		return
	}
	for _, line := range strings.Split(text, "\n") {
		f.w.WriteString("    " + line + "\n")
	}
}

func (f *formatter) inlineRun(items []commonmark.Item) {
	for _, it := range items {
		switch n := it.(type) {
		case *commonmark.Text:
			for _, d := range n.OpenDelims {
				f.w.WriteString(delimText(d.Style))
			}
			f.w.WriteString(n.S)
			for i := len(n.CloseDelims) - 1; i >= 0; i-- {
				f.w.WriteString(delimText(n.CloseDelims[i].Style))
			}
		case *commonmark.LineBreak:
			if n.Hard {
				f.w.WriteString("\\\n")
			} else {
				f.w.WriteString("\n")
			}
		case *commonmark.Code:
			f.w.WriteString("`" + n.Text + "`")
		case *commonmark.Math:
			if n.Inline {
				f.w.WriteString("$" + n.Expr + "$")
			} else {
				f.w.WriteString("$$" + n.Expr + "$$")
			}
		case *commonmark.RawHtml:
			f.w.WriteString(n.Text)
		case *commonmark.Link:
			f.link(n)
		case *commonmark.Image:
			f.w.WriteString("![" + n.Text + "](" + n.URL + ")")
		case *commonmark.FootnoteRef:
			f.w.WriteString("[^" + n.ID + "]")
		}
	}
}

func delimText(s commonmark.StyleOpt) string {
	switch s {
	case commonmark.Bold:
		return "**"
	case commonmark.Italic:
		return "*"
	case commonmark.Strikethrough:
		return "~~"
	default:
		return ""
	}
}

func (f *formatter) link(l *commonmark.Link) {
	f.w.WriteString("[")
	switch {
	case l.P != nil:
		f.inlineRun(l.P.Children())
	default:
		f.w.WriteString(l.Text)
	}
	f.w.WriteString("](" + l.URL + ")")
}

// renderLines formats items with a fresh formatter and splits the
// result into lines with its trailing newline removed, for callers
// that need to post-process every line (quoting, indenting).
func renderLines(items []commonmark.Item) []string {
	var sb strings.Builder
	inner := &formatter{w: &errWriter{w: &sb}}
	inner.blocks(items)
	return strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n")
}

type errWriter struct {
	w   io.Writer
	err error
}

func (w *errWriter) Write(p []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	n, w.err = w.w.Write(p)
	return n, w.err
}

func (w *errWriter) WriteString(s string) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	n, w.err = io.WriteString(w.w, s)
	return n, w.err
}
