// Copyright 2023 Ross Light
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

package commonmark

// optimizeParagraphs applies a paragraph-optimization pass over every
// paragraph-bearing container in doc: adjacent Text runs
// that share styleOpts are merged into one node (so that [TextPlugin]
// scans see coherent runs), and any paragraph containing a
// free-standing raw HTML tag is split around it into sibling
// paragraphs, since a free tag must not live inside a paragraph.
//
// full carries the choice between full and semi optimization, but both
// give the same result: canMergeText applies one rule in either mode
// and never merges across a Text that closes or opens a style.
func optimizeParagraphs(doc *Document, full bool) {
	doc.children = optimizeIn(doc.children, full)
}

func optimizeIn(items []Item, full bool) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		switch n := it.(type) {
		case *Paragraph:
			n.children = mergeText(n.children, full)
			out = append(out, splitFreeTags(n)...)
			continue
		case *Heading:
			if n.P != nil {
				n.P.children = mergeText(n.P.children, full)
			}
		case *Blockquote:
			n.children = optimizeIn(n.children, full)
		case *List:
			n.children = optimizeIn(n.children, full)
		case *ListItem:
			n.children = optimizeIn(n.children, full)
		case *Footnote:
			n.children = optimizeIn(n.children, full)
		case *Table:
			for _, row := range n.Rows {
				for _, cell := range row.Cells {
					cell.children = mergeText(cell.children, full)
				}
			}
		}
		out = append(out, it)
	}
	return out
}

// mergeText folds runs of adjacent *Text children into one node each,
// per canMergeText.
func mergeText(items []Item, full bool) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		switch n := it.(type) {
		case *Link:
			n.children = mergeText(n.children, full)
			if n.P != nil {
				n.P.children = n.children
			}
			out = append(out, n)
			continue
		case *Image:
			if n.P != nil {
				n.P.children = mergeText(n.P.children, full)
			}
			out = append(out, n)
			continue
		}
		t, ok := it.(*Text)
		if !ok {
			out = append(out, it)
			continue
		}
		if len(out) > 0 {
			if prev, ok := out[len(out)-1].(*Text); ok && canMergeText(prev, t, full) {
				prev.S += t.S
				prev.CloseDelims = t.CloseDelims
				prev.span.End = t.span.End
				continue
			}
		}
		c := *t
		out = append(out, &c)
	}
	return out
}

// canMergeText reports whether b may be folded into a: same styleOpts,
// both single-line and contiguous, and neither carries a delimiter
// that the merge would silently swallow (b's OpenDelims would lose
// their attachment point; a's CloseDelims would too).
//
// The full parameter is not consulted: the same check applies in both
// modes, so no merge ever crosses a delimiter boundary and full and
// semi optimization produce the same tree.
func canMergeText(a, b *Text, full bool) bool {
	if a.StyleOpts != b.StyleOpts {
		return false
	}
	if a.span.Start.Line != a.span.End.Line || b.span.Start.Line != b.span.End.Line {
		return false
	}
	if a.span.End.Line != b.span.Start.Line {
		return false
	}
	if len(a.CloseDelims) > 0 || len(b.OpenDelims) > 0 {
		return false
	}
	return true
}

// splitFreeTags breaks p into sibling paragraphs around any
// free-standing raw HTML tag it contains, returning []Item{p}
// unchanged when there is nothing to split.
func splitFreeTags(p *Paragraph) []Item {
	var out []Item
	var cur []Item
	flush := func(end Position) {
		if len(cur) == 0 {
			return
		}
		np := &Paragraph{base: base{span: Span{Start: cur[0].Position().Start, End: end}}}
		np.children = cur
		out = append(out, np)
		cur = nil
	}
	for _, it := range p.children {
		if rh, ok := it.(*RawHtml); ok && rh.FreeTag {
			flush(rh.span.Start)
			out = append(out, rh)
			continue
		}
		cur = append(cur, it)
	}
	if len(out) == 0 {
		return []Item{p}
	}
	flush(p.span.End)
	return out
}
