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

import "strings"

// atomKind tags one element of the flat scan [parseInlines] builds
// before bracket matching and emphasis resolution run over it.
type atomKind int

const (
	atomText atomKind = iota
	atomNode
	atomDelim
	atomBracketOpen
	atomBracketClose
)

type inlineAtom struct {
	kind  atomKind
	text  string
	node  Item
	delim delimRun
	span  Span

	// bracket bookkeeping
	image  bool
	active bool

	// filled in by resolveEmphasis: delimRun.n counts still unconsumed
	// after pairing; openStyle/closeStyle record the style bits this
	// atom's position should attach to the following/preceding Text.
	openStyle  StyleOpts
	closeStyle StyleOpts
}

// parseInlines runs the inline scanner over lb's joined text and
// returns the resolved inline items for that text.
func parseInlines(lb *LineBuffer) []Item {
	s, lineOf := joinedText(lb)
	atoms := scanInlineAtoms(s, lineOf)
	atoms = resolveEmphasis(atoms)
	return atomsToItems(atoms)
}

// parseInlinesAt runs the inline scanner over a single transformed
// source line's content that starts at baseCol, mapping byte offsets
// back to real document positions instead of parseInlines's
// fresh-buffer Line 1, Col 0 origin. It exists for leaf content (ATX
// heading text, table cells) that is a substring of one physical line
// rather than a run of whole lines a [LineBuffer] can represent.
func parseInlinesAt(content string, ln Line, baseCol int) []Item {
	lineOf := func(off int) Position {
		return Position{Line: ln.Meta.LineNo, Col: ln.Text.VirginCol(baseCol+off, false)}
	}
	atoms := scanInlineAtoms(content, lineOf)
	atoms = resolveEmphasis(atoms)
	return atomsToItems(atoms)
}

// parseInlinesFromRawLines runs the inline scanner over a paragraph's
// or setext heading's accumulated [rawLine]s, trimming each line's
// leading/trailing space the way [finalizeLeaf] and [promoteSetext]
// always have, but mapping byte offsets in the trimmed, joined text
// back to each line's own real position instead of parseInlines's
// fresh-buffer Line 1, Col 0 origin.
func parseInlinesFromRawLines(lines []rawLine) []Item {
	s, lineOf := joinedRawLinesTrimmed(lines)
	atoms := scanInlineAtoms(s, lineOf)
	atoms = resolveEmphasis(atoms)
	return atomsToItems(atoms)
}

func joinedRawLinesTrimmed(lines []rawLine) (string, func(int) Position) {
	var b strings.Builder
	type bound struct {
		start   int
		line    rawLine
		trimmed int
	}
	var bounds []bound
	for i, r := range lines {
		raw := r.text()
		lead := leadingWhitespaceLen(raw)
		trimmedLine := strings.TrimSpace(raw)
		bounds = append(bounds, bound{start: b.Len(), line: r, trimmed: lead})
		b.WriteString(trimmedLine)
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	text := b.String()
	return text, func(off int) Position {
		if len(bounds) == 0 {
			return NullPosition()
		}
		bi := 0
		for bi+1 < len(bounds) && bounds[bi+1].start <= off {
			bi++
		}
		bd := bounds[bi]
		col := off - bd.start
		return bd.line.posAt(bd.line.col+bd.trimmed+col, false)
	}
}

// joinedText flattens lb's lines into a single scan buffer, separated
// by '\n' (soft/hard break markers the scanner interprets), and
// returns a function mapping a byte offset in that buffer back to a
// source [Position].
func joinedText(lb *LineBuffer) (string, func(int) Position) {
	var b strings.Builder
	type bound struct {
		start int
		line  Line
		col   int
	}
	var bounds []bound
	for i := 0; i < lb.Len(); i++ {
		ln := lb.Line(i)
		bounds = append(bounds, bound{start: b.Len(), line: ln, col: 0})
		b.WriteString(ln.Text.Text())
		if i < lb.Len()-1 {
			b.WriteByte('\n')
		}
	}
	text := b.String()
	return text, func(off int) Position {
		if len(bounds) == 0 {
			return NullPosition()
		}
		bi := 0
		for bi+1 < len(bounds) && bounds[bi+1].start <= off {
			bi++
		}
		bd := bounds[bi]
		col := off - bd.start
		return Position{Line: bd.line.Meta.LineNo, Col: bd.line.Text.VirginCol(col, false)}
	}
}

func scanInlineAtoms(s string, lineOf func(int) Position) []inlineAtom {
	var atoms []inlineAtom
	var textStart int
	flushText := func(end int) {
		if end > textStart {
			atoms = append(atoms, inlineAtom{
				kind: atomText,
				text: s[textStart:end],
				span: Span{Start: lineOf(textStart), End: lineOf(end)},
			})
		}
	}

	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && s[i+1] == '\n':
			flushText(i)
			atoms = append(atoms, inlineAtom{kind: atomNode, node: &LineBreak{Hard: true}, span: Span{Start: lineOf(i), End: lineOf(i + 2)}})
			i += 2
			textStart = i
		case c == '\\' && i+1 < len(s) && isASCIIPunct(s[i+1]):
			flushText(i)
			atoms = append(atoms, inlineAtom{kind: atomText, text: string(s[i+1]), span: Span{Start: lineOf(i), End: lineOf(i + 2)}})
			i += 2
			textStart = i
		case c == '\n':
			flushText(i)
			atoms = append(atoms, inlineAtom{kind: atomNode, node: &LineBreak{Hard: false}, span: Span{Start: lineOf(i), End: lineOf(i + 1)}})
			i++
			textStart = i
		case c == '`':
			if node, n, ok := scanCodeSpan(s[i:], i, lineOf); ok {
				flushText(i)
				atoms = append(atoms, inlineAtom{kind: atomNode, node: node, span: node.Position()})
				i += n
				textStart = i
				continue
			}
			i++
		case c == '$':
			if node, n, ok := scanMathSpan(s[i:], i, lineOf); ok {
				flushText(i)
				atoms = append(atoms, inlineAtom{kind: atomNode, node: node, span: node.Position()})
				i += n
				textStart = i
				continue
			}
			i++
		case c == '<':
			if url, n, ok := parseSchemeAutolink(s[i:]); ok {
				flushText(i)
				sp := Span{Start: lineOf(i), End: lineOf(i + n)}
				lnk := &Link{base: base{span: sp}, URL: normalizeLinkURL(url), Text: url, TextPos: sp, URLPos: sp}
				lnk.append(&Text{base: base{span: sp}, S: url})
				atoms = append(atoms, inlineAtom{kind: atomNode, node: lnk, span: sp})
				i += n
				textStart = i
				continue
			}
			if addr, n, ok := parseEmailAutolink(s[i:]); ok {
				flushText(i)
				sp := Span{Start: lineOf(i), End: lineOf(i + n)}
				lnk := &Link{base: base{span: sp}, URL: "mailto:" + addr, Text: addr, TextPos: sp, URLPos: sp}
				lnk.append(&Text{base: base{span: sp}, S: addr})
				atoms = append(atoms, inlineAtom{kind: atomNode, node: lnk, span: sp})
				i += n
				textStart = i
				continue
			}
			c2 := &htmlCursor{s: s[i:], i: 0}
			if end := parseHTMLTag(c2); end >= 0 {
				flushText(i)
				sp := Span{Start: lineOf(i), End: lineOf(i + end)}
				atoms = append(atoms, inlineAtom{kind: atomNode, node: &RawHtml{base: base{span: sp}, Text: s[i : i+end]}, span: sp})
				i += end
				textStart = i
				continue
			}
			i++
		case c == '*' || c == '_' || c == '~':
			if run, n, ok := scanDelimRun(s, i); ok {
				flushText(i)
				atoms = append(atoms, inlineAtom{kind: atomDelim, delim: run, span: Span{Start: lineOf(i), End: lineOf(i + n)}})
				i += n
				textStart = i
				continue
			}
			i++
		case c == '!' && i+1 < len(s) && s[i+1] == '[':
			flushText(i)
			atoms = append(atoms, inlineAtom{kind: atomBracketOpen, image: true, active: true, span: Span{Start: lineOf(i), End: lineOf(i + 2)}})
			i += 2
			textStart = i
		case c == '[':
			flushText(i)
			atoms = append(atoms, inlineAtom{kind: atomBracketOpen, active: true, span: Span{Start: lineOf(i), End: lineOf(i + 1)}})
			i++
			textStart = i
		case c == '^' && i > 0 && s[i-1] == '[':
			// Footnote references share the '[' bracket grammar;
			// tryCloseBracket recognizes "[^id]" by content.
			i++
		case c == ']':
			flushText(i)
			if n, ok := tryCloseBracket(&atoms, s, i, lineOf); ok {
				i += n
				textStart = i
				continue
			}
			atoms = append(atoms, inlineAtom{kind: atomText, text: "]", span: Span{Start: lineOf(i), End: lineOf(i + 1)}})
			i++
			textStart = i
		default:
			i++
		}
	}
	flushText(i)
	return atoms
}

// scanCodeSpan parses a backtick code span starting at off within the
// full scan buffer (s is the suffix starting there).
func scanCodeSpan(s string, off int, lineOf func(int) Position) (*Code, int, bool) {
	n := 0
	for n < len(s) && s[n] == '`' {
		n++
	}
	opener := s[:n]
	idx := n
	for {
		close := strings.Index(s[idx:], opener)
		if close < 0 {
			return nil, 0, false
		}
		close += idx
		after := close + n
		if after < len(s) && s[after] == '`' {
			idx = after
			for idx < len(s) && s[idx] == '`' {
				idx++
			}
			continue
		}
		content := s[n:close]
		content = strings.ReplaceAll(content, "\n", " ")
		if len(content) >= 2 && content[0] == ' ' && content[len(content)-1] == ' ' && strings.TrimSpace(content) != "" {
			content = content[1 : len(content)-1]
		}
		sp := Span{Start: lineOf(off), End: lineOf(off + after)}
		return &Code{base: base{span: sp}, Text: content, Inline: true}, after, true
	}
}

// scanMathSpan parses a "$...$" inline LaTeX math span.
func scanMathSpan(s string, off int, lineOf func(int) Position) (*Math, int, bool) {
	if len(s) < 2 {
		return nil, 0, false
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '\n':
			return nil, 0, false
		case '$':
			if i == 1 {
				return nil, 0, false
			}
			sp := Span{Start: lineOf(off), End: lineOf(off + i + 1)}
			return &Math{base: base{span: sp}, Expr: s[1:i], Inline: true}, i + 1, true
		}
	}
	return nil, 0, false
}

func lastActiveBracket(atoms []inlineAtom) int {
	for i := len(atoms) - 1; i >= 0; i-- {
		if atoms[i].kind == atomBracketOpen && atoms[i].active {
			return i
		}
	}
	return -1
}

// tryCloseBracket looks back through atoms for the most recent active
// bracket opener and, if found, resolves the link/image/footnote-ref
// construct it and the ']' at closeIdx delimit: an inline "(...)"
// trailer, a "[label]" reference trailer, a footnote ref "[^id]", or a
// bare shortcut reference. On success it collapses the bracket's atoms
// into a single resolved node atom and returns the number of bytes of
// s consumed starting at closeIdx (always >= 1, the ']' itself).
// Reference-style/shortcut links and footnote refs are left holding
// only a label (refLabel/ID) for resolveReferences to fill in once the
// whole document's reference store is known.
func tryCloseBracket(atoms *[]inlineAtom, s string, closeIdx int, lineOf func(int) Position) (int, bool) {
	openerAt := lastActiveBracket(*atoms)
	if openerAt < 0 {
		return 0, false
	}
	opener := (*atoms)[openerAt]
	inner := resolveEmphasis((*atoms)[openerAt+1:])
	children := atomsToItems(inner)
	text := flattenText(children)
	closeSpan := Span{Start: opener.span.Start, End: lineOf(closeIdx + 1)}
	textSpan := Span{Start: opener.span.End, End: lineOf(closeIdx)}

	if !opener.image && strings.HasPrefix(text, "^") {
		ref := &FootnoteRef{base: base{span: closeSpan}, ID: text[1:]}
		*atoms = append((*atoms)[:openerAt], inlineAtom{kind: atomNode, node: ref, span: closeSpan})
		return 1, true
	}

	trailer := s[closeIdx+1:]
	if strings.HasPrefix(trailer, "(") {
		link := parseInlineLinkTrailer(trailer)
		if link.ok {
			urlPos := NullSpan()
			if link.destEnd > link.destStart {
				destBase := closeIdx + 1
				urlPos = Span{Start: lineOf(destBase + link.destStart), End: lineOf(destBase + link.destEnd)}
			}
			node := finishBracketNode(opener, children, text, closeSpan, textSpan, urlPos, link.dest, "", nil)
			*atoms = append((*atoms)[:openerAt], inlineAtom{kind: atomNode, node: node, span: closeSpan})
			if !opener.image {
				deactivateEarlierLinks(*atoms, openerAt)
			}
			return 1 + link.n, true
		}
	}
	label := text
	consumed := 1
	var refBracket *string
	if strings.HasPrefix(trailer, "[") {
		if end := strings.IndexByte(trailer, ']'); end >= 0 {
			inside := trailer[1:end]
			if inside != "" {
				label = inside
			}
			refBracket = &inside
			consumed = 1 + end + 1
		}
	}
	node := finishBracketNode(opener, children, text, closeSpan, textSpan, NullSpan(), "", label, refBracket)
	*atoms = append((*atoms)[:openerAt], inlineAtom{kind: atomNode, node: node, span: closeSpan})
	if !opener.image {
		deactivateEarlierLinks(*atoms, openerAt)
	}
	return consumed, true
}

func finishBracketNode(opener inlineAtom, children []Item, text string, span, textSpan, urlPos Span, dest, refLabel string, refBracket *string) Item {
	if opener.image {
		p := &Paragraph{base: base{span: span}}
		p.append(children...)
		return &Image{base: base{span: span}, Text: text, P: p, URL: dest, TextPos: textSpan, URLPos: urlPos, refLabel: refLabel, refBracket: refBracket}
	}
	p := &Paragraph{base: base{span: span}}
	p.append(children...)
	lnk := &Link{base: base{span: span}, Text: text, P: p, URL: dest, TextPos: textSpan, URLPos: urlPos, refLabel: refLabel, refBracket: refBracket}
	lnk.container.children = children
	return lnk
}

// deactivateEarlierLinks implements CommonMark's "a link may not
// contain another link" rule: once a link (not an image) is
// successfully parsed, every earlier unresolved '[' opener becomes
// inert.
func deactivateEarlierLinks(atoms []inlineAtom, upTo int) {
	for i := 0; i < upTo; i++ {
		if atoms[i].kind == atomBracketOpen && !atoms[i].image {
			atoms[i].active = false
		}
	}
}

// resolveEmphasis runs CommonMark's delimiter-stack algorithm over
// atoms: each closing delimiter run looks left for the nearest
// matching, still-open, same-character opener and pairs with it,
// consuming up to two characters per side (one = Italic, two = Bold;
// '~' always pairs as Strikethrough). Leftover, unconsumed delimiter
// characters remain literal text. Style attachment spans are recorded
// on the atoms themselves (openStyle/closeStyle) rather than
// represented as wrapping nodes, per this parser's Text-attached
// emphasis model.
//
// For '*' and '_' runs, the rule of 3 applies: if either the opener or
// the closer run can both open and close, a match is rejected when the
// sum of the two runs' current lengths is a multiple of 3 unless both
// lengths are themselves multiples of 3. This keeps "a***b***c"-style
// inputs from over- or under-consuming delimiters.
func resolveEmphasis(atoms []inlineAtom) []inlineAtom {
	type stackEntry struct {
		idx int
		ch  byte
	}
	var stack []stackEntry
	remaining := make([]int, len(atoms))
	for i, a := range atoms {
		if a.kind == atomDelim {
			remaining[i] = a.delim.n
		}
	}

	for i := range atoms {
		a := &atoms[i]
		if a.kind != atomDelim {
			continue
		}
		if a.delim.canClose {
			for j := len(stack) - 1; j >= 0; j-- {
				se := stack[j]
				if se.ch != a.delim.ch || remaining[se.idx] <= 0 {
					continue
				}
				if se.ch != '~' {
					openLen, closeLen := remaining[se.idx], remaining[i]
					bothFlanking := atoms[se.idx].delim.canClose || a.delim.canOpen
					if bothFlanking && (openLen+closeLen)%3 == 0 && !(openLen%3 == 0 && closeLen%3 == 0) {
						continue
					}
				}
				use := remaining[se.idx]
				if remaining[i] < use {
					use = remaining[i]
				}
				if use > 2 {
					use = 2
				}
				if use <= 0 {
					continue
				}
				style := Italic
				if a.delim.ch == '~' {
					style = Strikethrough
				} else if use >= 2 {
					style = Bold
				}
				atoms[se.idx].openStyle |= StyleOpts(style)
				atoms[i].closeStyle |= StyleOpts(style)
				remaining[se.idx] -= use
				remaining[i] -= use
				if remaining[se.idx] == 0 {
					stack = stack[:j]
				} else {
					stack = stack[:j+1]
				}
				break
			}
		}
		if remaining[i] > 0 && a.delim.canOpen {
			stack = append(stack, stackEntry{idx: i, ch: a.delim.ch})
		}
	}

	for i := range atoms {
		if atoms[i].kind == atomDelim {
			atoms[i].delim.n = remaining[i]
		}
	}
	return atoms
}

// atomsToItems converts a resolved atom slice (brackets already
// collapsed, emphasis already resolved via resolveEmphasis) into the
// final Item slice, attaching style delimiters to their neighboring
// Text nodes and emitting any unconsumed delimiter characters as
// literal text.
func atomsToItems(atoms []inlineAtom) []Item {
	var items []Item
	var pendingOpen []StyleDelim
	var active StyleOpts

	appendText := func(s string, sp Span) {
		items = append(items, &Text{base: base{span: sp}, S: s, StyleOpts: active, OpenDelims: pendingOpen})
		pendingOpen = nil
	}
	closeOnLast := func(style StyleOpts, sp Span) {
		if len(items) == 0 {
			items = append(items, &Text{base: base{span: sp}, StyleOpts: active})
		}
		last, ok := items[len(items)-1].(*Text)
		if !ok {
			items = append(items, &Text{base: base{span: sp}, StyleOpts: active})
			last = items[len(items)-1].(*Text)
		}
		for _, style := range styleList(style) {
			last.CloseDelims = append(last.CloseDelims, StyleDelim{Style: style, Span: sp})
		}
	}

	for i := 0; i < len(atoms); i++ {
		a := atoms[i]
		switch a.kind {
		case atomText:
			appendText(a.text, a.span)
		case atomNode:
			if lnk, ok := a.node.(*Link); ok {
				lnk.StyleOpts = active
			}
			if len(pendingOpen) > 0 {
				if t, ok := a.node.(*Text); ok {
					t.StyleOpts = active
					t.OpenDelims = append(t.OpenDelims, pendingOpen...)
					pendingOpen = nil
					items = append(items, t)
					continue
				}
				appendText("", a.span)
			}
			items = append(items, a.node)
		case atomDelim:
			if a.closeStyle != 0 {
				closeOnLast(a.closeStyle, a.span)
				active &^= a.closeStyle
			}
			if a.delim.n > 0 {
				appendText(strings.Repeat(string(a.delim.ch), a.delim.n), a.span)
			}
			if a.openStyle != 0 {
				active |= a.openStyle
			}
			for _, style := range styleList(a.openStyle) {
				pendingOpen = append(pendingOpen, StyleDelim{Style: style, Span: a.span})
			}
		case atomBracketOpen:
			ch := "["
			if a.image {
				ch = "!["
			}
			appendText(ch, a.span)
		}
	}
	if len(pendingOpen) > 0 {
		items = append(items, &Text{StyleOpts: active, OpenDelims: pendingOpen})
	}
	return items
}

func styleList(opts StyleOpts) []StyleOpt {
	var out []StyleOpt
	for _, s := range []StyleOpt{Bold, Italic, Strikethrough} {
		if opts.Has(s) {
			out = append(out, s)
		}
	}
	return out
}
