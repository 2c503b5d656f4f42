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

// rawLine is one physical line with the container prefix already
// stripped: col is the transformed-text byte offset the leaf content
// begins at.
type rawLine struct {
	line Line
	col  int
}

func (r rawLine) text() string {
	return r.line.Text.Text()[r.col:]
}

func (r rawLine) posAt(col int, end bool) Position {
	return Position{Line: r.line.Meta.LineNo, Col: r.line.Text.VirginCol(col, end)}
}

func (r rawLine) startPos() Position { return r.posAt(r.col, false) }
func (r rawLine) endPos() Position   { return r.posAt(len(r.line.Text.Text()), true) }

// leafKind identifies the kind of leaf block currently accumulating
// lines at the bottom of a container.
type leafKind int

const (
	leafNone leafKind = iota
	leafParagraph
	leafFence
	leafIndentedCode
	leafHTML
)

// openLeaf is the block directly under construction at one container's
// depth: a paragraph, a fenced or indented code block, or an HTML
// block. Headings and thematic breaks never spend time as an openLeaf;
// they finalize immediately.
type openLeaf struct {
	kind        leafKind
	start       Position
	lines       []rawLine
	fence       codeFence // fenced code: opening marker shape
	fenceClosed bool
	infoSpan    Span
	htmlCond    int
}

// blockCtx is the per-container state the splitter needs:
// the accumulated finalized children, the in-progress leaf, and
// (for list items) the data required to finalize a ListItem/List.
type blockCtx struct {
	kind  string // "document", "quote", "item", "footnote"
	start Position
	items []Item
	leaf  openLeaf

	// item-only
	ordered     bool
	delim       byte
	startNumber int
	isTask      bool
	checked     bool
	taskDelim   Span
	indent      int
	pre         orderedPreState
	hadBlank    bool

	// footnote-only
	footnoteID string
	idSpan     Span
}

// parseBlocks runs the full container/leaf block splitter over lb and
// returns the top-level block children of the (sub)document it
// describes.
func parseBlocks(lb *LineBuffer) []Item {
	root := &blockCtx{kind: "document"}
	stack := []*blockCtx{root}
	blankBeforeDepth := map[int]bool{}

	closeLeaf := func(ctx *blockCtx) {
		finalizeLeaf(ctx)
	}

	popContainer := func() {
		top := stack[len(stack)-1]
		closeLeaf(top)
		parent := stack[len(stack)-2]
		item := finalizeContainer(top)
		attachToParent(parent, item, blankBeforeDepth[len(stack)-1])
		stack = stack[:len(stack)-1]
	}

	for i := 0; i < lb.Len(); i++ {
		ln := lb.Line(i)
		text := ln.Text.Text()
		col := 0

		// Step 1: descend through open containers, consuming markers.
		matchDepth := 1
		for matchDepth < len(stack) {
			entry := stack[matchDepth]
			nc, ok := tryContinueContainer(entry, text, col)
			if !ok {
				break
			}
			col = nc
			matchDepth++
		}

		blankHere := isBlankString(text[col:])

		// Step 2: decide lazy continuation of an open paragraph.
		lazy := false
		if matchDepth < len(stack) && !blankHere {
			tail := stack[len(stack)-1]
			if tail.leaf.kind == leafParagraph && canLazilyContinue(text[col:]) {
				lazy = true
			}
		}

		if !lazy {
			for len(stack)-1 >= matchDepth {
				popContainer()
			}
		}

		// Step 3: open new containers for whatever prefix remains.
		for {
			rest := text[col:]
			if qcol, ok := tryOpenBlockquote(rest); ok {
				closeLeaf(stack[len(stack)-1])
				col += qcol
				nc := &blockCtx{kind: "quote", start: Position{Line: ln.Meta.LineNo, Col: ln.Text.VirginCol(col, false)}}
				stack = append(stack, nc)
				continue
			}
			if canOpenListHere(stack[len(stack)-1], rest) && parseThematicBreak(rest) < 0 {
				if m, indent, ok := tryOpenListItem(rest); ok {
					closeLeaf(stack[len(stack)-1])
					nc := &blockCtx{
						kind:        "item",
						start:       Position{Line: ln.Meta.LineNo, Col: ln.Text.VirginCol(col, false)},
						ordered:     m.ordered,
						delim:       m.delim,
						startNumber: m.start,
						indent:      indent,
					}
					// The first item of a list, or any item numbered 1,
					// starts the numbering; a later item continues it.
					nc.pre = Start
					parent := stack[len(stack)-1]
					if n := len(parent.items); n > 0 && m.start != 1 {
						if l, ok := parent.items[n-1].(*List); ok && l.Ordered == m.ordered && l.Delim == m.delim {
							nc.pre = Continue
						}
					}
					col += m.end
					var taskSpan Span
					nc.isTask, nc.checked, taskSpan, col = tryTaskMarker(text, col, ln)
					nc.taskDelim = taskSpan
					stack = append(stack, nc)
					blankBeforeDepth[len(stack)-1] = false
					continue
				}
			}
			if id, idSpan, fcol, ok := tryOpenFootnote(rest, ln, col); ok {
				closeLeaf(stack[len(stack)-1])
				col = fcol
				nc := &blockCtx{kind: "footnote", start: Position{Line: ln.Meta.LineNo, Col: 0}, footnoteID: id, idSpan: idSpan}
				stack = append(stack, nc)
				continue
			}
			break
		}

		top := stack[len(stack)-1]
		rest := text[col:]

		if isBlankString(rest) {
			switch top.leaf.kind {
			case leafFence:
				if !top.leaf.fenceClosed {
					top.leaf.lines = append(top.leaf.lines, rawLine{line: ln, col: col})
				}
			case leafHTML:
				top.leaf.lines = append(top.leaf.lines, rawLine{line: ln, col: col})
				if htmlBlockEnds(top.leaf.htmlCond, "") {
					closeLeaf(top)
				}
			case leafIndentedCode:
				top.leaf.lines = append(top.leaf.lines, rawLine{line: ln, col: col})
			case leafParagraph:
				closeLeaf(top)
				top.hadBlank = true
			default:
				top.hadBlank = true
			}
			blankBeforeDepth[len(stack)-1] = true
			continue
		}
		blankBeforeDepth[len(stack)-1] = false

		switch top.leaf.kind {
		case leafFence:
			indent, body := leadingIndent(rest)
			if indent < codeBlockIndentLimit {
				if f := parseCodeFence(body); f.n > 0 && f.ch == top.leaf.fence.ch && f.n >= top.leaf.fence.n && strings.TrimSpace(body[f.n:]) == "" {
					top.leaf.fenceClosed = true
					closeLeaf(top)
					continue
				}
			}
			top.leaf.lines = append(top.leaf.lines, rawLine{line: ln, col: col + stripIndentCols(rest, top.leaf.fence.indent)})
			continue
		case leafHTML:
			top.leaf.lines = append(top.leaf.lines, rawLine{line: ln, col: col})
			if htmlBlockEnds(top.leaf.htmlCond, rest) {
				closeLeaf(top)
			}
			continue
		case leafIndentedCode:
			indent, _ := leadingIndent(rest)
			if indent >= codeBlockIndentLimit {
				top.leaf.lines = append(top.leaf.lines, rawLine{line: ln, col: col + codeBlockIndentLimit})
				continue
			}
			closeLeaf(top)
			// fall through to re-classify this line fresh.
		}

		// Setext promotion: a lone-open paragraph followed by a
		// setext underline becomes a Heading instead of remaining text.
		if top.leaf.kind == leafParagraph && len(top.leaf.lines) > 0 {
			if level := parseSetextUnderline(rest); level > 0 {
				top.items = append(top.items, promoteSetext(top.leaf, level, rawLine{line: ln, col: col}))
				top.leaf = openLeaf{}
				continue
			}
		}

		if top.leaf.kind == leafNone {
			if table, consumed, ok := tryParseTable(lb, i, col); ok {
				top.items = append(top.items, table)
				i += consumed - 1
				continue
			}
		}

		cls := classify(rest, classifyContext{})
		canInterrupt := top.leaf.kind != leafParagraph || lineCanInterruptParagraph(cls, rest)
		if top.leaf.kind == leafParagraph && !canInterrupt {
			top.leaf.lines = append(top.leaf.lines, rawLine{line: ln, col: col})
			continue
		}

		switch cls {
		case ATXHeadingLine:
			closeLeaf(top)
			top.items = append(top.items, parseATXHeadingLine(rest, ln, col))
		case HorizontalRuleLine:
			closeLeaf(top)
			r := rawLine{line: ln, col: col}
			top.items = append(top.items, &HorizontalLine{base: base{span: Span{Start: r.startPos(), End: r.endPos()}}})
		case FencedCodeFenceLine:
			closeLeaf(top)
			f := parseCodeFence(rest)
			f.indent, _ = leadingIndent(text[:col])
			r := rawLine{line: ln, col: col}
			top.leaf = openLeaf{
				kind:  leafFence,
				start: r.startPos(),
				fence: f,
			}
			top.leaf.infoSpan = Span{
				Start: rawLine{line: ln, col: col + f.n}.posAt(col+f.n, false),
				End:   r.endPos(),
			}
		case IndentedCodeLine:
			closeLeaf(top)
			r := rawLine{line: ln, col: col + codeBlockIndentLimit}
			top.leaf = openLeaf{kind: leafIndentedCode, start: r.startPos()}
			top.leaf.lines = append(top.leaf.lines, r)
		case HTMLBlockOpenerLine:
			closeLeaf(top)
			cond := htmlBlockConditionOf(rest)
			r := rawLine{line: ln, col: col}
			top.leaf = openLeaf{kind: leafHTML, start: r.startPos(), htmlCond: cond}
			top.leaf.lines = append(top.leaf.lines, r)
			if htmlBlockEnds(cond, rest) {
				closeLeaf(top)
			}
		default:
			if top.leaf.kind == leafNone {
				if label, dest, title, ok := tryParseLinkRefDef(rest); ok {
					r := rawLine{line: ln, col: col}
					top.items = append(top.items, &linkDefItem{base: base{span: Span{Start: r.startPos(), End: r.endPos()}}, label: label, url: dest, title: title})
					continue
				}
			}
			if top.leaf.kind != leafParagraph {
				top.leaf = openLeaf{kind: leafParagraph, start: rawLine{line: ln, col: col}.startPos()}
			}
			top.leaf.lines = append(top.leaf.lines, rawLine{line: ln, col: col})
		}
	}

	for len(stack) > 1 {
		popContainer()
	}
	closeLeaf(root)
	return root.items
}

// lineCanInterruptParagraph implements CommonMark's restriction that
// only certain block starts may interrupt an open paragraph without an
// intervening blank line: indented code cannot, and an HTML block only
// can under conditions 1-6.
func lineCanInterruptParagraph(cls LineKind, rest string) bool {
	switch cls {
	case IndentedCodeLine, TextLine, EmptyLine, TableAlignmentLine:
		return false
	case HTMLBlockOpenerLine:
		return htmlBlockInterruptsParagraph(htmlBlockConditionOf(rest))
	case ListItemLine:
		m := parseListMarker(rest)
		if m.ordered {
			return m.start == 1
		}
		return true
	default:
		return true
	}
}

func canLazilyContinue(rest string) bool {
	cls := classify(rest, classifyContext{})
	return !lineCanInterruptParagraph(cls, rest) && cls != EmptyLine
}

// tryContinueContainer reports whether text, starting at col, supplies
// the marker entry needs to continue (blockquote '>' or a list item's
// required indent), returning the new column past the marker.
func tryContinueContainer(entry *blockCtx, text string, col int) (int, bool) {
	switch entry.kind {
	case "quote":
		rest := text[col:]
		indent, rest2 := leadingIndent(rest)
		if indent > 3 {
			return 0, false
		}
		if !strings.HasPrefix(rest2, ">") {
			return 0, false
		}
		adv := indent + 1
		if adv < len(rest) && (rest[adv] == ' ' || rest[adv] == '\t') {
			adv++
		}
		return col + adv, true
	case "item":
		rest := text[col:]
		indent, _ := leadingIndent(rest)
		if isBlankString(rest) {
			return col, true
		}
		if indent < entry.indent {
			return 0, false
		}
		return col + entry.indent, true
	case "footnote":
		rest := text[col:]
		indent, _ := leadingIndent(rest)
		if isBlankString(rest) {
			return col, true
		}
		if indent < 4 {
			return 0, false
		}
		return col + 4, true
	}
	return 0, false
}

func tryOpenBlockquote(rest string) (int, bool) {
	indent, rest2 := leadingIndent(rest)
	if indent > 3 || !strings.HasPrefix(rest2, ">") {
		return 0, false
	}
	adv := indent + 1
	if adv < len(rest) && (rest[adv] == ' ' || rest[adv] == '\t') {
		adv++
	}
	return adv, true
}

// canOpenListHere applies the "a list item may not interrupt an open
// paragraph unless it is a bullet, or an ordered list starting at 1"
// restriction.
func canOpenListHere(ctx *blockCtx, rest string) bool {
	if ctx.leaf.kind != leafParagraph {
		return true
	}
	m := parseListMarker(rest)
	if m.end < 0 {
		return true
	}
	if m.ordered {
		return m.start == 1
	}
	return true
}

func tryOpenListItem(rest string) (listMarker, int, bool) {
	indent, body := leadingIndent(rest)
	if indent > 3 {
		return listMarker{}, 0, false
	}
	m := parseListMarker(body)
	if m.end < 0 {
		return listMarker{}, 0, false
	}
	contentIndent, contentRest := leadingIndent(body[m.end:])
	totalIndent := indent + m.end + contentIndent
	if isBlankString(contentRest) {
		totalIndent = indent + m.end + 1
	}
	if contentIndent >= codeBlockIndentLimit {
		totalIndent = indent + m.end + 1
	}
	return m, totalIndent, true
}

func tryTaskMarker(text string, col int, ln Line) (isTask, checked bool, span Span, newCol int) {
	rest := text[col:]
	if len(rest) >= 3 && rest[0] == '[' && rest[2] == ']' {
		mark := rest[1]
		if mark == ' ' || mark == 'x' || mark == 'X' {
			start := rawLine{line: ln, col: col}.startPos()
			end := rawLine{line: ln, col: col + 3}.startPos()
			adv := 3
			if adv < len(rest) && (rest[adv] == ' ' || rest[adv] == '\t') {
				adv++
			}
			return true, mark != ' ', Span{Start: start, End: end}, col + adv
		}
	}
	return false, false, NullSpan(), col
}

func tryOpenFootnote(rest string, ln Line, col int) (string, Span, int, bool) {
	indent, body := leadingIndent(rest)
	if indent >= codeBlockIndentLimit {
		return "", Span{}, 0, false
	}
	id := parseFootnoteOpener(body)
	if id == "" {
		return "", Span{}, 0, false
	}
	idStart := rawLine{line: ln, col: col + indent + 2}.startPos()
	idEnd := rawLine{line: ln, col: col + indent + 2 + len(id)}.startPos()
	adv := indent + len("[^") + len(id) + len("]:")
	if adv < len(rest) && rest[adv] == ' ' {
		adv++
	}
	return id, Span{Start: idStart, End: idEnd}, col + adv, true
}

func stripIndentCols(s string, n int) int {
	indent, _ := leadingIndent(s)
	if indent > n {
		return n
	}
	return indent
}

func parseATXHeadingLine(rest string, ln Line, col int) *Heading {
	h := parseATXHeading(rest)
	content := atxHeadingContent(rest[h.start:])
	label, labelPos, content := extractATXLabel(content, ln, col+h.start)
	r := rawLine{line: ln, col: col}
	p := &Paragraph{base: base{span: Span{
		Start: rawLine{line: ln, col: col + h.start}.startPos(),
		End:   rawLine{line: ln, col: col + h.start}.posAt(col+h.start+len(content), true),
	}}}
	p.append(parseInlinesAt(content, ln, col+h.start)...)
	return &Heading{
		base:     base{span: Span{Start: r.startPos(), End: r.endPos()}},
		P:        p,
		Level:    h.level,
		Label:    label,
		LabelPos: labelPos,
	}
}

// extractATXLabel recognizes a trailing "{#label}" on an ATX heading's
// content (the closing "#"-run, if any, has already been stripped) and
// reports the label, its source span, and the content with the label
// and the whitespace before it removed. baseCol is the transformed-text
// column content[0] starts at. If no well-formed label is present,
// content is returned unchanged and labelPos is [NullSpan].
func extractATXLabel(content string, ln Line, baseCol int) (label string, labelPos Span, rest string) {
	trimmed := strings.TrimRight(content, " \t")
	if !strings.HasSuffix(trimmed, "}") {
		return "", NullSpan(), content
	}
	open := strings.LastIndexByte(trimmed, '{')
	if open < 0 || open+1 >= len(trimmed) || trimmed[open+1] != '#' {
		return "", NullSpan(), content
	}
	id := trimmed[open+2 : len(trimmed)-1]
	if !isValidHeadingLabel(id) {
		return "", NullSpan(), content
	}
	anchor := rawLine{line: ln, col: baseCol}
	start := anchor.posAt(baseCol+open, false)
	end := anchor.posAt(baseCol+len(trimmed), true)
	return id, Span{Start: start, End: end}, strings.TrimRight(content[:open], " \t")
}

// isValidHeadingLabel reports whether id is an acceptable explicit
// heading label: a letter followed by letters, digits, '-', '_', ':',
// or '.', matching the restricted id grammar the Pandoc/kramdown
// header-attribute extension itself uses rather than accepting
// arbitrary text into an HTML id attribute.
func isValidHeadingLabel(id string) bool {
	if id == "" || !isASCIILetter(id[0]) {
		return false
	}
	for i := 1; i < len(id); i++ {
		c := id[i]
		if !(isASCIILetter(c) || isASCIIDigit(c) || strings.IndexByte("-_:.", c) >= 0) {
			return false
		}
	}
	return true
}

func promoteSetext(leaf openLeaf, level int, underline rawLine) *Heading {
	p := &Paragraph{base: base{span: Span{Start: leaf.start, End: leaf.lines[len(leaf.lines)-1].endPos()}}}
	p.append(parseInlinesFromRawLines(leaf.lines)...)
	return &Heading{
		base:     base{span: Span{Start: leaf.start, End: underline.endPos()}},
		P:        p,
		Level:    level,
		LabelPos: NullSpan(),
	}
}

// finalizeLeaf converts ctx's in-progress leaf (if any) into a
// finished Item and appends it to ctx.items.
func finalizeLeaf(ctx *blockCtx) {
	switch ctx.leaf.kind {
	case leafParagraph:
		if len(ctx.leaf.lines) == 0 {
			break
		}
		p := &Paragraph{base: base{span: Span{Start: ctx.leaf.start, End: ctx.leaf.lines[len(ctx.leaf.lines)-1].endPos()}}}
		p.append(parseInlinesFromRawLines(ctx.leaf.lines)...)
		ctx.items = append(ctx.items, p)
	case leafFence:
		var b strings.Builder
		for i, l := range ctx.leaf.lines {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(l.text())
		}
		end := ctx.leaf.start
		if len(ctx.leaf.lines) > 0 {
			end = ctx.leaf.lines[len(ctx.leaf.lines)-1].endPos()
		}
		ctx.items = append(ctx.items, &Code{
			base:      base{span: Span{Start: ctx.leaf.start, End: end}},
			Text:      b.String(),
			Fenced:    true,
			Syntax:    ctx.leaf.fence.info,
			SyntaxPos: ctx.leaf.infoSpan,
		})
	case leafIndentedCode:
		for len(ctx.leaf.lines) > 0 && isBlankString(ctx.leaf.lines[len(ctx.leaf.lines)-1].text()) {
			ctx.leaf.lines = ctx.leaf.lines[:len(ctx.leaf.lines)-1]
		}
		if len(ctx.leaf.lines) == 0 {
			break
		}
		var b strings.Builder
		for i, l := range ctx.leaf.lines {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(l.text())
		}
		ctx.items = append(ctx.items, &Code{
			base: base{span: Span{Start: ctx.leaf.start, End: ctx.leaf.lines[len(ctx.leaf.lines)-1].endPos()}},
			Text: b.String(),
		})
	case leafHTML:
		var b strings.Builder
		for i, l := range ctx.leaf.lines {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(l.text())
		}
		end := ctx.leaf.start
		if len(ctx.leaf.lines) > 0 {
			end = ctx.leaf.lines[len(ctx.leaf.lines)-1].endPos()
		}
		ctx.items = append(ctx.items, &RawHtml{base: base{span: Span{Start: ctx.leaf.start, End: end}}, Text: b.String()})
	}
	ctx.leaf = openLeaf{}
}

// finalizeContainer converts a popped quote/item/footnote ctx into its
// Item, recursively resolving its own accumulated children.
func finalizeContainer(ctx *blockCtx) Item {
	switch ctx.kind {
	case "quote":
		bq := &Blockquote{base: base{span: Span{Start: ctx.start, End: lastEnd(ctx)}}}
		bq.children = ctx.items
		return bq
	case "item":
		li := &ListItem{
			base:             base{span: Span{Start: ctx.start, End: lastEnd(ctx)}},
			Ordered:          ctx.ordered,
			StartNumber:      ctx.startNumber,
			IsTask:           ctx.isTask,
			Checked:          ctx.checked,
			Delim:            ctx.delim,
			TaskDelim:        ctx.taskDelim,
			OrderedPreState:  ctx.pre,
			hadInternalBlank: ctx.hadBlank,
		}
		li.children = ctx.items
		return li
	case "footnote":
		fn := &Footnote{base: base{span: Span{Start: ctx.start, End: lastEnd(ctx)}}, ID: ctx.footnoteID, IDPos: ctx.idSpan}
		fn.children = ctx.items
		return fn
	}
	panic("unreachable")
}

func lastEnd(ctx *blockCtx) Position {
	if len(ctx.items) == 0 {
		return ctx.start
	}
	return ctx.items[len(ctx.items)-1].Position().End
}

// attachToParent appends item (a finalized quote/item/footnote) to
// parent, grouping consecutive compatible ListItems into a List and
// threading the precedingBlank flag used for loose/tight determination:
// a list is loose if a blank line separates any of its items, or if an
// item's own content was separated by a blank line.
func attachToParent(parent *blockCtx, item Item, precedingBlank bool) {
	li, isItem := item.(*ListItem)
	if !isItem {
		parent.items = append(parent.items, item)
		return
	}
	if n := len(parent.items); n > 0 {
		if list, ok := parent.items[n-1].(*List); ok {
			last := list.children[len(list.children)-1].(*ListItem)
			if last.Ordered == li.Ordered && last.Delim == li.Delim {
				if precedingBlank || li.hadInternalBlank {
					list.Tight = false
				}
				list.append(li)
				list.span.End = li.span.End
				return
			}
		}
	}
	list := &List{base: base{span: li.span}, Ordered: li.Ordered, Delim: li.Delim, Tight: !li.hadInternalBlank}
	list.append(li)
	parent.items = append(parent.items, list)
}

// linkDefItem is a transient placeholder for one link reference
// definition, "[label]: dest "title"". It is never part of the
// final tree: collectReferences strips every linkDefItem out of the
// parsed document while registering it into the owning Document's
// ReferenceStore, since definitions are consulted during reference
// resolution but are not themselves visible content.
type linkDefItem struct {
	base
	label, url, title string
}

func (linkDefItem) Kind() Kind     { return 0 }
func (d *linkDefItem) Clone() Item { c := *d; return &c }

// tryParseLinkRefDef recognizes a single-line link reference
// definition. Multi-line destination/title continuations (legal in
// full CommonMark) are not supported; this is the common single-line
// form every reference definition in practice uses.
func tryParseLinkRefDef(rest string) (label, dest, title string, ok bool) {
	if !strings.HasPrefix(rest, "[") {
		return "", "", "", false
	}
	end := strings.IndexByte(rest, ']')
	if end < 0 || end == 1 || end+1 >= len(rest) || rest[end+1] != ':' {
		return "", "", "", false
	}
	label = rest[1:end]
	i := end + 2
	i = skipInlineSpace(rest, i)
	d, n, dok := parseLinkDestination(rest[i:])
	if !dok {
		return "", "", "", false
	}
	dest = normalizeLinkURL(d)
	i += n
	rem := strings.TrimSpace(rest[i:])
	if rem != "" {
		t, _, tok := parseLinkTitle(rem)
		if !tok {
			return "", "", "", false
		}
		title = t
	}
	return label, dest, title, true
}
