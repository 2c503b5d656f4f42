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

// LineKind is the classification [classify] assigns to one line, given
// the state of its enclosing containers.
type LineKind int

const (
	EmptyLine LineKind = 1 + iota
	TextLine
	ATXHeadingLine
	SetextH1UnderlineLine
	SetextH2UnderlineLine
	HorizontalRuleLine
	FencedCodeFenceLine
	IndentedCodeLine
	BlockquoteLine
	ListItemLine
	FootnoteLine
	HTMLBlockOpenerLine
	TableAlignmentLine
)

// codeBlockIndentLimit is the column width of indentation required to
// start (or continue) an indented code block; below this width a line
// opener is still eligible to be recognized as a container/block start.
const codeBlockIndentLimit = 4

// classifyContext carries the state [classify] needs from the enclosing
// containers: whether we're inside a list, whether the previous line
// was blank, whether a fenced code block opened inside the current list
// item, the stack of indents required by each nested list, and whether
// a lazy continuation at this line is permitted to also end the
// enclosing list (propagated down from [LineMeta.MayBreakList]).
type classifyContext struct {
	inList               bool
	prevLineEmpty        bool
	fencedCodeOpenInList bool
	listIndents          []int
	mayBreakList         bool
}

// classify inspects one transformed line (tabs already expanded) and
// returns its [LineKind]. It does not consume or mutate anything; it is
// a pure lookahead used by the block splitter to decide how to
// transition.
func classify(line string, ctx classifyContext) LineKind {
	if isBlankString(line) {
		return EmptyLine
	}
	indent, rest := leadingIndent(line)
	if indent >= codeBlockIndentLimit {
		if ctx.inList && indent >= currentListIndent(ctx) {
			return TextLine
		}
		return IndentedCodeLine
	}
	switch {
	case parseATXHeading(rest).level > 0:
		return ATXHeadingLine
	case parseCodeFence(rest).n > 0:
		return FencedCodeFenceLine
	case strings.HasPrefix(rest, ">"):
		return BlockquoteLine
	case parseFootnoteOpener(rest) != "":
		return FootnoteLine
	case parseThematicBreak(rest) >= 0:
		// Checked ahead of parseListMarker: a run like "- - -" parses as
		// both, and CommonMark gives the thematic break precedence.
		return HorizontalRuleLine
	case parseListMarker(rest).end >= 0:
		return ListItemLine
	case isHTMLBlockOpener(rest):
		return HTMLBlockOpenerLine
	case isTableAlignmentRow(rest):
		return TableAlignmentLine
	default:
		if level := parseSetextUnderline(rest); level == 1 {
			return SetextH1UnderlineLine
		} else if level == 2 {
			return SetextH2UnderlineLine
		}
		return TextLine
	}
}

func currentListIndent(ctx classifyContext) int {
	if len(ctx.listIndents) == 0 {
		return codeBlockIndentLimit
	}
	return ctx.listIndents[len(ctx.listIndents)-1]
}

func isBlankString(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n':
		default:
			return false
		}
	}
	return true
}

// leadingIndent returns the column width of leading spaces/tabs (tabs
// already expanded to spaces by [InternalString]) and the remainder.
func leadingIndent(line string) (int, string) {
	i := 0
	for i < len(line) && line[i] == ' ' {
		i++
	}
	return i, line[i:]
}

func isASCIILetter(c byte) bool {
	return 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z'
}

func isASCIIDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// parseFootnoteOpener recognizes a footnote-definition opener,
// "[^<id>]:" at column < 4 with <id> containing no whitespace and not
// starting with "^]". It returns the id, or "" if line does not
// open a footnote.
func parseFootnoteOpener(line string) string {
	if !strings.HasPrefix(line, "[^") {
		return ""
	}
	rest := line[2:]
	if strings.HasPrefix(rest, "]") {
		return ""
	}
	end := strings.IndexByte(rest, ']')
	if end < 0 {
		return ""
	}
	id := rest[:end]
	if id == "" || strings.ContainsAny(id, " \t\r\n") {
		return ""
	}
	after := rest[end+1:]
	if !strings.HasPrefix(after, ":") {
		return ""
	}
	return id
}

// isTableAlignmentRow reports whether line is a valid GFM table
// alignment row: cells made only of '-', optionally bounded by ':',
// separated by unescaped '|'.
func isTableAlignmentRow(line string) bool {
	line = strings.TrimSpace(line)
	line = strings.Trim(line, "|")
	if line == "" {
		return false
	}
	cells := splitTableRow(line)
	if len(cells) == 0 {
		return false
	}
	for _, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			return false
		}
		i := 0
		if i < len(cell) && cell[i] == ':' {
			i++
		}
		j := len(cell)
		if j > i && cell[j-1] == ':' {
			j--
		}
		if i >= j {
			return false
		}
		for k := i; k < j; k++ {
			if cell[k] != '-' {
				return false
			}
		}
	}
	return true
}

// splitTableRow splits a GFM table row on unescaped '|'.
func splitTableRow(line string) []string {
	var cells []string
	var b strings.Builder
	escaped := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case escaped:
			b.WriteByte(c)
			escaped = false
		case c == '\\':
			b.WriteByte(c)
			escaped = true
		case c == '|':
			cells = append(cells, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	cells = append(cells, b.String())
	return cells
}
